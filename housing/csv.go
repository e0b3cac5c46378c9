package housing

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

var (
	ErrMissingColumn = errors.New("missing required csv column")
	ErrInvalidValue  = errors.New("invalid value")
)

// LoadResult is the outcome of reading a CSV stream.
// Rows that cannot be parsed are skipped and described in Errors.
type LoadResult struct {
	Records []Record
	Total   int
	Skipped int
	Errors  []string
}

// LoadCSVFile opens path and reads it with LoadCSV.
func LoadCSVFile(ctx context.Context, path string) (*LoadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open csv: %w", err)
	}
	defer f.Close()
	return LoadCSV(ctx, f)
}

// LoadCSV reads records from a CSV stream with a header row.
//
// The columns TotalUnits, ActiveSubs and OwnerType are required; their names
// are matched case-insensitively and any other column is ignored.
// A row whose counts are not non-negative integers, or whose owner type is
// blank, is skipped rather than failing the whole load, and so is a row with
// malformed quoting. Errors of the underlying reader end the load.
func LoadCSV(ctx context.Context, r io.Reader) (*LoadResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return &LoadResult{}, nil
		}
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	cols, err := columnIndex(headers)
	if err != nil {
		return nil, err
	}

	result := &LoadResult{}
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil && !errors.As(err, new(*csv.ParseError)) {
			return nil, fmt.Errorf("failed to read csv: %w", err)
		}
		result.Total++
		line := result.Total + 1 // header is line 1
		if err != nil {
			result.skip(fmt.Sprintf("line %d: %v", line, err))
			continue
		}
		rec, err := cols.parse(row)
		if err != nil {
			result.skip(fmt.Sprintf("line %d: %v", line, err))
			continue
		}
		result.Records = append(result.Records, rec)
	}
	return result, nil
}

func (r *LoadResult) skip(msg string) {
	r.Skipped++
	r.Errors = append(r.Errors, msg)
}

type columns struct {
	units, subsidies, owner int
}

func columnIndex(headers []string) (columns, error) {
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		// the first header may carry a UTF-8 BOM
		h = strings.TrimPrefix(h, "\ufeff")
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	var c columns
	for _, col := range []struct {
		name string
		dst  *int
	}{
		{ColumnTotalUnits, &c.units},
		{ColumnActiveSubs, &c.subsidies},
		{ColumnOwnerType, &c.owner},
	} {
		i, ok := index[strings.ToLower(col.name)]
		if !ok {
			return columns{}, fmt.Errorf("%w: %s", ErrMissingColumn, col.name)
		}
		*col.dst = i
	}
	return c, nil
}

func (c columns) parse(row []string) (Record, error) {
	get := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}
	units, err := parseCount(get(c.units))
	if err != nil {
		return Record{}, fmt.Errorf("%s: %w", ColumnTotalUnits, err)
	}
	subs, err := parseCount(get(c.subsidies))
	if err != nil {
		return Record{}, fmt.Errorf("%s: %w", ColumnActiveSubs, err)
	}
	owner := get(c.owner)
	if owner == "" {
		return Record{}, fmt.Errorf("%s: %w: empty", ColumnOwnerType, ErrInvalidValue)
	}
	return Record{TotalUnits: units, SubsidyCount: subs, OwnerType: owner}, nil
}

// parseCount accepts "12" as well as integral floats like "12.0".
func parseCount(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 {
			return 0, fmt.Errorf("%w: negative count %q", ErrInvalidValue, s)
		}
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, fmt.Errorf("%w: not an integer %q", ErrInvalidValue, s)
	}
	if f < 0 || f > math.MaxInt32 {
		return 0, fmt.Errorf("%w: count out of range %q", ErrInvalidValue, s)
	}
	return int(f), nil
}
