// Package chart renders clustering results as an interactive HTML scatter chart.
package chart

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	cluster "github.com/yyyoichi/subsidy_cluster"
	"github.com/yyyoichi/subsidy_cluster/housing"
)

const (
	Title  = "Clustered Housing Properties (Units vs. Subsidies)"
	XLabel = "Total Units"
	YLabel = "Active Subsidies"

	width  = "1600px"
	height = "1200px"
)

// crossSymbol draws an "X" marker for centroids.
const crossSymbol = "path://M2,0 L5,3 L8,0 L10,2 L7,5 L10,8 L8,10 L5,7 L2,10 L0,8 L3,5 L0,2 Z"

var palette = []string{
	"#e41a1c", // red
	"#377eb8", // blue
	"#4daf4a", // green
	"#984ea3", // purple
}

// Color returns the series color of cluster i.
// Clusters beyond the palette are drawn in black.
func Color(i int) string {
	if i >= 0 && i < len(palette) {
		return palette[i]
	}
	return "#000000"
}

// New builds a scatter chart of the records in raw units with one series per
// cluster and an X marker at the centroid of every non-empty cluster.
func New(records []housing.Record, res *cluster.Result) (*charts.Scatter, error) {
	if len(res.Labels) != len(records) {
		return nil, fmt.Errorf("%w: %d labels for %d records", cluster.ErrLabelMismatch, len(res.Labels), len(records))
	}
	k := res.K()

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: Title,
			Width:     width,
			Height:    height,
		}),
		charts.WithTitleOpts(opts.Title{Title: Title}),
		charts.WithXAxisOpts(opts.XAxis{
			Name:         XLabel,
			NameLocation: "middle",
			Type:         "value",
			Scale:        opts.Bool(true),
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:         YLabel,
			NameLocation: "middle",
			Type:         "value",
			Scale:        opts.Bool(true),
		}),
		charts.WithLegendOpts(opts.Legend{
			Show:   opts.Bool(true),
			Right:  "2%",
			Top:    "2%",
			Orient: "vertical",
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "item",
		}),
	)

	points := make([][]opts.ScatterData, k)
	for i, r := range records {
		c := res.Labels[i]
		if c < 0 || c >= k {
			return nil, fmt.Errorf("%w: label %d of record %d outside [0,%d)", cluster.ErrLabelMismatch, c, i, k)
		}
		points[c] = append(points[c], opts.ScatterData{
			Value:      []any{r.TotalUnits, r.SubsidyCount},
			Name:       r.OwnerType,
			Symbol:     "circle",
			SymbolSize: 8,
		})
	}
	for c := range k {
		scatter.AddSeries(fmt.Sprintf("Cluster %d", c), points[c],
			charts.WithItemStyleOpts(opts.ItemStyle{Color: Color(c)}),
		)
	}

	for c, centroid := range res.Summary.Centroids {
		if res.Summary.Sizes[c] == 0 {
			continue
		}
		scatter.AddSeries(fmt.Sprintf("Centroid %d", c), []opts.ScatterData{{
			Value:      []any{centroid.TotalUnits, centroid.SubsidyCount},
			Name:       fmt.Sprintf("Cluster %d: %d properties", c, res.Summary.Sizes[c]),
			Symbol:     crossSymbol,
			SymbolSize: 20,
		}}, charts.WithItemStyleOpts(opts.ItemStyle{Color: Color(c)}))
	}
	return scatter, nil
}

// Render writes the chart of New as an HTML page to w.
func Render(w io.Writer, records []housing.Record, res *cluster.Result) error {
	scatter, err := New(records, res)
	if err != nil {
		return err
	}
	return scatter.Render(w)
}

// NextPath returns the first dir/prefix_N.ext, counting N from 1, that does
// not exist yet. Earlier charts are therefore never overwritten.
func NextPath(dir, prefix, ext string) (string, error) {
	for n := 1; ; n++ {
		path := filepath.Join(dir, fmt.Sprintf("%s_%d.%s", prefix, n, ext))
		_, err := os.Stat(path)
		if errors.Is(err, os.ErrNotExist) {
			return path, nil
		}
		if err != nil {
			return "", err
		}
	}
}

// WriteFile renders the chart into a new clusters_N.html file under dir,
// creating dir if needed, and returns the file path.
func WriteFile(dir string, records []housing.Record, res *cluster.Result) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	path, err := NextPath(dir, "clusters", "html")
	if err != nil {
		return "", err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return "", err
	}
	if err := Render(f, records, res); err != nil {
		f.Close()
		return "", err
	}
	return path, f.Close()
}
