package scale

import (
	"errors"

	"github.com/yyyoichi/subsidy_cluster/housing"
)

var ErrEmptyInput = errors.New("no records to scale")

// Feature dimensions of a Vector.
const (
	Units     = 0
	Subsidies = 1
)

// Vector is a record's (units, subsidies) position, normalized to [0, 1].
type Vector [2]float64

// Dimension holds the observed minimum and range (max - min) of one feature.
type Dimension struct {
	Min   float64
	Range float64
}

// Params are the per-dimension parameters needed to map normalized values
// back to raw units.
type Params [2]Dimension

// Degenerate reports whether every record had the same value on dim.
// Such a dimension is scaled to 0 for all records.
func (p Params) Degenerate(dim int) bool {
	return p[dim].Range == 0
}

// Denormalize maps a normalized vector back to raw units.
func (p Params) Denormalize(v Vector) Vector {
	var raw Vector
	for d := range v {
		raw[d] = v[d]*p[d].Range + p[d].Min
	}
	return raw
}

// Scale normalizes each record's unit and subsidy counts with min-max scaling.
//
// The returned vectors keep the order of records. A dimension whose values are
// all equal has a zero range and every value on it becomes 0.
func Scale(records []housing.Record) ([]Vector, Params, error) {
	if len(records) == 0 {
		return nil, Params{}, ErrEmptyInput
	}

	raw := make([]Vector, len(records))
	var lo, hi Vector
	for i, r := range records {
		raw[i] = Vector{float64(r.TotalUnits), float64(r.SubsidyCount)}
		if i == 0 {
			lo, hi = raw[i], raw[i]
			continue
		}
		for d, v := range raw[i] {
			if v < lo[d] {
				lo[d] = v
			}
			if v > hi[d] {
				hi[d] = v
			}
		}
	}

	var p Params
	for d := range p {
		p[d] = Dimension{Min: lo[d], Range: hi[d] - lo[d]}
	}
	for i := range raw {
		for d := range raw[i] {
			if p[d].Range > 0 {
				raw[i][d] = (raw[i][d] - p[d].Min) / p[d].Range
			} else {
				raw[i][d] = 0
			}
		}
	}
	return raw, p, nil
}
