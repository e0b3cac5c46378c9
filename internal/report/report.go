// Package report derives per-cluster statistics from a finished clustering run.
package report

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"

	"github.com/yyyoichi/subsidy_cluster/housing"
	"github.com/yyyoichi/subsidy_cluster/internal/scale"
)

var ErrLabelMismatch = errors.New("labels do not match records")

// Centroid is a cluster center in raw units, rounded to whole units and subsidies.
type Centroid struct {
	TotalUnits   int
	SubsidyCount int
}

type Summary struct {
	Centroids []Centroid
	// Sizes[c] is the number of records labeled c.
	Sizes []int
	// OwnerDistribution[c] counts owner types among the records labeled c.
	OwnerDistribution []map[string]int
}

// Summarize denormalizes the centroids and tallies cluster sizes and owner
// types. Every cluster in [0, len(centroids)) gets an entry, empty ones included.
func Summarize(records []housing.Record, labels []int, centroids []scale.Vector, params scale.Params) (Summary, error) {
	if len(labels) != len(records) {
		return Summary{}, fmt.Errorf("%w: %d labels for %d records", ErrLabelMismatch, len(labels), len(records))
	}
	k := len(centroids)
	s := Summary{
		Centroids:         make([]Centroid, k),
		Sizes:             make([]int, k),
		OwnerDistribution: make([]map[string]int, k),
	}
	for c, v := range centroids {
		raw := params.Denormalize(v)
		s.Centroids[c] = Centroid{
			TotalUnits:   int(math.Round(raw[scale.Units])),
			SubsidyCount: int(math.Round(raw[scale.Subsidies])),
		}
		s.OwnerDistribution[c] = make(map[string]int)
	}
	for i, c := range labels {
		if c < 0 || c >= k {
			return Summary{}, fmt.Errorf("%w: label %d of record %d outside [0,%d)", ErrLabelMismatch, c, i, k)
		}
		s.Sizes[c]++
		s.OwnerDistribution[c][records[i].OwnerType]++
	}
	return s, nil
}

func (s Summary) K() int { return len(s.Sizes) }

// Owners returns the owner types seen in cluster c, sorted by name.
func (s Summary) Owners(c int) []string {
	return slices.Sorted(maps.Keys(s.OwnerDistribution[c]))
}

// EmptyClusters returns the indexes of clusters without members.
func (s Summary) EmptyClusters() []int {
	var empty []int
	for c, n := range s.Sizes {
		if n == 0 {
			empty = append(empty, c)
		}
	}
	return empty
}
