package cluster

import (
	"log/slog"

	"github.com/yyyoichi/subsidy_cluster/housing"
	"github.com/yyyoichi/subsidy_cluster/internal/kmeans"
	"github.com/yyyoichi/subsidy_cluster/internal/report"
	"github.com/yyyoichi/subsidy_cluster/internal/scale"
)

var (
	ErrEmptyInput           = scale.ErrEmptyInput
	ErrInvalidClusterCount  = kmeans.ErrInvalidClusterCount
	ErrInvalidMaxIterations = kmeans.ErrInvalidMaxIterations
	ErrLabelMismatch        = report.ErrLabelMismatch
)

const (
	DefaultK             = 4
	DefaultMaxIterations = 100
	DefaultSeed          = uint64(1234567890)
)

type (
	// Init selects how starting centroids are chosen.
	Init = kmeans.Init
	// Vector is a normalized (units, subsidies) pair in [0, 1].
	Vector = scale.Vector
	// ScaleParameters hold the per-dimension min and range of the raw features.
	ScaleParameters = scale.Params
	// Summary holds denormalized centroids, cluster sizes and owner type counts.
	Summary = report.Summary
	// Centroid is a cluster center in raw units.
	Centroid = report.Centroid
)

const (
	InitPlusPlus = kmeans.InitPlusPlus
	InitSpaced   = kmeans.InitSpaced
)

// Result is the output of a single clustering run.
type Result struct {
	// Labels[i] is the cluster of records[i].
	Labels []int
	// Centroids are in normalized space; Summary.Centroids has them in raw units.
	Centroids []Vector
	Scale     ScaleParameters
	Summary   Summary
	// Iterations is the number of refinement steps performed.
	Iterations int
	// Converged is false if the iteration cap stopped the run while labels still changed.
	Converged bool
}

// K returns the number of clusters.
func (r *Result) K() int { return len(r.Centroids) }

// Degenerate reports, per dimension (units, subsidies), whether every record
// had the same value so that the dimension played no part in clustering.
func (r *Result) Degenerate() [2]bool {
	return [2]bool{r.Scale.Degenerate(scale.Units), r.Scale.Degenerate(scale.Subsidies)}
}

// Run clusters records with the specified options.
// This is a convenience function that creates a Cluster instance and calls its Run method.
func Run(records []housing.Record, opts ...Option) (*Result, error) {
	c, err := New(opts...)
	if err != nil {
		return nil, err
	}
	return c.Run(records)
}

type Cluster struct {
	k             int
	maxIterations int
	seed          uint64
	init          Init
	logger        *slog.Logger
}

// New initializes a clustering configuration.
// Without options it uses DefaultK clusters, DefaultMaxIterations,
// DefaultSeed and k-means++ initialization.
func New(opts ...Option) (*Cluster, error) {
	c := &Cluster{
		k:             DefaultK,
		maxIterations: DefaultMaxIterations,
		seed:          DefaultSeed,
		init:          InitPlusPlus,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}
	return c, nil
}

// Run partitions records into clusters.
//
// Process:
//  1. Scales unit and subsidy counts to [0, 1] with min-max normalization.
//  2. Runs k-means on the scaled vectors.
//  3. Denormalizes the centroids and tallies cluster sizes and owner types.
//
// Returns ErrEmptyInput for no records and ErrInvalidClusterCount when k is
// below 1 or above the number of records. records is not modified.
func (c *Cluster) Run(records []housing.Record) (*Result, error) {
	vectors, params, err := scale.Scale(records)
	if err != nil {
		return nil, err
	}
	for dim, name := range []string{"total_units", "subsidy_count"} {
		if params.Degenerate(dim) {
			c.logger.Warn("constant feature scaled to zero",
				slog.String("feature", name), slog.Float64("value", params[dim].Min))
		}
	}

	model, err := kmeans.FitPredict(vectors, kmeans.Config{
		K:             c.k,
		MaxIterations: c.maxIterations,
		Seed:          c.seed,
		Init:          c.init,
	})
	if err != nil {
		return nil, err
	}
	attrs := []any{
		slog.Int("records", len(records)),
		slog.Int("k", c.k),
		slog.String("init", c.init.String()),
		slog.Int("iterations", model.Iterations),
	}
	if model.Converged {
		c.logger.Debug("k-means converged", attrs...)
	} else {
		c.logger.Warn("k-means stopped at iteration cap", append(attrs, slog.Int("max_iterations", c.maxIterations))...)
	}

	summary, err := report.Summarize(records, model.Labels, model.Centroids, params)
	if err != nil {
		return nil, err
	}
	for _, e := range summary.EmptyClusters() {
		c.logger.Info("cluster has no members", slog.Int("cluster", e))
	}

	return &Result{
		Labels:     model.Labels,
		Centroids:  model.Centroids,
		Scale:      params,
		Summary:    summary,
		Iterations: model.Iterations,
		Converged:  model.Converged,
	}, nil
}
