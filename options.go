package cluster

import (
	"fmt"
	"log/slog"
)

type Option func(*Cluster) error

// WithK sets the number of clusters.
// It is checked against the number of records when Run is called, so k < 1 or
// k greater than the record count fails there with ErrInvalidClusterCount.
func WithK(k int) Option {
	return func(c *Cluster) error {
		c.k = k
		return nil
	}
}

// WithMaxIterations caps the number of centroid refinement steps.
// The default is 100. Values below 1 are rejected.
func WithMaxIterations(n int) Option {
	return func(c *Cluster) error {
		if n < 1 {
			return fmt.Errorf("%w: %d", ErrInvalidMaxIterations, n)
		}
		c.maxIterations = n
		return nil
	}
}

// WithSeed specifies the seed of the k-means++ initialization.
// Runs with the same seed and data produce identical results.
func WithSeed(seed uint64) Option {
	return func(c *Cluster) error {
		c.seed = seed
		return nil
	}
}

// WithInit selects the centroid initialization strategy.
// InitSpaced ignores the seed.
func WithInit(strategy Init) Option {
	return func(c *Cluster) error {
		switch strategy {
		case InitPlusPlus, InitSpaced:
			c.init = strategy
			return nil
		default:
			return fmt.Errorf("unknown init strategy %v", strategy)
		}
	}
}

// WithLogger sets the logger used to report run diagnostics such as constant
// features, empty clusters and runs that hit the iteration cap.
// Nothing is logged by default.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Cluster) error {
		c.logger = logger
		return nil
	}
}
