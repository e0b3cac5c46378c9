package kmeans

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/sampleuv"

	"github.com/yyyoichi/subsidy_cluster/internal/scale"
)

var (
	ErrEmptyInput           = errors.New("no vectors to cluster")
	ErrInvalidClusterCount  = errors.New("invalid cluster count")
	ErrInvalidMaxIterations = errors.New("invalid max iterations")
)

// Init selects how the starting centroids are chosen.
type Init int

const (
	// InitPlusPlus is k-means++ seeding driven by Config.Seed.
	InitPlusPlus Init = iota
	// InitSpaced takes the vectors at evenly spaced indexes i*n/k.
	InitSpaced
)

func (i Init) String() string {
	switch i {
	case InitPlusPlus:
		return "kmeans++"
	case InitSpaced:
		return "spaced"
	default:
		return fmt.Sprintf("Init(%d)", int(i))
	}
}

type Config struct {
	K             int
	MaxIterations int
	Seed          uint64
	Init          Init
}

// Model is the outcome of one clustering run.
type Model struct {
	// Labels holds the cluster index of every input vector.
	Labels []int
	// Centroids are in normalized space, one per cluster.
	Centroids []scale.Vector
	// Iterations is the number of centroid refinement steps performed.
	Iterations int
	// Converged is false when MaxIterations was reached while labels were still changing.
	Converged bool
}

// FitPredict partitions vectors into cfg.K clusters with Lloyd's algorithm.
//
// Each iteration assigns every vector to its nearest centroid and then moves
// every non-empty cluster's centroid to the mean of its members. The loop stops
// once an assignment changes no label or after cfg.MaxIterations refinements.
// If the cap is hit, labels are recomputed against the final centroids.
func FitPredict(vectors []scale.Vector, cfg Config) (*Model, error) {
	n := len(vectors)
	if n == 0 {
		return nil, ErrEmptyInput
	}
	if cfg.K < 1 || cfg.K > n {
		return nil, fmt.Errorf("%w: k=%d with %d vectors", ErrInvalidClusterCount, cfg.K, n)
	}
	if cfg.MaxIterations < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMaxIterations, cfg.MaxIterations)
	}

	var centroids []scale.Vector
	switch cfg.Init {
	case InitSpaced:
		centroids = spacedCentroids(vectors, cfg.K)
	default:
		centroids = plusPlusCentroids(vectors, cfg.K, cfg.Seed)
	}

	m := &Model{
		Labels:    make([]int, n),
		Centroids: centroids,
	}
	for i := range m.Labels {
		m.Labels[i] = -1
	}

	stores := make([]AverageStore, cfg.K)
	for range cfg.MaxIterations {
		if !assign(vectors, m.Centroids, m.Labels) {
			m.Converged = true
			break
		}
		update(vectors, m.Labels, m.Centroids, stores)
		m.Iterations++
	}
	if !m.Converged {
		m.Converged = !assign(vectors, m.Centroids, m.Labels)
	}
	return m, nil
}

// Nearest returns the index of the centroid closest to v by squared Euclidean
// distance. Exact ties go to the lowest index.
func Nearest(v scale.Vector, centroids []scale.Vector) int {
	best := 0
	bestDist := sqDist(v, centroids[0])
	for j := 1; j < len(centroids); j++ {
		if d := sqDist(v, centroids[j]); d < bestDist {
			best, bestDist = j, d
		}
	}
	return best
}

// assign relabels every vector and reports whether any label changed.
func assign(vectors, centroids []scale.Vector, labels []int) bool {
	changed := false
	for i, v := range vectors {
		if c := Nearest(v, centroids); labels[i] != c {
			labels[i] = c
			changed = true
		}
	}
	return changed
}

// update moves each centroid to the mean of its members.
// A cluster without members keeps its previous position.
func update(vectors []scale.Vector, labels []int, centroids []scale.Vector, stores []AverageStore) {
	for j := range stores {
		stores[j].Reset()
	}
	for i, v := range vectors {
		stores[labels[i]].Add(v)
	}
	for j := range centroids {
		if stores[j].Count() > 0 {
			centroids[j] = stores[j].Average()
		}
	}
}

func spacedCentroids(vectors []scale.Vector, k int) []scale.Vector {
	n := len(vectors)
	centroids := make([]scale.Vector, k)
	for i := range centroids {
		centroids[i] = vectors[i*n/k]
	}
	return centroids
}

// plusPlusCentroids picks the first centroid uniformly and every following one
// with probability proportional to the squared distance from the nearest
// centroid chosen so far. When all remaining vectors coincide with chosen
// centroids the lowest unchosen index is used.
func plusPlusCentroids(vectors []scale.Vector, k int, seed uint64) []scale.Vector {
	n := len(vectors)
	weights := make([]float64, n)
	for i := range weights {
		weights[i] = 1
	}
	sampler := sampleuv.NewWeighted(weights, rand.NewPCG(seed, seed))
	chosen := make([]bool, n)
	centroids := make([]scale.Vector, 0, k)

	pick := func(idx int) {
		chosen[idx] = true
		centroids = append(centroids, vectors[idx])
	}

	idx, _ := sampler.Take()
	pick(idx)
	for len(centroids) < k {
		for i, v := range vectors {
			if chosen[i] {
				weights[i] = 0
				continue
			}
			weights[i] = sqDist(v, centroids[Nearest(v, centroids)])
		}
		sampler.ReweightAll(weights)
		idx, ok := sampler.Take()
		if !ok || chosen[idx] {
			idx = firstUnchosen(chosen)
		}
		pick(idx)
	}
	return centroids
}

func firstUnchosen(chosen []bool) int {
	for i, c := range chosen {
		if !c {
			return i
		}
	}
	// unreachable while k <= n
	return 0
}

func sqDist(a, b scale.Vector) float64 {
	du := a[0] - b[0]
	ds := a[1] - b[1]
	return du*du + ds*ds
}
