package kmeans

import (
	"gonum.org/v1/gonum/floats"

	"github.com/yyyoichi/subsidy_cluster/internal/scale"
)

// AverageStore accumulates the members of one cluster during an update step.
type AverageStore struct {
	sum   scale.Vector
	count int
}

func (s *AverageStore) Add(v scale.Vector) {
	floats.Add(s.sum[:], v[:])
	s.count += 1
}

// Average returns the mean of the added vectors. It must not be called on an
// empty store.
func (s *AverageStore) Average() scale.Vector {
	var avr scale.Vector
	for d := range avr {
		avr[d] = s.sum[d] / float64(s.count)
	}
	return avr
}

func (s *AverageStore) Count() int { return s.count }

func (s *AverageStore) Sum() scale.Vector { return s.sum }

func (s *AverageStore) Reset() {
	s.sum = scale.Vector{}
	s.count = 0
}
