package forecast

import (
	"math/rand/v2"
	"sync"

	"gonum.org/v1/gonum/stat/distuv"
)

// Source yields standard normal samples (mean 0, stddev 1).
type Source interface {
	NormFloat64() float64
}

// Zero is a Source that always returns 0. Forecasts drawn with it equal the
// rotated historical values exactly.
var Zero Source = zeroSource{}

type zeroSource struct{}

func (zeroSource) NormFloat64() float64 { return 0 }

// NewSource returns the process-wide generator when seed is nil, otherwise a
// reproducible generator seeded with *seed. Both are safe for concurrent use.
func NewSource(seed *uint64) Source {
	if seed == nil {
		return globalSource{}
	}
	return &seededSource{dist: distuv.Normal{Mu: 0, Sigma: 1, Src: rand.NewPCG(*seed, *seed)}}
}

type globalSource struct{}

func (globalSource) NormFloat64() float64 { return rand.NormFloat64() }

// seededSource serializes draws because the PCG state behind dist is not
// safe for concurrent use.
type seededSource struct {
	mu   sync.Mutex
	dist distuv.Normal
}

func (s *seededSource) NormFloat64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dist.Rand()
}
