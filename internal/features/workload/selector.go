package workload

import (
	"math/rand/v2"

	"crud-service/internal/config"
)

// Selector decides which mutation a tick performs from the current population.
//
//	n <  min: INSERT, no draw
//	n >= max: UPDATE 60, SOFT_DELETE 25, HARD_DELETE 15
//	else:     INSERT 40, UPDATE 30, SOFT_DELETE 15, HARD_DELETE 15
type Selector struct {
	minUsers int64
	maxUsers int64
	rng      *rand.Rand
}

func NewSelector(cfg *config.Config, rng *rand.Rand) *Selector {
	return &Selector{minUsers: cfg.MinUsers, maxUsers: cfg.MaxUsers, rng: rng}
}

// Choose routes population n, drawing from the random source only when the
// floor does not force an insert.
func (s *Selector) Choose(n int64) Operation {
	if n < s.minUsers {
		return OpInsert
	}
	return s.Route(n, s.rng.IntN(100))
}

// Route maps a population and a draw in [0,100) to an operation.
func (s *Selector) Route(n int64, draw int) Operation {
	switch {
	case n < s.minUsers:
		return OpInsert
	case n >= s.maxUsers:
		switch {
		case draw < 60:
			return OpUpdate
		case draw < 85:
			return OpSoftDelete
		default:
			return OpHardDelete
		}
	default:
		switch {
		case draw < 40:
			return OpInsert
		case draw < 70:
			return OpUpdate
		case draw < 85:
			return OpSoftDelete
		default:
			return OpHardDelete
		}
	}
}
