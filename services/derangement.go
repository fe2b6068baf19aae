package services

import (
	"math/rand/v2"
	"slices"
)

const DefaultMaxAttempts = 1000

// Deranger draws a random permutation of participant ids in which nobody is
// mapped to themselves. Each attempt is a Fisher-Yates shuffle; attempts that
// leave a fixed point are rejected and the permutation is shuffled again.
type Deranger struct {
	MaxAttempts int
	// IntN returns a uniform integer in [0, n).
	IntN func(n int) int
}

func NewDeranger(maxAttempts int) *Deranger {
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Deranger{
		MaxAttempts: maxAttempts,
		IntN:        rand.IntN,
	}
}

// Derange returns a giver -> recipient mapping over ids together with the
// number of shuffles it took. ids must be distinct.
func (d *Deranger) Derange(ids []uint) (map[uint]uint, int, error) {
	n := len(ids)
	if n < 2 {
		return nil, 0, ErrInsufficientParticipants
	}

	intN := d.IntN
	if intN == nil {
		intN = rand.IntN
	}

	shuffled := slices.Clone(ids)
	for attempt := 1; attempt <= d.MaxAttempts; attempt++ {
		for i := n - 1; i > 0; i-- {
			j := intN(i + 1)
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		}

		if !hasFixedPoint(ids, shuffled) {
			pairs := make(map[uint]uint, n)
			for i, giver := range ids {
				pairs[giver] = shuffled[i]
			}
			return pairs, attempt, nil
		}
	}

	return nil, d.MaxAttempts, ErrNoValidDerangement
}

func hasFixedPoint(original, permuted []uint) bool {
	for i := range original {
		if original[i] == permuted[i] {
			return true
		}
	}
	return false
}
