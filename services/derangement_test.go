package services

import (
	"errors"
	"math/rand/v2"
	"testing"
)

func TestDerangeRejectsTooFewIDs(t *testing.T) {
	d := NewDeranger(10)

	tests := []struct {
		name string
		ids  []uint
	}{
		{"nil", nil},
		{"empty", []uint{}},
		{"single", []uint{7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pairs, _, err := d.Derange(tt.ids)
			if !errors.Is(err, ErrInsufficientParticipants) {
				t.Fatalf("expected ErrInsufficientParticipants, got %v", err)
			}
			if pairs != nil {
				t.Errorf("expected no pairs, got %v", pairs)
			}
		})
	}
}

func TestDerangeTwoIDsSwaps(t *testing.T) {
	d := NewDeranger(DefaultMaxAttempts)
	d.IntN = rand.New(rand.NewPCG(1, 2)).IntN

	for i := 0; i < 50; i++ {
		pairs, _, err := d.Derange([]uint{10, 20})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if pairs[10] != 20 || pairs[20] != 10 {
			t.Fatalf("expected a swap, got %v", pairs)
		}
	}
}

func TestDerangeIsBijectionWithoutFixedPoints(t *testing.T) {
	d := NewDeranger(DefaultMaxAttempts)
	d.IntN = rand.New(rand.NewPCG(42, 7)).IntN

	for n := 2; n <= 12; n++ {
		ids := make([]uint, n)
		for i := range ids {
			ids[i] = uint(100 + i*3)
		}

		for run := 0; run < 200; run++ {
			pairs, attempts, err := d.Derange(ids)
			if err != nil {
				t.Fatalf("n=%d: unexpected error: %v", n, err)
			}
			if attempts < 1 || attempts > d.MaxAttempts {
				t.Fatalf("n=%d: attempts out of range: %d", n, attempts)
			}
			if len(pairs) != n {
				t.Fatalf("n=%d: expected %d pairs, got %d", n, n, len(pairs))
			}

			seen := make(map[uint]bool, n)
			for _, giver := range ids {
				recipient, ok := pairs[giver]
				if !ok {
					t.Fatalf("n=%d: giver %d has no recipient", n, giver)
				}
				if recipient == giver {
					t.Fatalf("n=%d: %d assigned to themselves", n, giver)
				}
				if seen[recipient] {
					t.Fatalf("n=%d: %d received twice", n, recipient)
				}
				seen[recipient] = true
			}
			for recipient := range seen {
				if _, ok := pairs[recipient]; !ok {
					t.Fatalf("n=%d: recipient %d is not a participant", n, recipient)
				}
			}
		}
	}
}

func TestDerangeGivesUpAfterMaxAttempts(t *testing.T) {
	calls := 0
	d := &Deranger{
		MaxAttempts: 5,
		// j == i never moves anything, so every shuffle is the identity.
		IntN: func(n int) int {
			calls++
			return n - 1
		},
	}

	pairs, attempts, err := d.Derange([]uint{1, 2, 3})
	if !errors.Is(err, ErrNoValidDerangement) {
		t.Fatalf("expected ErrNoValidDerangement, got %v", err)
	}
	if pairs != nil {
		t.Errorf("expected no pairs, got %v", pairs)
	}
	if attempts != 5 {
		t.Errorf("expected 5 attempts, got %d", attempts)
	}
	// Two swaps per shuffle of three elements.
	if calls != 10 {
		t.Errorf("expected 10 random draws, got %d", calls)
	}
}

func TestDerangeDoesNotModifyInput(t *testing.T) {
	ids := []uint{1, 2, 3, 4}
	d := NewDeranger(DefaultMaxAttempts)
	d.IntN = rand.New(rand.NewPCG(3, 3)).IntN

	if _, _, err := d.Derange(ids); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, want := range []uint{1, 2, 3, 4} {
		if ids[i] != want {
			t.Fatalf("input modified: %v", ids)
		}
	}
}
