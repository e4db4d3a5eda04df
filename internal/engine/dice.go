package engine

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
)

// pcgIncrement is the fixed second PCG seed word. Sessions differ only by seed.
const pcgIncrement = 0x9e3779b97f4a7c15

// Dice is the per-session random source. Its state round-trips through
// MarshalBinary so a resumed session continues the same sequence.
type Dice struct {
	src *rand.PCG
	rng *rand.Rand
}

// NewDice seeds a generator deterministically.
func NewDice(seed uint64) *Dice {
	src := rand.NewPCG(seed, pcgIncrement)
	return &Dice{src: src, rng: rand.New(src)}
}

// NewSeed returns a random seed from the operating system.
func NewSeed() (uint64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read seed: %w", err)
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

// RestoreDice rebuilds a generator from MarshalBinary output.
func RestoreDice(state []byte) (*Dice, error) {
	d := NewDice(0)
	if err := d.src.UnmarshalBinary(state); err != nil {
		return nil, fmt.Errorf("restore dice: %w", err)
	}
	return d, nil
}

// MarshalBinary encodes the generator state.
func (d *Dice) MarshalBinary() ([]byte, error) {
	return d.src.MarshalBinary()
}

// Roll returns a die value in [1,6].
func (d *Dice) Roll() int {
	return d.rng.IntN(6) + 1
}

// pick returns an index chosen with probability proportional to weights.
// Non-positive weights are never chosen unless every weight is
// non-positive, in which case the choice is uniform.
func (d *Dice) pick(weights []int) int {
	total := 0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total == 0 {
		return d.rng.IntN(len(weights))
	}
	n := d.rng.IntN(total)
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		if n < w {
			return i
		}
		n -= w
	}
	return len(weights) - 1
}
