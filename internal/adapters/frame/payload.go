package frame

import (
	"math/rand"
	"time"

	"github.com/rftools/ctx/internal/core/domain"
)

// PayloadGenerator produces randomized frame payloads with a length drawn
// uniformly from an inclusive range. The random source is statistical, not
// cryptographic; this is traffic-volume generation.
type PayloadGenerator struct {
	min int
	max int
	rng *rand.Rand
}

// NewPayloadGenerator validates the range once, at configuration time.
func NewPayloadGenerator(min, max int) (*PayloadGenerator, error) {
	if min < 0 || max < 0 || min > max {
		return nil, &domain.InvalidRangeError{Min: min, Max: max}
	}
	return &PayloadGenerator{
		min: min,
		max: max,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

// Next returns a fresh payload of uniformly random bytes. Length is uniform
// in [min, max]; min == max yields fixed-size payloads.
func (g *PayloadGenerator) Next() []byte {
	n := g.min
	if g.max > g.min {
		n += g.rng.Intn(g.max - g.min + 1)
	}
	buf := make([]byte, n)
	g.rng.Read(buf)
	return buf
}
