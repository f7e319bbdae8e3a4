package engine

import "math/rand/v2"

// Rand is the randomness source for every draw the engine makes.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }
func (globalRand) IntN(n int) int   { return rand.IntN(n) }

// DefaultRand draws from the process-wide generator, safe for concurrent use.
func DefaultRand() Rand { return globalRand{} }
