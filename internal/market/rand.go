package market

import "math/rand/v2"

// Rand is the uniform random source used by the simulator and the economy.
type Rand interface {
	Float64() float64 // [0, 1)
	IntN(n int) int   // [0, n)
}

type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }
func (globalRand) IntN(n int) int   { return rand.IntN(n) }

// DefaultRand returns the process-wide generator, automatically seeded.
func DefaultRand() Rand { return globalRand{} }
