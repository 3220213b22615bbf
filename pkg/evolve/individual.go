package evolve

import (
	"math/rand"

	"github.com/google/uuid"
)

// Individual is one candidate solution: an ordered, mutable sequence of
// symbols plus a lazily computed fitness value (lower is better). The
// fitness is unset until an evaluator stores it and is invalidated whenever
// an operator mutates the sequence.
type Individual struct {
	ID         string
	Generation int

	symbols      []rune
	fitness      float64
	fitnessValid bool
}

// NewIndividual creates an individual from a literal string, used for
// seeding and testing rather than general population initialization.
func NewIndividual(text string) *Individual {
	return &Individual{
		ID:      uuid.New().String(),
		symbols: []rune(text),
	}
}

// NewRandomIndividual creates an individual whose length is drawn uniformly
// from [minLength, maxLength] and whose symbols are drawn uniformly (with
// replacement) from the alphabet.
func NewRandomIndividual(rng *rand.Rand, alphabet Alphabet, minLength, maxLength int) *Individual {
	length := minLength + rng.Intn(maxLength-minLength+1)
	symbols := make([]rune, length)
	for i := range symbols {
		symbols[i] = alphabet.pick(rng)
	}

	return &Individual{
		ID:      uuid.New().String(),
		symbols: symbols,
	}
}

// Text renders the symbol sequence as a string. The round trip
// NewIndividual(ind.Text()) is symbol-equal to ind.
func (ind *Individual) Text() string {
	return string(ind.symbols)
}

// Len returns the number of symbols.
func (ind *Individual) Len() int {
	return len(ind.symbols)
}

// Symbols returns a copy of the symbol sequence.
func (ind *Individual) Symbols() []rune {
	out := make([]rune, len(ind.symbols))
	copy(out, ind.symbols)
	return out
}

// Fitness returns the cached fitness value and whether it is valid.
func (ind *Individual) Fitness() (float64, bool) {
	return ind.fitness, ind.fitnessValid
}

// Clone creates an independent copy with a fresh ID. The symbol sequence
// and any valid fitness carry over, so an unchanged clone does not need
// re-evaluation.
func (ind *Individual) Clone() *Individual {
	symbols := make([]rune, len(ind.symbols))
	copy(symbols, ind.symbols)

	return &Individual{
		ID:           uuid.New().String(),
		Generation:   ind.Generation,
		symbols:      symbols,
		fitness:      ind.fitness,
		fitnessValid: ind.fitnessValid,
	}
}

func (ind *Individual) setFitness(value float64) {
	ind.fitness = value
	ind.fitnessValid = true
}

func (ind *Individual) invalidateFitness() {
	ind.fitness = 0
	ind.fitnessValid = false
}
