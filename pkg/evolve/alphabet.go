package evolve

import (
	"math/rand"

	"github.com/XiaoConstantine/textevolve/pkg/errors"
)

// DefaultSymbols is the default symbol set: uppercase letters and space.
const DefaultSymbols = "ABCDEFGHIJKLMNOPQRSTUVWXYZ "

// Alphabet is an immutable set of allowed symbols. Every symbol appearing
// in an individual or the goal string must belong to it.
type Alphabet struct {
	symbols []rune
	members map[rune]struct{}
}

// NewAlphabet builds an alphabet from the given symbols. Duplicates are
// dropped; the first occurrence keeps its position, which fixes the order
// used for uniform draws.
func NewAlphabet(symbols string) (Alphabet, error) {
	if symbols == "" {
		return Alphabet{}, errors.New(errors.InvalidConfiguration, "alphabet must contain at least one symbol")
	}

	members := make(map[rune]struct{})
	ordered := make([]rune, 0, len(symbols))
	for _, r := range symbols {
		if _, seen := members[r]; seen {
			continue
		}
		members[r] = struct{}{}
		ordered = append(ordered, r)
	}

	return Alphabet{symbols: ordered, members: members}, nil
}

// DefaultAlphabet returns the uppercase-plus-space alphabet.
func DefaultAlphabet() Alphabet {
	a, _ := NewAlphabet(DefaultSymbols)
	return a
}

// Contains reports whether r is a member of the alphabet.
func (a Alphabet) Contains(r rune) bool {
	_, ok := a.members[r]
	return ok
}

// Len returns the number of distinct symbols.
func (a Alphabet) Len() int {
	return len(a.symbols)
}

// String renders the alphabet's symbols in draw order.
func (a Alphabet) String() string {
	return string(a.symbols)
}

// Validate checks that every symbol of text belongs to the alphabet.
// A violation is a configuration error, reported before any evolution.
func (a Alphabet) Validate(text string) error {
	for _, r := range text {
		if !a.Contains(r) {
			return errors.WithFields(
				errors.New(errors.InvalidAlphabet, "text contains illegal symbol"),
				errors.Fields{
					"symbol":   string(r),
					"alphabet": a.String(),
				})
		}
	}
	return nil
}

// pick draws one symbol uniformly at random.
func (a Alphabet) pick(rng *rand.Rand) rune {
	return a.symbols[rng.Intn(len(a.symbols))]
}
