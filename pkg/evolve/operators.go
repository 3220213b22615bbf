package evolve

import (
	"context"
	"math/rand"

	"github.com/XiaoConstantine/textevolve/pkg/logging"
)

// Evaluator computes an individual's fitness as its distance to the goal
// sequence and stores it on the individual.
type Evaluator struct {
	dist    *Distancer
	goal    string
	verbose bool
}

// NewEvaluator creates an evaluator for the given goal. When verbose is
// set, every evaluation emits one log line; this is a side channel and
// never affects the returned value or control flow.
func NewEvaluator(dist *Distancer, goal string, verbose bool) *Evaluator {
	return &Evaluator{dist: dist, goal: goal, verbose: verbose}
}

// Evaluate computes the distance between the individual and the goal,
// caches it as the individual's fitness, and returns it.
func (e *Evaluator) Evaluate(ctx context.Context, ind *Individual) float64 {
	distance := e.dist.Distance(ctx, ind.Text(), e.goal)
	ind.setFitness(float64(distance))

	if e.verbose {
		logging.GetLogger().Info(ctx, "%s\t[distance: %d]", ind.Text(), distance)
	}

	return float64(distance)
}

// Mutate applies up to three point mutations to the individual in place.
// Each probability is evaluated independently against its own uniform draw,
// so zero, one, two, or all three may fire in a single call. Order of
// application is insertion, then deletion, then substitution, each seeing
// the effect of the prior. The cached fitness is invalidated only when a
// mutation was actually applied.
//
// A zero-length sequence cannot be targeted by the position scheme; the
// affected mutation is skipped. Mutate reports whether the sequence changed.
func Mutate(rng *rand.Rand, ind *Individual, alphabet Alphabet, insertRate, deleteRate, substituteRate float64) bool {
	mutated := false

	if rng.Float64() < insertRate && len(ind.symbols) >= 1 {
		pos := rng.Intn(len(ind.symbols))
		symbol := alphabet.pick(rng)
		ind.symbols = append(ind.symbols, 0)
		copy(ind.symbols[pos+1:], ind.symbols[pos:])
		ind.symbols[pos] = symbol
		mutated = true
	}

	if rng.Float64() < deleteRate && len(ind.symbols) >= 1 {
		pos := rng.Intn(len(ind.symbols))
		ind.symbols = append(ind.symbols[:pos], ind.symbols[pos+1:]...)
		mutated = true
	}

	if rng.Float64() < substituteRate && len(ind.symbols) >= 1 {
		pos := rng.Intn(len(ind.symbols))
		// The replacement may coincide with the original symbol.
		ind.symbols[pos] = alphabet.pick(rng)
		mutated = true
	}

	if mutated {
		ind.invalidateFitness()
	}

	return mutated
}

// Crossover performs a two-point segment swap between the two individuals
// in place. Two points are drawn uniformly over [0, min(len1, len2)-1] and
// sorted; the symbols in the half-open range [point1, point2) are swapped,
// leaving all other positions untouched, including any excess tail on the
// longer individual.
//
// If the shorter individual has fewer than two symbols the operation is a
// documented no-op: the position range would be degenerate. Crossover
// reports whether it was applied; on application both cached fitnesses are
// invalidated (even for an empty swapped segment when the points coincide).
func Crossover(rng *rand.Rand, ind1, ind2 *Individual) bool {
	length := len(ind1.symbols)
	if len(ind2.symbols) < length {
		length = len(ind2.symbols)
	}
	if length < 2 {
		return false
	}

	point1 := rng.Intn(length)
	point2 := rng.Intn(length)
	if point2 < point1 {
		point1, point2 = point2, point1
	}

	for i := point1; i < point2; i++ {
		ind1.symbols[i], ind2.symbols[i] = ind2.symbols[i], ind1.symbols[i]
	}

	ind1.invalidateFitness()
	ind2.invalidateFitness()

	return true
}
