package evolve

import (
	"math"
	"math/rand"
)

// SelectTournament returns k individuals selected with replacement via
// tournament selection: for each output slot, tournamentSize individuals
// are drawn uniformly (with replacement) from the population and the one
// with the lowest fitness wins, ties broken by first encountered.
//
// The engine guarantees every individual carries a valid fitness before
// selection runs; an unset fitness is treated as +Inf so it can never win
// a tournament against an evaluated individual.
func SelectTournament(rng *rand.Rand, population []*Individual, k, tournamentSize int) []*Individual {
	selected := make([]*Individual, 0, k)

	for i := 0; i < k; i++ {
		best := population[rng.Intn(len(population))]
		bestFitness := fitnessOrInf(best)

		for j := 1; j < tournamentSize; j++ {
			challenger := population[rng.Intn(len(population))]
			if fitness := fitnessOrInf(challenger); fitness < bestFitness {
				best = challenger
				bestFitness = fitness
			}
		}

		selected = append(selected, best)
	}

	return selected
}

func fitnessOrInf(ind *Individual) float64 {
	if fitness, ok := ind.Fitness(); ok {
		return fitness
	}
	return math.Inf(1)
}
