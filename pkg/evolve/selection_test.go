package evolve

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makePopulation(fitnesses ...float64) []*Individual {
	population := make([]*Individual, len(fitnesses))
	for i, f := range fitnesses {
		ind := NewIndividual("X")
		ind.setFitness(f)
		population[i] = ind
	}
	return population
}

func TestSelectTournamentCount(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	population := makePopulation(5, 3, 8, 1, 9)

	for _, k := range []int{1, 5, 12} {
		selected := SelectTournament(rng, population, k, 3)
		assert.Len(t, selected, k)
	}
}

func TestSelectTournamentMembership(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	population := makePopulation(5, 3, 8, 1, 9)

	members := make(map[*Individual]struct{}, len(population))
	for _, ind := range population {
		members[ind] = struct{}{}
	}

	for _, ind := range SelectTournament(rng, population, 20, 3) {
		_, ok := members[ind]
		assert.True(t, ok, "selection must return population members, not copies")
	}
}

func TestSelectTournamentSizeOneIsUniform(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	population := makePopulation(100, 1)

	// With tournament size 1 there is no competition, so the worst
	// individual is selected about half the time.
	worst := 0
	const draws = 2000
	for _, ind := range SelectTournament(rng, population, draws, 1) {
		if f, _ := ind.Fitness(); f == 100 {
			worst++
		}
	}
	assert.InDelta(t, draws/2, worst, draws/10)
}

func TestSelectTournamentPressure(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	population := makePopulation(0, 1, 2, 3, 4, 5, 6, 7, 8, 9)

	selected := SelectTournament(rng, population, 1000, 3)

	var sum float64
	for _, ind := range selected {
		f, ok := ind.Fitness()
		require.True(t, ok)
		sum += f
	}
	mean := sum / float64(len(selected))

	// Population mean is 4.5; three-way tournaments pull the selected mean
	// well below it. The expected minimum of three uniform draws from 0..9
	// sits near 2.6.
	assert.Less(t, mean, 3.5)
	assert.Greater(t, mean, 1.5)
}

func TestSelectTournamentUnsetFitnessNeverWins(t *testing.T) {
	rng := rand.New(rand.NewSource(4))

	evaluated := NewIndividual("GOOD")
	evaluated.setFitness(1000)
	unevaluated := NewIndividual("UNKNOWN")
	population := []*Individual{evaluated, unevaluated}

	// Tournament size equals population size is legal (draws are with
	// replacement), and every tournament that sees the evaluated individual
	// must prefer it over the +Inf placeholder.
	for _, ind := range SelectTournament(rng, population, 200, 4) {
		if ind == unevaluated {
			// Only possible when all four draws landed on it.
			continue
		}
		assert.Same(t, evaluated, ind)
	}
}

func TestFitnessOrInf(t *testing.T) {
	ind := NewIndividual("CAT")
	assert.True(t, math.IsInf(fitnessOrInf(ind), 1))

	ind.setFitness(7)
	assert.Equal(t, 7.0, fitnessOrInf(ind))
}
