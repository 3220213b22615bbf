package evolve

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/XiaoConstantine/textevolve/pkg/cache"
	"github.com/XiaoConstantine/textevolve/pkg/errors"
)

func smallRunConfig() *Config {
	return &Config{
		PopulationSize: 30,
		MinLength:      4,
		MaxLength:      10,
		Generations:    10,
		CrossoverRate:  0.5,
		MutationRate:   0.2,
		InsertRate:     0.05,
		DeleteRate:     0.05,
		SubstituteRate: 0.05,
		TournamentSize: 3,
		DistanceMetric: MetricLevenshtein,
		Seed:           4,
		Concurrency:    4,
	}
}

func runOnce(t *testing.T, goal string, config *Config) *Result {
	t.Helper()
	engine, err := NewEngine(goal, DefaultAlphabet(), config)
	require.NoError(t, err)
	defer engine.Close()

	result, err := engine.Run(context.Background())
	require.NoError(t, err)
	return result
}

func populationTexts(population []*Individual) []string {
	texts := make([]string, len(population))
	for i, ind := range population {
		texts[i] = ind.Text()
	}
	return texts
}

func TestRunDeterministicForFixedSeed(t *testing.T) {
	first := runOnce(t, "HELLO", smallRunConfig())
	second := runOnce(t, "HELLO", smallRunConfig())

	assert.Equal(t, first.Stats, second.Stats)
	assert.Equal(t, populationTexts(first.Population), populationTexts(second.Population))
	assert.Equal(t, first.Best.Text(), second.Best.Text())
}

func TestRunSeedChangesOutcome(t *testing.T) {
	first := runOnce(t, "HELLO", smallRunConfig())

	other := smallRunConfig()
	other.Seed = 99
	second := runOnce(t, "HELLO", other)

	assert.NotEqual(t, populationTexts(first.Population), populationTexts(second.Population))
}

func TestRunStatsLogShape(t *testing.T) {
	config := smallRunConfig()
	result := runOnce(t, "HELLO", config)

	// Generation 0 snapshot plus one record per generation.
	require.Len(t, result.Stats, config.Generations+1)
	for i, stats := range result.Stats {
		assert.Equal(t, i, stats.Generation)
		assert.LessOrEqual(t, stats.Min, stats.Mean)
		assert.LessOrEqual(t, stats.Mean, stats.Max)
		assert.GreaterOrEqual(t, stats.StdDev, 0.0)
	}

	// The full initial population is evaluated at generation 0.
	assert.Equal(t, config.PopulationSize, result.Stats[0].Evaluated)
	assert.Equal(t, config.Generations, result.Generations)
	assert.Len(t, result.Population, config.PopulationSize)
}

func TestNewEngineMergesDefaults(t *testing.T) {
	engine, err := NewEngine("HELLO", DefaultAlphabet(), &Config{})
	require.NoError(t, err)
	defer engine.Close()

	assert.Equal(t, 300, engine.config.PopulationSize)
	assert.Equal(t, 4, engine.config.MinLength)
	assert.Equal(t, 30, engine.config.MaxLength)
	assert.Equal(t, 500, engine.config.Generations)
	assert.Equal(t, 3, engine.config.TournamentSize)
	assert.Equal(t, MetricLevenshtein, engine.config.DistanceMetric)
}

func TestNewEngineNilConfig(t *testing.T) {
	engine, err := NewEngine("HELLO", DefaultAlphabet(), nil)
	require.NoError(t, err)
	defer engine.Close()

	assert.Equal(t, 300, engine.config.PopulationSize)
}

func TestNewEngineValidation(t *testing.T) {
	alphabet := DefaultAlphabet()

	tests := []struct {
		name   string
		goal   string
		config *Config
	}{
		{"goal outside alphabet", "hello!", smallRunConfig()},
		{"negative population size", "HELLO", func() *Config {
			c := smallRunConfig()
			c.PopulationSize = -1
			return c
		}()},
		{"min length exceeds max", "HELLO", func() *Config {
			c := smallRunConfig()
			c.MinLength = 10
			c.MaxLength = 5
			return c
		}()},
		{"crossover rate above one", "HELLO", func() *Config {
			c := smallRunConfig()
			c.CrossoverRate = 1.5
			return c
		}()},
		{"negative mutation rate", "HELLO", func() *Config {
			c := smallRunConfig()
			c.MutationRate = -0.1
			return c
		}()},
		{"unknown metric", "HELLO", func() *Config {
			c := smallRunConfig()
			c.DistanceMetric = "hamming"
			return c
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEngine(tt.goal, alphabet, tt.config)
			require.Error(t, err)
			assert.True(t, stderrors.Is(err, errors.New(errors.InvalidConfiguration, "")))
		})
	}
}

func TestNewEngineEmptyAlphabet(t *testing.T) {
	_, err := NewEngine("", Alphabet{}, smallRunConfig())
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.New(errors.InvalidConfiguration, "")))
}

func TestRunEarlyStop(t *testing.T) {
	alphabet, err := NewAlphabet("A")
	require.NoError(t, err)

	// Every random individual over a one-symbol alphabet with a fixed
	// length equals the goal, so generation 0 already has min fitness 0.
	config := smallRunConfig()
	config.MinLength = 4
	config.MaxLength = 4
	config.EarlyStop = true
	config.Generations = 50

	engine, err := NewEngine("AAAA", alphabet, config)
	require.NoError(t, err)
	defer engine.Close()

	result, err := engine.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, result.Generations)
	assert.Len(t, result.Stats, 1)
	assert.Equal(t, 0.0, result.Stats[0].Min)
	assert.Equal(t, "AAAA", result.Best.Text())
}

func TestRunWithoutEarlyStopKeepsGoing(t *testing.T) {
	alphabet, err := NewAlphabet("A")
	require.NoError(t, err)

	config := smallRunConfig()
	config.MinLength = 4
	config.MaxLength = 4
	config.Generations = 5
	config.EarlyStop = false

	engine, err := NewEngine("AAAA", alphabet, config)
	require.NoError(t, err)
	defer engine.Close()

	result, err := engine.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 5, result.Generations)
	assert.Len(t, result.Stats, 6)
}

func TestRunCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	engine, err := NewEngine("HELLO", DefaultAlphabet(), smallRunConfig())
	require.NoError(t, err)
	defer engine.Close()

	_, err = engine.Run(ctx)
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.New(errors.Canceled, "")))
}

func TestEmptyGoalFitnessIsLength(t *testing.T) {
	config := smallRunConfig()
	engine, err := NewEngine("", DefaultAlphabet(), config)
	require.NoError(t, err)
	defer engine.Close()

	engine.initializePopulation()
	engine.evaluatePopulation(context.Background())

	shortest := engine.population[0].Len()
	for _, ind := range engine.population {
		fitness, valid := ind.Fitness()
		require.True(t, valid)
		assert.Equal(t, float64(ind.Len()), fitness)
		if ind.Len() < shortest {
			shortest = ind.Len()
		}
	}
	assert.Equal(t, shortest, engine.bestIndividual().Len())
}

func TestRunConvergesOnSmallProblem(t *testing.T) {
	alphabet, err := NewAlphabet("ACT")
	require.NoError(t, err)

	converged := 0
	for seed := int64(1); seed <= 10; seed++ {
		config := &Config{
			PopulationSize: 50,
			MinLength:      1,
			MaxLength:      6,
			Generations:    50,
			EarlyStop:      true,
			CrossoverRate:  0.5,
			MutationRate:   0.5,
			InsertRate:     0.1,
			DeleteRate:     0.1,
			SubstituteRate: 0.2,
			TournamentSize: 3,
			DistanceMetric: MetricLevenshtein,
			Seed:           seed,
			Concurrency:    4,
		}

		engine, err := NewEngine("CAT", alphabet, config)
		require.NoError(t, err)

		result, err := engine.Run(context.Background())
		require.NoError(t, err)
		engine.Close()

		if fitness, ok := result.Best.Fitness(); ok && fitness == 0 {
			assert.Equal(t, "CAT", result.Best.Text())
			converged++
		}
	}

	// Selection pressure over a three-symbol alphabet makes this an easy
	// target; most seeds reach the goal well within 50 generations.
	assert.GreaterOrEqual(t, converged, 5, "converged on %d/10 seeds", converged)
}

func TestRunWeightedMetric(t *testing.T) {
	config := smallRunConfig()
	config.DistanceMetric = MetricWeighted

	result := runOnce(t, "CAB", config)

	require.Len(t, result.Stats, config.Generations+1)
	// Minimum fitness never gets worse in expectation; at the very least it
	// stays finite and non-negative throughout.
	for _, stats := range result.Stats {
		assert.GreaterOrEqual(t, stats.Min, 0.0)
	}
}

func TestRunMemoStats(t *testing.T) {
	engine, err := NewEngine("HELLO", DefaultAlphabet(), smallRunConfig())
	require.NoError(t, err)
	defer engine.Close()

	_, err = engine.Run(context.Background())
	require.NoError(t, err)

	stats := engine.MemoStats()
	assert.Greater(t, stats.Sets, int64(0))
	assert.Greater(t, stats.Hits, int64(0), "repeated subproblems must hit the memo table")
}

func TestEngineWithSharedCacheLeavesOwnership(t *testing.T) {
	memo, err := cache.NewMemoryCache(cache.CacheConfig{Type: "memory"})
	require.NoError(t, err)
	defer memo.Close()

	config := smallRunConfig()
	config.Generations = 2

	engine, err := NewEngineWithCache("HELLO", DefaultAlphabet(), config, memo)
	require.NoError(t, err)

	_, err = engine.Run(context.Background())
	require.NoError(t, err)

	// Closing the engine must not close the caller's backend.
	require.NoError(t, engine.Close())
	_, _, err = memo.Get(context.Background(), "probe")
	assert.NoError(t, err)
}
