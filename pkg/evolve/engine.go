package evolve

import (
	"context"
	"math/rand"

	"github.com/sourcegraph/conc/pool"

	"github.com/XiaoConstantine/textevolve/pkg/cache"
	"github.com/XiaoConstantine/textevolve/pkg/errors"
	"github.com/XiaoConstantine/textevolve/pkg/logging"
)

// Engine owns a population and drives the generational loop:
// evaluate, record, select, vary, replace. The whole run is deterministic
// for a fixed seed and configuration: every random draw happens on the
// engine goroutine in a fixed order.
type Engine struct {
	config   *Config
	alphabet Alphabet
	goal     string

	rng       *rand.Rand
	memo      cache.Cache
	ownsMemo  bool
	evaluator *Evaluator

	population []*Individual
	statsLog   []GenerationStats
	generation int
}

// Result is the terminal state of a run: the final population, the full
// ordered statistics log, and the minimum-fitness individual.
type Result struct {
	Population  []*Individual
	Stats       []GenerationStats
	Best        *Individual
	Generations int
}

// NewEngine creates an engine with an in-memory memo table scoped to the
// run.
func NewEngine(goal string, alphabet Alphabet, config *Config) (*Engine, error) {
	memo, err := cache.NewMemoryCache(cache.CacheConfig{Type: "memory"})
	if err != nil {
		return nil, errors.Wrap(err, errors.CacheFailure, "failed to create memo table")
	}

	engine, err := NewEngineWithCache(goal, alphabet, config, memo)
	if err != nil {
		memo.Close()
		return nil, err
	}
	engine.ownsMemo = true
	return engine, nil
}

// NewEngineWithCache creates an engine over a caller-supplied memo backend,
// e.g. a SQLite cache whose distance entries survive the run. The caller
// keeps ownership of the backend.
func NewEngineWithCache(goal string, alphabet Alphabet, config *Config, memo cache.Cache) (*Engine, error) {
	if config == nil {
		config = DefaultConfig()
	}

	// Merge with defaults for any unset structural fields. Zero means
	// unset; negative values are rejected by validation below.
	defaults := DefaultConfig()
	if config.PopulationSize == 0 {
		config.PopulationSize = defaults.PopulationSize
	}
	if config.MinLength == 0 {
		config.MinLength = defaults.MinLength
	}
	if config.MaxLength == 0 {
		config.MaxLength = defaults.MaxLength
	}
	if config.Generations == 0 {
		config.Generations = defaults.Generations
	}
	if config.TournamentSize == 0 {
		config.TournamentSize = defaults.TournamentSize
	}
	if config.Concurrency == 0 {
		config.Concurrency = defaults.Concurrency
	}
	if config.DistanceMetric == "" {
		config.DistanceMetric = defaults.DistanceMetric
	}

	if err := validateRun(goal, alphabet, config); err != nil {
		return nil, err
	}

	distancer := NewDistancer(config.DistanceMetric, memo)

	return &Engine{
		config:    config,
		alphabet:  alphabet,
		goal:      goal,
		rng:       rand.New(rand.NewSource(config.Seed)),
		memo:      memo,
		evaluator: NewEvaluator(distancer, goal, config.Verbose),
	}, nil
}

// validateRun surfaces configuration errors before any evolution begins.
func validateRun(goal string, alphabet Alphabet, config *Config) error {
	if alphabet.Len() == 0 {
		return errors.New(errors.InvalidConfiguration, "alphabet must contain at least one symbol")
	}
	if err := alphabet.Validate(goal); err != nil {
		return errors.Wrap(err, errors.InvalidConfiguration, "goal rejected")
	}
	if config.PopulationSize <= 0 {
		return errors.WithFields(
			errors.New(errors.InvalidConfiguration, "population size must be positive"),
			errors.Fields{"population_size": config.PopulationSize})
	}
	if config.MinLength <= 0 || config.Generations <= 0 || config.TournamentSize <= 0 {
		return errors.WithFields(
			errors.New(errors.InvalidConfiguration, "structural parameters must be positive"),
			errors.Fields{
				"min_length":      config.MinLength,
				"generations":     config.Generations,
				"tournament_size": config.TournamentSize,
			})
	}
	if config.MinLength > config.MaxLength {
		return errors.WithFields(
			errors.New(errors.InvalidConfiguration, "min_length exceeds max_length"),
			errors.Fields{
				"min_length": config.MinLength,
				"max_length": config.MaxLength,
			})
	}
	rates := []struct {
		name  string
		value float64
	}{
		{"crossover_rate", config.CrossoverRate},
		{"mutation_rate", config.MutationRate},
		{"insert_rate", config.InsertRate},
		{"delete_rate", config.DeleteRate},
		{"substitute_rate", config.SubstituteRate},
	}
	for _, rate := range rates {
		if rate.value < 0 || rate.value > 1 {
			return errors.WithFields(
				errors.New(errors.InvalidConfiguration, "probability out of range"),
				errors.Fields{rate.name: rate.value})
		}
	}
	if config.DistanceMetric != MetricLevenshtein && config.DistanceMetric != MetricWeighted {
		return errors.WithFields(
			errors.New(errors.InvalidConfiguration, "unknown distance metric"),
			errors.Fields{"distance_metric": string(config.DistanceMetric)})
	}
	return nil
}

// Run executes the generational loop for the configured number of
// generations (plus the initial generation 0 snapshot) and returns the
// terminal state. Failure to converge is a normal outcome reported via the
// statistics, not an error.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	logger := logging.GetLogger()
	logger.Info(ctx, "Starting evolution: population_size=%d, generations=%d, goal_length=%d",
		e.config.PopulationSize,
		e.config.Generations,
		len([]rune(e.goal)))

	e.initializePopulation()

	evaluated := e.evaluatePopulation(ctx)
	e.recordStats(evaluated)

	for gen := 1; gen <= e.config.Generations; gen++ {
		if err := errors.CheckContext(ctx, "evolution run"); err != nil {
			return nil, err
		}

		if e.config.EarlyStop && e.statsLog[len(e.statsLog)-1].Min == 0 {
			logger.Info(ctx, "Goal reached at generation %d, stopping early", e.generation)
			break
		}

		e.generation = gen
		offspring := e.selectOffspring()
		e.vary(offspring)
		e.population = offspring

		evaluated := e.evaluatePopulation(ctx)
		e.recordStats(evaluated)
	}

	best := e.bestIndividual()
	logger.Info(ctx, "Evolution finished: generations=%d, best_fitness=%.0f, best=%q",
		e.generation,
		fitnessOrInf(best),
		best.Text())

	return &Result{
		Population:  e.population,
		Stats:       e.StatsLog(),
		Best:        best,
		Generations: e.generation,
	}, nil
}

// StatsLog returns a copy of the ordered per-generation statistics log.
func (e *Engine) StatsLog() []GenerationStats {
	out := make([]GenerationStats, len(e.statsLog))
	copy(out, e.statsLog)
	return out
}

// MemoStats reports hit/miss statistics of the distance memo table.
func (e *Engine) MemoStats() cache.CacheStats {
	return e.memo.Stats()
}

// Close releases the memo table when the engine owns it.
func (e *Engine) Close() error {
	if e.ownsMemo {
		return e.memo.Close()
	}
	return nil
}

func (e *Engine) initializePopulation() {
	e.population = make([]*Individual, e.config.PopulationSize)
	for i := range e.population {
		e.population[i] = NewRandomIndividual(e.rng, e.alphabet, e.config.MinLength, e.config.MaxLength)
	}
	e.generation = 0
}

// evaluatePopulation refreshes the fitness of every individual lacking a
// valid cached value and returns how many were evaluated. Evaluation is
// pure per individual, so it may fan out across goroutines without
// touching the operator rng stream.
func (e *Engine) evaluatePopulation(ctx context.Context) int {
	var pending []*Individual
	for _, ind := range e.population {
		if _, ok := ind.Fitness(); !ok {
			pending = append(pending, ind)
		}
	}

	if e.config.Concurrency > 1 && len(pending) > 1 {
		p := pool.New().WithMaxGoroutines(e.config.Concurrency)
		for _, ind := range pending {
			p.Go(func() {
				e.evaluator.Evaluate(ctx, ind)
			})
		}
		p.Wait()
	} else {
		for _, ind := range pending {
			e.evaluator.Evaluate(ctx, ind)
		}
	}

	return len(pending)
}

func (e *Engine) recordStats(evaluated int) {
	values := make([]float64, len(e.population))
	for i, ind := range e.population {
		values[i] = fitnessOrInf(ind)
	}

	stats := newGenerationStats(e.generation, evaluated, values)
	e.statsLog = append(e.statsLog, stats)

	logging.GetLogger().Debug(context.Background(),
		"Generation %d: evaluated=%d, mean=%.2f, std=%.2f, min=%.0f, max=%.0f",
		stats.Generation, stats.Evaluated, stats.Mean, stats.StdDev, stats.Min, stats.Max)
}

// selectOffspring produces the reproduction pool: population-size winners
// of tournament selection, cloned so variation never aliases the parents
// or each other.
func (e *Engine) selectOffspring() []*Individual {
	selected := SelectTournament(e.rng, e.population, len(e.population), e.config.TournamentSize)

	offspring := make([]*Individual, len(selected))
	for i, ind := range selected {
		clone := ind.Clone()
		clone.Generation = e.generation
		offspring[i] = clone
	}
	return offspring
}

// vary applies crossover to adjacent pairs and then mutation to every
// individual, each gated by an independent probability draw. The crossover
// pass completes before the mutation pass begins, fixing the draw order.
func (e *Engine) vary(offspring []*Individual) {
	for i := 1; i < len(offspring); i += 2 {
		if e.rng.Float64() < e.config.CrossoverRate {
			Crossover(e.rng, offspring[i-1], offspring[i])
		}
	}

	for _, ind := range offspring {
		if e.rng.Float64() < e.config.MutationRate {
			Mutate(e.rng, ind, e.alphabet,
				e.config.InsertRate, e.config.DeleteRate, e.config.SubstituteRate)
		}
	}
}

// bestIndividual returns the minimum-fitness individual of the current
// population, first encountered on ties.
func (e *Engine) bestIndividual() *Individual {
	best := e.population[0]
	bestFitness := fitnessOrInf(best)
	for _, ind := range e.population[1:] {
		if fitness := fitnessOrInf(ind); fitness < bestFitness {
			best = ind
			bestFitness = fitness
		}
	}
	return best
}
