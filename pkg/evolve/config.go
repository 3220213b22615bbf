package evolve

// Config contains the hyperparameters for one evolution run.
type Config struct {
	// Population parameters
	PopulationSize int `json:"population_size" yaml:"population_size" validate:"gt=0"` // Default: 300
	MinLength      int `json:"min_length" yaml:"min_length" validate:"gt=0"`           // Default: 4
	MaxLength      int `json:"max_length" yaml:"max_length" validate:"gtecsfield=MinLength"` // Default: 30

	// Loop parameters
	Generations int  `json:"generations" yaml:"generations" validate:"gt=0"` // Default: 500
	EarlyStop   bool `json:"early_stop" yaml:"early_stop"`                   // Stop once min fitness reaches 0

	// Variation parameters
	CrossoverRate  float64 `json:"crossover_rate" yaml:"crossover_rate" validate:"gte=0,lte=1"`   // Default: 0.5
	MutationRate   float64 `json:"mutation_rate" yaml:"mutation_rate" validate:"gte=0,lte=1"`     // Default: 0.2
	InsertRate     float64 `json:"insert_rate" yaml:"insert_rate" validate:"gte=0,lte=1"`         // Default: 0.05
	DeleteRate     float64 `json:"delete_rate" yaml:"delete_rate" validate:"gte=0,lte=1"`         // Default: 0.05
	SubstituteRate float64 `json:"substitute_rate" yaml:"substitute_rate" validate:"gte=0,lte=1"` // Default: 0.05

	// Selection parameters
	TournamentSize int `json:"tournament_size" yaml:"tournament_size" validate:"gt=0"` // Default: 3

	// Fitness parameters
	DistanceMetric Metric `json:"distance_metric" yaml:"distance_metric" validate:"oneof=levenshtein weighted"` // Default: "levenshtein"

	// Reproducibility: the full run is deterministic for a fixed seed.
	Seed int64 `json:"seed" yaml:"seed"` // Default: 4

	// Observability: log one line per fitness evaluation.
	Verbose bool `json:"verbose" yaml:"verbose"`

	// Performance: max goroutines for fitness evaluation. Evaluation draws
	// no randomness, so concurrency cannot perturb the operator rng stream.
	Concurrency int `json:"concurrency" yaml:"concurrency" validate:"gte=0"` // Default: 4
}

// DefaultConfig returns the default run configuration.
func DefaultConfig() *Config {
	return &Config{
		PopulationSize: 300,
		MinLength:      4,
		MaxLength:      30,
		Generations:    500,
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
