package config

import (
	"github.com/XiaoConstantine/textevolve/pkg/cache"
	"github.com/XiaoConstantine/textevolve/pkg/evolve"
)

// Config is the top-level application configuration: the evolution
// hyperparameters plus the ambient concerns around them.
type Config struct {
	// Evolution holds the hyperparameters for the run itself.
	Evolution evolve.Config `json:"evolution" yaml:"evolution"`

	// Symbols is the alphabet the goal and every individual draw from.
	Symbols string `json:"symbols" yaml:"symbols" validate:"required"`

	// Cache selects the distance memo backend. The memory backend is
	// scoped to the process; sqlite persists entries across runs.
	Cache cache.CacheConfig `json:"cache" yaml:"cache"`

	Logging LoggingConfig `json:"logging" yaml:"logging"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level string `json:"level" yaml:"level" validate:"omitempty,oneof=debug info warn error fatal"`
	Color bool   `json:"color" yaml:"color"`
}

// DefaultConfig returns the configuration used when no file or environment
// override is present.
func DefaultConfig() *Config {
	return &Config{
		Evolution: *evolve.DefaultConfig(),
		Symbols:   evolve.DefaultSymbols,
		Cache: cache.CacheConfig{
			Type: "memory",
		},
		Logging: LoggingConfig{
			Level: "info",
			Color: true,
		},
	}
}

// Alphabet builds the evolve alphabet from the configured symbol set.
func (c *Config) Alphabet() (evolve.Alphabet, error) {
	return evolve.NewAlphabet(c.Symbols)
}

// Validate checks the configuration against its declared constraints.
func (c *Config) Validate() error {
	v, err := NewValidator()
	if err != nil {
		return err
	}
	return v.ValidateConfig(c)
}
