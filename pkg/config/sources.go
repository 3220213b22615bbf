package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/XiaoConstantine/textevolve/pkg/evolve"
)

// Source represents a configuration source.
type Source interface {
	// Load loads configuration from the source into the provided config
	Load(config *Config, paths []string) error

	// Name returns the name of the source
	Name() string

	// Priority returns the priority of the source (higher priority overrides lower)
	Priority() int
}

// FileSource loads configuration from YAML files. Keys absent from a file
// keep the value already present in the target config, so files layer over
// defaults.
type FileSource struct {
	priority int
}

// NewFileSource creates a new file source.
func NewFileSource() *FileSource {
	return &FileSource{priority: 100}
}

// Name returns the name of the file source.
func (fs *FileSource) Name() string {
	return "file"
}

// Priority returns the priority of the file source.
func (fs *FileSource) Priority() int {
	return fs.priority
}

// Load loads configuration from YAML files. Missing paths are skipped;
// later paths override earlier ones.
func (fs *FileSource) Load(config *Config, paths []string) error {
	for _, path := range paths {
		if !fileExists(path) {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := yaml.Unmarshal(data, config); err != nil {
			return fmt.Errorf("failed to parse YAML from %s: %w", path, err)
		}
	}

	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// EnvironmentSource loads configuration from environment variables.
// Variables take the form TEXTEVOLVE_<SECTION>_<FIELD>, e.g.
// TEXTEVOLVE_EVOLUTION_POPULATION_SIZE=100 or TEXTEVOLVE_CACHE_TYPE=sqlite.
type EnvironmentSource struct {
	priority int
	prefix   string
}

// NewEnvironmentSource creates a new environment source.
func NewEnvironmentSource() *EnvironmentSource {
	return &EnvironmentSource{
		priority: 200, // Higher priority than file source
		prefix:   "TEXTEVOLVE_",
	}
}

// NewEnvironmentSourceWithPrefix creates a new environment source with custom prefix.
func NewEnvironmentSourceWithPrefix(prefix string) *EnvironmentSource {
	return &EnvironmentSource{
		priority: 200,
		prefix:   prefix,
	}
}

// Name returns the name of the environment source.
func (es *EnvironmentSource) Name() string {
	return "environment"
}

// Priority returns the priority of the environment source.
func (es *EnvironmentSource) Priority() int {
	return es.priority
}

// Load applies environment variable overrides in sorted key order so the
// result never depends on environment iteration order.
func (es *EnvironmentSource) Load(config *Config, paths []string) error {
	envVars := es.getEnvironmentVariables()

	keys := make([]string, 0, len(envVars))
	for key := range envVars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := envVars[key]
		if err := es.setConfigValue(config, key, value); err != nil {
			return fmt.Errorf("failed to set config value %s=%s: %w", key, value, err)
		}
	}

	return nil
}

// getEnvironmentVariables gets all environment variables with the configured prefix.
func (es *EnvironmentSource) getEnvironmentVariables() map[string]string {
	envVars := make(map[string]string)

	for _, env := range os.Environ() {
		parts := strings.SplitN(env, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key, value := parts[0], parts[1]
		if strings.HasPrefix(key, es.prefix) {
			envVars[strings.ToLower(strings.TrimPrefix(key, es.prefix))] = value
		}
	}

	return envVars
}

// setConfigValue routes a lowercased SECTION_FIELD key to its config field.
// Unknown keys are ignored so unrelated variables under the prefix never
// fail a load.
func (es *EnvironmentSource) setConfigValue(config *Config, key, value string) error {
	section, field, found := strings.Cut(key, "_")
	if !found {
		if section == "symbols" {
			config.Symbols = value
		}
		return nil
	}

	switch section {
	case "evolution":
		return es.setEvolutionValue(&config.Evolution, field, value)
	case "cache":
		return es.setCacheValue(config, field, value)
	case "logging":
		return es.setLoggingValue(&config.Logging, field, value)
	default:
		return nil
	}
}

func (es *EnvironmentSource) setEvolutionValue(cfg *evolve.Config, field, value string) error {
	switch field {
	case "population_size":
		return setInt(&cfg.PopulationSize, value)
	case "min_length":
		return setInt(&cfg.MinLength, value)
	case "max_length":
		return setInt(&cfg.MaxLength, value)
	case "generations":
		return setInt(&cfg.Generations, value)
	case "early_stop":
		return setBool(&cfg.EarlyStop, value)
	case "crossover_rate":
		return setFloat(&cfg.CrossoverRate, value)
	case "mutation_rate":
		return setFloat(&cfg.MutationRate, value)
	case "insert_rate":
		return setFloat(&cfg.InsertRate, value)
	case "delete_rate":
		return setFloat(&cfg.DeleteRate, value)
	case "substitute_rate":
		return setFloat(&cfg.SubstituteRate, value)
	case "tournament_size":
		return setInt(&cfg.TournamentSize, value)
	case "distance_metric":
		cfg.DistanceMetric = evolve.Metric(value)
		return nil
	case "seed":
		seed, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return err
		}
		cfg.Seed = seed
		return nil
	case "verbose":
		return setBool(&cfg.Verbose, value)
	case "concurrency":
		return setInt(&cfg.Concurrency, value)
	default:
		return nil
	}
}

func (es *EnvironmentSource) setCacheValue(config *Config, field, value string) error {
	switch field {
	case "type":
		config.Cache.Type = value
	case "sqlite_path":
		config.Cache.SQLiteConfig.Path = value
	case "sqlite_enable_wal":
		return setBool(&config.Cache.SQLiteConfig.EnableWAL, value)
	case "sqlite_max_connections":
		return setInt(&config.Cache.SQLiteConfig.MaxConnections, value)
	case "memory_shard_count":
		return setInt(&config.Cache.MemoryConfig.ShardCount, value)
	}
	return nil
}

func (es *EnvironmentSource) setLoggingValue(cfg *LoggingConfig, field, value string) error {
	switch field {
	case "level":
		cfg.Level = value
	case "color":
		return setBool(&cfg.Color, value)
	}
	return nil
}

func setInt(target *int, value string) error {
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return err
	}
	*target = parsed
	return nil
}

func setFloat(target *float64, value string) error {
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return err
	}
	*target = parsed
	return nil
}

func setBool(target *bool, value string) error {
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return err
	}
	*target = parsed
	return nil
}
