package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// Manager handles configuration loading and validation.
type Manager struct {
	config     *Config
	configPath string
	mu         sync.RWMutex
	sources    []Source
}

// ManagerOption represents an option for configuring the Manager.
type ManagerOption func(*Manager) error

// NewManager creates a new configuration manager.
func NewManager(options ...ManagerOption) (*Manager, error) {
	m := &Manager{}

	for _, opt := range options {
		if err := opt(m); err != nil {
			return nil, fmt.Errorf("failed to apply manager option: %w", err)
		}
	}

	if len(m.sources) == 0 {
		m.sources = []Source{
			NewFileSource(),
			NewEnvironmentSource(),
		}
	}

	return m, nil
}

// WithConfigPath sets the configuration file path.
func WithConfigPath(path string) ManagerOption {
	return func(m *Manager) error {
		m.configPath = path
		return nil
	}
}

// WithSources sets the configuration sources.
func WithSources(sources ...Source) ManagerOption {
	return func(m *Manager) error {
		m.sources = sources
		return nil
	}
}

// Load builds the effective configuration: defaults first, then each
// source in ascending priority order, then validation.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var configPaths []string
	if m.configPath != "" {
		configPaths = []string{m.configPath}
	} else {
		configPaths = defaultConfigPaths()
	}

	config := DefaultConfig()

	sources := make([]Source, len(m.sources))
	copy(sources, m.sources)
	sort.SliceStable(sources, func(i, j int) bool {
		return sources[i].Priority() < sources[j].Priority()
	})

	for _, source := range sources {
		if err := source.Load(config, configPaths); err != nil {
			return fmt.Errorf("failed to load from %s source: %w", source.Name(), err)
		}
	}

	if err := config.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	m.config = config
	return nil
}

// Get returns the loaded configuration, or nil before Load.
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config
}

// defaultConfigPaths lists the standard lookup locations, nearest first.
func defaultConfigPaths() []string {
	paths := []string{
		"textevolve.yaml",
		"textevolve.yml",
	}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", "textevolve", "config.yaml"),
		)
	}

	return paths
}
