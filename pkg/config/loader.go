package config

import (
	"fmt"
	"os"
)

// LoadConfig loads and parses a configuration file. An empty path yields Default().
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	cfg, err := ParseConfigYAML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate performs validation on the configuration
func Validate(cfg *Config) error {
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[cfg.LogLevel] {
		return fmt.Errorf("invalid log_level: %s (must be debug, info, warn, or error)", cfg.LogLevel)
	}

	if err := validateArms(cfg.Arms); err != nil {
		return fmt.Errorf("arms validation failed: %w", err)
	}

	if cfg.Trials <= 0 {
		return fmt.Errorf("trials must be positive, got %d", cfg.Trials)
	}
	if cfg.Trials > MaxTrials {
		return fmt.Errorf("trials must not exceed %d, got %d", MaxTrials, cfg.Trials)
	}

	if err := validateTruths(cfg.Truths); err != nil {
		return fmt.Errorf("truths validation failed: %w", err)
	}

	if err := ValidateEpsilon(cfg.Greedy.Epsilon); err != nil {
		return fmt.Errorf("greedy validation failed: %w", err)
	}

	if cfg.Replay.Interval <= 0 {
		return fmt.Errorf("replay interval must be positive, got %d", cfg.Replay.Interval)
	}

	if cfg.Server.HTTPAddr == "" {
		return fmt.Errorf("server http_addr cannot be empty")
	}
	if cfg.Server.GRPCAddr == "" {
		return fmt.Errorf("server grpc_addr cannot be empty")
	}

	return nil
}

// validateArms validates the subject line list
func validateArms(arms []string) error {
	if len(arms) == 0 {
		return fmt.Errorf("at least one arm must be defined")
	}
	seen := make(map[string]bool, len(arms))
	for i, name := range arms {
		if name == "" {
			return fmt.Errorf("arm %d: name cannot be empty", i)
		}
		if seen[name] {
			return fmt.Errorf("duplicate arm name: %s", name)
		}
		seen[name] = true
	}
	return nil
}

// validateTruths validates the ground-truth bounds
func validateTruths(t TruthConfig) error {
	if !(t.Low >= 0 && t.Low <= 1) {
		return fmt.Errorf("low must be between 0 and 1, got %f", t.Low)
	}
	if !(t.High >= 0 && t.High <= 1) {
		return fmt.Errorf("high must be between 0 and 1, got %f", t.High)
	}
	if t.Low > t.High {
		return fmt.Errorf("low (%f) cannot exceed high (%f)", t.Low, t.High)
	}
	return nil
}

// ValidateEpsilon checks an exploration rate. Exported for request-level overrides.
func ValidateEpsilon(epsilon float64) error {
	if !(epsilon >= 0 && epsilon <= 1) {
		return fmt.Errorf("epsilon must be between 0 and 1, got %f", epsilon)
	}
	return nil
}
