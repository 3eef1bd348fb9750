package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig("../../config/config.yaml")
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.LogLevel != "info" {
		t.Errorf("Expected log_level 'info', got '%s'", cfg.LogLevel)
	}
	if cfg.ArmCount() != 5 {
		t.Errorf("Expected 5 arms, got %d", cfg.ArmCount())
	}
	if cfg.Arms[0] != "Limited Time Offer!" {
		t.Errorf("Expected first arm 'Limited Time Offer!', got '%s'", cfg.Arms[0])
	}
	if cfg.Trials != 10000 {
		t.Errorf("Expected 10000 trials, got %d", cfg.Trials)
	}
	if cfg.Truths.Seed != 42 || cfg.Random.Seed != 123 || cfg.Greedy.Seed != 456 {
		t.Errorf("Unexpected seeds: truths=%d random=%d greedy=%d", cfg.Truths.Seed, cfg.Random.Seed, cfg.Greedy.Seed)
	}
	if cfg.Server.GRPCAddr != ":50051" {
		t.Errorf("Expected grpc addr :50051, got %s", cfg.Server.GRPCAddr)
	}
}

func TestLoadConfigEmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig(\"\") failed: %v", err)
	}
	if cfg.Trials != Default().Trials {
		t.Errorf("expected defaults, got trials=%d", cfg.Trials)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadConfigInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("trials: -1\n"), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestDefaultIsValid(t *testing.T) {
	if err := Validate(Default()); err != nil {
		t.Fatalf("Default() should validate: %v", err)
	}
	d := Default()
	d.Arms[0] = "changed"
	if DefaultSubjects[0] == "changed" {
		t.Fatal("Default() must not alias DefaultSubjects")
	}
}
