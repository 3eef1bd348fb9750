package config

// Config represents the simulation and service configuration
type Config struct {
	LogLevel string       `yaml:"log_level"`
	Arms     []string     `yaml:"arms"`
	Trials   int          `yaml:"trials"`
	Truths   TruthConfig  `yaml:"truths"`
	Random   RandomConfig `yaml:"random"`
	Greedy   GreedyConfig `yaml:"greedy"`
	Replay   ReplayConfig `yaml:"replay"`
	Server   ServerConfig `yaml:"server"`
}

// TruthConfig controls how hidden conversion rates are drawn
type TruthConfig struct {
	Seed int64   `yaml:"seed"`
	Low  float64 `yaml:"low"`
	High float64 `yaml:"high"`
}

// RandomConfig configures the uniform block-sending policy
type RandomConfig struct {
	Seed int64 `yaml:"seed"`
}

// GreedyConfig configures the epsilon-greedy policy
type GreedyConfig struct {
	Seed    int64   `yaml:"seed"`
	Epsilon float64 `yaml:"epsilon"`
}

// ReplayConfig configures regret sampling and replay positions
type ReplayConfig struct {
	Interval int `yaml:"interval"`
}

// ServerConfig holds listen addresses for banditd
type ServerConfig struct {
	HTTPAddr string `yaml:"http_addr"`
	GRPCAddr string `yaml:"grpc_addr"`
}

// ArmCount returns the number of configured subject lines
func (c *Config) ArmCount() int {
	return len(c.Arms)
}

// DefaultSubjects are the subject lines of the email scenario
var DefaultSubjects = []string{
	"Limited Time Offer!",
	"You Won't Believe This...",
	"Exclusive Deal Inside",
	"Last Chance to Save",
	"Free Gift Waiting",
}

// MaxTrials bounds a single run so every request completes in predictable time
const MaxTrials = 1_000_000

// Default returns the scenario of 10,000 emails over five subject lines
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Arms:     append([]string(nil), DefaultSubjects...),
		Trials:   10000,
		Truths:   TruthConfig{Seed: 42, Low: 0.1, High: 0.6},
		Random:   RandomConfig{Seed: 123},
		Greedy:   GreedyConfig{Seed: 456, Epsilon: 0.10},
		Replay:   ReplayConfig{Interval: 100},
		Server:   ServerConfig{HTTPAddr: ":8080", GRPCAddr: ":50051"},
	}
}
