package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"framelog/internal/record"
)

// JSONConfig is the on-disk shape of a framelog configuration file, field
// names matching the §6 configuration table.
type JSONConfig struct {
	BufferSize          int    `json:"buffer_size"`
	MaxMemoryBytes      int    `json:"max_memory_bytes"`
	FlushInterval       string `json:"flush_interval"`
	EnableDeduplication *bool  `json:"enable_deduplication"`
	DedupWindowSize     int    `json:"dedup_window_size"`
	DedupTimeWindow     string `json:"dedup_time_window"`
	MinLevel            string `json:"min_level"`
	OutputFile          string `json:"output_file"`
	ConsoleOutput       bool   `json:"console_output"`
	AsyncFlush          *bool  `json:"async_flush"`

	// Domain-stack extras, not in spec.md's core table but given a home
	// by SPEC_FULL's dependency wiring.
	NetworkEndpoint     string  `json:"network_endpoint,omitempty"`
	DesktopNotify       bool    `json:"desktop_notify,omitempty"`
	EncryptedOutputFile string  `json:"encrypted_output_file,omitempty"`
	MaxMemoryFraction   float64 `json:"max_memory_fraction,omitempty"`
	Metrics             struct {
		Enabled bool `json:"enabled"`
		Port    int  `json:"port"`
	} `json:"metrics"`
}

// Config is the resolved, typed configuration an Engine is built from.
type Config struct {
	BufferSize          int
	MaxMemoryBytes      int
	FlushInterval       time.Duration
	EnableDeduplication bool
	DedupWindowSize     int
	DedupTimeWindow     time.Duration
	MinLevel            record.Level
	OutputFile          string
	ConsoleOutput       bool
	AsyncFlush          bool

	NetworkEndpoint     string
	DesktopNotify       bool
	EncryptedOutputFile string
	EncryptionKey       []byte
	MaxMemoryFraction   float64
	MetricsEnabled      bool
	MetricsPort         int
}

// LoadConfig reads and unmarshals a JSON config file.
func LoadConfig(path string) (cfg JSONConfig, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		err = fmt.Errorf("engine: read config file: %w", err)
		return
	}
	if err = json.Unmarshal(data, &cfg); err != nil {
		err = fmt.Errorf("engine: invalid config syntax in %q: %w", path, err)
		return
	}
	return
}

// ResolveEngineConfig maps the JSON shape onto a Config, parsing durations
// and levels, then filling zero-valued fields with the spec's defaults.
func (jc JSONConfig) ResolveEngineConfig() (cfg Config, err error) {
	cfg.BufferSize = jc.BufferSize
	cfg.MaxMemoryBytes = jc.MaxMemoryBytes
	cfg.DedupWindowSize = jc.DedupWindowSize
	cfg.OutputFile = jc.OutputFile
	cfg.ConsoleOutput = jc.ConsoleOutput
	cfg.NetworkEndpoint = jc.NetworkEndpoint
	cfg.DesktopNotify = jc.DesktopNotify
	cfg.EncryptedOutputFile = jc.EncryptedOutputFile
	cfg.MaxMemoryFraction = jc.MaxMemoryFraction
	cfg.MetricsEnabled = jc.Metrics.Enabled
	cfg.MetricsPort = jc.Metrics.Port

	if jc.EnableDeduplication != nil {
		cfg.EnableDeduplication = *jc.EnableDeduplication
	} else {
		cfg.EnableDeduplication = true
	}
	if jc.AsyncFlush != nil {
		cfg.AsyncFlush = *jc.AsyncFlush
	} else {
		cfg.AsyncFlush = true
	}

	if jc.FlushInterval != "" {
		cfg.FlushInterval, err = time.ParseDuration(jc.FlushInterval)
		if err != nil {
			err = fmt.Errorf("engine: parse flush_interval: %w", err)
			return
		}
	}
	if jc.DedupTimeWindow != "" {
		cfg.DedupTimeWindow, err = time.ParseDuration(jc.DedupTimeWindow)
		if err != nil {
			err = fmt.Errorf("engine: parse dedup_time_window: %w", err)
			return
		}
	}
	if jc.MinLevel != "" {
		cfg.MinLevel, err = record.ParseLevel(jc.MinLevel)
		if err != nil {
			err = fmt.Errorf("engine: parse min_level: %w", err)
			return
		}
	} else {
		cfg.MinLevel = record.Debug
	}

	cfg.setDefaults()
	return
}

// setDefaults fills any zero-valued field with the default from spec §6.
func (cfg *Config) setDefaults() {
	if cfg.BufferSize == 0 {
		cfg.BufferSize = 10_000
	}
	if cfg.MaxMemoryBytes == 0 {
		cfg.MaxMemoryBytes = 50 * 1024 * 1024
	}
	if cfg.FlushInterval == 0 {
		cfg.FlushInterval = 1 * time.Second
	}
	if cfg.DedupWindowSize == 0 {
		cfg.DedupWindowSize = 1000
	}
	if cfg.DedupTimeWindow == 0 {
		cfg.DedupTimeWindow = 5 * time.Second
	}
	if cfg.OutputFile == "" && cfg.EncryptedOutputFile == "" {
		cfg.OutputFile = "driver.log"
	}
	if cfg.MaxMemoryFraction == 0 {
		cfg.MaxMemoryFraction = 0.25
	}
}

// Validate rejects configuration that the engine cannot safely construct
// from: a zero-sized buffer has no meaningful back-pressure semantics.
func (cfg Config) Validate() error {
	if cfg.BufferSize <= 0 {
		return fmt.Errorf("engine: buffer_size must be positive, got %d", cfg.BufferSize)
	}
	if cfg.MaxMemoryBytes <= 0 {
		return fmt.Errorf("engine: max_memory_bytes must be positive, got %d", cfg.MaxMemoryBytes)
	}
	return nil
}

// DefaultConfig returns the spec's default configuration.
func DefaultConfig() Config {
	cfg := Config{EnableDeduplication: true, AsyncFlush: true, MinLevel: record.Debug}
	cfg.setDefaults()
	return cfg
}
