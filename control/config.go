// control/config.go
// Author: momentics <momentics@gmail.com>
//
// Buffer and simulation configuration loaded from YAML.

package control

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/momentics/hioload-ring/api"
)

// Lock modes for BufferConfig.Lock.
const (
	LockNone  = "none"
	LockSpin  = "spin"
	LockMutex = "mutex"
)

// Config is the full configuration document.
type Config struct {
	Buffer   BufferConfig   `yaml:"buffer"`
	Producer ProducerConfig `yaml:"producer"`
	Consumer ConsumerConfig `yaml:"consumer"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Log      LogConfig      `yaml:"log"`
}

// BufferConfig describes one Blocks ring and its storage.
type BufferConfig struct {
	Name           string `yaml:"name"`
	Capacity       int    `yaml:"capacity"`
	ElementSize    int    `yaml:"element_size"`
	Lock           string `yaml:"lock"`
	StrictPushBack bool   `yaml:"strict_push_back"`
	Mapped         bool   `yaml:"mapped"`
	Locked         bool   `yaml:"locked"`
	PushEnabled    bool   `yaml:"push_enabled"`
	PopEnabled     bool   `yaml:"pop_enabled"`
}

// ProducerConfig drives the interrupt-style producer.
type ProducerConfig struct {
	Period       time.Duration `yaml:"period"`
	Batch        int           `yaml:"batch"`
	CPU          int           `yaml:"cpu"`
	BacklogLimit int           `yaml:"backlog_limit"`
}

// ConsumerConfig drives the task-style consumer.
type ConsumerConfig struct {
	Period time.Duration `yaml:"period"`
	// Frame is how many records make one complete frame.
	Frame int `yaml:"frame"`
}

// MetricsConfig enables the Prometheus endpoint when Addr is set.
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// LogConfig selects slog level and handler.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultConfig returns a working configuration.
func DefaultConfig() *Config {
	return &Config{
		Buffer: BufferConfig{
			Name:        "uart0",
			Capacity:    256,
			ElementSize: 8,
			Lock:        LockSpin,
			Mapped:      true,
			PushEnabled: true,
			PopEnabled:  true,
		},
		Producer: ProducerConfig{
			Period:       time.Millisecond,
			Batch:        4,
			CPU:          -1,
			BacklogLimit: 1024,
		},
		Consumer: ConsumerConfig{
			Period: 5 * time.Millisecond,
			Frame:  3,
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// ParseConfig decodes YAML over the defaults and validates the result.
func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig reads and parses a YAML file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return ParseConfig(data)
}

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	var problems []string
	if c.Buffer.Name == "" {
		problems = append(problems, "buffer.name is empty")
	}
	if c.Buffer.Capacity <= 0 {
		problems = append(problems, fmt.Sprintf("buffer.capacity %d must be positive", c.Buffer.Capacity))
	}
	if c.Buffer.ElementSize <= 0 {
		problems = append(problems, fmt.Sprintf("buffer.element_size %d must be positive", c.Buffer.ElementSize))
	}
	switch c.Buffer.Lock {
	case LockNone, LockSpin, LockMutex:
	default:
		problems = append(problems, fmt.Sprintf("buffer.lock %q is not one of none, spin, mutex", c.Buffer.Lock))
	}
	if c.Producer.Period <= 0 || c.Consumer.Period <= 0 {
		problems = append(problems, "producer.period and consumer.period must be positive")
	}
	if c.Producer.Batch <= 0 || c.Producer.Batch > c.Buffer.Capacity {
		problems = append(problems, fmt.Sprintf("producer.batch %d must be in [1, capacity]", c.Producer.Batch))
	}
	if c.Consumer.Frame <= 0 || c.Consumer.Frame > c.Buffer.Capacity {
		problems = append(problems, fmt.Sprintf("consumer.frame %d must be in [1, capacity]", c.Consumer.Frame))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", api.ErrInvalidArgument, strings.Join(problems, "; "))
	}
	return nil
}
