// Package config loads agent settings from YAML. Command-line flags override loaded values.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	TransportTCP = "tcp"
	TransportWS  = "ws"
)

var ErrInvalid = errors.New("invalid config")

type Config struct {
	Host        string        `yaml:"host"`
	Port        int           `yaml:"port"`
	AgentID     string        `yaml:"agent_id"`
	CallID      string        `yaml:"call_id"`
	Transport   string        `yaml:"transport"`
	URL         string        `yaml:"url"`
	ReadTimeout time.Duration `yaml:"read_timeout"`

	Log        Log    `yaml:"log"`
	JournalDir string `yaml:"journal_dir"`
	DB         string `yaml:"db"`
}

type Log struct {
	File    string `yaml:"file"`
	Level   string `yaml:"level"`
	Console bool   `yaml:"console"`
}

func Defaults() Config {
	return Config{
		Host:      "127.0.0.1",
		Port:      8080,
		AgentID:   "backup_agent_id",
		CallID:    "1",
		Transport: TransportTCP,
		Log:       Log{Level: "info", Console: true},
	}
}

// Load reads path over Defaults. Keys absent from the file keep their default.
func Load(path string) (Config, error) {
	c := Defaults()
	raw, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return c, fmt.Errorf("%s: %w", path, err)
	}
	return c, c.Validate()
}

func (c Config) Validate() error {
	switch c.Transport {
	case TransportTCP:
		if c.Host == "" {
			return fmt.Errorf("%w: empty host", ErrInvalid)
		}
		if c.Port <= 0 || c.Port > 65535 {
			return fmt.Errorf("%w: port %d out of range", ErrInvalid, c.Port)
		}
	case TransportWS:
		if c.URL == "" {
			return fmt.Errorf("%w: ws transport needs a url", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown transport %q", ErrInvalid, c.Transport)
	}
	if c.AgentID == "" {
		return fmt.Errorf("%w: empty agent_id", ErrInvalid)
	}
	if c.ReadTimeout < 0 {
		return fmt.Errorf("%w: negative read_timeout", ErrInvalid)
	}
	return nil
}
