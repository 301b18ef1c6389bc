package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the complete papertrade configuration.
type Config struct {
	Account AccountConfig      `json:"account" yaml:"account"`
	Prices  map[string]float64 `json:"prices,omitempty" yaml:"prices,omitempty"`
	Journal JournalConfig      `json:"journal" yaml:"journal"`
	Server  ServerConfig       `json:"server" yaml:"server"`
	Log     LogConfig          `json:"log" yaml:"log"`
}

// AccountConfig describes the account opened at startup when CreateOnStart
// is set. An empty ID is replaced by a generated one.
type AccountConfig struct {
	ID             string  `json:"id" yaml:"id"`
	InitialDeposit float64 `json:"initial_deposit" yaml:"initial_deposit"`
	CreateOnStart  bool    `json:"create_on_start" yaml:"create_on_start"`
}

// JournalConfig selects where ledger entries are mirrored.
type JournalConfig struct {
	Type   string `json:"type" yaml:"type"` // "none", "csv" or "sqlite"
	File   string `json:"file,omitempty" yaml:"file,omitempty"`
	DBPath string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// Path returns the file the configured backend writes to.
func (j JournalConfig) Path() string {
	if j.Type == "sqlite" {
		return j.DBPath
	}
	return j.File
}

type ServerConfig struct {
	Addr           string   `json:"addr" yaml:"addr"`
	AllowedOrigins []string `json:"allowed_origins,omitempty" yaml:"allowed_origins,omitempty"`
}

type LogConfig struct {
	Level  string `json:"level" yaml:"level"` // debug, info, warn, error
	Pretty bool   `json:"pretty" yaml:"pretty"`
}

// LoadFromFile loads configuration from a file (YAML or JSON).
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		cfg = &Config{}
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}
	cfg.fillDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration as YAML for .yaml/.yml paths and JSON
// otherwise.
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Account.InitialDeposit < 0 {
		return fmt.Errorf("account.initial_deposit cannot be negative")
	}
	for sym, px := range c.Prices {
		if strings.TrimSpace(sym) == "" {
			return fmt.Errorf("prices: empty symbol")
		}
		if px < 0 {
			return fmt.Errorf("prices.%s cannot be negative", sym)
		}
	}
	switch c.Journal.Type {
	case "", "none":
	case "csv":
		if c.Journal.File == "" {
			return fmt.Errorf("journal.file required for csv type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal.db_path required for sqlite type")
		}
	default:
		return fmt.Errorf("journal.type must be 'none', 'csv' or 'sqlite'")
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error")
	}
	return nil
}

// fillDefaults sets the fields a hand-written file is likely to omit.
func (c *Config) fillDefaults() {
	def := Default()
	if c.Journal.Type == "" {
		c.Journal.Type = def.Journal.Type
	}
	if c.Server.Addr == "" {
		c.Server.Addr = def.Server.Addr
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Account: AccountConfig{
			ID:             "A1",
			InitialDeposit: 1000,
		},
		Prices: map[string]float64{
			"AAPL":  150,
			"TSLA":  600,
			"GOOGL": 2800,
		},
		Journal: JournalConfig{
			Type: "none",
		},
		Server: ServerConfig{
			Addr: "localhost:8080",
			AllowedOrigins: []string{
				"http://localhost:3000",
				"http://localhost",
			},
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Environment variables recognised by ApplyEnv.
const (
	EnvAccountID      = "PAPERTRADE_ACCOUNT_ID"
	EnvInitialDeposit = "PAPERTRADE_INITIAL_DEPOSIT"
	EnvAddr           = "PAPERTRADE_ADDR"
	EnvJournalType    = "PAPERTRADE_JOURNAL_TYPE"
	EnvJournalFile    = "PAPERTRADE_JOURNAL_FILE"
	EnvJournalDB      = "PAPERTRADE_JOURNAL_DB"
	EnvLogLevel       = "PAPERTRADE_LOG_LEVEL"
	EnvLogPretty      = "PAPERTRADE_LOG_PRETTY"
)

// LoadEnv reads a .env file when present and overlays the process
// environment onto c.
func (c *Config) LoadEnv(dotenv string) error {
	if dotenv != "" {
		if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", dotenv, err)
		}
	}
	return c.ApplyEnv(os.LookupEnv)
}

// ApplyEnv overlays values from lookup onto c and revalidates.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	str(EnvAccountID, &c.Account.ID)
	str(EnvAddr, &c.Server.Addr)
	str(EnvJournalType, &c.Journal.Type)
	str(EnvJournalFile, &c.Journal.File)
	str(EnvJournalDB, &c.Journal.DBPath)
	str(EnvLogLevel, &c.Log.Level)

	if v, ok := lookup(EnvInitialDeposit); ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvInitialDeposit, err)
		}
		c.Account.InitialDeposit = f
		c.Account.CreateOnStart = true
	}
	if v, ok := lookup(EnvLogPretty); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvLogPretty, err)
		}
		c.Log.Pretty = b
	}

	return c.Validate()
}

// ReadEnvFile parses a .env file without touching the process
// environment. The result can be passed to ApplyEnv through MapLookup.
func ReadEnvFile(path string) (map[string]string, error) {
	return godotenv.Read(path)
}

// MapLookup adapts a map to the lookup signature used by ApplyEnv.
func MapLookup(m map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}
