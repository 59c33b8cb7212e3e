// Package config loads table settings from an HCL file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// MaxSeats is the most players a single deck can serve: two hole cards each
// plus five community cards and three burns.
const MaxSeats = 22

// Storage drivers.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// TableConfig is the immutable per-table configuration the engine runs with.
type TableConfig struct {
	MinimumBet                   int
	StartingStack                int
	IdleTimeout                  time.Duration
	IdleWarning                  time.Duration
	RespawnCooldown              time.Duration
	MaxPlayers                   int
	AutoStartCount               int
	ShowdownRevealDelay          time.Duration
	RevealCommunityOnFastForward bool
	StartWait                    time.Duration
	EquityTrials                 int
}

// SmallBlind is half the minimum bet, rounded down.
func (c TableConfig) SmallBlind() int {
	return c.MinimumBet / 2
}

// StorageConfig selects the persistence backend.
type StorageConfig struct {
	Driver string `hcl:"driver,optional"`
	DSN    string `hcl:"dsn,optional"`
}

// LoggingConfig controls the host's logger.
type LoggingConfig struct {
	Level string `hcl:"level,optional"`
	File  string `hcl:"file,optional"`
}

// Config is the complete configuration.
type Config struct {
	Table   TableConfig
	Storage StorageConfig
	Logging LoggingConfig
}

// tableBlock mirrors TableConfig with pointers so that an explicit zero in
// the file can be told apart from an omitted attribute.
type tableBlock struct {
	MinimumBet      *int  `hcl:"minimum_bet,optional"`
	StartingStack   *int  `hcl:"starting_stack,optional"`
	IdleTimeout     *int  `hcl:"idle_timeout_seconds,optional"`
	IdleWarning     *int  `hcl:"idle_warning_seconds,optional"`
	RespawnCooldown *int  `hcl:"respawn_cooldown_seconds,optional"`
	MaxPlayers      *int  `hcl:"max_players,optional"`
	AutoStartCount  *int  `hcl:"auto_start_count,optional"`
	ShowdownDelay   *int  `hcl:"showdown_reveal_delay_seconds,optional"`
	RevealCommunity *bool `hcl:"reveal_community_on_fast_forward,optional"`
	StartWait       *int  `hcl:"start_wait_seconds,optional"`
	EquityTrials    *int  `hcl:"equity_trials,optional"`
}

type fileConfig struct {
	Table   *tableBlock    `hcl:"table,block"`
	Storage *StorageConfig `hcl:"storage,block"`
	Logging *LoggingConfig `hcl:"logging,block"`
}

// DefaultTableConfig returns the stock table settings.
func DefaultTableConfig() TableConfig {
	return TableConfig{
		MinimumBet:          10,
		StartingStack:       1000,
		IdleTimeout:         60 * time.Second,
		IdleWarning:         45 * time.Second,
		RespawnCooldown:     600 * time.Second,
		MaxPlayers:          MaxSeats,
		AutoStartCount:      10,
		ShowdownRevealDelay: 10 * time.Second,
		StartWait:           5 * time.Second,
		EquityTrials:        5000,
	}
}

// Default returns the complete default configuration.
func Default() *Config {
	return &Config{
		Table:   DefaultTableConfig(),
		Storage: StorageConfig{Driver: DriverMemory},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads an HCL file, applies defaults for anything omitted and
// validates the result. A missing file yields the defaults.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}
	return decode(file.Body)
}

// Parse is Load for in-memory source.
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL: %s", diags.Error())
	}
	return decode(file.Body)
}

func decode(body hcl.Body) (*Config, error) {
	var raw fileConfig
	if diags := gohcl.DecodeBody(body, nil, &raw); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	cfg := Default()
	if t := raw.Table; t != nil {
		setInt(&cfg.Table.MinimumBet, t.MinimumBet)
		setInt(&cfg.Table.StartingStack, t.StartingStack)
		setSeconds(&cfg.Table.IdleTimeout, t.IdleTimeout)
		setSeconds(&cfg.Table.IdleWarning, t.IdleWarning)
		setSeconds(&cfg.Table.RespawnCooldown, t.RespawnCooldown)
		setInt(&cfg.Table.MaxPlayers, t.MaxPlayers)
		setInt(&cfg.Table.AutoStartCount, t.AutoStartCount)
		setSeconds(&cfg.Table.ShowdownRevealDelay, t.ShowdownDelay)
		setSeconds(&cfg.Table.StartWait, t.StartWait)
		setInt(&cfg.Table.EquityTrials, t.EquityTrials)
		if t.RevealCommunity != nil {
			cfg.Table.RevealCommunityOnFastForward = *t.RevealCommunity
		}
	}
	if s := raw.Storage; s != nil {
		if s.Driver != "" {
			cfg.Storage.Driver = s.Driver
		}
		cfg.Storage.DSN = s.DSN
	}
	if l := raw.Logging; l != nil {
		if l.Level != "" {
			cfg.Logging.Level = l.Level
		}
		cfg.Logging.File = l.File
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setSeconds(dst *time.Duration, v *int) {
	if v != nil {
		*dst = time.Duration(*v) * time.Second
	}
}

// Validate checks the whole configuration.
func (c *Config) Validate() error {
	if err := c.Table.Validate(); err != nil {
		return err
	}
	switch c.Storage.Driver {
	case DriverMemory:
	case DriverSQLite:
		if c.Storage.DSN == "" {
			return fmt.Errorf("storage: sqlite driver requires a dsn")
		}
	default:
		return fmt.Errorf("storage: unknown driver %q", c.Storage.Driver)
	}
	if _, err := log.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging: invalid level %q", c.Logging.Level)
	}
	return nil
}

// Validate checks that the table settings describe a playable game.
func (c TableConfig) Validate() error {
	if c.MinimumBet < 2 {
		return fmt.Errorf("table: minimum_bet must be at least 2, got %d", c.MinimumBet)
	}
	if c.StartingStack <= 0 {
		return fmt.Errorf("table: starting_stack must be positive")
	}
	if c.IdleTimeout <= 0 {
		return fmt.Errorf("table: idle_timeout_seconds must be positive")
	}
	if c.IdleWarning < 0 || c.IdleWarning >= c.IdleTimeout {
		return fmt.Errorf("table: idle_warning_seconds must be between 0 and idle_timeout_seconds")
	}
	if c.RespawnCooldown < 0 || c.ShowdownRevealDelay < 0 || c.StartWait < 0 {
		return fmt.Errorf("table: durations cannot be negative")
	}
	if c.MaxPlayers < 2 || c.MaxPlayers > MaxSeats {
		return fmt.Errorf("table: max_players must be between 2 and %d", MaxSeats)
	}
	if c.AutoStartCount < 0 {
		return fmt.Errorf("table: auto_start_count cannot be negative")
	}
	if c.EquityTrials <= 0 {
		return fmt.Errorf("table: equity_trials must be positive")
	}
	return nil
}
