// Package config handles kestrel.toml project configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/cloudcmds/kestrel/vm"
	"github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog"
)

// FileName is the name of the project configuration file.
const FileName = "kestrel.toml"

// DefaultHistoryFile is the REPL history location used when none is
// configured.
const DefaultHistoryFile = "~/.kestrel_history"

// Config represents a kestrel.toml project configuration.
type Config struct {
	VM   VMConfig   `toml:"vm"`
	REPL REPLConfig `toml:"repl"`
	Log  LogConfig  `toml:"log"`

	// Path is the file the configuration was loaded from (set at load time).
	Path string `toml:"-"`
}

// VMConfig configures the virtual machine.
type VMConfig struct {
	StackSize        int   `toml:"stack_size"`
	InstructionLimit int64 `toml:"instruction_limit"`
	CheckInterval    int   `toml:"check_interval"`
}

// REPLConfig configures the interactive prompt.
type REPLConfig struct {
	HistoryFile string `toml:"history_file"`
	Prompt      string `toml:"prompt"`
	Engine      string `toml:"engine"`
}

// LogConfig configures diagnostic logging.
type LogConfig struct {
	Level string `toml:"level"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load parses the kestrel.toml file in the given directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, FileName))
}

// LoadFile parses the configuration file at path. Keys that do not belong
// to the configuration are reported as errors.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var c Config
	md, err := toml.Decode(string(data), &c)
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		return nil, fmt.Errorf("unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}

	c.Path, err = filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", path, err)
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", path, err)
	}
	return &c, nil
}

// FindAndLoad walks up from startDir to find a kestrel.toml file, then
// loads and returns it. Returns nil if no file is found.
func FindAndLoad(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return nil, nil
		}
		dir = parent
	}
}

func (c *Config) applyDefaults() {
	if c.VM.StackSize == 0 {
		c.VM.StackSize = vm.DefaultStackSize
	}
	if c.VM.CheckInterval == 0 {
		c.VM.CheckInterval = vm.DefaultContextCheckInterval
	}
	if c.REPL.HistoryFile == "" {
		c.REPL.HistoryFile = DefaultHistoryFile
	}
	if c.REPL.Prompt == "" {
		c.REPL.Prompt = ">> "
	}
	if c.REPL.Engine == "" {
		c.REPL.Engine = "vm"
	}
	if c.Log.Level == "" {
		c.Log.Level = "warn"
	}
}

// Validate reports the first setting that is out of range.
func (c *Config) Validate() error {
	if c.VM.StackSize < 0 {
		return fmt.Errorf("vm.stack_size must not be negative (got %d)", c.VM.StackSize)
	}
	if c.VM.InstructionLimit < 0 {
		return fmt.Errorf("vm.instruction_limit must not be negative (got %d)", c.VM.InstructionLimit)
	}
	switch c.REPL.Engine {
	case "vm", "eval":
	default:
		return fmt.Errorf("repl.engine must be \"vm\" or \"eval\" (got %q)", c.REPL.Engine)
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return nil
}

// LogLevel returns the configured log level.
func (c *Config) LogLevel() (zerolog.Level, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(c.Log.Level))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}

// HistoryPath returns the REPL history file with any leading ~ expanded.
func (c *Config) HistoryPath() (string, error) {
	return homedir.Expand(c.REPL.HistoryFile)
}

// VMOptions returns the virtual machine options the configuration selects.
func (c *Config) VMOptions() []vm.Option {
	opts := []vm.Option{
		vm.WithStackSize(c.VM.StackSize),
		vm.WithContextCheckInterval(c.VM.CheckInterval),
	}
	if c.VM.InstructionLimit > 0 {
		opts = append(opts, vm.WithInstructionLimit(c.VM.InstructionLimit))
	}
	return opts
}
