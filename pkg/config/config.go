package config

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/pseudomuto/sqlalign/pkg/format"
	"github.com/pseudomuto/sqlalign/pkg/utils"
	"gopkg.in/yaml.v3"
)

// Config represents the project configuration read from .sqlalign.yaml.
//
// Every field is optional. Missing values take the formatter defaults, so an
// empty mapping behaves exactly like running without a config file.
type Config struct {
	// Indent is the number of spaces placed before each row or column definition
	Indent int `yaml:"indent,omitempty"`

	// UppercaseKeywords controls whether the emitted VALUES keyword is upper case
	UppercaseKeywords *bool `yaml:"uppercase_keywords,omitempty"`

	// CreateTable enables alignment of CREATE TABLE column lists
	CreateTable *bool `yaml:"create_table,omitempty"`

	// Exclude lists glob patterns for files and directories skipped while walking
	Exclude []string `yaml:"exclude,omitempty"`

	// Jobs is the number of files formatted concurrently
	Jobs int `yaml:"jobs,omitempty"`
}

// DefaultJobs is the concurrency used when neither the config nor the command
// line sets one.
const DefaultJobs = 4

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// LoadConfig parses a configuration from the provided io.Reader.
//
// The function expects YAML-formatted data. Defaults are applied after decoding
// for every key the document leaves out, so empty input yields Default().
//
// Example:
//
//	cfg, err := config.LoadConfig(strings.NewReader("indent: 2\n"))
//	if err != nil {
//		panic(err)
//	}
//
//	fmt.Printf("Indent: %d\n", cfg.Indent)
func LoadConfig(r io.Reader) (*Config, error) {
	var cfg Config
	// an empty document is an empty mapping
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	if cfg.Indent < 0 {
		return nil, errors.Errorf("indent must not be negative: %d", cfg.Indent)
	}

	if cfg.Jobs < 0 {
		return nil, errors.Errorf("jobs must not be negative: %d", cfg.Jobs)
	}

	for _, pattern := range cfg.Exclude {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return nil, errors.Wrapf(err, "invalid exclude pattern: %s", pattern)
		}
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// LoadConfigFile loads a configuration from the specified file path.
// This is a convenience function that opens the file and calls LoadConfig.
func LoadConfigFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open file: %s", path)
	}
	defer func() { _ = f.Close() }()

	return LoadConfig(f)
}

// GetFormatter builds a formatter from the configuration. A nil Config yields
// a formatter using format.Defaults.
func (c *Config) GetFormatter() *format.Formatter {
	if c == nil {
		return format.New(format.Defaults)
	}

	return format.New(format.FormatterOptions{
		IndentSize:        c.Indent,
		UppercaseKeywords: utils.Deref(c.UppercaseKeywords, format.Defaults.UppercaseKeywords),
		AlignCreateTable:  utils.Deref(c.CreateTable, format.Defaults.AlignCreateTable),
	})
}

// Excluded reports whether path matches any of the exclude patterns. Patterns
// are matched against both the full path and its base name.
func (c *Config) Excluded(path string) bool {
	if c == nil {
		return false
	}

	base := filepath.Base(path)
	for _, pattern := range c.Exclude {
		if ok, _ := filepath.Match(pattern, path); ok {
			return true
		}
		if ok, _ := filepath.Match(pattern, base); ok {
			return true
		}
	}

	return false
}

func (c *Config) applyDefaults() {
	if c.Indent == 0 {
		c.Indent = format.Defaults.IndentSize
	}
	if c.UppercaseKeywords == nil {
		c.UppercaseKeywords = utils.Ptr(format.Defaults.UppercaseKeywords)
	}
	if c.CreateTable == nil {
		c.CreateTable = utils.Ptr(format.Defaults.AlignCreateTable)
	}
	if c.Jobs == 0 {
		c.Jobs = DefaultJobs
	}
}
