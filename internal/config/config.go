// Package config loads and validates formatter settings. A Config is built
// once per run and shared read-only across parallel file workers.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/bmatcuk/doublestar/v4"
)

const (
	DefaultIndent     = 4
	DefaultLineLength = 80
	DefaultMargin     = 1
)

// Config is the recognized option set. Immutable after Load/Default.
type Config struct {
	// Indent is the number of spaces per indentation level.
	Indent int
	// LineLength is the width budget groups try to fit within.
	LineLength int
	// Margin caps consecutive blank lines preserved between items.
	Margin int
	// Exclude holds glob patterns filtering discovered source files.
	Exclude []string
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Indent:     DefaultIndent,
		LineLength: DefaultLineLength,
		Margin:     DefaultMargin,
	}
}

// Error is a fatal configuration problem, surfaced once before any file is
// processed.
type Error struct {
	Path   string
	Reason string
}

func (e *Error) Error() string {
	if e.Path == "" {
		return "config: " + e.Reason
	}
	return "config " + e.Path + ": " + e.Reason
}

// fileSchema mirrors the TOML surface. line_length and limit are accepted
// as aliases for the same setting.
type fileSchema struct {
	Indent     *int     `toml:"indent"`
	LineLength *int     `toml:"line_length"`
	Limit      *int     `toml:"limit"`
	Margin     *int     `toml:"margin"`
	Exclude    []string `toml:"exclude"`
}

// Load reads a TOML config file. Unknown keys are an error, not a warning:
// a typoed option must not silently fall back to defaults.
func Load(path string) (Config, error) {
	var schema fileSchema
	md, err := toml.DecodeFile(path, &schema)
	if err != nil {
		return Config{}, &Error{Path: path, Reason: err.Error()}
	}
	return fromSchema(path, schema, md)
}

// Parse decodes TOML from memory. Same rules as Load.
func Parse(data []byte) (Config, error) {
	var schema fileSchema
	md, err := toml.Decode(string(data), &schema)
	if err != nil {
		return Config{}, &Error{Reason: err.Error()}
	}
	return fromSchema("", schema, md)
}

func fromSchema(path string, schema fileSchema, md toml.MetaData) (Config, error) {
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, &Error{Path: path, Reason: fmt.Sprintf("unknown key %q", undecoded[0].String())}
	}

	cfg := Default()
	if schema.Indent != nil {
		cfg.Indent = *schema.Indent
	}
	if schema.LineLength != nil {
		cfg.LineLength = *schema.LineLength
	}
	if schema.Limit != nil {
		if schema.LineLength != nil && *schema.LineLength != *schema.Limit {
			return Config{}, &Error{Path: path, Reason: "line_length and limit disagree"}
		}
		cfg.LineLength = *schema.Limit
	}
	if schema.Margin != nil {
		cfg.Margin = *schema.Margin
	}
	cfg.Exclude = schema.Exclude

	if err := cfg.Validate(); err != nil {
		var cerr *Error
		if e, ok := err.(*Error); ok {
			cerr = e
		} else {
			cerr = &Error{Reason: err.Error()}
		}
		cerr.Path = path
		return Config{}, cerr
	}
	return cfg, nil
}

// Validate checks value ranges and glob syntax.
func (c Config) Validate() error {
	if c.Indent <= 0 {
		return &Error{Reason: fmt.Sprintf("indent must be positive, got %d", c.Indent)}
	}
	if c.LineLength <= 0 {
		return &Error{Reason: fmt.Sprintf("line_length must be positive, got %d", c.LineLength)}
	}
	if c.Margin < 0 {
		return &Error{Reason: fmt.Sprintf("margin must be non-negative, got %d", c.Margin)}
	}
	for _, pattern := range c.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return &Error{Reason: fmt.Sprintf("invalid exclude pattern %q", pattern)}
		}
	}
	return nil
}

// Excluded reports whether path matches any exclude pattern. Patterns are
// matched against the slash-normalized path.
func (c Config) Excluded(path string) bool {
	for _, pattern := range c.Exclude {
		if ok, err := doublestar.Match(pattern, path); err == nil && ok {
			return true
		}
	}
	return false
}
