package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// FileName is the name of the project configuration file.
const FileName = "vtc.toml"

// File is the decoded content of a vtc.toml file.
type File struct {
	// Path is the file the configuration was loaded from.
	Path string `toml:"-"`

	Compiler CompilerSection  `toml:"compiler"`
	Bindings *BindingMetadata `toml:"bindings"`
}

// CompilerSection is the [compiler] table.
type CompilerSection struct {
	// Platform selects a tag table set. Only "web" is known; empty means
	// no platform classifiers.
	Platform           string   `toml:"platform"`
	Whitespace         string   `toml:"whitespace"`
	PreserveWhitespace *bool    `toml:"preserve_whitespace"`
	Optimize           *bool    `toml:"optimize"`
	Delimiters         []string `toml:"delimiters"`
	Comments           bool     `toml:"comments"`
	OutputSourceRange  bool     `toml:"output_source_range"`
	StaticKeys         []string `toml:"static_keys"`
	ScopeID            string   `toml:"scope_id"`
	ExpectHTML         bool     `toml:"expect_html"`
}

// FindConfigFile looks for vtc.toml in startDir and its parents.
func FindConfigFile(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// LoadFile reads and validates a vtc.toml file.
func LoadFile(path string) (*File, error) {
	f := &File{Path: path}
	meta, err := toml.DecodeFile(path, f)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if meta.IsDefined("compiler", "delimiters") && len(f.Compiler.Delimiters) != 2 {
		return nil, fmt.Errorf("%s: [compiler].delimiters must have two entries", path)
	}
	switch f.Compiler.Platform {
	case "", "web":
	default:
		return nil, fmt.Errorf("%s: unknown [compiler].platform %q", path, f.Compiler.Platform)
	}
	if err := New(f.Options()...).Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Options converts the file into functional options. Platform tables are
// not included; see Compiler.Platform.
func (f *File) Options() []Option {
	c := f.Compiler
	var opts []Option
	if c.Whitespace != "" {
		opts = append(opts, WithWhitespace(Whitespace(c.Whitespace)))
	}
	if c.PreserveWhitespace != nil {
		opts = append(opts, WithPreserveWhitespace(*c.PreserveWhitespace))
	}
	if c.Optimize != nil {
		opts = append(opts, WithOptimize(*c.Optimize))
	}
	if len(c.Delimiters) == 2 {
		opts = append(opts, WithDelimiters(c.Delimiters[0], c.Delimiters[1]))
	}
	if c.Comments {
		opts = append(opts, WithComments(true))
	}
	if c.OutputSourceRange {
		opts = append(opts, WithOutputSourceRange(true))
	}
	if len(c.StaticKeys) > 0 {
		opts = append(opts, WithStaticKeys(strings.Join(c.StaticKeys, ",")))
	}
	if c.ScopeID != "" {
		opts = append(opts, WithScopeID(c.ScopeID))
	}
	if c.ExpectHTML {
		opts = append(opts, WithExpectHTML(true))
	}
	if f.Bindings != nil {
		opts = append(opts, WithBindings(f.Bindings))
	}
	return opts
}
