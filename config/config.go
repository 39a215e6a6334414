/*
Package config reads settings for the hilite command from TOML files.

	max-depth        = 8
	class-prefix     = ""
	grammar-dirs     = ["~/.config/hilite/grammars"]
	default-language = "protobuf"
	theme            = "default"
	strict-grammars  = false

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/npillmayer/hilite/lexer"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'hilite.config'.
func tracer() tracing.Trace {
	return tracing.Select("hilite.config")
}

// Config holds the settings of the hilite command.
type Config struct {
	MaxDepth        int      `toml:"max-depth"`
	ClassPrefix     string   `toml:"class-prefix"`
	GrammarDirs     []string `toml:"grammar-dirs"`
	DefaultLanguage string   `toml:"default-language"`
	Theme           string   `toml:"theme"`
	StrictGrammars  bool     `toml:"strict-grammars"`
}

// MaxMaxDepth is the upper bound for setting max-depth.
const MaxMaxDepth = 64

// Default returns the settings used without a configuration file.
func Default() Config {
	return Config{
		MaxDepth: lexer.DefaultMaxDepth,
		Theme:    "default",
	}
}

// Parse reads settings from r. Settings missing in r keep their default
// values. Unknown keys are an error.
func Parse(r io.Reader) (Config, error) {
	c := Default()
	md, err := toml.NewDecoder(r).Decode(&c)
	if err != nil {
		return c, fmt.Errorf("cannot parse configuration: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return c, fmt.Errorf("unknown configuration keys: %s", strings.Join(keys, ", "))
	}
	return c, c.Validate()
}

// Load reads settings from a file. Relative grammar directories are
// interpreted relative to the location of the file; a leading '~' stands
// for the user's home directory.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Default(), err
	}
	defer f.Close()
	c, err := Parse(f)
	if err != nil {
		return c, fmt.Errorf("%s: %w", path, err)
	}
	base := filepath.Dir(path)
	for i, dir := range c.GrammarDirs {
		c.GrammarDirs[i] = resolve(base, dir)
	}
	tracer().Debugf("configuration loaded from %s", path)
	return c, nil
}

func resolve(base, dir string) string {
	if dir == "~" || strings.HasPrefix(dir, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, dir[1:])
		}
		tracer().Errorf("cannot resolve home directory for %s", dir)
		return dir
	}
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(base, dir)
}

// Validate checks the ranges of settings.
func (c Config) Validate() error {
	if c.MaxDepth < 1 || c.MaxDepth > MaxMaxDepth {
		return fmt.Errorf("max-depth must be in 1…%d, is %d", MaxMaxDepth, c.MaxDepth)
	}
	if strings.ContainsAny(c.ClassPrefix, " \t\"'<>") {
		return fmt.Errorf("class-prefix %q contains invalid characters", c.ClassPrefix)
	}
	return nil
}
