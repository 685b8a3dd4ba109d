// Package scriptconfig reads and edits the INI file that describes a
// script's command line.
//
// A config has up to four sections: [Command] names the script (and
// optionally the interpreter), [Arguments] holds the current values,
// [ArgParse] maps keys to flag definitions and [Labels] gives display names
// and type hints.
package scriptconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/oukeidos/guini/internal/apperrors"
	"github.com/oukeidos/guini/internal/inifile"
)

const (
	SectionCommand   = "Command"
	SectionArguments = "Arguments"
	SectionArgParse  = "ArgParse"
	SectionLabels    = "Labels"

	KeyScript      = "script_file_name"
	KeyInterpreter = "interpreter"
)

// Item is one key/value pair in file order.
type Item struct {
	Key   string
	Value string
}

type Config struct {
	path string
	file *inifile.File
}

// Load reads the config at path.
func Load(path string) (*Config, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, apperrors.Config("", err)
	}
	if _, err := os.Stat(abs); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperrors.Config(fmt.Sprintf("Config file not found: %s", abs), err)
		}
		return nil, apperrors.Config(fmt.Sprintf("Cannot read config file: %s", abs), err)
	}
	f, err := inifile.Load(abs)
	if err != nil {
		return nil, apperrors.Config(fmt.Sprintf("Failed to parse INI file: %s", filepath.Base(abs)), err)
	}
	return &Config{path: abs, file: f}, nil
}

// Parse builds a config from data. path is only used for Save and for
// resolving relative script paths.
func Parse(path string, data []byte) (*Config, error) {
	f, err := inifile.Parse(data)
	if err != nil {
		return nil, apperrors.Config("Failed to parse INI data.", err)
	}
	return &Config{path: path, file: f}, nil
}

// Path returns the absolute path the config was loaded from.
func (c *Config) Path() string { return c.path }

// Dir returns the directory holding the config.
func (c *Config) Dir() string { return filepath.Dir(c.path) }

func (c *Config) HasSection(name string) bool {
	if name == ini.DefaultSection {
		return false
	}
	_, err := c.file.GetSection(name)
	return err == nil
}

// Sections lists section names in file order.
func (c *Config) Sections() []string {
	var names []string
	for _, s := range inifile.Sections(c.file) {
		names = append(names, s.Name())
	}
	return names
}

// Items returns the entries of section in file order. A missing section
// yields nil.
func (c *Config) Items(section string) []Item {
	if !c.HasSection(section) {
		return nil
	}
	s, _ := c.file.GetSection(section)
	keys := s.Keys()
	items := make([]Item, 0, len(keys))
	for _, k := range keys {
		items = append(items, Item{Key: k.Name(), Value: k.Value()})
	}
	return items
}

func (c *Config) Value(section, key string) (string, bool) {
	if section == ini.DefaultSection {
		return "", false
	}
	return inifile.Lookup(c.file, section, key)
}

// Set stores value, creating the section and key if needed.
func (c *Config) Set(section, key, value string) error {
	if err := inifile.Set(c.file, section, key, value); err != nil {
		return apperrors.Config(fmt.Sprintf("Cannot set %s.%s", section, key), err)
	}
	return nil
}

// Save writes the config back to its path. Comments and key order survive.
func (c *Config) Save() error {
	if c.path == "" {
		return apperrors.IO("The config has no file path.", nil)
	}
	if err := inifile.Save(c.file, c.path); err != nil {
		return apperrors.IO(fmt.Sprintf("Could not save %s", filepath.Base(c.path)), err)
	}
	return nil
}

// ScriptPath resolves [Command] script_file_name. Relative paths are taken
// against baseDir, or the config's own directory when baseDir is empty.
// The script must exist.
func (c *Config) ScriptPath(baseDir string) (string, error) {
	name, ok := c.Value(SectionCommand, KeyScript)
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return "", apperrors.Config("INI file must have a [Command] section with 'script_file_name'.", nil)
	}
	if !filepath.IsAbs(name) {
		if baseDir == "" {
			baseDir = c.Dir()
		}
		name = filepath.Join(baseDir, name)
	}
	info, err := os.Stat(name)
	if err != nil {
		return "", apperrors.Config(fmt.Sprintf("Script file not found: %s", name), err)
	}
	if info.IsDir() {
		return "", apperrors.Config(fmt.Sprintf("Script path is a directory: %s", name), nil)
	}
	return name, nil
}

// Interpreter returns the optional [Command] interpreter override.
func (c *Config) Interpreter() string {
	v, _ := c.Value(SectionCommand, KeyInterpreter)
	return strings.TrimSpace(v)
}
