// Package settings persists Guini's own preferences in guini.ini.
package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/oukeidos/guini/internal/apperrors"
	"github.com/oukeidos/guini/internal/inifile"
	"github.com/oukeidos/guini/internal/logger"
)

const (
	FileName    = "guini.ini"
	Section     = "Settings"
	DefaultINI  = "default.ini"
	EnvSettings = "GUINI_SETTINGS"

	MinColumns = 1
	MaxColumns = 4
)

// Theme values.
const (
	ThemeSystem = "system"
	ThemeLight  = "light"
	ThemeDark   = "dark"
)

const (
	keyMultiTab     = "multi_tab_mode"
	keyRememberSize = "remember_window_size"
	keyColumns      = "argument_columns"
	keyBackground   = "run_in_background"
	keyShowIcons    = "show_icons"
	keyTheme        = "theme"
	keyLastLoaded   = "last_loaded_ini"
	keyWindowWidth  = "window_width"
	keyWindowHeight = "window_height"
	keyInterpreter  = "interpreter"
)

const (
	defaultWidth  = 600
	defaultHeight = 500
	minWindowSide = 200
)

type Settings struct {
	MultiTabMode       bool
	RememberWindowSize bool
	ArgumentColumns    int
	RunInBackground    bool
	ShowIcons          bool
	Theme              string
	// LastLoadedINI is stored as written, usually relative to the app dir.
	LastLoadedINI string
	WindowWidth   int
	WindowHeight  int
	// Interpreter is empty for auto-detection.
	Interpreter string
}

// Defaults returns the settings of a fresh install.
func Defaults() Settings {
	return Settings{
		MultiTabMode:       false,
		RememberWindowSize: true,
		ArgumentColumns:    1,
		RunInBackground:    false,
		ShowIcons:          true,
		Theme:              ThemeSystem,
		LastLoadedINI:      DefaultINI,
		WindowWidth:        defaultWidth,
		WindowHeight:       defaultHeight,
	}
}

// DefaultPath returns guini.ini next to the executable, unless
// GUINI_SETTINGS names another file.
func DefaultPath() string {
	if p := strings.TrimSpace(os.Getenv(EnvSettings)); p != "" {
		return p
	}
	return filepath.Join(AppDir(), FileName)
}

// AppDir is the directory of the running executable, or the working
// directory when that cannot be determined.
func AppDir() string {
	exe, err := os.Executable()
	if err == nil {
		if resolved, err := filepath.EvalSymlinks(exe); err == nil {
			exe = resolved
		}
		return filepath.Dir(exe)
	}
	wd, _ := os.Getwd()
	return wd
}

// Store is a loaded settings file.
type Store struct {
	path string
	file *inifile.File
	Settings
}

// Load reads path, filling in defaults for missing or malformed keys. The
// file is created or completed on disk when anything was missing.
func Load(path string) (*Store, error) {
	s := &Store{path: path, Settings: Defaults()}
	f, err := inifile.Load(path)
	switch {
	case err == nil:
		s.file = f
	case errors.Is(err, os.ErrNotExist):
		logger.Info("settings file not found, creating defaults", "path", path)
		s.file = inifile.Empty()
	default:
		return nil, apperrors.Config(fmt.Sprintf("Cannot read settings file: %s", path), err)
	}

	missing := s.decode()
	if missing {
		if err := s.Save(); err != nil {
			return s, err
		}
	}
	return s, nil
}

// Path returns the settings file path.
func (s *Store) Path() string { return s.path }

func (s *Store) decode() (missing bool) {
	d := Defaults()
	get := func(key string) (string, bool) {
		v, ok := inifile.Lookup(s.file, Section, key)
		if !ok {
			missing = true
		}
		return strings.TrimSpace(v), ok
	}
	boolean := func(key string, def bool) bool {
		v, ok := get(key)
		if !ok {
			return def
		}
		b, err := parseBool(v)
		if err != nil {
			logger.Warn("invalid setting, using default", "key", key, "value", v)
			return def
		}
		return b
	}
	integer := func(key string, def, min, max int) int {
		v, ok := get(key)
		if !ok {
			return def
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < min || n > max {
			logger.Warn("invalid setting, using default", "key", key, "value", v)
			return def
		}
		return n
	}

	s.MultiTabMode = boolean(keyMultiTab, d.MultiTabMode)
	s.RememberWindowSize = boolean(keyRememberSize, d.RememberWindowSize)
	s.ArgumentColumns = integer(keyColumns, d.ArgumentColumns, MinColumns, MaxColumns)
	s.RunInBackground = boolean(keyBackground, d.RunInBackground)
	s.ShowIcons = boolean(keyShowIcons, d.ShowIcons)
	s.WindowWidth = integer(keyWindowWidth, d.WindowWidth, minWindowSide, 1<<15)
	s.WindowHeight = integer(keyWindowHeight, d.WindowHeight, minWindowSide, 1<<15)

	if v, ok := get(keyTheme); ok {
		if t, valid := normalizeTheme(v); valid {
			s.Theme = t
		} else {
			logger.Warn("invalid setting, using default", "key", keyTheme, "value", v)
		}
	}
	if v, ok := get(keyLastLoaded); ok && v != "" {
		s.LastLoadedINI = v
	}
	if v, ok := get(keyInterpreter); ok {
		s.Interpreter = v
	}
	return missing
}

func parseBool(v string) (bool, error) {
	switch strings.ToLower(v) {
	case "true", "yes", "on", "1":
		return true, nil
	case "false", "no", "off", "0":
		return false, nil
	}
	return false, fmt.Errorf("not a boolean: %q", v)
}

func normalizeTheme(v string) (string, bool) {
	switch t := strings.ToLower(strings.TrimSpace(v)); t {
	case ThemeSystem, ThemeLight, ThemeDark:
		return t, true
	}
	return "", false
}

func (s *Store) encode() error {
	pairs := []struct{ key, value string }{
		{keyMultiTab, strconv.FormatBool(s.MultiTabMode)},
		{keyRememberSize, strconv.FormatBool(s.RememberWindowSize)},
		{keyColumns, strconv.Itoa(s.ArgumentColumns)},
		{keyBackground, strconv.FormatBool(s.RunInBackground)},
		{keyShowIcons, strconv.FormatBool(s.ShowIcons)},
		{keyTheme, s.Theme},
		{keyLastLoaded, s.LastLoadedINI},
		{keyWindowWidth, strconv.Itoa(s.WindowWidth)},
		{keyWindowHeight, strconv.Itoa(s.WindowHeight)},
		{keyInterpreter, s.Interpreter},
	}
	for _, p := range pairs {
		if err := inifile.Set(s.file, Section, p.key, p.value); err != nil {
			return err
		}
	}
	return nil
}

// Save writes the current values atomically.
func (s *Store) Save() error {
	if err := s.encode(); err != nil {
		return apperrors.IO("Could not update settings.", err)
	}
	if err := inifile.Save(s.file, s.path); err != nil {
		return apperrors.IO(fmt.Sprintf("Could not save settings to %s", s.path), err)
	}
	logger.Debug("settings saved", "path", s.path)
	return nil
}

// LastLoaded returns the absolute path of the last loaded INI. Relative
// entries are resolved against baseDir. If the file is gone, default.ini in
// baseDir is returned.
func (s *Settings) LastLoaded(baseDir string) string {
	p := s.LastLoadedINI
	if p == "" {
		p = DefaultINI
	}
	if !filepath.IsAbs(p) {
		p = filepath.Join(baseDir, p)
	}
	if _, err := os.Stat(p); err != nil {
		return filepath.Join(baseDir, DefaultINI)
	}
	return p
}

// SetLastLoaded records path, relative to baseDir when it lies inside it.
func (s *Settings) SetLastLoaded(path, baseDir string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		s.LastLoadedINI = path
		return
	}
	if rel, err := filepath.Rel(baseDir, abs); err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		s.LastLoadedINI = filepath.ToSlash(rel)
		return
	}
	s.LastLoadedINI = abs
}

// Diff reports whether moving from old to new needs a restart to take
// effect. Theme, column count and background mode apply immediately.
func Diff(old, new Settings) (restart bool) {
	return old.MultiTabMode != new.MultiTabMode ||
		old.ShowIcons != new.ShowIcons
}

// Keys lists the setting names accepted by Set, in file order.
func Keys() []string {
	return []string{
		keyMultiTab, keyRememberSize, keyColumns, keyBackground, keyShowIcons,
		keyTheme, keyLastLoaded, keyWindowWidth, keyWindowHeight, keyInterpreter,
	}
}

// Get returns the string form of a setting.
func (s *Settings) Get(key string) (string, error) {
	switch key {
	case keyMultiTab:
		return strconv.FormatBool(s.MultiTabMode), nil
	case keyRememberSize:
		return strconv.FormatBool(s.RememberWindowSize), nil
	case keyColumns:
		return strconv.Itoa(s.ArgumentColumns), nil
	case keyBackground:
		return strconv.FormatBool(s.RunInBackground), nil
	case keyShowIcons:
		return strconv.FormatBool(s.ShowIcons), nil
	case keyTheme:
		return s.Theme, nil
	case keyLastLoaded:
		return s.LastLoadedINI, nil
	case keyWindowWidth:
		return strconv.Itoa(s.WindowWidth), nil
	case keyWindowHeight:
		return strconv.Itoa(s.WindowHeight), nil
	case keyInterpreter:
		return s.Interpreter, nil
	}
	return "", unknownKey(key)
}

// Set parses value into the named setting.
func (s *Settings) Set(key, value string) error {
	value = strings.TrimSpace(value)
	invalid := func(cause error) error {
		return apperrors.Validation(fmt.Sprintf("Invalid value for %s: %q", key, value), cause)
	}
	setBool := func(dst *bool) error {
		b, err := parseBool(value)
		if err != nil {
			return invalid(err)
		}
		*dst = b
		return nil
	}
	setInt := func(dst *int, min, max int) error {
		n, err := strconv.Atoi(value)
		if err != nil {
			return invalid(err)
		}
		if n < min || n > max {
			return invalid(fmt.Errorf("must be between %d and %d", min, max))
		}
		*dst = n
		return nil
	}

	switch key {
	case keyMultiTab:
		return setBool(&s.MultiTabMode)
	case keyRememberSize:
		return setBool(&s.RememberWindowSize)
	case keyColumns:
		return setInt(&s.ArgumentColumns, MinColumns, MaxColumns)
	case keyBackground:
		return setBool(&s.RunInBackground)
	case keyShowIcons:
		return setBool(&s.ShowIcons)
	case keyTheme:
		t, ok := normalizeTheme(value)
		if !ok {
			return invalid(errors.New("must be system, light or dark"))
		}
		s.Theme = t
		return nil
	case keyLastLoaded:
		s.LastLoadedINI = value
		return nil
	case keyWindowWidth:
		return setInt(&s.WindowWidth, minWindowSide, 1<<15)
	case keyWindowHeight:
		return setInt(&s.WindowHeight, minWindowSide, 1<<15)
	case keyInterpreter:
		s.Interpreter = value
		return nil
	}
	return unknownKey(key)
}

func unknownKey(key string) error {
	return apperrors.Validation(fmt.Sprintf("Unknown setting: %s", key), nil)
}
