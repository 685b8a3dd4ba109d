// Package secrets keeps "(secret)" argument values in the OS keychain
// instead of the INI file.
package secrets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/zalando/go-keyring"
	"golang.org/x/term"

	"github.com/oukeidos/guini/internal/fieldtype"
	"github.com/oukeidos/guini/internal/form"
)

const (
	serviceName = "guini"
	envPrefix   = "GUINI_SECRET_"
)

// Account is the keychain account for one field of one INI file.
func Account(iniPath, section, key string) string {
	if abs, err := filepath.Abs(iniPath); err == nil {
		iniPath = abs
	}
	return fmt.Sprintf("%s#%s.%s", iniPath, section, key)
}

// EnvVar is the environment variable that overrides a secret, e.g.
// GUINI_SECRET_API_TOKEN for key "api-token".
func EnvVar(key string) string {
	up := strings.ToUpper(key)
	up = strings.Map(func(r rune) rune {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return r
		}
		return '_'
	}, up)
	return envPrefix + up
}

// Get returns the stored value and where it came from.
// If allowEnv is false, environment variables are ignored.
func Get(iniPath, section, key string, allowEnv bool) (string, string) {
	v, err := keyring.Get(serviceName, Account(iniPath, section, key))
	if err == nil && v != "" {
		return v, "Keychain"
	}
	if allowEnv {
		if v := os.Getenv(EnvVar(key)); v != "" {
			return v, "Environment Variable"
		}
	}
	return "", ""
}

func Set(iniPath, section, key, value string) error {
	return keyring.Set(serviceName, Account(iniPath, section, key), value)
}

// Delete removes a stored value. Deleting a missing value is not an error.
func Delete(iniPath, section, key string) error {
	err := keyring.Delete(serviceName, Account(iniPath, section, key))
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}

// Fill replaces the value of every secret field in v with its stored value.
func Fill(iniPath string, f *form.Form, v form.Values) {
	for _, fd := range f.Fields {
		if fd.Type.Kind != fieldtype.Secret {
			continue
		}
		if s, _ := Get(iniPath, fd.Section, fd.Key, true); s != "" {
			v[fd.Ref()] = s
		}
	}
}

// Persist stores secret values in the keychain and returns a copy of v in
// which they are blank, ready to be written to the INI file.
func Persist(iniPath string, f *form.Form, v form.Values) (form.Values, error) {
	out := make(form.Values, len(v))
	for ref, val := range v {
		out[ref] = val
	}
	for _, fd := range f.Fields {
		if fd.Type.Kind != fieldtype.Secret {
			continue
		}
		val := v[fd.Ref()]
		var err error
		if val == "" {
			err = Delete(iniPath, fd.Section, fd.Key)
		} else {
			err = Set(iniPath, fd.Section, fd.Key, val)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to store %s in keychain: %w", fd.Key, err)
		}
		out[fd.Ref()] = ""
	}
	return out, nil
}

// Prompt reads a value from the terminal without echo.
func Prompt(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}
