// Package inifile loads and saves INI files with the options every Guini
// file shares: case-sensitive keys, no inline comment stripping and
// "key = value" output.
package inifile

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/oukeidos/guini/internal/files"
)

func init() {
	ini.PrettyFormat = false
	ini.PrettyEqual = true
}

var loadOptions = ini.LoadOptions{
	IgnoreInlineComment:     true,
	PreserveSurroundedQuote: true,
	KeyValueDelimiters:      "=:",
}

// File is a parsed INI file. ini.v1 attaches comments to the key or
// section below them, so comments after the last key would be lost on
// save; they are kept in tail and written back.
type File struct {
	*ini.File
	tail string
}

// Load parses path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return f, nil
}

// Parse parses in-memory INI data.
func Parse(data []byte) (*File, error) {
	f, err := ini.LoadSources(loadOptions, data)
	if err != nil {
		return nil, err
	}
	return &File{File: f, tail: trailingComments(data)}, nil
}

// Empty returns a new file with the shared options.
func Empty() *File {
	return &File{File: ini.Empty(loadOptions)}
}

// trailingComments returns the comment block that ends data, with the
// blank lines inside it. It is empty when the last line holds a key.
func trailingComments(data []byte) string {
	lines := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
	start := len(lines)
	hasComment := false
	for start > 0 {
		l := strings.TrimSpace(lines[start-1])
		if l != "" && l[0] != ';' && l[0] != '#' {
			break
		}
		if l != "" {
			hasComment = true
		}
		start--
	}
	if !hasComment {
		return ""
	}
	block := lines[start:]
	for len(block) > 0 && strings.TrimSpace(block[len(block)-1]) == "" {
		block = block[:len(block)-1]
	}
	return strings.Join(block, "\n") + "\n"
}

// Save writes f to path atomically.
func Save(f *File, path string) error {
	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	out := buf.Bytes()
	if f.tail != "" {
		out = bytes.TrimRight(out, "\n")
		if len(out) > 0 {
			out = append(out, '\n')
		}
		out = append(out, f.tail...)
	}
	return files.AtomicWrite(path, out, files.DefaultPerm)
}

// Sections returns the named sections in file order, without DEFAULT.
func Sections(f *File) []*ini.Section {
	var out []*ini.Section
	for _, s := range f.Sections() {
		if s.Name() == ini.DefaultSection {
			continue
		}
		out = append(out, s)
	}
	return out
}

// Lookup returns the raw value of section.key.
func Lookup(f *File, section, key string) (string, bool) {
	s, err := f.GetSection(section)
	if err != nil {
		return "", false
	}
	k, err := s.GetKey(key)
	if err != nil {
		return "", false
	}
	return k.Value(), true
}

// Set creates section and key as needed and stores value.
func Set(f *File, section, key, value string) error {
	s, err := f.GetSection(section)
	if err != nil {
		if s, err = f.NewSection(section); err != nil {
			return err
		}
	}
	if k, err := s.GetKey(key); err == nil {
		k.SetValue(value)
		return nil
	}
	_, err = s.NewKey(key, value)
	return err
}
