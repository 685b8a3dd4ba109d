// Package form turns a script config into an ordered list of typed fields
// and reads editor values back.
package form

import (
	"errors"
	"strings"
	"unicode"

	"github.com/oukeidos/guini/internal/fieldtype"
	"github.com/oukeidos/guini/internal/scriptconfig"
)

// Scheme says how field values become a command line.
type Scheme int

const (
	// SchemePositional passes [Arguments] arg1..argN in numeric order.
	SchemePositional Scheme = iota
	// SchemeFlags passes "--flag value" pairs from [ArgParse].
	SchemeFlags
)

func (s Scheme) String() string {
	if s == SchemeFlags {
		return "argparse"
	}
	return "positional"
}

type Field struct {
	Section string
	Key     string
	Label   string
	Type    fieldtype.Type
	Default string
	// Flag is the parsed option name for [ArgParse] fields.
	Flag string
}

// Ref identifies a field.
type Ref struct {
	Section string
	Key     string
}

func (f Field) Ref() Ref { return Ref{Section: f.Section, Key: f.Key} }

// Values is the editor state read back from the form. Booleans are "true"
// or "false".
type Values map[Ref]string

// Get returns the value for section.key.
func (v Values) Get(section, key string) string { return v[Ref{section, key}] }

func (v Values) Set(section, key, value string) { v[Ref{section, key}] = value }

// Section returns the values of one section keyed by key.
func (v Values) Section(section string) map[string]string {
	out := make(map[string]string)
	for ref, val := range v {
		if ref.Section == section {
			out[ref.Key] = val
		}
	}
	return out
}

type Form struct {
	Fields []Field
	Scheme Scheme
}

// Build generates the form for cfg. [Command] entries come first. When an
// [ArgParse] section exists it defines the arguments; otherwise every
// [Arguments] entry becomes a field.
func Build(cfg *scriptconfig.Config) (*Form, error) {
	if cfg == nil {
		return nil, errors.New("no config loaded")
	}
	f := &Form{Scheme: SchemePositional}
	labels := labelMap(cfg)

	for _, it := range cfg.Items(scriptconfig.SectionCommand) {
		field := labelled(scriptconfig.SectionCommand, it, labels)
		if it.Key == scriptconfig.KeyScript {
			field.Type = fieldtype.Type{Kind: fieldtype.Filename}
		}
		f.Fields = append(f.Fields, field)
	}

	if cfg.HasSection(scriptconfig.SectionArgParse) {
		f.Scheme = SchemeFlags
		for _, it := range cfg.Items(scriptconfig.SectionArgParse) {
			value, _ := cfg.Value(scriptconfig.SectionArguments, it.Key)
			flag, typ, ok := fieldtype.ParseDefinition(it.Value)
			if !ok {
				typ = fieldtype.Guess(value)
			}
			f.Fields = append(f.Fields, Field{
				Section: scriptconfig.SectionArguments,
				Key:     it.Key,
				Label:   titleLabel(it.Key),
				Type:    typ,
				Default: value,
				Flag:    flag,
			})
		}
		return f, nil
	}

	for _, it := range cfg.Items(scriptconfig.SectionArguments) {
		f.Fields = append(f.Fields, labelled(scriptconfig.SectionArguments, it, labels))
	}
	return f, nil
}

type labelEntry struct {
	text string
	hint fieldtype.Type
	ok   bool
}

func labelMap(cfg *scriptconfig.Config) map[string]labelEntry {
	m := make(map[string]labelEntry)
	for _, it := range cfg.Items(scriptconfig.SectionLabels) {
		clean, hint, ok := fieldtype.ParseLabel(it.Value)
		m[it.Key] = labelEntry{text: clean, hint: hint, ok: ok}
	}
	return m
}

func labelled(section string, it scriptconfig.Item, labels map[string]labelEntry) Field {
	field := Field{Section: section, Key: it.Key, Label: it.Key, Default: it.Value}
	l, found := labels[it.Key]
	if found && l.text != "" {
		field.Label = l.text
	}
	if found && l.ok {
		field.Type = l.hint
	} else {
		field.Type = fieldtype.Guess(it.Value)
	}
	return field
}

// titleLabel turns "input_file" into "Input File".
func titleLabel(key string) string {
	r := []rune(strings.ReplaceAll(key, "_", " "))
	inWord := false
	for i, c := range r {
		if !unicode.IsLetter(c) {
			inWord = false
			continue
		}
		if inWord {
			r[i] = unicode.ToLower(c)
		} else {
			r[i] = unicode.ToUpper(c)
		}
		inWord = true
	}
	return string(r)
}

// Field returns the field for section.key.
func (f *Form) Field(section, key string) (Field, bool) {
	for _, fd := range f.Fields {
		if fd.Section == section && fd.Key == key {
			return fd, true
		}
	}
	return Field{}, false
}

// Arguments returns the fields that feed the command line.
func (f *Form) Arguments() []Field {
	var out []Field
	for _, fd := range f.Fields {
		if fd.Section == scriptconfig.SectionArguments {
			out = append(out, fd)
		}
	}
	return out
}

// Defaults returns the initial editor state. Boolean defaults are
// normalised to "true"/"false".
func (f *Form) Defaults() Values {
	v := make(Values, len(f.Fields))
	for _, fd := range f.Fields {
		val := fd.Default
		if fd.Type.Kind == fieldtype.Boolean {
			val = NormalizeBool(val)
		}
		v[fd.Ref()] = val
	}
	return v
}

// NormalizeBool maps case-insensitive "true" to "true" and everything else
// to "false".
func NormalizeBool(s string) string {
	if strings.EqualFold(strings.TrimSpace(s), "true") {
		return "true"
	}
	return "false"
}

// Validate checks every value against its field type.
func (f *Form) Validate(v Values) error {
	for _, fd := range f.Fields {
		if err := fieldtype.Validate(fd.Type, v[fd.Ref()]); err != nil {
			return &FieldError{Field: fd, Err: err}
		}
	}
	return nil
}

// Apply copies v into cfg so a following Save persists the form.
func (f *Form) Apply(cfg *scriptconfig.Config, v Values) error {
	for _, fd := range f.Fields {
		val, ok := v[fd.Ref()]
		if !ok {
			continue
		}
		if err := cfg.Set(fd.Section, fd.Key, val); err != nil {
			return err
		}
	}
	return nil
}

// FieldError reports a value that does not fit its field.
type FieldError struct {
	Field Field
	Err   error
}

func (e *FieldError) Error() string { return e.Field.Label + ": " + e.Err.Error() }
func (e *FieldError) Unwrap() error { return e.Err }

// Cell is a grid position.
type Cell struct {
	Row, Col int
}

const MaxColumns = 4

// Layout places n items column-major over columns columns. columns is
// clamped to 1..MaxColumns.
func Layout(n, columns int) []Cell {
	if n <= 0 {
		return nil
	}
	columns = ClampColumns(columns)
	rowsPerCol := (n + columns - 1) / columns
	cells := make([]Cell, n)
	for i := range cells {
		cells[i] = Cell{Row: i % rowsPerCol, Col: i / rowsPerCol}
	}
	return cells
}

func ClampColumns(c int) int {
	if c < 1 {
		return 1
	}
	if c > MaxColumns {
		return MaxColumns
	}
	return c
}
