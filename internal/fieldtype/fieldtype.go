// Package fieldtype decides which editor a script argument gets.
//
// A type comes from one of three places, in priority order: an explicit hint
// (a "(integer)" suffix in [Labels] or an ArgParse definition such as
// "--count (integer)"), or, failing that, a guess from the current value.
package fieldtype

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

type Kind string

const (
	String   Kind = "string"
	Boolean  Kind = "boolean"
	Integer  Kind = "integer"
	Float    Kind = "float"
	Filename Kind = "filename"
	List     Kind = "list"
	Secret   Kind = "secret"
)

// Type is a field type. Elem is only set for lists, e.g. "int" in list[int].
type Type struct {
	Kind Kind
	Elem string
}

func (t Type) String() string {
	if t.Kind == List {
		return fmt.Sprintf("list[%s]", t.Elem)
	}
	if t.Kind == "" {
		return string(String)
	}
	return string(t.Kind)
}

// IsZero reports whether no type was set.
func (t Type) IsZero() bool { return t.Kind == "" }

var listHint = regexp.MustCompile(`^list\[(\w+)\]$`)

// ParseHint parses a bare type hint. Matching is case-insensitive.
func ParseHint(s string) (Type, bool) {
	h := strings.ToLower(strings.TrimSpace(s))
	switch Kind(h) {
	case String, Boolean, Integer, Float, Filename, Secret:
		return Type{Kind: Kind(h)}, true
	}
	if m := listHint.FindStringSubmatch(h); m != nil {
		return Type{Kind: List, Elem: m[1]}, true
	}
	return Type{}, false
}

// Infer returns hint when it is recognised, otherwise guesses from value:
// true/false is boolean, then integer, then float, else string.
// Lists are never guessed.
func Infer(value string, hint string) Type {
	if t, ok := ParseHint(hint); ok {
		return t
	}
	return Guess(value)
}

// Guess infers a type from a value alone.
func Guess(value string) Type {
	v := strings.TrimSpace(value)
	switch strings.ToLower(v) {
	case "true", "false":
		return Type{Kind: Boolean}
	}
	if _, err := strconv.ParseInt(v, 10, 64); err == nil {
		return Type{Kind: Integer}
	}
	if isFloat(v) {
		return Type{Kind: Float}
	}
	return Type{Kind: String}
}

// isFloat accepts decimal and exponent notation. Go also parses "inf",
// "nan" and hex floats, which should stay plain strings here.
func isFloat(v string) bool {
	if v == "" {
		return false
	}
	lower := strings.ToLower(strings.TrimLeft(v, "+-"))
	if strings.HasPrefix(lower, "inf") || strings.HasPrefix(lower, "nan") || strings.HasPrefix(lower, "0x") {
		return false
	}
	_, err := strconv.ParseFloat(v, 64)
	return err == nil
}

var labelHint = regexp.MustCompile(`(?i)\s*\((integer|float|boolean|filename|secret)\)\s*$`)

// ParseLabel splits "Input file (filename)" into "Input file" and a filename
// hint. Other parenthesised text is left in the label.
func ParseLabel(label string) (string, Type, bool) {
	loc := labelHint.FindStringSubmatchIndex(label)
	if loc == nil {
		return label, Type{}, false
	}
	clean := strings.TrimSpace(label[:loc[0]])
	return clean, Type{Kind: Kind(strings.ToLower(label[loc[2]:loc[3]]))}, true
}

var (
	definitionFlag = regexp.MustCompile(`^\s*(--?[\w-]+)`)
	definitionType = regexp.MustCompile(`(?i)\((list\[\w+\]|integer|float|boolean|filename|secret)\)`)
)

// ParseDefinition parses an [ArgParse] value such as "--numbers (list[int])".
// flag is empty when the definition does not start with a dash. ok reports
// whether a type was present.
func ParseDefinition(def string) (flag string, t Type, ok bool) {
	if m := definitionFlag.FindStringSubmatch(def); m != nil {
		flag = m[1]
	}
	if m := definitionType.FindStringSubmatch(def); m != nil {
		t, ok = ParseHint(m[1])
	}
	return flag, t, ok
}

// Tooltip returns editor help text for t.
func Tooltip(t Type) string {
	switch t.Kind {
	case Boolean:
		return "A boolean value (true or false)."
	case Integer:
		return "An integer value (e.g., 1, -10, 100)."
	case Float:
		return "A floating-point value (e.g., 1.0, -3.14)."
	case Filename:
		return "A path to a file."
	case Secret:
		return "A hidden value, stored in the system keychain."
	case List:
		if t.Elem == "file" {
			return "A comma-separated list of files.\nYou can also use wildcards (e.g., data/*.csv)."
		}
		return fmt.Sprintf("A comma-separated list of %ss (e.g., 1, 2, 3).", t.Elem)
	default:
		return "A string of text."
	}
}

// Validate checks an editor value against t. Empty values are always
// accepted; an empty field simply isn't passed to the script.
func Validate(t Type, value string) error {
	v := strings.TrimSpace(value)
	if v == "" {
		return nil
	}
	switch t.Kind {
	case Integer:
		if _, err := strconv.ParseInt(v, 10, 64); err != nil {
			return fmt.Errorf("%q is not an integer", value)
		}
	case Float:
		if !isFloat(v) {
			return fmt.Errorf("%q is not a number", value)
		}
	case Boolean:
		switch strings.ToLower(v) {
		case "true", "false":
		default:
			return fmt.Errorf("%q is not true or false", value)
		}
	case List:
		return validateList(t.Elem, v)
	}
	return nil
}

func validateList(elem, v string) error {
	var check func(string) error
	switch elem {
	case "int", "integer":
		check = func(s string) error { return Validate(Type{Kind: Integer}, s) }
	case "float":
		check = func(s string) error { return Validate(Type{Kind: Float}, s) }
	default:
		return nil
	}
	for _, part := range strings.Split(v, ",") {
		if err := check(part); err != nil {
			return fmt.Errorf("list item %w", err)
		}
	}
	return nil
}
