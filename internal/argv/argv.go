// Package argv assembles the argument vector passed to a script.
package argv

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/oukeidos/guini/internal/apperrors"
	"github.com/oukeidos/guini/internal/fieldtype"
	"github.com/oukeidos/guini/internal/form"
	"github.com/oukeidos/guini/internal/scriptconfig"
)

// GapError reports an empty positional argument that sits before a
// supplied one.
type GapError struct {
	Arg string
}

func (e *GapError) Error() string {
	return fmt.Sprintf("Argument '%s' is empty, but later arguments are filled. Please fill all arguments in order.", e.Arg)
}

type positional struct {
	n     int
	key   string
	value string
}

// Positional orders the argN entries of values by N and returns their
// values as typed. Keys that are not argN are ignored. A value of only
// whitespace counts as empty. Trailing empty values are dropped; an empty
// value before a non-empty one is a *GapError.
func Positional(values map[string]string) ([]string, error) {
	var ps []positional
	for k, v := range values {
		rest, ok := strings.CutPrefix(k, "arg")
		if !ok || rest == "" {
			continue
		}
		n, err := strconv.Atoi(rest)
		if err != nil || n < 0 || strings.HasPrefix(rest, "+") || strings.HasPrefix(rest, "-") {
			continue
		}
		ps = append(ps, positional{n: n, key: k, value: v})
	}
	sort.Slice(ps, func(i, j int) bool {
		if ps[i].n != ps[j].n {
			return ps[i].n < ps[j].n
		}
		return ps[i].key < ps[j].key
	})

	last := -1
	for i, p := range ps {
		if !blank(p.value) {
			last = i
		}
	}
	out := make([]string, 0, last+1)
	for _, p := range ps[:last+1] {
		if blank(p.value) {
			return nil, &GapError{Arg: p.key}
		}
		out = append(out, p.value)
	}
	return out, nil
}

// Definition is one [ArgParse] entry.
type Definition struct {
	Key  string
	Flag string
	Type fieldtype.Type
}

// Flags emits options in definition order. A boolean flag appears alone
// when its value is "true"; any other flag is followed by its value when
// the value is non-empty.
func Flags(defs []Definition, values map[string]string) []string {
	var out []string
	for _, d := range defs {
		if d.Flag == "" {
			continue
		}
		v := values[d.Key]
		if d.Type.Kind == fieldtype.Boolean {
			if strings.EqualFold(strings.TrimSpace(v), "true") {
				out = append(out, d.Flag)
			}
			continue
		}
		if !blank(v) {
			out = append(out, d.Flag, v)
		}
	}
	return out
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }

// Assemble builds the argument vector for f from v. Gaps are returned as a
// validation error wrapping *GapError.
func Assemble(f *form.Form, v form.Values) ([]string, error) {
	values := v.Section(scriptconfig.SectionArguments)
	if f.Scheme == form.SchemeFlags {
		var defs []Definition
		for _, fd := range f.Arguments() {
			defs = append(defs, Definition{Key: fd.Key, Flag: fd.Flag, Type: fd.Type})
		}
		return Flags(defs, values), nil
	}
	args, err := Positional(values)
	if err != nil {
		return nil, apperrors.Validation(err.Error(), err)
	}
	return args, nil
}

// CommandLine renders the command for display. Parts containing spaces are
// wrapped in double quotes.
func CommandLine(exe, script string, args []string) string {
	parts := make([]string, 0, len(args)+2)
	parts = append(parts, quote(exe), quote(script))
	for _, a := range args {
		parts = append(parts, quote(a))
	}
	return strings.Join(parts, " ")
}

func quote(s string) string {
	if strings.Contains(s, " ") {
		return `"` + s + `"`
	}
	return s
}
