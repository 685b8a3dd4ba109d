package argv

import (
	"errors"
	"reflect"
	"testing"

	"github.com/oukeidos/guini/internal/apperrors"
	"github.com/oukeidos/guini/internal/fieldtype"
	"github.com/oukeidos/guini/internal/form"
	"github.com/oukeidos/guini/internal/scriptconfig"
)

func TestPositional(t *testing.T) {
	cases := []struct {
		name   string
		values map[string]string
		want   []string
		gap    string
	}{
		{"numeric order", map[string]string{"arg2": "b", "arg1": "a", "arg10": "j"}, []string{"a", "b", "j"}, ""},
		{"gap", map[string]string{"arg1": "", "arg2": "x"}, nil, "arg1"},
		{"gap names key number", map[string]string{"arg1": "a", "arg3": "  ", "arg7": "z"}, nil, "arg3"},
		{"trailing empties dropped", map[string]string{"arg1": "a", "arg2": "", "arg3": ""}, []string{"a"}, ""},
		{"all empty", map[string]string{"arg1": "", "arg2": ""}, []string{}, ""},
		{"non arg keys ignored", map[string]string{"arg1": "a", "argx": "?", "script_file_name": "s.py", "arg": "?"}, []string{"a"}, ""},
		{"arg0 first", map[string]string{"arg1": "b", "arg0": "a"}, []string{"a", "b"}, ""},
		{"text passed as typed", map[string]string{"arg1": "  x  ", "arg2": "a b"}, []string{"  x  ", "a b"}, ""},
		{"whitespace tail dropped", map[string]string{"arg1": "a", "arg2": " \t"}, []string{"a"}, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Positional(tc.values)
			if tc.gap != "" {
				var gap *GapError
				if !errors.As(err, &gap) || gap.Arg != tc.gap {
					t.Fatalf("expected gap at %s, got %v", tc.gap, err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("Positional = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestFlags(t *testing.T) {
	defs := []Definition{
		{Key: "verbose", Flag: "-v", Type: fieldtype.Type{Kind: fieldtype.Boolean}},
		{Key: "name", Flag: "--name", Type: fieldtype.Type{Kind: fieldtype.String}},
		{Key: "count", Flag: "--count", Type: fieldtype.Type{Kind: fieldtype.Integer}},
		{Key: "noflag", Flag: "", Type: fieldtype.Type{Kind: fieldtype.String}},
	}
	cases := []struct {
		name   string
		values map[string]string
		want   []string
	}{
		{"unchecked boolean omitted", map[string]string{"verbose": "false"}, nil},
		{"checked boolean alone", map[string]string{"verbose": "true"}, []string{"-v"}},
		{"empty text omitted", map[string]string{"name": "", "count": "3"}, []string{"--count", "3"}},
		{"definition order", map[string]string{"count": "3", "name": "bob", "verbose": "True", "noflag": "x"}, []string{"-v", "--name", "bob", "--count", "3"}},
		{"text value kept as typed", map[string]string{"name": " Ada Lovelace "}, []string{"--name", " Ada Lovelace "}},
		{"whitespace-only text omitted", map[string]string{"name": "   "}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Flags(defs, tc.values)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("Flags = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestAssemble(t *testing.T) {
	cfg, err := scriptconfig.Parse("t.ini", []byte("[Arguments]\narg1 = \narg2 = x\n"))
	if err != nil {
		t.Fatal(err)
	}
	f, err := form.Build(cfg)
	if err != nil {
		t.Fatal(err)
	}
	_, err = Assemble(f, f.Defaults())
	if !apperrors.Is(err, apperrors.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	var gap *GapError
	if !errors.As(err, &gap) || gap.Arg != "arg1" {
		t.Fatalf("expected wrapped GapError, got %v", err)
	}

	cfg, err = scriptconfig.Parse("t.ini", []byte("[Arguments]\nverbose = true\nout = a b.txt\n[ArgParse]\nverbose = --verbose (boolean)\nout = -o (filename)\n"))
	if err != nil {
		t.Fatal(err)
	}
	f, err = form.Build(cfg)
	if err != nil {
		t.Fatal(err)
	}
	got, err := Assemble(f, f.Defaults())
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"--verbose", "-o", "a b.txt"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Assemble = %q, want %q", got, want)
	}
}

func TestCommandLine(t *testing.T) {
	got := CommandLine("/usr/bin/python3", "/my scripts/calc.py", []string{"10", "two words", "x"})
	want := `/usr/bin/python3 "/my scripts/calc.py" 10 "two words" x`
	if got != want {
		t.Fatalf("CommandLine = %q, want %q", got, want)
	}
}
