package form

import (
	"errors"
	"testing"

	"github.com/oukeidos/guini/internal/fieldtype"
	"github.com/oukeidos/guini/internal/scriptconfig"
)

func parse(t *testing.T, src string) *scriptconfig.Config {
	t.Helper()
	cfg, err := scriptconfig.Parse("test.ini", []byte(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return cfg
}

func TestBuildPositional(t *testing.T) {
	cfg := parse(t, `[Command]
script_file_name = calc.py

[Arguments]
arg1 = 10
arg2 = true
arg3 = 2.5
arg4 = notes.txt

[Labels]
script_file_name = Script
arg1 = First (integer)
arg4 = Notes file (filename)
`)
	f, err := Build(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if f.Scheme != SchemePositional {
		t.Fatalf("scheme = %v", f.Scheme)
	}
	want := []struct {
		key   string
		label string
		kind  fieldtype.Kind
	}{
		{"script_file_name", "Script", fieldtype.Filename},
		{"arg1", "First", fieldtype.Integer},
		{"arg2", "arg2", fieldtype.Boolean},
		{"arg3", "arg3", fieldtype.Float},
		{"arg4", "Notes file", fieldtype.Filename},
	}
	if len(f.Fields) != len(want) {
		t.Fatalf("got %d fields, want %d", len(f.Fields), len(want))
	}
	for i, w := range want {
		got := f.Fields[i]
		if got.Key != w.key || got.Label != w.label || got.Type.Kind != w.kind {
			t.Errorf("field %d = %+v, want key=%s label=%s kind=%s", i, got, w.key, w.label, w.kind)
		}
	}
	if len(f.Arguments()) != 4 {
		t.Fatalf("Arguments() = %d fields", len(f.Arguments()))
	}
}

func TestBuildArgParse(t *testing.T) {
	cfg := parse(t, `[Command]
script_file_name = tool.py

[Arguments]
input_file = data.csv
verbose = True
unused = x

[ArgParse]
input_file = --input-file (filename)
numbers = --numbers (list[int])
verbose = -v (boolean)
name = --name
`)
	f, err := Build(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if f.Scheme != SchemeFlags {
		t.Fatalf("scheme = %v", f.Scheme)
	}
	args := f.Arguments()
	if len(args) != 4 {
		t.Fatalf("want 4 ArgParse fields, got %d", len(args))
	}
	in := args[0]
	if in.Label != "Input File" || in.Flag != "--input-file" || in.Default != "data.csv" || in.Type.Kind != fieldtype.Filename {
		t.Errorf("input_file field = %+v", in)
	}
	nums := args[1]
	if nums.Default != "" || nums.Type != (fieldtype.Type{Kind: fieldtype.List, Elem: "int"}) {
		t.Errorf("numbers field = %+v", nums)
	}
	if args[3].Type.Kind != fieldtype.String || args[3].Flag != "--name" {
		t.Errorf("untyped definition = %+v", args[3])
	}
	if _, ok := f.Field(scriptconfig.SectionArguments, "unused"); ok {
		t.Error("keys missing from [ArgParse] should not become fields")
	}

	d := f.Defaults()
	if d.Get(scriptconfig.SectionArguments, "verbose") != "true" {
		t.Errorf("boolean default should normalise, got %q", d.Get(scriptconfig.SectionArguments, "verbose"))
	}
}

func TestTitleLabel(t *testing.T) {
	cases := map[string]string{
		"input_file": "Input File",
		"file2name":  "File2Name",
		"MAX_count":  "Max Count",
		"x__y":       "X  Y",
		"3d_model":   "3D Model",
	}
	for key, want := range cases {
		if got := titleLabel(key); got != want {
			t.Errorf("titleLabel(%q) = %q, want %q", key, got, want)
		}
	}
}

func TestValidateAndApply(t *testing.T) {
	cfg := parse(t, "[Arguments]\narg1 = 1\n[Labels]\narg1 = Count (integer)\n")
	f, err := Build(cfg)
	if err != nil {
		t.Fatal(err)
	}
	v := f.Defaults()
	v.Set(scriptconfig.SectionArguments, "arg1", "abc")
	var fe *FieldError
	if err := f.Validate(v); !errors.As(err, &fe) || fe.Field.Key != "arg1" {
		t.Fatalf("expected FieldError for arg1, got %v", err)
	}

	v.Set(scriptconfig.SectionArguments, "arg1", "7")
	if err := f.Validate(v); err != nil {
		t.Fatal(err)
	}
	if err := f.Apply(cfg, v); err != nil {
		t.Fatal(err)
	}
	if got, _ := cfg.Value(scriptconfig.SectionArguments, "arg1"); got != "7" {
		t.Fatalf("Apply did not update config: %q", got)
	}
}

func TestLayout(t *testing.T) {
	cases := []struct {
		n, cols int
		want    []Cell
	}{
		{3, 1, []Cell{{0, 0}, {1, 0}, {2, 0}}},
		{5, 2, []Cell{{0, 0}, {1, 0}, {2, 0}, {0, 1}, {1, 1}}},
		{4, 9, []Cell{{0, 0}, {0, 1}, {0, 2}, {0, 3}}},
		{2, 0, []Cell{{0, 0}, {1, 0}}},
		{0, 2, nil},
	}
	for _, tc := range cases {
		got := Layout(tc.n, tc.cols)
		if len(got) != len(tc.want) {
			t.Fatalf("Layout(%d,%d) = %v, want %v", tc.n, tc.cols, got, tc.want)
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("Layout(%d,%d)[%d] = %v, want %v", tc.n, tc.cols, i, got[i], tc.want[i])
			}
		}
	}
}

func TestValuesSection(t *testing.T) {
	v := Values{}
	v.Set("Arguments", "arg1", "a")
	v.Set("Command", "script_file_name", "s.py")
	m := v.Section("Arguments")
	if len(m) != 1 || m["arg1"] != "a" {
		t.Fatalf("Section = %v", m)
	}
}
