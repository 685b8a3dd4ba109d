package main

import (
	"testing"

	"fyne.io/fyne/v2/test"

	"github.com/oukeidos/guini/internal/fieldtype"
	"github.com/oukeidos/guini/internal/form"
)

func TestNewEditorByType(t *testing.T) {
	test.NewApp()
	defer test.NewApp()

	cases := []struct {
		name     string
		typ      fieldtype.Type
		value    string
		check    bool
		password bool
		validate bool
	}{
		{"boolean", fieldtype.Type{Kind: fieldtype.Boolean}, "True", true, false, false},
		{"integer", fieldtype.Type{Kind: fieldtype.Integer}, "3", false, false, true},
		{"float", fieldtype.Type{Kind: fieldtype.Float}, "0.5", false, false, true},
		{"int list", fieldtype.Type{Kind: fieldtype.List, Elem: "int"}, "1,2", false, false, true},
		{"string", fieldtype.Type{Kind: fieldtype.String}, "abc", false, false, false},
		{"secret", fieldtype.Type{Kind: fieldtype.Secret}, "pw", false, true, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := newEditor(form.Field{Key: "k", Type: tc.typ}, tc.value, editorOptions{})
			if (e.check != nil) != tc.check {
				t.Fatalf("check box = %v, want %v", e.check != nil, tc.check)
			}
			if tc.check {
				if e.Value() != "true" {
					t.Fatalf("boolean value = %q", e.Value())
				}
				return
			}
			if e.entry.Password != tc.password {
				t.Errorf("password = %v, want %v", e.entry.Password, tc.password)
			}
			if (e.entry.Validator != nil) != tc.validate {
				t.Errorf("validator set = %v, want %v", e.entry.Validator != nil, tc.validate)
			}
			if e.Value() != tc.value {
				t.Errorf("value = %q, want %q", e.Value(), tc.value)
			}
		})
	}
}

func TestEditorValidatorRejectsText(t *testing.T) {
	test.NewApp()
	defer test.NewApp()

	e := newEditor(form.Field{Key: "n", Type: fieldtype.Type{Kind: fieldtype.Integer}}, "1", editorOptions{})
	e.entry.SetText("1x")
	if err := e.entry.Validate(); err == nil {
		t.Fatalf("%q should not validate as an integer", e.entry.Text)
	}
	e.entry.SetText("")
	if err := e.entry.Validate(); err != nil {
		t.Fatalf("empty integer should be valid: %v", err)
	}
}

func TestEditorReportsChanges(t *testing.T) {
	test.NewApp()
	defer test.NewApp()

	changes := 0
	opts := editorOptions{onChanged: func() { changes++ }}
	b := newEditor(form.Field{Type: fieldtype.Type{Kind: fieldtype.Boolean}}, "false", opts)
	s := newEditor(form.Field{Type: fieldtype.Type{Kind: fieldtype.String}}, "a", opts)
	if changes != 0 {
		t.Fatalf("building editors should not count as a change, got %d", changes)
	}
	b.check.SetChecked(true)
	s.entry.SetText("b")
	if changes != 2 {
		t.Fatalf("expected 2 changes, got %d", changes)
	}
	if b.Value() != "true" {
		t.Errorf("tapped check value = %q", b.Value())
	}
}

func TestFilePickers(t *testing.T) {
	test.NewApp()
	defer test.NewApp()

	var browsed int
	opts := editorOptions{browse: func(onPick func(string)) {
		browsed++
		onPick("/data/b.csv")
	}}

	single := newEditor(form.Field{Type: fieldtype.Type{Kind: fieldtype.Filename}}, "/data/a.csv", opts)
	single.pick("/data/b.csv")
	if single.Value() != "/data/b.csv" {
		t.Errorf("filename pick should replace, got %q", single.Value())
	}

	list := newEditor(form.Field{Type: fieldtype.Type{Kind: fieldtype.List, Elem: "file"}}, "/data/a.csv", opts)
	list.pick("/data/b.csv")
	if list.Value() != "/data/a.csv, /data/b.csv" {
		t.Errorf("file list pick should append, got %q", list.Value())
	}

	if isFileField(fieldtype.Type{Kind: fieldtype.List, Elem: "int"}) {
		t.Error("int lists have no file picker")
	}
	if browsed != 0 {
		t.Error("browse should only run on button tap")
	}
}
