package fieldtype

import (
	"strings"
	"testing"
)

func TestInfer(t *testing.T) {
	cases := []struct {
		value string
		hint  string
		want  Type
	}{
		{"true", "", Type{Kind: Boolean}},
		{"FALSE", "", Type{Kind: Boolean}},
		{"42", "", Type{Kind: Integer}},
		{"-7", "", Type{Kind: Integer}},
		{"3.14", "", Type{Kind: Float}},
		{"1e3", "", Type{Kind: Float}},
		{"abc", "", Type{Kind: String}},
		{"", "", Type{Kind: String}},
		{"inf", "", Type{Kind: String}},
		{"NaN", "", Type{Kind: String}},
		{"0x1p-2", "", Type{Kind: String}},
		{"1,2,3", "", Type{Kind: String}},
		{"42", "filename", Type{Kind: Filename}},
		{"abc", "INTEGER", Type{Kind: Integer}},
		{"1,2", "list[int]", Type{Kind: List, Elem: "int"}},
		{"true", "nonsense", Type{Kind: Boolean}},
		{"x", "secret", Type{Kind: Secret}},
	}
	for _, tc := range cases {
		if got := Infer(tc.value, tc.hint); got != tc.want {
			t.Errorf("Infer(%q, %q) = %v, want %v", tc.value, tc.hint, got, tc.want)
		}
	}
}

func TestParseLabel(t *testing.T) {
	cases := []struct {
		label string
		clean string
		want  Type
		ok    bool
	}{
		{"Input file (filename)", "Input file", Type{Kind: Filename}, true},
		{"Count (Integer)  ", "Count", Type{Kind: Integer}, true},
		{"Verbose(boolean)", "Verbose", Type{Kind: Boolean}, true},
		{"Password (secret)", "Password", Type{Kind: Secret}, true},
		{"Ratio (in percent)", "Ratio (in percent)", Type{}, false},
		{"Plain", "Plain", Type{}, false},
		{"Numbers (list[int])", "Numbers (list[int])", Type{}, false},
	}
	for _, tc := range cases {
		clean, typ, ok := ParseLabel(tc.label)
		if clean != tc.clean || typ != tc.want || ok != tc.ok {
			t.Errorf("ParseLabel(%q) = (%q, %v, %v), want (%q, %v, %v)",
				tc.label, clean, typ, ok, tc.clean, tc.want, tc.ok)
		}
	}
}

func TestParseDefinition(t *testing.T) {
	cases := []struct {
		def  string
		flag string
		want Type
		ok   bool
	}{
		{"--numbers (list[int])", "--numbers", Type{Kind: List, Elem: "int"}, true},
		{"  -v (boolean)", "-v", Type{Kind: Boolean}, true},
		{"--out-file (FILENAME)", "--out-file", Type{Kind: Filename}, true},
		{"--name", "--name", Type{}, false},
		{"name (integer)", "", Type{Kind: Integer}, true},
		{"", "", Type{}, false},
	}
	for _, tc := range cases {
		flag, typ, ok := ParseDefinition(tc.def)
		if flag != tc.flag || typ != tc.want || ok != tc.ok {
			t.Errorf("ParseDefinition(%q) = (%q, %v, %v), want (%q, %v, %v)",
				tc.def, flag, typ, ok, tc.flag, tc.want, tc.ok)
		}
	}
}

func TestTypeString(t *testing.T) {
	if got := (Type{Kind: List, Elem: "float"}).String(); got != "list[float]" {
		t.Fatalf("got %q", got)
	}
	if got := (Type{}).String(); got != "string" {
		t.Fatalf("zero type should print as string, got %q", got)
	}
}

func TestTooltip(t *testing.T) {
	if got := Tooltip(Type{Kind: List, Elem: "file"}); !strings.Contains(got, "wildcards") {
		t.Errorf("file list tooltip should mention wildcards: %q", got)
	}
	if got := Tooltip(Type{Kind: List, Elem: "int"}); !strings.Contains(got, "list of ints") {
		t.Errorf("unexpected int list tooltip: %q", got)
	}
	if got := Tooltip(Type{}); got == "" {
		t.Error("string tooltip should not be empty")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		typ   Type
		value string
		ok    bool
	}{
		{Type{Kind: Integer}, "12", true},
		{Type{Kind: Integer}, "1.5", false},
		{Type{Kind: Integer}, "", true},
		{Type{Kind: Float}, "1.5", true},
		{Type{Kind: Float}, "abc", false},
		{Type{Kind: Boolean}, "True", true},
		{Type{Kind: Boolean}, "yes", false},
		{Type{Kind: String}, "anything", true},
		{Type{Kind: List, Elem: "int"}, "1, 2,3", true},
		{Type{Kind: List, Elem: "int"}, "1,x", false},
		{Type{Kind: List, Elem: "float"}, "1.5,2", true},
		{Type{Kind: List, Elem: "str"}, "a,b", true},
	}
	for _, tc := range cases {
		err := Validate(tc.typ, tc.value)
		if (err == nil) != tc.ok {
			t.Errorf("Validate(%v, %q) err=%v, want ok=%v", tc.typ, tc.value, err, tc.ok)
		}
	}
}
