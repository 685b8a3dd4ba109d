package inifile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRoundTripKeepsCommentsAndOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calc.ini")
	src := "; calculator\n[Command]\nscript_file_name = calc.py\n\n[ArgParse]\n# numbers to add\nnumbers = --numbers (list[int]) ; keep\nVerbose = -v (boolean)\n"
	if err := os.WriteFile(path, []byte(src), 0644); err != nil {
		t.Fatal(err)
	}
	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if v, ok := Lookup(f, "ArgParse", "numbers"); !ok || v != "--numbers (list[int]) ; keep" {
		t.Fatalf("inline text should be kept, got %q ok=%v", v, ok)
	}
	if _, ok := Lookup(f, "ArgParse", "verbose"); ok {
		t.Fatal("keys should be case-sensitive")
	}
	if err := Set(f, "Arguments", "numbers", "1,2"); err != nil {
		t.Fatal(err)
	}
	if err := Save(f, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	for _, want := range []string{"# numbers to add", "Verbose = -v (boolean)", "[Arguments]", "numbers = 1,2"} {
		if !strings.Contains(out, want) {
			t.Errorf("saved file missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "[Command]") > strings.Index(out, "[ArgParse]") {
		t.Errorf("section order changed:\n%s", out)
	}
}

func TestSectionsSkipsDefault(t *testing.T) {
	f, err := Parse([]byte("[A]\nx = 1\n[B]\n"))
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, s := range Sections(f) {
		names = append(names, s.Name())
	}
	if strings.Join(names, ",") != "A,B" {
		t.Fatalf("Sections = %v", names)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.ini")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestSaveKeepsCommentsAtEndOfFile(t *testing.T) {
	cases := []struct {
		name string
		src  string
		tail string
	}{
		{"disabled key", "[Command]\nscript_file_name = calc.py\n\n[Arguments]\narg1 = 10\narg2 = add\n; arg3 = 5   (disabled for now)\n", "arg2 = add\n; arg3 = 5   (disabled for now)\n"},
		{"note after blank line", "[Arguments]\narg1 = 10\n\n; trailing note\n# second\n\n", "\n\n; trailing note\n# second\n"},
		{"empty last section", "[Arguments]\narg1 = 10\n\n[Labels]\n; none yet\n", "[Labels]\n; none yet\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "calc.ini")
			if err := os.WriteFile(path, []byte(tc.src), 0644); err != nil {
				t.Fatal(err)
			}
			f, err := Load(path)
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if err := Set(f, "Arguments", "arg1", "11"); err != nil {
				t.Fatal(err)
			}
			if err := Save(f, path); err != nil {
				t.Fatalf("Save failed: %v", err)
			}
			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			out := string(data)
			if !strings.Contains(out, "arg1 = 11") {
				t.Errorf("edit not saved:\n%s", out)
			}
			if !strings.HasSuffix(out, tc.tail) {
				t.Errorf("saved file should end with %q:\n%s", tc.tail, out)
			}

			again, err := Load(path)
			if err != nil {
				t.Fatal(err)
			}
			if err := Save(again, path); err != nil {
				t.Fatal(err)
			}
			if data2, _ := os.ReadFile(path); string(data2) != out {
				t.Errorf("second save changed the file:\n%s\nvs\n%s", data2, out)
			}
		})
	}
}

func TestTrailingCommentsIgnoresBlankTail(t *testing.T) {
	if got := trailingComments([]byte("[A]\nx = 1\n\n\n")); got != "" {
		t.Fatalf("blank tail should not be kept, got %q", got)
	}
}
