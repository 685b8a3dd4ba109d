package licenses

import (
	"strings"
	"testing"
)

func TestNoticesListDirectDependencies(t *testing.T) {
	if strings.TrimSpace(NoticesText()) == "" {
		t.Fatal("embedded notices are empty")
	}
	mods := Modules()
	want := []string{"fyne.io/fyne/v2", "github.com/spf13/cobra", "gopkg.in/ini.v1", "github.com/zalando/go-keyring"}
	for _, w := range want {
		found := false
		for _, m := range mods {
			if m == w {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("notices missing %s (have %v)", w, mods)
		}
	}
}
