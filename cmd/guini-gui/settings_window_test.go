package main

import (
	"testing"

	"fyne.io/fyne/v2/test"

	"github.com/oukeidos/guini/internal/settings"
)

func TestSettingsFormApply(t *testing.T) {
	test.NewApp()
	defer test.NewApp()

	cur := settings.Defaults()
	f := newSettingsForm(cur)
	if f.theme.Selected != "System" || f.columns.Selected != "1" {
		t.Fatalf("form not initialised from settings: theme=%q columns=%q", f.theme.Selected, f.columns.Selected)
	}

	f.multiTab.SetChecked(true)
	f.theme.SetSelected("Dark")
	f.columns.SetSelected("3")
	f.interpreter.SetText("  /opt/py/bin/python3 ")

	next, err := f.apply(cur)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !next.MultiTabMode || next.Theme != settings.ThemeDark || next.ArgumentColumns != 3 {
		t.Fatalf("unexpected settings: %+v", next)
	}
	if next.Interpreter != "/opt/py/bin/python3" {
		t.Errorf("interpreter = %q", next.Interpreter)
	}
	if next.LastLoadedINI != cur.LastLoadedINI || next.WindowWidth != cur.WindowWidth {
		t.Error("fields outside the dialog must be kept")
	}
	if !settings.Diff(cur, next) {
		t.Error("multi-tab change should need a restart")
	}
}

func TestColumnChoices(t *testing.T) {
	got := columnChoices()
	if len(got) != settings.MaxColumns || got[0] != "1" || got[len(got)-1] != "4" {
		t.Fatalf("columnChoices() = %v", got)
	}
}
