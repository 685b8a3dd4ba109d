package main

import (
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/oukeidos/guini/internal/launcher"
	"github.com/oukeidos/guini/internal/settings"
)

var themeChoices = []string{"System", "Light", "Dark"}

// settingsForm holds the widgets of the settings dialog.
type settingsForm struct {
	multiTab    *widget.Check
	showIcons   *widget.Check
	remember    *widget.Check
	theme       *widget.Select
	background  *widget.Check
	columns     *widget.Select
	interpreter *widget.Entry
}

func newSettingsForm(cur settings.Settings) *settingsForm {
	f := &settingsForm{
		multiTab:    widget.NewCheck("Enable Multi-Tab Mode", nil),
		showIcons:   widget.NewCheck("Show icons on buttons and menus", nil),
		remember:    widget.NewCheck("Remember window size on exit", nil),
		theme:       widget.NewSelect(themeChoices, nil),
		background:  widget.NewCheck("Run scripts in the background", nil),
		columns:     widget.NewSelect(columnChoices(), nil),
		interpreter: widget.NewEntry(),
	}
	f.multiTab.SetChecked(cur.MultiTabMode)
	f.showIcons.SetChecked(cur.ShowIcons)
	f.remember.SetChecked(cur.RememberWindowSize)
	f.theme.SetSelected(themeLabel(cur.Theme))
	f.background.SetChecked(cur.RunInBackground)
	f.columns.SetSelected(strconv.Itoa(cur.ArgumentColumns))
	f.interpreter.SetText(cur.Interpreter)
	f.interpreter.SetPlaceHolder(launcher.DefaultInterpreter())
	return f
}

func themeLabel(name string) string {
	for _, c := range themeChoices {
		if strings.EqualFold(c, name) {
			return c
		}
	}
	return themeChoices[0]
}

func columnChoices() []string {
	out := make([]string, 0, settings.MaxColumns)
	for i := settings.MinColumns; i <= settings.MaxColumns; i++ {
		out = append(out, strconv.Itoa(i))
	}
	return out
}

func (f *settingsForm) items() []*widget.FormItem {
	return []*widget.FormItem{
		{Text: "User Interface", Widget: f.multiTab, HintText: "Requires a restart."},
		{Widget: f.showIcons, HintText: "Requires a restart."},
		{Widget: f.remember},
		{Text: "Color Theme", Widget: f.theme, HintText: "System follows your OS setting."},
		{Text: "Execution", Widget: f.background, HintText: "Output of background scripts is not captured."},
		{Text: "Interpreter", Widget: f.interpreter, HintText: "Leave empty to detect Python automatically."},
		{Text: "Argument Columns", Widget: f.columns},
	}
}

// apply returns cur updated with the dialog's values.
func (f *settingsForm) apply(cur settings.Settings) (settings.Settings, error) {
	next := cur
	next.MultiTabMode = f.multiTab.Checked
	next.ShowIcons = f.showIcons.Checked
	next.RememberWindowSize = f.remember.Checked
	next.RunInBackground = f.background.Checked
	for key, value := range map[string]string{
		"theme":            f.theme.Selected,
		"argument_columns": f.columns.Selected,
		"interpreter":      f.interpreter.Text,
	} {
		if err := next.Set(key, value); err != nil {
			return cur, err
		}
	}
	return next, nil
}

func (a *guiniApp) showSettings() {
	f := newSettingsForm(a.store.Settings)
	d := dialog.NewForm("Application Settings", "OK", "Cancel", f.items(), func(ok bool) {
		if !ok {
			return
		}
		next, err := f.apply(a.store.Settings)
		if err != nil {
			a.showError(err)
			return
		}
		a.applySettings(next)
	}, a.window)
	d.Resize(fyne.NewSize(480, d.MinSize().Height))
	d.Show()
}

// applySettings saves next and applies what can change at runtime. Layout
// options that the window was built with prompt for a restart.
func (a *guiniApp) applySettings(next settings.Settings) {
	old := a.store.Settings
	a.store.Settings = next
	if err := a.store.Save(); err != nil {
		a.showError(err)
		return
	}
	if old.Theme != next.Theme {
		a.app.Settings().SetTheme(themeFor(next.Theme))
	}
	if old.ArgumentColumns != next.ArgumentColumns && a.form != nil {
		a.buildForm(a.values())
	}
	if old.Interpreter != next.Interpreter {
		a.interpreter, a.interpreterVersion = interpreterInfo(next.Interpreter)
	}

	if !settings.Diff(a.startup, next) {
		a.setStatus("Settings saved.")
		return
	}
	dialog.ShowConfirm("Restart Required",
		"Settings have been changed. A restart is required for them to take effect.\n\nRestart now?",
		func(ok bool) {
			if ok {
				a.closeWindow(true)
			}
		}, a.window)
}
