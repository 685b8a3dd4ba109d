package main

import (
	"errors"
	"net/url"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/oukeidos/guini/internal/licenses"
	"github.com/oukeidos/guini/internal/version"
)

const projectURL = "https://github.com/oukeidos/guini"

func (a *guiniApp) showAbout() {
	dialog.NewCustom("About", "Close", buildAbout(a.window), a.window).Show()
}

func buildAbout(w fyne.Window) fyne.CanvasObject {
	info := widget.NewForm(
		widget.NewFormItem("App", widget.NewLabel(version.AppName+": GUI for INI")),
		widget.NewFormItem("Version", widget.NewLabel(version.Version)),
		widget.NewFormItem("Commit", widget.NewLabel(version.Commit)),
		widget.NewFormItem("Build", widget.NewLabel(version.BuildDate)),
		widget.NewFormItem("Links", newHyperlink("GitHub", projectURL)),
	)
	notices := widget.NewButton("View Third-Party Notices", func() {
		text := licenses.NoticesText()
		if strings.TrimSpace(text) == "" {
			dialog.ShowError(errors.New("embedded third-party notices are empty"), w)
			return
		}
		showTextDialog(w, "Third-Party Notices", text)
	})
	return container.NewVBox(info, widget.NewSeparator(), notices)
}

func newHyperlink(label, raw string) *widget.Hyperlink {
	u, _ := url.Parse(raw)
	return widget.NewHyperlink(label, u)
}

// showTextDialog shows read-only text that can still be selected and copied.
func showTextDialog(w fyne.Window, title, text string) {
	entry := widget.NewMultiLineEntry()
	entry.SetText(text)
	entry.Wrapping = fyne.TextWrapWord
	lock := false
	entry.OnChanged = func(s string) {
		if lock || s == text {
			return
		}
		lock = true
		entry.SetText(text)
		lock = false
	}
	scroll := container.NewScroll(entry)
	scroll.SetMinSize(fyne.NewSize(560, 420))
	d := dialog.NewCustom(title, "Close", scroll, w)
	d.Resize(fyne.NewSize(600, 460))
	d.Show()
}
