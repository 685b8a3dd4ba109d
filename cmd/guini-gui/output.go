package main

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/oukeidos/guini/internal/launcher"
	"github.com/oukeidos/guini/internal/session"
)

// tabContainer is satisfied by both *container.AppTabs and
// *container.DocTabs; the latter is used in multi-tab mode.
type tabContainer interface {
	fyne.CanvasObject
	Append(*container.TabItem)
	Remove(*container.TabItem)
	Select(*container.TabItem)
	Selected() *container.TabItem
}

// outputTab is one output pane with the transcript behind it.
type outputTab struct {
	id         launcher.TabID
	item       *container.TabItem
	text       *widget.RichText
	scroll     *container.Scroll
	transcript session.Transcript
}

func newOutputTab(id launcher.TabID, title string) *outputTab {
	t := &outputTab{id: id, text: widget.NewRichText()}
	t.text.Wrapping = fyne.TextWrapBreak
	t.scroll = container.NewScroll(t.text)
	t.item = container.NewTabItem(title, t.scroll)
	return t
}

// append adds lines and follows the output unless the user scrolled up.
func (t *outputTab) append(lines ...session.Line) {
	follow := t.atBottom()
	t.transcript.Append(lines...)
	for _, l := range lines {
		t.text.Segments = append(t.text.Segments, segmentFor(l))
	}
	t.text.Refresh()
	if follow {
		t.scroll.ScrollToBottom()
	}
}

func (t *outputTab) atBottom() bool {
	const slack = 4
	return t.scroll.Offset.Y >= t.text.MinSize().Height-t.scroll.Size().Height-slack
}

// reset clears the tab and starts it over with lines.
func (t *outputTab) reset(lines ...session.Line) {
	t.transcript.Clear()
	t.text.Segments = nil
	t.append(lines...)
}

func segmentFor(l session.Line) *widget.TextSegment {
	style := widget.RichTextStyle{TextStyle: fyne.TextStyle{Monospace: true}}
	switch l.Kind {
	case session.Info:
		style.TextStyle.Bold = true
	case session.Command:
		style.ColorName = theme.ColorNamePlaceHolder
	case session.Stderr:
		style.ColorName = theme.ColorNameError
	case session.Success:
		style.ColorName = theme.ColorNameSuccess
		style.TextStyle.Bold = true
	case session.Failure:
		style.ColorName = theme.ColorNameError
		style.TextStyle.Bold = true
	case session.Warning:
		style.ColorName = theme.ColorNameWarning
	}
	return &widget.TextSegment{Text: l.Text, Style: style}
}

// tabSink forwards process output to a tab on the UI goroutine.
type tabSink struct {
	app *guiniApp
	tab *outputTab
}

func (s tabSink) Stdout(line string) {
	s.app.safeDo("output.stdout", func() { s.tab.append(session.StdoutLine(line)) })
}

func (s tabSink) Stderr(line string) {
	s.app.safeDo("output.stderr", func() { s.tab.append(session.StderrLine(line)) })
}

func (s tabSink) Finished(r launcher.Result) {
	s.app.safeDo("output.finished", func() { s.app.runFinished(s.tab, r) })
}

func (a *guiniApp) newTabs() tabContainer {
	if a.startup.MultiTabMode {
		dt := container.NewDocTabs()
		dt.CloseIntercept = a.closeTab
		dt.OnSelected = func(*container.TabItem) { a.updateButtons() }
		return dt
	}
	at := container.NewAppTabs()
	at.OnSelected = func(*container.TabItem) { a.updateButtons() }
	return at
}

func (a *guiniApp) newOutputTab() *outputTab {
	a.tabSeq++
	t := newOutputTab(launcher.TabID(a.tabSeq), fmt.Sprintf("Output %d", a.tabSeq))
	t.reset(a.sessionHeader()...)
	a.outputs = append(a.outputs, t)
	a.tabs.Append(t.item)
	a.tabs.Select(t.item)
	a.updateButtons()
	return t
}

func (a *guiniApp) currentTab() *outputTab {
	return a.tabFor(a.tabs.Selected())
}

func (a *guiniApp) tabFor(item *container.TabItem) *outputTab {
	if item == nil {
		return nil
	}
	for _, t := range a.outputs {
		if t.item == item {
			return t
		}
	}
	return nil
}

func (a *guiniApp) setTabTitle(t *outputTab, title string) {
	t.item.Text = title
	a.tabs.Refresh()
}

// closeTab asks before closing a tab whose script is still running. The
// last tab stays open.
func (a *guiniApp) closeTab(item *container.TabItem) {
	t := a.tabFor(item)
	if t == nil || len(a.outputs) <= 1 {
		return
	}
	if !a.registry.Running(t.id) {
		a.removeTab(t)
		return
	}
	dialog.ShowConfirm("Process is Running",
		"A script is still running in this tab. Do you want to terminate it?",
		func(ok bool) {
			if !ok {
				return
			}
			if err := a.registry.Terminate(t.id); err != nil {
				a.showError(err)
			}
			a.removeTab(t)
		}, a.window)
}

func (a *guiniApp) removeTab(t *outputTab) {
	for i, o := range a.outputs {
		if o == t {
			a.outputs = append(a.outputs[:i], a.outputs[i+1:]...)
			break
		}
	}
	a.tabs.Remove(t.item)
	a.updateButtons()
}

func (a *guiniApp) clearOutput() {
	t := a.currentTab()
	if t == nil {
		return
	}
	t.reset(a.sessionHeader()...)
	a.setStatus("Current tab cleared.")
}
