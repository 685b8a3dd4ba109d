package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/oukeidos/guini/internal/form"
	"github.com/oukeidos/guini/internal/launcher"
	"github.com/oukeidos/guini/internal/logger"
	"github.com/oukeidos/guini/internal/scriptconfig"
	"github.com/oukeidos/guini/internal/settings"
	"github.com/oukeidos/guini/internal/version"
	"github.com/oukeidos/guini/internal/watch"
)

type guiniApp struct {
	app    fyne.App
	window fyne.Window
	store  *settings.Store
	// startup holds the settings the window was built with; some of them
	// only change after a restart.
	startup settings.Settings
	baseDir string

	cfg     *scriptconfig.Config
	form    *form.Form
	editors []*editor
	dirty   bool

	formBox  *fyne.Container
	tabs     tabContainer
	outputs  []*outputTab
	tabSeq   int
	registry *launcher.Registry
	watcher  *watch.Watcher
	status   *widget.Label
	menu     *fyne.MainMenu

	runBtn    *widget.Button
	stopBtn   *widget.Button
	saveBtn   *widget.Button
	reloadBtn *widget.Button
	editBtn   *widget.Button

	saveItem   *fyne.MenuItem
	reloadItem *fyne.MenuItem
	editItem   *fyne.MenuItem

	interpreter        string
	interpreterVersion string

	reloadAsked      bool
	restartRequested bool
	panicNoticeOnce  sync.Once
}

func newGuiniApp(fa fyne.App, w fyne.Window, store *settings.Store) *guiniApp {
	a := &guiniApp{
		app:      fa,
		window:   w,
		store:    store,
		startup:  store.Settings,
		baseDir:  filepath.Dir(store.Path()),
		registry: launcher.NewRegistry(),
		status:   widget.NewLabel(""),
	}
	a.interpreter, a.interpreterVersion = interpreterInfo(store.Interpreter)
	a.setupUI()
	a.newOutputTab()
	return a
}

func (a *guiniApp) setupUI() {
	a.formBox = container.NewVBox()
	a.buildForm(nil)

	a.saveBtn = a.newButton("Save INI", theme.DocumentSaveIcon(), a.saveINI)
	a.reloadBtn = a.newButton("Reload INI", theme.ViewRefreshIcon(), a.reload)
	a.editBtn = a.newButton("Edit INI", theme.DocumentCreateIcon(), a.editINI)
	a.runBtn = a.newButton("Run", theme.MediaPlayIcon(), a.run)
	a.runBtn.Importance = widget.HighImportance
	a.stopBtn = a.newButton("Stop", theme.MediaStopIcon(), a.stop)
	clearBtn := a.newButton("Clear Output", theme.ContentClearIcon(), a.clearOutput)
	settingsBtn := a.newButton("Settings", theme.SettingsIcon(), a.showSettings)

	fileRow := container.NewHBox(a.saveBtn, a.reloadBtn, a.editBtn)
	runRow := container.NewHBox(a.runBtn, a.stopBtn, widget.NewSeparator(), clearBtn, layout.NewSpacer(), settingsBtn)
	if a.startup.MultiTabMode {
		runRow.Add(a.newButton("New Output Tab", theme.ContentAddIcon(), func() { a.newOutputTab() }))
	}

	a.tabs = a.newTabs()
	top := container.NewBorder(nil, container.NewVBox(fileRow, runRow), nil, nil, container.NewVScroll(a.formBox))
	split := container.NewVSplit(top, a.tabs)
	split.Offset = 0.45
	a.window.SetContent(container.NewBorder(nil, a.status, nil, nil, split))

	a.menu = a.buildMenu()
	a.window.SetMainMenu(a.menu)
	a.updateTitle()
}

func (a *guiniApp) newButton(label string, icon fyne.Resource, tapped func()) *widget.Button {
	if !a.startup.ShowIcons {
		icon = nil
	}
	return widget.NewButtonWithIcon(label, icon, tapped)
}

func (a *guiniApp) buildMenu() *fyne.MainMenu {
	item := func(label string, icon fyne.Resource, key fyne.KeyName, mod fyne.KeyModifier, fn func()) *fyne.MenuItem {
		it := fyne.NewMenuItem(label, fn)
		if a.startup.ShowIcons {
			it.Icon = icon
		}
		if key != "" {
			it.Shortcut = &desktop.CustomShortcut{KeyName: key, Modifier: mod}
		}
		return it
	}
	short := fyne.KeyModifierShortcutDefault

	open := item("Open INI File...", theme.FolderOpenIcon(), fyne.KeyO, short, a.promptOpen)
	a.editItem = item("Edit INI File", theme.DocumentCreateIcon(), fyne.KeyE, short, a.editINI)
	a.saveItem = item("Save INI", theme.DocumentSaveIcon(), fyne.KeyS, short, a.saveINI)
	a.reloadItem = item("Reload INI File", theme.ViewRefreshIcon(), fyne.KeyF5, 0, a.reload)
	saveOutput := item("Save Output As...", theme.DocumentSaveIcon(), fyne.KeyS, short|fyne.KeyModifierShift, a.saveOutputAs)
	clearOut := item("Clear Output", theme.ContentClearIcon(), fyne.KeyL, short, a.clearOutput)
	prefs := item("Settings...", theme.SettingsIcon(), "", 0, a.showSettings)
	about := item("About", theme.InfoIcon(), "", 0, a.showAbout)

	file := fyne.NewMenu("File", open, a.editItem, a.saveItem, a.reloadItem, fyne.NewMenuItemSeparator(), saveOutput)
	edit := fyne.NewMenu("Edit", clearOut, fyne.NewMenuItemSeparator(), prefs)
	menus := []*fyne.Menu{file, edit}
	if a.startup.MultiTabMode {
		newTab := item("New Output Tab", theme.ContentAddIcon(), fyne.KeyT, short, func() { a.newOutputTab() })
		menus = append(menus, fyne.NewMenu("Tabs", newTab))
	}
	menus = append(menus, fyne.NewMenu("Help", about))
	return fyne.NewMainMenu(menus...)
}

func (a *guiniApp) updateTitle() {
	name := ""
	if a.cfg != nil {
		name = filepath.Base(a.cfg.Path())
	}
	title := version.Title(name)
	if a.dirty {
		title += "*"
	}
	a.window.SetTitle(title)
}

func (a *guiniApp) setDirty(d bool) {
	if a.dirty == d {
		return
	}
	a.dirty = d
	a.updateTitle()
	a.updateButtons()
}

func (a *guiniApp) setStatus(msg string) {
	a.status.SetText(msg)
}

// updateButtons enables Run/Stop for the selected tab and the file actions
// for the loaded config.
func (a *guiniApp) updateButtons() {
	if a.runBtn == nil {
		return
	}
	tab := a.currentTab()
	running := tab != nil && a.registry.Running(tab.id)
	loaded := a.cfg != nil
	setEnabled(a.runBtn, tab != nil && loaded && !running)
	setEnabled(a.stopBtn, running)
	setEnabled(a.saveBtn, loaded && a.dirty)
	setEnabled(a.reloadBtn, loaded)
	setEnabled(a.editBtn, loaded)
	if a.menu != nil {
		a.saveItem.Disabled = !loaded
		a.reloadItem.Disabled = !loaded
		a.editItem.Disabled = !loaded
		a.menu.Refresh()
	}
}

func setEnabled(b *widget.Button, on bool) {
	if on {
		b.Enable()
	} else {
		b.Disable()
	}
}

// initialSize is the remembered window size, or the default one.
func (a *guiniApp) initialSize() fyne.Size {
	s := a.startup
	if !s.RememberWindowSize {
		s = settings.Defaults()
	}
	return fyne.NewSize(float32(s.WindowWidth), float32(s.WindowHeight))
}

// requestClose is the window close handler.
func (a *guiniApp) requestClose() { a.closeWindow(false) }

// closeWindow confirms unsaved edits and running scripts, then closes the
// main window. With restart set, main starts a new instance afterwards.
func (a *guiniApp) closeWindow(restart bool) {
	a.confirmDiscard(func() {
		if a.registry.Count() == 0 {
			a.shutdown(restart)
			return
		}
		dialog.ShowConfirm("Processes are Running",
			"One or more scripts are still running.\nClosing this window will terminate them. Are you sure?",
			func(ok bool) {
				if ok {
					a.shutdown(restart)
				}
			}, a.window)
	})
}

func (a *guiniApp) shutdown(restart bool) {
	a.restartRequested = restart
	a.registry.TerminateAll(launcher.DefaultGrace + time.Second)
	if a.watcher != nil {
		_ = a.watcher.Close()
		a.watcher = nil
	}
	a.saveWindowSize()
	a.window.SetCloseIntercept(nil)
	a.window.Close()
}

func (a *guiniApp) saveWindowSize() {
	if !a.store.RememberWindowSize {
		return
	}
	size := a.window.Canvas().Size()
	for key, v := range map[string]float32{"window_width": size.Width, "window_height": size.Height} {
		if err := a.store.Set(key, strconv.Itoa(int(v))); err != nil {
			logger.Debug("window size not saved", "key", key, "error", err)
		}
	}
	if err := a.store.Save(); err != nil {
		logger.Warn("could not save settings", "error", err)
	}
}

// relaunch starts a fresh copy of this program with the same arguments.
func relaunch() {
	exe, err := os.Executable()
	if err != nil {
		logger.Error("restart failed", "error", err)
		return
	}
	cmd := exec.Command(exe, os.Args[1:]...)
	if err := cmd.Start(); err != nil {
		logger.Error("restart failed", "error", err)
		return
	}
	_ = cmd.Process.Release()
}

// initialINI is the file named on the command line, else the last one
// loaded.
func initialINI(store *settings.Store) string {
	if len(os.Args) > 1 && os.Args[1] != "" {
		return os.Args[1]
	}
	return store.LastLoaded(filepath.Dir(store.Path()))
}

func main() {
	logger.Init(logger.LevelInfo, nil)
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Unrecovered GUI panic", "scope", "main", "panic", fmt.Sprint(r))
			os.Exit(1)
		}
	}()

	store, err := settings.Load(settings.DefaultPath())
	if err != nil {
		if store == nil {
			logger.Error("cannot load settings", "error", err)
			os.Exit(1)
		}
		logger.Warn("settings not saved", "error", err)
	}

	fa := app.NewWithID("io.github.oukeidos.guini")
	fa.SetIcon(appIcon())
	fa.Settings().SetTheme(themeFor(store.Theme))

	w := fa.NewWindow(version.Title(""))
	w.SetIcon(appIcon())
	w.SetMaster()

	ga := newGuiniApp(fa, w, store)
	w.Resize(ga.initialSize())
	w.SetCloseIntercept(ga.requestClose)
	w.SetOnDropped(func(_ fyne.Position, uris []fyne.URI) {
		if len(uris) > 0 {
			ga.handleDropped(uris[0])
		}
	})
	ga.openINI(initialINI(store))

	w.ShowAndRun()
	if ga.restartRequested {
		relaunch()
	}
}
