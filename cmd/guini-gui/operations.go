package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"github.com/oukeidos/guini/internal/apperrors"
	"github.com/oukeidos/guini/internal/argv"
	"github.com/oukeidos/guini/internal/files"
	"github.com/oukeidos/guini/internal/form"
	"github.com/oukeidos/guini/internal/launcher"
	"github.com/oukeidos/guini/internal/logger"
	"github.com/oukeidos/guini/internal/scriptconfig"
	"github.com/oukeidos/guini/internal/secrets"
	"github.com/oukeidos/guini/internal/session"
	"github.com/oukeidos/guini/internal/watch"
)

// saveQuiet is how long our own INI writes are hidden from the watcher.
const saveQuiet = 2 * time.Second

// interpreterInfo resolves the default interpreter for session headers.
var interpreterInfo = func(configured string) (exe, ver string) {
	exe, _, err := launcher.ResolveInterpreter(configured, false)
	if err != nil {
		logger.Warn("interpreter not found", "error", err)
		return "", ""
	}
	return exe, launcher.Version(context.Background(), exe)
}

func (a *guiniApp) sessionHeader() []session.Line {
	return session.Header(time.Now(), a.interpreter, a.interpreterVersion)
}

// load reads path and rebuilds the form from it.
func (a *guiniApp) load(path string) error {
	cfg, err := scriptconfig.Load(path)
	if err != nil {
		return err
	}
	f, err := form.Build(cfg)
	if err != nil {
		return apperrors.Config("", err)
	}
	values := f.Defaults()
	secrets.Fill(cfg.Path(), f, values)

	a.cfg, a.form = cfg, f
	a.buildForm(values)
	a.dirty = false
	a.updateTitle()
	a.watchConfig()
	a.updateButtons()

	a.store.SetLastLoaded(cfg.Path(), a.baseDir)
	if err := a.store.Save(); err != nil {
		logger.Warn("could not remember last INI", "error", err)
	}
	logger.Info("config loaded", "path", cfg.Path(), "fields", len(f.Fields), "scheme", f.Scheme.String())
	return nil
}

// openINI loads path, leaving an empty form behind on failure.
func (a *guiniApp) openINI(path string) {
	if err := a.load(path); err != nil {
		a.unload()
		a.showError(err)
		return
	}
	a.setStatus("Loaded " + filepath.Base(path))
}

func (a *guiniApp) unload() {
	if a.watcher != nil {
		_ = a.watcher.Close()
		a.watcher = nil
	}
	a.cfg, a.form = nil, nil
	a.buildForm(nil)
	a.dirty = false
	a.updateTitle()
	a.updateButtons()
}

func (a *guiniApp) promptOpen() {
	a.confirmDiscard(func() {
		d := dialog.NewFileOpen(func(r fyne.URIReadCloser, err error) {
			if err != nil {
				a.showError(apperrors.IO("", err))
				return
			}
			if r == nil {
				return
			}
			path := r.URI().Path()
			_ = r.Close()
			a.openINI(path)
		}, a.window)
		d.SetFilter(storage.NewExtensionFileFilter([]string{".ini"}))
		setDialogLocation(d, a.dialogDir())
		d.Show()
	})
}

func (a *guiniApp) handleDropped(uri fyne.URI) {
	path := uri.Path()
	if !strings.EqualFold(filepath.Ext(path), ".ini") {
		a.setStatus("Only .ini files can be opened.")
		return
	}
	a.confirmDiscard(func() { a.openINI(path) })
}

func (a *guiniApp) reload() {
	if a.cfg == nil {
		a.setStatus("No INI file is currently loaded.")
		return
	}
	path := a.cfg.Path()
	a.confirmDiscard(func() {
		a.setStatus(fmt.Sprintf("Reloading %s...", filepath.Base(path)))
		a.openINI(path)
	})
}

func (a *guiniApp) saveINI() {
	if a.cfg == nil {
		a.setStatus("No INI file is currently loaded.")
		return
	}
	if err := a.writeINI(); err != nil {
		a.showError(err)
		return
	}
	a.setDirty(false)
	a.setStatus("Configuration saved to " + a.cfg.Path())
}

// writeINI stores the form in the INI file. Secret values go to the
// keychain and are written blank.
func (a *guiniApp) writeINI() error {
	values, err := secrets.Persist(a.cfg.Path(), a.form, a.values())
	if err != nil {
		return apperrors.IO("Could not store secret values.", err)
	}
	if err := a.form.Apply(a.cfg, values); err != nil {
		return err
	}
	if a.watcher != nil {
		a.watcher.Suppress(saveQuiet)
	}
	return a.cfg.Save()
}

// editINI opens the INI file in the system's default editor. Changes made
// there come back through the watcher.
func (a *guiniApp) editINI() {
	if a.cfg == nil {
		a.setStatus("No INI file loaded to edit.")
		return
	}
	path := a.cfg.Path()
	if _, err := os.Stat(path); err != nil {
		a.setStatus("No INI file loaded to edit.")
		return
	}
	a.confirmDiscard(func() {
		u, err := url.Parse(storage.NewFileURI(path).String())
		if err == nil {
			err = a.app.OpenURL(u)
		}
		if err != nil {
			a.showError(apperrors.IO("Could not open the INI file in an editor.", err))
			return
		}
		a.setStatus(fmt.Sprintf("Opening %s in editor...", filepath.Base(path)))
	})
}

func (a *guiniApp) watchConfig() {
	if a.watcher != nil {
		_ = a.watcher.Close()
		a.watcher = nil
	}
	if a.cfg == nil {
		return
	}
	w, err := watch.New(a.cfg.Path(), watch.DefaultDelay, func() {
		a.safeDo("watch.changed", a.externalChange)
	})
	if err != nil {
		logger.Warn("cannot watch config file", "path", a.cfg.Path(), "error", err)
		return
	}
	a.watcher = w
}

// externalChange reloads a clean form right away and asks first when it
// holds unsaved edits.
func (a *guiniApp) externalChange() {
	if a.cfg == nil || a.reloadAsked {
		return
	}
	path := a.cfg.Path()
	name := filepath.Base(path)
	if !a.dirty {
		a.openINI(path)
		a.setStatus(name + " changed on disk and was reloaded.")
		return
	}
	a.reloadAsked = true
	dialog.ShowConfirm("File Changed",
		fmt.Sprintf("%s was changed outside Guini.\nReload it and discard your unsaved changes?", name),
		func(ok bool) {
			a.reloadAsked = false
			if ok {
				a.openINI(path)
			}
		}, a.window)
}

// runPlan is a validated invocation ready to start.
type runPlan struct {
	spec       launcher.Spec
	background bool
	warning    string
}

func (a *guiniApp) prepareRun() (runPlan, error) {
	if a.cfg == nil || a.form == nil {
		return runPlan{}, apperrors.Config("No INI file is loaded.", nil)
	}
	values := a.values()
	if err := a.form.Validate(values); err != nil {
		return runPlan{}, apperrors.Validation(err.Error(), err)
	}
	args, err := argv.Assemble(a.form, values)
	if err != nil {
		return runPlan{}, err
	}
	if err := a.form.Apply(a.cfg, values); err != nil {
		return runPlan{}, err
	}
	script, err := a.cfg.ScriptPath("")
	if err != nil {
		return runPlan{}, err
	}
	interp := a.cfg.Interpreter()
	if interp == "" {
		interp = a.store.Interpreter
	}
	background := a.store.RunInBackground
	exe, warning, err := launcher.ResolveInterpreter(interp, background)
	if err != nil {
		return runPlan{}, err
	}
	return runPlan{
		spec:       launcher.Spec{Executable: exe, Script: script, Dir: a.cfg.Dir(), Args: args},
		background: background,
		warning:    warning,
	}, nil
}

func (a *guiniApp) run() {
	tab := a.currentTab()
	if tab == nil {
		a.setStatus("No active output tab selected.")
		return
	}
	if a.registry.Running(tab.id) {
		a.setStatus("A script is already running in this tab.")
		return
	}
	plan, err := a.prepareRun()
	if err != nil {
		a.showError(err)
		return
	}

	name := filepath.Base(plan.spec.Script)
	tab.append(session.RunBanner(time.Now())...)
	if plan.warning != "" {
		tab.append(session.WarningLine(plan.warning))
	}
	tab.append(session.CommandEcho(argv.CommandLine(plan.spec.Executable, plan.spec.Script, plan.spec.Args)))

	if plan.background {
		pid, err := launcher.StartDetached(plan.spec)
		if err != nil {
			tab.append(session.Line{Kind: session.Failure, Text: "! " + apperrors.PublicMessage(err)})
			a.showError(err)
			return
		}
		tab.append(session.BackgroundNotice(pid))
		a.setStatus(fmt.Sprintf("Launched '%s' in background.", name))
		return
	}

	if _, err := a.registry.Start(context.Background(), tab.id, plan.spec, tabSink{app: a, tab: tab}); err != nil {
		tab.append(session.Line{Kind: session.Failure, Text: "! " + apperrors.PublicMessage(err)})
		a.showError(err)
		return
	}
	a.setTabTitle(tab, name)
	a.setStatus(fmt.Sprintf("Running '%s'...", name))
	a.updateButtons()
}

func (a *guiniApp) runFinished(tab *outputTab, r launcher.Result) {
	tab.append(session.Footer(r)...)
	a.setTabTitle(tab, session.FinishedTitle(tab.item.Text))
	if r.Success() {
		a.setStatus("Script finished.")
	} else {
		a.setStatus(fmt.Sprintf("Script %s (exit code %d).", r.Status, r.ExitCode))
	}
	a.updateButtons()
}

func (a *guiniApp) stop() {
	tab := a.currentTab()
	if tab == nil || !a.registry.Running(tab.id) {
		return
	}
	if err := a.registry.Terminate(tab.id); err != nil {
		a.showError(apperrors.Launch("Could not stop the process.", err))
		return
	}
	a.setStatus("Attempting to stop the process...")
}

func (a *guiniApp) saveOutputAs() {
	tab := a.currentTab()
	if tab == nil || tab.transcript.Len() == 0 {
		a.setStatus("Current tab is empty. Nothing to save.")
		return
	}
	d := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil {
			a.showError(apperrors.IO("", err))
			return
		}
		if wc == nil {
			return
		}
		path := wc.URI().Path()
		_ = wc.Close()
		if err := tab.transcript.Save(path); err != nil {
			a.showError(err)
			return
		}
		a.setStatus("Output saved to " + path)
	}, a.window)
	dir := a.dialogDir()
	name := "output.txt"
	if suggested, _, err := files.SafePath(filepath.Join(dir, name)); err == nil {
		name = filepath.Base(suggested)
	}
	d.SetFileName(name)
	setDialogLocation(d, dir)
	d.Show()
}

func (a *guiniApp) browseFile(onPick func(string)) {
	d := dialog.NewFileOpen(func(r fyne.URIReadCloser, err error) {
		if err != nil {
			a.showError(apperrors.IO("", err))
			return
		}
		if r == nil {
			return
		}
		path := r.URI().Path()
		_ = r.Close()
		onPick(path)
	}, a.window)
	setDialogLocation(d, a.dialogDir())
	d.Show()
}

func (a *guiniApp) dialogDir() string {
	if a.cfg != nil {
		return a.cfg.Dir()
	}
	return a.baseDir
}

func setDialogLocation(d *dialog.FileDialog, dir string) {
	l, err := storage.ListerForURI(storage.NewFileURI(dir))
	if err != nil {
		return
	}
	d.SetLocation(l)
}

// confirmDiscard runs next once unsaved form edits are saved or
// discarded. Cancel drops next.
func (a *guiniApp) confirmDiscard(next func()) {
	if !a.dirty {
		next()
		return
	}
	var d *dialog.CustomDialog
	save := widget.NewButton("Save", func() {
		d.Hide()
		a.saveINI()
		if !a.dirty {
			next()
		}
	})
	save.Importance = widget.HighImportance
	discard := widget.NewButton("Discard", func() {
		d.Hide()
		next()
	})
	cancel := widget.NewButton("Cancel", func() { d.Hide() })
	d = dialog.NewCustomWithoutButtons("Unsaved Changes",
		widget.NewLabel("You have unsaved changes. Do you want to save them?"), a.window)
	d.SetButtons([]fyne.CanvasObject{cancel, discard, save})
	d.Show()
}

func (a *guiniApp) showError(err error) {
	logger.Warn("operation failed", "error", err)
	dialog.ShowInformation(apperrors.Title(err), apperrors.PublicMessage(err), a.window)
}
