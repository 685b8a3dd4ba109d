package main

import (
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/oukeidos/guini/internal/fieldtype"
	"github.com/oukeidos/guini/internal/form"
	"github.com/oukeidos/guini/internal/scriptconfig"
)

// editor is the live widget of one form field. Exactly one of entry and
// check is set.
type editor struct {
	field  form.Field
	object fyne.CanvasObject
	entry  *widget.Entry
	check  *widget.Check
}

type editorOptions struct {
	// browse opens a file picker and reports the chosen path.
	browse    func(onPick func(path string))
	onChanged func()
	icons     bool
}

func newEditor(f form.Field, value string, opts editorOptions) *editor {
	e := &editor{field: f}
	changed := func() {
		if opts.onChanged != nil {
			opts.onChanged()
		}
	}

	if f.Type.Kind == fieldtype.Boolean {
		e.check = widget.NewCheck("", nil)
		e.check.SetChecked(form.NormalizeBool(value) == "true")
		e.check.OnChanged = func(bool) { changed() }
		e.object = e.check
		return e
	}

	if f.Type.Kind == fieldtype.Secret {
		e.entry = widget.NewPasswordEntry()
	} else {
		e.entry = widget.NewEntry()
	}
	e.entry.SetText(value)
	e.entry.SetPlaceHolder(fieldtype.Tooltip(f.Type))
	if validated(f.Type) {
		t := f.Type
		e.entry.Validator = func(s string) error { return fieldtype.Validate(t, s) }
	}
	e.entry.OnChanged = func(string) { changed() }
	e.object = e.entry

	if isFileField(f.Type) && opts.browse != nil {
		var icon fyne.Resource
		if opts.icons {
			icon = theme.FolderOpenIcon()
		}
		btn := widget.NewButtonWithIcon("Browse...", icon, func() {
			opts.browse(e.pick)
		})
		e.object = container.NewBorder(nil, nil, nil, btn, e.entry)
	}
	return e
}

// pick stores a path chosen in the file dialog. File lists collect paths.
func (e *editor) pick(path string) {
	if e.field.Type.Kind == fieldtype.List && strings.TrimSpace(e.entry.Text) != "" {
		e.entry.SetText(e.entry.Text + ", " + path)
		return
	}
	e.entry.SetText(path)
}

// Value returns the editor state in INI form; booleans are "true"/"false".
func (e *editor) Value() string {
	if e.check != nil {
		return strconv.FormatBool(e.check.Checked)
	}
	return e.entry.Text
}

func validated(t fieldtype.Type) bool {
	switch t.Kind {
	case fieldtype.Integer, fieldtype.Float, fieldtype.List:
		return true
	}
	return false
}

func isFileField(t fieldtype.Type) bool {
	return t.Kind == fieldtype.Filename || (t.Kind == fieldtype.List && t.Elem == "file")
}

// buildForm replaces the form grid with editors for the loaded config.
// [Command] fields take one row each; arguments are spread over the
// configured number of columns.
func (a *guiniApp) buildForm(values form.Values) {
	a.editors = nil
	a.formBox.Objects = nil
	if a.form == nil {
		a.formBox.Add(widget.NewLabel("No INI file loaded. Use File > Open INI File... to choose one."))
		a.formBox.Refresh()
		return
	}

	var command, args []form.Field
	for _, f := range a.form.Fields {
		if f.Section == scriptconfig.SectionCommand {
			command = append(command, f)
		} else {
			args = append(args, f)
		}
	}
	if len(command) > 0 {
		rows := make([]fyne.CanvasObject, 0, 2*len(command))
		for _, f := range command {
			rows = append(rows, widget.NewLabel(f.Label), a.addEditor(f, values[f.Ref()]).object)
		}
		a.formBox.Add(container.New(layout.NewFormLayout(), rows...))
	}
	if len(args) > 0 {
		a.formBox.Add(widget.NewSeparator())
		a.formBox.Add(a.argumentGrid(args, values))
	}
	a.formBox.Refresh()
}

func (a *guiniApp) argumentGrid(fields []form.Field, values form.Values) fyne.CanvasObject {
	cells := form.Layout(len(fields), a.store.ArgumentColumns)
	cols := 0
	for _, c := range cells {
		cols = max(cols, c.Col+1)
	}
	columns := make([][]fyne.CanvasObject, cols)
	for i, f := range fields {
		c := cells[i].Col
		columns[c] = append(columns[c], widget.NewLabel(f.Label), a.addEditor(f, values[f.Ref()]).object)
	}
	objs := make([]fyne.CanvasObject, cols)
	for i, col := range columns {
		objs[i] = container.New(layout.NewFormLayout(), col...)
	}
	return container.NewGridWithColumns(cols, objs...)
}

func (a *guiniApp) addEditor(f form.Field, value string) *editor {
	e := newEditor(f, value, editorOptions{
		browse:    a.browseFile,
		onChanged: func() { a.setDirty(true) },
		icons:     a.startup.ShowIcons,
	})
	a.editors = append(a.editors, e)
	return e
}

// values reads the form back from the editors.
func (a *guiniApp) values() form.Values {
	v := make(form.Values, len(a.editors))
	for _, e := range a.editors {
		v[e.field.Ref()] = e.Value()
	}
	return v
}

func (a *guiniApp) editorFor(section, key string) *editor {
	for _, e := range a.editors {
		if e.field.Section == section && e.field.Key == key {
			return e
		}
	}
	return nil
}
