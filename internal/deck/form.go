package deck

import (
	"github.com/charmbracelet/huh"

	"github.com/floatdeck/floatdeck/internal/layout"
	"github.com/floatdeck/floatdeck/internal/wm"
)

// formKind distinguishes which overlay form is open.
type formKind int

const (
	formNone formKind = iota
	formCreate
	formSave
	formLoad
)

// newCreateForm builds the new-window form. The bound values live on the
// model so they survive form updates.
func newCreateForm(title, kind, taskID, workflowID *string, width int) *huh.Form {
	kindOpts := make([]huh.Option[string], 0, len(wm.Kinds()))
	for _, k := range wm.Kinds() {
		kindOpts = append(kindOpts, huh.NewOption(string(k), string(k)))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("title").
				Title("Title").
				Description("Window title (blank for a default)").
				Value(title),

			huh.NewSelect[string]().
				Key("kind").
				Title("Kind").
				Description("Picks the default size").
				Options(kindOpts...).
				Value(kind),

			huh.NewInput().
				Key("task").
				Title("Linked Task").
				Description("Optional task id").
				Value(taskID),

			huh.NewInput().
				Key("workflow").
				Title("Linked Workflow").
				Description("Optional workflow id").
				Value(workflowID),
		),
	).WithWidth(formWidth(width)).WithShowHelp(true).WithShowErrors(true)
}

// newSaveForm asks for the layout name to save under.
func newSaveForm(name *string, width int) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("name").
				Title("Save Layout").
				Description("Name for the saved arrangement").
				Value(name),
		),
	).WithWidth(formWidth(width)).WithShowHelp(true).WithShowErrors(true)
}

// newLoadForm offers the persisted layouts for selection. Returns nil when
// none exist.
func newLoadForm(name *string, width int) *huh.Form {
	names, err := layout.List()
	if err != nil || len(names) == 0 {
		return nil
	}

	opts := make([]huh.Option[string], 0, len(names))
	for _, n := range names {
		opts = append(opts, huh.NewOption(n, n))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("name").
				Title("Load Layout").
				Description("Replaces the current windows").
				Options(opts...).
				Value(name),
		),
	).WithWidth(formWidth(width)).WithShowHelp(true).WithShowErrors(true)
}

func formWidth(width int) int {
	w := width - 4
	if w < 40 {
		w = 40
	}
	return w
}
