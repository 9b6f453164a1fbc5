package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/recipes/internal/model"
	"github.com/Makepad-fr/recipes/internal/ui"
)

// editView is the "/edit/:id" route.
type editView struct {
	req    requester
	id     int
	loaded bool
	saving bool
	form   recipeForm
	width  int
}

func newEditView(req requester, id, width int) editView {
	return editView{req: req, id: id, width: width, form: newRecipeForm(model.NewDraft(), width)}
}

func (v editView) Init() tea.Cmd {
	return v.req.get(v.id)
}

func (v editView) Update(msg tea.Msg) (view, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.form.setWidth(msg.Width)
		return v, nil
	case recipeLoadedMsg:
		v.loaded = true
		v.form = newRecipeForm(model.DraftFrom(msg.recipe), v.width)
		return v, v.form.focusField(0)
	case recipeUpdatedMsg:
		v.saving = false
		return v, navigate(DetailRoute(v.id))
	case requestFailedMsg:
		v.saving = false
		return v, nil
	}

	if !v.loaded {
		if km, ok := msg.(tea.KeyMsg); ok && km.Type == tea.KeyEsc {
			return v, navigate(DetailRoute(v.id))
		}
		return v, nil
	}

	var (
		cmd    tea.Cmd
		action formAction
	)
	v.form, cmd, action = v.form.Update(msg)
	switch action {
	case formCancel:
		return v, navigate(DetailRoute(v.id))
	case formSubmit:
		if v.saving {
			return v, nil
		}
		d := v.form.Draft().Compact()
		if err := d.Validate(); err != nil {
			v.form.err = err.Error()
			return v, nil
		}
		v.form.err = ""
		v.saving = true
		return v, v.req.update(v.id, d.Input())
	}
	return v, cmd
}

func (v editView) View() string {
	if !v.loaded {
		return loadingText
	}
	var b strings.Builder
	b.WriteString(ui.Current().Title.Render("Edit recipe") + "\n\n")
	b.WriteString(v.form.View())
	if v.saving {
		b.WriteString("\n" + ui.Current().Muted.Render("Saving..."))
	}
	return b.String()
}
