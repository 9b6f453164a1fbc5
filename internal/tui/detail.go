package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/recipes/internal/model"
	"github.com/Makepad-fr/recipes/internal/ui"
)

// detailView is the "/recipe/:id" route.
type detailView struct {
	req     requester
	id      int
	recipe  *model.Recipe
	failed  bool
	spinner spinner.Model
	keys    detailKeys
	width   int
}

func newDetailView(req requester, id, width int) detailView {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = ui.Current().Accent
	return detailView{req: req, id: id, spinner: s, keys: defaultDetailKeys(), width: width}
}

func (v detailView) Init() tea.Cmd {
	return tea.Batch(v.spinner.Tick, v.req.get(v.id))
}

func (v detailView) Update(msg tea.Msg) (view, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		return v, nil
	case recipeLoadedMsg:
		r := msg.recipe
		v.recipe = &r
		return v, nil
	case requestFailedMsg:
		v.failed = true
		return v, nil
	case spinner.TickMsg:
		if v.recipe != nil || v.failed {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, v.keys.Back):
			return v, navigate(ListRoute())
		case key.Matches(msg, v.keys.Edit) && v.recipe != nil:
			return v, navigate(EditRoute(v.id))
		}
	}
	return v, nil
}

func (v detailView) View() string {
	if v.recipe == nil {
		if v.failed {
			return noRecipeText
		}
		return v.spinner.View() + " " + loadingText
	}
	t := ui.Current()
	r := v.recipe

	var b strings.Builder
	b.WriteString(t.Title.Render(r.Name) + "\n\n")
	b.WriteString(label("Ingredients:") + "\n")
	for _, ing := range r.Ingredients {
		b.WriteString("  " + t.SymBullet + " " + ing + "\n")
	}
	b.WriteString("\n" + label("Instructions:") + "\n")
	b.WriteString(wrap(r.Instructions, v.width-2) + "\n")
	if !r.CreatedAt.IsZero() {
		b.WriteString("\n" + t.Muted.Render("Created "+r.CreatedAt.Local().Format("2 Jan 2006 15:04")) + "\n")
	}
	b.WriteString("\n" + helpLine(v.keys.help()))
	return b.String()
}
