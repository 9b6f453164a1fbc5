package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/recipes/internal/model"
	"github.com/Makepad-fr/recipes/internal/ui"
)

// recipeItem adapts a Recipe to bubbles/list.Item.
type recipeItem struct {
	model.Recipe
}

func (i recipeItem) FilterValue() string { return i.Name }

// itemDelegate renders each recipe on a single line.
type itemDelegate struct{}

func (d itemDelegate) Height() int                             { return 1 }
func (d itemDelegate) Spacing() int                            { return 0 }
func (d itemDelegate) Update(tea.Msg, *list.Model) tea.Cmd     { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(recipeItem)
	if !ok {
		return
	}
	t := ui.Current()
	line := fmt.Sprintf("%s %s", ui.Truncate(it.Name, 60), t.Muted.Render("("+ui.Count(len(it.Ingredients), "ingredient")+")"))
	prefix := "  "
	if index == m.Index() {
		prefix = t.Selected.Render(t.SymCursor)
	}
	fmt.Fprintln(w, prefix+line)
}

// listView is the "/" route: the recipe list plus the creation form.
type listView struct {
	req       requester
	recipes   []model.Recipe
	list      list.Model
	form      recipeForm
	composing bool
	loading   bool
	keys      listKeys
	width     int
	height    int
}

func newListView(req requester, width, height int) listView {
	l := list.New(nil, itemDelegate{}, 0, 0)
	l.Title = "Recipes"
	l.Styles.Title = ui.Current().Title
	l.SetShowHelp(false)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetStatusBarItemName("recipe", "recipes")
	l.FilterInput.Prompt = "/ "
	l.KeyMap.Quit.SetEnabled(false)

	v := listView{
		req:     req,
		list:    l,
		form:    newRecipeForm(model.NewDraft(), width),
		keys:    defaultListKeys(),
		loading: true,
	}
	v.setSize(width, height)
	return v
}

func (v listView) Init() tea.Cmd {
	return v.req.list()
}

func (v *listView) setSize(w, h int) {
	v.width, v.height = w, h
	v.form.setWidth(w)
	listHeight := h - 4
	if v.composing {
		listHeight = h - 16 - len(v.form.ingredients)
	}
	if listHeight < 3 {
		listHeight = 3
	}
	v.list.SetSize(w, listHeight)
}

func (v *listView) setRecipes(rs []model.Recipe) tea.Cmd {
	v.recipes = rs
	items := make([]list.Item, 0, len(rs))
	for _, r := range rs {
		items = append(items, recipeItem{Recipe: r})
	}
	return v.list.SetItems(items)
}

func (v listView) selected() (model.Recipe, bool) {
	it, ok := v.list.SelectedItem().(recipeItem)
	if !ok {
		return model.Recipe{}, false
	}
	return it.Recipe, true
}

func (v listView) Update(msg tea.Msg) (view, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.setSize(msg.Width, msg.Height)
		return v, nil

	case recipesLoadedMsg:
		v.loading = false
		return v, v.setRecipes(msg.recipes)

	case recipeCreatedMsg:
		rs := append(append([]model.Recipe(nil), v.recipes...), msg.recipe)
		cmd := v.setRecipes(rs)
		v.list.Select(len(rs) - 1)
		v.form = newRecipeForm(model.NewDraft(), v.width)
		v.composing = false
		v.setSize(v.width, v.height)
		return v, cmd

	case recipeDeletedMsg:
		rs := make([]model.Recipe, 0, len(v.recipes))
		for _, r := range v.recipes {
			if r.ID != msg.id {
				rs = append(rs, r)
			}
		}
		return v, v.setRecipes(rs)

	case requestFailedMsg:
		v.loading = false
		return v, nil
	}

	if v.composing {
		return v.updateForm(msg)
	}

	km, ok := msg.(tea.KeyMsg)
	if ok && v.list.FilterState() != list.Filtering {
		switch {
		case key.Matches(km, v.keys.New):
			v.composing = true
			v.setSize(v.width, v.height)
			return v, v.form.focusField(0)
		case key.Matches(km, v.keys.View):
			if r, found := v.selected(); found {
				return v, navigate(DetailRoute(r.ID))
			}
			return v, nil
		case key.Matches(km, v.keys.Delete):
			if r, found := v.selected(); found {
				return v, v.req.remove(r.ID)
			}
			return v, nil
		case key.Matches(km, v.keys.Reload):
			v.loading = true
			return v, v.req.list()
		case key.Matches(km, v.keys.Quit) && v.list.FilterState() == list.Unfiltered:
			return v, tea.Quit
		}
	}

	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return v, cmd
}

func (v listView) updateForm(msg tea.Msg) (view, tea.Cmd) {
	var (
		cmd    tea.Cmd
		action formAction
	)
	v.form, cmd, action = v.form.Update(msg)
	switch action {
	case formCancel:
		v.form.blur()
		v.form.err = ""
		v.composing = false
		v.setSize(v.width, v.height)
		return v, nil
	case formSubmit:
		d := v.form.Draft()
		if err := d.Validate(); err != nil {
			v.form.err = err.Error()
			return v, nil
		}
		v.form.err = ""
		return v, v.req.create(d.Input())
	}
	v.setSize(v.width, v.height)
	return v, cmd
}

func (v listView) View() string {
	var b strings.Builder
	if v.composing {
		b.WriteString(ui.Current().Title.Render("New recipe") + "\n\n")
		b.WriteString(v.form.View() + "\n\n")
	}
	if v.loading && len(v.recipes) == 0 {
		b.WriteString(ui.Current().Muted.Render(loadingText) + "\n")
	} else {
		b.WriteString(v.list.View() + "\n")
	}
	if !v.composing {
		b.WriteString(helpLine(v.keys.help()))
	}
	return b.String()
}
