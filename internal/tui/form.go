package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/recipes/internal/model"
)

type formAction int

const (
	formNone formAction = iota
	formSubmit
	formCancel
)

// recipeForm edits a draft: a name input, one input per ingredient slot
// and an instructions textarea. Focus index 0 is the name, 1..n the
// ingredient slots, n+1 the instructions.
type recipeForm struct {
	name         textinput.Model
	ingredients  []textinput.Model
	instructions textarea.Model
	focus        int
	width        int
	err          string
	keys         formKeys
}

func newRecipeForm(d model.Draft, width int) recipeForm {
	f := recipeForm{keys: defaultFormKeys(), width: width}

	f.name = textinput.New()
	f.name.Prompt = "> "
	f.name.Placeholder = "Recipe name..."
	f.name.CharLimit = nameCharLimit
	f.name.SetValue(d.Name)

	f.instructions = textarea.New()
	f.instructions.Placeholder = "Instructions..."
	f.instructions.ShowLineNumbers = false
	f.instructions.CharLimit = instructionsCharLimit
	f.instructions.SetHeight(4)
	f.instructions.SetValue(d.Instructions)

	f.setIngredients(d.Ingredients)
	f.setWidth(width)
	return f
}

func (f *recipeForm) setIngredients(values []string) {
	if len(values) == 0 {
		values = []string{""}
	}
	f.ingredients = make([]textinput.Model, len(values))
	for i, v := range values {
		ti := textinput.New()
		ti.Prompt = fmt.Sprintf("%2d. ", i+1)
		ti.Placeholder = "Ingredient..."
		ti.CharLimit = nameCharLimit
		ti.SetValue(v)
		if f.width > 0 {
			ti.Width = f.width - 8
		}
		f.ingredients[i] = ti
	}
}

func (f *recipeForm) setWidth(w int) {
	f.width = w
	if w <= 0 {
		return
	}
	f.name.Width = w - 6
	for i := range f.ingredients {
		f.ingredients[i].Width = w - 8
	}
	f.instructions.SetWidth(w - 2)
}

// Draft returns the current field values.
func (f recipeForm) Draft() model.Draft {
	d := model.Draft{
		Name:         f.name.Value(),
		Instructions: f.instructions.Value(),
		Ingredients:  make([]string, len(f.ingredients)),
	}
	for i, ti := range f.ingredients {
		d.Ingredients[i] = ti.Value()
	}
	return d
}

func (f recipeForm) fieldCount() int { return len(f.ingredients) + 2 }

func (f recipeForm) instructionsIndex() int { return len(f.ingredients) + 1 }

// ingredientFocus returns the focused slot, or -1 when focus is elsewhere.
func (f recipeForm) ingredientFocus() int {
	if f.focus >= 1 && f.focus <= len(f.ingredients) {
		return f.focus - 1
	}
	return -1
}

func (f *recipeForm) focusField(i int) tea.Cmd {
	n := f.fieldCount()
	i = ((i % n) + n) % n
	f.focus = i

	f.name.Blur()
	for j := range f.ingredients {
		f.ingredients[j].Blur()
	}
	f.instructions.Blur()

	switch {
	case i == 0:
		return f.name.Focus()
	case i == f.instructionsIndex():
		return f.instructions.Focus()
	default:
		return f.ingredients[i-1].Focus()
	}
}

func (f *recipeForm) blur() {
	f.name.Blur()
	for j := range f.ingredients {
		f.ingredients[j].Blur()
	}
	f.instructions.Blur()
}

// addIngredient opens an empty slot below the focused one, or at the end
// when no slot is focused, and moves focus to it.
func (f *recipeForm) addIngredient() tea.Cmd {
	d := f.Draft()
	pos := len(d.Ingredients)
	if k := f.ingredientFocus(); k >= 0 {
		pos = k + 1
	}
	idx := d.InsertIngredient(pos)
	f.setIngredients(d.Ingredients)
	return f.focusField(idx + 1)
}

// removeIngredient drops the focused slot. The last remaining slot stays.
func (f *recipeForm) removeIngredient() tea.Cmd {
	k := f.ingredientFocus()
	if k < 0 {
		return nil
	}
	d := f.Draft()
	if !d.RemoveIngredient(k) {
		return nil
	}
	f.setIngredients(d.Ingredients)
	if k >= len(f.ingredients) {
		k = len(f.ingredients) - 1
	}
	return f.focusField(k + 1)
}

func (f recipeForm) Update(msg tea.Msg) (recipeForm, tea.Cmd, formAction) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(km, f.keys.Submit):
			return f, nil, formSubmit
		case key.Matches(km, f.keys.Cancel):
			return f, nil, formCancel
		case key.Matches(km, f.keys.Next):
			return f, f.focusField(f.focus + 1), formNone
		case key.Matches(km, f.keys.Prev):
			return f, f.focusField(f.focus - 1), formNone
		case key.Matches(km, f.keys.AddIngredient):
			return f, f.addIngredient(), formNone
		case key.Matches(km, f.keys.RemoveIngredient):
			return f, f.removeIngredient(), formNone
		case km.Type == tea.KeyEnter && f.focus != f.instructionsIndex():
			return f, f.focusField(f.focus + 1), formNone
		}
	}

	var cmd tea.Cmd
	switch {
	case f.focus == 0:
		f.name, cmd = f.name.Update(msg)
	case f.focus == f.instructionsIndex():
		f.instructions, cmd = f.instructions.Update(msg)
	default:
		i := f.focus - 1
		f.ingredients[i], cmd = f.ingredients[i].Update(msg)
	}
	return f, cmd, formNone
}

func (f recipeForm) View() string {
	var b strings.Builder
	b.WriteString(label("Recipe Name:") + "\n")
	b.WriteString(f.name.View() + "\n\n")
	b.WriteString(label("Ingredients:") + "\n")
	for _, ti := range f.ingredients {
		b.WriteString(ti.View() + "\n")
	}
	b.WriteString("\n" + label("Instructions:") + "\n")
	b.WriteString(f.instructions.View() + "\n")
	if f.err != "" {
		b.WriteString(errorLine(f.err) + "\n")
	}
	b.WriteString(helpLine(f.keys.help()))
	return b.String()
}
