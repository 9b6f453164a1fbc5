package model

import (
	"errors"
	"strings"
)

// ErrFieldsRequired is the only validation failure a form reports.
var ErrFieldsRequired = errors.New("All fields are required.")

// Draft mirrors the fields of the recipe form. Ingredients always holds at
// least one slot once built with NewDraft or DraftFrom.
type Draft struct {
	Name         string
	Ingredients  []string
	Instructions string
}

// NewDraft returns an empty draft with a single ingredient slot.
func NewDraft() Draft {
	return Draft{Ingredients: []string{""}}
}

// DraftFrom seeds a draft with the exact values of r.
func DraftFrom(r Recipe) Draft {
	ings := make([]string, len(r.Ingredients))
	copy(ings, r.Ingredients)
	if len(ings) == 0 {
		ings = []string{""}
	}
	return Draft{Name: r.Name, Ingredients: ings, Instructions: r.Instructions}
}

// AddIngredient appends an empty slot and returns its index.
func (d *Draft) AddIngredient() int {
	d.Ingredients = append(d.Ingredients, "")
	return len(d.Ingredients) - 1
}

// InsertIngredient inserts an empty slot at i (clamped to the valid range)
// and returns the index it landed on.
func (d *Draft) InsertIngredient(i int) int {
	if i < 0 {
		i = 0
	}
	if i >= len(d.Ingredients) {
		return d.AddIngredient()
	}
	d.Ingredients = append(d.Ingredients, "")
	copy(d.Ingredients[i+1:], d.Ingredients[i:])
	d.Ingredients[i] = ""
	return i
}

// RemoveIngredient drops slot i. It reports false and leaves the draft
// untouched when i is out of range or i is the only slot left.
func (d *Draft) RemoveIngredient(i int) bool {
	if i < 0 || i >= len(d.Ingredients) || len(d.Ingredients) <= 1 {
		return false
	}
	d.Ingredients = append(d.Ingredients[:i], d.Ingredients[i+1:]...)
	return true
}

// SetIngredient replaces slot i. Out of range indexes are ignored.
func (d *Draft) SetIngredient(i int, v string) {
	if i < 0 || i >= len(d.Ingredients) {
		return
	}
	d.Ingredients[i] = v
}

// Validate applies the creation rule: name, instructions and every
// ingredient slot must be non-blank, and there must be at least one slot.
func (d Draft) Validate() error {
	if blank(d.Name) || blank(d.Instructions) || len(d.Ingredients) == 0 {
		return ErrFieldsRequired
	}
	for _, ing := range d.Ingredients {
		if blank(ing) {
			return ErrFieldsRequired
		}
	}
	return nil
}

// Compact returns a copy without blank ingredient slots. The result may
// have no slots at all, which Validate then rejects.
func (d Draft) Compact() Draft {
	out := Draft{Name: d.Name, Instructions: d.Instructions}
	for _, ing := range d.Ingredients {
		if !blank(ing) {
			out.Ingredients = append(out.Ingredients, ing)
		}
	}
	return out
}

// Input converts the draft into a request body, trimming surrounding
// whitespace from every field.
func (d Draft) Input() RecipeInput {
	ings := make([]string, 0, len(d.Ingredients))
	for _, ing := range d.Ingredients {
		ings = append(ings, strings.TrimSpace(ing))
	}
	return RecipeInput{
		Name:         strings.TrimSpace(d.Name),
		Ingredients:  ings,
		Instructions: strings.TrimSpace(d.Instructions),
	}
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }
