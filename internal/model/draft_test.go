package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDraftValidate(t *testing.T) {
	tests := []struct {
		name    string
		draft   Draft
		wantErr bool
	}{
		{
			name:  "complete",
			draft: Draft{Name: "Toast", Ingredients: []string{"Bread"}, Instructions: "Toast it"},
		},
		{
			name:    "empty name",
			draft:   Draft{Ingredients: []string{"Bread"}, Instructions: "Toast it"},
			wantErr: true,
		},
		{
			name:    "blank name",
			draft:   Draft{Name: "   ", Ingredients: []string{"Bread"}, Instructions: "Toast it"},
			wantErr: true,
		},
		{
			name:    "empty ingredient slot",
			draft:   Draft{Name: "Toast", Ingredients: []string{"Bread", ""}, Instructions: "Toast it"},
			wantErr: true,
		},
		{
			name:    "no ingredients",
			draft:   Draft{Name: "Toast", Instructions: "Toast it"},
			wantErr: true,
		},
		{
			name:    "empty instructions",
			draft:   Draft{Name: "Toast", Ingredients: []string{"Bread"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.draft.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrFieldsRequired)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestDraftIngredientEditing(t *testing.T) {
	d := NewDraft()
	require.Len(t, d.Ingredients, 1)

	d.SetIngredient(0, "Bread")
	idx := d.AddIngredient()
	assert.Equal(t, 1, idx)
	assert.Len(t, d.Ingredients, 2)
	d.SetIngredient(idx, "Butter")
	d.AddIngredient()
	d.SetIngredient(2, "Jam")

	assert.True(t, d.RemoveIngredient(1))
	assert.Equal(t, []string{"Bread", "Jam"}, d.Ingredients)

	assert.False(t, d.RemoveIngredient(5))
	assert.False(t, d.RemoveIngredient(-1))
	assert.Len(t, d.Ingredients, 2)

	assert.True(t, d.RemoveIngredient(0))
	assert.False(t, d.RemoveIngredient(0), "last slot must stay")
	assert.Equal(t, []string{"Jam"}, d.Ingredients)

	d.SetIngredient(3, "ignored")
	assert.Equal(t, []string{"Jam"}, d.Ingredients)
}

func TestDraftInsertIngredient(t *testing.T) {
	d := Draft{Ingredients: []string{"a", "b"}}

	assert.Equal(t, 1, d.InsertIngredient(1))
	assert.Equal(t, []string{"a", "", "b"}, d.Ingredients)

	assert.Equal(t, 3, d.InsertIngredient(10))
	assert.Equal(t, []string{"a", "", "b", ""}, d.Ingredients)

	assert.Equal(t, 0, d.InsertIngredient(-2))
	assert.Equal(t, []string{"", "a", "", "b", ""}, d.Ingredients)
}

func TestDraftFromCopiesValues(t *testing.T) {
	r := Recipe{ID: 3, Name: "Toast", Ingredients: []string{"Bread", "Butter"}, Instructions: "Toast it"}
	d := DraftFrom(r)

	assert.Equal(t, "Toast", d.Name)
	assert.Equal(t, []string{"Bread", "Butter"}, d.Ingredients)
	assert.Equal(t, "Toast it", d.Instructions)

	d.SetIngredient(0, "Rye")
	assert.Equal(t, "Bread", r.Ingredients[0], "draft must not alias the record")

	empty := DraftFrom(Recipe{Name: "x"})
	assert.Equal(t, []string{""}, empty.Ingredients)
}

func TestDraftCompactAndInput(t *testing.T) {
	d := Draft{Name: " Toast ", Ingredients: []string{"", " Bread", "  "}, Instructions: "Toast it\n"}
	c := d.Compact()
	assert.Equal(t, []string{" Bread"}, c.Ingredients)
	assert.NoError(t, c.Validate())

	in := c.Input()
	assert.Equal(t, RecipeInput{Name: "Toast", Ingredients: []string{"Bread"}, Instructions: "Toast it"}, in)

	allBlank := Draft{Name: "a", Ingredients: []string{" "}, Instructions: "b"}.Compact()
	assert.Empty(t, allBlank.Ingredients)
	assert.ErrorIs(t, allBlank.Validate(), ErrFieldsRequired)
}
