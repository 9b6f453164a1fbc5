package model

import (
	"strings"
	"time"
)

// Recipe is the domain model for a stored recipe, as returned by the API.
type Recipe struct {
	ID           int       `json:"id" yaml:"id"`
	Name         string    `json:"recipe_name" yaml:"recipe_name"`
	Ingredients  []string  `json:"ingredients" yaml:"ingredients"`
	Instructions string    `json:"instructions" yaml:"instructions"`
	CreatedAt    Timestamp `json:"date_created,omitempty" yaml:"date_created,omitempty"`
}

// RecipeInput is the body sent on create and update.
type RecipeInput struct {
	Name         string   `json:"recipe_name"`
	Ingredients  []string `json:"ingredients"`
	Instructions string   `json:"instructions"`
}

// Collection is the envelope returned by the list endpoint.
type Collection struct {
	Recipes []Recipe `json:"Recipes"`
}

// Timestamp accepts the RFC 1123 dates the reference backend emits as
// well as RFC 3339.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC1123,
	time.RFC1123Z,
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}
	var firstErr error
	for _, layout := range timestampLayouts {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			t.Time = parsed
			return nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + t.UTC().Format(time.RFC3339) + `"`), nil
}

// MarshalYAML renders the zero value as null.
func (t Timestamp) MarshalYAML() (any, error) {
	if t.IsZero() {
		return nil, nil
	}
	return t.UTC().Format(time.RFC3339), nil
}
