// Package scrape turns a recipe web page into a draft.
package scrape

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Makepad-fr/recipes/internal/model"
)

const (
	DefaultNameSelector         = "h1"
	DefaultIngredientSelector   = ".ingredients li, [itemprop=recipeIngredient]"
	DefaultInstructionsSelector = ".instructions, [itemprop=recipeInstructions]"

	maxPageSize = 5 << 20
)

var spaceRe = regexp.MustCompile(`\s+`)

// Selectors are the CSS selectors used to locate each field.
type Selectors struct {
	Name         string
	Ingredient   string
	Instructions string
}

// DefaultSelectors match common recipe markup and schema.org microdata.
func DefaultSelectors() Selectors {
	return Selectors{
		Name:         DefaultNameSelector,
		Ingredient:   DefaultIngredientSelector,
		Instructions: DefaultInstructionsSelector,
	}
}

func (s Selectors) withDefaults() Selectors {
	d := DefaultSelectors()
	if s.Name == "" {
		s.Name = d.Name
	}
	if s.Ingredient == "" {
		s.Ingredient = d.Ingredient
	}
	if s.Instructions == "" {
		s.Instructions = d.Instructions
	}
	return s
}

// Extract parses an HTML document into a draft. The draft is not
// validated; callers apply the same rule as the creation form.
func Extract(r io.Reader, sel Selectors) (model.Draft, error) {
	sel = sel.withDefaults()
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return model.Draft{}, fmt.Errorf("parse html: %w", err)
	}

	d := model.Draft{
		Name: clean(doc.Find(sel.Name).First().Text()),
	}
	doc.Find(sel.Ingredient).Each(func(_ int, s *goquery.Selection) {
		if t := clean(s.Text()); t != "" {
			d.Ingredients = append(d.Ingredients, t)
		}
	})

	var steps []string
	doc.Find(sel.Instructions).Each(func(_ int, s *goquery.Selection) {
		if t := clean(s.Text()); t != "" {
			steps = append(steps, t)
		}
	})
	d.Instructions = strings.Join(steps, "\n")
	return d, nil
}

// Fetch opens source, which is either an http(s) URL or a local path.
func Fetch(ctx context.Context, client *http.Client, source string) (io.ReadCloser, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")
		resp, err := client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", source, err)
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			resp.Body.Close()
			return nil, fmt.Errorf("fetch %s: %s", source, resp.Status)
		}
		return readCloser{io.LimitReader(resp.Body, maxPageSize), resp.Body}, nil
	}
	f, err := os.Open(source)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", source, err)
	}
	return f, nil
}

type readCloser struct {
	io.Reader
	io.Closer
}

func clean(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}
