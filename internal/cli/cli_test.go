package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Makepad-fr/recipes/internal/apitest"
	"github.com/Makepad-fr/recipes/internal/config"
	"github.com/Makepad-fr/recipes/internal/model"
	"github.com/Makepad-fr/recipes/internal/ui"
)

type result struct {
	code           int
	stdout, stderr string
}

// isolate keeps the user's config and environment out of the run.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("RECIPES_HOME", t.TempDir())
	t.Setenv(config.EnvBaseURL, "")
	t.Setenv(config.EnvLogLevel, "")
	t.Cleanup(func() { ui.SetTheme("classic") })
}

func run(t *testing.T, baseURL string, args ...string) result {
	t.Helper()
	var out, errOut bytes.Buffer
	argv := []string{name, "--log-file", "", "--theme", "mono"}
	if baseURL != "" {
		argv = append(argv, "--base-url", baseURL)
	}
	argv = append(argv, args...)
	code := Run(context.Background(), argv, Options{Stdout: &out, Stderr: &errOut})
	return result{code: code, stdout: out.String(), stderr: errOut.String()}
}

func seed() []model.Recipe {
	return []model.Recipe{
		{ID: 1, Name: "Toast", Ingredients: []string{"Bread"}, Instructions: "Toast it."},
		{ID: 2, Name: "Soup", Ingredients: []string{"Water", "Salt"}, Instructions: "Boil."},
	}
}

func methods(srv *apitest.Server) []string {
	var out []string
	for _, r := range srv.Requests() {
		out = append(out, r.Method)
	}
	return out
}

func TestList(t *testing.T) {
	isolate(t)
	srv := apitest.NewServer(t, seed()...)

	res := run(t, srv.URL, "ls")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Total 2")
	assert.Contains(t, res.stdout, "1. Toast (1 ingredient)")
	assert.Contains(t, res.stdout, "2. Soup (2 ingredients)")
	assert.NotContains(t, res.stdout, "1 ingredients")
}

func TestListEmpty(t *testing.T) {
	isolate(t)
	srv := apitest.NewServer(t)

	res := run(t, srv.URL, "ls")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "No recipe yet.")
}

func TestShow(t *testing.T) {
	isolate(t)
	srv := apitest.NewServer(t, seed()...)

	res := run(t, srv.URL, "show", "2")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Soup")
	assert.Contains(t, res.stdout, "- Water")
	assert.Contains(t, res.stdout, "- Salt")
	assert.Contains(t, res.stdout, "Boil.")
}

func TestShowErrors(t *testing.T) {
	isolate(t)
	srv := apitest.NewServer(t, seed()...)

	tests := []struct {
		name string
		args []string
		code int
	}{
		{name: "missing id", args: []string{"show"}, code: 2},
		{name: "not a number", args: []string{"show", "abc"}, code: 2},
		{name: "zero", args: []string{"show", "0"}, code: 2},
		{name: "unknown recipe", args: []string{"show", "99"}, code: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := run(t, srv.URL, tt.args...)
			assert.Equal(t, tt.code, res.code)
			assert.NotEmpty(t, res.stderr)
		})
	}
}

func TestAdd(t *testing.T) {
	isolate(t)
	srv := apitest.NewServer(t)

	res := run(t, srv.URL, "add",
		"--name", " Pancakes ",
		"--ingredient", "Flour",
		"--ingredient", "Milk",
		"--instructions", "Mix and fry.")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, `added "Pancakes"`)

	require.Equal(t, 1, srv.Len())
	got, ok := srv.Recipe(1)
	require.True(t, ok)
	assert.Equal(t, "Pancakes", got.Name)
	assert.Equal(t, []string{"Flour", "Milk"}, got.Ingredients)
}

func TestAddRequiresAllFields(t *testing.T) {
	isolate(t)
	srv := apitest.NewServer(t)

	tests := []struct {
		name string
		args []string
	}{
		{name: "no ingredient", args: []string{"add", "--name", "A", "--instructions", "B"}},
		{name: "blank ingredient", args: []string{"add", "--name", "A", "--ingredient", "x", "--ingredient", " ", "--instructions", "B"}},
		{name: "no name", args: []string{"add", "--ingredient", "x", "--instructions", "B"}},
		{name: "blank instructions", args: []string{"add", "--name", "A", "--ingredient", "x", "--instructions", "  "}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := run(t, srv.URL, tt.args...)
			assert.Equal(t, 2, res.code)
			assert.Contains(t, res.stderr, model.ErrFieldsRequired.Error())
		})
	}
	assert.NotContains(t, methods(srv), http.MethodPost)
	assert.Equal(t, 0, srv.Len())
}

func TestEdit(t *testing.T) {
	isolate(t)
	srv := apitest.NewServer(t, seed()...)

	res := run(t, srv.URL, "edit", "--name", "Buttered toast", "1")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "updated 1")

	got, ok := srv.Recipe(1)
	require.True(t, ok)
	assert.Equal(t, "Buttered toast", got.Name)
	assert.Equal(t, []string{"Bread"}, got.Ingredients)
	assert.Equal(t, "Toast it.", got.Instructions)

	res = run(t, srv.URL, "edit", "--ingredient", "Bread", "--ingredient", " ", "--ingredient", "Butter", "1")
	require.Equal(t, 0, res.code, res.stderr)
	got, _ = srv.Recipe(1)
	assert.Equal(t, []string{"Bread", "Butter"}, got.Ingredients)
}

func TestEditRejectsEmptyIngredients(t *testing.T) {
	isolate(t)
	srv := apitest.NewServer(t, seed()...)

	res := run(t, srv.URL, "edit", "--ingredient", " ", "1")
	assert.Equal(t, 2, res.code)
	assert.Contains(t, res.stderr, model.ErrFieldsRequired.Error())
	assert.NotContains(t, methods(srv), http.MethodPut)
}

func TestRemove(t *testing.T) {
	isolate(t)
	srv := apitest.NewServer(t, seed()...)

	res := run(t, srv.URL, "rm", "1")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, 1, srv.Len())
	_, ok := srv.Recipe(1)
	assert.False(t, ok)

	res = run(t, srv.URL, "rm", "1")
	assert.Equal(t, 1, res.code)
}

func TestServerErrorExitsOne(t *testing.T) {
	isolate(t)
	srv := apitest.NewServer(t, seed()...)
	srv.FailNext(http.MethodGet, http.StatusInternalServerError)

	res := run(t, srv.URL, "ls")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "load:")
}

func TestExportJSON(t *testing.T) {
	isolate(t)
	srv := apitest.NewServer(t, seed()...)
	out := filepath.Join(t.TempDir(), "recipes.json")

	res := run(t, srv.URL, "export", "--out", out)
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "exported 2 recipes")

	b, err := os.ReadFile(out)
	require.NoError(t, err)
	var c model.Collection
	require.NoError(t, json.Unmarshal(b, &c))
	require.Len(t, c.Recipes, 2)
	assert.Equal(t, "Soup", c.Recipes[0].Name)
}

func TestExportXLSX(t *testing.T) {
	isolate(t)
	srv := apitest.NewServer(t, seed()...)
	out := filepath.Join(t.TempDir(), "book.xlsx")

	res := run(t, srv.URL, "export", "--out", out)
	require.Equal(t, 0, res.code, res.stderr)

	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer f.Close()
	v, err := f.GetCellValue("Recipes", "B2")
	require.NoError(t, err)
	assert.Equal(t, "Soup", v)
}

func TestExportStdoutAndFormatErrors(t *testing.T) {
	isolate(t)
	srv := apitest.NewServer(t, seed()...)

	res := run(t, srv.URL, "export", "--out", "-", "--format", "yaml")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "recipe_name: Soup")

	res = run(t, srv.URL, "export", "--out", filepath.Join(t.TempDir(), "recipes.csv"))
	assert.Equal(t, 2, res.code)

	res = run(t, srv.URL, "export", "--out", "-", "--format", "xml")
	assert.Equal(t, 2, res.code)
}

const importPage = `<html><body>
<h1>Pancakes</h1>
<ul class="ingredients"><li>Flour</li><li>Milk</li></ul>
<div class="instructions">Mix and fry.</div>
</body></html>`

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestImport(t *testing.T) {
	isolate(t)
	srv := apitest.NewServer(t)
	good := writeFile(t, "pancakes.html", importPage)
	bad := writeFile(t, "empty.html", "<html><body><h1>Nothing</h1></body></html>")
	missing := filepath.Join(t.TempDir(), "missing.html")

	res := run(t, srv.URL, "import", good, bad, missing)
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stdout, `added "Pancakes"`)
	assert.Contains(t, res.stderr, "2 of 3 sources failed")

	require.Equal(t, 1, srv.Len())
	got, _ := srv.Recipe(1)
	assert.Equal(t, []string{"Flour", "Milk"}, got.Ingredients)
	assert.Equal(t, "Mix and fry.", got.Instructions)
}

func TestImportDryRunAndSelectors(t *testing.T) {
	isolate(t)
	srv := apitest.NewServer(t)
	page := writeFile(t, "custom.html", `<html><body>
<h2 class="t">Salad</h2>
<p class="ing">Lettuce</p><p class="ing">Oil</p>
<section id="how">Toss.</section>
</body></html>`)

	res := run(t, srv.URL, "import", "--dry-run",
		"--name-selector", "h2.t",
		"--ingredient-selector", "p.ing",
		"--instructions-selector", "#how",
		page)
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, `"Salad" (2 ingredients)`)
	assert.Empty(t, srv.Requests())
}

func TestImportRequiresSource(t *testing.T) {
	isolate(t)
	res := run(t, "http://127.0.0.1:1", "import")
	assert.Equal(t, 2, res.code)
}

func TestBaseURLPrecedence(t *testing.T) {
	isolate(t)
	srv := apitest.NewServer(t, seed()...)

	t.Setenv(config.EnvBaseURL, srv.URL)
	res := run(t, "", "ls")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Toast")

	t.Setenv(config.EnvBaseURL, "http://127.0.0.1:1")
	res = run(t, srv.URL, "ls")
	require.Equal(t, 0, res.code, res.stderr)

	cfg := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("base_url: "+srv.URL+"\n"), 0o600))
	t.Setenv(config.EnvBaseURL, "")
	res = run(t, "", "--config", cfg, "ls")
	require.Equal(t, 0, res.code, res.stderr)
}

func TestUsageErrors(t *testing.T) {
	isolate(t)

	tests := []struct {
		name string
		args []string
	}{
		{name: "invalid base url", args: []string{"--base-url", "localhost:5000", "ls"}},
		{name: "unknown flag", args: []string{"--bogus", "ls"}},
		{name: "unknown subcommand", args: []string{"frobnicate"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := run(t, "", tt.args...)
			assert.Equal(t, 2, res.code, res.stderr)
		})
	}
}

func TestMissingConfigFileFails(t *testing.T) {
	isolate(t)
	res := run(t, "", "--config", filepath.Join(t.TempDir(), "nope.yaml"), "ls")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "read config")
}

func TestIngredientKeepsCommas(t *testing.T) {
	isolate(t)
	srv := apitest.NewServer(t, seed()...)

	res := run(t, srv.URL, "add",
		"--name", "Omelette",
		"--ingredient", "2 eggs, beaten",
		"--ingredient", "a,b",
		"--instructions", "Cook.")
	require.Equal(t, 0, res.code, res.stderr)
	got, ok := srv.Recipe(3)
	require.True(t, ok)
	assert.Equal(t, []string{"2 eggs, beaten", "a,b"}, got.Ingredients)

	res = run(t, srv.URL, "edit", "--ingredient", "salt, to taste", "--ingredient", "c", "2")
	require.Equal(t, 0, res.code, res.stderr)
	got, ok = srv.Recipe(2)
	require.True(t, ok)
	assert.Equal(t, []string{"salt, to taste", "c"}, got.Ingredients)
}

func TestConfigureReachesEverySubcommand(t *testing.T) {
	e := &env{opt: Options{Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}}}
	root := e.root()
	require.NotEmpty(t, root.Commands)

	assert.True(t, root.DisableSliceFlagSeparator)
	assert.NotNil(t, root.OnUsageError)
	for _, sub := range root.Commands {
		assert.True(t, sub.DisableSliceFlagSeparator, sub.Name)
		assert.NotNil(t, sub.OnUsageError, sub.Name)
	}
}
