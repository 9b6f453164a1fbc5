package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/Makepad-fr/recipes/internal/defaults"
	"github.com/Makepad-fr/recipes/internal/export"
	"github.com/Makepad-fr/recipes/internal/model"
	"github.com/Makepad-fr/recipes/internal/scrape"
	"github.com/Makepad-fr/recipes/internal/ui"
)

func (e *env) exportCmd() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Write every recipe to a JSON, YAML or XLSX file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "out",
				Aliases:  []string{"o"},
				Usage:    `output path ("-" for stdout)`,
				Required: true,
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "json, yaml or xlsx (default: from the --out extension)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			out := cmd.String("out")
			format, err := exportFormat(out, cmd.String("format"))
			if err != nil {
				return usageError{msg: "export: " + err.Error()}
			}

			recipes, err := e.client.List(ctx)
			if err != nil {
				return fmt.Errorf("load: %w", err)
			}
			if err := writeOut(out, e.opt.Stdout, func(w io.Writer) error {
				return export.Write(w, recipes, format)
			}); err != nil {
				return fmt.Errorf("export: %w", err)
			}
			if out != "-" {
				ui.OK(e.opt.Stdout, fmt.Sprintf("exported %s to %s", ui.Count(len(recipes), "recipe"), out))
			}
			return nil
		},
	}
}

func exportFormat(out, explicit string) (export.Format, error) {
	if explicit != "" {
		return export.ParseFormat(explicit)
	}
	if out == "-" {
		return export.FormatJSON, nil
	}
	return export.FormatFromPath(out)
}

// writeOut runs fn against stdout for "-" or a freshly created file.
func writeOut(path string, stdout io.Writer, fn func(io.Writer) error) error {
	if path == "-" {
		return fn(stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(f)
	if err := fn(bw); err != nil {
		f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (e *env) importCmd() *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Create recipes from HTML pages or local files",
		ArgsUsage: "SOURCE...",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "name-selector",
				Value: scrape.DefaultNameSelector,
				Usage: "CSS selector for the recipe name",
			},
			&cli.StringFlag{
				Name:  "ingredient-selector",
				Value: scrape.DefaultIngredientSelector,
				Usage: "CSS selector matching each ingredient",
			},
			&cli.StringFlag{
				Name:  "instructions-selector",
				Value: scrape.DefaultInstructionsSelector,
				Usage: "CSS selector for the instructions",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "extract and validate without creating anything",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			sources := cmd.Args().Slice()
			if len(sources) == 0 {
				return usagef("usage: %s import SOURCE...", name)
			}
			sel := scrape.Selectors{
				Name:         cmd.String("name-selector"),
				Ingredient:   cmd.String("ingredient-selector"),
				Instructions: cmd.String("instructions-selector"),
			}

			drafts := fetchDrafts(ctx, sources, sel)

			failed := 0
			for i, src := range sources {
				res := drafts[i]
				if res.err == nil {
					res.err = res.draft.Validate()
				}
				if res.err != nil {
					failed++
					ui.Fail(e.opt.Stderr, fmt.Sprintf("%s: %v", src, res.err))
					continue
				}
				if cmd.Bool("dry-run") {
					ui.OK(e.opt.Stdout, fmt.Sprintf("%s: %q (%s)", src, res.draft.Name, ui.Count(len(res.draft.Ingredients), "ingredient")))
					continue
				}
				r, err := e.client.Create(ctx, res.draft.Input())
				if err != nil {
					failed++
					ui.Fail(e.opt.Stderr, fmt.Sprintf("%s: %v", src, err))
					continue
				}
				ui.OK(e.opt.Stdout, fmt.Sprintf("%s: added %q (id %d)", src, r.Name, r.ID))
			}
			if failed > 0 {
				return fmt.Errorf("import: %d of %d sources failed", failed, len(sources))
			}
			return nil
		},
	}
}

type extracted struct {
	draft model.Draft
	err   error
}

// fetchDrafts fetches and parses sources in parallel. Results keep the
// order of sources; one failing source does not stop the others.
func fetchDrafts(ctx context.Context, sources []string, sel scrape.Selectors) []extracted {
	client := &http.Client{Timeout: defaults.ImportFetchTimeout}
	out := make([]extracted, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(defaults.ImportConcurrency)
	for i, src := range sources {
		g.Go(func() error {
			d, err := extract(gctx, client, src, sel)
			if err != nil {
				slog.Warn("import source failed", "source", src, "error", err)
			}
			out[i] = extracted{draft: d, err: err}
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func extract(ctx context.Context, client *http.Client, src string, sel scrape.Selectors) (model.Draft, error) {
	rc, err := scrape.Fetch(ctx, client, src)
	if err != nil {
		return model.Draft{}, err
	}
	defer rc.Close()
	return scrape.Extract(rc, sel)
}
