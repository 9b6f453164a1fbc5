package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/Makepad-fr/recipes/internal/model"
	"github.com/Makepad-fr/recipes/internal/ui"
)

const listNameWidth = 60

func recipeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "name",
			Aliases: []string{"n"},
			Usage:   "recipe name",
		},
		&cli.StringSliceFlag{
			Name:    "ingredient",
			Aliases: []string{"i"},
			Usage:   "ingredient, repeat for each one in order",
		},
		&cli.StringFlag{
			Name:    "instructions",
			Aliases: []string{"s"},
			Usage:   "preparation steps",
		},
	}
}

func (e *env) lsCmd() *cli.Command {
	return &cli.Command{
		Name:  "ls",
		Usage: "List recipes",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			recipes, err := e.client.List(ctx)
			if err != nil {
				return fmt.Errorf("load: %w", err)
			}
			t := ui.Current()
			lines := []string{
				fmt.Sprintf("%s  %s %d", t.Title.Render("Recipes"), t.Accent.Render("Total"), len(recipes)),
				"",
			}
			lines = append(lines, listLines(recipes)...)
			lines = append(lines, "", t.Muted.Render("Tip: open one with `recipes show <id>`"))
			ui.Panel(e.opt.Stdout, lines)
			return nil
		},
	}
}

func listLines(recipes []model.Recipe) []string {
	t := ui.Current()
	if len(recipes) == 0 {
		return []string{t.Muted.Render("No recipe yet.")}
	}
	out := make([]string, 0, len(recipes))
	for _, r := range recipes {
		out = append(out, fmt.Sprintf("%s %s %s",
			t.Muted.Render(fmt.Sprintf("%3d.", r.ID)),
			ui.Truncate(r.Name, listNameWidth),
			t.Muted.Render("("+ui.Count(len(r.Ingredients), "ingredient")+")")))
	}
	return out
}

func (e *env) showCmd() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Print one recipe",
		ArgsUsage: "<id>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			id, err := recipeID(cmd)
			if err != nil {
				return err
			}
			r, err := e.client.Get(ctx, id)
			if err != nil {
				return fmt.Errorf("show: %w", err)
			}
			ui.Panel(e.opt.Stdout, recipeLines(r))
			return nil
		},
	}
}

func recipeLines(r model.Recipe) []string {
	t := ui.Current()
	lines := []string{t.Title.Render(r.Name), "", t.Label.Render("Ingredients")}
	for _, ing := range r.Ingredients {
		lines = append(lines, fmt.Sprintf("%s %s", t.SymBullet, ing))
	}
	lines = append(lines, "", t.Label.Render("Instructions"), r.Instructions)
	if !r.CreatedAt.IsZero() {
		lines = append(lines, "", t.Muted.Render("Created "+r.CreatedAt.Format("2006-01-02 15:04")))
	}
	return lines
}

func (e *env) addCmd() *cli.Command {
	return &cli.Command{
		Name:  "add",
		Usage: "Create a recipe",
		Flags: recipeFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			d := model.Draft{
				Name:         cmd.String("name"),
				Ingredients:  cmd.StringSlice("ingredient"),
				Instructions: cmd.String("instructions"),
			}
			if len(d.Ingredients) == 0 {
				d.Ingredients = []string{""}
			}
			if err := d.Validate(); err != nil {
				return usageError{msg: "add: " + err.Error()}
			}
			r, err := e.client.Create(ctx, d.Input())
			if err != nil {
				return fmt.Errorf("add: %w", err)
			}
			ui.OK(e.opt.Stdout, fmt.Sprintf("added %q (id %d)", r.Name, r.ID))
			return nil
		},
	}
}

func (e *env) editCmd() *cli.Command {
	return &cli.Command{
		Name:      "edit",
		Usage:     "Update a recipe; omitted fields keep their value",
		ArgsUsage: "<id>",
		Flags:     recipeFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			id, err := recipeID(cmd)
			if err != nil {
				return err
			}
			r, err := e.client.Get(ctx, id)
			if err != nil {
				return fmt.Errorf("edit: %w", err)
			}
			d := model.DraftFrom(r)
			if cmd.IsSet("name") {
				d.Name = cmd.String("name")
			}
			if cmd.IsSet("ingredient") {
				d.Ingredients = cmd.StringSlice("ingredient")
			}
			if cmd.IsSet("instructions") {
				d.Instructions = cmd.String("instructions")
			}
			d = d.Compact()
			if err := d.Validate(); err != nil {
				return usageError{msg: "edit: " + err.Error()}
			}
			if err := e.client.Update(ctx, id, d.Input()); err != nil {
				return fmt.Errorf("edit: %w", err)
			}
			ui.OK(e.opt.Stdout, fmt.Sprintf("updated %d", id))
			return nil
		},
	}
}

func (e *env) rmCmd() *cli.Command {
	return &cli.Command{
		Name:      "rm",
		Usage:     "Delete a recipe",
		ArgsUsage: "<id>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			id, err := recipeID(cmd)
			if err != nil {
				return err
			}
			if err := e.client.Delete(ctx, id); err != nil {
				return fmt.Errorf("rm: %w", err)
			}
			ui.OK(e.opt.Stdout, fmt.Sprintf("removed %d", id))
			return nil
		},
	}
}
