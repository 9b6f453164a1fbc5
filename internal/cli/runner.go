package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/Makepad-fr/recipes/internal/api"
	"github.com/Makepad-fr/recipes/internal/config"
	"github.com/Makepad-fr/recipes/internal/logging"
	"github.com/Makepad-fr/recipes/internal/tui"
	"github.com/Makepad-fr/recipes/internal/ui"
)

const name = "recipes"

var (
	// overridden during build with ldflags
	version = "dev"
	commit  = "unknown"
)

// Options route command output; nil writers mean the process streams.
type Options struct {
	Stdout io.Writer
	Stderr io.Writer
}

// usageError marks a bad invocation. Run maps it to exit code 2.
type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

func usagef(format string, a ...any) error {
	return usageError{msg: fmt.Sprintf(format, a...)}
}

// env is the per-invocation state the Before hook fills in for subcommands.
type env struct {
	opt     Options
	cfg     config.Config
	client  *api.Client
	closeFn func() error
}

// Run executes the command line and returns an exit code (0 ok, 1 error, 2 usage).
func Run(ctx context.Context, args []string, opt Options) int {
	if opt.Stdout == nil {
		opt.Stdout = os.Stdout
	}
	if opt.Stderr == nil {
		opt.Stderr = os.Stderr
	}

	e := &env{opt: opt}
	defer func() {
		if e.closeFn != nil {
			_ = e.closeFn()
		}
	}()

	err := e.root().Run(ctx, args)
	if err == nil {
		return 0
	}
	ui.Fail(opt.Stderr, err.Error())
	var ue usageError
	if errors.As(err, &ue) {
		return 2
	}
	return 1
}

func (e *env) root() *cli.Command {
	root := &cli.Command{
		Name:      name,
		Usage:     "manage recipes against a REST API",
		Version:   fmt.Sprintf("%s (%s)", version, commit),
		Writer:    e.opt.Stdout,
		ErrWriter: e.opt.Stderr,
		Description: `Without a subcommand, recipes opens the interactive browser.

Examples:
  recipes --base-url http://localhost:5000
  recipes add --name Toast --ingredient Bread --ingredient Butter --instructions "Toast it."
  recipes export --out recipes.xlsx
  recipes import https://example.com/pancakes.html`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "base-url",
				Usage: fmt.Sprintf("REST API root (env %s)", config.EnvBaseURL),
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "config file (default is $HOME/.recipes/config.yaml)",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "log level (debug, info, warn, error)",
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: `log destination ("-" for stderr, "" to discard)`,
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "per-request timeout",
			},
			&cli.FloatFlag{
				Name:  "rate-limit",
				Usage: "max requests per second, 0 disables",
			},
			&cli.StringFlag{
				Name:  "theme",
				Value: "classic",
				Usage: fmt.Sprintf("color theme (%s)", strings.Join(ui.ThemeNames(), ", ")),
			},
		},
		Before: e.before,
		Action: e.browse,
		Commands: []*cli.Command{
			e.lsCmd(),
			e.showCmd(),
			e.addCmd(),
			e.editCmd(),
			e.rmCmd(),
			e.exportCmd(),
			e.importCmd(),
		},
	}
	configure(root)
	return root
}

// configure applies parsing settings to cmd and every subcommand, since
// urfave/cli reads them from the command that parses the flag.
func configure(cmd *cli.Command) {
	cmd.OnUsageError = func(_ context.Context, _ *cli.Command, err error, _ bool) error {
		return usageError{msg: err.Error()}
	}
	// ingredients routinely contain commas
	cmd.DisableSliceFlagSeparator = true
	for _, sub := range cmd.Commands {
		configure(sub)
	}
}

// before resolves config (flag > env > file > default), then logging and the client.
func (e *env) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return ctx, err
	}
	cfg.ApplyEnv()
	if cmd.IsSet("base-url") {
		cfg.BaseURL = cmd.String("base-url")
	}
	if cmd.IsSet("log-level") {
		cfg.LogLevel = cmd.String("log-level")
	}
	if cmd.IsSet("log-file") {
		cfg.LogFile = cmd.String("log-file")
	}
	if cmd.IsSet("timeout") {
		cfg.Timeout = cmd.Duration("timeout")
	}
	if cmd.IsSet("rate-limit") {
		cfg.RateLimit = cmd.Float("rate-limit")
	}
	if err := cfg.Validate(); err != nil {
		return ctx, usageError{msg: err.Error()}
	}

	closeFn, err := logging.SetDefault(cfg.LogFile, name, version, cfg.LogLevel)
	if err != nil {
		return ctx, err
	}
	e.closeFn = closeFn
	ui.SetTheme(cmd.String("theme"))

	e.cfg = cfg
	e.client = api.NewClient(cfg.BaseURL,
		api.WithTimeout(cfg.Timeout),
		api.WithRateLimit(cfg.RateLimit, 1),
		api.WithUserAgent(fmt.Sprintf("%s/%s", name, version)),
	)
	slog.Debug("starting",
		"name", name,
		"version", version,
		"commit", commit,
		"baseURL", cfg.BaseURL)
	return ctx, nil
}

func (e *env) browse(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Present() {
		return usagef("unknown subcommand: %s", cmd.Args().First())
	}
	return tui.Run(ctx, e.client,
		tui.WithBaseURL(e.cfg.BaseURL),
		tui.WithRequestTimeout(e.cfg.Timeout),
	)
}

// recipeID reads the single positional id argument.
func recipeID(cmd *cli.Command) (int, error) {
	if cmd.Args().Len() != 1 {
		return 0, usagef("usage: %s %s <id>", name, cmd.Name)
	}
	a := cmd.Args().First()
	id, err := strconv.Atoi(a)
	if err != nil || id < 1 {
		return 0, usagef("%s: not a recipe id: %s", cmd.Name, a)
	}
	return id, nil
}
