package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/colonyops/khatt/internal/core/analysis"
	"github.com/colonyops/khatt/internal/tui"
)

// ErrNoInputs is returned when no result files were given or matched.
var ErrNoInputs = errors.New("no result files to open")

type OpenCmd struct {
	flags *Flags
	watch bool
}

// NewOpenCmd creates a new open command
func NewOpenCmd(flags *Flags) *OpenCmd {
	return &OpenCmd{flags: flags}
}

// Flags returns the open flags for registration on the root command
func (cmd *OpenCmd) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:        "watch",
			Aliases:     []string{"w"},
			Usage:       "reload results when their files change",
			Sources:     cli.EnvVars("KHATT_WATCH"),
			Destination: &cmd.watch,
		},
	}
}

// Register adds the open command to the application
func (cmd *OpenCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "open",
		Usage:     "Inspect and correct results interactively",
		UsageText: "khatt open [options] <files or patterns...>",
		Description: `Opens each analysis result (JSON or hOCR) with its image in the
interactive viewer and editor. Patterns such as 'scans/**/*.json' are expanded.`,
		Flags:         cmd.Flags(),
		ShellComplete: ResultFileCompleter(),
		Action:        cmd.Run,
	})
	return app
}

// Run executes the interactive session. Exported for use as default command.
func (cmd *OpenCmd) Run(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() == 0 {
		return fmt.Errorf("%w. Run 'khatt --help' for usage", ErrNoInputs)
	}

	paths, err := analysis.Discover(c.Args().Slice())
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("%w: nothing matched %s", ErrNoInputs, strings.Join(c.Args().Slice(), " "))
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("open needs a terminal; use 'khatt export' for scripted output")
	}

	cfg := cmd.flags.Config

	var warnings []string
	for _, w := range cfg.Warnings() {
		warnings = append(warnings, fmt.Sprintf("%s: %s", w.Item, w.Message))
	}

	log.Info().
		Int("files", len(paths)).
		Bool("watch", cmd.watch).
		Msg("starting interactive session")

	m := tui.New(cfg, tui.Options{
		Paths:    paths,
		Watch:    cmd.watch,
		Warnings: warnings,
	})
	if _, err := tea.NewProgram(m, tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
