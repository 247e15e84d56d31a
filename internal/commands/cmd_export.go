package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/colonyops/khatt/internal/core/analysis"
	"github.com/colonyops/khatt/internal/core/export"
	"github.com/colonyops/khatt/internal/core/reconstruct"
	"github.com/colonyops/khatt/internal/core/textnorm"
)

type ExportCmd struct {
	flags     *Flags
	strip     bool
	out       string
	clipboard bool

	// interactive reports whether prompts may be shown.
	interactive func() bool
}

// NewExportCmd creates a new export command
func NewExportCmd(flags *Flags) *ExportCmd {
	return &ExportCmd{flags: flags, interactive: attachedToTerminal}
}

// Register adds the export command to the application
func (cmd *ExportCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "export",
		Usage:     "Reconstruct the text of a result and export it",
		UsageText: "khatt export [options] <file>",
		Description: `Reconstructs the reading-order text of an analysis result and writes it
to a file, stdout or the clipboard. Without --out or --clipboard the output
path is prompted for when attached to a terminal, otherwise text goes to stdout.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "strip",
				Usage:       "remove diacritical marks",
				Destination: &cmd.strip,
			},
			&cli.StringFlag{
				Name:        "out",
				Aliases:     []string{"o"},
				Usage:       "output path, - for stdout",
				Destination: &cmd.out,
			},
			&cli.BoolFlag{
				Name:        "clipboard",
				Usage:       "copy the text to the clipboard",
				Destination: &cmd.clipboard,
			},
		},
		ShellComplete: ResultFileCompleter(),
		Action:        cmd.run,
	})
	return app
}

func (cmd *ExportCmd) run(_ context.Context, c *cli.Command) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("expected exactly one input file")
	}

	cfg := cmd.flags.Config
	path := c.Args().First()

	src, err := analysis.Load(path)
	if err != nil {
		return fmt.Errorf("load result: %w", err)
	}

	doc := exportDocument(src, cfg.Editor.LineThreshold, cmd.strip || cfg.Editor.StripDiacritics)

	if cmd.clipboard {
		clip := export.Clipboard{Command: cfg.Export.CopyCommand}
		if err := clip.Copy(doc); err != nil {
			return err
		}
		_, _ = fmt.Fprintln(c.Root().ErrWriter, "copied text to clipboard")
		if cmd.out == "" {
			return nil
		}
	}

	out := cmd.out
	if out == "" {
		out = export.Stdout
		if cmd.interactive() {
			out = export.DefaultPath(cfg.ExportDir(), doc)
			if err := cmd.runForm(&out, &doc); err != nil {
				if errors.Is(err, huh.ErrUserAborted) {
					return nil
				}
				return fmt.Errorf("form: %w", err)
			}
		}
	}

	if out == export.Stdout {
		return export.Write(c.Root().Writer, doc)
	}

	if err := export.WriteFile(out, doc); err != nil {
		return err
	}

	log.Info().Str("source", path).Str("target", out).Bool("strip", doc.Strip).Msg("exported text")
	_, _ = fmt.Fprintf(c.Root().ErrWriter, "exported to %s\n", out)
	return nil
}

func (cmd *ExportCmd) runForm(out *string, doc *export.Document) error {
	fields := []huh.Field{
		huh.NewInput().
			Title("Output path").
			Description("Use - for stdout").
			Validate(validateOutPath).
			Value(out),
	}
	if !doc.Strip && textnorm.HasDiacritics(doc.Raw) {
		fields = append(fields,
			huh.NewConfirm().
				Title("Strip diacritics?").
				Value(&doc.Strip),
		)
	}

	return huh.NewForm(huh.NewGroup(fields...)).
		WithTheme(huh.ThemeCharm()).
		Run()
}

func validateOutPath(s string) error {
	if s == "" {
		return export.ErrEmptyPath
	}
	return nil
}

// exportDocument reconstructs the text of a loaded result.
func exportDocument(src analysis.Document, threshold float64, strip bool) export.Document {
	raw := reconstruct.Reconstruct(src.Result.Words, threshold).Text()
	return export.Document{
		Source:   src.Path,
		Raw:      raw,
		Stripped: textnorm.StripDiacritics(raw),
		Strip:    strip,
	}
}

func attachedToTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}
