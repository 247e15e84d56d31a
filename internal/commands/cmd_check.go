package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/khatt/internal/core/analysis"
	"github.com/colonyops/khatt/internal/core/reconstruct"
	"github.com/colonyops/khatt/internal/core/styles"
	"github.com/colonyops/khatt/pkg/iojson"
)

type CheckCmd struct {
	flags  *Flags
	format string
}

// NewCheckCmd creates a new check command
func NewCheckCmd(flags *Flags) *CheckCmd {
	return &CheckCmd{flags: flags}
}

// Register adds the check command to the application
func (cmd *CheckCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "check",
		Usage:       "Validate analysis result files",
		UsageText:   "khatt check [options] <files or patterns...>",
		Description: "Decodes each result and reports word and line counts, empty results and words with unusable geometry.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "format",
				Usage:       "output format (text, json, jsonl)",
				Value:       "text",
				Destination: &cmd.format,
			},
		},
		ShellComplete: ResultFileCompleter(),
		Action:        cmd.run,
	})
	return app
}

// fileReport is the check outcome for one input file.
type fileReport struct {
	Path   string           `json:"path"`
	Words  int              `json:"words"`
	Lines  int              `json:"lines"`
	Image  string           `json:"image,omitempty"`
	Issues []analysis.Issue `json:"issues,omitempty"`
	Error  string           `json:"error,omitempty"`
}

func (r fileReport) failed() bool {
	return r.Error != ""
}

func (cmd *CheckCmd) run(_ context.Context, c *cli.Command) error {
	if c.Args().Len() == 0 {
		return fmt.Errorf("expected at least one file or pattern")
	}

	paths, err := analysis.Discover(c.Args().Slice())
	if err != nil {
		return err
	}

	reports := make([]fileReport, 0, len(paths))
	for _, p := range paths {
		reports = append(reports, checkFile(p, cmd.flags.Config.Editor.LineThreshold))
	}

	failed := 0
	for _, r := range reports {
		if r.failed() {
			failed++
		}
	}

	switch cmd.format {
	case "jsonl":
		for _, r := range reports {
			if err := iojson.WriteLine(c.Root().Writer, r); err != nil {
				return err
			}
		}
	case "json":
		out := struct {
			Valid bool         `json:"valid"`
			Files []fileReport `json:"files"`
		}{
			Valid: failed == 0,
			Files: reports,
		}
		if err := iojson.WriteWith(c.Root().Writer, c.Root().ErrWriter, out); err != nil {
			return err
		}
	default:
		writeCheckText(c.Root().Writer, reports, failed)
	}

	if failed > 0 {
		return cli.Exit("", 1)
	}
	return nil
}

func checkFile(path string, threshold float64) fileReport {
	report := fileReport{Path: path}

	doc, err := analysis.Load(path)
	if err != nil {
		report.Error = err.Error()
		return report
	}

	report.Image = doc.ImagePath
	report.Words = len(doc.Result.Words)
	report.Lines = len(reconstruct.Lines(doc.Result.Words, threshold))

	// ErrNoWords is the only failure; geometry issues are warnings.
	issues, err := doc.Result.Check()
	if err != nil {
		report.Error = err.Error()
	}
	report.Issues = issues
	return report
}

func writeCheckText(w io.Writer, reports []fileReport, failed int) {
	for _, r := range reports {
		switch {
		case r.failed():
			_, _ = fmt.Fprintf(w, "%s %s %s\n", styles.FailStyle.Render("✘"), r.Path, styles.DividerStyle.Render(r.Error))
			continue
		case len(r.Issues) > 0:
			_, _ = fmt.Fprintf(w, "%s %s", styles.WarnStyle.Render("●"), r.Path)
		default:
			_, _ = fmt.Fprintf(w, "%s %s", styles.PassStyle.Render("✔"), r.Path)
		}
		_, _ = fmt.Fprintf(w, " %s\n", styles.DividerStyle.Render(fmt.Sprintf("%d words, %d lines", r.Words, r.Lines)))

		for _, issue := range r.Issues {
			_, _ = fmt.Fprintf(w, "    %q: %s\n", issue.Text, issue.Message)
		}
	}

	_, _ = fmt.Fprintln(w, styles.DividerStyle.Render(strings.Repeat("─", 40)))
	_, _ = fmt.Fprintf(w, "%s  %s\n",
		styles.PassStyle.Render(fmt.Sprintf("%d ok", len(reports)-failed)),
		styles.FailStyle.Render(fmt.Sprintf("%d failed", failed)),
	)
}
