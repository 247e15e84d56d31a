package commands

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/khatt/internal/core/analysis"
	"github.com/colonyops/khatt/pkg/iojson"
)

type ImportHOCRCmd struct {
	flags   *Flags
	reader  iojson.FileReader[analysis.HOCRPage]
	out     string
	keepIDs bool
}

// NewImportHOCRCmd creates a new import-hocr command
func NewImportHOCRCmd(flags *Flags) *ImportHOCRCmd {
	return &ImportHOCRCmd{
		flags:  flags,
		reader: iojson.FileReader[analysis.HOCRPage]{Decode: analysis.ParseHOCR},
	}
}

// Register adds the import-hocr command to the application
func (cmd *ImportHOCRCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "import-hocr",
		Usage:     "Convert an hOCR page into an analysis result",
		UsageText: "khatt import-hocr [options] [file.hocr]",
		Description: `Reads the first ocr_page of an hOCR document, from a file or stdin, and
writes the equivalent JSON analysis result. Word boxes are normalized by the
page bounding box.`,
		Flags: []cli.Flag{
			cmd.reader.Flag(),
			&cli.StringFlag{
				Name:        "out",
				Aliases:     []string{"o"},
				Usage:       "output path (defaults to stdout)",
				Destination: &cmd.out,
			},
			&cli.BoolFlag{
				Name:        "keep-ids",
				Usage:       "include the generated word IDs in the output",
				Destination: &cmd.keepIDs,
			},
		},
		Action: cmd.run,
	})
	return app
}

// importedResult is the wrapper file form, naming the page image.
type importedResult struct {
	Image  string          `json:"image,omitempty"`
	Result analysis.Result `json:"result"`
}

func (cmd *ImportHOCRCmd) run(_ context.Context, c *cli.Command) error {
	if cmd.reader.Path() == "" && c.Args().Len() > 0 {
		cmd.reader.SetPath(c.Args().First())
	}

	page, err := cmd.reader.Read()
	if err != nil {
		return err
	}

	if !cmd.keepIDs {
		for i := range page.Result.Words {
			page.Result.Words[i].ID = ""
		}
	}

	out := importedResult{Image: page.Image, Result: page.Result}

	if cmd.out == "" {
		return iojson.WriteWith(c.Root().Writer, c.Root().ErrWriter, out)
	}

	var buf bytes.Buffer
	if err := iojson.WriteWith(&buf, c.Root().ErrWriter, out); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(cmd.out), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(cmd.out, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", cmd.out, err)
	}

	log.Info().
		Str("source", cmd.reader.Path()).
		Str("target", cmd.out).
		Int("words", len(page.Result.Words)).
		Msg("imported hocr")
	_, _ = fmt.Fprintf(c.Root().ErrWriter, "imported %d words to %s\n", len(page.Result.Words), cmd.out)
	return nil
}
