package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/urfave/cli/v3"
)

// resultPatterns are the files offered for positional completion.
var resultPatterns = []string{"**/*.json", "**/*.hocr"}

// ResultFileCompleter returns a ShellCompleteFunc that suggests result files
// below the working directory as positional completions.
//
// When the user's last typed argument starts with "-", it falls back to the
// default flag completion behavior.
func ResultFileCompleter() cli.ShellCompleteFunc {
	return func(ctx context.Context, cmd *cli.Command) {
		if args := cmd.Args(); args.Present() {
			last := args.Slice()[args.Len()-1]
			if len(last) > 0 && last[0] == '-' {
				cli.DefaultCompleteWithFlags(ctx, cmd)
				return
			}
		}

		w := cmd.Root().Writer
		fsys := os.DirFS(".")
		for _, pattern := range resultPatterns {
			matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
			if err != nil {
				continue
			}
			for _, m := range matches {
				_, _ = fmt.Fprintln(w, m)
			}
		}
	}
}
