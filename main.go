package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime/debug"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/khatt/internal/commands"
	"github.com/colonyops/khatt/internal/core/config"
	"github.com/colonyops/khatt/internal/core/logging"
	"github.com/colonyops/khatt/internal/core/styles"
	"github.com/colonyops/khatt/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, init() populates
	// these from runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date

	// When installed via `go install module@version`, ldflags aren't set
	// so version remains "dev". Fall back to runtime/debug.BuildInfo which
	// Go populates automatically with the module version and VCS metadata.
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

func main() {
	ctx := context.Background()

	// A missing .env is normal; anything else is worth a note once logging is up.
	envErr := godotenv.Load()
	if errors.Is(envErr, fs.ErrNotExist) {
		envErr = nil
	}

	var logCloser func()

	flags := &commands.Flags{}

	app := &cli.Command{
		Name:      "khatt",
		Usage:     "Inspect and correct word-level text recognition results",
		UsageText: "khatt [global options] [command [command options]] [files...]",
		Description: `khatt opens analysis results (an image plus the words recognized on it)
in a pan/zoom image viewer next to an editable reconstruction of the text.
Hovering a word highlights it on the image; edits are kept in an undo history
and the text can be exported with or without diacritical marks.

Run 'khatt <files>' to open results interactively.
Run 'khatt export <file>' to write the reconstructed text without the UI.`,
		Version:               build(),
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("KHATT_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to <data-dir>/khatt.log)",
				Sources:     cli.EnvVars("KHATT_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("KHATT_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("KHATT_DATA_DIR"),
				Value:       commands.DefaultDataDir(),
				Destination: &flags.DataDir,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			cfg, err := config.Load(flags.ConfigPath, flags.DataDir)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}
			flags.Config = cfg

			// Always log to a file; use explicit path or default to <datadir>/khatt.log
			logFile := flags.LogFile
			if logFile == "" {
				logFile = cfg.LogFile()
			}

			logger, closer, err := logutils.New(flags.LogLevel, logFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger.Hook(logging.ContextHook{})
			logCloser = closer

			if envErr != nil {
				log.Warn().Err(envErr).Msg("failed to load .env file")
			}

			styles.SetTheme(cfg.Palette())

			log.Debug().
				Str("version", version).
				Str("config", flags.ConfigPath).
				Str("data_dir", cfg.DataDir).
				Msg("starting")

			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	openCmd := commands.NewOpenCmd(flags)

	app = openCmd.Register(app)
	app = commands.NewExportCmd(flags).Register(app)
	app = commands.NewImportHOCRCmd(flags).Register(app)
	app = commands.NewCheckCmd(flags).Register(app)
	app = commands.NewDoctorCmd(flags).Register(app)
	app = commands.NewConfigValidateCmd(flags).Register(app)

	// Register open flags on root command
	app.Flags = append(app.Flags, openCmd.Flags()...)

	// Opening files is the default action when no subcommand is provided
	app.Action = openCmd.Run
	app.ShellComplete = commands.ResultFileCompleter()

	exitCode := 0
	runErr := app.Run(ctx, os.Args)
	if runErr != nil {
		fmt.Println()
		fmt.Println(runErr.Error())
		exitCode = 1
	}

	os.Exit(exitCode)
}
