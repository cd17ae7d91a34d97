package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"outline-cli/internal/format"
	"outline-cli/internal/logging"
	"outline-cli/internal/store"
	"outline-cli/internal/tui"

	"github.com/spf13/cobra"
)

type App struct {
	ConfigDir  string
	DBHome     string
	PrettyJSON bool
	Format     string
	LogLevel   string

	cfg *store.Config
	log *logging.Log
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "outline",
		Short:        "Hierarchical sentence outliner (CLI + TUI)",
		SilenceUsage: true,
		// Commands print their own errors via writeErr.
		SilenceErrors: true,
		Example: strings.TrimSpace(`
  # Start the interactive editor
  outline

  # Scriptable commands
  outline projects create Thesis --use
  outline headings set Intro
  outline sentences add --heading a "Opening line."
  outline outline --format text

  # Show sentence 7 (shortcut for: outline sentences show 7)
  outline 7
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if !format.Valid(app.Format) {
			return writeErr(cmd, app, fmt.Errorf("unknown format: %s (expected json|edn|text)", app.Format))
		}
		return nil
	}

	cmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		if app.log != nil {
			_ = app.log.Close()
		}
	}

	cmd.PersistentFlags().StringVar(&app.ConfigDir, "config-dir", envOr("OUTLINE_CONFIG_DIR", ""), "Config directory (default ~/.outline)")
	cmd.PersistentFlags().StringVar(&app.DBHome, "db", envOr("OUTLINE_DB_HOME", ""), "Database home directory (overrides database_home from config)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON/EDN output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("OUTLINE_FORMAT", "json"), "Output format (json|edn|text)")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", envOr("OUTLINE_LOG_LEVEL", ""), "Log level (debug|info|warn|error|disabled)")

	cmd.AddCommand(newProjectsCmd(app))
	cmd.AddCommand(newHeadingsCmd(app))
	cmd.AddCommand(newSubheadingsCmd(app))
	cmd.AddCommand(newSentencesCmd(app))
	cmd.AddCommand(newOutlineCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newConfigCmd(app))
	cmd.AddCommand(newDoctorCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

func runTUI(cmd *cobra.Command, app *App) error {
	s, err := openStore(cmd.Context(), app)
	if err != nil {
		return writeErr(cmd, app, err)
	}
	defer s.Close()
	cfg, err := loadConfig(app)
	if err != nil {
		return writeErr(cmd, app, err)
	}
	lg := logger(app)
	lg.Info().Str("db", s.Path()).Msg("tui start")
	return tui.Run(cmd.Context(), tui.Options{
		Store:     s,
		Home:      cfg.DatabaseHome,
		ExportDir: cfg.ExportDirectory,
		Log:       lg,
	})
}

func loadConfig(app *App) (*store.Config, error) {
	if app.cfg != nil {
		return app.cfg, nil
	}
	var (
		cfg *store.Config
		err error
	)
	if strings.TrimSpace(app.ConfigDir) != "" {
		cfg, err = store.LoadConfigAt(app.ConfigDir)
	} else {
		cfg, err = store.LoadConfig()
	}
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(app.DBHome) != "" {
		cfg.DatabaseHome = app.DBHome
	}
	if strings.TrimSpace(app.LogLevel) != "" {
		cfg.LogLevel = app.LogLevel
	}
	app.cfg = cfg
	return cfg, nil
}

func saveConfig(app *App, cfg *store.Config) error {
	if strings.TrimSpace(app.ConfigDir) != "" {
		return store.SaveConfigAt(app.ConfigDir, cfg)
	}
	return store.SaveConfig(cfg)
}

// logger returns the run's file logger, opening it on first use. Logging
// failures never fail a command.
func logger(app *App) *logging.Log {
	if app.log != nil {
		return app.log
	}
	cfg, err := loadConfig(app)
	if err != nil {
		app.log = logging.Nop()
		return app.log
	}
	lg, err := logging.New().FromDir(cfg.DatabaseHome).Level(cfg.LogLevel).With("component", "cli").Make()
	if err != nil {
		lg = logging.Nop()
	}
	app.log = lg
	return lg
}

func openStore(ctx context.Context, app *App) (*store.Store, error) {
	cfg, err := loadConfig(app)
	if err != nil {
		return nil, err
	}
	s, err := store.Open(ctx, cfg.DatabasePath())
	if err != nil {
		logger(app).Error().Err(err).Str("db", cfg.DatabasePath()).Msg("open store")
		return nil, err
	}
	return s, nil
}

func loadSession(app *App) (*store.Session, error) {
	cfg, err := loadConfig(app)
	if err != nil {
		return nil, err
	}
	return store.LoadSession(cfg.DatabaseHome)
}

func saveSession(app *App, st *store.Session) error {
	cfg, err := loadConfig(app)
	if err != nil {
		return err
	}
	return store.SaveSession(cfg.DatabaseHome, st)
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, app *App, err error) error {
	if err == nil {
		return nil
	}
	ev := logger(app).Warn()
	if errors.Is(err, store.ErrPersistence) {
		ev = logger(app).Error()
	}
	ev.Err(err).Str("cmd", cmd.CommandPath()).Int("exit", ExitCode(err)).Msg("command failed")
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
