package cli

import (
	"github.com/spf13/cobra"

	"outline-cli/internal/store"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change settings in config.toml",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show effective settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(app)
			if err != nil {
				return writeErr(cmd, app, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": cfg.Map(),
				"meta": map[string]any{"databasePath": cfg.DatabasePath()},
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a setting (database_home, export_directory, log_level)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Flag overrides must not leak into the saved file.
			cfg, err := loadFileConfig(app)
			if err != nil {
				return writeErr(cmd, app, err)
			}
			if err := cfg.Set(args[0], args[1]); err != nil {
				return writeErr(cmd, app, err)
			}
			if err := saveConfig(app, cfg); err != nil {
				return writeErr(cmd, app, err)
			}
			app.cfg = nil
			return writeOut(cmd, app, map[string]any{"data": cfg.Map()})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configPath(app)
			if err != nil {
				return writeErr(cmd, app, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"path": path}})
		},
	})
	return cmd
}

func loadFileConfig(app *App) (*store.Config, error) {
	if app.ConfigDir != "" {
		return store.LoadConfigAt(app.ConfigDir)
	}
	return store.LoadConfig()
}

func configPath(app *App) (string, error) {
	if app.ConfigDir != "" {
		return store.ConfigPathAt(app.ConfigDir), nil
	}
	return store.ConfigPath()
}
