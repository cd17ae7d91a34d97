package cli

import (
	"strings"

	"outline-cli/internal/model"

	"github.com/spf13/cobra"
)

func newProjectsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "projects",
		Aliases: []string{"project"},
		Short:   "Project commands",
	}
	cmd.AddCommand(newProjectsCreateCmd(app))
	cmd.AddCommand(newProjectsListCmd(app))
	cmd.AddCommand(newProjectsRenameCmd(app))
	cmd.AddCommand(newProjectsDeleteCmd(app))
	cmd.AddCommand(newProjectsUseCmd(app))
	cmd.AddCommand(newProjectsCurrentCmd(app))
	return cmd
}

func newProjectsCreateCmd(app *App) *cobra.Command {
	var use bool

	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a project",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, app, err)
			}
			defer s.Close()

			p, err := s.CreateProject(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return writeErr(cmd, app, err)
			}
			logger(app).Info().Int64("project", p.ID).Str("name", p.Name).Msg("project created")
			if use {
				if err := setActiveProject(app, p); err != nil {
					return writeErr(cmd, app, err)
				}
			}
			return writeOut(cmd, app, map[string]any{
				"data":   p,
				"_hints": []string{"outline projects use " + quoteArg(p.Name)},
			})
		},
	}

	cmd.Flags().BoolVar(&use, "use", false, "Make the new project active")
	return cmd
}

func newProjectsListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects (most recently updated first)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, app, err)
			}
			defer s.Close()

			ps, err := s.ListProjects(cmd.Context())
			if err != nil {
				return writeErr(cmd, app, err)
			}
			st, err := loadSession(app)
			if err != nil {
				return writeErr(cmd, app, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": ps,
				"meta": map[string]any{"count": len(ps), "activeProjectId": st.ProjectID},
			})
		},
	}
	return cmd
}

func newProjectsRenameCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rename PROJECT NEW_NAME",
		Short: "Rename a project (by id or name)",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, app, err)
			}
			defer s.Close()

			p, err := lookupProject(cmd.Context(), s, args[0])
			if err != nil {
				return writeErr(cmd, app, err)
			}
			p, err = s.RenameProject(cmd.Context(), p.ID, strings.Join(args[1:], " "))
			if err != nil {
				return writeErr(cmd, app, err)
			}
			st, err := loadSession(app)
			if err == nil && st.ProjectID == p.ID {
				_ = setActiveProject(app, p)
			}
			return writeOut(cmd, app, map[string]any{"data": p})
		},
	}
	return cmd
}

func newProjectsDeleteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete PROJECT",
		Short: "Delete a project and everything in it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, app, err)
			}
			defer s.Close()

			p, err := lookupProject(cmd.Context(), s, args[0])
			if err != nil {
				return writeErr(cmd, app, err)
			}
			if err := s.DeleteProject(cmd.Context(), p.ID); err != nil {
				return writeErr(cmd, app, err)
			}
			logger(app).Info().Int64("project", p.ID).Msg("project deleted")

			st, err := loadSession(app)
			if err != nil {
				return writeErr(cmd, app, err)
			}
			cleared := false
			if st.ProjectID == p.ID {
				st.Clear()
				if err := saveSession(app, st); err != nil {
					return writeErr(cmd, app, err)
				}
				cleared = true
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"deleted": p.ID, "sessionCleared": cleared},
			})
		},
	}
	return cmd
}

func newProjectsUseCmd(app *App) *cobra.Command {
	var clear bool

	cmd := &cobra.Command{
		Use:   "use [PROJECT]",
		Short: "Set (or clear) the active project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if clear {
				st, err := loadSession(app)
				if err != nil {
					return writeErr(cmd, app, err)
				}
				st.Clear()
				if err := saveSession(app, st); err != nil {
					return writeErr(cmd, app, err)
				}
				return writeOut(cmd, app, map[string]any{"data": st})
			}
			if len(args) == 0 {
				return writeErr(cmd, app, errNoActiveProject)
			}

			s, err := openStore(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, app, err)
			}
			defer s.Close()

			p, err := lookupProject(cmd.Context(), s, args[0])
			if err != nil {
				return writeErr(cmd, app, err)
			}
			if err := setActiveProject(app, p); err != nil {
				return writeErr(cmd, app, err)
			}
			return writeOut(cmd, app, map[string]any{"data": p})
		},
	}

	cmd.Flags().BoolVar(&clear, "clear", false, "Clear the active project")
	return cmd
}

func newProjectsCurrentCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "current",
		Short: "Show the active project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, app, err)
			}
			defer s.Close()

			p, err := resolveProject(cmd.Context(), app, s, "")
			if err != nil {
				return writeErr(cmd, app, err)
			}
			return writeOut(cmd, app, map[string]any{"data": p})
		},
	}
	return cmd
}

func setActiveProject(app *App, p model.Project) error {
	st, err := loadSession(app)
	if err != nil {
		return err
	}
	st.ProjectID = p.ID
	st.ProjectName = p.Name
	return saveSession(app, st)
}

func quoteArg(s string) string {
	if strings.ContainsAny(s, " \t\"'") {
		return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
	}
	return s
}
