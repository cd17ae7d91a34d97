package cli

import (
	"strings"

	"outline-cli/internal/model"
	"outline-cli/internal/projection"

	"github.com/spf13/cobra"
)

// headingView adds the display key to a heading for output.
type headingView struct {
	model.Heading
	Key string `json:"key"`
}

func newHeadingsCmd(app *App) *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:     "headings",
		Aliases: []string{"heading", "h"},
		Short:   "Heading commands (headings are addressed by key a, b, ... by id, or by name)",
	}
	cmd.PersistentFlags().StringVar(&project, "project", "", "Project id or name (default: active project)")

	cmd.AddCommand(newHeadingsListCmd(app, &project))
	cmd.AddCommand(newHeadingsSetCmd(app, &project))
	cmd.AddCommand(newHeadingsRenameCmd(app, &project))
	cmd.AddCommand(newHeadingsDeleteCmd(app, &project))
	cmd.AddCommand(newHeadingsMoveCmd(app, &project))
	cmd.AddCommand(newHeadingsReorderCmd(app, &project))
	return cmd
}

func newHeadingsListCmd(app *App, project *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List headings in order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := openStore(ctx, app)
			if err != nil {
				return writeErr(cmd, app, err)
			}
			defer s.Close()

			p, err := resolveProject(ctx, app, s, *project)
			if err != nil {
				return writeErr(cmd, app, err)
			}
			hs, err := s.Headings(ctx, p.ID)
			if err != nil {
				return writeErr(cmd, app, err)
			}
			out := make([]headingView, 0, len(hs))
			for i, h := range hs {
				out = append(out, headingView{Heading: h, Key: projection.HeadingKey(i)})
			}
			return writeOut(cmd, app, map[string]any{
				"data": out,
				"meta": map[string]any{"project": p.Name, "count": len(out)},
			})
		},
	}
}

func newHeadingsSetCmd(app *App, project *string) *cobra.Command {
	return &cobra.Command{
		Use:   "set NAME",
		Short: "Create a heading, or return the existing one with that name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := openStore(ctx, app)
			if err != nil {
				return writeErr(cmd, app, err)
			}
			defer s.Close()

			p, err := resolveProject(ctx, app, s, *project)
			if err != nil {
				return writeErr(cmd, app, err)
			}
			h, err := s.CreateOrRenameHeading(ctx, p.ID, strings.Join(args, " "))
			if err != nil {
				return writeErr(cmd, app, err)
			}
			return writeOut(cmd, app, map[string]any{"data": keyedHeading(h)})
		},
	}
}

func newHeadingsRenameCmd(app *App, project *string) *cobra.Command {
	return &cobra.Command{
		Use:   "rename HEADING NEW_NAME",
		Short: "Rename a heading",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := openStore(ctx, app)
			if err != nil {
				return writeErr(cmd, app, err)
			}
			defer s.Close()

			p, err := resolveProject(ctx, app, s, *project)
			if err != nil {
				return writeErr(cmd, app, err)
			}
			h, err := resolveHeading(ctx, s, p.ID, args[0])
			if err != nil {
				return writeErr(cmd, app, err)
			}
			h, err = s.RenameHeading(ctx, h.ID, strings.Join(args[1:], " "))
			if err != nil {
				return writeErr(cmd, app, err)
			}
			return writeOut(cmd, app, map[string]any{"data": keyedHeading(h)})
		},
	}
}

func newHeadingsDeleteCmd(app *App, project *string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete HEADING",
		Short: "Delete a heading with its subheadings and sentences",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := openStore(ctx, app)
			if err != nil {
				return writeErr(cmd, app, err)
			}
			defer s.Close()

			p, err := resolveProject(ctx, app, s, *project)
			if err != nil {
				return writeErr(cmd, app, err)
			}
			h, err := resolveHeading(ctx, s, p.ID, args[0])
			if err != nil {
				return writeErr(cmd, app, err)
			}
			if err := s.DeleteHeading(ctx, h.ID); err != nil {
				return writeErr(cmd, app, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"deleted": h.ID, "name": h.Name}})
		},
	}
}

func newHeadingsMoveCmd(app *App, project *string) *cobra.Command {
	var to string

	cmd := &cobra.Command{
		Use:   "move HEADING --to-project PROJECT",
		Short: "Move a heading to the end of another project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := openStore(ctx, app)
			if err != nil {
				return writeErr(cmd, app, err)
			}
			defer s.Close()

			p, err := resolveProject(ctx, app, s, *project)
			if err != nil {
				return writeErr(cmd, app, err)
			}
			h, err := resolveHeading(ctx, s, p.ID, args[0])
			if err != nil {
				return writeErr(cmd, app, err)
			}
			target, err := lookupProject(ctx, s, to)
			if err != nil {
				return writeErr(cmd, app, err)
			}
			h, err = s.MoveHeading(ctx, h.ID, target.ID)
			if err != nil {
				return writeErr(cmd, app, err)
			}
			return writeOut(cmd, app, map[string]any{"data": keyedHeading(h)})
		},
	}

	cmd.Flags().StringVar(&to, "to-project", "", "Target project id or name")
	_ = cmd.MarkFlagRequired("to-project")
	return cmd
}

func newHeadingsReorderCmd(app *App, project *string) *cobra.Command {
	var to int

	cmd := &cobra.Command{
		Use:   "reorder HEADING --to N",
		Short: "Move a heading to 0-based position N within its project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := openStore(ctx, app)
			if err != nil {
				return writeErr(cmd, app, err)
			}
			defer s.Close()

			p, err := resolveProject(ctx, app, s, *project)
			if err != nil {
				return writeErr(cmd, app, err)
			}
			h, err := resolveHeading(ctx, s, p.ID, args[0])
			if err != nil {
				return writeErr(cmd, app, err)
			}
			h, err = s.ReorderHeading(ctx, h.ID, to)
			if err != nil {
				return writeErr(cmd, app, err)
			}
			return writeOut(cmd, app, map[string]any{"data": keyedHeading(h)})
		},
	}

	cmd.Flags().IntVar(&to, "to", 0, "Target position (clamped)")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func keyedHeading(h model.Heading) headingView {
	return headingView{Heading: h, Key: projection.HeadingKey(h.SortOrder)}
}
