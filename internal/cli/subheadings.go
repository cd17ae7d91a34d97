package cli

import (
	"context"
	"strings"

	"outline-cli/internal/model"
	"outline-cli/internal/projection"
	"outline-cli/internal/store"

	"github.com/spf13/cobra"
)

type subheadingView struct {
	model.Subheading
	Key string `json:"key,omitempty"`
}

func newSubheadingsCmd(app *App) *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:     "subheadings",
		Aliases: []string{"subheading", "sub"},
		Short:   "Subheading commands (subheadings are addressed by key a1, a2, ... or by id)",
	}
	cmd.PersistentFlags().StringVar(&project, "project", "", "Project id or name (default: active project)")

	cmd.AddCommand(newSubheadingsListCmd(app, &project))
	cmd.AddCommand(newSubheadingsSetCmd(app, &project))
	cmd.AddCommand(newSubheadingsRenameCmd(app, &project))
	cmd.AddCommand(newSubheadingsDeleteCmd(app, &project))
	cmd.AddCommand(newSubheadingsMoveCmd(app, &project))
	cmd.AddCommand(newSubheadingsReorderCmd(app, &project))
	return cmd
}

func newSubheadingsListCmd(app *App, project *string) *cobra.Command {
	var heading string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List subheadings (all headings, or one with --heading)",
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
			if strings.TrimSpace(heading) != "" {
				h, err := resolveHeading(ctx, s, p.ID, heading)
				if err != nil {
					return writeErr(cmd, app, err)
				}
				hs = []model.Heading{h}
			}
			out := []subheadingView{}
			for _, h := range hs {
				views, err := keyedSubheadings(ctx, s, h)
				if err != nil {
					return writeErr(cmd, app, err)
				}
				out = append(out, views...)
			}
			return writeOut(cmd, app, map[string]any{
				"data": out,
				"meta": map[string]any{"project": p.Name, "count": len(out)},
			})
		},
	}

	cmd.Flags().StringVar(&heading, "heading", "", "Heading key, id, or name")
	return cmd
}

func newSubheadingsSetCmd(app *App, project *string) *cobra.Command {
	var heading string

	cmd := &cobra.Command{
		Use:   "set --heading HEADING NAME",
		Short: "Create a subheading, or return the existing one with that name",
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
			h, err := resolveHeading(ctx, s, p.ID, heading)
			if err != nil {
				return writeErr(cmd, app, err)
			}
			sh, err := s.CreateOrRenameSubheading(ctx, h.ID, strings.Join(args, " "))
			if err != nil {
				return writeErr(cmd, app, err)
			}
			return writeOut(cmd, app, map[string]any{"data": sh})
		},
	}

	cmd.Flags().StringVar(&heading, "heading", "", "Heading key, id, or name")
	_ = cmd.MarkFlagRequired("heading")
	return cmd
}

func newSubheadingsRenameCmd(app *App, project *string) *cobra.Command {
	return &cobra.Command{
		Use:   "rename SUBHEADING NEW_NAME",
		Short: "Rename a subheading",
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
			sh, err := resolveSubheading(ctx, s, p.ID, args[0])
			if err != nil {
				return writeErr(cmd, app, err)
			}
			sh, err = s.RenameSubheading(ctx, sh.ID, strings.Join(args[1:], " "))
			if err != nil {
				return writeErr(cmd, app, err)
			}
			return writeOut(cmd, app, map[string]any{"data": sh})
		},
	}
}

func newSubheadingsDeleteCmd(app *App, project *string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete SUBHEADING",
		Short: "Delete a subheading and its sentences",
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
			sh, err := resolveSubheading(ctx, s, p.ID, args[0])
			if err != nil {
				return writeErr(cmd, app, err)
			}
			if err := s.DeleteSubheading(ctx, sh.ID); err != nil {
				return writeErr(cmd, app, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"deleted": sh.ID, "name": sh.Name}})
		},
	}
}

func newSubheadingsMoveCmd(app *App, project *string) *cobra.Command {
	var to string

	cmd := &cobra.Command{
		Use:   "move SUBHEADING --to-heading HEADING",
		Short: "Move a subheading to the end of another heading",
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
			sh, err := resolveSubheading(ctx, s, p.ID, args[0])
			if err != nil {
				return writeErr(cmd, app, err)
			}
			h, err := resolveHeading(ctx, s, p.ID, to)
			if err != nil {
				return writeErr(cmd, app, err)
			}
			sh, err = s.MoveSubheading(ctx, sh.ID, h.ID)
			if err != nil {
				return writeErr(cmd, app, err)
			}
			return writeOut(cmd, app, map[string]any{"data": sh})
		},
	}

	cmd.Flags().StringVar(&to, "to-heading", "", "Target heading key, id, or name")
	_ = cmd.MarkFlagRequired("to-heading")
	return cmd
}

func newSubheadingsReorderCmd(app *App, project *string) *cobra.Command {
	var to int

	cmd := &cobra.Command{
		Use:   "reorder SUBHEADING --to N",
		Short: "Move a subheading to 0-based position N within its heading",
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
			sh, err := resolveSubheading(ctx, s, p.ID, args[0])
			if err != nil {
				return writeErr(cmd, app, err)
			}
			sh, err = s.ReorderSubheading(ctx, sh.ID, to)
			if err != nil {
				return writeErr(cmd, app, err)
			}
			return writeOut(cmd, app, map[string]any{"data": sh})
		},
	}

	cmd.Flags().IntVar(&to, "to", 0, "Target position (clamped)")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func keyedSubheadings(ctx context.Context, s *store.Store, h model.Heading) ([]subheadingView, error) {
	subs, err := s.Subheadings(ctx, h.ID)
	if err != nil {
		return nil, err
	}
	hkey := projection.HeadingKey(h.SortOrder)
	out := make([]subheadingView, 0, len(subs))
	n := 0
	for _, sh := range subs {
		v := subheadingView{Subheading: sh}
		if !sh.IsBlank() {
			n++
			v.Key = projection.SubheadingKey(hkey, n)
		}
		out = append(out, v)
	}
	return out, nil
}
