package cli

import (
	"strings"

	"outline-cli/internal/model"
	"outline-cli/internal/projection"

	"github.com/spf13/cobra"
)

// outlineLines renders as the numbered outline under --format text.
type outlineLines []model.DisplayLine

func (o outlineLines) Text() string { return projection.Render(o) }

func newOutlineCmd(app *App) *cobra.Command {
	var (
		project      string
		collapse     []string
		collapseSubs []string
	)

	cmd := &cobra.Command{
		Use:   "outline",
		Short: "Show the project outline with heading keys and sentence line numbers",
		Example: strings.TrimSpace(`
  outline outline --format text
  outline outline --collapse a,c --collapse-sub b1 --format text
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := openStore(ctx, app)
			if err != nil {
				return writeErr(cmd, app, err)
			}
			defer s.Close()

			p, err := resolveProject(ctx, app, s, project)
			if err != nil {
				return writeErr(cmd, app, err)
			}
			tree, err := s.Tree(ctx, p.ID)
			if err != nil {
				return writeErr(cmd, app, err)
			}

			c := projection.NewCollapse()
			full := projection.FromTree(tree, c)
			for _, k := range collapse {
				l, ok := projection.Find(full, k)
				if !ok || l.Kind != model.LineKindHeading {
					return writeErr(cmd, app, badRefError{kind: "heading", ref: k})
				}
				c.Headings[l.ID] = true
			}
			for _, k := range collapseSubs {
				l, ok := projection.Find(full, k)
				if !ok || l.Kind != model.LineKindSubheading {
					return writeErr(cmd, app, badRefError{kind: "subheading", ref: k})
				}
				c.Subheadings[l.ID] = true
			}

			return writeOut(cmd, app, map[string]any{
				"data": outlineLines(projection.FromTree(tree, c)),
				"meta": map[string]any{
					"project":   p.Name,
					"projectId": p.ID,
					"sentences": tree.SentenceCount(),
				},
			})
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project id or name (default: active project)")
	cmd.Flags().StringSliceVar(&collapse, "collapse", nil, "Heading keys to collapse (comma-separated)")
	cmd.Flags().StringSliceVar(&collapseSubs, "collapse-sub", nil, "Subheading keys to collapse (comma-separated)")
	return cmd
}
