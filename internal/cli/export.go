package cli

import (
	"fmt"
	"strings"

	"outline-cli/internal/export"

	"github.com/spf13/cobra"
)

func newExportCmd(app *App) *cobra.Command {
	var (
		project string
		as      string
		to      string
		preview bool
		width   int
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the project as a document",
		Long: strings.TrimSpace(`
Writes the project into a new versioned directory:

  <export_directory>/<project>/<yyyy-mm-dd>-vN/<project>.txt|.md

--preview renders the markdown form to the terminal instead of writing a file.
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			f, err := export.ParseFormat(as)
			if err != nil {
				return writeErr(cmd, app, err)
			}
			cfg, err := loadConfig(app)
			if err != nil {
				return writeErr(cmd, app, err)
			}
			s, err := openStore(ctx, app)
			if err != nil {
				return writeErr(cmd, app, err)
			}
			defer s.Close()

			p, err := resolveProject(ctx, app, s, project)
			if err != nil {
				return writeErr(cmd, app, err)
			}

			if preview {
				tree, err := s.Tree(ctx, p.ID)
				if err != nil {
					return writeErr(cmd, app, err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), export.Preview(export.RenderMarkdown(tree), width))
				return nil
			}

			root := cfg.ExportDirectory
			if strings.TrimSpace(to) != "" {
				root = to
			}
			res, err := export.Write(ctx, s, p.ID, export.Options{Format: f, Root: root})
			if err != nil {
				return writeErr(cmd, app, err)
			}
			logger(app).Info().Str("path", res.Path).Int("sentences", res.Sentences).Msg("exported")
			return writeOut(cmd, app, map[string]any{"data": res})
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project id or name (default: active project)")
	cmd.Flags().StringVar(&as, "as", "text", "Document format (text|markdown)")
	cmd.Flags().StringVar(&to, "to", "", "Export directory (overrides export_directory from config)")
	cmd.Flags().BoolVar(&preview, "preview", false, "Render markdown to the terminal instead of writing a file")
	cmd.Flags().IntVar(&width, "width", 80, "Preview wrap width")
	return cmd
}
