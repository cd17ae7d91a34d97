package cli

import (
	"fmt"
	"strings"

	"outline-cli/internal/docs"
	"outline-cli/internal/export"

	"github.com/spf13/cobra"
)

type docsPage string

func (d docsPage) Text() string { return string(d) }

func newDocsCmd(app *App) *cobra.Command {
	var raw bool
	var render bool
	var width int

	cmd := &cobra.Command{
		Use:   "docs [topic]",
		Short: "Show documentation topics",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return writeOut(cmd, app, map[string]any{
					"data":   map[string]any{"topics": docs.Topics()},
					"_hints": []string{"outline docs outline", "outline docs editor --render"},
				})
			}

			topic := args[0]
			body, ok := docs.Get(topic)
			if !ok {
				return writeErr(cmd, app, fmt.Errorf("unknown docs topic: %q (run `outline docs` to list topics)", topic))
			}

			switch {
			case render:
				_, err := fmt.Fprint(cmd.OutOrStdout(), export.Preview(body, width))
				return err
			case raw:
				_, err := fmt.Fprint(cmd.OutOrStdout(), body)
				return err
			}
			if f := strings.ToLower(app.Format); f == "text" || f == "txt" {
				return writeOut(cmd, app, map[string]any{"data": docsPage(body)})
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"topic": topic, "markdown": body}})
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Print raw markdown (no envelope)")
	cmd.Flags().BoolVar(&render, "render", false, "Render markdown for the terminal")
	cmd.Flags().IntVar(&width, "width", 80, "Wrap width for --render")

	return cmd
}
