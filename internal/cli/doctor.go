package cli

import (
	"github.com/spf13/cobra"
)

func newDoctorCmd(app *App) *cobra.Command {
	var fix bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check that every sibling group is ordered 0..n-1",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := openStore(ctx, app)
			if err != nil {
				return writeErr(cmd, app, err)
			}
			defer s.Close()

			rep, err := s.CheckDensity(ctx)
			if err != nil {
				return writeErr(cmd, app, err)
			}
			fixed := false
			if fix && !rep.OK() {
				if err := s.Densify(ctx); err != nil {
					return writeErr(cmd, app, err)
				}
				logger(app).Warn().Int("issues", len(rep.Issues)).Msg("densified sort orders")
				fixed = true
			}

			hints := []string{}
			if !rep.OK() && !fixed {
				hints = append(hints, "outline doctor --fix")
			}
			return writeOut(cmd, app, map[string]any{
				"data": rep,
				"meta": map[string]any{"ok": rep.OK(), "fixed": fixed, "db": s.Path()},
				"_hints": hints,
			})
		},
	}

	cmd.Flags().BoolVar(&fix, "fix", false, "Rewrite sort orders to 0..n-1 where they are not")
	return cmd
}
