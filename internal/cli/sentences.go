package cli

import (
	"context"
	"errors"
	"strings"

	"outline-cli/internal/lineedit"
	"outline-cli/internal/model"
	"outline-cli/internal/store"

	"github.com/spf13/cobra"
)

// sentenceView is a sentence together with its current line number.
type sentenceView struct {
	model.Line
	LineNo int `json:"line"`
}

func newSentencesCmd(app *App) *cobra.Command {
	var (
		project string
		byID    bool
	)

	cmd := &cobra.Command{
		Use:     "sentences",
		Aliases: []string{"sentence", "s"},
		Short:   "Sentence commands (sentences are addressed by outline line number, or by id with --id)",
	}
	cmd.PersistentFlags().StringVar(&project, "project", "", "Project id or name (default: active project)")
	cmd.PersistentFlags().BoolVar(&byID, "id", false, "Treat sentence references as ids instead of line numbers")

	ref := &sentenceRef{app: app, project: &project, byID: &byID}
	cmd.AddCommand(newSentencesListCmd(ref))
	cmd.AddCommand(newSentencesShowCmd(ref))
	cmd.AddCommand(newSentencesAddCmd(ref))
	cmd.AddCommand(newSentencesInsertCmd(ref))
	cmd.AddCommand(newSentencesUpdateCmd(ref))
	cmd.AddCommand(newSentencesEditCmd(ref))
	cmd.AddCommand(newSentencesDeleteCmd(ref))
	cmd.AddCommand(newSentencesMoveCmd(ref))
	cmd.AddCommand(newSentencesCopyCmd(ref))
	cmd.AddCommand(newSentencesReorderCmd(ref))
	return cmd
}

// sentenceRef carries the flags shared by every sentences subcommand.
type sentenceRef struct {
	app     *App
	project *string
	byID    *bool
}

// open opens the store and resolves the target project. The caller closes the store.
func (r *sentenceRef) open(ctx context.Context) (*store.Store, model.Project, error) {
	s, err := openStore(ctx, r.app)
	if err != nil {
		return nil, model.Project{}, err
	}
	p, err := resolveProject(ctx, r.app, s, *r.project)
	if err != nil {
		_ = s.Close()
		return nil, model.Project{}, err
	}
	return s, p, nil
}

func (r *sentenceRef) sentence(ctx context.Context, s *store.Store, projectID int64, arg string) (model.Sentence, error) {
	return resolveSentence(ctx, s, projectID, arg, *r.byID)
}

// view looks up the sentence's place in the project outline.
func view(ctx context.Context, s *store.Store, projectID, sentenceID int64) (sentenceView, error) {
	lines, err := s.Lines(ctx, projectID)
	if err != nil {
		return sentenceView{}, err
	}
	for i, l := range lines {
		if l.SentenceID == sentenceID {
			return sentenceView{Line: l, LineNo: i + 1}, nil
		}
	}
	return sentenceView{}, store.NotFoundError{Kind: "sentence", ID: sentenceID}
}

func newSentencesListCmd(r *sentenceRef) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every sentence with its line number",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, p, err := r.open(ctx)
			if err != nil {
				return writeErr(cmd, r.app, err)
			}
			defer s.Close()

			lines, err := s.Lines(ctx, p.ID)
			if err != nil {
				return writeErr(cmd, r.app, err)
			}
			out := make([]sentenceView, 0, len(lines))
			for i, l := range lines {
				out = append(out, sentenceView{Line: l, LineNo: i + 1})
			}
			return writeOut(cmd, r.app, map[string]any{
				"data": out,
				"meta": map[string]any{"project": p.Name, "count": len(out)},
			})
		},
	}
}

func newSentencesShowCmd(r *sentenceRef) *cobra.Command {
	return &cobra.Command{
		Use:   "show LINE",
		Short: "Show one sentence",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, p, err := r.open(ctx)
			if err != nil {
				return writeErr(cmd, r.app, err)
			}
			defer s.Close()

			st, err := r.sentence(ctx, s, p.ID, args[0])
			if err != nil {
				return writeErr(cmd, r.app, err)
			}
			v, err := view(ctx, s, p.ID, st.ID)
			if err != nil {
				return writeErr(cmd, r.app, err)
			}
			return writeOut(cmd, r.app, map[string]any{"data": v})
		},
	}
}

func newSentencesAddCmd(r *sentenceRef) *cobra.Command {
	var heading, sub string

	cmd := &cobra.Command{
		Use:   "add (--heading HEADING | --subheading SUBHEADING) TEXT",
		Short: "Append a sentence to a heading or subheading",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if (heading == "") == (sub == "") {
				return writeErr(cmd, r.app, errors.New("exactly one of --heading or --subheading is required"))
			}
			s, p, err := r.open(ctx)
			if err != nil {
				return writeErr(cmd, r.app, err)
			}
			defer s.Close()

			text := strings.Join(args, " ")
			var st model.Sentence
			if heading != "" {
				h, err := resolveHeading(ctx, s, p.ID, heading)
				if err != nil {
					return writeErr(cmd, r.app, err)
				}
				st, err = s.AddSentenceToHeading(ctx, h.ID, text)
				if err != nil {
					return writeErr(cmd, r.app, err)
				}
			} else {
				sh, err := resolveSubheading(ctx, s, p.ID, sub)
				if err != nil {
					return writeErr(cmd, r.app, err)
				}
				st, err = s.AddSentence(ctx, sh.ID, text)
				if err != nil {
					return writeErr(cmd, r.app, err)
				}
			}
			v, err := view(ctx, s, p.ID, st.ID)
			if err != nil {
				return writeErr(cmd, r.app, err)
			}
			return writeOut(cmd, r.app, map[string]any{"data": v})
		},
	}

	cmd.Flags().StringVar(&heading, "heading", "", "Heading key, id, or name")
	cmd.Flags().StringVar(&sub, "subheading", "", "Subheading key or id")
	return cmd
}

func newSentencesInsertCmd(r *sentenceRef) *cobra.Command {
	return &cobra.Command{
		Use:   "insert LINE TEXT",
		Short: "Insert a sentence before the sentence at LINE",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			n, err := parseLine(args[0])
			if err != nil {
				return writeErr(cmd, r.app, err)
			}
			s, p, err := r.open(ctx)
			if err != nil {
				return writeErr(cmd, r.app, err)
			}
			defer s.Close()

			st, err := s.InsertSentenceBeforeLine(ctx, p.ID, n, strings.Join(args[1:], " "))
			if err != nil {
				return writeErr(cmd, r.app, err)
			}
			v, err := view(ctx, s, p.ID, st.ID)
			if err != nil {
				return writeErr(cmd, r.app, err)
			}
			return writeOut(cmd, r.app, map[string]any{"data": v})
		},
	}
}

func newSentencesUpdateCmd(r *sentenceRef) *cobra.Command {
	return &cobra.Command{
		Use:   "update LINE TEXT",
		Short: "Replace a sentence's text",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, p, err := r.open(ctx)
			if err != nil {
				return writeErr(cmd, r.app, err)
			}
			defer s.Close()

			st, err := r.sentence(ctx, s, p.ID, args[0])
			if err != nil {
				return writeErr(cmd, r.app, err)
			}
			st, err = s.UpdateSentence(ctx, st.ID, strings.Join(args[1:], " "))
			if err != nil {
				return writeErr(cmd, r.app, err)
			}
			v, err := view(ctx, s, p.ID, st.ID)
			if err != nil {
				return writeErr(cmd, r.app, err)
			}
			return writeOut(cmd, r.app, map[string]any{"data": v})
		},
	}
}

func newSentencesEditCmd(r *sentenceRef) *cobra.Command {
	var (
		keys  string
		atEnd bool
	)

	cmd := &cobra.Command{
		Use:   "edit LINE",
		Short: "Edit a sentence in the modal line editor",
		Long: strings.TrimSpace(`
Opens the sentence in a vi-style line editor on the terminal.

Normal mode: i a I A enter insert, h l 0 $ move, x deletes a character,
d deletes to the end of the word, Esc or Enter saves, q cancels.
Insert mode: type to insert, Backspace deletes, Esc returns to normal mode,
Enter saves.

--keys runs a scripted key sequence instead of reading the terminal, e.g.
  outline sentences edit 3 --keys '0diHi <esc><esc>'
`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, p, err := r.open(ctx)
			if err != nil {
				return writeErr(cmd, r.app, err)
			}
			defer s.Close()

			st, err := r.sentence(ctx, s, p.ID, args[0])
			if err != nil {
				return writeErr(cmd, r.app, err)
			}

			var opts []lineedit.Option
			if atEnd {
				opts = append(opts, lineedit.WithCursorAtEnd())
			}
			var res lineedit.Result
			if cmd.Flags().Changed("keys") {
				src, err := lineedit.StringKeys(keys)
				if err != nil {
					return writeErr(cmd, r.app, err)
				}
				res, err = lineedit.Run(st.Content, src, opts...)
				if err != nil && !errors.Is(err, lineedit.ErrInputEnded) {
					return writeErr(cmd, r.app, err)
				}
			} else {
				res, err = editOnTerminal(cmd, st.Content, opts...)
				if err != nil {
					return writeErr(cmd, r.app, err)
				}
			}
			logger(r.app).Debug().Int64("sentence", st.ID).Str("outcome", res.Outcome.String()).Msg("line edit")

			if !res.Committed() {
				return writeErr(cmd, r.app, errEditCancelled)
			}
			if res.Text != st.Content {
				if st, err = s.UpdateSentence(ctx, st.ID, res.Text); err != nil {
					return writeErr(cmd, r.app, err)
				}
			}
			v, err := view(ctx, s, p.ID, st.ID)
			if err != nil {
				return writeErr(cmd, r.app, err)
			}
			return writeOut(cmd, r.app, map[string]any{"data": v})
		},
	}

	cmd.Flags().StringVar(&keys, "keys", "", "Scripted key sequence (<esc> <cr> <bs> <left> <right> <lt> <space>)")
	cmd.Flags().BoolVar(&atEnd, "end", false, "Start with the cursor after the last character")
	return cmd
}

func newSentencesDeleteCmd(r *sentenceRef) *cobra.Command {
	return &cobra.Command{
		Use:   "delete LINE",
		Short: "Delete a sentence",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, p, err := r.open(ctx)
			if err != nil {
				return writeErr(cmd, r.app, err)
			}
			defer s.Close()

			st, err := r.sentence(ctx, s, p.ID, args[0])
			if err != nil {
				return writeErr(cmd, r.app, err)
			}
			if err := s.DeleteSentence(ctx, st.ID); err != nil {
				return writeErr(cmd, r.app, err)
			}
			return writeOut(cmd, r.app, map[string]any{"data": map[string]any{"deleted": st.ID, "content": st.Content}})
		},
	}
}

func newSentencesMoveCmd(r *sentenceRef) *cobra.Command {
	return newSentencesTransferCmd(r, "move", "Move a sentence to the end of another subheading",
		(*store.Store).MoveSentence, (*store.Store).MoveSentenceToHeading)
}

func newSentencesCopyCmd(r *sentenceRef) *cobra.Command {
	return newSentencesTransferCmd(r, "copy", "Copy a sentence to the end of another subheading",
		(*store.Store).CopySentence, (*store.Store).CopySentenceToHeading)
}

type transferFunc func(*store.Store, context.Context, int64, int64) (model.Sentence, error)

func newSentencesTransferCmd(r *sentenceRef, use, short string, toSubFn, toHeadingFn transferFunc) *cobra.Command {
	var toSub, toHeading string

	cmd := &cobra.Command{
		Use:   use + " LINE (--to SUBHEADING | --to-heading HEADING)",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if (toSub == "") == (toHeading == "") {
				return writeErr(cmd, r.app, errors.New("exactly one of --to or --to-heading is required"))
			}
			s, p, err := r.open(ctx)
			if err != nil {
				return writeErr(cmd, r.app, err)
			}
			defer s.Close()

			st, err := r.sentence(ctx, s, p.ID, args[0])
			if err != nil {
				return writeErr(cmd, r.app, err)
			}
			var out model.Sentence
			if toSub != "" {
				var sh model.Subheading
				if sh, err = resolveSubheading(ctx, s, p.ID, toSub); err != nil {
					return writeErr(cmd, r.app, err)
				}
				out, err = toSubFn(s, ctx, st.ID, sh.ID)
			} else {
				var h model.Heading
				if h, err = resolveHeading(ctx, s, p.ID, toHeading); err != nil {
					return writeErr(cmd, r.app, err)
				}
				out, err = toHeadingFn(s, ctx, st.ID, h.ID)
			}
			if err != nil {
				return writeErr(cmd, r.app, err)
			}
			v, err := view(ctx, s, p.ID, out.ID)
			if err != nil {
				return writeErr(cmd, r.app, err)
			}
			return writeOut(cmd, r.app, map[string]any{"data": v})
		},
	}

	cmd.Flags().StringVar(&toSub, "to", "", "Target subheading key or id")
	cmd.Flags().StringVar(&toHeading, "to-heading", "", "Target heading (sentence goes directly under it)")
	return cmd
}

func newSentencesReorderCmd(r *sentenceRef) *cobra.Command {
	var to int

	cmd := &cobra.Command{
		Use:   "reorder LINE --to N",
		Short: "Move a sentence to 0-based position N within its subheading",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, p, err := r.open(ctx)
			if err != nil {
				return writeErr(cmd, r.app, err)
			}
			defer s.Close()

			st, err := r.sentence(ctx, s, p.ID, args[0])
			if err != nil {
				return writeErr(cmd, r.app, err)
			}
			st, err = s.ReorderSentence(ctx, st.ID, to)
			if err != nil {
				return writeErr(cmd, r.app, err)
			}
			v, err := view(ctx, s, p.ID, st.ID)
			if err != nil {
				return writeErr(cmd, r.app, err)
			}
			return writeOut(cmd, r.app, map[string]any{"data": v})
		},
	}

	cmd.Flags().IntVar(&to, "to", 0, "Target position (clamped)")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}
