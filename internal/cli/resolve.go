package cli

import (
	"context"
	"strconv"
	"strings"

	"outline-cli/internal/model"
	"outline-cli/internal/projection"
	"outline-cli/internal/store"
)

// resolveProject picks the project named by --project (id or name), falling back to
// the session's active project.
func resolveProject(ctx context.Context, app *App, s *store.Store, ref string) (model.Project, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		st, err := loadSession(app)
		if err != nil {
			return model.Project{}, err
		}
		if !st.Active() {
			return model.Project{}, errNoActiveProject
		}
		p, err := s.GetProject(ctx, st.ProjectID)
		if err != nil {
			return model.Project{}, err
		}
		return p, nil
	}
	return lookupProject(ctx, s, ref)
}

func lookupProject(ctx context.Context, s *store.Store, ref string) (model.Project, error) {
	p, ok, err := s.FindProjectByName(ctx, ref)
	if err != nil {
		return model.Project{}, err
	}
	if ok {
		return p, nil
	}
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		return s.GetProject(ctx, id)
	}
	return model.Project{}, badRefError{kind: "project", ref: ref}
}

// resolveHeading accepts a display key ("a", "#26"), a heading id, or an exact name.
func resolveHeading(ctx context.Context, s *store.Store, projectID int64, ref string) (model.Heading, error) {
	ref = strings.TrimSpace(ref)
	headings, err := s.Headings(ctx, projectID)
	if err != nil {
		return model.Heading{}, err
	}
	if i, ok := projection.ParseHeadingKey(ref); ok {
		if i >= len(headings) {
			return model.Heading{}, store.NotFoundError{Kind: "heading", ID: int64(i)}
		}
		return headings[i], nil
	}
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		for _, h := range headings {
			if h.ID == id {
				return h, nil
			}
		}
		return model.Heading{}, store.NotFoundError{Kind: "heading", ID: id}
	}
	for _, h := range headings {
		if h.Name == ref {
			return h, nil
		}
	}
	return model.Heading{}, badRefError{kind: "heading", ref: ref}
}

// resolveSubheading accepts a display key ("a1", "#26.2") or a subheading id.
// Keys count named subheadings only; the blank one is addressed through its heading.
func resolveSubheading(ctx context.Context, s *store.Store, projectID int64, ref string) (model.Subheading, error) {
	ref = strings.TrimSpace(ref)
	if hi, n, ok := projection.ParseSubheadingKey(ref); ok {
		headings, err := s.Headings(ctx, projectID)
		if err != nil {
			return model.Subheading{}, err
		}
		if hi >= len(headings) {
			return model.Subheading{}, store.NotFoundError{Kind: "heading", ID: int64(hi)}
		}
		subs, err := s.Subheadings(ctx, headings[hi].ID)
		if err != nil {
			return model.Subheading{}, err
		}
		seen := 0
		for _, sh := range subs {
			if sh.IsBlank() {
				continue
			}
			seen++
			if seen == n {
				return sh, nil
			}
		}
		return model.Subheading{}, store.NotFoundError{Kind: "subheading", ID: int64(n)}
	}
	id, err := strconv.ParseInt(ref, 10, 64)
	if err != nil {
		return model.Subheading{}, badRefError{kind: "subheading", ref: ref}
	}
	sh, err := s.GetSubheading(ctx, id)
	if err != nil {
		return model.Subheading{}, err
	}
	h, err := s.GetHeading(ctx, sh.HeadingID)
	if err != nil {
		return model.Subheading{}, err
	}
	if h.ProjectID != projectID {
		return model.Subheading{}, store.NotFoundError{Kind: "subheading", ID: id}
	}
	return sh, nil
}

// resolveSentence maps a 1-based outline line number (or, with byID, a sentence id)
// to the sentence it addresses.
func resolveSentence(ctx context.Context, s *store.Store, projectID int64, ref string, byID bool) (model.Sentence, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(ref), 10, 64)
	if err != nil {
		return model.Sentence{}, badRefError{kind: "sentence", ref: ref}
	}
	if byID {
		return sentenceInProject(ctx, s, projectID, n)
	}
	lines, err := s.Lines(ctx, projectID)
	if err != nil {
		return model.Sentence{}, err
	}
	if n < 1 || int(n) > len(lines) {
		return model.Sentence{}, store.NotFoundError{Kind: "line", ID: n}
	}
	return s.GetSentence(ctx, lines[n-1].SentenceID)
}

// sentenceInProject loads a sentence by id, treating sentences of other projects
// as missing.
func sentenceInProject(ctx context.Context, s *store.Store, projectID, id int64) (model.Sentence, error) {
	st, err := s.GetSentence(ctx, id)
	if err != nil {
		return model.Sentence{}, err
	}
	sh, err := s.GetSubheading(ctx, st.SubheadingID)
	if err != nil {
		return model.Sentence{}, err
	}
	h, err := s.GetHeading(ctx, sh.HeadingID)
	if err != nil {
		return model.Sentence{}, err
	}
	if h.ProjectID != projectID {
		return model.Sentence{}, store.NotFoundError{Kind: "sentence", ID: id}
	}
	return st, nil
}

func parseLine(ref string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(ref))
	if err != nil {
		return 0, badRefError{kind: "line", ref: ref}
	}
	return n, nil
}
