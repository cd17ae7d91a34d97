package store

import (
	"context"

	"outline-cli/internal/model"
)

// Lines returns every sentence of the project joined with its heading and subheading,
// in outline order. Line n of the outline is Lines()[n-1].
func (s *Store) Lines(ctx context.Context, projectID int64) ([]model.Line, error) {
	out, err := projectLines(ctx, s.db, projectID)
	return out, classify("list lines", err)
}

func projectLines(ctx context.Context, q querier, projectID int64) ([]model.Line, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT
			s.id,
			mc.id, mc.name,
			sc.id, sc.name,
			COALESCE(s.content, ''),
			mc.sort_order, sc.sort_order, s.sort_order
		FROM sentences s
		JOIN subcategories sc ON s.subcategory_id = sc.id
		JOIN major_categories mc ON sc.major_category_id = mc.id
		WHERE mc.project_id = ?
		ORDER BY mc.sort_order, mc.id, sc.sort_order, sc.id, s.sort_order, s.id`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Line{}
	for rows.Next() {
		var l model.Line
		if err := rows.Scan(
			&l.SentenceID,
			&l.HeadingID, &l.HeadingName,
			&l.SubheadingID, &l.SubheadingName,
			&l.Content,
			&l.HeadingOrder, &l.SubheadingOrder, &l.SentenceOrder,
		); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// Tree materializes the whole project outline, including empty headings and
// subheadings.
func (s *Store) Tree(ctx context.Context, projectID int64) (model.Tree, error) {
	t, err := projectTree(ctx, s.db, projectID)
	return t, classify("load tree", err)
}

func projectTree(ctx context.Context, q querier, projectID int64) (model.Tree, error) {
	p, err := getProject(ctx, q, projectID)
	if err != nil {
		return model.Tree{}, err
	}
	out := model.Tree{Project: p, Headings: []model.HeadingNode{}}

	headings, err := listHeadings(ctx, q, projectID)
	if err != nil {
		return model.Tree{}, err
	}
	for _, h := range headings {
		hn := model.HeadingNode{Heading: h, Subheadings: []model.SubheadingNode{}}
		subs, err := listSubheadings(ctx, q, h.ID)
		if err != nil {
			return model.Tree{}, err
		}
		for _, sh := range subs {
			sentences, err := listSentences(ctx, q, sh.ID)
			if err != nil {
				return model.Tree{}, err
			}
			hn.Subheadings = append(hn.Subheadings, model.SubheadingNode{Subheading: sh, Sentences: sentences})
		}
		out.Headings = append(out.Headings, hn)
	}
	return out, nil
}
