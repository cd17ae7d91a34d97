package store

import (
	"context"
	"database/sql"
	"errors"

	"outline-cli/internal/model"
)

const headingCols = `id, project_id, name, sort_order, created_at`

func scanHeading(sc interface{ Scan(...any) error }) (model.Heading, error) {
	var h model.Heading
	var created dbTime
	if err := sc.Scan(&h.ID, &h.ProjectID, &h.Name, &h.SortOrder, &created); err != nil {
		return model.Heading{}, err
	}
	h.CreatedAt = created.t
	return h, nil
}

func getHeading(ctx context.Context, q querier, id int64) (model.Heading, error) {
	h, err := scanHeading(q.QueryRowContext(ctx, `SELECT `+headingCols+` FROM major_categories WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Heading{}, NotFoundError{Kind: "heading", ID: id}
	}
	return h, err
}

func (s *Store) GetHeading(ctx context.Context, id int64) (model.Heading, error) {
	h, err := getHeading(ctx, s.db, id)
	return h, classify("get heading", err)
}

// Headings returns a project's headings in display order.
func (s *Store) Headings(ctx context.Context, projectID int64) ([]model.Heading, error) {
	out, err := listHeadings(ctx, s.db, projectID)
	return out, classify("list headings", err)
}

func listHeadings(ctx context.Context, q querier, projectID int64) ([]model.Heading, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+headingCols+` FROM major_categories WHERE project_id = ? ORDER BY sort_order, id`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Heading{}
	for rows.Next() {
		h, err := scanHeading(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// CreateOrRenameHeading returns the heading named name under the project, creating it
// at the end of the project's ordering when it does not exist yet.
func (s *Store) CreateOrRenameHeading(ctx context.Context, projectID int64, name string) (model.Heading, error) {
	var out model.Heading
	err := s.withTx(ctx, "create heading", func(tx *sql.Tx) error {
		if _, err := getProject(ctx, tx, projectID); err != nil {
			return err
		}
		h, err := scanHeading(tx.QueryRowContext(ctx, `SELECT `+headingCols+` FROM major_categories WHERE project_id = ? AND name = ?`, projectID, name))
		if err == nil {
			out = h
			return nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return err
		}

		n, err := headingTable.count(ctx, tx, projectID)
		if err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `INSERT INTO major_categories(project_id, name, sort_order, created_at) VALUES(?, ?, ?, ?)`,
			projectID, name, n, s.stamp())
		if err != nil {
			if isUniqueViolation(err) {
				return DuplicateNameError{Kind: "heading", Name: name}
			}
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		if err := s.touchProject(ctx, tx, projectID); err != nil {
			return err
		}
		out, err = getHeading(ctx, tx, id)
		return err
	})
	return out, err
}

// RenameHeading renames a heading. Renaming to the current name is a no-op;
// renaming to a sibling's name fails with DuplicateNameError.
func (s *Store) RenameHeading(ctx context.Context, id int64, name string) (model.Heading, error) {
	var out model.Heading
	err := s.withTx(ctx, "rename heading", func(tx *sql.Tx) error {
		h, err := getHeading(ctx, tx, id)
		if err != nil {
			return err
		}
		if h.Name == name {
			out = h
			return nil
		}
		taken, err := headingTable.nameTaken(ctx, tx, h.ProjectID, name, id)
		if err != nil {
			return err
		}
		if taken {
			return DuplicateNameError{Kind: "heading", Name: name}
		}
		if _, err := tx.ExecContext(ctx, `UPDATE major_categories SET name = ? WHERE id = ?`, name, id); err != nil {
			if isUniqueViolation(err) {
				return DuplicateNameError{Kind: "heading", Name: name}
			}
			return err
		}
		if err := s.touchProject(ctx, tx, h.ProjectID); err != nil {
			return err
		}
		out, err = getHeading(ctx, tx, id)
		return err
	})
	return out, err
}

// DeleteHeading removes a heading with all its subheadings and sentences and
// closes the gap in the project's heading order.
func (s *Store) DeleteHeading(ctx context.Context, id int64) error {
	return s.withTx(ctx, "delete heading", func(tx *sql.Tx) error {
		projectID, err := headingTable.remove(ctx, tx, id)
		if err != nil {
			return err
		}
		return s.touchProject(ctx, tx, projectID)
	})
}

// MoveHeading relocates a heading (with its subtree) to the end of another project.
// Moving to the current project is a no-op.
func (s *Store) MoveHeading(ctx context.Context, id, targetProjectID int64) (model.Heading, error) {
	var out model.Heading
	err := s.withTx(ctx, "move heading", func(tx *sql.Tx) error {
		h, err := getHeading(ctx, tx, id)
		if err != nil {
			return err
		}
		if h.ProjectID == targetProjectID {
			out = h
			return nil
		}
		if _, err := getProject(ctx, tx, targetProjectID); err != nil {
			if errors.Is(err, ErrNotFound) {
				return InvalidMoveError{Kind: "heading", ID: id, Reason: "target project does not exist"}
			}
			return err
		}
		taken, err := headingTable.nameTaken(ctx, tx, targetProjectID, h.Name, id)
		if err != nil {
			return err
		}
		if taken {
			return DuplicateNameError{Kind: "heading", Name: h.Name}
		}
		if err := headingTable.reparent(ctx, tx, id, targetProjectID); err != nil {
			return err
		}
		if err := s.touchProject(ctx, tx, h.ProjectID); err != nil {
			return err
		}
		if err := s.touchProject(ctx, tx, targetProjectID); err != nil {
			return err
		}
		out, err = getHeading(ctx, tx, id)
		return err
	})
	return out, err
}

// ReorderHeading moves a heading to position to within its project.
func (s *Store) ReorderHeading(ctx context.Context, id int64, to int) (model.Heading, error) {
	var out model.Heading
	err := s.withTx(ctx, "reorder heading", func(tx *sql.Tx) error {
		if err := headingTable.reorder(ctx, tx, id, to); err != nil {
			return err
		}
		h, err := getHeading(ctx, tx, id)
		if err != nil {
			return err
		}
		out = h
		return s.touchProject(ctx, tx, h.ProjectID)
	})
	return out, err
}
