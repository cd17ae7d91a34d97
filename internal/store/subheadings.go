package store

import (
	"context"
	"database/sql"
	"errors"

	"outline-cli/internal/model"
)

const subheadingCols = `id, major_category_id, name, sort_order, created_at`

func scanSubheading(sc interface{ Scan(...any) error }) (model.Subheading, error) {
	var sh model.Subheading
	var created dbTime
	if err := sc.Scan(&sh.ID, &sh.HeadingID, &sh.Name, &sh.SortOrder, &created); err != nil {
		return model.Subheading{}, err
	}
	sh.CreatedAt = created.t
	return sh, nil
}

func getSubheading(ctx context.Context, q querier, id int64) (model.Subheading, error) {
	sh, err := scanSubheading(q.QueryRowContext(ctx, `SELECT `+subheadingCols+` FROM subcategories WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Subheading{}, NotFoundError{Kind: "subheading", ID: id}
	}
	return sh, err
}

func (s *Store) GetSubheading(ctx context.Context, id int64) (model.Subheading, error) {
	sh, err := getSubheading(ctx, s.db, id)
	return sh, classify("get subheading", err)
}

// Subheadings returns a heading's subheadings in display order.
func (s *Store) Subheadings(ctx context.Context, headingID int64) ([]model.Subheading, error) {
	out, err := listSubheadings(ctx, s.db, headingID)
	return out, classify("list subheadings", err)
}

func listSubheadings(ctx context.Context, q querier, headingID int64) ([]model.Subheading, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+subheadingCols+` FROM subcategories WHERE major_category_id = ? ORDER BY sort_order, id`, headingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Subheading{}
	for rows.Next() {
		sh, err := scanSubheading(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sh)
	}
	return out, rows.Err()
}

// CreateOrRenameSubheading returns the subheading named name under the heading,
// creating it when missing. Named subheadings are appended; the blank subheading
// (name == "") is always inserted first.
func (s *Store) CreateOrRenameSubheading(ctx context.Context, headingID int64, name string) (model.Subheading, error) {
	var out model.Subheading
	err := s.withTx(ctx, "create subheading", func(tx *sql.Tx) error {
		sh, err := s.findOrCreateSubheading(ctx, tx, headingID, name)
		out = sh
		return err
	})
	return out, err
}

func (s *Store) findOrCreateSubheading(ctx context.Context, tx *sql.Tx, headingID int64, name string) (model.Subheading, error) {
	projectID, err := projectOfHeading(ctx, tx, headingID)
	if err != nil {
		return model.Subheading{}, err
	}
	sh, err := scanSubheading(tx.QueryRowContext(ctx, `SELECT `+subheadingCols+` FROM subcategories WHERE major_category_id = ? AND name = ?`, headingID, name))
	if err == nil {
		return sh, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return model.Subheading{}, err
	}

	pos := 0
	if name == "" {
		if err := subheadingTable.openGap(ctx, tx, headingID, 0); err != nil {
			return model.Subheading{}, err
		}
	} else {
		pos, err = subheadingTable.count(ctx, tx, headingID)
		if err != nil {
			return model.Subheading{}, err
		}
	}
	res, err := tx.ExecContext(ctx, `INSERT INTO subcategories(major_category_id, name, sort_order, created_at) VALUES(?, ?, ?, ?)`,
		headingID, name, pos, s.stamp())
	if err != nil {
		if isUniqueViolation(err) {
			return model.Subheading{}, DuplicateNameError{Kind: "subheading", Name: name}
		}
		return model.Subheading{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Subheading{}, err
	}
	if err := s.touchProject(ctx, tx, projectID); err != nil {
		return model.Subheading{}, err
	}
	return getSubheading(ctx, tx, id)
}

// RenameSubheading renames a subheading. Renaming to the current name is a no-op;
// renaming to a sibling's name fails with DuplicateNameError. A subheading renamed
// to the blank name moves to the front of its heading.
func (s *Store) RenameSubheading(ctx context.Context, id int64, name string) (model.Subheading, error) {
	var out model.Subheading
	err := s.withTx(ctx, "rename subheading", func(tx *sql.Tx) error {
		sh, err := getSubheading(ctx, tx, id)
		if err != nil {
			return err
		}
		if sh.Name == name {
			out = sh
			return nil
		}
		taken, err := subheadingTable.nameTaken(ctx, tx, sh.HeadingID, name, id)
		if err != nil {
			return err
		}
		if taken {
			return DuplicateNameError{Kind: "subheading", Name: name}
		}
		if _, err := tx.ExecContext(ctx, `UPDATE subcategories SET name = ? WHERE id = ?`, name, id); err != nil {
			if isUniqueViolation(err) {
				return DuplicateNameError{Kind: "subheading", Name: name}
			}
			return err
		}
		if name == "" {
			if err := subheadingTable.reorder(ctx, tx, id, 0); err != nil {
				return err
			}
		}
		projectID, err := projectOfHeading(ctx, tx, sh.HeadingID)
		if err != nil {
			return err
		}
		if err := s.touchProject(ctx, tx, projectID); err != nil {
			return err
		}
		out, err = getSubheading(ctx, tx, id)
		return err
	})
	return out, err
}

// DeleteSubheading removes a subheading with all its sentences and closes the gap
// in the heading's subheading order.
func (s *Store) DeleteSubheading(ctx context.Context, id int64) error {
	return s.withTx(ctx, "delete subheading", func(tx *sql.Tx) error {
		projectID, err := projectOfSubheading(ctx, tx, id)
		if err != nil {
			return err
		}
		if _, err := subheadingTable.remove(ctx, tx, id); err != nil {
			return err
		}
		return s.touchProject(ctx, tx, projectID)
	})
}

// MoveSubheading relocates a subheading (with its sentences) to the end of another
// heading. Moving to the current heading is a no-op.
func (s *Store) MoveSubheading(ctx context.Context, id, targetHeadingID int64) (model.Subheading, error) {
	var out model.Subheading
	err := s.withTx(ctx, "move subheading", func(tx *sql.Tx) error {
		sh, err := getSubheading(ctx, tx, id)
		if err != nil {
			return err
		}
		if sh.HeadingID == targetHeadingID {
			out = sh
			return nil
		}
		targetProjectID, err := projectOfHeading(ctx, tx, targetHeadingID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return InvalidMoveError{Kind: "subheading", ID: id, Reason: "target heading does not exist"}
			}
			return err
		}
		sourceProjectID, err := projectOfHeading(ctx, tx, sh.HeadingID)
		if err != nil {
			return err
		}
		taken, err := subheadingTable.nameTaken(ctx, tx, targetHeadingID, sh.Name, id)
		if err != nil {
			return err
		}
		if taken {
			return DuplicateNameError{Kind: "subheading", Name: sh.Name}
		}
		if err := subheadingTable.reparent(ctx, tx, id, targetHeadingID); err != nil {
			return err
		}
		if sh.IsBlank() {
			if err := subheadingTable.reorder(ctx, tx, id, 0); err != nil {
				return err
			}
		}
		if err := s.touchProject(ctx, tx, sourceProjectID); err != nil {
			return err
		}
		if targetProjectID != sourceProjectID {
			if err := s.touchProject(ctx, tx, targetProjectID); err != nil {
				return err
			}
		}
		out, err = getSubheading(ctx, tx, id)
		return err
	})
	return out, err
}

// ReorderSubheading moves a subheading to position to within its heading.
// The blank subheading stays first.
func (s *Store) ReorderSubheading(ctx context.Context, id int64, to int) (model.Subheading, error) {
	var out model.Subheading
	err := s.withTx(ctx, "reorder subheading", func(tx *sql.Tx) error {
		sh, err := getSubheading(ctx, tx, id)
		if err != nil {
			return err
		}
		if sh.IsBlank() {
			to = 0
		} else if to <= 0 {
			var blanks int
			if err := tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM subcategories WHERE major_category_id = ? AND name = ''`, sh.HeadingID).Scan(&blanks); err != nil {
				return err
			}
			if blanks > 0 {
				to = 1
			}
		}
		if err := subheadingTable.reorder(ctx, tx, id, to); err != nil {
			return err
		}
		projectID, err := projectOfHeading(ctx, tx, sh.HeadingID)
		if err != nil {
			return err
		}
		if err := s.touchProject(ctx, tx, projectID); err != nil {
			return err
		}
		out, err = getSubheading(ctx, tx, id)
		return err
	})
	return out, err
}
