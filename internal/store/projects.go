package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"outline-cli/internal/model"
)

const projectCols = `id, name, created_at, updated_at`

func scanProject(sc interface{ Scan(...any) error }) (model.Project, error) {
	var p model.Project
	var created, updated dbTime
	if err := sc.Scan(&p.ID, &p.Name, &created, &updated); err != nil {
		return model.Project{}, err
	}
	p.CreatedAt = created.t
	p.UpdatedAt = updated.t
	return p, nil
}

func (s *Store) CreateProject(ctx context.Context, name string) (model.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Project{}, errors.New("project name is empty")
	}
	var out model.Project
	err := s.withTx(ctx, "create project", func(tx *sql.Tx) error {
		var n int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM projects WHERE name = ?`, name).Scan(&n); err != nil {
			return err
		}
		if n > 0 {
			return DuplicateNameError{Kind: "project", Name: name}
		}
		now := s.stamp()
		res, err := tx.ExecContext(ctx, `INSERT INTO projects(name, created_at, updated_at) VALUES(?, ?, ?)`, name, now, now)
		if err != nil {
			if isUniqueViolation(err) {
				return DuplicateNameError{Kind: "project", Name: name}
			}
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		out, err = getProject(ctx, tx, id)
		return err
	})
	return out, err
}

// ListProjects returns all projects, most recently updated first.
func (s *Store) ListProjects(ctx context.Context) ([]model.Project, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+projectCols+` FROM projects ORDER BY updated_at DESC, id DESC`)
	if err != nil {
		return nil, PersistenceError{Op: "list projects", Err: err}
	}
	defer rows.Close()

	out := []model.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, PersistenceError{Op: "list projects", Err: err}
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, PersistenceError{Op: "list projects", Err: err}
	}
	return out, nil
}

func (s *Store) GetProject(ctx context.Context, id int64) (model.Project, error) {
	p, err := getProject(ctx, s.db, id)
	return p, classify("get project", err)
}

func getProject(ctx context.Context, q querier, id int64) (model.Project, error) {
	p, err := scanProject(q.QueryRowContext(ctx, `SELECT `+projectCols+` FROM projects WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Project{}, NotFoundError{Kind: "project", ID: id}
	}
	return p, err
}

// FindProjectByName returns the project with exactly this name.
func (s *Store) FindProjectByName(ctx context.Context, name string) (model.Project, bool, error) {
	p, err := scanProject(s.db.QueryRowContext(ctx, `SELECT `+projectCols+` FROM projects WHERE name = ?`, strings.TrimSpace(name)))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Project{}, false, nil
	}
	if err != nil {
		return model.Project{}, false, PersistenceError{Op: "find project", Err: err}
	}
	return p, true, nil
}

func (s *Store) RenameProject(ctx context.Context, id int64, name string) (model.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Project{}, errors.New("project name is empty")
	}
	var out model.Project
	err := s.withTx(ctx, "rename project", func(tx *sql.Tx) error {
		cur, err := getProject(ctx, tx, id)
		if err != nil {
			return err
		}
		if cur.Name == name {
			out = cur
			return nil
		}
		var n int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM projects WHERE name = ? AND id != ?`, name, id).Scan(&n); err != nil {
			return err
		}
		if n > 0 {
			return DuplicateNameError{Kind: "project", Name: name}
		}
		if _, err := tx.ExecContext(ctx, `UPDATE projects SET name = ?, updated_at = ? WHERE id = ?`, name, s.stamp(), id); err != nil {
			return err
		}
		out, err = getProject(ctx, tx, id)
		return err
	})
	return out, err
}

// DeleteProject removes the project and, by cascade, everything under it.
func (s *Store) DeleteProject(ctx context.Context, id int64) error {
	return s.withTx(ctx, "delete project", func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return NotFoundError{Kind: "project", ID: id}
		}
		return nil
	})
}

// TouchProject bumps the project's updated_at.
func (s *Store) TouchProject(ctx context.Context, id int64) error {
	return s.withTx(ctx, "touch project", func(tx *sql.Tx) error {
		return s.touchProject(ctx, tx, id)
	})
}

func (s *Store) touchProject(ctx context.Context, q querier, id int64) error {
	res, err := q.ExecContext(ctx, `UPDATE projects SET updated_at = ? WHERE id = ?`, s.stamp(), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return NotFoundError{Kind: "project", ID: id}
	}
	return nil
}

// projectOfHeading resolves the owning project of a heading.
func projectOfHeading(ctx context.Context, q querier, headingID int64) (int64, error) {
	pid, _, err := headingTable.locate(ctx, q, headingID)
	return pid, err
}

// projectOfSubheading resolves the owning project of a subheading.
func projectOfSubheading(ctx context.Context, q querier, subID int64) (int64, error) {
	var pid int64
	err := q.QueryRowContext(ctx, `SELECT mc.project_id FROM subcategories sc
		JOIN major_categories mc ON sc.major_category_id = mc.id
		WHERE sc.id = ?`, subID).Scan(&pid)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, NotFoundError{Kind: "subheading", ID: subID}
	}
	return pid, err
}
