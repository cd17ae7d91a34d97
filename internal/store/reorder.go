package store

import (
	"context"
	"database/sql"
)

// siblingTable describes one ordered child table. Every row belongs to exactly one
// parent and carries a sort_order that is dense (0..n-1) within that parent.
type siblingTable struct {
	kind       string
	table      string
	parentCol  string
	parentKind string
}

var (
	headingTable    = siblingTable{kind: "heading", table: "major_categories", parentCol: "project_id", parentKind: "project"}
	subheadingTable = siblingTable{kind: "subheading", table: "subcategories", parentCol: "major_category_id", parentKind: "heading"}
	sentenceTable   = siblingTable{kind: "sentence", table: "sentences", parentCol: "subcategory_id", parentKind: "subheading"}

	orderedTables = []siblingTable{headingTable, subheadingTable, sentenceTable}
)

func (t siblingTable) count(ctx context.Context, q querier, parentID int64) (int, error) {
	var n int
	err := q.QueryRowContext(ctx, `SELECT COUNT(1) FROM `+t.table+` WHERE `+t.parentCol+` = ?`, parentID).Scan(&n)
	return n, err
}

// locate returns the parent and position of id, or NotFoundError.
func (t siblingTable) locate(ctx context.Context, q querier, id int64) (parentID int64, pos int, err error) {
	err = q.QueryRowContext(ctx, `SELECT `+t.parentCol+`, sort_order FROM `+t.table+` WHERE id = ?`, id).Scan(&parentID, &pos)
	if err == sql.ErrNoRows {
		return 0, 0, NotFoundError{Kind: t.kind, ID: id}
	}
	return parentID, pos, err
}

func (t siblingTable) exists(ctx context.Context, q querier, id int64) (bool, error) {
	var n int
	err := q.QueryRowContext(ctx, `SELECT COUNT(1) FROM `+t.table+` WHERE id = ?`, id).Scan(&n)
	return n > 0, err
}

// closeGap shifts every sibling after pos down by one.
func (t siblingTable) closeGap(ctx context.Context, q querier, parentID int64, pos int) error {
	_, err := q.ExecContext(ctx, `UPDATE `+t.table+` SET sort_order = sort_order - 1 WHERE `+t.parentCol+` = ? AND sort_order > ?`, parentID, pos)
	return err
}

// openGap shifts every sibling at or after pos up by one.
func (t siblingTable) openGap(ctx context.Context, q querier, parentID int64, pos int) error {
	_, err := q.ExecContext(ctx, `UPDATE `+t.table+` SET sort_order = sort_order + 1 WHERE `+t.parentCol+` = ? AND sort_order >= ?`, parentID, pos)
	return err
}

// reparent appends id to the end of newParent's ordering and closes the gap it leaves behind.
func (t siblingTable) reparent(ctx context.Context, q querier, id, newParent int64) error {
	oldParent, oldPos, err := t.locate(ctx, q, id)
	if err != nil {
		return err
	}
	if oldParent == newParent {
		return nil
	}
	n, err := t.count(ctx, q, newParent)
	if err != nil {
		return err
	}
	if _, err := q.ExecContext(ctx, `UPDATE `+t.table+` SET `+t.parentCol+` = ?, sort_order = ? WHERE id = ?`, newParent, n, id); err != nil {
		return err
	}
	return t.closeGap(ctx, q, oldParent, oldPos)
}

// reorder moves id to position to within its current parent.
// to is clamped to [0, count-1].
func (t siblingTable) reorder(ctx context.Context, q querier, id int64, to int) error {
	parentID, from, err := t.locate(ctx, q, id)
	if err != nil {
		return err
	}
	n, err := t.count(ctx, q, parentID)
	if err != nil {
		return err
	}
	if to < 0 {
		to = 0
	}
	if to > n-1 {
		to = n - 1
	}
	if to == from {
		return nil
	}
	if to < from {
		_, err = q.ExecContext(ctx, `UPDATE `+t.table+` SET sort_order = sort_order + 1 WHERE `+t.parentCol+` = ? AND sort_order >= ? AND sort_order < ?`, parentID, to, from)
	} else {
		_, err = q.ExecContext(ctx, `UPDATE `+t.table+` SET sort_order = sort_order - 1 WHERE `+t.parentCol+` = ? AND sort_order > ? AND sort_order <= ?`, parentID, from, to)
	}
	if err != nil {
		return err
	}
	_, err = q.ExecContext(ctx, `UPDATE `+t.table+` SET sort_order = ? WHERE id = ?`, to, id)
	return err
}

// remove deletes id (cascading to descendants) and densifies its siblings.
func (t siblingTable) remove(ctx context.Context, q querier, id int64) (parentID int64, err error) {
	parentID, pos, err := t.locate(ctx, q, id)
	if err != nil {
		return 0, err
	}
	if _, err := q.ExecContext(ctx, `DELETE FROM `+t.table+` WHERE id = ?`, id); err != nil {
		return 0, err
	}
	return parentID, t.closeGap(ctx, q, parentID, pos)
}

// densifyAll rewrites every sibling group to 0..n-1, keeping the current relative
// order (ties broken by id).
func (t siblingTable) densifyAll(ctx context.Context, q querier) error {
	_, err := q.ExecContext(ctx, `UPDATE `+t.table+` SET sort_order = (
		SELECT r.rn FROM (
			SELECT id, ROW_NUMBER() OVER (PARTITION BY `+t.parentCol+` ORDER BY sort_order, id) - 1 AS rn
			FROM `+t.table+`
		) r WHERE r.id = `+t.table+`.id
	)`)
	return err
}

// nameTaken reports whether a sibling of parentID other than excludeID is named name.
// Comparison is exact (case-sensitive).
func (t siblingTable) nameTaken(ctx context.Context, q querier, parentID int64, name string, excludeID int64) (bool, error) {
	var n int
	err := q.QueryRowContext(ctx, `SELECT COUNT(1) FROM `+t.table+` WHERE `+t.parentCol+` = ? AND name = ? AND id != ?`, parentID, name, excludeID).Scan(&n)
	return n > 0, err
}
