package store

import (
	"context"
	"database/sql"
	"fmt"
)

// DensityIssue describes a sibling group whose sort_order values are not exactly 0..n-1.
type DensityIssue struct {
	Kind     string `json:"kind"`
	ParentID int64  `json:"parentId"`
	Count    int    `json:"count"`
	Min      int    `json:"min"`
	Max      int    `json:"max"`
	Distinct int    `json:"distinct"`
}

func (d DensityIssue) String() string {
	return fmt.Sprintf("%s under %d: %d rows, orders %d..%d (%d distinct)", d.Kind, d.ParentID, d.Count, d.Min, d.Max, d.Distinct)
}

// DensityReport is the result of CheckDensity.
type DensityReport struct {
	Groups int            `json:"groups"`
	Issues []DensityIssue `json:"issues"`
}

func (r DensityReport) OK() bool { return len(r.Issues) == 0 }

// CheckDensity verifies that every sibling group is ordered 0..n-1 with no gaps or
// duplicates. It does not modify anything.
func (s *Store) CheckDensity(ctx context.Context) (DensityReport, error) {
	out := DensityReport{Issues: []DensityIssue{}}
	for _, t := range orderedTables {
		groups, issues, err := t.checkDensity(ctx, s.db)
		if err != nil {
			return DensityReport{}, PersistenceError{Op: "check density", Err: err}
		}
		out.Groups += groups
		out.Issues = append(out.Issues, issues...)
	}
	return out, nil
}

// Densify rewrites every sibling group to 0..n-1, keeping relative order.
func (s *Store) Densify(ctx context.Context) error {
	return s.withTx(ctx, "densify", func(tx *sql.Tx) error {
		for _, t := range orderedTables {
			if err := t.densifyAll(ctx, tx); err != nil {
				return err
			}
		}
		return nil
	})
}

func (t siblingTable) checkDensity(ctx context.Context, q querier) (int, []DensityIssue, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+t.parentCol+`, COUNT(1), MIN(sort_order), MAX(sort_order), COUNT(DISTINCT sort_order)
		FROM `+t.table+` GROUP BY `+t.parentCol)
	if err != nil {
		return 0, nil, err
	}
	defer rows.Close()

	groups := 0
	var issues []DensityIssue
	for rows.Next() {
		var d DensityIssue
		if err := rows.Scan(&d.ParentID, &d.Count, &d.Min, &d.Max, &d.Distinct); err != nil {
			return 0, nil, err
		}
		groups++
		if d.Min != 0 || d.Max != d.Count-1 || d.Distinct != d.Count {
			d.Kind = t.kind
			issues = append(issues, d)
		}
	}
	return groups, issues, rows.Err()
}
