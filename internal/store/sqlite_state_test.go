package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// legacySchema mirrors databases written by earlier versions: 1-based heading and
// subheading orders and no order column on sentences.
var legacySchema = []string{
	`CREATE TABLE projects (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE major_categories (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		project_id INTEGER NOT NULL,
		name TEXT NOT NULL,
		sort_order INTEGER NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (project_id) REFERENCES projects(id) ON DELETE CASCADE,
		UNIQUE(project_id, name)
	)`,
	`CREATE TABLE subcategories (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		major_category_id INTEGER NOT NULL,
		name TEXT NOT NULL,
		sort_order INTEGER NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (major_category_id) REFERENCES major_categories(id) ON DELETE CASCADE,
		UNIQUE(major_category_id, name)
	)`,
	`CREATE TABLE sentences (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		subcategory_id INTEGER NOT NULL,
		content TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (subcategory_id) REFERENCES subcategories(id) ON DELETE CASCADE
	)`,
	`INSERT INTO projects(id, name) VALUES (1, 'Legacy')`,
	`INSERT INTO major_categories(id, project_id, name, sort_order) VALUES (1, 1, 'First', 1), (2, 1, 'Second', 2)`,
	`INSERT INTO subcategories(id, major_category_id, name, sort_order) VALUES (1, 1, '', 1), (2, 1, 'Named', 2)`,
	`INSERT INTO sentences(id, subcategory_id, content) VALUES (1, 1, 'alpha'), (2, 1, NULL), (3, 2, 'gamma')`,
}

func TestOpen_MigratesLegacyDatabase(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), dbFileName)

	raw, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	for _, st := range legacySchema {
		_, err := raw.ExecContext(ctx, st)
		require.NoError(t, err, st)
	}
	require.NoError(t, raw.Close())

	s, err := Open(ctx, path)
	require.NoError(t, err)
	defer s.Close()

	requireDense(t, s)

	lines, err := s.Lines(ctx, 1)
	require.NoError(t, err)
	require.Len(t, lines, 3)
	require.Equal(t, "alpha", lines[0].Content)
	require.Equal(t, "", lines[1].Content)
	require.Equal(t, 1, lines[1].SentenceOrder)
	require.Equal(t, "Named", lines[2].SubheadingName)

	p, err := s.GetProject(ctx, 1)
	require.NoError(t, err)
	require.False(t, p.CreatedAt.IsZero(), "CURRENT_TIMESTAMP values parse")

	// New writes keep working against the migrated schema.
	st, err := s.InsertSentence(ctx, 1, 0, "zero")
	require.NoError(t, err)
	require.Equal(t, 0, st.SortOrder)
	requireDense(t, s)
}

func TestOpen_IsIdempotent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), dbFileName)

	s, err := Open(ctx, path)
	require.NoError(t, err)
	p, err := s.CreateProject(ctx, "P")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(ctx, path)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.GetProject(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, "P", got.Name)
}

func TestDensify_RepairsGaps(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := openTestStore(t)

	p, err := s.CreateProject(ctx, "P")
	require.NoError(t, err)
	for _, name := range []string{"A", "B", "C"} {
		_, err := s.CreateOrRenameHeading(ctx, p.ID, name)
		require.NoError(t, err)
	}
	_, err = s.db.ExecContext(ctx, `UPDATE major_categories SET sort_order = sort_order * 10 + 5`)
	require.NoError(t, err)

	rep, err := s.CheckDensity(ctx)
	require.NoError(t, err)
	require.False(t, rep.OK())
	require.Len(t, rep.Issues, 1)
	require.Equal(t, "heading", rep.Issues[0].Kind)
	require.Equal(t, p.ID, rep.Issues[0].ParentID)
	require.Equal(t, 5, rep.Issues[0].Min)

	require.NoError(t, s.Densify(ctx))
	require.Equal(t, []string{"A", "B", "C"}, headingNames(t, s, p.ID))
	requireDense(t, s)
}
