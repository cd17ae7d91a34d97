package store

import (
	"context"
	"database/sql"
	"errors"
	"math"

	"outline-cli/internal/model"
)

// appendPos is clamped to the sibling count by insertSentenceAt.
const appendPos = math.MaxInt

const sentenceCols = `id, subcategory_id, COALESCE(content, ''), sort_order, created_at, updated_at`

func scanSentence(sc interface{ Scan(...any) error }) (model.Sentence, error) {
	var st model.Sentence
	var created, updated dbTime
	if err := sc.Scan(&st.ID, &st.SubheadingID, &st.Content, &st.SortOrder, &created, &updated); err != nil {
		return model.Sentence{}, err
	}
	st.CreatedAt = created.t
	st.UpdatedAt = updated.t
	return st, nil
}

func getSentence(ctx context.Context, q querier, id int64) (model.Sentence, error) {
	st, err := scanSentence(q.QueryRowContext(ctx, `SELECT `+sentenceCols+` FROM sentences WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Sentence{}, NotFoundError{Kind: "sentence", ID: id}
	}
	return st, err
}

func (s *Store) GetSentence(ctx context.Context, id int64) (model.Sentence, error) {
	st, err := getSentence(ctx, s.db, id)
	return st, classify("get sentence", err)
}

// Sentences returns a subheading's sentences in display order.
func (s *Store) Sentences(ctx context.Context, subheadingID int64) ([]model.Sentence, error) {
	out, err := listSentences(ctx, s.db, subheadingID)
	return out, classify("list sentences", err)
}

func listSentences(ctx context.Context, q querier, subheadingID int64) ([]model.Sentence, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+sentenceCols+` FROM sentences WHERE subcategory_id = ? ORDER BY sort_order, id`, subheadingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Sentence{}
	for rows.Next() {
		st, err := scanSentence(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

// insertSentenceAt inserts content at pos under subheadingID, shifting later siblings.
// pos is clamped to [0, count].
func (s *Store) insertSentenceAt(ctx context.Context, tx *sql.Tx, subheadingID int64, pos int, content string) (model.Sentence, error) {
	projectID, err := projectOfSubheading(ctx, tx, subheadingID)
	if err != nil {
		return model.Sentence{}, err
	}
	n, err := sentenceTable.count(ctx, tx, subheadingID)
	if err != nil {
		return model.Sentence{}, err
	}
	if pos < 0 {
		pos = 0
	}
	if pos > n {
		pos = n
	}
	if pos < n {
		if err := sentenceTable.openGap(ctx, tx, subheadingID, pos); err != nil {
			return model.Sentence{}, err
		}
	}
	now := s.stamp()
	res, err := tx.ExecContext(ctx, `INSERT INTO sentences(subcategory_id, content, sort_order, created_at, updated_at) VALUES(?, ?, ?, ?, ?)`,
		subheadingID, content, pos, now, now)
	if err != nil {
		return model.Sentence{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Sentence{}, err
	}
	if err := s.touchProject(ctx, tx, projectID); err != nil {
		return model.Sentence{}, err
	}
	return getSentence(ctx, tx, id)
}

// AddSentence appends a sentence to a subheading.
func (s *Store) AddSentence(ctx context.Context, subheadingID int64, content string) (model.Sentence, error) {
	var out model.Sentence
	err := s.withTx(ctx, "add sentence", func(tx *sql.Tx) error {
		st, err := s.insertSentenceAt(ctx, tx, subheadingID, appendPos, content)
		out = st
		return err
	})
	return out, err
}

// AddSentenceToHeading appends a sentence directly under a heading, using (and
// creating on first use) the heading's blank subheading.
func (s *Store) AddSentenceToHeading(ctx context.Context, headingID int64, content string) (model.Sentence, error) {
	var out model.Sentence
	err := s.withTx(ctx, "add sentence", func(tx *sql.Tx) error {
		blank, err := s.findOrCreateSubheading(ctx, tx, headingID, "")
		if err != nil {
			return err
		}
		out, err = s.insertSentenceAt(ctx, tx, blank.ID, appendPos, content)
		return err
	})
	return out, err
}

// InsertSentence inserts a sentence so that it occupies beforePosition, pushing the
// sentence currently there (and everything after it) down by one.
func (s *Store) InsertSentence(ctx context.Context, subheadingID int64, beforePosition int, content string) (model.Sentence, error) {
	var out model.Sentence
	err := s.withTx(ctx, "insert sentence", func(tx *sql.Tx) error {
		st, err := s.insertSentenceAt(ctx, tx, subheadingID, beforePosition, content)
		out = st
		return err
	})
	return out, err
}

// InsertSentenceBeforeLine inserts a sentence before the sentence shown at the given
// 1-based line number of the project's outline.
func (s *Store) InsertSentenceBeforeLine(ctx context.Context, projectID int64, line int, content string) (model.Sentence, error) {
	var out model.Sentence
	err := s.withTx(ctx, "insert sentence", func(tx *sql.Tx) error {
		lines, err := projectLines(ctx, tx, projectID)
		if err != nil {
			return err
		}
		if line < 1 || line > len(lines) {
			return NotFoundError{Kind: "line", ID: int64(line)}
		}
		target := lines[line-1]
		out, err = s.insertSentenceAt(ctx, tx, target.SubheadingID, target.SentenceOrder, content)
		return err
	})
	return out, err
}

// UpdateSentence replaces a sentence's content.
func (s *Store) UpdateSentence(ctx context.Context, id int64, content string) (model.Sentence, error) {
	var out model.Sentence
	err := s.withTx(ctx, "update sentence", func(tx *sql.Tx) error {
		cur, err := getSentence(ctx, tx, id)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `UPDATE sentences SET content = ?, updated_at = ? WHERE id = ?`, content, s.stamp(), id); err != nil {
			return err
		}
		projectID, err := projectOfSubheading(ctx, tx, cur.SubheadingID)
		if err != nil {
			return err
		}
		if err := s.touchProject(ctx, tx, projectID); err != nil {
			return err
		}
		out, err = getSentence(ctx, tx, id)
		return err
	})
	return out, err
}

// DeleteSentence removes a sentence and closes the gap it leaves.
func (s *Store) DeleteSentence(ctx context.Context, id int64) error {
	return s.withTx(ctx, "delete sentence", func(tx *sql.Tx) error {
		cur, err := getSentence(ctx, tx, id)
		if err != nil {
			return err
		}
		projectID, err := projectOfSubheading(ctx, tx, cur.SubheadingID)
		if err != nil {
			return err
		}
		if _, err := sentenceTable.remove(ctx, tx, id); err != nil {
			return err
		}
		return s.touchProject(ctx, tx, projectID)
	})
}

// MoveSentence relocates a sentence to the end of another subheading.
// Moving to the current subheading is a no-op.
func (s *Store) MoveSentence(ctx context.Context, id, targetSubheadingID int64) (model.Sentence, error) {
	var out model.Sentence
	err := s.withTx(ctx, "move sentence", func(tx *sql.Tx) error {
		var err error
		out, err = s.moveSentence(ctx, tx, id, targetSubheadingID)
		return err
	})
	return out, err
}

// MoveSentenceToHeading moves a sentence to the end of a heading's blank
// subheading, creating it in the same transaction.
func (s *Store) MoveSentenceToHeading(ctx context.Context, id, targetHeadingID int64) (model.Sentence, error) {
	var out model.Sentence
	err := s.withTx(ctx, "move sentence", func(tx *sql.Tx) error {
		blank, err := s.blankTarget(ctx, tx, id, targetHeadingID)
		if err != nil {
			return err
		}
		out, err = s.moveSentence(ctx, tx, id, blank.ID)
		return err
	})
	return out, err
}

func (s *Store) moveSentence(ctx context.Context, tx *sql.Tx, id, targetSubheadingID int64) (model.Sentence, error) {
	cur, err := getSentence(ctx, tx, id)
	if err != nil {
		return model.Sentence{}, err
	}
	if cur.SubheadingID == targetSubheadingID {
		return cur, nil
	}
	targetProjectID, err := projectOfSubheading(ctx, tx, targetSubheadingID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return model.Sentence{}, InvalidMoveError{Kind: "sentence", ID: id, Reason: "target subheading does not exist"}
		}
		return model.Sentence{}, err
	}
	sourceProjectID, err := projectOfSubheading(ctx, tx, cur.SubheadingID)
	if err != nil {
		return model.Sentence{}, err
	}
	if err := sentenceTable.reparent(ctx, tx, id, targetSubheadingID); err != nil {
		return model.Sentence{}, err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE sentences SET updated_at = ? WHERE id = ?`, s.stamp(), id); err != nil {
		return model.Sentence{}, err
	}
	if err := s.touchProject(ctx, tx, sourceProjectID); err != nil {
		return model.Sentence{}, err
	}
	if targetProjectID != sourceProjectID {
		if err := s.touchProject(ctx, tx, targetProjectID); err != nil {
			return model.Sentence{}, err
		}
	}
	return getSentence(ctx, tx, id)
}

// CopySentence appends a new sentence with the same content to another subheading.
// The source sentence is left untouched.
func (s *Store) CopySentence(ctx context.Context, id, targetSubheadingID int64) (model.Sentence, error) {
	var out model.Sentence
	err := s.withTx(ctx, "copy sentence", func(tx *sql.Tx) error {
		var err error
		out, err = s.copySentence(ctx, tx, id, targetSubheadingID)
		return err
	})
	return out, err
}

// CopySentenceToHeading copies a sentence to the end of a heading's blank
// subheading, creating it in the same transaction.
func (s *Store) CopySentenceToHeading(ctx context.Context, id, targetHeadingID int64) (model.Sentence, error) {
	var out model.Sentence
	err := s.withTx(ctx, "copy sentence", func(tx *sql.Tx) error {
		blank, err := s.blankTarget(ctx, tx, id, targetHeadingID)
		if err != nil {
			return err
		}
		out, err = s.copySentence(ctx, tx, id, blank.ID)
		return err
	})
	return out, err
}

func (s *Store) copySentence(ctx context.Context, tx *sql.Tx, id, targetSubheadingID int64) (model.Sentence, error) {
	cur, err := getSentence(ctx, tx, id)
	if err != nil {
		return model.Sentence{}, err
	}
	ok, err := subheadingTable.exists(ctx, tx, targetSubheadingID)
	if err != nil {
		return model.Sentence{}, err
	}
	if !ok {
		return model.Sentence{}, InvalidMoveError{Kind: "sentence", ID: id, Reason: "target subheading does not exist"}
	}
	return s.insertSentenceAt(ctx, tx, targetSubheadingID, appendPos, cur.Content)
}

// blankTarget finds or creates the blank subheading of the target heading of a
// sentence move or copy.
func (s *Store) blankTarget(ctx context.Context, tx *sql.Tx, id, headingID int64) (model.Subheading, error) {
	if _, err := getSentence(ctx, tx, id); err != nil {
		return model.Subheading{}, err
	}
	blank, err := s.findOrCreateSubheading(ctx, tx, headingID, "")
	if errors.Is(err, ErrNotFound) {
		return model.Subheading{}, InvalidMoveError{Kind: "sentence", ID: id, Reason: "target heading does not exist"}
	}
	return blank, err
}

// ReorderSentence moves a sentence to position to within its subheading.
func (s *Store) ReorderSentence(ctx context.Context, id int64, to int) (model.Sentence, error) {
	var out model.Sentence
	err := s.withTx(ctx, "reorder sentence", func(tx *sql.Tx) error {
		if err := sentenceTable.reorder(ctx, tx, id, to); err != nil {
			return err
		}
		var err error
		out, err = getSentence(ctx, tx, id)
		return err
	})
	return out, err
}
