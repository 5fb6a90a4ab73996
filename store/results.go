package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hupe1980/intertext/model"
)

// DefaultPerPage is the page size used when Page.PerPage is not positive.
const DefaultPerPage = 200

// Page selects a slice of the matches of a saved match set.
type Page struct {
	// SortBy is "score", "source" or "target". When empty, matches are
	// ordered by score, highest first, and Descending is ignored.
	SortBy     string
	Descending bool
	// PerPage is the number of matches per page.
	PerPage int
	// Number is the zero-based page number.
	Number int
}

var sortColumns = map[string]string{
	"score":  "score",
	"source": "source_index",
	"target": "target_index",
}

func (p Page) orderBy() (string, error) {
	by := p.SortBy
	desc := p.Descending
	if by == "" {
		by, desc = "score", true
	}
	col, ok := sortColumns[by]
	if !ok {
		return "", fmt.Errorf("store: unknown sort key %q", p.SortBy)
	}
	if desc {
		col += " DESC"
	}
	return col + ", ordinal", nil
}

func (p Page) limits() (limit, offset int, err error) {
	if p.Number < 0 {
		return 0, 0, fmt.Errorf("store: negative page number %d", p.Number)
	}
	limit = p.PerPage
	if limit <= 0 {
		limit = DefaultPerPage
	}
	return limit, p.Number * limit, nil
}

// Count returns the number of matches in a saved match set.
func (s *Store) Count(ctx context.Context, id string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT (SELECT COUNT(*) FROM matches WHERE search_id = ?)
		 FROM searches WHERE id = ?`, id, id,
	).Scan(&n)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("search %s: %w", id, ErrNotFound)
		}
		return 0, fmt.Errorf("count matches %s: %w", id, err)
	}
	return n, nil
}

// Results returns one page of the matches of a saved match set. Features are
// interned into vocab, or into a new Vocabulary when vocab is nil. A page past
// the end is empty.
func (s *Store) Results(ctx context.Context, id string, vocab *model.Vocabulary, page Page) ([]*model.Match, error) {
	if vocab == nil {
		vocab = model.NewVocabulary()
	}
	order, err := page.orderBy()
	if err != nil {
		return nil, err
	}
	limit, offset, err := page.limits()
	if err != nil {
		return nil, err
	}

	h, err := s.header(ctx, id)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+matchColumns+` FROM matches WHERE search_id = ?
		 ORDER BY `+order+` LIMIT ? OFFSET ?`, id, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query matches: %w", err)
	}
	defer rows.Close()

	return scanMatches(rows, h, vocab)
}
