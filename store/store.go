package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/hupe1980/intertext"
	"github.com/hupe1980/intertext/codec"
	"github.com/hupe1980/intertext/jobs"
	"github.com/hupe1980/intertext/model"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned for unknown match set or job ids.
var ErrNotFound = errors.New("store: not found")

const schema = `
CREATE TABLE IF NOT EXISTS searches (
	id          TEXT PRIMARY KEY,
	source_text TEXT NOT NULL,
	target_text TEXT NOT NULL,
	codec       TEXT NOT NULL,
	params      BLOB NOT NULL,
	stoplist    BLOB NOT NULL,
	created_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS matches (
	search_id       TEXT NOT NULL,
	ordinal         INTEGER NOT NULL,
	source_index    INTEGER NOT NULL,
	source_locus    TEXT NOT NULL,
	target_index    INTEGER NOT NULL,
	target_locus    TEXT NOT NULL,
	shared          BLOB NOT NULL,
	score           REAL NOT NULL,
	metric          TEXT NOT NULL,
	source_distance INTEGER NOT NULL,
	target_distance INTEGER NOT NULL,
	PRIMARY KEY (search_id, ordinal),
	FOREIGN KEY (search_id) REFERENCES searches(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS search_status (
	id         TEXT PRIMARY KEY,
	status     TEXT NOT NULL,
	message    TEXT,
	updated_at TEXT NOT NULL
);
`

// timeLayout is fixed width so stored times sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// storedFeature is a vocabulary-independent feature.
type storedFeature struct {
	Type  model.FeatureType `json:"type" yaml:"type"`
	Value string            `json:"value" yaml:"value"`
}

// Summary describes a saved match set without its matches.
type Summary struct {
	ID        string
	Texts     [2]string
	Matches   int
	CreatedAt time.Time
}

// Store manages match sets in SQLite.
type Store struct {
	db    *sql.DB
	codec codec.Codec
}

// Option configures a Store.
type Option func(*Store)

// WithCodec sets the codec used for params, stoplists and shared features
// of newly saved match sets. Existing rows keep the codec they were written with.
func WithCodec(c codec.Codec) Option {
	return func(s *Store) { s.codec = c }
}

// Open opens a SQLite database and runs migrations.
func Open(path string, optFns ...Option) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// One writer; also keeps ":memory:" databases on a single connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	s := &Store{db: db, codec: codec.Default}
	for _, fn := range optFns {
		fn(s)
	}
	if s.codec == nil {
		s.codec = codec.Default
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Save stores a match set. Feature ids are resolved through vocab.
// Saving an id twice replaces the earlier set.
func (s *Store) Save(ctx context.Context, ms *model.MatchSet, vocab *model.Vocabulary) error {
	if ms == nil || ms.ID == "" {
		return errors.New("store: match set without id")
	}
	if vocab == nil {
		return errors.New("store: nil vocabulary")
	}

	params, err := paramsOf(ms)
	if err != nil {
		return err
	}
	paramsData, err := s.codec.Marshal(params)
	if err != nil {
		return fmt.Errorf("marshal params: %w", err)
	}
	stop, err := features(vocab, ms.Stoplist)
	if err != nil {
		return fmt.Errorf("stoplist: %w", err)
	}
	stopData, err := s.codec.Marshal(stop)
	if err != nil {
		return fmt.Errorf("marshal stoplist: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM searches WHERE id = ?`, ms.ID); err != nil {
		return fmt.Errorf("replace search: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO searches (id, source_text, target_text, codec, params, stoplist, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		ms.ID, ms.Texts[0], ms.Texts[1], s.codec.Name(), paramsData, stopData,
		ms.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("insert search: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO matches (search_id, ordinal, source_index, source_locus, target_index, target_locus,
		                      shared, score, metric, source_distance, target_distance)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare match insert: %w", err)
	}
	defer stmt.Close()

	for i, m := range ms.Matches {
		shared, err := features(vocab, m.SharedFeatures)
		if err != nil {
			return fmt.Errorf("match %d: %w", i, err)
		}
		sharedData, err := s.codec.Marshal(shared)
		if err != nil {
			return fmt.Errorf("marshal shared features: %w", err)
		}
		src, tgt := m.Source(), m.Target()
		_, err = stmt.ExecContext(ctx,
			ms.ID, i, src.Index, src.Locus, tgt.Index, tgt.Locus,
			sharedData, m.Score, m.Metric, m.Distances[0], m.Distances[1],
		)
		if err != nil {
			return fmt.Errorf("insert match %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Load reads a match set. Its features are interned into vocab, or into a
// new Vocabulary when vocab is nil; the vocabulary used is returned.
func (s *Store) Load(ctx context.Context, id string, vocab *model.Vocabulary) (*model.MatchSet, *model.Vocabulary, error) {
	if vocab == nil {
		vocab = model.NewVocabulary()
	}

	h, err := s.header(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	ms := &model.MatchSet{ID: id, Texts: h.texts, CreatedAt: h.createdAt}
	var params intertext.Params
	if err := h.codec.Unmarshal(h.params, &params); err != nil {
		return nil, nil, fmt.Errorf("unmarshal params: %w", err)
	}
	ms.Params = params

	var stop []storedFeature
	if err := h.codec.Unmarshal(h.stoplist, &stop); err != nil {
		return nil, nil, fmt.Errorf("unmarshal stoplist: %w", err)
	}
	ms.Stoplist = intern(vocab, stop)

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+matchColumns+` FROM matches WHERE search_id = ? ORDER BY ordinal`, id)
	if err != nil {
		return nil, nil, fmt.Errorf("query matches: %w", err)
	}
	defer rows.Close()

	if ms.Matches, err = scanMatches(rows, h, vocab); err != nil {
		return nil, nil, err
	}
	return ms, vocab, nil
}

// header is the searches row of a match set.
type header struct {
	texts     [2]string
	codec     codec.Codec
	params    []byte
	stoplist  []byte
	createdAt time.Time
}

func (s *Store) header(ctx context.Context, id string) (*header, error) {
	var (
		h          header
		codecName  string
		createdStr string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT source_text, target_text, codec, params, stoplist, created_at
		 FROM searches WHERE id = ?`, id,
	).Scan(&h.texts[0], &h.texts[1], &codecName, &h.params, &h.stoplist, &createdStr)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("search %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get search %s: %w", id, err)
	}

	c, ok := codec.ByName(codecName)
	if !ok {
		return nil, fmt.Errorf("search %s: unknown codec %q", id, codecName)
	}
	h.codec = c
	if h.createdAt, err = parseTime(createdStr); err != nil {
		return nil, fmt.Errorf("search %s: %w", id, err)
	}
	return &h, nil
}

const matchColumns = `source_index, source_locus, target_index, target_locus,
	shared, score, metric, source_distance, target_distance`

func scanMatches(rows *sql.Rows, h *header, vocab *model.Vocabulary) ([]*model.Match, error) {
	var out []*model.Match
	for rows.Next() {
		var (
			m          model.Match
			sharedData []byte
		)
		if err := rows.Scan(
			&m.Units[0].Index, &m.Units[0].Locus, &m.Units[1].Index, &m.Units[1].Locus,
			&sharedData, &m.Score, &m.Metric, &m.Distances[0], &m.Distances[1],
		); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		m.Units[0].TextID = h.texts[0]
		m.Units[1].TextID = h.texts[1]

		var shared []storedFeature
		if err := h.codec.Unmarshal(sharedData, &shared); err != nil {
			return nil, fmt.Errorf("unmarshal shared features: %w", err)
		}
		m.SharedFeatures = intern(vocab, shared)
		out = append(out, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read matches: %w", err)
	}
	return out, nil
}

// List returns summaries of all saved match sets, newest first.
func (s *Store) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT s.id, s.source_text, s.target_text, s.created_at,
		        (SELECT COUNT(*) FROM matches m WHERE m.search_id = s.id)
		 FROM searches s ORDER BY s.created_at DESC, s.id`)
	if err != nil {
		return nil, fmt.Errorf("list searches: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var (
			sum        Summary
			createdStr string
		)
		if err := rows.Scan(&sum.ID, &sum.Texts[0], &sum.Texts[1], &createdStr, &sum.Matches); err != nil {
			return nil, fmt.Errorf("scan search: %w", err)
		}
		if sum.CreatedAt, err = parseTime(createdStr); err != nil {
			return nil, fmt.Errorf("search %s: %w", sum.ID, err)
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

// Delete removes a match set and its matches.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM searches WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete search %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete search %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("search %s: %w", id, ErrNotFound)
	}
	return nil
}

// SetStatus records the status of a job. It implements jobs.StatusSink.
func (s *Store) SetStatus(ctx context.Context, id string, status jobs.Status, msg string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO search_status (id, status, message, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET status = excluded.status, message = excluded.message,
		                               updated_at = excluded.updated_at`,
		id, string(status), msg, time.Now().UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("set status %s: %w", id, err)
	}
	return nil
}

// Status returns the last recorded status of a job.
func (s *Store) Status(ctx context.Context, id string) (jobs.State, error) {
	var (
		state      = jobs.State{ID: id}
		status     string
		msg        sql.NullString
		updatedStr string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT status, message, updated_at FROM search_status WHERE id = ?`, id,
	).Scan(&status, &msg, &updatedStr)
	if errors.Is(err, sql.ErrNoRows) {
		return jobs.State{}, fmt.Errorf("status %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return jobs.State{}, fmt.Errorf("get status %s: %w", id, err)
	}
	state.Status = jobs.Status(status)
	if msg.Valid {
		state.Message = msg.String
	}
	if state.UpdatedAt, err = parseTime(updatedStr); err != nil {
		return jobs.State{}, fmt.Errorf("status %s: %w", id, err)
	}
	return state, nil
}

func paramsOf(ms *model.MatchSet) (intertext.Params, error) {
	switch p := ms.Params.(type) {
	case intertext.Params:
		return p, nil
	case *intertext.Params:
		if p != nil {
			return *p, nil
		}
	case nil:
	default:
		return intertext.Params{}, fmt.Errorf("store: unsupported params type %T", ms.Params)
	}
	return intertext.DefaultParams(), nil
}

func features(vocab *model.Vocabulary, ids []model.FeatureID) ([]storedFeature, error) {
	out := make([]storedFeature, len(ids))
	for i, id := range ids {
		f, err := vocab.Feature(id)
		if err != nil {
			return nil, err
		}
		out[i] = storedFeature{Type: f.Type, Value: f.Value}
	}
	return out, nil
}

// intern maps stored features to ids of vocab. Ids of a fresh vocabulary
// differ from the saved ones, so the result is sorted again.
func intern(vocab *model.Vocabulary, fs []storedFeature) []model.FeatureID {
	out := make([]model.FeatureID, len(fs))
	for i, f := range fs {
		out[i] = vocab.Intern(f.Type, f.Value)
	}
	slices.Sort(out)
	return out
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q: %w", s, err)
	}
	return t, nil
}
