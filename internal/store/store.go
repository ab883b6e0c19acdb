// Package store persists analyzed forms.
//
// A snapshot is one decoded and weighted form. Manual weight edits rewrite
// the stored questions and are appended to an edit log, both inside one
// SQLite transaction, so concurrent edits to the same snapshot are
// serialized by the database and the last write wins.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/HendryAvila/formweight/internal/form"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// timeNow is a package-level var so tests can pin timestamps.
var timeNow = time.Now

// ErrNotFound is returned when a snapshot or question does not exist.
var ErrNotFound = errors.New("not found")

// ─── Types ───────────────────────────────────────────────────────────────────

// Snapshot is a stored form with its current weights.
type Snapshot struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Source    string          `json:"source"`
	Questions []form.Question `json:"questions"`
	CreatedAt string          `json:"created_at"`
	UpdatedAt string          `json:"updated_at"`
}

// Form returns the snapshot as a form.
func (s *Snapshot) Form() *form.Form {
	return &form.Form{Title: s.Title, Questions: form.CloneQuestions(s.Questions)}
}

// Summary is a compact view of a snapshot for listings.
type Summary struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Source        string `json:"source"`
	QuestionCount int    `json:"question_count"`
	EditCount     int    `json:"edit_count"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

// Edit is one entry of the manual override log.
type Edit struct {
	ID          int64  `json:"id"`
	SnapshotID  string `json:"snapshot_id"`
	QuestionID  string `json:"question_id"`
	OptionIndex int    `json:"option_index"`
	Value       int    `json:"value"`
	CreatedAt   string `json:"created_at"`
}

// ─── Config ──────────────────────────────────────────────────────────────────

// Config holds store configuration.
type Config struct {
	DataDir      string
	MaxListItems int
}

// DefaultConfig returns the default configuration for the store.
func DefaultConfig() Config {
	home, _ := os.UserHomeDir()
	return Config{
		DataDir:      filepath.Join(home, ".formweight"),
		MaxListItems: 50,
	}
}

// ─── Store ───────────────────────────────────────────────────────────────────

// Store is the snapshot database.
type Store struct {
	db    *sql.DB
	cfg   Config
	hooks storeHooks
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

type storeHooks struct {
	exec    func(db execer, query string, args ...any) (sql.Result, error)
	beginTx func(db *sql.DB) (*sql.Tx, error)
	commit  func(tx *sql.Tx) error
}

func (s *Store) execHook(db execer, query string, args ...any) (sql.Result, error) {
	if s.hooks.exec != nil {
		return s.hooks.exec(db, query, args...)
	}
	return db.Exec(query, args...)
}

func (s *Store) beginTxHook() (*sql.Tx, error) {
	if s.hooks.beginTx != nil {
		return s.hooks.beginTx(s.db)
	}
	return s.db.Begin()
}

func (s *Store) commitHook(tx *sql.Tx) error {
	if s.hooks.commit != nil {
		return s.hooks.commit(tx)
	}
	return tx.Commit()
}

// New creates a Store. It creates the data directory if needed, opens
// SQLite with WAL mode, and runs migrations.
func New(cfg Config) (*Store, error) {
	if cfg.MaxListItems <= 0 {
		cfg.MaxListItems = DefaultConfig().MaxListItems
	}
	if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
		return nil, fmt.Errorf("store: create data dir: %w", err)
	}

	dbPath := filepath.Join(cfg.DataDir, "formweight.db")
	db, err := openDB("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}
	// One connection: read-modify-write transactions queue up instead of
	// failing with SQLITE_BUSY on lock upgrade.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("store: pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db, cfg: cfg}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: migration: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ─── Migrations ──────────────────────────────────────────────────────────────

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS snapshots (
			id         TEXT PRIMARY KEY,
			title      TEXT NOT NULL,
			source     TEXT NOT NULL DEFAULT '',
			questions  TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS edits (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			snapshot_id  TEXT    NOT NULL REFERENCES snapshots(id) ON DELETE CASCADE,
			question_id  TEXT    NOT NULL,
			option_index INTEGER NOT NULL,
			value        INTEGER NOT NULL,
			created_at   TEXT    NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_edits_snapshot ON edits(snapshot_id, id);
		CREATE INDEX IF NOT EXISTS idx_snapshots_updated ON snapshots(updated_at DESC);
	`
	_, err := s.execHook(s.db, schema)
	return err
}

// ─── Snapshots ───────────────────────────────────────────────────────────────

// Save stores a new snapshot and returns it with its generated id.
func (s *Store) Save(f *form.Form, source string) (*Snapshot, error) {
	questions := f.Questions
	if questions == nil {
		questions = []form.Question{}
	}
	payload, err := json.Marshal(questions)
	if err != nil {
		return nil, fmt.Errorf("encoding questions: %w", err)
	}

	now := Now()
	snap := &Snapshot{
		ID:        uuid.NewString(),
		Title:     f.Title,
		Source:    source,
		Questions: form.CloneQuestions(questions),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.execHook(s.db,
		`INSERT INTO snapshots (id, title, source, questions, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		snap.ID, snap.Title, snap.Source, string(payload), now, now,
	); err != nil {
		return nil, fmt.Errorf("saving snapshot: %w", err)
	}
	return snap, nil
}

// Get returns the snapshot with the given id.
func (s *Store) Get(id string) (*Snapshot, error) {
	return getSnapshot(s.db, id)
}

type rowQueryer interface {
	QueryRow(query string, args ...any) *sql.Row
}

func getSnapshot(db rowQueryer, id string) (*Snapshot, error) {
	row := db.QueryRow(
		`SELECT id, title, source, questions, created_at, updated_at
		 FROM snapshots WHERE id = ?`, id,
	)
	var snap Snapshot
	var payload string
	if err := row.Scan(&snap.ID, &snap.Title, &snap.Source, &payload, &snap.CreatedAt, &snap.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("snapshot %q: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("reading snapshot %q: %w", id, err)
	}
	if err := json.Unmarshal([]byte(payload), &snap.Questions); err != nil {
		return nil, fmt.Errorf("decoding snapshot %q: %w", id, err)
	}
	return &snap, nil
}

// List returns the most recently updated snapshots first. A limit of 0 or
// less uses the configured maximum.
func (s *Store) List(limit int) ([]Summary, error) {
	if limit <= 0 || limit > s.cfg.MaxListItems {
		limit = s.cfg.MaxListItems
	}
	rows, err := s.db.Query(
		`SELECT s.id, s.title, s.source, s.questions, s.created_at, s.updated_at,
		        (SELECT COUNT(*) FROM edits e WHERE e.snapshot_id = s.id)
		 FROM snapshots s
		 ORDER BY s.updated_at DESC, s.rowid DESC
		 LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	defer func() { _ = rows.Close() }()

	results := []Summary{}
	for rows.Next() {
		var sum Summary
		var payload string
		if err := rows.Scan(&sum.ID, &sum.Title, &sum.Source, &payload, &sum.CreatedAt, &sum.UpdatedAt, &sum.EditCount); err != nil {
			return nil, err
		}
		var qs []json.RawMessage
		if err := json.Unmarshal([]byte(payload), &qs); err != nil {
			return nil, fmt.Errorf("decoding snapshot %q: %w", sum.ID, err)
		}
		sum.QuestionCount = len(qs)
		results = append(results, sum)
	}
	return results, rows.Err()
}

// ReplaceQuestions overwrites every question of a snapshot, for example
// after a hand-off merge or a re-analysis.
func (s *Store) ReplaceQuestions(id string, questions []form.Question) (*Snapshot, error) {
	tx, err := s.beginTxHook()
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	snap, err := getSnapshot(tx, id)
	if err != nil {
		return nil, err
	}
	snap.Questions = form.CloneQuestions(questions)
	if err := s.writeQuestions(tx, snap); err != nil {
		return nil, err
	}
	if err := s.commitHook(tx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	return snap, nil
}

// UpdateFunc computes a question's new state from its stored state.
type UpdateFunc func(q form.Question) (form.Question, error)

// UpdateQuestion rewrites one question inside a transaction. update sees
// the stored question and its result is written back; when edit is not
// nil it is appended to the edit log in the same transaction. An error
// from update aborts the transaction and is returned as is.
func (s *Store) UpdateQuestion(snapshotID, questionID string, update UpdateFunc, edit *Edit) (*form.Question, error) {
	tx, err := s.beginTxHook()
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	snap, err := getSnapshot(tx, snapshotID)
	if err != nil {
		return nil, err
	}
	idx := snap.Form().FindQuestion(questionID)
	if idx < 0 {
		return nil, fmt.Errorf("question %q in snapshot %q: %w", questionID, snapshotID, ErrNotFound)
	}

	updated, err := update(snap.Questions[idx].Clone())
	if err != nil {
		return nil, err
	}
	snap.Questions[idx] = updated
	if err := s.writeQuestions(tx, snap); err != nil {
		return nil, err
	}

	if edit != nil {
		if _, err := s.execHook(tx,
			`INSERT INTO edits (snapshot_id, question_id, option_index, value, created_at)
			 VALUES (?, ?, ?, ?, ?)`,
			snapshotID, questionID, edit.OptionIndex, edit.Value, snap.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("logging edit: %w", err)
		}
	}

	if err := s.commitHook(tx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	return &updated, nil
}

func (s *Store) writeQuestions(tx *sql.Tx, snap *Snapshot) error {
	payload, err := json.Marshal(snap.Questions)
	if err != nil {
		return fmt.Errorf("encoding questions: %w", err)
	}
	snap.UpdatedAt = Now()
	if _, err := s.execHook(tx,
		`UPDATE snapshots SET questions = ?, updated_at = ? WHERE id = ?`,
		string(payload), snap.UpdatedAt, snap.ID,
	); err != nil {
		return fmt.Errorf("updating snapshot: %w", err)
	}
	return nil
}

// Delete removes a snapshot and its edit log.
func (s *Store) Delete(id string) error {
	res, err := s.execHook(s.db, `DELETE FROM snapshots WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting snapshot: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("snapshot %q: %w", id, ErrNotFound)
	}
	return nil
}

// ─── Edit log ────────────────────────────────────────────────────────────────

// Edits returns the edit log of a snapshot, oldest first.
func (s *Store) Edits(snapshotID string) ([]Edit, error) {
	rows, err := s.db.Query(
		`SELECT id, snapshot_id, question_id, option_index, value, created_at
		 FROM edits WHERE snapshot_id = ? ORDER BY id`, snapshotID,
	)
	if err != nil {
		return nil, fmt.Errorf("reading edits: %w", err)
	}
	defer func() { _ = rows.Close() }()

	results := []Edit{}
	for rows.Next() {
		var e Edit
		if err := rows.Scan(&e.ID, &e.SnapshotID, &e.QuestionID, &e.OptionIndex, &e.Value, &e.CreatedAt); err != nil {
			return nil, err
		}
		results = append(results, e)
	}
	return results, rows.Err()
}

// Now returns the current time formatted for SQLite.
func Now() string {
	return timeNow().UTC().Format("2006-01-02 15:04:05")
}
