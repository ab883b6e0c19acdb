package tools

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/HendryAvila/formweight/internal/form"
	"github.com/HendryAvila/formweight/internal/redistribute"
	"github.com/HendryAvila/formweight/internal/store"
)

var errNoOptions = errors.New("question has no options")

// Editor applies manual weight edits to stored questions.
//
// Edits to one (snapshot, question) pair are serialized. With a zero
// delay every edit is written in its own transaction. Otherwise the
// editor keeps a working copy of the question, answers from it at once,
// and writes the latest state after delay of quiet; the edit log then
// records the last edit of each burst.
type Editor struct {
	store  *store.Store
	delay  time.Duration
	logger *zap.Logger

	mu       sync.Mutex
	sessions map[editKey]*session
}

type editKey struct {
	snapshot string
	question string
}

// session is the per-question state of the Editor.
type session struct {
	mu       sync.Mutex // serializes edits to this question
	closed   bool
	current  *form.Question // working copy, nil until the first delayed edit
	debounce *redistribute.Debouncer

	recMu sync.Mutex // guards last and err, read from the timer goroutine
	last  *store.Edit
	err   error
}

// NewEditor creates an Editor. A nil logger is replaced with a no-op one.
func NewEditor(s *store.Store, delay time.Duration, logger *zap.Logger) *Editor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Editor{store: s, delay: delay, logger: logger, sessions: map[editKey]*session{}}
}

// Adjust sets option k of a question to v and rebalances the others.
func (e *Editor) Adjust(snapshotID, questionID string, k, v int) (*form.Question, error) {
	return e.edit(snapshotID, questionID, func(q form.Question) (form.Question, error) {
		opts, err := redistribute.Apply(q.Options, k, v)
		if err != nil {
			return q, err
		}
		q.Options = opts
		return q, nil
	}, &store.Edit{OptionIndex: k, Value: v})
}

// Balance spreads a question's weights evenly. It is not logged as an edit.
func (e *Editor) Balance(snapshotID, questionID string) (*form.Question, error) {
	return e.edit(snapshotID, questionID, func(q form.Question) (form.Question, error) {
		if len(q.Options) == 0 {
			return q, fmt.Errorf("question %q: %w", questionID, errNoOptions)
		}
		q.Options = redistribute.Balance(q.Options)
		return q, nil
	}, nil)
}

func (e *Editor) edit(snapshotID, questionID string, update store.UpdateFunc, rec *store.Edit) (*form.Question, error) {
	key := editKey{snapshotID, questionID}
	for {
		s := e.session(key)
		s.mu.Lock()
		if s.closed {
			// Flushed and dropped between lookup and lock; take a fresh one.
			s.mu.Unlock()
			continue
		}
		q, err := e.editLocked(key, s, update, rec)
		s.mu.Unlock()
		return q, err
	}
}

// editLocked runs with s.mu held.
func (e *Editor) editLocked(key editKey, s *session, update store.UpdateFunc, rec *store.Edit) (*form.Question, error) {
	if e.delay <= 0 {
		return e.store.UpdateQuestion(key.snapshot, key.question, update, rec)
	}

	if s.current == nil {
		q, err := e.load(key)
		if err != nil {
			return nil, err
		}
		s.current = q
	}
	updated, err := update(s.current.Clone())
	if err != nil {
		return nil, err
	}
	s.current = &updated

	// The burst logs its last edit; an unlogged one (balance) clears it.
	s.recMu.Lock()
	s.last = nil
	if rec != nil {
		s.last = &store.Edit{OptionIndex: rec.OptionIndex, Value: rec.Value}
	}
	s.recMu.Unlock()
	s.debounce.Trigger(updated.Options)

	out := updated.Clone()
	return &out, nil
}

func (e *Editor) load(key editKey) (*form.Question, error) {
	snap, err := e.store.Get(key.snapshot)
	if err != nil {
		return nil, err
	}
	idx := snap.Form().FindQuestion(key.question)
	if idx < 0 {
		return nil, fmt.Errorf("question %q in snapshot %q: %w", key.question, key.snapshot, store.ErrNotFound)
	}
	q := snap.Questions[idx].Clone()
	return &q, nil
}

func (e *Editor) session(key editKey) *session {
	e.mu.Lock()
	defer e.mu.Unlock()
	if s, ok := e.sessions[key]; ok {
		return s
	}
	s := &session{}
	s.debounce = redistribute.NewDebouncer(e.delay, func(opts []form.Option) {
		e.persist(key, s, opts)
	})
	e.sessions[key] = s
	return s
}

// persist writes a debounced option vector. It runs on the timer goroutine
// or inside Flush.
func (e *Editor) persist(key editKey, s *session, opts []form.Option) {
	s.recMu.Lock()
	rec := s.last
	s.last = nil
	s.recMu.Unlock()

	_, err := e.store.UpdateQuestion(key.snapshot, key.question, func(q form.Question) (form.Question, error) {
		if len(q.Options) != len(opts) {
			return q, fmt.Errorf("question %q changed shape while an edit was pending", key.question)
		}
		q.Options = form.CloneOptions(opts)
		return q, nil
	}, rec)
	if err != nil {
		e.logger.Warn("persisting weight edit failed",
			zap.String("snapshot", key.snapshot),
			zap.String("question", key.question),
			zap.Error(err),
		)
	}

	s.recMu.Lock()
	s.err = err
	s.recMu.Unlock()
}

// Flush writes every pending edit of a snapshot and forgets its working
// copies, so the next read sees the store. An empty id flushes everything.
func (e *Editor) Flush(snapshotID string) error {
	// e.mu stays held so no new working copy is loaded before the old
	// one is written. Lock order is e.mu then session.mu.
	e.mu.Lock()
	defer e.mu.Unlock()

	var errs []error
	for key, s := range e.sessions {
		if snapshotID != "" && key.snapshot != snapshotID {
			continue
		}
		delete(e.sessions, key)

		s.mu.Lock()
		s.closed = true
		s.debounce.Flush()
		s.debounce.Stop()
		s.mu.Unlock()

		s.recMu.Lock()
		if s.err != nil {
			errs = append(errs, s.err)
		}
		s.recMu.Unlock()
	}
	return errors.Join(errs...)
}

// Close flushes all pending edits.
func (e *Editor) Close() error {
	return e.Flush("")
}
