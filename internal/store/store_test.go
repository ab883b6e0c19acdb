package store_test

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HendryAvila/formweight/internal/form"
	"github.com/HendryAvila/formweight/internal/store"
)

// newTestStore creates a Store backed by a temp directory for isolation.
func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.New(store.Config{DataDir: t.TempDir(), MaxListItems: 10})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleForm() *form.Form {
	return &form.Form{
		Title: "Campus survey",
		Questions: []form.Question{
			{
				ID: "1", EntryID: "1001", Title: "Do you own a car?", Type: form.TypeSingleSelect,
				Options: []form.Option{{Value: "Yes", Weight: form.IntPtr(75)}, {Value: "No", Weight: form.IntPtr(25)}},
			},
			{
				ID: "2", EntryID: "1002", Title: "Your name", Type: form.TypeShortText,
				Samples: []string{"Yes", "Maybe"}, PageIndex: 1,
			},
		},
	}
}

// ─── New ────────────────────────────────────────────────────────────────────

func TestNew_CreatesDataDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	s, err := store.New(store.Config{DataDir: dir})
	require.NoError(t, err)
	defer s.Close()

	assert.FileExists(t, filepath.Join(dir, "formweight.db"))
}

func TestNew_ReopenKeepsData(t *testing.T) {
	dir := t.TempDir()
	s1, err := store.New(store.Config{DataDir: dir})
	require.NoError(t, err)
	snap, err := s1.Save(sampleForm(), "page.html")
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2, err := store.New(store.Config{DataDir: dir})
	require.NoError(t, err)
	defer s2.Close()

	got, err := s2.Get(snap.ID)
	require.NoError(t, err)
	assert.Equal(t, "Campus survey", got.Title)
}

// ─── Snapshots ──────────────────────────────────────────────────────────────

func TestSaveAndGet_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	f := sampleForm()

	snap, err := s.Save(f, "page.html")
	require.NoError(t, err)
	require.NotEmpty(t, snap.ID)
	assert.Equal(t, snap.CreatedAt, snap.UpdatedAt)

	got, err := s.Get(snap.ID)
	require.NoError(t, err)
	assert.Equal(t, "page.html", got.Source)
	assert.Equal(t, f.Questions, got.Questions)
	assert.Equal(t, f.Questions, got.Form().Questions)
}

func TestSave_EmptyForm(t *testing.T) {
	s := newTestStore(t)
	snap, err := s.Save(&form.Form{Title: "Empty"}, "")
	require.NoError(t, err)

	got, err := s.Get(snap.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Questions)
}

func TestGet_NotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Get("missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestList_NewestFirstWithCounts(t *testing.T) {
	s := newTestStore(t)
	first, err := s.Save(sampleForm(), "a.html")
	require.NoError(t, err)
	second, err := s.Save(&form.Form{Title: "Second"}, "b.html")
	require.NoError(t, err)

	_, err = s.UpdateQuestion(first.ID, "1", func(q form.Question) (form.Question, error) {
		return q, nil
	}, &store.Edit{OptionIndex: 0, Value: 75})
	require.NoError(t, err)

	list, err := s.List(0)
	require.NoError(t, err)
	require.Len(t, list, 2)

	byID := map[string]store.Summary{}
	for _, sum := range list {
		byID[sum.ID] = sum
	}
	assert.Equal(t, 2, byID[first.ID].QuestionCount)
	assert.Equal(t, 1, byID[first.ID].EditCount)
	assert.Equal(t, 0, byID[second.ID].QuestionCount)
}

func TestList_Limit(t *testing.T) {
	s := newTestStore(t)
	for i := 0; i < 4; i++ {
		_, err := s.Save(&form.Form{Title: fmt.Sprintf("Form %d", i)}, "")
		require.NoError(t, err)
	}

	list, err := s.List(2)
	require.NoError(t, err)
	assert.Len(t, list, 2)
	// Same-second saves fall back to insertion order.
	assert.Equal(t, "Form 3", list[0].Title)
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)
	snap, err := s.Save(sampleForm(), "")
	require.NoError(t, err)
	_, err = s.UpdateQuestion(snap.ID, "1", func(q form.Question) (form.Question, error) {
		return q, nil
	}, &store.Edit{OptionIndex: 1, Value: 10})
	require.NoError(t, err)

	require.NoError(t, s.Delete(snap.ID))

	_, err = s.Get(snap.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	edits, err := s.Edits(snap.ID)
	require.NoError(t, err)
	assert.Empty(t, edits, "edit log should cascade")

	assert.ErrorIs(t, s.Delete(snap.ID), store.ErrNotFound)
}

// ─── Updates ────────────────────────────────────────────────────────────────

func TestUpdateQuestion_WritesAndLogs(t *testing.T) {
	s := newTestStore(t)
	snap, err := s.Save(sampleForm(), "")
	require.NoError(t, err)

	updated, err := s.UpdateQuestion(snap.ID, "1", func(q form.Question) (form.Question, error) {
		return q.WithWeights([]int{60, 40}), nil
	}, &store.Edit{OptionIndex: 0, Value: 60})
	require.NoError(t, err)
	assert.Equal(t, []int{60, 40}, updated.Weights())

	got, err := s.Get(snap.ID)
	require.NoError(t, err)
	assert.Equal(t, []int{60, 40}, got.Questions[0].Weights())
	assert.Equal(t, sampleForm().Questions[1], got.Questions[1], "other questions untouched")

	edits, err := s.Edits(snap.ID)
	require.NoError(t, err)
	require.Len(t, edits, 1)
	assert.Equal(t, "1", edits[0].QuestionID)
	assert.Equal(t, 0, edits[0].OptionIndex)
	assert.Equal(t, 60, edits[0].Value)
}

func TestUpdateQuestion_ErrorAbortsTransaction(t *testing.T) {
	s := newTestStore(t)
	snap, err := s.Save(sampleForm(), "")
	require.NoError(t, err)

	boom := errors.New("boom")
	_, err = s.UpdateQuestion(snap.ID, "1", func(q form.Question) (form.Question, error) {
		return form.Question{}, boom
	}, &store.Edit{OptionIndex: 0, Value: 1})
	require.ErrorIs(t, err, boom)

	got, err := s.Get(snap.ID)
	require.NoError(t, err)
	assert.Equal(t, []int{75, 25}, got.Questions[0].Weights())
	edits, err := s.Edits(snap.ID)
	require.NoError(t, err)
	assert.Empty(t, edits)
}

func TestUpdateQuestion_NotFound(t *testing.T) {
	s := newTestStore(t)
	snap, err := s.Save(sampleForm(), "")
	require.NoError(t, err)

	noop := func(q form.Question) (form.Question, error) { return q, nil }

	_, err = s.UpdateQuestion("missing", "1", noop, nil)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.UpdateQuestion(snap.ID, "99", noop, nil)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpdateQuestion_ConcurrentEditsAllLand(t *testing.T) {
	s := newTestStore(t)
	snap, err := s.Save(sampleForm(), "")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(v int) {
			defer wg.Done()
			_, err := s.UpdateQuestion(snap.ID, "1", func(q form.Question) (form.Question, error) {
				return q.WithWeights([]int{v, 100 - v}), nil
			}, &store.Edit{OptionIndex: 0, Value: v})
			assert.NoError(t, err)
		}(10 + i)
	}
	wg.Wait()

	edits, err := s.Edits(snap.ID)
	require.NoError(t, err)
	assert.Len(t, edits, 8)

	got, err := s.Get(snap.ID)
	require.NoError(t, err)
	last := edits[len(edits)-1].Value
	assert.Equal(t, []int{last, 100 - last}, got.Questions[0].Weights(), "last write wins")
}

func TestReplaceQuestions(t *testing.T) {
	s := newTestStore(t)
	snap, err := s.Save(sampleForm(), "")
	require.NoError(t, err)

	qs := sampleForm().Questions
	qs[0] = qs[0].WithWeights([]int{50, 50})
	updated, err := s.ReplaceQuestions(snap.ID, qs)
	require.NoError(t, err)
	assert.Equal(t, qs, updated.Questions)

	got, err := s.Get(snap.ID)
	require.NoError(t, err)
	assert.Equal(t, []int{50, 50}, got.Questions[0].Weights())

	_, err = s.ReplaceQuestions("missing", qs)
	assert.ErrorIs(t, err, store.ErrNotFound)
}
