package handoff

import (
	"golang.org/x/text/cases"

	"github.com/HendryAvila/formweight/internal/form"
	"github.com/HendryAvila/formweight/internal/weights"
)

// Merge folds parsed entries into questions and returns new questions.
//
// A question matches the first entry whose id equals its id or its
// title. Its options take the weight of the entry option with the same
// text, compared case-insensitively; options the entry does not mention
// get 0. Samples are taken from the entry as they are. Questions no entry
// matches fall back to engine weights.
func Merge(questions []form.Question, entries []Entry) []form.Question {
	fold := cases.Fold()
	out := make([]form.Question, len(questions))
	for i, q := range questions {
		e, ok := findEntry(entries, q)
		if !ok {
			out[i] = weights.Apply(q)
			continue
		}

		m := q.Clone()
		byValue := make(map[string]int, len(e.Options))
		for _, o := range e.Options {
			key := fold.String(o.Value)
			if _, seen := byValue[key]; !seen {
				byValue[key] = clampWeight(o.Weight)
			}
		}
		for j := range m.Options {
			m.Options[j].Weight = form.IntPtr(byValue[fold.String(m.Options[j].Value)])
		}
		m.Samples = nil
		if len(e.Samples) > 0 {
			m.Samples = append([]string(nil), e.Samples...)
		}
		out[i] = m
	}
	return out
}

func findEntry(entries []Entry, q form.Question) (Entry, bool) {
	for _, e := range entries {
		if e.ID == q.ID || e.ID == q.Title {
			return e, true
		}
	}
	return Entry{}, false
}

func clampWeight(w int) int {
	return max(0, min(weights.Total, w))
}
