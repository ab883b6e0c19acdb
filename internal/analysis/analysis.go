// Package analysis runs the weighting stages over a decoded form.
//
// The pipeline is: weight engine per question, then (optionally) the
// cross-question dependency resolver over the whole list, then default
// text suggestions for free-text questions. Every stage works on a copy;
// the input form is never modified.
package analysis

import (
	"github.com/HendryAvila/formweight/internal/dependency"
	"github.com/HendryAvila/formweight/internal/form"
	"github.com/HendryAvila/formweight/internal/weights"
)

// DefaultTextSuggestions are attached to free-text questions that have no
// samples of their own.
var DefaultTextSuggestions = []string{"Yes", "Maybe", "No", "Not Sure"}

// Options controls which stages run.
type Options struct {
	// ResolveDependencies runs the cross-question resolver after the
	// engine. The two stages are independent; callers that want the
	// engine output untouched turn it off.
	ResolveDependencies bool

	// Engine and Resolver default to the English classifiers when nil.
	Engine   *weights.Engine
	Resolver *dependency.Resolver
}

// DefaultOptions runs every stage with the default classifiers.
func DefaultOptions() Options {
	return Options{ResolveDependencies: true}
}

// Analyze weights every question of f and returns the result as a new
// form.
func Analyze(f *form.Form, opts Options) *form.Form {
	engine := opts.Engine
	if engine == nil {
		engine = weights.Default()
	}

	out := &form.Form{Title: f.Title, Questions: make([]form.Question, len(f.Questions))}
	for i, q := range f.Questions {
		out.Questions[i] = engine.Apply(q)
	}

	if opts.ResolveDependencies {
		resolver := opts.Resolver
		if resolver == nil {
			resolver = dependency.New(nil)
		}
		out.Questions = resolver.Resolve(out.Questions)
	}

	for i := range out.Questions {
		q := &out.Questions[i]
		if q.Type.IsFreeText() && len(q.Samples) == 0 {
			q.Samples = append([]string(nil), DefaultTextSuggestions...)
		}
	}
	return out
}
