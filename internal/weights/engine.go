// Package weights assigns synthetic response distributions to questions.
//
// Assign picks a weight vector for one question from its title and option
// text. The decision order is fixed and the first match wins:
//
//  1. gender/sex special case
//  2. Likert scale template
//  3. negative-option suppression
//  4. named demographic pattern
//  5. yes/no bias
//  6. generic bell curve
//  7. uniform split
//
// Every path ends with a drift correction, so a non-empty result always
// sums to exactly 100.
package weights

import (
	"math"
	"strings"

	"github.com/HendryAvila/formweight/internal/classify"
	"github.com/HendryAvila/formweight/internal/form"
)

// Engine computes weight vectors. The zero value is not usable; use
// NewEngine or the package-level helpers.
type Engine struct {
	classifier *classify.Classifier
	patterns   []Pattern
}

// NewEngine creates an Engine with the given classifier and patterns.
func NewEngine(c *classify.Classifier, patterns []Pattern) *Engine {
	return &Engine{classifier: c, patterns: patterns}
}

var defaultEngine = NewEngine(classify.Default(), DefaultPatterns())

// Default returns the engine backed by the English classifier.
func Default() *Engine {
	return defaultEngine
}

// Assign returns a weight vector for the options using the default engine.
func Assign(title string, options []string) []int {
	return defaultEngine.Assign(title, options)
}

// Apply returns a copy of q with weights from the default engine.
func Apply(q form.Question) form.Question {
	return defaultEngine.Apply(q)
}

// Apply returns a copy of q with every option weighted. Questions without
// options are returned unchanged.
func (e *Engine) Apply(q form.Question) form.Question {
	if len(q.Options) == 0 {
		return q.Clone()
	}
	return q.WithWeights(e.Assign(q.Title, q.Values()))
}

// Assign returns one integer weight per option, summing to 100.
func (e *Engine) Assign(title string, options []string) []int {
	if len(options) == 0 {
		return []int{}
	}
	return correctDrift(e.pick(title, options))
}

func (e *Engine) pick(title string, options []string) []int {
	n := len(options)

	if e.classifier.IsGenderQuestion(title) {
		return e.genderWeights(options)
	}

	if e.classifier.IsLikertScale(options) {
		if tpl, ok := likertTemplates[n]; ok {
			return clone(tpl)
		}
	}

	if ws, ok := e.suppressNegatives(options); ok {
		return ws
	}

	if tpl, ok := e.matchPattern(title, n); ok {
		return tpl
	}

	if n == 2 && e.classifier.IsBinaryAnswer(options[0]) {
		return clone(binaryTemplate)
	}

	if tpl, ok := bellTemplates[n]; ok {
		return clone(tpl)
	}

	return Uniform(n)
}

// genderWeights gives each option a base score of 49, opt-out options 2,
// and scales the scores to percentages.
func (e *Engine) genderWeights(options []string) []int {
	scores := make([]int, len(options))
	total := 0
	for i, o := range options {
		scores[i] = genderBase
		if e.classifier.IsOptOut(o) {
			scores[i] = optOutBase
		}
		total += scores[i]
	}
	out := make([]int, len(scores))
	for i, s := range scores {
		out[i] = int(math.Round(float64(s) / float64(total) * 100))
	}
	return out
}

// suppressNegatives gives negative-sentiment options a fixed low share and
// splits the rest evenly over the other options, the last one absorbing
// the remainder. ok is false when no option is negative or nothing is left
// to share out.
func (e *Engine) suppressNegatives(options []string) ([]int, bool) {
	ws := make([]int, len(options))
	assigned := 0
	var rest []int
	negatives := 0

	for i, o := range options {
		switch e.classifier.SentimentOf(o) {
		case classify.SentimentStrongNegative:
			ws[i] = strongNegPct
			negatives++
		case classify.SentimentMildNegative:
			ws[i] = mildNegPct
			negatives++
		default:
			rest = append(rest, i)
		}
		assigned += ws[i]
	}

	if negatives == 0 || len(rest) == 0 || assigned >= 100 {
		return nil, false
	}

	remaining := 100 - assigned
	chunk := remaining / len(rest)
	for j, idx := range rest {
		if j == len(rest)-1 {
			ws[idx] = remaining - chunk*(len(rest)-1)
		} else {
			ws[idx] = chunk
		}
	}
	return ws, true
}

// matchPattern finds the first pattern whose keyword occurs in the title.
// Only that pattern is considered.
func (e *Engine) matchPattern(title string, n int) ([]int, bool) {
	upper := strings.ToUpper(title)
	for _, p := range e.patterns {
		if !hasKeyword(upper, p.Keywords) {
			continue
		}
		if len(p.Template) == n {
			return clone(p.Template), true
		}
		return nil, false
	}
	return nil, false
}

func hasKeyword(upper string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(upper, k) {
			return true
		}
	}
	return false
}

// correctDrift adds any difference from 100 to the last weight.
func correctDrift(ws []int) []int {
	if len(ws) == 0 {
		return ws
	}
	if diff := 100 - Sum(ws); diff != 0 {
		ws[len(ws)-1] += diff
	}
	return ws
}

func clone(ws []int) []int {
	return append([]int(nil), ws...)
}
