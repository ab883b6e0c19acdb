// Package dependency keeps related demographic questions consistent with
// each other.
//
// The resolver looks for one age, profession, income and education
// question and, when the age question offers an under-18 bracket, pulls
// the other three toward what a young audience would answer: fewer
// working professionals, fewer high earners, fewer post-graduates.
package dependency

import (
	"math"

	"github.com/HendryAvila/formweight/internal/classify"
	"github.com/HendryAvila/formweight/internal/form"
	"github.com/HendryAvila/formweight/internal/weights"
)

const (
	// youngMassThreshold is the combined under-18 and 18-25 weight above
	// which the audience counts as young.
	youngMassThreshold = 40
	// studentMassThreshold is the student weight above which income is
	// pulled down.
	studentMassThreshold = 35
)

// step is one per-option adjustment. A suppression (scale > 0) multiplies
// the weight and clamps it to at least floor; a boost (scale == 0) raises
// the weight to at least floor.
type step struct {
	class classify.OptionClass
	scale float64
	floor int
}

func suppress(c classify.OptionClass, scale float64, floor int) step {
	return step{class: c, scale: scale, floor: floor}
}

func boost(c classify.OptionClass, least int) step {
	return step{class: c, floor: least}
}

var (
	youngProfession = []step{
		suppress(classify.ClassWorking, 0.3, 2),
		boost(classify.ClassStudent, 40),
	}
	youngRetired = suppress(classify.ClassRetired, 0.15, 1)

	youngIncome = []step{
		suppress(classify.ClassHighIncome, 0.1, 1),
		boost(classify.ClassLowIncome, 35),
	}
	studentIncome = []step{
		suppress(classify.ClassHighIncome, 0.2, 1),
		boost(classify.ClassLowIncome, 30),
	}
	youngEducation = []step{
		suppress(classify.ClassPostGraduate, 0.05, 1),
		boost(classify.ClassSchool, 40),
	}
)

// Resolver applies the cross-question rules using a Classifier.
type Resolver struct {
	classifier *classify.Classifier
}

// New creates a Resolver. A nil classifier means classify.Default().
func New(c *classify.Classifier) *Resolver {
	if c == nil {
		c = classify.Default()
	}
	return &Resolver{classifier: c}
}

// Resolve runs the rules with the default classifier.
func Resolve(questions []form.Question) []form.Question {
	return New(nil).Resolve(questions)
}

// AgeProfile summarizes the age question.
type AgeProfile struct {
	HasUnder18 bool
	// Young is true when under-18 plus young-adult weight exceeds 40.
	Young bool
}

// Resolve returns a copy of questions with the group rules applied.
// Questions outside the detected groups come back unchanged.
func (r *Resolver) Resolve(questions []form.Question) []form.Question {
	out := form.CloneQuestions(questions)

	age := r.find(out, classify.GroupAge)
	prof := r.find(out, classify.GroupProfession)
	income := r.find(out, classify.GroupIncome)
	edu := r.find(out, classify.GroupEducation)

	if age < 0 && prof < 0 && income < 0 && edu < 0 {
		return out
	}

	// The student share is taken from the input, before the age rules
	// raise it.
	studentMass := 0
	if prof >= 0 {
		studentMass = r.mass(out[prof], classify.ClassStudent)
	}

	var profile AgeProfile
	if age >= 0 {
		profile = r.Profile(out[age])
	}

	if prof >= 0 && profile.HasUnder18 {
		steps := youngProfession
		if profile.Young {
			steps = append(append([]step(nil), steps...), youngRetired)
		}
		out[prof] = r.adjust(out[prof], steps)
	}

	if income >= 0 && profile.HasUnder18 {
		out[income] = r.adjust(out[income], youngIncome)
	}

	if income >= 0 && prof >= 0 && studentMass > studentMassThreshold {
		out[income] = r.adjust(out[income], studentIncome)
	}

	if edu >= 0 && profile.HasUnder18 {
		out[edu] = r.adjust(out[edu], youngEducation)
	}

	return out
}

// Profile classifies the age question's weight mass.
func (r *Resolver) Profile(q form.Question) AgeProfile {
	var p AgeProfile
	young := 0
	for _, o := range q.Options {
		if r.classifier.Is(o.Value, classify.ClassUnder18) {
			p.HasUnder18 = true
			young += o.WeightOf()
			continue
		}
		if r.classifier.Is(o.Value, classify.ClassYoungAdult) {
			young += o.WeightOf()
		}
	}
	p.Young = young > youngMassThreshold
	return p
}

// find returns the index of the first question in group g that has
// options, or -1.
func (r *Resolver) find(qs []form.Question, g classify.Group) int {
	for i, q := range qs {
		if len(q.Options) > 0 && r.classifier.InGroup(q.Title, g) {
			return i
		}
	}
	return -1
}

func (r *Resolver) mass(q form.Question, c classify.OptionClass) int {
	total := 0
	for _, o := range q.Options {
		if r.classifier.Is(o.Value, c) {
			total += o.WeightOf()
		}
	}
	return total
}

// adjust applies steps to every matching option and renormalizes. Options
// left suppressed keep their value; the rest are scaled to fill 100.
func (r *Resolver) adjust(q form.Question, steps []step) form.Question {
	ws := q.Weights()
	pinned := make([]bool, len(ws))
	for i, o := range q.Options {
		for _, s := range steps {
			if !r.classifier.Is(o.Value, s.class) {
				continue
			}
			if s.scale > 0 {
				ws[i] = max(s.floor, int(math.Round(float64(ws[i])*s.scale)))
				pinned[i] = true
				continue
			}
			if ws[i] < s.floor {
				ws[i] = s.floor
				pinned[i] = false
			}
		}
	}
	return q.WithWeights(weights.NormalizeKeeping(ws, pinned))
}
