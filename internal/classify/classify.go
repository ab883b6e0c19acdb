// Package classify holds every text heuristic used by the weighting stages.
//
// The weight engine and the dependency resolver never match text
// themselves; they ask a Classifier. Keyword lists and patterns are
// English and tuned for typical student/consumer surveys, so a localized
// deployment swaps the Lexicon and pattern tables without touching the
// engine or resolver.
package classify

import (
	"regexp"
	"strings"
)

// Group is a question category that takes part in cross-question rules.
type Group int

const (
	GroupAge Group = iota
	GroupProfession
	GroupIncome
	GroupEducation
)

func (g Group) String() string {
	switch g {
	case GroupAge:
		return "age"
	case GroupProfession:
		return "profession"
	case GroupIncome:
		return "income"
	case GroupEducation:
		return "education"
	default:
		return "unknown"
	}
}

// Groups lists every group in resolution order.
func Groups() []Group {
	return []Group{GroupAge, GroupProfession, GroupIncome, GroupEducation}
}

// OptionClass is a semantic label for an option's text.
type OptionClass int

const (
	ClassUnder18 OptionClass = iota
	ClassYoungAdult
	ClassStudent
	ClassWorking
	ClassRetired
	ClassHighIncome
	ClassLowIncome
	ClassPostGraduate
	ClassSchool
)

// Sentiment grades how negative an option reads.
type Sentiment int

const (
	SentimentNeutral Sentiment = iota
	SentimentMildNegative
	SentimentStrongNegative
)

// Lexicon is the lower-case substring vocabulary used by the weight engine.
type Lexicon struct {
	GenderTitle    []string // title markers for the gender special case
	OptOut         []string // "other" / "prefer not to say" class options
	Likert         []string // markers of an agree/disagree or likelihood scale
	StrongNegative []string
	MildNegative   []string
	Binary         []string // first-option markers of a yes/no question
}

// DefaultLexicon returns the English vocabulary.
func DefaultLexicon() Lexicon {
	return Lexicon{
		GenderTitle:    []string{"gender", "sex"},
		OptOut:         []string{"prefer", "say", "other"},
		Likert:         []string{"strongly disagree", "don't agree", "don’t agree", "strongly agree", "highly likely"},
		StrongNegative: []string{"strongly disagree", "very unsatisfied", "poor"},
		MildNegative:   []string{"disagree", "unsatisfied", "bad"},
		Binary:         []string{"yes", "no", "true", "false"},
	}
}

// Classifier answers every "what is this text" question the weighting
// stages ask.
type Classifier struct {
	lex     Lexicon
	groups  map[Group]*regexp.Regexp
	classes map[OptionClass]*regexp.Regexp
}

// New builds a Classifier from a lexicon and pattern tables. Missing
// entries never match.
func New(lex Lexicon, groups map[Group]*regexp.Regexp, classes map[OptionClass]*regexp.Regexp) *Classifier {
	return &Classifier{lex: lex, groups: groups, classes: classes}
}

var defaultClassifier = New(DefaultLexicon(), defaultGroupPatterns, defaultClassPatterns)

// Default returns the shared English classifier. It is immutable and
// safe for concurrent use.
func Default() *Classifier {
	return defaultClassifier
}

// InGroup reports whether a question title belongs to g.
func (c *Classifier) InGroup(title string, g Group) bool {
	re, ok := c.groups[g]
	return ok && re.MatchString(title)
}

// Is reports whether an option's text carries the class label.
func (c *Classifier) Is(value string, cls OptionClass) bool {
	re, ok := c.classes[cls]
	return ok && re.MatchString(value)
}

// IsGenderQuestion reports whether the title asks for gender or sex.
func (c *Classifier) IsGenderQuestion(title string) bool {
	return containsAny(title, c.lex.GenderTitle)
}

// IsOptOut reports whether the option is an "other"/"prefer not to say"
// style answer.
func (c *Classifier) IsOptOut(value string) bool {
	return containsAny(value, c.lex.OptOut)
}

// IsLikertScale reports whether any option marks an agreement or
// likelihood scale.
func (c *Classifier) IsLikertScale(values []string) bool {
	for _, v := range values {
		if containsAny(v, c.lex.Likert) {
			return true
		}
	}
	return false
}

// SentimentOf grades an option. Strong markers are checked first because
// "strongly disagree" also contains the mild marker.
func (c *Classifier) SentimentOf(value string) Sentiment {
	switch {
	case containsAny(value, c.lex.StrongNegative):
		return SentimentStrongNegative
	case containsAny(value, c.lex.MildNegative):
		return SentimentMildNegative
	default:
		return SentimentNeutral
	}
}

// IsBinaryAnswer reports whether an option reads like yes/no/true/false.
func (c *Classifier) IsBinaryAnswer(value string) bool {
	return containsAny(value, c.lex.Binary)
}

func containsAny(s string, needles []string) bool {
	s = strings.ToLower(s)
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
