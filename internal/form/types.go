// Package form defines the canonical survey model shared by the decoder,
// the weight engine, the dependency resolver and the redistribution step.
//
// A Form is produced once per decode. Its structure (ids, titles, option
// text) never changes afterwards; only option weights are rewritten, and
// every stage works on a Clone so earlier results stay intact.
package form

import "fmt"

// --- Question type enum ---

// QuestionType is the closed set of question kinds the decoder recognizes.
type QuestionType string

const (
	TypeShortText    QuestionType = "SHORT_ANSWER"
	TypeLongText     QuestionType = "PARAGRAPH"
	TypeSingleSelect QuestionType = "MULTIPLE_CHOICE"
	TypeMultiSelect  QuestionType = "CHECKBOXES"
	TypeDropdown     QuestionType = "DROPDOWN"
	TypeLinearScale  QuestionType = "LINEAR_SCALE"
	TypeGrid         QuestionType = "GRID"
	TypeDate         QuestionType = "DATE"
	TypeTime         QuestionType = "TIME"
	TypeUnrecognized QuestionType = "UNKNOWN"
)

// validTypes is the set of allowed question types.
var validTypes = map[QuestionType]bool{
	TypeShortText:    true,
	TypeLongText:     true,
	TypeSingleSelect: true,
	TypeMultiSelect:  true,
	TypeDropdown:     true,
	TypeLinearScale:  true,
	TypeGrid:         true,
	TypeDate:         true,
	TypeTime:         true,
	TypeUnrecognized: true,
}

// ValidateType returns an error if the type is not recognized.
func ValidateType(t QuestionType) error {
	if !validTypes[t] {
		return fmt.Errorf("invalid question type %q", t)
	}
	return nil
}

// IsFreeText reports whether answers to this type are typed, not picked.
func (t QuestionType) IsFreeText() bool {
	return t == TypeShortText || t == TypeLongText
}

// IsChoice reports whether the type presents a list of options to pick from.
func (t QuestionType) IsChoice() bool {
	return t == TypeSingleSelect || t == TypeMultiSelect || t == TypeDropdown
}

// --- Model ---

// Option is one selectable answer. Weight is nil until a weighting stage
// has run.
type Option struct {
	Value  string `json:"value"`
	Weight *int   `json:"weight,omitempty"`
}

// Question is one decoded form item.
type Question struct {
	ID        string       `json:"id"`
	EntryID   string       `json:"entry_id"`
	Title     string       `json:"title"`
	Type      QuestionType `json:"type"`
	Options   []Option     `json:"options"`
	Required  bool         `json:"required"`
	PageIndex int          `json:"page_index"`
	Samples   []string     `json:"samples,omitempty"`
}

// Form is the decoder output: a title and its questions in source order.
type Form struct {
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
}

// IntPtr returns a pointer to v. Used to set Option.Weight.
func IntPtr(v int) *int {
	return &v
}

// WeightOf returns the option weight, or 0 when it is unset.
func (o Option) WeightOf() int {
	if o.Weight == nil {
		return 0
	}
	return *o.Weight
}

// Values returns the option texts in order.
func (q Question) Values() []string {
	out := make([]string, len(q.Options))
	for i, o := range q.Options {
		out[i] = o.Value
	}
	return out
}

// Weights returns the option weights in order, unset weights as 0.
func (q Question) Weights() []int {
	out := make([]int, len(q.Options))
	for i, o := range q.Options {
		out[i] = o.WeightOf()
	}
	return out
}

// Weighted reports whether every option carries a weight.
func (q Question) Weighted() bool {
	if len(q.Options) == 0 {
		return false
	}
	for _, o := range q.Options {
		if o.Weight == nil {
			return false
		}
	}
	return true
}

// WithWeights returns a copy of q whose options carry ws. ws must have
// the same length as q.Options.
func (q Question) WithWeights(ws []int) Question {
	out := q.Clone()
	for i := range out.Options {
		out.Options[i].Weight = IntPtr(ws[i])
	}
	return out
}

// Clone returns a deep copy of the question.
func (q Question) Clone() Question {
	out := q
	out.Options = CloneOptions(q.Options)
	if q.Samples != nil {
		out.Samples = append([]string(nil), q.Samples...)
	}
	return out
}

// CloneOptions deep-copies an option slice, including weight pointers.
func CloneOptions(opts []Option) []Option {
	if opts == nil {
		return nil
	}
	out := make([]Option, len(opts))
	for i, o := range opts {
		out[i] = Option{Value: o.Value}
		if o.Weight != nil {
			out[i].Weight = IntPtr(*o.Weight)
		}
	}
	return out
}

// CloneQuestions deep-copies a question list.
func CloneQuestions(qs []Question) []Question {
	if qs == nil {
		return nil
	}
	out := make([]Question, len(qs))
	for i, q := range qs {
		out[i] = q.Clone()
	}
	return out
}

// Clone returns a deep copy of the form.
func (f *Form) Clone() *Form {
	return &Form{Title: f.Title, Questions: CloneQuestions(f.Questions)}
}

// FindQuestion returns the index of the question with the given id, or -1.
func (f *Form) FindQuestion(id string) int {
	for i, q := range f.Questions {
		if q.ID == id {
			return i
		}
	}
	return -1
}
