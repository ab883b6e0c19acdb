package weights

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/HendryAvila/formweight/internal/form"
)

// --- Decision order ---

func TestAssign_DecisionOrder(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		options []string
		want    []int
	}{
		{
			name:    "gender with opt-out",
			title:   "What is your gender?",
			options: []string{"Male", "Female", "Prefer not to say"},
			want:    []int{49, 49, 2},
		},
		{
			name:    "five point likert",
			title:   "The course was useful",
			options: []string{"Strongly disagree", "Disagree", "Neutral", "Agree", "Strongly agree"},
			want:    []int{5, 10, 20, 45, 20},
		},
		{
			name:    "four point likert",
			title:   "I would recommend it",
			options: []string{"Don't agree", "Neutral", "Agree", "Strongly agree"},
			want:    []int{5, 15, 50, 30},
		},
		{
			name:    "seven point likert",
			title:   "Statement",
			options: []string{"Strongly disagree", "Disagree", "Somewhat disagree", "Neutral", "Somewhat agree", "Agree", "Strongly agree"},
			want:    []int{3, 5, 10, 22, 35, 15, 10},
		},
		{
			name:    "likert of unsupported size falls to suppression",
			title:   "Statement",
			options: []string{"Strongly disagree", "Neutral", "Strongly agree"},
			want:    []int{5, 47, 48},
		},
		{
			name:    "negative suppression",
			title:   "How was the service?",
			options: []string{"Excellent", "Good", "Poor", "Bad"},
			want:    []int{42, 43, 5, 10},
		},
		{
			name:    "age pattern",
			title:   "What is your age?",
			options: []string{"Under 18", "18-24", "25-34", "35-44", "45-54", "55+"},
			want:    []int{8, 25, 35, 20, 8, 4},
		},
		{
			name:    "satisfaction pattern",
			title:   "Overall satisfaction",
			options: []string{"1", "2", "3", "4", "5"},
			want:    []int{3, 7, 15, 45, 30},
		},
		{
			name:    "pattern length mismatch uses bell curve",
			title:   "What is your age?",
			options: []string{"Young", "Middle", "Older"},
			want:    []int{20, 55, 25},
		},
		{
			name:    "yes no bias",
			title:   "Do you own a car?",
			options: []string{"Yes", "No"},
			want:    []int{75, 25},
		},
		{
			name:    "two non binary options split evenly",
			title:   "Pet preference",
			options: []string{"Cats", "Dogs"},
			want:    []int{50, 50},
		},
		{
			name:    "four option bell",
			title:   "Preferred slot",
			options: []string{"Morning", "Noon", "Evening", "Night"},
			want:    []int{10, 35, 40, 15},
		},
		{
			name:    "uniform fallback",
			title:   "Pick a colour",
			options: []string{"Red", "Blue", "Green", "Yellow", "Pink", "Black"},
			want:    []int{16, 16, 16, 16, 16, 20},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Assign(tt.title, tt.options)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Assign mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAssign_Empty(t *testing.T) {
	if got := Assign("Anything", nil); len(got) != 0 {
		t.Errorf("Assign(nil) = %v, want empty", got)
	}
}

// --- WeightSum invariant ---

func TestAssign_AlwaysSumsTo100WithFloor(t *testing.T) {
	cases := []struct {
		title   string
		options []string
	}{
		{"Gender", []string{"Male", "Female", "Non-binary", "Other"}},
		{"Sex", []string{"Male", "Female", "Other", "Prefer not to say"}},
		{"Rate us", []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10"}},
		{"Feedback", []string{"Poor", "Bad", "Okay"}},
		{"Choose", []string{"Only"}},
		{"Year of study", []string{"1st", "2nd", "3rd", "4th", "5th", "PhD"}},
		{"Days", []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}},
	}
	for _, c := range cases {
		ws := Assign(c.title, c.options)
		if len(ws) != len(c.options) {
			t.Fatalf("%s: got %d weights for %d options", c.title, len(ws), len(c.options))
		}
		if err := Validate(ws); err != nil {
			t.Errorf("%s: %v (weights %v)", c.title, err, ws)
		}
		for i, w := range ws {
			if w < 1 {
				t.Errorf("%s: option %d has weight %d, want >= 1", c.title, i, w)
			}
		}
	}
}

func TestAssign_GenderRoundingDrift(t *testing.T) {
	// 49*3 + 2 = 149; rounded shares are 33,33,33,1.
	ws := Assign("Gender", []string{"Male", "Female", "Non-binary", "Other"})
	want := []int{33, 33, 33, 1}
	if diff := cmp.Diff(want, ws); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

// --- Apply ---

func TestApply_SetsWeights(t *testing.T) {
	q := form.Question{
		ID:      "q1",
		Title:   "Do you agree?",
		Options: []form.Option{{Value: "Yes"}, {Value: "No"}},
	}
	got := Apply(q)
	if !got.Weighted() {
		t.Fatal("Apply should weight every option")
	}
	if got.Options[0].WeightOf() != 75 || got.Options[1].WeightOf() != 25 {
		t.Errorf("weights = %v, want [75 25]", got.Weights())
	}
	if q.Options[0].Weight != nil {
		t.Error("Apply mutated its input")
	}
}

func TestApply_FreeTextUnchanged(t *testing.T) {
	q := form.Question{ID: "q2", Title: "Name", Type: form.TypeShortText}
	got := Apply(q)
	if len(got.Options) != 0 {
		t.Errorf("free text question gained options: %v", got.Options)
	}
}

func TestEngine_CustomPatterns(t *testing.T) {
	e := NewEngine(Default().classifier, []Pattern{
		{Name: "colour", Keywords: []string{"COLOUR"}, Template: []int{70, 20, 10}},
	})
	got := e.Assign("Favourite colour", []string{"Red", "Green", "Blue"})
	if diff := cmp.Diff([]int{70, 20, 10}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}
