package classify

import (
	"regexp"
	"testing"
)

func TestInGroup(t *testing.T) {
	c := Default()
	tests := []struct {
		title string
		group Group
		want  bool
	}{
		{"What is your age?", GroupAge, true},
		{"Age group", GroupAge, true},
		{"How old are you?", GroupAge, true},
		{"What is your profession?", GroupProfession, true},
		{"Current occupation", GroupProfession, true},
		{"Monthly income", GroupIncome, true},
		{"Highest qualification", GroupEducation, true},
		{"Favourite colour", GroupAge, false},
		{"Favourite colour", GroupIncome, false},
	}
	for _, tt := range tests {
		if got := c.InGroup(tt.title, tt.group); got != tt.want {
			t.Errorf("InGroup(%q, %v) = %v, want %v", tt.title, tt.group, got, tt.want)
		}
	}
}

func TestIs(t *testing.T) {
	c := Default()
	tests := []struct {
		value string
		class OptionClass
		want  bool
	}{
		{"Under 18", ClassUnder18, true},
		{"13-17", ClassUnder18, true},
		{"18-24", ClassYoungAdult, true},
		{"25-34", ClassYoungAdult, false},
		{"Student", ClassStudent, true},
		{"Working Professional", ClassWorking, true},
		{"Student", ClassWorking, false},
		{"Retired", ClassRetired, true},
		{"Above 50,000", ClassHighIncome, true},
		{"₹1 lakh+", ClassHighIncome, true},
		{"No income", ClassLowIncome, true},
		{"Master's degree", ClassPostGraduate, true},
		{"PhD", ClassPostGraduate, true},
		{"High school", ClassSchool, true},
		{"Bachelor's", ClassSchool, false},
	}
	for _, tt := range tests {
		if got := c.Is(tt.value, tt.class); got != tt.want {
			t.Errorf("Is(%q, %d) = %v, want %v", tt.value, tt.class, got, tt.want)
		}
	}
}

func TestSentimentOf(t *testing.T) {
	c := Default()
	tests := map[string]Sentiment{
		"Strongly Disagree": SentimentStrongNegative,
		"Very unsatisfied":  SentimentStrongNegative,
		"Poor":              SentimentStrongNegative,
		"Disagree":          SentimentMildNegative,
		"Bad":               SentimentMildNegative,
		"Agree":             SentimentNeutral,
	}
	for value, want := range tests {
		if got := c.SentimentOf(value); got != want {
			t.Errorf("SentimentOf(%q) = %v, want %v", value, got, want)
		}
	}
}

func TestLexiconMarkers(t *testing.T) {
	c := Default()
	if !c.IsGenderQuestion("What is your Gender?") {
		t.Error("gender title not detected")
	}
	if !c.IsOptOut("Prefer not to say") || c.IsOptOut("Female") {
		t.Error("IsOptOut mismatch")
	}
	if !c.IsLikertScale([]string{"Neutral", "Strongly agree"}) {
		t.Error("likert scale not detected")
	}
	if c.IsLikertScale([]string{"Red", "Blue"}) {
		t.Error("colours detected as likert")
	}
	if !c.IsBinaryAnswer("Yes") || c.IsBinaryAnswer("Maybe") {
		t.Error("IsBinaryAnswer mismatch")
	}
}

func TestNew_MissingTablesNeverMatch(t *testing.T) {
	c := New(Lexicon{}, map[Group]*regexp.Regexp{}, nil)
	if c.InGroup("age", GroupAge) {
		t.Error("empty group table matched")
	}
	if c.Is("student", ClassStudent) {
		t.Error("nil class table matched")
	}
	if c.IsGenderQuestion("gender") {
		t.Error("empty lexicon matched")
	}
}
