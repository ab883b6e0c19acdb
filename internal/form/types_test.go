package form

import "testing"

// --- ValidateType ---

func TestValidateType_Known(t *testing.T) {
	for _, typ := range []QuestionType{
		TypeShortText, TypeLongText, TypeSingleSelect, TypeMultiSelect,
		TypeDropdown, TypeLinearScale, TypeGrid, TypeDate, TypeTime, TypeUnrecognized,
	} {
		if err := ValidateType(typ); err != nil {
			t.Errorf("ValidateType(%q) = %v, want nil", typ, err)
		}
	}
}

func TestValidateType_Unknown(t *testing.T) {
	if err := ValidateType("SLIDER"); err == nil {
		t.Fatal("ValidateType(SLIDER) should fail")
	}
}

// --- Clone ---

func TestQuestionClone_DoesNotShareWeights(t *testing.T) {
	q := Question{
		ID:      "1",
		Options: []Option{{Value: "A", Weight: IntPtr(60)}, {Value: "B", Weight: IntPtr(40)}},
		Samples: []string{"x"},
	}
	c := q.Clone()
	*c.Options[0].Weight = 1
	c.Samples[0] = "y"

	if *q.Options[0].Weight != 60 {
		t.Errorf("original weight changed to %d", *q.Options[0].Weight)
	}
	if q.Samples[0] != "x" {
		t.Errorf("original samples changed to %v", q.Samples)
	}
}

func TestQuestionWithWeights(t *testing.T) {
	q := Question{Options: []Option{{Value: "A"}, {Value: "B"}}}
	if q.Weighted() {
		t.Fatal("fresh question should not be weighted")
	}

	w := q.WithWeights([]int{30, 70})
	if !w.Weighted() {
		t.Fatal("WithWeights result should be weighted")
	}
	got := w.Weights()
	if got[0] != 30 || got[1] != 70 {
		t.Errorf("Weights() = %v, want [30 70]", got)
	}
	if q.Options[0].Weight != nil {
		t.Error("WithWeights mutated the receiver")
	}
}

func TestWeighted_NoOptions(t *testing.T) {
	if (Question{}).Weighted() {
		t.Error("question without options should not report weighted")
	}
}

func TestFindQuestion(t *testing.T) {
	f := &Form{Questions: []Question{{ID: "a"}, {ID: "b"}}}
	if got := f.FindQuestion("b"); got != 1 {
		t.Errorf("FindQuestion(b) = %d, want 1", got)
	}
	if got := f.FindQuestion("z"); got != -1 {
		t.Errorf("FindQuestion(z) = %d, want -1", got)
	}
}

func TestTypePredicates(t *testing.T) {
	if !TypeLongText.IsFreeText() || TypeDropdown.IsFreeText() {
		t.Error("IsFreeText mismatch")
	}
	if !TypeMultiSelect.IsChoice() || TypeGrid.IsChoice() {
		t.Error("IsChoice mismatch")
	}
}
