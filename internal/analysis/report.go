package analysis

import (
	"github.com/HendryAvila/formweight/internal/form"
	"github.com/HendryAvila/formweight/internal/weights"
)

// Report summarizes an analyzed form.
type Report struct {
	Questions int `json:"questions"`
	Weighted  int `json:"weighted"`
	FreeText  int `json:"free_text"`
	Required  int `json:"required"`
	Pages     int `json:"pages"`
	// Invalid lists ids of questions whose weights break the sum rule.
	// Manual edits and hand-off merges are the only way to get here.
	Invalid []string `json:"invalid,omitempty"`
}

// Summarize builds a Report for f.
func Summarize(f *form.Form) Report {
	r := Report{Questions: len(f.Questions)}
	if len(f.Questions) > 0 {
		r.Pages = 1
	}
	for _, q := range f.Questions {
		if q.PageIndex+1 > r.Pages {
			r.Pages = q.PageIndex + 1
		}
		if q.Required {
			r.Required++
		}
		if q.Type.IsFreeText() {
			r.FreeText++
		}
		if !q.Weighted() {
			continue
		}
		r.Weighted++
		if weights.Validate(q.Weights()) != nil {
			r.Invalid = append(r.Invalid, q.ID)
		}
	}
	return r
}
