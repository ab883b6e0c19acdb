// Package handoff runs the round trip to an external text generator.
//
// The form is projected to a compact JSON list and wrapped in a prompt
// (BuildPrompt). The user pastes the generator's answer back
// (ParseResponse) and the result is folded into the analyzed questions
// (Merge). Nothing here talks to the network; moving the text between
// the two sides is the caller's job.
package handoff

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"text/template"

	"github.com/HendryAvila/formweight/internal/form"
)

//go:embed prompt.txt.tmpl
var templateFS embed.FS

var promptTemplate = template.Must(template.ParseFS(templateFS, "prompt.txt.tmpl"))

// DefaultTitle is used in the prompt when the form has no title.
const DefaultTitle = "Survey"

// indiaContext marks forms written for an Indian audience.
var indiaContext = regexp.MustCompile(`₹|rupee|inr|lakh|crore|india|hindi|delhi|mumbai|kolkata|chennai|bangalore|hyderabad|pune`)

// Projection is the part of a question the generator sees.
type Projection struct {
	ID      string            `json:"id"`
	Title   string            `json:"title"`
	Type    form.QuestionType `json:"type"`
	Options []string          `json:"options,omitempty"`
}

// Project reduces questions to id, title, type and option text.
func Project(questions []form.Question) []Projection {
	out := make([]Projection, len(questions))
	for i, q := range questions {
		out[i] = Projection{ID: q.ID, Title: q.Title, Type: q.Type}
		if len(q.Options) > 0 {
			out[i].Options = q.Values()
		}
	}
	return out
}

type promptData struct {
	Title     string
	India     bool
	Questions string
}

// BuildPrompt renders the instructions and the projected questions.
func BuildPrompt(title string, questions []form.Question) (string, error) {
	if strings.TrimSpace(title) == "" {
		title = DefaultTitle
	}
	payload, err := json.MarshalIndent(Project(questions), "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding questions: %w", err)
	}

	var buf bytes.Buffer
	err = promptTemplate.Execute(&buf, promptData{
		Title:     title,
		India:     IsIndianContext(questions),
		Questions: string(payload),
	})
	if err != nil {
		return "", fmt.Errorf("rendering prompt: %w", err)
	}
	return buf.String(), nil
}

// IsIndianContext reports whether any title or option mentions Indian
// currency, cities or language.
func IsIndianContext(questions []form.Question) bool {
	var sb strings.Builder
	for _, q := range questions {
		sb.WriteString(strings.ToLower(q.Title))
		sb.WriteString(" | ")
		for _, o := range q.Options {
			sb.WriteString(strings.ToLower(o.Value))
			sb.WriteString(" | ")
		}
	}
	return indiaContext.MatchString(sb.String())
}
