// Package decoder rebuilds the canonical form model from the positional
// payload a hosted form page embeds in its HTML.
//
// The payload has no field names: meaning comes from position only.
//
//	root[1][8]  form title (primary)
//	root[3]     form title (secondary)
//	root[1][1]  question entries, each [id, title, ?, typeCode, optionField, ...]
//
// A type code of 8 is a page break, not a question. Decoding is defensive:
// a malformed entry is skipped, an unknown type code degrades to
// form.TypeUnrecognized, and only a missing top level is reported.
package decoder

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cast"

	"github.com/HendryAvila/formweight/internal/form"
)

// DefaultTitle is used when no title can be resolved. The hosted form
// service also uses it as the placeholder for unnamed forms.
const DefaultTitle = "Untitled Form"

// pageBreakCode marks a section boundary in the entry list.
const pageBreakCode = 8

// ErrMalformedSource is returned when the top-level structure is absent
// or lacks the question-list position.
var ErrMalformedSource = errors.New("malformed form payload")

// typeCodes maps the numeric discriminator to a question type.
var typeCodes = map[int]form.QuestionType{
	0:  form.TypeShortText,
	1:  form.TypeLongText,
	2:  form.TypeSingleSelect,
	3:  form.TypeDropdown,
	4:  form.TypeMultiSelect,
	5:  form.TypeLinearScale,
	7:  form.TypeGrid,
	9:  form.TypeDate,
	10: form.TypeTime,
}

// entityReplacer undoes the HTML entities the payload leaves in text.
var entityReplacer = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#39;", "'",
	"&nbsp;", " ",
)

// Decode turns a raw payload into a Form. fallbackTitle is used when the
// payload carries no usable title.
func Decode(root any, fallbackTitle string) (*form.Form, error) {
	top, ok := root.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: top level is %T, want array", ErrMalformedSource, root)
	}
	body := seqAt(top, 1)
	if body == nil {
		return nil, fmt.Errorf("%w: missing root[1]", ErrMalformedSource)
	}

	f := &form.Form{
		Title:     resolveTitle(top, body, fallbackTitle),
		Questions: []form.Question{},
	}

	entries := seqAt(body, 1)
	page := 0
	for _, raw := range entries {
		entry, ok := raw.([]any)
		if !ok {
			continue
		}
		if code, ok := typeCode(entry); ok && code == pageBreakCode {
			page++
			continue
		}
		q, ok := decodeQuestion(entry)
		if !ok {
			continue
		}
		q.PageIndex = page
		f.Questions = append(f.Questions, q)
	}

	return f, nil
}

// DecodeText unescapes the HTML entities left in payload text and trims it.
func DecodeText(s string) string {
	return strings.TrimSpace(entityReplacer.Replace(s))
}

// resolveTitle walks the title fallback chain. Candidates are compared
// after unescaping, so a blank or entity-only title falls through.
func resolveTitle(top, body []any, fallback string) string {
	usable := func(s string) bool { return s != "" && s != DefaultTitle }

	raw, _ := valueAt(body, 8).(string)
	if title := DecodeText(raw); usable(title) {
		return title
	}
	if alt, ok := valueAt(top, 3).(string); ok {
		if title := DecodeText(alt); usable(title) {
			return title
		}
	}
	if title := DecodeText(fallback); title != "" {
		return title
	}
	return DefaultTitle
}

// decodeQuestion builds one question from an entry. ok is false when the
// entry lacks an id or a title.
func decodeQuestion(entry []any) (form.Question, bool) {
	id := scalarString(valueAt(entry, 0))
	title, _ := valueAt(entry, 1).(string)
	title = DecodeText(title)
	if id == "" || title == "" {
		return form.Question{}, false
	}

	typ := form.TypeUnrecognized
	if code, ok := typeCode(entry); ok {
		if t, known := typeCodes[code]; known {
			typ = t
		}
	}

	field := valueAt(entry, 4)
	return form.Question{
		ID:       id,
		EntryID:  entryID(field, id),
		Title:    title,
		Type:     typ,
		Options:  decodeOptions(field),
		Required: isRequired(field),
	}, true
}

// typeCode reads the discriminator at entry[3].
func typeCode(entry []any) (int, bool) {
	v := valueAt(entry, 3)
	if v == nil {
		return 0, false
	}
	code, err := cast.ToIntE(v)
	if err != nil {
		return 0, false
	}
	return code, true
}

// isRequired checks the flag at optionField[0][2]; anything but 1 is false.
func isRequired(field any) bool {
	seq, _ := field.([]any)
	flag := valueAt(seqAt(seq, 0), 2)
	if flag == nil {
		return false
	}
	n, err := cast.ToIntE(flag)
	return err == nil && n == 1
}

// decodeOptions extracts option text from whichever shape the field uses.
// Tuples with empty or missing text are dropped.
func decodeOptions(field any) []form.Option {
	_, tuples := DetectShape(field)
	opts := []form.Option{}
	for _, raw := range tuples {
		tuple, ok := raw.([]any)
		if !ok || len(tuple) == 0 {
			continue
		}
		text, ok := tuple[0].(string)
		if !ok {
			continue
		}
		text = DecodeText(text)
		if text == "" {
			continue
		}
		opts = append(opts, form.Option{Value: text})
	}
	return opts
}

// entryID prefers the submission identifier stored next to the first
// option tuple (optionField[0][0]) and falls back to the question id.
// Only numeric identifiers qualify; option text at that position does not.
func entryID(field any, fallback string) string {
	seq, _ := field.([]any)
	switch v := valueAt(seqAt(seq, 0), 0).(type) {
	case json.Number, float64, int, int64:
		if s := scalarString(v); s != "" {
			return s
		}
	case string:
		if isDigits(v) {
			return v
		}
	}
	return fallback
}

// scalarString renders a string or number as text; other values yield "".
func scalarString(v any) string {
	switch v.(type) {
	case string, json.Number, float64, float32, int, int64:
		s, err := cast.ToStringE(v)
		if err != nil {
			return ""
		}
		return s
	default:
		return ""
	}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// valueAt follows a path of indexes through nested arrays. It returns nil
// when any step is out of range or not an array.
func valueAt(seq []any, path ...int) any {
	var cur any = seq
	if seq == nil {
		return nil
	}
	for _, idx := range path {
		arr, ok := cur.([]any)
		if !ok || idx < 0 || idx >= len(arr) {
			return nil
		}
		cur = arr[idx]
	}
	return cur
}

// seqAt is valueAt narrowed to arrays.
func seqAt(seq []any, path ...int) []any {
	arr, _ := valueAt(seq, path...).([]any)
	return arr
}
