package handoff

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/buger/jsonparser"
)

// ErrFormatMismatch means the pasted answer is not the expected JSON list.
// It is a user input problem: the fix is to paste again.
var ErrFormatMismatch = errors.New("we couldn't read that format, make sure you only pasted the JSON data")

var (
	openFence  = regexp.MustCompile("(?i)```json\\n?")
	closeFence = regexp.MustCompile("```")
)

// Entry is one question in the generator's answer.
type Entry struct {
	ID      string        `json:"id"`
	Options []EntryOption `json:"options,omitempty"`
	Samples []string      `json:"samples,omitempty"`
}

// EntryOption is a weighted option in the generator's answer.
type EntryOption struct {
	Value  string `json:"value"`
	Weight int    `json:"weight"`
}

// StripFences removes markdown code fences a user may have copied along
// with the JSON.
func StripFences(text string) string {
	text = openFence.ReplaceAllString(text, "")
	text = closeFence.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// ParseResponse reads a pasted answer. The text must be a JSON array of
// objects, each with an id (string or number). options, when present,
// must hold objects with a string value and a numeric weight; samples,
// when present, must hold strings. Anything else is ErrFormatMismatch.
func ParseResponse(text string) ([]Entry, error) {
	data := []byte(StripFences(text))
	if len(data) == 0 || !json.Valid(data) {
		return nil, ErrFormatMismatch
	}
	if _, typ, _, err := jsonparser.Get(data); err != nil || typ != jsonparser.Array {
		return nil, fmt.Errorf("%w: expected an array of questions", ErrFormatMismatch)
	}

	entries := []Entry{}
	var firstErr error
	_, err := jsonparser.ArrayEach(data, func(value []byte, typ jsonparser.ValueType, _ int, err error) {
		if firstErr != nil {
			return
		}
		if err != nil {
			firstErr = err
			return
		}
		e, err := parseEntry(value, typ)
		if err != nil {
			firstErr = fmt.Errorf("entry %d: %w", len(entries), err)
			return
		}
		entries = append(entries, e)
	})
	if err == nil {
		err = firstErr
	}
	if err != nil {
		if errors.Is(err, ErrFormatMismatch) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrFormatMismatch, err)
	}
	return entries, nil
}

func parseEntry(value []byte, typ jsonparser.ValueType) (Entry, error) {
	if typ != jsonparser.Object {
		return Entry{}, fmt.Errorf("%w: not an object", ErrFormatMismatch)
	}

	var e Entry
	raw, idType, _, err := jsonparser.Get(value, "id")
	if err != nil {
		return Entry{}, fmt.Errorf("%w: missing id", ErrFormatMismatch)
	}
	switch idType {
	case jsonparser.String:
		if e.ID, err = jsonparser.ParseString(raw); err != nil {
			return Entry{}, fmt.Errorf("%w: id: %v", ErrFormatMismatch, err)
		}
	case jsonparser.Number:
		e.ID = string(raw)
	default:
		return Entry{}, fmt.Errorf("%w: id must be a string or number", ErrFormatMismatch)
	}

	if e.Options, err = parseOptions(value); err != nil {
		return Entry{}, err
	}
	if e.Samples, err = parseSamples(value); err != nil {
		return Entry{}, err
	}
	return e, nil
}

func parseOptions(entry []byte) ([]EntryOption, error) {
	raw, typ, _, err := jsonparser.Get(entry, "options")
	if errors.Is(err, jsonparser.KeyPathNotFoundError) || typ == jsonparser.Null {
		return nil, nil
	}
	if err != nil || typ != jsonparser.Array {
		return nil, fmt.Errorf("%w: options must be an array", ErrFormatMismatch)
	}

	var out []EntryOption
	var bad error
	_, err = jsonparser.ArrayEach(raw, func(opt []byte, typ jsonparser.ValueType, _ int, err error) {
		if bad != nil {
			return
		}
		if err != nil || typ != jsonparser.Object {
			bad = fmt.Errorf("%w: option %d is not an object", ErrFormatMismatch, len(out))
			return
		}
		value, err := jsonparser.GetString(opt, "value")
		if err != nil {
			bad = fmt.Errorf("%w: option %d has no text value", ErrFormatMismatch, len(out))
			return
		}
		weight, err := jsonparser.GetFloat(opt, "weight")
		if err != nil {
			bad = fmt.Errorf("%w: option %q has no numeric weight", ErrFormatMismatch, value)
			return
		}
		out = append(out, EntryOption{Value: value, Weight: int(math.Round(weight))})
	})
	if err == nil {
		err = bad
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

func parseSamples(entry []byte) ([]string, error) {
	raw, typ, _, err := jsonparser.Get(entry, "samples")
	if errors.Is(err, jsonparser.KeyPathNotFoundError) || typ == jsonparser.Null {
		return nil, nil
	}
	if err != nil || typ != jsonparser.Array {
		return nil, fmt.Errorf("%w: samples must be an array", ErrFormatMismatch)
	}

	var out []string
	var bad error
	_, err = jsonparser.ArrayEach(raw, func(s []byte, typ jsonparser.ValueType, _ int, err error) {
		if bad != nil {
			return
		}
		if err != nil || typ != jsonparser.String {
			bad = fmt.Errorf("%w: samples must be strings", ErrFormatMismatch)
			return
		}
		v, err := jsonparser.ParseString(s)
		if err != nil {
			bad = fmt.Errorf("%w: sample: %v", ErrFormatMismatch, err)
			return
		}
		out = append(out, v)
	})
	if err == nil {
		err = bad
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}
