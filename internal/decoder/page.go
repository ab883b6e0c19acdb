package decoder

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/buger/jsonparser"
	"golang.org/x/net/html"

	"github.com/HendryAvila/formweight/internal/form"
)

// ErrPayloadNotFound is returned when a page carries neither known
// payload variable.
var ErrPayloadNotFound = errors.New("form payload not found in page")

var (
	publicLoadData = regexp.MustCompile(`FB_PUBLIC_LOAD_DATA_\s*=\s*`)
	wizGlobalData  = regexp.MustCompile(`window\.WIZ_global_data\s*=\s*`)
)

// Page is what ExtractPayload finds in a saved form page.
type Page struct {
	Payload  any
	DocTitle string // contents of <title>, used as a fallback form title
}

// ExtractPayload parses a saved form page and returns the positional
// payload. FB_PUBLIC_LOAD_DATA_ is preferred; WIZ_global_data is the
// fallback for pages that only ship the bootstrap blob.
func ExtractPayload(page []byte) (*Page, error) {
	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("parsing page: %w", err)
	}

	var scripts []string
	var docTitle string
	walk(doc, func(n *html.Node) {
		if n.Type != html.ElementNode {
			return
		}
		switch n.Data {
		case "script":
			scripts = append(scripts, textOf(n))
		case "title":
			if docTitle == "" {
				docTitle = strings.TrimSpace(textOf(n))
			}
		}
	})

	for _, s := range scripts {
		raw, ok := rawAfter(s, publicLoadData)
		if !ok {
			continue
		}
		if v, err := unmarshalNumbers(raw); err == nil {
			if _, isArr := v.([]any); isArr {
				return &Page{Payload: v, DocTitle: docTitle}, nil
			}
		}
	}

	for _, s := range scripts {
		raw, ok := rawAfter(s, wizGlobalData)
		if !ok {
			continue
		}
		if payload := pickWizPayload(raw); payload != nil {
			return &Page{Payload: payload, DocTitle: docTitle}, nil
		}
	}

	return nil, ErrPayloadNotFound
}

// DecodePage extracts and decodes in one step. The page <title> is used
// when fallbackTitle is empty.
func DecodePage(page []byte, fallbackTitle string) (*form.Form, error) {
	p, err := ExtractPayload(page)
	if err != nil {
		return nil, err
	}
	if fallbackTitle == "" {
		fallbackTitle = p.DocTitle
	}
	return Decode(p.Payload, fallbackTitle)
}

// DecodeJSON decodes a payload that was saved as bare JSON.
func DecodeJSON(data []byte, fallbackTitle string) (*form.Form, error) {
	root, err := unmarshalNumbers(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSource, err)
	}
	return Decode(root, fallbackTitle)
}

// DecodeSource decodes either kind of saved source: data that starts
// like a payload array is bare JSON, anything else is a page.
func DecodeSource(data []byte, fallbackTitle string) (*form.Form, error) {
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("[")) {
		return DecodeJSON(data, fallbackTitle)
	}
	return DecodePage(data, fallbackTitle)
}

// pickWizPayload returns the last value of the object, in document order,
// shaped like a form payload: an array with more than one element whose
// [1] is also such an array.
func pickWizPayload(obj []byte) []any {
	var found []any
	err := jsonparser.ObjectEach(obj, func(_, value []byte, typ jsonparser.ValueType, _ int) error {
		if typ != jsonparser.Array {
			return nil
		}
		v, err := unmarshalNumbers(value)
		if err != nil {
			return nil
		}
		arr, _ := v.([]any)
		if len(arr) <= 1 {
			return nil
		}
		if inner, ok := arr[1].([]any); ok && len(inner) > 1 {
			found = arr
		}
		return nil
	})
	if err != nil {
		return nil
	}
	return found
}

// rawAfter returns the single JSON value that follows the assignment
// matched by re.
func rawAfter(script string, re *regexp.Regexp) (json.RawMessage, bool) {
	loc := re.FindStringIndex(script)
	if loc == nil {
		return nil, false
	}
	var raw json.RawMessage
	if err := json.NewDecoder(strings.NewReader(script[loc[1]:])).Decode(&raw); err != nil {
		return nil, false
	}
	return raw, true
}

// unmarshalNumbers decodes data keeping numbers as json.Number, so large
// identifiers keep every digit.
func unmarshalNumbers(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, errors.New("unexpected data after the payload")
	}
	return v, nil
}

func walk(n *html.Node, visit func(*html.Node)) {
	visit(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}

func textOf(n *html.Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
	}
	return sb.String()
}
