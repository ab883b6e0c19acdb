// Package tools provides MCP tool handlers for decoding, weighting and
// editing forms.
//
// Each tool handler follows the same pattern:
// - A struct with its dependencies (store.Store, Editor) injected via constructor
// - Definition() returns the mcp.Tool schema
// - Handle() processes the request and returns a result
//
// User mistakes (bad ids, unreadable sources, malformed hand-off replies)
// come back as tool errors; a Go error is returned only for internal faults.
package tools

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/formweight/internal/decoder"
	"github.com/HendryAvila/formweight/internal/form"
)

// intArg extracts an integer argument from a tool request, returning
// defaultVal if the key is missing or not a number (JSON numbers are float64).
func intArg(req mcp.CallToolRequest, key string, defaultVal int) int {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return defaultVal
	}
	return int(v)
}

// boolArg extracts a boolean argument from a tool request.
func boolArg(req mcp.CallToolRequest, key string, defaultVal bool) bool {
	v, ok := req.GetArguments()[key].(bool)
	if !ok {
		return defaultVal
	}
	return v
}

// jsonResult renders v as an indented JSON text result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

// decodeSource turns a saved form page or a bare JSON payload into a form.
// Exactly one of path and content should be set; content wins when both are.
// The returned source label names where the form came from.
func decodeSource(path, content, title string) (*form.Form, string, error) {
	var data []byte
	source := "inline"
	switch {
	case content != "":
		data = []byte(content)
	case path != "":
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, "", fmt.Errorf("reading %s: %w", path, err)
		}
		data = b
		source = filepath.Base(path)
	default:
		return nil, "", fmt.Errorf("either 'path' or 'content' is required")
	}

	f, err := decoder.DecodeSource(data, title)
	if err != nil {
		return nil, "", err
	}
	return f, source, nil
}

// describeQuestion renders one question as a markdown block.
func describeQuestion(b *strings.Builder, i int, q form.Question) {
	fmt.Fprintf(b, "%d. **%s** (`%s`, %s", i+1, q.Title, q.ID, q.Type)
	if q.Required {
		b.WriteString(", required")
	}
	fmt.Fprintf(b, ", page %d)\n", q.PageIndex+1)
	for j, o := range q.Options {
		if o.Weight != nil {
			fmt.Fprintf(b, "   - [%d] %s: %d%%\n", j, o.Value, *o.Weight)
		} else {
			fmt.Fprintf(b, "   - [%d] %s\n", j, o.Value)
		}
	}
	if len(q.Samples) > 0 {
		fmt.Fprintf(b, "   - samples: %s\n", strings.Join(q.Samples, ", "))
	}
}
