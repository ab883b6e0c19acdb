package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/formweight/internal/analysis"
	"github.com/HendryAvila/formweight/internal/form"
	"github.com/HendryAvila/formweight/internal/store"
)

// sourceParams are the input parameters shared by form_decode and form_analyze.
func sourceParams() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("path",
			mcp.Description("Path to a saved form page (HTML) or a bare JSON payload file"),
		),
		mcp.WithString("content",
			mcp.Description("The page HTML or JSON payload itself, instead of a path"),
		),
		mcp.WithString("title",
			mcp.Description("Fallback title when the form does not carry one"),
		),
	}
}

// ─── DecodeTool ─────────────────────────────────────────────────────────────

// DecodeTool handles the form_decode MCP tool.
type DecodeTool struct{}

// NewDecodeTool creates a DecodeTool.
func NewDecodeTool() *DecodeTool {
	return &DecodeTool{}
}

// Definition returns the MCP tool definition for form_decode.
func (t *DecodeTool) Definition() mcp.Tool {
	opts := append([]mcp.ToolOption{
		mcp.WithDescription(
			"Decode a saved form page or its JSON payload into questions and options. " +
				"No weights are assigned; use form_analyze for that.",
		),
	}, sourceParams()...)
	return mcp.NewTool("form_decode", opts...)
}

// Handle processes the form_decode tool call.
func (t *DecodeTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	f, _, err := decodeSource(req.GetString("path", ""), req.GetString("content", ""), req.GetString("title", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to decode form: %v", err)), nil
	}
	return jsonResult(f)
}

// ─── AnalyzeTool ────────────────────────────────────────────────────────────

// AnalyzeTool handles the form_analyze MCP tool. It runs without a store,
// in which case results are returned but never saved.
type AnalyzeTool struct {
	store    *store.Store
	defaults analysis.Options
}

// NewAnalyzeTool creates an AnalyzeTool. store may be nil.
func NewAnalyzeTool(s *store.Store, defaults analysis.Options) *AnalyzeTool {
	return &AnalyzeTool{store: s, defaults: defaults}
}

// Definition returns the MCP tool definition for form_analyze.
func (t *AnalyzeTool) Definition() mcp.Tool {
	opts := append([]mcp.ToolOption{
		mcp.WithDescription(
			"Decode a form and assign demographic weights to every choice question. " +
				"Weights per question always sum to 100. The result is saved as a snapshot " +
				"that form_adjust_weight, form_handoff_prompt and form_get work on.",
		),
	}, sourceParams()...)
	opts = append(opts,
		mcp.WithBoolean("resolve_dependencies",
			mcp.Description("Adjust related questions (age, profession, income, education) against each other. Defaults to the server setting."),
		),
		mcp.WithBoolean("save",
			mcp.Description("Save the result as a snapshot (default: true)"),
		),
	)
	return mcp.NewTool("form_analyze", opts...)
}

// Handle processes the form_analyze tool call.
func (t *AnalyzeTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	f, source, err := decodeSource(req.GetString("path", ""), req.GetString("content", ""), req.GetString("title", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to decode form: %v", err)), nil
	}

	opts := t.defaults
	opts.ResolveDependencies = boolArg(req, "resolve_dependencies", t.defaults.ResolveDependencies)
	weighted := analysis.Analyze(f, opts)

	var b strings.Builder
	if t.store != nil && boolArg(req, "save", true) {
		snap, err := t.store.Save(weighted, source)
		if err != nil {
			return nil, fmt.Errorf("saving snapshot: %w", err)
		}
		fmt.Fprintf(&b, "Saved as snapshot `%s`\n\n", snap.ID)
	}
	writeAnalysis(&b, weighted)
	return mcp.NewToolResultText(b.String()), nil
}

func writeAnalysis(b *strings.Builder, f *form.Form) {
	r := analysis.Summarize(f)
	fmt.Fprintf(b, "# %s\n\n", f.Title)
	fmt.Fprintf(b, "%d questions on %d page(s): %d weighted, %d free text, %d required\n",
		r.Questions, r.Pages, r.Weighted, r.FreeText, r.Required)
	if len(r.Invalid) > 0 {
		fmt.Fprintf(b, "⚠️ weights do not sum to 100 for: %s\n", strings.Join(r.Invalid, ", "))
	}
	b.WriteString("\n")
	for i, q := range f.Questions {
		describeQuestion(b, i, q)
	}
}
