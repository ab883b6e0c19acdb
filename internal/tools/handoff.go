package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/formweight/internal/analysis"
	"github.com/HendryAvila/formweight/internal/handoff"
	"github.com/HendryAvila/formweight/internal/store"
)

// ─── HandoffPromptTool ──────────────────────────────────────────────────────

// HandoffPromptTool handles the form_handoff_prompt MCP tool.
type HandoffPromptTool struct {
	store  *store.Store
	editor *Editor
}

// NewHandoffPromptTool creates a HandoffPromptTool.
func NewHandoffPromptTool(s *store.Store, editor *Editor) *HandoffPromptTool {
	return &HandoffPromptTool{store: s, editor: editor}
}

// Definition returns the MCP tool definition for form_handoff_prompt.
func (t *HandoffPromptTool) Definition() mcp.Tool {
	return mcp.NewTool("form_handoff_prompt",
		mcp.WithDescription(
			"Build a prompt that asks an external generator for realistic weights and "+
				"sample answers for a saved form. Paste the generator's JSON reply into "+
				"form_handoff_apply.",
		),
		mcp.WithString("snapshot_id",
			mcp.Required(),
			mcp.Description("Snapshot ID"),
		),
	)
}

// Handle processes the form_handoff_prompt tool call.
func (t *HandoffPromptTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("snapshot_id", "")
	if id == "" {
		return mcp.NewToolResultError("'snapshot_id' is required"), nil
	}
	if err := t.editor.Flush(id); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to write pending edits: %v", err)), nil
	}

	snap, err := t.store.Get(id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get snapshot: %v", err)), nil
	}
	prompt, err := handoff.BuildPrompt(snap.Title, snap.Questions)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(prompt), nil
}

// ─── HandoffApplyTool ───────────────────────────────────────────────────────

// HandoffApplyTool handles the form_handoff_apply MCP tool.
type HandoffApplyTool struct {
	store  *store.Store
	editor *Editor
}

// NewHandoffApplyTool creates a HandoffApplyTool.
func NewHandoffApplyTool(s *store.Store, editor *Editor) *HandoffApplyTool {
	return &HandoffApplyTool{store: s, editor: editor}
}

// Definition returns the MCP tool definition for form_handoff_apply.
func (t *HandoffApplyTool) Definition() mcp.Tool {
	return mcp.NewTool("form_handoff_apply",
		mcp.WithDescription(
			"Merge a generator's JSON reply into a saved form. Options the reply does not "+
				"mention get weight 0; questions it leaves out keep engine weights.",
		),
		mcp.WithString("snapshot_id",
			mcp.Required(),
			mcp.Description("Snapshot ID"),
		),
		mcp.WithString("response",
			mcp.Required(),
			mcp.Description("The generator's reply: a JSON array, optionally inside ```json fences"),
		),
	)
}

// Handle processes the form_handoff_apply tool call.
func (t *HandoffApplyTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("snapshot_id", "")
	if id == "" {
		return mcp.NewToolResultError("'snapshot_id' is required"), nil
	}
	response := req.GetString("response", "")
	if strings.TrimSpace(response) == "" {
		return mcp.NewToolResultError("'response' is required"), nil
	}

	entries, err := handoff.ParseResponse(response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := t.editor.Flush(id); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to write pending edits: %v", err)), nil
	}
	snap, err := t.store.Get(id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get snapshot: %v", err)), nil
	}

	merged := handoff.Merge(snap.Questions, entries)
	updated, err := t.store.ReplaceQuestions(id, merged)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("failed to apply reply: %v", err)), nil
		}
		return nil, fmt.Errorf("saving merged questions: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Applied %d entries to snapshot `%s`\n\n", len(entries), updated.ID)
	writeAnalysis(&b, updated.Form())
	if r := analysis.Summarize(updated.Form()); len(r.Invalid) > 0 {
		b.WriteString("\nUse form_balance or form_adjust_weight to fix the questions listed above.\n")
	}
	return mcp.NewToolResultText(b.String()), nil
}
