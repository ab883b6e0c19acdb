package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/formweight/internal/store"
)

// ─── GetTool ────────────────────────────────────────────────────────────────

// GetTool handles the form_get MCP tool.
type GetTool struct {
	store  *store.Store
	editor *Editor
}

// NewGetTool creates a GetTool. Pending edits held by editor are written
// before the snapshot is read.
func NewGetTool(s *store.Store, editor *Editor) *GetTool {
	return &GetTool{store: s, editor: editor}
}

// Definition returns the MCP tool definition for form_get.
func (t *GetTool) Definition() mcp.Tool {
	return mcp.NewTool("form_get",
		mcp.WithDescription("Get a saved form snapshot with its current weights."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Snapshot ID"),
		),
		mcp.WithBoolean("json",
			mcp.Description("Return the raw snapshot JSON instead of a readable summary"),
		),
		mcp.WithBoolean("edits",
			mcp.Description("Include the manual edit log"),
		),
	)
}

// Handle processes the form_get tool call.
func (t *GetTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if id == "" {
		return mcp.NewToolResultError("'id' is required"), nil
	}
	if err := t.editor.Flush(id); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to write pending edits: %v", err)), nil
	}

	snap, err := t.store.Get(id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get snapshot: %v", err)), nil
	}
	if boolArg(req, "json", false) {
		return jsonResult(snap)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Snapshot `%s` from %s, updated %s\n\n", snap.ID, snap.Source, when(snap.UpdatedAt))
	writeAnalysis(&b, snap.Form())

	if boolArg(req, "edits", false) {
		edits, err := t.store.Edits(id)
		if err != nil {
			return nil, fmt.Errorf("reading edit log: %w", err)
		}
		fmt.Fprintf(&b, "\n## Edits (%d)\n\n", len(edits))
		for _, e := range edits {
			fmt.Fprintf(&b, "- %s `%s` option %d set to %d%%\n", when(e.CreatedAt), e.QuestionID, e.OptionIndex, e.Value)
		}
	}
	return mcp.NewToolResultText(b.String()), nil
}

// ─── ListTool ───────────────────────────────────────────────────────────────

// ListTool handles the form_list MCP tool.
type ListTool struct {
	store *store.Store
}

// NewListTool creates a ListTool.
func NewListTool(s *store.Store) *ListTool {
	return &ListTool{store: s}
}

// Definition returns the MCP tool definition for form_list.
func (t *ListTool) Definition() mcp.Tool {
	return mcp.NewTool("form_list",
		mcp.WithDescription("List saved form snapshots, most recently updated first."),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of snapshots to list"),
		),
	)
}

// Handle processes the form_list tool call.
func (t *ListTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sums, err := t.store.List(intArg(req, "limit", 0))
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	if len(sums) == 0 {
		return mcp.NewToolResultText("No saved forms yet. Use form_analyze to create one."), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## Saved forms (%d)\n\n", len(sums))
	for _, s := range sums {
		fmt.Fprintf(&b, "- `%s` **%s**: %s, %s, updated %s\n",
			s.ID, s.Title,
			plural(s.QuestionCount, "question"),
			plural(s.EditCount, "edit"),
			when(s.UpdatedAt),
		)
	}
	return mcp.NewToolResultText(b.String()), nil
}

// ─── DeleteTool ─────────────────────────────────────────────────────────────

// DeleteTool handles the form_delete MCP tool.
type DeleteTool struct {
	store  *store.Store
	editor *Editor
}

// NewDeleteTool creates a DeleteTool.
func NewDeleteTool(s *store.Store, editor *Editor) *DeleteTool {
	return &DeleteTool{store: s, editor: editor}
}

// Definition returns the MCP tool definition for form_delete.
func (t *DeleteTool) Definition() mcp.Tool {
	return mcp.NewTool("form_delete",
		mcp.WithDescription("Delete a saved form snapshot and its edit log. This cannot be undone."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Snapshot ID to delete"),
		),
	)
}

// Handle processes the form_delete tool call.
func (t *DeleteTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if id == "" {
		return mcp.NewToolResultError("'id' is required"), nil
	}
	// Pending edits would fail against a deleted row; write them first.
	_ = t.editor.Flush(id)

	if err := t.store.Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("failed to delete snapshot: %v", err)), nil
		}
		return nil, err
	}
	return mcp.NewToolResultText(fmt.Sprintf("Snapshot %s deleted", id)), nil
}

// when renders a stored timestamp relative to now.
func when(ts string) string {
	t, err := time.ParseInLocation(time.DateTime, ts, time.UTC)
	if err != nil {
		return ts
	}
	return humanize.Time(t)
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return humanize.Comma(int64(n)) + " " + noun + "s"
}
