package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/formweight/internal/form"
	"github.com/HendryAvila/formweight/internal/redistribute"
	"github.com/HendryAvila/formweight/internal/store"
	"github.com/HendryAvila/formweight/internal/weights"
)

// ─── AdjustWeightTool ───────────────────────────────────────────────────────

// AdjustWeightTool handles the form_adjust_weight MCP tool.
type AdjustWeightTool struct {
	editor *Editor
}

// NewAdjustWeightTool creates an AdjustWeightTool.
func NewAdjustWeightTool(editor *Editor) *AdjustWeightTool {
	return &AdjustWeightTool{editor: editor}
}

// Definition returns the MCP tool definition for form_adjust_weight.
func (t *AdjustWeightTool) Definition() mcp.Tool {
	return mcp.NewTool("form_adjust_weight",
		mcp.WithDescription(
			"Set one option's weight by hand. The other options of the question are "+
				"rescaled proportionally so the total stays 100.",
		),
		mcp.WithString("snapshot_id",
			mcp.Required(),
			mcp.Description("Snapshot ID"),
		),
		mcp.WithString("question_id",
			mcp.Required(),
			mcp.Description("Question ID within the snapshot"),
		),
		mcp.WithNumber("option_index",
			mcp.Required(),
			mcp.Description("Zero-based index of the option to set"),
		),
		mcp.WithNumber("weight",
			mcp.Required(),
			mcp.Description("New weight, 0-100"),
		),
	)
}

// Handle processes the form_adjust_weight tool call.
func (t *AdjustWeightTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snapshotID := req.GetString("snapshot_id", "")
	questionID := req.GetString("question_id", "")
	if snapshotID == "" || questionID == "" {
		return mcp.NewToolResultError("'snapshot_id' and 'question_id' are required"), nil
	}
	k := intArg(req, "option_index", -1)
	v := intArg(req, "weight", -1)
	if k < 0 {
		return mcp.NewToolResultError("'option_index' is required"), nil
	}
	if v < 0 {
		return mcp.NewToolResultError("'weight' is required and must not be negative"), nil
	}

	q, err := t.editor.Adjust(snapshotID, questionID, k, v)
	if err != nil {
		return editFailure("adjust weight", err)
	}
	return mcp.NewToolResultText(renderEdited(*q)), nil
}

// ─── BalanceTool ────────────────────────────────────────────────────────────

// BalanceTool handles the form_balance MCP tool.
type BalanceTool struct {
	editor *Editor
}

// NewBalanceTool creates a BalanceTool.
func NewBalanceTool(editor *Editor) *BalanceTool {
	return &BalanceTool{editor: editor}
}

// Definition returns the MCP tool definition for form_balance.
func (t *BalanceTool) Definition() mcp.Tool {
	return mcp.NewTool("form_balance",
		mcp.WithDescription("Spread a question's weights evenly across its options."),
		mcp.WithString("snapshot_id",
			mcp.Required(),
			mcp.Description("Snapshot ID"),
		),
		mcp.WithString("question_id",
			mcp.Required(),
			mcp.Description("Question ID within the snapshot"),
		),
	)
}

// Handle processes the form_balance tool call.
func (t *BalanceTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snapshotID := req.GetString("snapshot_id", "")
	questionID := req.GetString("question_id", "")
	if snapshotID == "" || questionID == "" {
		return mcp.NewToolResultError("'snapshot_id' and 'question_id' are required"), nil
	}

	q, err := t.editor.Balance(snapshotID, questionID)
	if err != nil {
		return editFailure("balance weights", err)
	}
	return mcp.NewToolResultText(renderEdited(*q)), nil
}

// editFailure maps user-caused edit errors to tool errors. Anything else
// is an internal fault.
func editFailure(action string, err error) (*mcp.CallToolResult, error) {
	if errors.Is(err, store.ErrNotFound) || errors.Is(err, redistribute.ErrIndexOutOfRange) ||
		errors.Is(err, errNoOptions) {
		return mcp.NewToolResultError(fmt.Sprintf("failed to %s: %v", action, err)), nil
	}
	return nil, fmt.Errorf("%s: %w", action, err)
}

func renderEdited(q form.Question) string {
	var b strings.Builder
	describeQuestion(&b, 0, q)
	fmt.Fprintf(&b, "\nTotal: %d%%\n", weights.Sum(q.Weights()))
	return b.String()
}
