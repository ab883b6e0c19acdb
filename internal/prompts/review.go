package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// ReviewPrompt handles the form-review MCP prompt.
// It instructs the AI to read a saved form and point out weak weights.
type ReviewPrompt struct{}

// NewReviewPrompt creates a ReviewPrompt.
func NewReviewPrompt() *ReviewPrompt {
	return &ReviewPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *ReviewPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("form-review",
		mcp.WithPromptDescription(
			"Review the weights of a saved form and suggest corrections.",
		),
		mcp.WithArgument("id",
			mcp.ArgumentDescription("Snapshot ID. Default: the most recently updated form"),
		),
	)
}

// Handle processes the form-review prompt request.
func (p *ReviewPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	target := "Run `form_list` and pick the most recently updated form, then run `form_get` on it with edits=true."
	if id := req.Params.Arguments["id"]; id != "" {
		target = fmt.Sprintf("Run `form_get` with id='%s' and edits=true.", id)
	}

	return &mcp.GetPromptResult{
		Description: "Review form weights",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(
					target + "\n\n" +
						"Then:\n" +
						"1. Flag any question whose weights do not sum to 100\n" +
						"2. Flag opt-out answers (prefer not to say, other) that carry more than a small share\n" +
						"3. Flag strongly negative answers that outweigh the positive ones\n" +
						"4. Propose concrete `form_adjust_weight` calls for each issue and wait for my go-ahead",
				),
			},
		},
	}, nil
}
