// Package prompts implements MCP prompt handlers for form weighting.
//
// MCP prompts are user-triggered workflows (like slash commands) that
// instruct the AI to execute a specific sequence. Unlike tools (which
// the AI calls), prompts are initiated by the user.
package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// GuidePrompt handles the weighting-guide MCP prompt.
// It walks the AI through decoding, weighting and refining one form.
type GuidePrompt struct{}

// NewGuidePrompt creates a GuidePrompt.
func NewGuidePrompt() *GuidePrompt {
	return &GuidePrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *GuidePrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("weighting-guide",
		mcp.WithPromptDescription(
			"Weight a survey form step by step: decode it, assign demographic weights, "+
				"review them with you, and optionally refine them through an external generator.",
		),
		mcp.WithArgument("path",
			mcp.ArgumentDescription("Path to the saved form page or JSON payload"),
		),
		mcp.WithArgument("handoff",
			mcp.ArgumentDescription("'yes' to finish with a generator hand-off round. Default: no"),
		),
	)
}

// Handle processes the weighting-guide prompt request.
func (p *GuidePrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	path := ""
	handoff := false
	if args := req.Params.Arguments; args != nil {
		path = args["path"]
		handoff = args["handoff"] == "yes"
	}

	source := "Ask me where the saved form page is, then run `form_analyze` with that path"
	if path != "" {
		source = fmt.Sprintf("Run `form_analyze` with path='%s'", path)
	}

	finish := "4. Show me the final weights with `form_get` when I'm happy"
	if handoff {
		finish = "4. Run `form_handoff_prompt`, show me the prompt to paste into my generator, " +
			"then pass its reply to `form_handoff_apply`\n" +
			"5. Show me the merged weights with `form_get` and fix any question that no longer sums to 100"
	}

	return &mcp.GetPromptResult{
		Description: "Weight a survey form",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"I want realistic answer weights for a survey form.\n\n"+
						"Please:\n"+
						"1. %s\n"+
						"2. Walk me through the weighted questions one page at a time; every question's weights sum to 100\n"+
						"3. When I want a different split, use `form_adjust_weight` (or `form_balance` for an even split)\n"+
						"%s",
					source, finish,
				)),
			},
		},
	}, nil
}
