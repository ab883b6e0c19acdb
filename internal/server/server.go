// Package server wires all MCP components and creates the server instance.
//
// This is the composition root: it creates the store, the editor and the
// analysis options and injects them into the tools, prompts and
// resources. No business logic lives here, only wiring.
package server

import (
	"time"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/HendryAvila/formweight/internal/analysis"
	"github.com/HendryAvila/formweight/internal/config"
	"github.com/HendryAvila/formweight/internal/prompts"
	"github.com/HendryAvila/formweight/internal/resources"
	"github.com/HendryAvila/formweight/internal/store"
	"github.com/HendryAvila/formweight/internal/tools"
)

// Version is set at build time via ldflags.
var Version = "dev"

// openStore is a package-level var to allow test injection.
var openStore = store.New

// New creates and configures the MCP server with all tools, prompts,
// and resources registered. This is the single place where all
// dependencies are resolved.
//
// The returned cleanup function writes pending weight edits and closes
// the store. It is always non-nil and safe to call even if the store
// failed to open.
func New(cfg config.Config, logger *zap.Logger) (*server.MCPServer, func()) {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := server.NewMCPServer(
		"formweight",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	opts := analysis.DefaultOptions()
	opts.ResolveDependencies = cfg.Analysis.ResolveDependencies

	// --- Register stateless tools ---

	decodeTool := tools.NewDecodeTool()
	s.AddTool(decodeTool.Definition(), decodeTool.Handle)

	// --- Register persistence tools ---
	//
	// The store is best-effort: if it fails to open, decoding and
	// analysis keep working. We log a warning and skip the tools that
	// need saved snapshots.

	storeCfg := store.DefaultConfig()
	storeCfg.DataDir = cfg.DataDir
	st, err := openStore(storeCfg)
	if err != nil {
		logger.Warn("form store disabled", zap.String("data_dir", cfg.DataDir), zap.Error(err))
		analyzeTool := tools.NewAnalyzeTool(nil, opts)
		s.AddTool(analyzeTool.Definition(), analyzeTool.Handle)
		registerPrompts(s)
		return s, noop
	}

	delay := time.Duration(cfg.Edit.DebounceMS) * time.Millisecond
	editor := tools.NewEditor(st, delay, logger.Named("editor"))
	cleanup := func() {
		if err := editor.Close(); err != nil {
			logger.Warn("writing pending edits", zap.Error(err))
		}
		if err := st.Close(); err != nil {
			logger.Warn("form store close", zap.Error(err))
		}
	}

	analyzeTool := tools.NewAnalyzeTool(st, opts)
	s.AddTool(analyzeTool.Definition(), analyzeTool.Handle)
	registerStoreTools(s, st, editor)
	registerPrompts(s)

	// --- Register resources ---

	resourceHandler := resources.NewHandler(st, editor)
	s.AddResource(resourceHandler.FormsResource(), resourceHandler.HandleForms)
	s.AddResourceTemplate(resourceHandler.FormTemplate(), resourceHandler.HandleForm)

	logger.Info("form store ready",
		zap.String("data_dir", storeCfg.DataDir),
		zap.Duration("edit_debounce", delay),
		zap.Bool("resolve_dependencies", opts.ResolveDependencies),
	)
	return s, cleanup
}

// noop is the cleanup function used when the store is disabled.
func noop() {}

// registerStoreTools registers the tools that work on saved snapshots.
func registerStoreTools(s *server.MCPServer, st *store.Store, editor *tools.Editor) {
	// --- Query ---
	getTool := tools.NewGetTool(st, editor)
	s.AddTool(getTool.Definition(), getTool.Handle)

	listTool := tools.NewListTool(st)
	s.AddTool(listTool.Definition(), listTool.Handle)

	// --- Manual edits ---
	adjustTool := tools.NewAdjustWeightTool(editor)
	s.AddTool(adjustTool.Definition(), adjustTool.Handle)

	balanceTool := tools.NewBalanceTool(editor)
	s.AddTool(balanceTool.Definition(), balanceTool.Handle)

	// --- Hand-off ---
	promptTool := tools.NewHandoffPromptTool(st, editor)
	s.AddTool(promptTool.Definition(), promptTool.Handle)

	applyTool := tools.NewHandoffApplyTool(st, editor)
	s.AddTool(applyTool.Definition(), applyTool.Handle)

	// --- Management ---
	deleteTool := tools.NewDeleteTool(st, editor)
	s.AddTool(deleteTool.Definition(), deleteTool.Handle)
}

func registerPrompts(s *server.MCPServer) {
	guidePrompt := prompts.NewGuidePrompt()
	s.AddPrompt(guidePrompt.Definition(), guidePrompt.Handle)

	reviewPrompt := prompts.NewReviewPrompt()
	s.AddPrompt(reviewPrompt.Definition(), reviewPrompt.Handle)
}

// serverInstructions returns the system instructions that tell the AI
// how to use formweight.
func serverInstructions() string {
	return `You have access to formweight, a survey weighting MCP server.

## WHAT IT DOES

formweight reads a saved survey form (the page HTML or its JSON payload),
lists its questions and options, and gives every option of every choice
question a weight: the share of simulated respondents who should pick it.
The weights of one question always sum to 100.

## TYPICAL FLOW

1. form_analyze with the path the user gives you. It decodes, weights and
   saves the form and returns a snapshot id. Use form_decode instead when
   the user only wants to see the questions.
2. Present the weights page by page. Explain the notable choices:
   opt-out answers (prefer not to say, other) get a small share, strongly
   negative answers are kept low, and related questions (age, profession,
   income, education) are adjusted against each other.
3. When the user wants a different split, call form_adjust_weight with the
   option index and the new weight. The other options are rescaled for
   you; never try to fix the total yourself. form_balance spreads a
   question evenly.
4. For a more realistic distribution, call form_handoff_prompt, give the
   user the prompt to paste into their generator, then pass the reply to
   form_handoff_apply. Replies are JSON arrays; if the user pasted extra
   text, ask them to paste only the JSON.

## RULES

- Always use the snapshot id returned by form_analyze; form_list shows
  saved forms when you do not have one.
- Weights are integers from 0 to 100.
- form_delete cannot be undone. Confirm with the user first.
- Free-text questions have no weights; they carry sample answers instead.`
}
