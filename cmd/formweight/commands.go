package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/HendryAvila/formweight/internal/analysis"
	"github.com/HendryAvila/formweight/internal/decoder"
	"github.com/HendryAvila/formweight/internal/form"
	fwserver "github.com/HendryAvila/formweight/internal/server"
	"github.com/HendryAvila/formweight/internal/store"
)

var (
	noDeps        bool
	saveResults   bool
	jsonOutput    bool
	parallel      int
	fallbackTitle string
)

// ─── serve ──────────────────────────────────────────────────────────────────

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server on stdio",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, cleanup := fwserver.New(cfg, logger)
		defer cleanup()

		// Pending edits are written by cleanup, so an interrupt has to
		// return through here instead of killing the process.
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		stdio := server.NewStdioServer(s)
		logger.Info("serving MCP on stdio", zap.String("version", fwserver.Version))
		if err := stdio.Listen(ctx, os.Stdin, os.Stdout); err != nil && ctx.Err() == nil {
			return fmt.Errorf("serving: %w", err)
		}
		return nil
	},
}

// ─── decode ─────────────────────────────────────────────────────────────────

var decodeCmd = &cobra.Command{
	Use:   "decode <file>",
	Short: "Print the questions of a saved form page or JSON payload",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := decodeFile(args[0], fallbackTitle)
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), f)
	},
}

// ─── analyze ────────────────────────────────────────────────────────────────

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>...",
	Short: "Decode and weight one or more forms",
	Long: `Decodes each file, assigns demographic weights, and prints a summary.
Files are processed concurrently; each one is independent.

With --save every result is stored as a snapshot the MCP tools can edit.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

type analyzed struct {
	path       string
	form       *form.Form
	snapshotID string
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	opts := analysis.DefaultOptions()
	opts.ResolveDependencies = cfg.Analysis.ResolveDependencies && !noDeps

	var st *store.Store
	if saveResults {
		storeCfg := store.DefaultConfig()
		storeCfg.DataDir = cfg.DataDir
		var err error
		if st, err = store.New(storeCfg); err != nil {
			return fmt.Errorf("opening form store: %w", err)
		}
		defer func() { _ = st.Close() }()
	}

	results := make([]analyzed, len(args))
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(max(1, parallel))
	for i, path := range args {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			f, err := decodeFile(path, fallbackTitle)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			res := analyzed{path: path, form: analysis.Analyze(f, opts)}
			if st != nil {
				snap, err := st.Save(res.form, filepath.Base(path))
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				res.snapshotID = snap.ID
			}
			logger.Debug("analyzed form",
				zap.String("path", path),
				zap.Int("questions", len(res.form.Questions)),
			)
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		forms := make([]*form.Form, len(results))
		for i, r := range results {
			forms[i] = r.form
		}
		return writeJSON(out, forms)
	}
	for i, r := range results {
		if i > 0 {
			fmt.Fprintln(out)
		}
		printAnalysis(out, r)
	}
	return nil
}

func printAnalysis(w io.Writer, r analyzed) {
	rep := analysis.Summarize(r.form)
	fmt.Fprintf(w, "%s: %s\n", r.path, r.form.Title)
	fmt.Fprintf(w, "  %s questions on %s, %s weighted, %s free text\n",
		humanize.Comma(int64(rep.Questions)),
		pages(rep.Pages),
		humanize.Comma(int64(rep.Weighted)),
		humanize.Comma(int64(rep.FreeText)),
	)
	if r.snapshotID != "" {
		fmt.Fprintf(w, "  saved as %s\n", r.snapshotID)
	}
	for _, q := range r.form.Questions {
		if !q.Weighted() {
			continue
		}
		parts := make([]string, len(q.Options))
		for i, o := range q.Options {
			parts[i] = fmt.Sprintf("%s %d%%", o.Value, o.WeightOf())
		}
		fmt.Fprintf(w, "  - %s: %s\n", q.Title, strings.Join(parts, ", "))
	}
}

func pages(n int) string {
	if n == 1 {
		return "1 page"
	}
	return humanize.Comma(int64(n)) + " pages"
}

// ─── helpers ────────────────────────────────────────────────────────────────

// decodeFile reads a saved page or a bare JSON payload.
func decodeFile(path, title string) (*form.Form, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return decoder.DecodeSource(data, title)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
