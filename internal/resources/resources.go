// Package resources implements MCP resource handlers for saved forms.
//
// Resources provide read-only data that the host can consume for context.
// They use URI-based addressing (formweight://...) following MCP conventions.
package resources

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/formweight/internal/store"
)

// URIs served by the Handler.
const (
	FormsURI        = "formweight://forms"
	FormURITemplate = "formweight://forms/{id}"
)

// Flusher writes pending weight edits of a snapshot before it is read.
type Flusher interface {
	Flush(snapshotID string) error
}

// Handler manages form resource endpoints.
type Handler struct {
	store   *store.Store
	flusher Flusher
}

// NewHandler creates a resource Handler with its dependencies. flusher
// may be nil.
func NewHandler(s *store.Store, flusher Flusher) *Handler {
	return &Handler{store: s, flusher: flusher}
}

// FormsResource returns the MCP resource definition for the snapshot list.
func (h *Handler) FormsResource() mcp.Resource {
	return mcp.NewResource(
		FormsURI,
		"Saved forms",
		mcp.WithResourceDescription("Saved form snapshots, most recently updated first"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleForms returns the snapshot list as JSON.
func (h *Handler) HandleForms(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	sums, err := h.store.List(0)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	return jsonResource(req.Params.URI, sums)
}

// FormTemplate returns the MCP resource template for one snapshot.
func (h *Handler) FormTemplate() mcp.ResourceTemplate {
	return mcp.NewResourceTemplate(
		FormURITemplate,
		"Saved form",
		mcp.WithTemplateDescription("One saved form snapshot with its current weights"),
		mcp.WithTemplateMIMEType("application/json"),
	)
}

// HandleForm returns one snapshot as JSON.
func (h *Handler) HandleForm(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	id := strings.TrimPrefix(req.Params.URI, FormsURI+"/")
	if id == "" || id == req.Params.URI {
		return errorResource(req.Params.URI, "missing snapshot id"), nil
	}
	if h.flusher != nil {
		if err := h.flusher.Flush(id); err != nil {
			return errorResource(req.Params.URI, err.Error()), nil
		}
	}

	snap, err := h.store.Get(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return errorResource(req.Params.URI, err.Error()), nil
		}
		return nil, err
	}
	return jsonResource(req.Params.URI, snap)
}
