package resources

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/formweight/internal/form"
	"github.com/HendryAvila/formweight/internal/store"
)

type recordingFlusher struct {
	ids []string
	err error
}

func (f *recordingFlusher) Flush(id string) error {
	f.ids = append(f.ids, id)
	return f.err
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.New(store.Config{DataDir: t.TempDir(), MaxListItems: 10})
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func readReq(uri string) mcp.ReadResourceRequest {
	req := mcp.ReadResourceRequest{}
	req.Params.URI = uri
	return req
}

func text(t *testing.T, contents []mcp.ResourceContents) mcp.TextResourceContents {
	t.Helper()
	if len(contents) != 1 {
		t.Fatalf("got %d contents, want 1", len(contents))
	}
	tc, ok := contents[0].(mcp.TextResourceContents)
	if !ok {
		t.Fatalf("content is %T", contents[0])
	}
	return tc
}

func TestHandleForms(t *testing.T) {
	s := newTestStore(t)
	h := NewHandler(s, nil)
	if h.FormsResource().URI != FormsURI {
		t.Errorf("URI = %q", h.FormsResource().URI)
	}

	got, err := h.HandleForms(context.Background(), readReq(FormsURI))
	if err != nil {
		t.Fatalf("HandleForms: %v", err)
	}
	if tc := text(t, got); strings.TrimSpace(tc.Text) != "[]" {
		t.Errorf("empty store should list [], got %s", tc.Text)
	}

	if _, err := s.Save(&form.Form{Title: "Poll"}, "test"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err = h.HandleForms(context.Background(), readReq(FormsURI))
	if err != nil {
		t.Fatalf("HandleForms: %v", err)
	}
	var sums []store.Summary
	if err := json.Unmarshal([]byte(text(t, got).Text), &sums); err != nil {
		t.Fatalf("decoding list: %v", err)
	}
	if len(sums) != 1 || sums[0].Title != "Poll" {
		t.Errorf("list = %+v", sums)
	}
}

func TestHandleForm(t *testing.T) {
	s := newTestStore(t)
	fl := &recordingFlusher{}
	h := NewHandler(s, fl)

	snap, err := s.Save(&form.Form{Title: "Poll"}, "test")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	uri := FormsURI + "/" + snap.ID
	got, err := h.HandleForm(context.Background(), readReq(uri))
	if err != nil {
		t.Fatalf("HandleForm: %v", err)
	}
	tc := text(t, got)
	if tc.MIMEType != "application/json" || !strings.Contains(tc.Text, snap.ID) {
		t.Errorf("unexpected content: %+v", tc)
	}
	if len(fl.ids) != 1 || fl.ids[0] != snap.ID {
		t.Errorf("flushed %v, want [%s]", fl.ids, snap.ID)
	}

	got, err = h.HandleForm(context.Background(), readReq(FormsURI+"/missing"))
	if err != nil {
		t.Fatalf("HandleForm: %v", err)
	}
	if tc := text(t, got); !strings.HasPrefix(tc.Text, "Error:") {
		t.Errorf("missing snapshot should be an error resource, got %s", tc.Text)
	}

	fl.err = errors.New("disk full")
	got, err = h.HandleForm(context.Background(), readReq(uri))
	if err != nil {
		t.Fatalf("HandleForm: %v", err)
	}
	if tc := text(t, got); !strings.Contains(tc.Text, "disk full") {
		t.Errorf("flush failure should be reported, got %s", tc.Text)
	}
}
