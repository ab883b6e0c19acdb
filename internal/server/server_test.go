package server

import (
	"errors"
	"maps"
	"slices"
	"testing"

	"github.com/HendryAvila/formweight/internal/config"
	"github.com/HendryAvila/formweight/internal/store"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()
	cfg.Edit.DebounceMS = 0
	return cfg
}

func TestNew_RegistersAllTools(t *testing.T) {
	s, cleanup := New(testConfig(t), nil)
	defer cleanup()

	got := slices.Sorted(maps.Keys(s.ListTools()))
	want := []string{
		"form_adjust_weight", "form_analyze", "form_balance", "form_decode", "form_delete",
		"form_get", "form_handoff_apply", "form_handoff_prompt", "form_list",
	}
	if !slices.Equal(got, want) {
		t.Errorf("tools = %v, want %v", got, want)
	}
}

func TestNew_StoreFailureKeepsAnalysis(t *testing.T) {
	old := openStore
	openStore = func(store.Config) (*store.Store, error) { return nil, errors.New("read-only filesystem") }
	defer func() { openStore = old }()

	s, cleanup := New(testConfig(t), nil)
	defer cleanup()

	got := slices.Sorted(maps.Keys(s.ListTools()))
	want := []string{"form_analyze", "form_decode"}
	if !slices.Equal(got, want) {
		t.Errorf("tools = %v, want %v", got, want)
	}
}
