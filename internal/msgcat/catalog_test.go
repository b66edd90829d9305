package msgcat

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultCatalogRendersLegend(t *testing.T) {
	c := Default()
	got, err := c.Render("report.legend.gtp", map[string]any{"Window": 10, "Threshold": 120})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(got, "last 10 moves") || !strings.Contains(got, "120 seconds") {
		t.Fatalf("unexpected legend: %q", got)
	}
}

func TestRender_MissingField(t *testing.T) {
	if _, err := Default().Render("report.title", map[string]any{}); err == nil {
		t.Fatalf("expected error for missing template field")
	}
	if got := Default().RenderOr("report.nope", nil, "fallback"); got != "fallback" {
		t.Fatalf("RenderOr = %q", got)
	}
}

func TestOverrideDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.yaml"), []byte("report:\n  title: \"Zeitnot in {{.Event}}\"\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	c, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got, err := c.Render("report.title", map[string]any{"Event": "Skilling Open"})
	if err != nil || got != "Zeitnot in Skilling Open" {
		t.Fatalf("override not applied: %q %v", got, err)
	}
}

func TestOverrideDir_DuplicateKeys(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.yaml", "b.yml"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("report:\n  title: x\n"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if _, err := New(dir); err == nil {
		t.Fatalf("expected duplicate key error")
	}
}
