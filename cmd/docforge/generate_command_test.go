package main

import (
	"os"
	"path/filepath"
	"testing"

	"docforge/internal/grid"
)

func TestLoadBindingsFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bindings.json")
	if err := os.WriteFile(path, []byte(`{"project":"Alpha","qty":3}`), 0o644); err != nil {
		t.Fatalf("write bindings: %v", err)
	}

	bindings, err := loadBindings(path, nil)
	if err != nil {
		t.Fatalf("loadBindings returned error: %v", err)
	}
	if bindings["project"] != "Alpha" {
		t.Fatalf("unexpected project binding: %v", bindings["project"])
	}
	if bindings["qty"] != float64(3) {
		t.Fatalf("unexpected qty binding: %v", bindings["qty"])
	}
}

func TestLoadBindingsSetOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bindings.json")
	if err := os.WriteFile(path, []byte(`{"project":"Alpha"}`), 0o644); err != nil {
		t.Fatalf("write bindings: %v", err)
	}

	bindings, err := loadBindings(path, []string{"project=Beta", "owner=Ana"})
	if err != nil {
		t.Fatalf("loadBindings returned error: %v", err)
	}
	if bindings["project"] != "Beta" {
		t.Fatalf("expected --set to win, got %v", bindings["project"])
	}
	if bindings["owner"] != "Ana" {
		t.Fatalf("unexpected owner binding: %v", bindings["owner"])
	}
}

func TestLoadBindingsRejectsBadSet(t *testing.T) {
	if _, err := loadBindings("", []string{"no-equals"}); err == nil {
		t.Fatal("expected error for malformed --set value")
	}
}

func TestBuildGridSpecTable(t *testing.T) {
	spec, err := buildGridSpec(5, 2, []string{"unit"}, false, 12)
	if err != nil {
		t.Fatalf("buildGridSpec returned error: %v", err)
	}
	if spec.Rows != 5 || spec.Layout.Kind != grid.KindTable || spec.Layout.DataCells != 2 {
		t.Fatalf("unexpected spec: %+v", spec)
	}
}

func TestBuildGridSpecCalendar(t *testing.T) {
	spec, err := buildGridSpec(3, 0, nil, true, 24)
	if err != nil {
		t.Fatalf("buildGridSpec returned error: %v", err)
	}
	if spec.Layout.Kind != grid.KindCalendar || spec.Layout.Months != 24 {
		t.Fatalf("unexpected spec: %+v", spec)
	}
}

func TestBuildGridSpecNoRows(t *testing.T) {
	spec, err := buildGridSpec(0, 0, nil, false, 12)
	if err != nil {
		t.Fatalf("buildGridSpec returned error: %v", err)
	}
	if spec != nil {
		t.Fatalf("expected nil spec without --rows, got %+v", spec)
	}
}

func TestBuildGridSpecRejectsOrphanFlags(t *testing.T) {
	if _, err := buildGridSpec(0, 2, nil, false, 12); err == nil {
		t.Fatal("expected error for --data-cells without --rows")
	}
	if _, err := buildGridSpec(0, 0, nil, true, 12); err == nil {
		t.Fatal("expected error for --calendar without --rows")
	}
}
