package graphio

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	doc := `{
		"node": [
			{"id": 1, "size": 10, "boundary_size": 8},
			{"id": 2, "size": 20, "boundary_size": 12}
		],
		"edge": [
			{"node1": 1, "node2": 2, "size": 4, "weight": 0.5, "preserve": false, "false_edge": false}
		],
		"range": [0.1, 0.9]
	}`
	dir := t.TempDir()
	src := filepath.Join(dir, "in.json")
	if err := os.WriteFile(src, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	g, rng, err := Load(src, LoadOptions{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if rng == nil || rng.Min != 0.1 || rng.Max != 0.9 {
		t.Fatalf("expected range [0.1, 0.9], got %+v", rng)
	}
	if g.NumNodes() != 2 || g.NumEdges() != 1 {
		t.Fatalf("expected 2 nodes, 1 edge, got %d/%d", g.NumNodes(), g.NumEdges())
	}

	out := filepath.Join(dir, "out.json")
	if err := Save(out, g, rng); err != nil {
		t.Fatalf("Save: %v", err)
	}

	g2, rng2, err := Load(out, LoadOptions{})
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if g2.NumNodes() != g.NumNodes() || g2.NumEdges() != g.NumEdges() {
		t.Fatalf("round-trip mismatch: %d/%d vs %d/%d", g2.NumNodes(), g2.NumEdges(), g.NumNodes(), g.NumEdges())
	}
	if rng2 == nil || rng2.Min != 0.1 || rng2.Max != 0.9 {
		t.Fatalf("expected range to round-trip as [0.1, 0.9], got %+v", rng2)
	}
	n1, ok := g2.Node(1)
	if !ok || n1.Size != 10 || n1.BoundarySize != 8 {
		t.Errorf("node 1 round-trip mismatch: %+v", n1)
	}
	e, ok := g2.FindEdge(1, 2)
	if !ok || e.Size != 4 || e.Weight != 0.5 {
		t.Errorf("edge round-trip mismatch: %+v", e)
	}
}

func TestLoadRejectsMalformedSchema(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "bad.json")
	// missing required "edge" key entirely.
	if err := os.WriteFile(src, []byte(`{"node": []}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := Load(src, LoadOptions{}); err == nil {
		t.Fatal("expected schema validation failure")
	}
}

func TestLoadSkipValidation(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "skip.json")
	doc := `{"node": [{"id": 1, "size": 5}], "edge": []}`
	if err := os.WriteFile(src, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := Load(src, LoadOptions{SkipValidation: true}); err != nil {
		t.Fatalf("expected skip-validation load to succeed, got %v", err)
	}
}

func TestLoadRejectsEmptyGraph(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "empty.json")
	if err := os.WriteFile(src, []byte(`{"node": [], "edge": []}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := Load(src, LoadOptions{}); err == nil {
		t.Fatal("expected ErrMissingVolume for empty graph")
	}
}
