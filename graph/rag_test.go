package graph

import "testing"

func buildTwoNode(t *testing.T) *RAG {
	g := New()
	if _, err := g.AddNode(1, 10); err != nil {
		t.Fatalf("AddNode(1): %v", err)
	}
	if _, err := g.AddNode(2, 5); err != nil {
		t.Fatalf("AddNode(2): %v", err)
	}
	if _, err := g.AddEdge(1, 2, 2); err != nil {
		t.Fatalf("AddEdge(1,2): %v", err)
	}
	return g
}

func TestTwoNodeMerge(t *testing.T) {
	g := buildTwoNode(t)

	if err := g.JoinNodes(1, 2, NullCombine{}); err != nil {
		t.Fatalf("JoinNodes: %v", err)
	}
	if g.NumNodes() != 1 {
		t.Fatalf("expected 1 node after merge, got %d", g.NumNodes())
	}
	if g.NumEdges() != 0 {
		t.Fatalf("expected 0 edges after merge, got %d", g.NumEdges())
	}
	n, ok := g.Node(1)
	if !ok {
		t.Fatalf("expected node 1 to survive")
	}
	if n.Size != 15 {
		t.Errorf("expected size 15, got %d", n.Size)
	}
	if _, ok := g.Node(2); ok {
		t.Errorf("expected node 2 to be gone")
	}
}

func TestTriangleCollapse(t *testing.T) {
	g := New()
	for _, id := range []Label{1, 2, 3} {
		if _, err := g.AddNode(id, 10); err != nil {
			t.Fatalf("AddNode(%d): %v", id, err)
		}
	}
	if _, err := g.AddEdge(1, 2, 3); err != nil {
		t.Fatal(err)
	}
	if _, err := g.AddEdge(1, 3, 4); err != nil {
		t.Fatal(err)
	}
	if _, err := g.AddEdge(2, 3, 5); err != nil {
		t.Fatal(err)
	}

	// merge a,b (1,2); their shared edge to c (3) should combine sizes 4+5=9.
	if err := g.JoinNodes(1, 2, NullCombine{}); err != nil {
		t.Fatalf("JoinNodes: %v", err)
	}
	if g.NumNodes() != 2 {
		t.Fatalf("expected 2 nodes, got %d", g.NumNodes())
	}
	e, ok := g.FindEdge(1, 3)
	if !ok {
		t.Fatalf("expected surviving edge between 1 and 3")
	}
	if e.Size != 9 {
		t.Errorf("expected combined edge size 9, got %d", e.Size)
	}
}

func TestFindEdgeNoParallel(t *testing.T) {
	g := buildTwoNode(t)
	if _, err := g.AddEdge(1, 2, 1); err == nil {
		t.Fatalf("expected error adding parallel edge")
	}
}

func TestSelfLoopRejected(t *testing.T) {
	g := New()
	if _, err := g.AddNode(1, 10); err != nil {
		t.Fatal(err)
	}
	if _, err := g.AddEdge(1, 1, 1); err == nil {
		t.Fatalf("expected error adding self-loop")
	}
}

func TestRemoveInclusions(t *testing.T) {
	// node 2 is fully enclosed within node 1 (degree 1).
	g := New()
	if _, err := g.AddNode(1, 100); err != nil {
		t.Fatal(err)
	}
	if _, err := g.AddNode(2, 5); err != nil {
		t.Fatal(err)
	}
	if _, err := g.AddEdge(1, 2, 3); err != nil {
		t.Fatal(err)
	}

	removed, err := g.RemoveInclusions(NullCombine{})
	if err != nil {
		t.Fatalf("RemoveInclusions: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 inclusion removed, got %d", removed)
	}
	n, ok := g.Node(1)
	if !ok || n.Size != 105 {
		t.Fatalf("expected node 1 size 105, got %+v (ok=%v)", n, ok)
	}
}

func TestJoinNodesConservesVoxelCount(t *testing.T) {
	g := New()
	sizes := map[Label]uint64{1: 10, 2: 20, 3: 30}
	for id, sz := range sizes {
		if _, err := g.AddNode(id, sz); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := g.AddEdge(1, 2, 1); err != nil {
		t.Fatal(err)
	}
	if _, err := g.AddEdge(2, 3, 1); err != nil {
		t.Fatal(err)
	}

	var total uint64
	for _, sz := range sizes {
		total += sz
	}

	if err := g.JoinNodes(2, 1, NullCombine{}); err != nil {
		t.Fatal(err)
	}
	if err := g.JoinNodes(3, 2, NullCombine{}); err != nil {
		t.Fatal(err)
	}

	n, ok := g.Node(3)
	if !ok {
		t.Fatalf("expected node 3 to survive")
	}
	if n.Size != total {
		t.Errorf("expected conserved size %d, got %d", total, n.Size)
	}
}
