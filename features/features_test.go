package features

import (
	"testing"

	"github.com/janelia-flyem/ragengine/graph"
)

func TestUniqueRowSetDedup(t *testing.T) {
	u := NewUniqueRowSet()
	if !u.Insert([]float64{1, 2, float64(LabelMerge)}) {
		t.Fatal("expected first insert to succeed")
	}
	if u.Insert([]float64{1, 2, float64(LabelKeepApart)}) {
		t.Fatal("expected duplicate feature prefix to be rejected")
	}
	if u.Len() != 1 {
		t.Fatalf("expected 1 row, got %d", u.Len())
	}
	X, y := u.Extract()
	if len(X) != 1 || len(y) != 1 {
		t.Fatalf("expected 1 extracted row, got %d/%d", len(X), len(y))
	}
	if y[0] != LabelMerge {
		t.Errorf("expected first-seen label %d preserved, got %d", LabelMerge, y[0])
	}
}

func TestUniqueRowSetDistinctRows(t *testing.T) {
	u := NewUniqueRowSet()
	u.Insert([]float64{1, 2, float64(LabelMerge)})
	u.Insert([]float64{1, 3, float64(LabelKeepApart)})
	if u.Len() != 2 {
		t.Fatalf("expected 2 distinct rows, got %d", u.Len())
	}
}

func TestBodyOverlapOracle(t *testing.T) {
	o := NewBodyOverlapOracle()
	o.BodyOf[1] = 100
	o.BodyOf[2] = 100
	o.BodyOf[3] = 200

	if got := o.Label(1, 2); got != LabelMerge {
		t.Errorf("expected LabelMerge for shared body, got %d", got)
	}
	if got := o.Label(1, 3); got != LabelKeepApart {
		t.Errorf("expected LabelKeepApart for distinct bodies, got %d", got)
	}
	if got := o.Label(1, 4); got != LabelUndecidable {
		t.Errorf("expected LabelUndecidable for unassigned label, got %d", got)
	}
}

func TestBodyOverlapOracleMitoOverride(t *testing.T) {
	o := NewBodyOverlapOracle()
	o.MitoOverride = true
	o.BodyOf[1] = 100
	o.BodyOf[2] = 100
	o.Mito[2] = true

	if got := o.Label(1, 2); got != LabelKeepApart {
		t.Errorf("expected mito override to force LabelKeepApart, got %d", got)
	}
}

func TestStumpClassifierLearnsSeparableThreshold(t *testing.T) {
	clf := NewStumpClassifier()
	X := [][]float64{{0.1}, {0.2}, {0.9}, {0.8}}
	y := []int{LabelMerge, LabelMerge, LabelKeepApart, LabelKeepApart}
	if err := clf.Learn(X, y); err != nil {
		t.Fatalf("Learn: %v", err)
	}
	if !clf.IsTrained() {
		t.Fatal("expected classifier to be trained")
	}
	if p := clf.Predict([]float64{0.1}); p > 0.5 {
		t.Errorf("expected low keep-apart probability for merge-like input, got %v", p)
	}
	if p := clf.Predict([]float64{0.9}); p < 0.5 {
		t.Errorf("expected high keep-apart probability for keep-apart-like input, got %v", p)
	}
}

func TestMomentAggregatorMergeFeatures(t *testing.T) {
	g := graph.New()
	g.AddNode(1, 10)
	g.AddNode(2, 20)
	g.AddNode(3, 5)
	e1, _ := g.AddEdge(1, 2, 4)
	e2, _ := g.AddEdge(1, 3, 2)

	agg := NewMomentAggregator()
	f1 := agg.ComputeAllFeatures(e1)
	if len(f1) != 4 {
		t.Fatalf("expected 4 features, got %d", len(f1))
	}

	agg.MergeFeatures(e1, e2)
	merged := agg.momentsFor(e1)
	if merged.boundary != float64(e1.Size)+float64(e2.Size) {
		t.Errorf("expected merged boundary to sum, got %v", merged.boundary)
	}
}

func TestMomentAggregatorGetProbMemoized(t *testing.T) {
	g := graph.New()
	g.AddNode(1, 10)
	g.AddNode(2, 20)
	e, _ := g.AddEdge(1, 2, 4)

	agg := NewMomentAggregator()
	p1 := agg.GetProb(e)
	p2 := agg.GetProb(e)
	if p1 != p2 {
		t.Errorf("expected memoized prediction to be stable, got %v then %v", p1, p2)
	}
}

func TestMemoryFootprintNonNegative(t *testing.T) {
	g := graph.New()
	g.AddNode(1, 10)
	g.AddNode(2, 20)
	g.AddEdge(1, 2, 4)
	agg := NewMomentAggregator()
	if fp := MemoryFootprint(g, agg); fp < 0 {
		t.Errorf("expected non-negative footprint, got %d", fp)
	}
}
