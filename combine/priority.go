// Package combine provides the graph.CombineAlg implementation that keeps a merge
// priority queue and a feature aggregator consistent with graph mutations. It lives in
// its own package, rather than graph, queue, or features, because it depends on all
// three — wiring queue.Queue and features.Aggregator under a single strategy the way
// NeuroProof's RagPriorityCombine glues the heap to the feature manager inside
// BioPriors/StackLearnAlgs.cpp.
package combine

import (
	"github.com/janelia-flyem/ragengine/features"
	"github.com/janelia-flyem/ragengine/graph"
	"github.com/janelia-flyem/ragengine/queue"
)

// PriorityQCombine drives both the merge queue and the feature aggregator during a
// queue-ordered agglomeration pass: every structural callback recomputes the affected
// edge's priority from the aggregator and reinserts it, so the queue never falls out of
// sync with the classifier's current predictions.
type PriorityQCombine struct {
	Queue *queue.Queue
	Agg   features.Aggregator
}

// New returns a PriorityQCombine wired to q and agg.
func New(q *queue.Queue, agg features.Aggregator) *PriorityQCombine {
	return &PriorityQCombine{Queue: q, Agg: agg}
}

// weight returns e's current scheduling priority: the aggregator's predicted
// keep-apart probability. Lower values are extracted first, so edges the classifier
// believes should merge surface before edges it believes should stay apart.
func (p *PriorityQCombine) weight(e *graph.Edge) float64 {
	return p.Agg.GetProb(e)
}

// PostEdgeJoin implements graph.CombineAlg. incoming collapses onto existing; fold
// incoming's feature state into existing, invalidate incoming's queue entry (its edge
// object no longer represents anything), and refresh existing's priority.
func (p *PriorityQCombine) PostEdgeJoin(existing, incoming *graph.Edge) {
	p.Agg.MergeFeatures(existing, incoming)
	p.Queue.Invalidate(incoming)
	existing.Weight = p.weight(existing)
	p.Queue.Reinsert(existing, existing.Weight)
}

// PostEdgeMove implements graph.CombineAlg. moved keeps its identity but now points at
// a different endpoint, so its feature-derived priority may have changed; refresh it.
func (p *PriorityQCombine) PostEdgeMove(moved *graph.Edge) {
	moved.Weight = p.weight(moved)
	p.Queue.Reinsert(moved, moved.Weight)
}

// PostNodeJoin implements graph.CombineAlg: folds remove's node-level feature state
// into keep.
func (p *PriorityQCombine) PostNodeJoin(keep, remove *graph.Node) {
	p.Agg.MergeNodeFeatures(keep, remove)
}

// SeedAll pushes every edge currently in g at its current Weight field, for
// initializing a queue-driven pass over a graph whose weights already reflect the
// priority a caller wants honored (e.g. loaded from a graph file or set by a prior
// training run).
func (p *PriorityQCombine) SeedAll(g *graph.RAG) {
	for _, e := range g.Edges() {
		p.Queue.Push(e, e.Weight)
	}
}

// SeedAllFresh recomputes every edge's Weight from the aggregator's current classifier
// prediction before pushing, for initializing a traversal whose priority must reflect
// the classifier rather than whatever Weight happened to be set to (e.g. the start of
// a training pass over a freshly built graph).
func (p *PriorityQCombine) SeedAllFresh(g *graph.RAG) {
	for _, e := range g.Edges() {
		e.Weight = p.weight(e)
		p.Queue.Push(e, e.Weight)
	}
}
