// Package queue implements the lazy-invalidation merge priority queue that schedules
// which edge to examine next during agglomeration. It is grounded on the distilled
// spec's §4.C contract and on NeuroProof's MergePriorityQueue<QE>, referenced throughout
// BioPriors/StackLearnAlgs.cpp, translated to Go's standard container/heap interface —
// no heap or priority-queue library appears anywhere in the retrieved example pack, so
// the standard library's heap is the idiomatic vehicle for NeuroProof's own hand-rolled
// binary heap over a vector.
package queue

import (
	"container/heap"

	"github.com/janelia-flyem/ragengine/graph"
)

// QueueEntry is the value a consumer receives from ExtractMin: a snapshot of the
// weight and endpoints at the moment the entry was pushed, plus whether it is still
// considered live.
type QueueEntry struct {
	Weight       float64
	Node1, Node2 graph.Label
	Valid        bool
}

// entry is the heap-internal representation; it carries a back-pointer to the edge so
// Swap can keep the edge's QLoc in sync with the entry's current slot.
type entry struct {
	weight       float64
	node1, node2 graph.Label
	valid        bool
	edge         *graph.Edge
	index        int
}

type entryHeap []*entry

func (h entryHeap) Len() int { return len(h) }

func (h entryHeap) Less(i, j int) bool {
	if h[i].weight != h[j].weight {
		return h[i].weight < h[j].weight
	}
	// Deterministic tie-break: ascending (min(endpoints), max(endpoints)).
	if h[i].node1 != h[j].node1 {
		return h[i].node1 < h[j].node1
	}
	return h[i].node2 < h[j].node2
}

func (h entryHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
	if h[i].edge != nil {
		h[i].edge.QLoc = i
	}
	if h[j].edge != nil {
		h[j].edge.QLoc = j
	}
}

func (h *entryHeap) Push(x interface{}) {
	e := x.(*entry)
	e.index = len(*h)
	if e.edge != nil {
		e.edge.QLoc = e.index
	}
	*h = append(*h, e)
}

func (h *entryHeap) Pop() interface{} {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	e.index = -1
	if e.edge != nil {
		e.edge.QLoc = -1
	}
	return e
}

// Queue is a binary min-heap over edges, ordered by weight ascending with a
// deterministic tie-break on endpoints.
type Queue struct {
	h entryHeap
}

// New returns an empty Queue.
func New() *Queue {
	q := &Queue{}
	heap.Init(&q.h)
	return q
}

// Len returns the number of entries currently tracked, including invalidated ones that
// have not yet been extracted.
func (q *Queue) Len() int { return q.h.Len() }

// IsEmpty reports whether the queue has no tracked entries.
func (q *Queue) IsEmpty() bool { return q.h.Len() == 0 }

// Push appends a new valid entry for e at weight and records its position on e.QLoc.
func (q *Queue) Push(e *graph.Edge, weight float64) {
	n1, n2 := e.Endpoints()
	ent := &entry{
		weight: weight,
		node1:  n1,
		node2:  n2,
		valid:  true,
		edge:   e,
	}
	heap.Push(&q.h, ent)
}

// ExtractMin removes and returns the least-weight entry. The second return value is
// false when the queue is empty. Callers must check QueueEntry.Valid and re-verify the
// backing edge still exists (via graph.RAG.FindEdge) before acting on the result.
func (q *Queue) ExtractMin() (QueueEntry, bool) {
	if q.h.Len() == 0 {
		return QueueEntry{}, false
	}
	ent := heap.Pop(&q.h).(*entry)
	return QueueEntry{
		Weight: ent.weight,
		Node1:  ent.node1,
		Node2:  ent.node2,
		Valid:  ent.valid,
	}, true
}

// Invalidate marks the queue entry referenced by e.QLoc as stale without removing it
// from the heap — O(1) lazy deletion. A no-op if e is not currently tracked.
func (q *Queue) Invalidate(e *graph.Edge) {
	if e.QLoc < 0 || e.QLoc >= len(q.h) {
		return
	}
	ent := q.h[e.QLoc]
	if ent.edge != e {
		return
	}
	ent.valid = false
	// Detach the back-pointer so future heap swaps involving this now-dead entry
	// cannot clobber e.QLoc, which may soon point at a fresh entry for the same edge.
	ent.edge = nil
	e.QLoc = -1
}

// Reinsert invalidates e's current entry (if any) and pushes a new valid entry at
// newWeight.
func (q *Queue) Reinsert(e *graph.Edge, newWeight float64) {
	q.Invalidate(e)
	q.Push(e, newWeight)
}
