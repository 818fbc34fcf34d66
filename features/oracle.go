package features

import "github.com/janelia-flyem/ragengine/graph"

// Oracle maps a pair of current labels to a ground-truth edge label, one of {+1, -1,
// 0}. Grounded on StackLearnAlgs.cpp's controller.find_edge_label /
// compute_groundtruth_assignment usage.
type Oracle interface {
	// Label returns +1 (different ground-truth bodies, keep apart), -1 (same
	// ground-truth body, merge), or 0 (undecidable, skip) for the edge between l1 and
	// l2 given their current assignment to ground-truth bodies.
	Label(l1, l2 graph.Label) int
}

const (
	// LabelKeepApart signals the two regions belong to distinct ground-truth bodies.
	LabelKeepApart = 1
	// LabelMerge signals the two regions belong to the same ground-truth body. Note the
	// sign convention is intentionally inverted from what many readers expect; it must
	// be preserved exactly to remain compatible with the training semantics this engine
	// was distilled from.
	LabelMerge = -1
	// LabelUndecidable signals the edge should be skipped entirely.
	LabelUndecidable = 0
)

// BodyOverlapOracle is a reference Oracle over a caller-supplied label -> dominant
// ground-truth body assignment, mirroring compute_groundtruth_assignment's output. It
// does not compute overlaps or apply a dominance threshold itself: the caller decides
// each region's dominant body, and regions with no assignment are ambiguous.
type BodyOverlapOracle struct {
	// BodyOf maps a current label to its dominant ground-truth body id. A label absent
	// from the map, or mapped to 0, has no dominant assignment.
	BodyOf map[graph.Label]uint64

	// Mito marks labels classified as mitochondrion. When MitoOverride is set, any edge
	// touching a mito label returns LabelKeepApart regardless of body agreement.
	Mito         map[graph.Label]bool
	MitoOverride bool
}

// NewBodyOverlapOracle returns an oracle with empty assignment maps ready to populate.
func NewBodyOverlapOracle() *BodyOverlapOracle {
	return &BodyOverlapOracle{
		BodyOf: make(map[graph.Label]uint64),
		Mito:   make(map[graph.Label]bool),
	}
}

// Label implements Oracle.
func (o *BodyOverlapOracle) Label(l1, l2 graph.Label) int {
	if o.MitoOverride && (o.Mito[l1] || o.Mito[l2]) {
		return LabelKeepApart
	}
	b1, ok1 := o.BodyOf[l1]
	b2, ok2 := o.BodyOf[l2]
	if !ok1 || !ok2 || b1 == 0 || b2 == 0 {
		return LabelUndecidable
	}
	if b1 == b2 {
		return LabelMerge
	}
	return LabelKeepApart
}
