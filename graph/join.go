package graph

import (
	"fmt"

	"github.com/janelia-flyem/ragengine/rerr"
)

// JoinNodes merges remove into keep, transferring remove's edges, aggregating node
// attributes, and invoking combine's callbacks at each step. keep's id survives;
// remove's id is never observed again. The steps are commented inline below (mirrors
// NeuroProof's rag_join_nodes).
func (g *RAG) JoinNodes(keep, remove Label, combine CombineAlg) error {
	if keep == remove {
		return fmt.Errorf("cannot join node %d onto itself: %w", keep, rerr.ErrInvariantViolation)
	}
	kn, ok := g.nodes[keep]
	if !ok {
		return fmt.Errorf("keep node %d does not exist: %w", keep, rerr.ErrInvariantViolation)
	}
	rn, ok := g.nodes[remove]
	if !ok {
		return fmt.Errorf("remove node %d does not exist: %w", remove, rerr.ErrInvariantViolation)
	}
	if combine == nil {
		combine = NullCombine{}
	}

	// Step 1: for every edge (remove, x) with x != keep, either fold it into the
	// existing (keep, x) edge or reattach it so remove's endpoint becomes keep.
	for x, e := range neighborSnapshot(rn, keep) {
		if existing, ok := kn.adj[x]; ok {
			existing.Size += e.Size
			combine.PostEdgeJoin(existing, e)
			g.deleteEdge(e)
		} else {
			g.reattachEdge(e, remove, keep)
			combine.PostEdgeMove(e)
		}
	}

	// Step 2: delete the direct edge (keep, remove) if present, tracking its size so
	// the boundary recomputation below can subtract the now-internal surface.
	var sharedSize uint64
	if direct, ok := kn.adj[remove]; ok {
		sharedSize = direct.Size
		g.deleteEdge(direct)
	}

	// Step 3: aggregate node attributes.
	kn.Size += rn.Size
	newBoundary := kn.BoundarySize + rn.BoundarySize
	if newBoundary >= 2*sharedSize {
		newBoundary -= 2 * sharedSize
	} else {
		newBoundary = 0
	}
	var incidentTotal uint64
	for _, e := range kn.adj {
		incidentTotal += e.Size
	}
	if newBoundary < incidentTotal {
		newBoundary = incidentTotal
	}
	kn.BoundarySize = newBoundary

	// Step 4: node-level feature merge, then discard remove.
	combine.PostNodeJoin(kn, rn)
	delete(g.nodes, remove)

	return nil
}

// neighborSnapshot copies rn's adjacency (excluding skip) so Step 1 of JoinNodes can
// mutate the live adjacency map while iterating a stable view of it.
func neighborSnapshot(rn *Node, skip Label) map[Label]*Edge {
	out := make(map[Label]*Edge, len(rn.adj))
	for x, e := range rn.adj {
		if x == skip {
			continue
		}
		out[x] = e
	}
	return out
}

// RemoveInclusions repeatedly merges any node of degree 1 (a region fully enclosed by
// exactly one other region) into its sole neighbor, until no such node remains.
// Processing order is by ascending label for determinism. Returns the number of nodes
// removed.
func (g *RAG) RemoveInclusions(combine CombineAlg) (int, error) {
	removed := 0
	for {
		inclusion := g.findInclusion()
		if inclusion == 0 {
			return removed, nil
		}
		n, ok := g.nodes[inclusion]
		if !ok {
			return removed, fmt.Errorf("inclusion candidate %d vanished: %w", inclusion, rerr.ErrInvariantViolation)
		}
		neighbors := n.Neighbors()
		if len(neighbors) != 1 {
			return removed, fmt.Errorf("inclusion candidate %d no longer degree 1: %w", inclusion, rerr.ErrInvariantViolation)
		}
		if err := g.JoinNodes(neighbors[0], inclusion, combine); err != nil {
			return removed, err
		}
		removed++
	}
}

// findInclusion returns the smallest-labeled degree-1 node, or 0 if none exists.
func (g *RAG) findInclusion() Label {
	for _, n := range g.Nodes() {
		if n.Degree() == 1 {
			return n.ID // Nodes() is already ascending; first hit is smallest.
		}
	}
	return 0
}
