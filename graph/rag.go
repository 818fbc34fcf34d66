// Package graph implements the Region Adjacency Graph (RAG): a typed undirected
// graph over segmented regions with a merge protocol that consolidates edges
// and per-node attributes. It is grounded on the teacher's
// datatype/labelgraph/labelgraph.go vertex/edge model and handleMerge weight-
// aggregation logic, and on NeuroProof's Rag/RagUtils.h rag_join_nodes contract.
package graph

import (
	"fmt"
	"sort"

	"github.com/janelia-flyem/ragengine/rerr"
)

// Label identifies a region. Zero denotes boundary/invalid and is never a valid node id.
type Label uint32

// Properties holds arbitrary named attributes attached to a node or edge.
type Properties map[string]interface{}

// Node is a region in the RAG.
type Node struct {
	ID           Label
	Size         uint64
	BoundarySize uint64
	Props        Properties

	adj map[Label]*Edge
}

// Neighbors returns the labels of nodes adjacent to n, in ascending order.
func (n *Node) Neighbors() []Label {
	out := make([]Label, 0, len(n.adj))
	for nbr := range n.adj {
		out = append(out, nbr)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Degree returns the number of edges incident to n.
func (n *Node) Degree() int {
	return len(n.adj)
}

// Edge is a relation between exactly two distinct, alive nodes. Node1 < Node2 always.
type Edge struct {
	Node1, Node2 Label
	Size         uint64
	Weight       float64
	Preserve     bool
	FalseEdge    bool
	Props        Properties

	// QLoc is the back-reference into a queue's storage slice; -1 when the edge is not
	// tracked by any priority queue.
	QLoc int
}

// Endpoints returns the edge's two node labels in canonical (ascending) order.
func (e *Edge) Endpoints() (Label, Label) {
	return e.Node1, e.Node2
}

type edgeKey struct {
	a, b Label
}

func canonicalKey(u, v Label) edgeKey {
	if u < v {
		return edgeKey{u, v}
	}
	return edgeKey{v, u}
}

// RAG is an undirected, simple (no self-loops, no parallel edges) graph of Nodes and
// Edges keyed by Label.
type RAG struct {
	nodes map[Label]*Node
	edges map[edgeKey]*Edge
}

// New returns an empty RAG.
func New() *RAG {
	return &RAG{
		nodes: make(map[Label]*Node),
		edges: make(map[edgeKey]*Edge),
	}
}

// NumNodes returns the number of alive nodes.
func (g *RAG) NumNodes() int { return len(g.nodes) }

// NumEdges returns the number of alive edges.
func (g *RAG) NumEdges() int { return len(g.edges) }

// Node returns the node with the given id, or (nil, false) if it does not exist.
func (g *RAG) Node(id Label) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns a stable, ascending-by-id snapshot of all alive nodes.
func (g *RAG) Nodes() []*Node {
	out := make([]*Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Edges returns a stable, ascending-by-endpoints snapshot of all alive edges.
func (g *RAG) Edges() []*Edge {
	out := make([]*Edge, 0, len(g.edges))
	for _, e := range g.edges {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Node1 != out[j].Node1 {
			return out[i].Node1 < out[j].Node1
		}
		return out[i].Node2 < out[j].Node2
	})
	return out
}

// AddNode creates a new node with the given id and size. It is an error to add a node
// with an id that already exists.
func (g *RAG) AddNode(id Label, size uint64) (*Node, error) {
	if id == 0 {
		return nil, fmt.Errorf("label 0 is reserved for boundary/invalid: %w", rerr.ErrInvariantViolation)
	}
	if _, exists := g.nodes[id]; exists {
		return nil, fmt.Errorf("node %d already exists: %w", id, rerr.ErrInvariantViolation)
	}
	n := &Node{
		ID:    id,
		Size:  size,
		Props: make(Properties),
		adj:   make(map[Label]*Edge),
	}
	g.nodes[id] = n
	return n, nil
}

// AddEdge creates a new edge between u and v with the given shared-surface size. u and
// v must already be alive nodes, distinct, and not already connected.
func (g *RAG) AddEdge(u, v Label, size uint64) (*Edge, error) {
	if u == v {
		return nil, fmt.Errorf("self-loop on %d: %w", u, rerr.ErrInvariantViolation)
	}
	nu, ok := g.nodes[u]
	if !ok {
		return nil, fmt.Errorf("node %d does not exist: %w", u, rerr.ErrInvariantViolation)
	}
	nv, ok := g.nodes[v]
	if !ok {
		return nil, fmt.Errorf("node %d does not exist: %w", v, rerr.ErrInvariantViolation)
	}
	key := canonicalKey(u, v)
	if _, exists := g.edges[key]; exists {
		return nil, fmt.Errorf("edge %d-%d already exists: %w", u, v, rerr.ErrInvariantViolation)
	}
	e := &Edge{
		Node1: key.a,
		Node2: key.b,
		Size:  size,
		Props: make(Properties),
		QLoc:  -1,
	}
	g.edges[key] = e
	nu.adj[v] = e
	nv.adj[u] = e
	return e, nil
}

// FindEdge returns the edge between u and v, if any.
func (g *RAG) FindEdge(u, v Label) (*Edge, bool) {
	e, ok := g.edges[canonicalKey(u, v)]
	return e, ok
}

// deleteEdge removes e from both endpoints' adjacency and from the graph's edge set.
func (g *RAG) deleteEdge(e *Edge) {
	if n1, ok := g.nodes[e.Node1]; ok {
		delete(n1.adj, e.Node2)
	}
	if n2, ok := g.nodes[e.Node2]; ok {
		delete(n2.adj, e.Node1)
	}
	delete(g.edges, canonicalKey(e.Node1, e.Node2))
}

// reattachEdge rewrites e so that the endpoint equal to from becomes to, re-keying the
// edge in the graph's edge map and in to's adjacency.
func (g *RAG) reattachEdge(e *Edge, from, to Label) {
	oldKey := canonicalKey(e.Node1, e.Node2)
	other := e.Node1
	if other == from {
		other = e.Node2
	}
	delete(g.edges, oldKey)
	if otherNode, ok := g.nodes[other]; ok {
		delete(otherNode.adj, from)
	}

	newKey := canonicalKey(other, to)
	e.Node1, e.Node2 = newKey.a, newKey.b
	g.edges[newKey] = e

	if otherNode, ok := g.nodes[other]; ok {
		otherNode.adj[to] = e
	}
	if toNode, ok := g.nodes[to]; ok {
		toNode.adj[other] = e
	}
}
