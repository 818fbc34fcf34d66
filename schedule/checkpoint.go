package schedule

import (
	"bytes"
	"encoding/gob"

	"github.com/golang/snappy"

	"github.com/janelia-flyem/ragengine/graph"
)

// snapshotNode and snapshotEdge are the gob-friendly mirrors of graph.Node/graph.Edge
// used to checkpoint a session's entire RAG before a destructive action. A full-graph
// snapshot is a stronger guarantee than diffing just the affected node's adjacency —
// simpler to get bit-exact, at the cost of checkpoint size — and is acceptable here
// since sessions operate on a single in-memory RAG, not a distributed store.
type snapshotNode struct {
	ID           graph.Label
	Size         uint64
	BoundarySize uint64
	Props        graph.Properties
}

type snapshotEdge struct {
	Node1, Node2 graph.Label
	Size         uint64
	Weight       float64
	Preserve     bool
	FalseEdge    bool
	Props        graph.Properties
}

type snapshotDoc struct {
	Nodes []snapshotNode
	Edges []snapshotEdge
}

// checkpoint is one entry on the undo stack: a compressed, gob-encoded snapshot of the
// graph as it existed immediately before the action it reverses, mirroring the ambient
// snappy-compression idiom this class of system applies to on-disk subvolume payloads
// (see googlevoxels.go's snappy.Decode usage), here applied to an in-memory payload.
// The prediction-accuracy running totals as they stood immediately before that same
// action are carried alongside the graph snapshot so Undo can restore both together.
type checkpoint struct {
	data []byte

	prevDecisions int
	prevErrorSum  float64
	prevCorrect   int
}

func init() {
	// Properties values arrive as interface{}; gob needs concrete types registered to
	// encode/decode them when present.
	gob.Register("")
	gob.Register(float64(0))
	gob.Register(int(0))
	gob.Register(bool(false))
}

func snapshotGraph(g *graph.RAG) snapshotDoc {
	doc := snapshotDoc{}
	for _, n := range g.Nodes() {
		doc.Nodes = append(doc.Nodes, snapshotNode{
			ID:           n.ID,
			Size:         n.Size,
			BoundarySize: n.BoundarySize,
			Props:        n.Props,
		})
	}
	for _, e := range g.Edges() {
		n1, n2 := e.Endpoints()
		doc.Edges = append(doc.Edges, snapshotEdge{
			Node1:     n1,
			Node2:     n2,
			Size:      e.Size,
			Weight:    e.Weight,
			Preserve:  e.Preserve,
			FalseEdge: e.FalseEdge,
			Props:     e.Props,
		})
	}
	return doc
}

func makeCheckpoint(g *graph.RAG, decisions int, errorSum float64, correct int) (checkpoint, error) {
	doc := snapshotGraph(g)
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(doc); err != nil {
		return checkpoint{}, err
	}
	return checkpoint{
		data:          snappy.Encode(nil, buf.Bytes()),
		prevDecisions: decisions,
		prevErrorSum:  errorSum,
		prevCorrect:   correct,
	}, nil
}

func (c checkpoint) restore() (*graph.RAG, error) {
	raw, err := snappy.Decode(nil, c.data)
	if err != nil {
		return nil, err
	}
	var doc snapshotDoc
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&doc); err != nil {
		return nil, err
	}
	g := graph.New()
	for _, n := range doc.Nodes {
		node, err := g.AddNode(n.ID, n.Size)
		if err != nil {
			return nil, err
		}
		node.BoundarySize = n.BoundarySize
		node.Props = n.Props
	}
	for _, e := range doc.Edges {
		edge, err := g.AddEdge(e.Node1, e.Node2, e.Size)
		if err != nil {
			return nil, err
		}
		edge.Weight = e.Weight
		edge.Preserve = e.Preserve
		edge.FalseEdge = e.FalseEdge
		edge.Props = e.Props
	}
	return g, nil
}
