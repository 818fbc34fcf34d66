// Package graphio implements the textual graph-file codec: JSON Schema validated
// load/save with bit-exact round-trip, grounded on labelgraph.go's ExtractGraph (schema
// validation against a gojsonschema document) translated to the actively maintained
// santhosh-tekuri/jsonschema/v5 and on its "unsafe" validation-skip query flag,
// reproduced here as a boolean option rather than a URL parameter.
package graphio

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/janelia-flyem/ragengine/graph"
	"github.com/janelia-flyem/ragengine/internal/rlog"
	"github.com/janelia-flyem/ragengine/rerr"
)

var compiledSchema *jsonschema.Schema

func init() {
	c := jsonschema.NewCompiler()
	if err := c.AddResource("graph.json", bytes.NewReader([]byte(graphSchema))); err != nil {
		panic(fmt.Sprintf("graphio: invalid embedded schema: %v", err))
	}
	s, err := c.Compile("graph.json")
	if err != nil {
		panic(fmt.Sprintf("graphio: schema did not compile: %v", err))
	}
	compiledSchema = s
}

// Range is the optional weight window a graph file may embed, overriding a scheduler
// caller's bounds on load.
type Range struct {
	Min, Max float64
}

type nodeDoc struct {
	ID           graph.Label       `json:"id"`
	Size         uint64            `json:"size"`
	BoundarySize uint64            `json:"boundary_size"`
	Props        graph.Properties  `json:"props,omitempty"`
}

type edgeDoc struct {
	Node1     graph.Label      `json:"node1"`
	Node2     graph.Label      `json:"node2"`
	Size      uint64           `json:"size"`
	Weight    float64          `json:"weight"`
	Preserve  bool             `json:"preserve"`
	FalseEdge bool             `json:"false_edge"`
	Props     graph.Properties `json:"props,omitempty"`
}

type graphDoc struct {
	Nodes []nodeDoc  `json:"node"`
	Edges []edgeDoc  `json:"edge"`
	Range *[2]float64 `json:"range,omitempty"`
}

// LoadOptions controls Load's behavior.
type LoadOptions struct {
	// SkipValidation disables JSON Schema validation, mirroring the teacher's "unsafe"
	// query flag precedent for speeding up trusted, high-frequency loads.
	SkipValidation bool
}

// Load parses path into a fresh graph.RAG. The returned *Range is nil when the
// document has no "range" key.
func Load(path string, opts LoadOptions) (*graph.RAG, *Range, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", path, rerr.ErrIOFailure)
	}

	if !opts.SkipValidation {
		var generic interface{}
		if err := json.Unmarshal(data, &generic); err != nil {
			return nil, nil, fmt.Errorf("parsing %s: %w", path, rerr.ErrMalformedInput)
		}
		if err := compiledSchema.Validate(generic); err != nil {
			return nil, nil, fmt.Errorf("%s failed schema validation: %v: %w", path, err, rerr.ErrMalformedInput)
		}
	}

	var doc graphDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("decoding %s: %w", path, rerr.ErrMalformedInput)
	}

	g := graph.New()
	for _, n := range doc.Nodes {
		node, err := g.AddNode(n.ID, n.Size)
		if err != nil {
			return nil, nil, fmt.Errorf("loading node %d: %w", n.ID, err)
		}
		node.BoundarySize = n.BoundarySize
		node.Props = n.Props
	}
	for _, e := range doc.Edges {
		edge, err := g.AddEdge(e.Node1, e.Node2, e.Size)
		if err != nil {
			return nil, nil, fmt.Errorf("loading edge %d-%d: %w", e.Node1, e.Node2, err)
		}
		edge.Weight = e.Weight
		edge.Preserve = e.Preserve
		edge.FalseEdge = e.FalseEdge
		edge.Props = e.Props
	}

	if g.NumNodes() == 0 {
		return nil, nil, fmt.Errorf("%s: %w", path, rerr.ErrMissingVolume)
	}

	var rng *Range
	if doc.Range != nil {
		rng = &Range{Min: doc.Range[0], Max: doc.Range[1]}
	}
	return g, rng, nil
}

// Save writes rag to path as a JSON document matching the embedded schema. When rng is
// non-nil its bounds are written as the document's "range" field, so a graph loaded with
// an embedded range round-trips that range back out.
func Save(path string, rag *graph.RAG, rng *Range) error {
	doc := graphDoc{}
	if rng != nil {
		doc.Range = &[2]float64{rng.Min, rng.Max}
	}
	for _, n := range rag.Nodes() {
		doc.Nodes = append(doc.Nodes, nodeDoc{
			ID:           n.ID,
			Size:         n.Size,
			BoundarySize: n.BoundarySize,
			Props:        n.Props,
		})
	}
	for _, e := range rag.Edges() {
		n1, n2 := e.Endpoints()
		doc.Edges = append(doc.Edges, edgeDoc{
			Node1:     n1,
			Node2:     n2,
			Size:      e.Size,
			Weight:    e.Weight,
			Preserve:  e.Preserve,
			FalseEdge: e.FalseEdge,
			Props:     e.Props,
		})
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, rerr.ErrIOFailure)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, rerr.ErrIOFailure)
	}
	rlog.Infof("wrote %s to %s", humanize.Bytes(uint64(len(data))), path)
	return nil
}
