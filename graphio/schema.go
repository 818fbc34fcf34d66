package graphio

// graphSchema is the embedded JSON Schema validated against every document before
// decoding, mirroring labelgraph.go's graphSchema constant and its node/edge/range
// shape (there "Vertices"/"Edges"; here the distilled spec's own "node"/"edge"/"range"
// naming).
const graphSchema = `
{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "ragengine graph file",
  "type": "object",
  "definitions": {
    "node": {
      "type": "object",
      "properties": {
        "id": {"type": "integer", "minimum": 1},
        "size": {"type": "integer", "minimum": 0},
        "boundary_size": {"type": "integer", "minimum": 0},
        "props": {"type": "object"}
      },
      "required": ["id", "size"]
    },
    "edge": {
      "type": "object",
      "properties": {
        "node1": {"type": "integer", "minimum": 1},
        "node2": {"type": "integer", "minimum": 1},
        "size": {"type": "integer", "minimum": 0},
        "weight": {"type": "number"},
        "preserve": {"type": "boolean"},
        "false_edge": {"type": "boolean"},
        "props": {"type": "object"}
      },
      "required": ["node1", "node2"]
    }
  },
  "properties": {
    "node": {"type": "array", "items": {"$ref": "#/definitions/node"}},
    "edge": {"type": "array", "items": {"$ref": "#/definitions/edge"}},
    "range": {
      "type": "array",
      "items": {"type": "number"},
      "minItems": 2,
      "maxItems": 2
    }
  },
  "required": ["node", "edge"]
}
`
