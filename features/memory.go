package features

import (
	"github.com/DmitriyVTitov/size"

	"github.com/janelia-flyem/ragengine/graph"
)

// MemoryFootprint reports the approximate in-memory size, in bytes, of a RAG's node
// and edge attribute maps plus an aggregator's tracked state. Grounded on
// datatype/labelmap/vcache.go's use of size.Of for cache accounting; here it backs the
// spec's GetEstimatedNumRemainingEdges-adjacent diagnostics rather than a storage
// cache, since this module has no storage layer of its own.
func MemoryFootprint(g *graph.RAG, agg Aggregator) int {
	total := 0
	for _, n := range g.Nodes() {
		total += size.Of(n.Props)
	}
	for _, e := range g.Edges() {
		total += size.Of(e.Props)
	}
	if m, ok := agg.(*MomentAggregator); ok {
		m.mu.Lock()
		total += size.Of(m.state)
		m.mu.Unlock()
	}
	return total
}
