// Package schedule implements the interactive Edge Priority Scheduler: a process-wide
// session that presents candidate merge edges for human confirmation in priority order,
// with a checkpointed undo stack. Grounded on labelgraph.go's ExtractGraph/handleMerge
// request flow and on storage/context.go's package-level mutex idiom for guarding
// shared process state (here dataMutex's analogue is sessionMu).
package schedule

import (
	"fmt"
	"sync"

	"github.com/twinj/uuid"

	"github.com/janelia-flyem/ragengine/combine"
	"github.com/janelia-flyem/ragengine/features"
	"github.com/janelia-flyem/ragengine/graph"
	"github.com/janelia-flyem/ragengine/graphio"
	"github.com/janelia-flyem/ragengine/internal/rlog"
	"github.com/janelia-flyem/ragengine/queue"
	"github.com/janelia-flyem/ragengine/rerr"
)

// Phase is the scheduler session's coarse state.
type Phase int

const (
	Initialized Phase = iota
	Running
	Finished
)

// Location is a representative spatial point for an edge, surfaced to an external
// reviewer. The core has no raster access and does not compute one; GetTopEdge always
// reports the zero value.
type Location struct {
	X, Y, Z int
}

// Session is one interactive scheduling run over a single RAG.
type Session struct {
	ID uuid.UUID

	phase Phase
	g     *graph.RAG
	agg   features.Aggregator
	q     *queue.Queue
	combine *combine.PriorityQCombine

	min, max, start float64

	decisions int
	errorSum  float64
	correct   int

	undo []checkpoint
}

var (
	sessionMu sync.Mutex
	current   *Session
)

// GraphSource supplies the RAG a session operates on, abstracting over graphio.Load so
// callers may also construct a RAG in-process (e.g. for tests) without a file.
type GraphSource interface {
	// Load returns a fresh RAG and an optional embedded weight range.
	Load() (*graph.RAG, *graphio.Range, error)
}

// FileSource is a GraphSource backed by a graph file on disk.
type FileSource struct {
	Path string
}

// Load implements GraphSource.
func (f FileSource) Load() (*graph.RAG, *graphio.Range, error) {
	return graphio.Load(f.Path, graphio.LoadOptions{})
}

// InMemorySource is a GraphSource over an already-built RAG, used by tests and callers
// that construct graphs without a file round-trip.
type InMemorySource struct {
	RAG *graph.RAG
}

// Load implements GraphSource.
func (s InMemorySource) Load() (*graph.RAG, *graphio.Range, error) {
	return s.RAG, nil, nil
}

// Initialize replaces the process-wide session. Any previous session is released
// before the new one is installed — by design, a stale previous instance must never
// remain reachable once Initialize returns, since every other operation dereferences
// the current package-level session unconditionally.
func Initialize(source GraphSource, agg features.Aggregator, min, max, start float64) error {
	g, rng, err := source.Load()
	if err != nil {
		return err
	}
	if !(0 <= min && min <= start && start <= max && max <= 1) {
		return fmt.Errorf("min=%v start=%v max=%v: %w", min, start, max, rerr.ErrInvalidBounds)
	}
	if rng != nil {
		min, max = rng.Min, rng.Max
		start = min
	}

	sessionMu.Lock()
	defer sessionMu.Unlock()

	if current != nil {
		rlog.Infof("scheduler: replacing session %s with a new one", current.ID.String())
		current = nil
	}

	q := queue.New()
	c := combine.New(q, agg)
	c.SeedAll(g)

	s := &Session{
		ID:      uuid.NewV4(),
		phase:   Initialized,
		g:       g,
		agg:     agg,
		q:       q,
		combine: c,
		min:     min,
		max:     max,
		start:   start,
	}
	s.phase = Running
	current = s
	rlog.Infof("scheduler: initialized session %s with bounds [%v, %v] start=%v", s.ID.String(), min, max, start)
	return nil
}

// Export saves the current session's RAG to path.
func Export(path string) error {
	s, err := activeSession()
	if err != nil {
		return err
	}
	sessionMu.Lock()
	defer sessionMu.Unlock()
	if err := graphio.Save(path, s.g, &graphio.Range{Min: s.min, Max: s.max}); err != nil {
		return err
	}
	rlog.Infof("scheduler: exported session %s to %s", s.ID.String(), path)
	return nil
}

func activeSession() (*Session, error) {
	sessionMu.Lock()
	defer sessionMu.Unlock()
	if current == nil {
		return nil, rerr.ErrNotInitialized
	}
	return current, nil
}

// inWindow reports whether e's weight falls within the session's [min,max] bounds.
func (s *Session) inWindow(e *graph.Edge) bool {
	return e.Weight >= s.min && e.Weight <= s.max
}
