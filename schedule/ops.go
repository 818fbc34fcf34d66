package schedule

import (
	"github.com/janelia-flyem/ragengine/combine"
	"github.com/janelia-flyem/ragengine/graph"
	"github.com/janelia-flyem/ragengine/queue"
)

// IsFinished reports whether the current session has no edge left in its window.
func IsFinished() (bool, error) {
	s, err := activeSession()
	if err != nil {
		return false, err
	}
	sessionMu.Lock()
	defer sessionMu.Unlock()
	return s.phase == Finished, nil
}

// GetTopEdge returns the highest-priority (lowest-weight) edge currently in the
// session's window, or ok=false when none remains.
func GetTopEdge() (l1, l2 graph.Label, loc Location, ok bool, err error) {
	s, serr := activeSession()
	if serr != nil {
		return 0, 0, Location{}, false, serr
	}
	sessionMu.Lock()
	defer sessionMu.Unlock()

	for {
		n1, n2, found := s.peekValidTop()
		if !found {
			s.phase = Finished
			return 0, 0, Location{}, false, nil
		}
		if e, exists := s.g.FindEdge(n1, n2); exists && !e.Preserve && s.inWindow(e) {
			return n1, n2, Location{}, true, nil
		}
		// Preserved, out of window or vanished: drop and keep scanning.
		s.q.ExtractMin()
	}
}

// peekValidTop extracts entries until a valid, still-existing edge is found, leaving
// it extracted (callers re-derive endpoints to re-check the live graph). Returns
// found=false once the queue is drained.
func (s *Session) peekValidTop() (graph.Label, graph.Label, bool) {
	for !s.q.IsEmpty() {
		qe, ok := s.q.ExtractMin()
		if !ok {
			return 0, 0, false
		}
		if !qe.Valid {
			continue
		}
		if _, exists := s.g.FindEdge(qe.Node1, qe.Node2); !exists {
			continue
		}
		// Put it back so GetTopEdge is non-mutating from the caller's perspective;
		// re-push at its original weight.
		s.q.Push(mustEdge(s.g, qe.Node1, qe.Node2), qe.Weight)
		return qe.Node1, qe.Node2, true
	}
	return 0, 0, false
}

func mustEdge(g *graph.RAG, n1, n2 graph.Label) *graph.Edge {
	e, _ := g.FindEdge(n1, n2)
	return e
}

// SetEdgeResult records the reviewer's decision for the edge (l1, l2): merge==true
// joins the two nodes; merge==false marks the edge preserved so it is never presented
// again. A checkpoint of the pre-action graph is pushed onto the undo stack first.
func SetEdgeResult(l1, l2 graph.Label, merge bool) error {
	s, err := activeSession()
	if err != nil {
		return err
	}
	sessionMu.Lock()
	defer sessionMu.Unlock()

	e, ok := s.g.FindEdge(l1, l2)
	if !ok {
		return nil
	}

	cp, err := makeCheckpoint(s.g, s.decisions, s.errorSum, s.correct)
	if err != nil {
		return err
	}

	predictedKeepApart := e.Weight > 0.5
	actualKeepApart := !merge
	if predictedKeepApart == actualKeepApart {
		s.correct++
	}
	predictedErr := 1 - e.Weight
	if !actualKeepApart {
		predictedErr = e.Weight
	}
	s.errorSum += predictedErr
	s.decisions++

	if merge {
		if err := s.g.JoinNodes(l1, l2, s.combine); err != nil {
			return err
		}
	} else {
		e.Preserve = true
		s.q.Invalidate(e)
	}

	s.undo = append(s.undo, cp)
	return nil
}

// Undo reverts the most recent SetEdgeResult, restoring the graph and rebuilding the
// queue deterministically from it. Returns false if the undo stack is empty.
func Undo() (bool, error) {
	s, err := activeSession()
	if err != nil {
		return false, err
	}
	sessionMu.Lock()
	defer sessionMu.Unlock()

	if len(s.undo) == 0 {
		return false, nil
	}
	cp := s.undo[len(s.undo)-1]
	s.undo = s.undo[:len(s.undo)-1]

	restored, err := cp.restore()
	if err != nil {
		return false, err
	}
	s.g = restored
	s.q = queue.New()
	s.combine = combine.New(s.q, s.agg)
	s.combine.SeedAll(s.g)
	s.decisions = cp.prevDecisions
	s.errorSum = cp.prevErrorSum
	s.correct = cp.prevCorrect
	s.phase = Running
	return true, nil
}

// NumRemaining returns an estimate of edges still awaiting review: the number of edges
// in the session's graph not marked preserved. A merge deletes the merged edge and a
// keep-apart decision preserves one, so the count never increases except via Undo.
func NumRemaining() (uint32, error) {
	s, err := activeSession()
	if err != nil {
		return 0, err
	}
	sessionMu.Lock()
	defer sessionMu.Unlock()
	n := 0
	for _, e := range s.g.Edges() {
		if !e.Preserve {
			n++
		}
	}
	return uint32(n), nil
}

// AveragePredictionError returns the mean |predicted - actual| over decisions taken so
// far, or 0 if none have been taken.
func AveragePredictionError() (float64, error) {
	s, err := activeSession()
	if err != nil {
		return 0, err
	}
	sessionMu.Lock()
	defer sessionMu.Unlock()
	if s.decisions == 0 {
		return 0, nil
	}
	return s.errorSum / float64(s.decisions), nil
}

// PercentPredictionCorrect returns the fraction of decisions so far where the
// classifier's implied class agreed with the reviewer's choice.
func PercentPredictionCorrect() (float64, error) {
	s, err := activeSession()
	if err != nil {
		return 0, err
	}
	sessionMu.Lock()
	defer sessionMu.Unlock()
	if s.decisions == 0 {
		return 0, nil
	}
	return float64(s.correct) / float64(s.decisions), nil
}
