package features

import (
	"encoding/binary"
	"math"
	"sync"

	"github.com/coocood/freecache"

	"github.com/janelia-flyem/ragengine/graph"
)

// predCacheSize is the freecache arena size in bytes for memoized predictions. Sized
// the way datatype/labelmap/labelidx.go sizes its freecache instance: a fixed small
// arena, not proportional to graph size, since entries are cheap floats keyed by edge.
const predCacheSize = 4 * 1024 * 1024

// MomentAggregator is a deterministic reference Aggregator that tracks, per edge, the
// running sum and sum-of-squares of the sizes of the edges folded into it (initially
// just its own Size), plus the accumulated edge boundary size. It exists so the rest of the module is exercisable without a real
// segmentation feature-computation pipeline (explicitly out of scope). Grounded on
// BioPriors/StackLearnAlgs.cpp's FeatureMgr moment-based features.
type MomentAggregator struct {
	mu     sync.Mutex
	state  map[graph.Label]*edgeMoments
	clf    *StumpClassifier
	cache  *freecache.Cache
}

type edgeMoments struct {
	sum, sumSq float64
	boundary   float64
}

// NewMomentAggregator returns an Aggregator backed by a fresh StumpClassifier and a
// freecache arena memoizing GetProb results keyed by edge endpoints.
func NewMomentAggregator() *MomentAggregator {
	return &MomentAggregator{
		state: make(map[graph.Label]*edgeMoments),
		clf:   NewStumpClassifier(),
		cache: freecache.NewCache(predCacheSize),
	}
}

func edgeCacheKey(e *graph.Edge) []byte {
	n1, n2 := e.Endpoints()
	key := make([]byte, 8)
	binary.BigEndian.PutUint32(key[0:4], uint32(n1))
	binary.BigEndian.PutUint32(key[4:8], uint32(n2))
	return key
}

func momentKey(n1, n2 graph.Label) graph.Label {
	if n1 < n2 {
		return n1*1000003 + n2
	}
	return n2*1000003 + n1
}

// ComputeAllFeatures implements Aggregator.
func (m *MomentAggregator) ComputeAllFeatures(e *graph.Edge) []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	mm := m.momentsFor(e)
	n := float64(1)
	mean := mm.sum / n
	variance := mm.sumSq/n - mean*mean
	if variance < 0 {
		variance = 0
	}
	return []float64{mean, math.Sqrt(variance), mm.boundary, float64(e.Size)}
}

func (m *MomentAggregator) momentsFor(e *graph.Edge) *edgeMoments {
	n1, n2 := e.Endpoints()
	k := momentKey(n1, n2)
	mm, ok := m.state[k]
	if !ok {
		mm = &edgeMoments{
			sum:      float64(e.Size),
			sumSq:    float64(e.Size) * float64(e.Size),
			boundary: float64(e.Size),
		}
		m.state[k] = mm
	}
	return mm
}

// GetProb implements Aggregator. Results are memoized in a freecache arena keyed by
// edge endpoints, invalidated implicitly whenever the cache evicts or the process
// restarts; callers that mutate e's underlying sizes must not expect stale entries to
// be purged automatically.
func (m *MomentAggregator) GetProb(e *graph.Edge) float64 {
	key := edgeCacheKey(e)
	if cached, err := m.cache.Get(key); err == nil && len(cached) == 8 {
		bits := binary.BigEndian.Uint64(cached)
		return math.Float64frombits(bits)
	}
	x := m.ComputeAllFeatures(e)
	prob := m.clf.Predict(x)
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, math.Float64bits(prob))
	_ = m.cache.Set(key, buf, 0)
	return prob
}

// MergeFeatures implements Aggregator: folds remove's moments into keep's.
func (m *MomentAggregator) MergeFeatures(keep, remove *graph.Edge) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kn1, kn2 := keep.Endpoints()
	rn1, rn2 := remove.Endpoints()
	kk := momentKey(kn1, kn2)
	rk := momentKey(rn1, rn2)
	if rk == kk {
		return
	}
	km, kok := m.state[kk]
	rm, rok := m.state[rk]
	if !rok {
		if !kok {
			// Neither edge is tracked yet; keep's moments are derived lazily from its
			// Size, which JoinNodes has already increased by remove's Size.
			return
		}
		rs := float64(remove.Size)
		rm = &edgeMoments{sum: rs, sumSq: rs * rs, boundary: rs}
	}
	if !kok {
		km = m.momentsFor(keep)
	}
	km.sum += rm.sum
	km.sumSq += rm.sumSq
	km.boundary += rm.boundary
	delete(m.state, rk)
	m.cache.Del(edgeCacheKey(keep))
}

// MergeNodeFeatures implements Aggregator. The reference aggregator carries no
// node-level state, so this is a no-op.
func (m *MomentAggregator) MergeNodeFeatures(keep, remove *graph.Node) {}

// Classifier implements Aggregator.
func (m *MomentAggregator) Classifier() Classifier { return m.clf }

// StumpClassifier is a minimal deterministic decision-stump Classifier: it learns a
// single threshold on the first feature column that best separates the two classes by
// mean, and predicts a probability via a logistic squash of distance from that
// threshold. It stands in for the external, out-of-scope classifier referenced
// throughout BioPriors/StackLearnAlgs.cpp as FeatureMgrPtr's eclassifier.
type StumpClassifier struct {
	threshold float64
	scale     float64
	trained   bool
}

// NewStumpClassifier returns an untrained classifier.
func NewStumpClassifier() *StumpClassifier {
	return &StumpClassifier{scale: 1.0}
}

// Learn implements Classifier. y values must use the engine's merge/keep-apart
// convention (LabelMerge == -1, LabelKeepApart == 1); rows with LabelUndecidable are
// ignored.
func (s *StumpClassifier) Learn(X [][]float64, y []int) error {
	var mergeSum, keepSum float64
	var mergeN, keepN int
	for i, row := range X {
		if len(row) == 0 {
			continue
		}
		switch y[i] {
		case LabelMerge:
			mergeSum += row[0]
			mergeN++
		case LabelKeepApart:
			keepSum += row[0]
			keepN++
		}
	}
	if mergeN == 0 || keepN == 0 {
		s.threshold = 0
		s.trained = false
		return nil
	}
	mergeMean := mergeSum / float64(mergeN)
	keepMean := keepSum / float64(keepN)
	s.threshold = (mergeMean + keepMean) / 2
	spread := math.Abs(keepMean - mergeMean)
	if spread < 1e-9 {
		spread = 1e-9
	}
	s.scale = 4 / spread
	s.trained = true
	return nil
}

// Predict implements Classifier: returns the probability the edge should be kept
// apart (closer to the LabelKeepApart side of the learned threshold), in [0, 1].
func (s *StumpClassifier) Predict(x []float64) float64 {
	if len(x) == 0 {
		return 0.5
	}
	if !s.trained {
		return 0.5
	}
	z := s.scale * (x[0] - s.threshold)
	return 1 / (1 + math.Exp(-z))
}

// IsTrained implements Classifier.
func (s *StumpClassifier) IsTrained() bool { return s.trained }
