// Package train implements the three classifier-training loop specializations —
// flat, priority-queue, and LASH — as a shared preprocessing skeleton plus per-mode
// traversal logic. Grounded on BioPriors/StackLearnAlgs.cpp's learn_edge_classifier,
// which drives the same oracle/feature/queue trio this package wires together.
package train

import (
	"github.com/dustin/go-humanize"

	"github.com/janelia-flyem/ragengine/combine"
	"github.com/janelia-flyem/ragengine/features"
	"github.com/janelia-flyem/ragengine/graph"
	"github.com/janelia-flyem/ragengine/internal/rlog"
	"github.com/janelia-flyem/ragengine/queue"
)

// Mode selects one of the three training loop specializations.
type Mode int

const (
	// Flat performs a single non-mutating pass over all eligible edges.
	Flat Mode = iota
	// PriorityQueue seeds a merge queue and performs merges as it traverses,
	// optionally hard-example mining once the classifier is trained.
	PriorityQueue
	// LASH is PriorityQueue with AccumulateAll forced true and no threshold filter.
	LASH
)

// Options configures a training run.
type Options struct {
	Mode Mode

	// AccumulateAll, in PriorityQueue mode, records every traversed edge's feature
	// row regardless of classifier agreement. Ignored (forced true) in LASH mode.
	AccumulateAll bool

	// Threshold maps a predicted probability to a class for hard-example mining:
	// p > Threshold is treated as LabelKeepApart, else LabelMerge.
	Threshold float64
}

// Result reports what a training run accumulated and produced.
type Result struct {
	RowsCollected int
	MergesApplied int
	Accuracy      float64
}

// Run takes g as supplied and does not remove inclusions from it or build it; it
// traverses g's edges per opts.Mode consulting
// oracle for ground truth and agg for features/prediction, and fits agg.Classifier()
// on the resulting Unique Row Set.
func Run(g *graph.RAG, agg features.Aggregator, oracle features.Oracle, opts Options) (Result, error) {
	switch opts.Mode {
	case Flat:
		return runFlat(g, agg, oracle)
	case PriorityQueue:
		return runQueueDriven(g, agg, oracle, opts.AccumulateAll, opts.Threshold)
	case LASH:
		return runQueueDriven(g, agg, oracle, true, opts.Threshold)
	default:
		return runFlat(g, agg, oracle)
	}
}

func eligible(e *graph.Edge) bool {
	return !e.Preserve && !e.FalseEdge
}

func runFlat(g *graph.RAG, agg features.Aggregator, oracle features.Oracle) (Result, error) {
	rows := features.NewUniqueRowSet()
	for _, e := range g.Edges() {
		if !eligible(e) {
			continue
		}
		n1, n2 := e.Endpoints()
		label := oracle.Label(n1, n2)
		if label == features.LabelUndecidable {
			continue
		}
		row := append(agg.ComputeAllFeatures(e), float64(label))
		rows.Insert(row)
	}
	return finish(rows, agg, 0)
}

func runQueueDriven(g *graph.RAG, agg features.Aggregator, oracle features.Oracle, accumulateAll bool, threshold float64) (Result, error) {
	rows := features.NewUniqueRowSet()
	q := queue.New()
	c := combine.New(q, agg)
	c.SeedAllFresh(g)

	merges := 0
	for !q.IsEmpty() {
		qe, ok := q.ExtractMin()
		if !ok {
			break
		}
		if !qe.Valid {
			continue
		}
		e, ok := g.FindEdge(qe.Node1, qe.Node2)
		if !ok {
			continue
		}
		if !eligible(e) {
			continue
		}
		label := oracle.Label(qe.Node1, qe.Node2)
		if label == features.LabelUndecidable {
			continue
		}

		if accumulateAll {
			row := append(agg.ComputeAllFeatures(e), float64(label))
			rows.Insert(row)
		} else if agg.Classifier().IsTrained() {
			p := agg.GetProb(e)
			predicted := features.LabelMerge
			if p > threshold {
				predicted = features.LabelKeepApart
			}
			if predicted != label {
				row := append(agg.ComputeAllFeatures(e), float64(label))
				rows.Insert(row)
			}
		}

		if label == features.LabelMerge {
			if err := g.JoinNodes(qe.Node1, qe.Node2, c); err != nil {
				return Result{}, err
			}
			merges++
		}
	}
	return finish(rows, agg, merges)
}

func finish(rows *features.UniqueRowSet, agg features.Aggregator, merges int) (Result, error) {
	X, y := rows.Extract()
	if err := agg.Classifier().Learn(X, y); err != nil {
		return Result{}, err
	}
	correct := 0
	for i, x := range X {
		p := agg.Classifier().Predict(x)
		predicted := features.LabelMerge
		if p > 0.5 {
			predicted = features.LabelKeepApart
		}
		if predicted == y[i] {
			correct++
		}
	}
	accuracy := 0.0
	if len(X) > 0 {
		accuracy = float64(correct) / float64(len(X))
	}
	rlog.Infof("training complete: %s rows, %d merges, accuracy %.4f", humanize.Comma(int64(rows.Len())), merges, accuracy)
	return Result{RowsCollected: rows.Len(), MergesApplied: merges, Accuracy: accuracy}, nil
}
