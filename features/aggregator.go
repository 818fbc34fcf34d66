// Package features defines the contracts the RAG engine borrows from an external
// feature-computation pipeline and classifier (both out of scope per the distilled
// spec), the Unique Row Set used to deduplicate training rows, the ground-truth
// oracle, and a small deterministic reference implementation of each so the rest of
// the module is exercisable without a real segmentation pipeline. Grounded on
// BioPriors/StackLearnAlgs.cpp's FeatureMgrPtr/UniqueRowFeature_Label usage.
package features

import "github.com/janelia-flyem/ragengine/graph"

// Classifier is the black-box edge classifier the spec treats as an external
// collaborator: it learns from labeled feature rows and predicts the probability that
// an edge's two regions should be kept apart (LabelKeepApart).
type Classifier interface {
	Learn(X [][]float64, y []int) error
	Predict(x []float64) float64
	IsTrained() bool
}

// Aggregator is the per-edge running feature state the spec treats as an external
// collaborator. Implementations must be deterministic functions of current edge/node
// state so that agglomeration and training remain reproducible.
type Aggregator interface {
	// ComputeAllFeatures returns the full feature vector for e given current graph state.
	ComputeAllFeatures(e *graph.Edge) []float64

	// GetProb returns the classifier's current predicted keep-apart probability for e;
	// lower values mean a merge is more likely.
	GetProb(e *graph.Edge) float64

	// MergeFeatures folds remove's running feature state into keep's when two parallel
	// edges collapse during a node join.
	MergeFeatures(keep, remove *graph.Edge)

	// MergeNodeFeatures folds remove's node-level statistics into keep's.
	MergeNodeFeatures(keep, remove *graph.Node)

	// Classifier returns the backing classifier.
	Classifier() Classifier
}
