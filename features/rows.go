package features

import (
	"strconv"
	"strings"
)

// UniqueRowSet deduplicates feature rows by their non-label columns, preserving the
// label of the first insertion. Rows are []float64 with the integer edge label cast to
// float64 in the final column, matching the distilled spec's Feature Vector format and
// NeuroProof's UniqueRowFeature_Label::insert.
type UniqueRowSet struct {
	seen map[string]struct{}
	rows [][]float64
}

// NewUniqueRowSet returns an empty set.
func NewUniqueRowSet() *UniqueRowSet {
	return &UniqueRowSet{seen: make(map[string]struct{})}
}

// Insert adds row if its feature prefix (everything but the final label column) has
// not been seen before. Returns true if row was newly inserted.
func (u *UniqueRowSet) Insert(row []float64) bool {
	key := featureKey(row)
	if _, dup := u.seen[key]; dup {
		return false
	}
	u.seen[key] = struct{}{}
	cp := make([]float64, len(row))
	copy(cp, row)
	u.rows = append(u.rows, cp)
	return true
}

// Len returns the number of unique rows currently held.
func (u *UniqueRowSet) Len() int { return len(u.rows) }

// Clear empties the set.
func (u *UniqueRowSet) Clear() {
	u.seen = make(map[string]struct{})
	u.rows = nil
}

// Extract splits the accumulated rows into a feature matrix X and an integer label
// vector y, in insertion order, ready for Classifier.Learn.
func (u *UniqueRowSet) Extract() (X [][]float64, y []int) {
	X = make([][]float64, len(u.rows))
	y = make([]int, len(u.rows))
	for i, row := range u.rows {
		features := row[:len(row)-1]
		cp := make([]float64, len(features))
		copy(cp, features)
		X[i] = cp
		y[i] = int(row[len(row)-1])
	}
	return X, y
}

// featureKey builds a stable string key from all but the final (label) column.
func featureKey(row []float64) string {
	if len(row) == 0 {
		return ""
	}
	features := row[:len(row)-1]
	var b strings.Builder
	for i, f := range features {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
	}
	return b.String()
}
