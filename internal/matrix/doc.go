// Package matrix implements the in-memory numeric companion to the
// tabular pipeline: synthetic dataset generation, per-feature
// statistics, min-max and z-score normalization, composite scoring,
// ranking, boolean row selection, and a linear projection, all over
// gonum dense matrices.
package matrix
