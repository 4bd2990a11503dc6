// Package tabular defines the shared data model for the preparation
// pipeline: an in-memory Table of named, kind-tagged columns with an
// explicit missing-value mask, the Classification value produced by
// column-type detection, and the Summary artifacts produced by
// descriptive reporting.
//
// A Table is an ordered collection of columns aligned by row index.
// Column names are unique and stored with surrounding whitespace
// trimmed. Each column carries one of two storage kinds:
//
//   - KindText: cells are strings
//   - KindNumeric: cells are float64
//
// Missing cells are tracked in a per-column mask and are distinct from
// the empty string and from zero. Numeric storage holds NaN at missing
// positions so a mask bug cannot smuggle a stale value into statistics.
//
// Values of this package are plain data: construction validates the
// structural invariants (unique names, uniform row count, storage
// matching the declared kind) and transformation engines build new
// Tables rather than editing shared ones. The engines that operate on
// these types live in internal/dataprep.
package tabular
