// Package dataprep implements the column-preparation pipeline: load a
// delimited source into a tabular.Table, classify columns by content,
// normalize currency-formatted text, coerce designated columns to
// numeric, impute or drop missing values, and report descriptive
// statistics.
//
// Every engine in this package is a pure transformation: it reads a
// *tabular.Table and returns a new one, never modifying its input. The
// Dataset orchestrator provides the mutating view on top of that by
// swapping its owned table only after an engine call succeeds, so a
// failed operation leaves the previous table fully intact.
//
// A Dataset instance is not safe for concurrent mutation. Callers that
// need parallelism should work on independent Dataset instances or use
// the engines directly on their own tables.
package dataprep
