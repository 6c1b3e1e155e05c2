// Package dataset loads the penguin table once and hands out read-only views.
//
// A [Dataset] is built by [Load] from a [Source] before any UI shell starts
// and is never mutated afterwards, so every session can share the same
// pointer without locking. Subsets are expressed as a [View]: an ordered list
// of row indexes into the dataset, which keeps filtering zero-copy.
//
// Sources:
//
//   - [Embedded]: the CSV compiled into the binary (default)
//   - [File]: a CSV file on disk
//   - [SQLSource]: a table in SQLite (modernc.org/sqlite) or Postgres (pgx)
//   - [S3Source]: a CSV object in an S3-compatible bucket
package dataset
