// Package schema is the public entrypoint for parsing and validating
// declarative UI configuration documents: data tables, forms, and modal
// wrappers expressed as JSON (or any decoded map).
//
// Parsing fills every defaultable gap (labels, accessors, pagination, row
// keys) and is idempotent, so normalized configs can be persisted and fed
// back through without drift. Validation is a separate pass that reports
// errors and warnings with config paths attached.
package schema
