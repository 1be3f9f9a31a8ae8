// Package dataops implements the client-side data pipeline backing
// config-driven tables: search filtering, stable sorting, and pagination
// over flat row records.
package dataops
