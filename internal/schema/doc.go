// Package schema turns raw, decoded config documents (tables, forms, modals)
// into canonical, fully-defaulted configuration structs, and validates those
// structs for problems the tolerant parser lets through.
//
// Parsing is idempotent: marshaling a normalized config and parsing the
// result yields an equal config. Unknown keys survive the round trip through
// each type's Extra map.
package schema
