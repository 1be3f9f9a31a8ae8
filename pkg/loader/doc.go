// Package loader resolves config documents from local files, embedded
// filesystems, or HTTP endpoints, runs them through the schema parser, and
// caches the parsed configs. Concurrent loads of the same source may race to
// fill the cache; both produce the same parsed value so the duplicate work is
// accepted instead of deduplicated in flight.
package loader
