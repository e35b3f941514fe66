// Package completion looks up registered functions for editors and agents.
//
// Complete is a case-insensitive prefix lookup over labels and bare names,
// backed by an LRU cache whose keys carry the registry version, so a new
// registration never serves a stale list. Match filters labels with
// wildcard patterns such as "Collection.*". Search uses the SQLite FTS5
// index when a store is configured.
package completion
