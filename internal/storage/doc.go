// Package storage provides SQLite-based persistence for registered functions.
//
// The in-memory registry is authoritative during a documentation pass. The
// store keeps registry snapshots across passes and sessions, and adds
// full-text search over labels, names and descriptions.
//
// # Database Schema
//
// Tables:
//   - schema_version: Applied migrations (semver)
//   - functions: One row per qualified id, insert-only
//   - arguments: Argument descriptions keyed by (function_id, position)
//   - functions_fts: FTS5 index over label, name and description
//
// # Basic Usage
//
//	db, err := storage.NewSQLiteStorage("docfn.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	inserted, err := db.SaveFunction(ctx, storage.FromTypesFunction(fn, "guide.md.tmpl"))
//
// SaveFunction never overwrites. A second save of the same id reports
// inserted == false and leaves the stored row as it was, the same
// first-occurrence-wins rule the registry applies.
//
// # Transactions
//
//	tx, err := db.BeginTx(ctx)
//	if err != nil {
//	    return err
//	}
//	defer tx.Rollback()
//
//	for _, fn := range reg.Functions() {
//	    if _, err := tx.SaveFunction(ctx, storage.FromTypesFunction(fn, src)); err != nil {
//	        return err
//	    }
//	}
//	return tx.Commit()
//
// SaveRegistry and LoadInto wrap the two directions of that round trip.
//
// # Full-Text Search
//
//	results, err := db.SearchFunctions(ctx, "insert doc", 10)
//
// Every term is matched as a prefix. Results are ordered by BM25 and
// BM25Score is negated so that higher is better.
//
// # Build Tags
//
// Pure Go build (default, or the purego tag) uses modernc.org/sqlite.
//
// CGO build uses github.com/mattn/go-sqlite3 and needs a C compiler:
//
//	CGO_ENABLED=1 go build -tags "sqlite_cgo sqlite_fts5"
package storage
