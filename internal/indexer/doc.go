// Package indexer runs documentation passes over template sources.
//
// A documentation source is a text/template file (by default any *.tmpl)
// that declares function signatures inline:
//
//	## Collections
//
//	{{ fn "Collection.insertMany(...docs: Document[], options): Promise" "Inserts documents" (args "The documents" "Write options") }}
//
//	Later references render without an anchor:
//	{{ fn "Collection.insertMany(...docs: Document[], options): Promise" }}
//
// Three functions are available to templates:
//
//   - fn signature [description] [params]: declares the signature and
//     returns its markup
//   - args "d0" "d1" ...: positional parameter descriptions
//   - params "name" "desc" ...: parameter descriptions by name, with
//     numeric keys ("0", "1") as a positional fallback
//
// # Basic Usage
//
//	idx := indexer.New(dochelper.New(registry.New()), store)
//
//	stats, err := idx.RenderDir(ctx, "docs", &indexer.Config{
//	    OutDir:  "site",
//	    Persist: true,
//	})
//
//	fmt.Printf("Rendered %d files, %d functions registered in %v\n",
//	    stats.FilesRendered, stats.Registered, stats.Duration)
//
// # Pass Pipeline
//
//  1. Discovery: walk the root, skip hidden directories, apply include and
//     exclude wildcards, sort by relative path
//  2. Read: load all files concurrently (errgroup, bounded by Workers)
//  3. Render: execute templates one at a time in path order against a
//     single registry, so "first occurrence" means first in path order
//  4. Write: outputs go to OutDir (or next to the source) with the .tmpl
//     suffix removed
//  5. Persist: optionally save the registry, recording for each function
//     the template that first declared it
//
// A template that fails to parse or execute is counted in FilesFailed and
// the pass moves on. Declarations it made before failing stay registered.
//
// # Concurrency
//
// Only one pass runs per Indexer. RenderDir and Render return
// ErrPassInProgress instead of queueing behind a running pass.
package indexer
