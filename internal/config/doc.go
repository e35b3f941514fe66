// Package config loads docfn settings.
//
// Settings come from, in increasing precedence: built-in defaults, a YAML
// (docfn.yaml, docfn.yml) or TOML (docfn.toml) file, and the DOCFN_DB_PATH,
// DOCFN_SPLIT_MODE and DOCFN_ANCHOR_PREFIX environment variables.
//
// Example docfn.yaml:
//
//	db_path: ~/.docfn/docfn.db
//	split_mode: balanced
//	anchor_prefix: api-
//	include: ["*.md.tmpl"]
//	out_dir: site
//	workers: 4
package config
