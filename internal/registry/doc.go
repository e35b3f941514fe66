// Package registry holds the functions declared during one documentation
// processing pass, keyed by their receiver-qualified identifier.
//
// A Registry is an explicit object: the caller creates it, passes it to every
// declaration call and decides whether it is shared.
//
//	reg := registry.New()
//	id, ok := reg.Register(fn)
//	if !ok {
//	    // identifier already declared; fn was discarded
//	}
//
// # First Occurrence Wins
//
// Entries are added but never updated or removed. Registering an identifier
// that is already present is a no-op that returns ok=false, even when the new
// description differs. Stored values are deep copies and Get returns copies,
// so callers cannot mutate registered descriptions.
//
// # Thread Safety
//
// Registry is safe for concurrent use. Register performs the presence check
// and the insert under one lock. Declaring signatures in document order is
// still the caller's job when several passes share one registry.
package registry
