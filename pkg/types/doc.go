// Package types provides shared type definitions for docfn.
//
// This package defines the domain types passed between the signature parser,
// the function registry, the storage layer and the MCP server.
//
// # Core Types
//
// FunctionDescription is one distinct function or method, as first declared
// in a documentation source:
//
//	fn := &types.FunctionDescription{
//	    ID:         "Foo.bar",
//	    Name:       "bar",
//	    Label:      "Foo.bar",
//	    IsMethod:   true,
//	    MethodOf:   "Foo",
//	    ReturnType: "string",
//	    Args: []types.ArgumentDescription{
//	        {Name: "x", Type: "number"},
//	    },
//	}
//
// ID and Label are both the receiver-qualified name, see QualifiedName.
// Optional text fields use the empty string for "absent".
//
// # Parse Results
//
// SignatureMatch is the split of a signature string into receiver, name,
// raw argument list and return type. ArgFragment is a tagged variant for a
// single argument fragment: either FragmentParsed, carrying the collect flag,
// name and type, or FragmentUnparsed, carrying only the raw text.
//
// # Parameter Descriptions
//
// Per-argument descriptions are supplied either positionally or by name:
//
//	types.Positional("the x value", "the y value")
//	types.Named(map[string]string{"x": "the x value"})
//
// # Validation
//
//	if err := fn.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package types
