// Package dochelper declares functions found in documentation sources.
//
// Helper.Fn is the operation documentation templates call for every
// signature occurrence. It parses the signature, resolves per-argument
// descriptions, registers the function on first occurrence and returns the
// inline markup for the declaration.
//
// # Basic Usage
//
//	reg := registry.New()
//	h := dochelper.New(reg)
//
//	h.Fn("Foo.bar(x: number): string", "Does bar", types.Named(map[string]string{
//	    "x": "the input",
//	}))
//	// <icode id="doc-fn-Foo.bar" title="Does bar">Foo.bar(x: number): string</icode>
//
//	h.Fn("Foo.bar(x: number): string", "", types.ParamDescriptions{})
//	// <icode>Foo.bar(x: number): string</icode>
//
// # Degraded Input
//
// Fn never fails. Text that is not a signature is rendered verbatim with
// neither id nor title, and nothing is registered. Argument fragments that
// do not parse keep their raw text as the argument name.
//
// # Duplicates
//
// Only the first declaration of an identifier is registered and anchored.
// Later declarations render without an id; a description they carry is
// dropped and, when it differs from the stored one, logged at debug level.
package dochelper
