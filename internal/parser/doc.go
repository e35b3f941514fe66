// Package parser reads compact, TypeScript-like function signatures.
//
// Two small grammars are implemented as hand-rolled scanners:
//
//	signature: [Receiver.]name[(args)][: ReturnType]
//	argument:  [...]name[: Type]
//
// # Basic Usage
//
//	p := parser.New()
//	m, ok := p.ParseSignature("Foo.bar(...items: string[], count: number): string")
//	if !ok {
//	    // not a signature; render the text verbatim
//	}
//
//	for _, frag := range p.ParseArgs(m.RawArgs) {
//	    fmt.Println(frag.DisplayName(), frag.Type, frag.Collect)
//	}
//
// # Signature Grammar
//
//   - Receiver: characters other than '.', ' ' and '(' followed by a dot.
//     When present the function is a method. The receiver may be empty.
//   - Name: one or more characters other than ' ' and '(', read greedily,
//     so "std::foo(x)" is named "std::foo".
//   - Argument list: the text between '(' and the closing ')'.
//   - Return type: ':' followed by one whitespace-free token, after the
//     argument list or directly after the name. After a bare name the
//     name gives back its trailing ':', so "length: number" is named
//     "length".
//
// If the receiver-qualified reading fails the whole string is retried as a
// plain name, so "Foo.(x)" reads as a function named "Foo.".
//
// # Argument Splitting
//
// SplitNaive cuts the argument list on every comma. A type such as
// Record<string, number> is therefore broken in two, and the second half
// usually fails the argument grammar. SplitBalanced keeps commas nested in
// brackets and matches the closing parenthesis of the argument list:
//
//	p := parser.NewWithOptions(parser.Options{SplitMode: parser.SplitBalanced})
//
// # Error Handling
//
// Neither grammar returns errors. A signature that does not match yields
// ok=false. An argument fragment that does not match is returned as
// types.FragmentUnparsed with its raw text.
package parser
