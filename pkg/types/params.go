package types

// ParamDescriptions carries user-supplied per-argument descriptions.
// It is either positional (index-aligned) or named (keyed by argument name);
// the zero value is an empty positional list.
type ParamDescriptions struct {
	positional []string
	named      map[string]string
}

// Positional returns index-aligned parameter descriptions
func Positional(descriptions ...string) ParamDescriptions {
	return ParamDescriptions{positional: descriptions}
}

// Named returns parameter descriptions keyed by argument name.
// Keys that are decimal integers also act as positional indexes.
func Named(descriptions map[string]string) ParamDescriptions {
	if descriptions == nil {
		descriptions = map[string]string{}
	}
	return ParamDescriptions{named: descriptions}
}

// IsNamed reports whether descriptions are keyed by name
func (p ParamDescriptions) IsNamed() bool {
	return p.named != nil
}

// ByName looks up a description by argument name; always misses for positional lists
func (p ParamDescriptions) ByName(name string) (string, bool) {
	if p.named == nil {
		return "", false
	}
	d, ok := p.named[name]
	return d, ok
}

// At looks up a positional description
func (p ParamDescriptions) At(i int) (string, bool) {
	if i < 0 || i >= len(p.positional) {
		return "", false
	}
	return p.positional[i], true
}

// Len returns the number of supplied descriptions
func (p ParamDescriptions) Len() int {
	if p.named != nil {
		return len(p.named)
	}
	return len(p.positional)
}
