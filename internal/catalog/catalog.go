package catalog

import "sort"

// Catalog maps a stored filename to the free-text tags describing it.
type Catalog map[string]string

// Filenames returns the catalogued filenames in lexical order.
func (c Catalog) Filenames() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns an independent copy; a nil catalog clones to an empty one.
func (c Catalog) Clone() Catalog {
	out := make(Catalog, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}
