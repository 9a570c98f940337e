// Package template holds the static catalog of named statement templates a
// query may invoke with the {IS name} form.
package template

import (
	"sort"
	"strings"
)

// Model identifiers accepted by the scoring backend.
const (
	ModelUniversal     = "kanon-universal-classifier"
	ModelUniversalMini = "kanon-universal-classifier-mini"
)

// Descriptor describes one registered template.
type Descriptor struct {
	// Name is the canonical lower-case registry key, e.g. "confidentiality clause".
	Name string
	// DisplayName is the human-facing label shown by tooling.
	DisplayName string
	// RequiresParameter marks templates that are meaningless without a
	// quoted parameter, e.g. {IS clause obligating "Customer"}.
	RequiresParameter bool
	// RecommendsParameter marks templates that accept an optional parameter
	// and match more precisely with one.
	RecommendsParameter bool
	// CostByModel estimates the scoring token cost per backend model.
	CostByModel map[string]int
}

// Registry is an immutable, case-insensitive name → Descriptor table.
// It is passed explicitly to the parser and validator; there is no
// process-wide registry state.
type Registry struct {
	byName map[string]Descriptor
}

// NewRegistry builds a registry from descriptors. Names are normalized to
// lower case; later duplicates win.
func NewRegistry(descriptors ...Descriptor) *Registry {
	r := &Registry{byName: make(map[string]Descriptor, len(descriptors))}
	for _, d := range descriptors {
		r.byName[strings.ToLower(d.Name)] = d
	}
	return r
}

// Lookup resolves a template name case-insensitively.
func (r *Registry) Lookup(name string) (Descriptor, bool) {
	d, ok := r.byName[strings.ToLower(strings.TrimSpace(name))]
	return d, ok
}

// Names returns all registered names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for n := range r.byName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// All returns every descriptor sorted by name.
func (r *Registry) All() []Descriptor {
	names := r.Names()
	out := make([]Descriptor, 0, len(names))
	for _, n := range names {
		out = append(out, r.byName[n])
	}
	return out
}

func (r *Registry) Len() int {
	return len(r.byName)
}
