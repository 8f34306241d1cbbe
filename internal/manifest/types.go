package manifest

import (
	"sort"
)

// Well-known conanfile.txt section names.
const (
	CategoryRequires      = "requires"
	CategoryToolRequires  = "tool_requires"
	CategoryBuildRequires = "build_requires"
	CategoryTestRequires  = "test_requires"
	CategoryGenerators    = "generators"
	CategoryOptions       = "options"
	CategoryImports       = "imports"
	CategoryLayout        = "layout"
)

// CanonicalOrder lists the sections in the order conanfile.txt files
// conventionally declare them. Serialization emits these first, then any
// other sections in lexicographic order.
var CanonicalOrder = []string{
	CategoryRequires,
	CategoryToolRequires,
	CategoryBuildRequires,
	CategoryTestRequires,
	CategoryGenerators,
	CategoryOptions,
	CategoryImports,
	CategoryLayout,
}

// canonicalRank maps a section name to its position in CanonicalOrder.
var canonicalRank = func() map[string]int {
	m := make(map[string]int, len(CanonicalOrder))
	for i, name := range CanonicalOrder {
		m[name] = i
	}
	return m
}()

// Manifest maps a category name to a set of opaque entry strings.
// The zero value is not usable; call New.
type Manifest struct {
	categories map[string]map[string]struct{}
}

// New returns an empty manifest.
func New() *Manifest {
	return &Manifest{categories: make(map[string]map[string]struct{})}
}

// Add inserts entries into category, creating the category if needed.
// Calling Add with no entries creates an empty category.
func (m *Manifest) Add(category string, entries ...string) {
	set, ok := m.categories[category]
	if !ok {
		set = make(map[string]struct{}, len(entries))
		m.categories[category] = set
	}
	for _, e := range entries {
		set[e] = struct{}{}
	}
}

// Has reports whether category exists, even if it is empty.
func (m *Manifest) Has(category string) bool {
	_, ok := m.categories[category]
	return ok
}

// Contains reports whether entry is in category.
func (m *Manifest) Contains(category, entry string) bool {
	_, ok := m.categories[category][entry]
	return ok
}

// Len returns the number of categories.
func (m *Manifest) Len() int {
	return len(m.categories)
}

// Categories returns the category names in serialization order.
func (m *Manifest) Categories() []string {
	names := make([]string, 0, len(m.categories))
	for name := range m.categories {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		ri, iok := canonicalRank[names[i]]
		rj, jok := canonicalRank[names[j]]
		switch {
		case iok && jok:
			return ri < rj
		case iok != jok:
			return iok
		default:
			return names[i] < names[j]
		}
	})
	return names
}

// Entries returns the entries of category in lexicographic order.
// It returns an empty slice for a missing category.
func (m *Manifest) Entries(category string) []string {
	set := m.categories[category]
	entries := make([]string, 0, len(set))
	for e := range set {
		entries = append(entries, e)
	}
	sort.Strings(entries)
	return entries
}

// Equal reports whether both manifests hold the same categories with the
// same entry sets. A nil manifest equals an empty one.
func (m *Manifest) Equal(other *Manifest) bool {
	mine, theirs := m.sets(), other.sets()
	if len(mine) != len(theirs) {
		return false
	}
	for name, set := range mine {
		otherSet, ok := theirs[name]
		if !ok || len(set) != len(otherSet) {
			return false
		}
		for e := range set {
			if _, ok := otherSet[e]; !ok {
				return false
			}
		}
	}
	return true
}

// sets returns the category map, or nil for a nil manifest.
func (m *Manifest) sets() map[string]map[string]struct{} {
	if m == nil {
		return nil
	}
	return m.categories
}

// ToMap returns a copy of the manifest with sorted entry lists.
// Empty categories map to an empty, non-nil slice.
func (m *Manifest) ToMap() map[string][]string {
	out := make(map[string][]string, len(m.categories))
	for name := range m.categories {
		out[name] = m.Entries(name)
	}
	return out
}
