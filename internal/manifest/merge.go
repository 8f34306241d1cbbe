package manifest

// Merge returns the category-wise union of a and b.
// Every category present in either input appears in the result, empty
// categories included. Neither input is modified; nil counts as empty.
func Merge(a, b *Manifest) *Manifest {
	result := New()
	for _, m := range []*Manifest{a, b} {
		if m == nil {
			continue
		}
		for name, set := range m.categories {
			result.Add(name)
			for e := range set {
				result.categories[name][e] = struct{}{}
			}
		}
	}
	return result
}

// MergeAll folds Merge over manifests from left to right.
func MergeAll(manifests ...*Manifest) *Manifest {
	result := New()
	for _, m := range manifests {
		result = Merge(result, m)
	}
	return result
}
