package catalog

import "github.com/hupe1980/orbmatch/descriptor"

// Entry is a named template and its reference descriptors.
type Entry struct {
	Name        string
	Descriptors descriptor.Collection
}

// ReferenceSet is the immutable set of templates of one category, in
// artifact order.
type ReferenceSet struct {
	entries []Entry
	index   map[string]int
	size    int64
}

// NewReferenceSet builds a set from entries. A later entry replaces an
// earlier one with the same name in place.
func NewReferenceSet(entries ...Entry) *ReferenceSet {
	s := &ReferenceSet{}
	for _, e := range entries {
		s.put(e)
	}
	return s
}

// put adds or replaces an entry and reports whether it replaced one.
func (s *ReferenceSet) put(e Entry) bool {
	if s.index == nil {
		s.index = make(map[string]int)
	}
	if i, ok := s.index[e.Name]; ok {
		s.size += e.Descriptors.SizeBytes() - s.entries[i].Descriptors.SizeBytes()
		s.entries[i] = e
		return true
	}
	s.index[e.Name] = len(s.entries)
	s.entries = append(s.entries, e)
	s.size += e.Descriptors.SizeBytes()
	return false
}

// Len returns the number of templates.
func (s *ReferenceSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

// Entries returns the templates in enumeration order. The slice is shared
// and must not be modified.
func (s *ReferenceSet) Entries() []Entry {
	if s == nil {
		return nil
	}
	return s.entries
}

// Lookup returns the descriptors of the named template.
func (s *ReferenceSet) Lookup(name string) (descriptor.Collection, bool) {
	if s == nil {
		return nil, false
	}
	i, ok := s.index[name]
	if !ok {
		return nil, false
	}
	return s.entries[i].Descriptors, true
}

// Names returns the template names in enumeration order.
func (s *ReferenceSet) Names() []string {
	names := make([]string, s.Len())
	for i, e := range s.Entries() {
		names[i] = e.Name
	}
	return names
}

// SizeBytes returns the raw size of all reference descriptors.
func (s *ReferenceSet) SizeBytes() int64 {
	if s == nil {
		return 0
	}
	return s.size
}
