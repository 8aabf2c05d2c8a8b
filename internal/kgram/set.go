package kgram

import "sort"

// Set is the collection of distinct k-grams of one document.
type Set map[string]struct{}

// NewSet returns a set holding grams.
func NewSet(grams ...string) Set {
	s := make(Set, len(grams))
	for _, g := range grams {
		s[g] = struct{}{}
	}
	return s
}

// Add inserts gram and reports whether it was new.
func (s Set) Add(gram string) bool {
	if _, ok := s[gram]; ok {
		return false
	}
	s[gram] = struct{}{}
	return true
}

// Has reports whether gram is in the set.
func (s Set) Has(gram string) bool {
	_, ok := s[gram]
	return ok
}

// Len returns the number of distinct k-grams.
func (s Set) Len() int { return len(s) }

// Sorted returns the members in ascending byte order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for g := range s {
		out = append(out, g)
	}
	sort.Strings(out)
	return out
}
