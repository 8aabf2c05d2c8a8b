package vocabulary

import (
	"sort"

	kerrors "kgram/internal/errors"
	"kgram/internal/kgram"
)

// Vocabulary maps every k-gram of a corpus to a column index. Indices are
// assigned in ascending k-gram order, so the same corpus always yields the
// same columns. A Vocabulary is immutable once built.
type Vocabulary struct {
	index map[string]int
	terms []string
}

// Build computes the union of sets and indexes it.
func Build(sets []kgram.Set) *Vocabulary {
	union := make(map[string]struct{})
	for _, s := range sets {
		for g := range s {
			union[g] = struct{}{}
		}
	}
	// Create stable ordering for vocabulary
	terms := make([]string, 0, len(union))
	for g := range union {
		terms = append(terms, g)
	}
	sort.Strings(terms)
	return FromTerms(terms)
}

// FromTerms indexes terms in the given order. terms must be distinct.
func FromTerms(terms []string) *Vocabulary {
	v := &Vocabulary{
		index: make(map[string]int, len(terms)),
		terms: terms,
	}
	for i, g := range terms {
		v.index[g] = i
	}
	return v
}

// Len returns the number of columns.
func (v *Vocabulary) Len() int { return len(v.terms) }

// Index returns the column of gram.
func (v *Vocabulary) Index(gram string) (int, bool) {
	i, ok := v.index[gram]
	return i, ok
}

// MustIndex returns the column of gram or a LookupError.
func (v *Vocabulary) MustIndex(gram string) (int, error) {
	i, ok := v.index[gram]
	if !ok {
		return 0, kerrors.NewLookupError(gram)
	}
	return i, nil
}

// Term returns the k-gram at column i.
func (v *Vocabulary) Term(i int) string { return v.terms[i] }

// Terms returns the k-grams in column order. The slice must not be modified.
func (v *Vocabulary) Terms() []string { return v.terms }
