package presence

import (
	"errors"

	"kgram/internal/domain"
	"kgram/internal/kgram"
	"kgram/internal/vocabulary"
)

// Embedder implements binary bag-of-k-grams vectorization.
// It builds the vocabulary from the sampled sets of the whole corpus.
type Embedder struct {
	vocab    *vocabulary.Vocabulary
	prepared bool
}

// NewEmbedder creates an unprepared presence embedder.
func NewEmbedder() *Embedder {
	return &Embedder{vocab: vocabulary.FromTerms(nil)}
}

// Name returns the identifier of this embedder implementation.
func (e *Embedder) Name() string { return "presence" }

// Prepare builds the vocabulary over the union of sets.
func (e *Embedder) Prepare(sets []kgram.Set) error {
	if len(sets) == 0 {
		return errors.New("empty corpus for presence prepare")
	}
	e.vocab = vocabulary.Build(sets)
	e.prepared = true
	return nil
}

// Dimension returns the vocabulary size.
func (e *Embedder) Dimension() int { return e.vocab.Len() }

// Vocabulary returns the prepared vocabulary.
func (e *Embedder) Vocabulary() *vocabulary.Vocabulary { return e.vocab }

// Embed returns the presence vector of set. Every member must be in the
// vocabulary; a miss means set was not part of the prepared corpus.
func (e *Embedder) Embed(set kgram.Set) (domain.Vector, error) {
	if !e.prepared {
		return nil, errors.New("presence embedder not prepared")
	}
	vec := make(domain.Vector, e.vocab.Len())
	for g := range set {
		idx, err := e.vocab.MustIndex(g)
		if err != nil {
			return nil, err
		}
		vec[idx] = 1
	}
	return vec, nil
}

// Project is Embed for sets from outside the corpus: unknown k-grams are
// skipped. It returns the vector and how many members were known.
func (e *Embedder) Project(set kgram.Set) (domain.Vector, int, error) {
	if !e.prepared {
		return nil, 0, errors.New("presence embedder not prepared")
	}
	vec := make(domain.Vector, e.vocab.Len())
	known := 0
	for g := range set {
		if idx, ok := e.vocab.Index(g); ok {
			vec[idx] = 1
			known++
		}
	}
	return vec, known, nil
}
