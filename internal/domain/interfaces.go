package domain

import (
	"io"

	"kgram/internal/kgram"
)

// Document represents a single text file of the corpus.
type Document struct {
	ID   string
	Path string
}

// Vector is a binary presence vector over the vocabulary.
type Vector []uint8

// Ones returns the number of set positions.
func (v Vector) Ones() int {
	n := 0
	for _, b := range v {
		if b != 0 {
			n++
		}
	}
	return n
}

// DocumentVector is one row of the output matrix.
type DocumentVector struct {
	DocumentID string
	Position   int
	Vector     Vector
}

// SearchResult represents a similar document with a relevance score.
type SearchResult struct {
	Document DocumentVector
	Score    float64
	// Shared lists the k-grams the query and the document have in common.
	Shared []string
}

// Extractor reduces documents to k-gram sets.
type Extractor interface {
	K() int
	Extract(r io.Reader) (kgram.Set, error)
	ExtractText(text string) (kgram.Set, error)
}

// Sampler caps the size of a document's k-gram set.
type Sampler interface {
	Sample(items kgram.Set) kgram.Set
}

// Embedder converts k-gram sets into vectors.
// Implementations require a preparation phase over the whole corpus.
type Embedder interface {
	Name() string
	Prepare(sets []kgram.Set) error
	Dimension() int
	Embed(set kgram.Set) (Vector, error)
}

// VectorStore persists vectors and supports similarity search.
type VectorStore interface {
	Init(dimension int) error
	Upsert(docs []DocumentVector) error
	Search(vector Vector, topK int) ([]SearchResult, error)
	Clear() error
}

// Summarizer produces a brief description of a vectorized corpus.
type Summarizer interface {
	Summarize(names []string, sets []kgram.Set, maxEntries int) (string, error)
}

// Progress receives one notification per processed document.
type Progress interface {
	Start(total int)
	Advance(documentID string)
	Stop()
}

// Service defines the operations exposed by the application core.
type Service interface {
	IngestDocuments(paths []string) (summary string, err error)
	Query(query string, topK int) ([]SearchResult, error)
}
