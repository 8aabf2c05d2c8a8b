package memory

import (
	"errors"
	"sync"

	"kgram/internal/domain"
	"kgram/internal/vectorstore"
)

// Storage is a simple in-memory vector store using brute-force Ochiai similarity.
type Storage struct {
	mu        sync.RWMutex
	dimension int
	docs      []domain.DocumentVector
}

func NewStorage() *Storage { return &Storage{} }

func (s *Storage) Init(dimension int) error {
	if dimension < 0 {
		return errors.New("invalid dimension")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dimension = dimension
	s.docs = nil
	return nil
}

func (s *Storage) Upsert(docs []domain.DocumentVector) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range docs {
		if len(d.Vector) != s.dimension {
			return errors.New("vector dimension mismatch")
		}
	}
	for _, d := range docs {
		if i := s.find(d.DocumentID); i >= 0 {
			s.docs[i] = d
			continue
		}
		s.docs = append(s.docs, d)
	}
	return nil
}

func (s *Storage) find(id string) int {
	for i := range s.docs {
		if s.docs[i].DocumentID == id {
			return i
		}
	}
	return -1
}

func (s *Storage) Search(vector domain.Vector, topK int) ([]domain.SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return vectorstore.TopK(s.docs, vector, topK), nil
}

// Get returns the stored vector of a document.
func (s *Storage) Get(id string) (domain.DocumentVector, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.find(id); i >= 0 {
		return s.docs[i], true
	}
	return domain.DocumentVector{}, false
}

func (s *Storage) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = nil
	return nil
}
