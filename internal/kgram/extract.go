package kgram

import (
	"bufio"
	"io"
	"strings"

	"kgram/internal/boundary"
	kerrors "kgram/internal/errors"
)

// Extract normalizes words in order and returns the distinct k-grams of the
// stream. A stream shorter than k yields an InsufficientDataError.
func Extract(words []string, k int) (Set, error) {
	w, err := NewWindow(k)
	if err != nil {
		return nil, err
	}
	set := make(Set)
	for _, word := range words {
		if g, ok := w.Push(Normalize(word)); ok {
			set.Add(g)
		}
	}
	return finish(w, set)
}

func finish(w *Window, set Set) (Set, error) {
	if w.Emitted() == 0 {
		return nil, kerrors.NewInsufficientDataError(w.Words(), w.K())
	}
	return set, nil
}

// Extractor turns raw documents into k-gram sets.
type Extractor struct {
	k       int
	markers boundary.Markers
}

// NewExtractor creates an extractor for k-grams of size k bounded by markers.
func NewExtractor(k int, markers boundary.Markers) (*Extractor, error) {
	if _, err := NewWindow(k); err != nil {
		return nil, err
	}
	return &Extractor{k: k, markers: markers}, nil
}

// K returns the k-gram size.
func (e *Extractor) K() int { return e.k }

// Extract reads a whole document from r, scans past the header, and streams
// the body words through the window until the footer.
func (e *Extractor) Extract(r io.Reader) (Set, error) {
	w, _ := NewWindow(e.k)
	set := make(Set)
	sc := boundary.NewScanner(r, e.markers)
	for sc.Scan() {
		push(w, set, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return finish(w, set)
}

// ExtractText extracts k-grams from free text with no header or footer.
func (e *Extractor) ExtractText(text string) (Set, error) {
	w, _ := NewWindow(e.k)
	set := make(Set)
	sc := bufio.NewScanner(strings.NewReader(text))
	for sc.Scan() {
		push(w, set, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return finish(w, set)
}

func push(w *Window, set Set, line string) {
	for _, word := range strings.Fields(line) {
		if g, ok := w.Push(Normalize(word)); ok {
			set.Add(g)
		}
	}
}
