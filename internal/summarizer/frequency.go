package summarizer

import (
	"fmt"
	"sort"
	"strings"

	"kgram/internal/kgram"
)

// FrequencySummarizer describes a corpus by its most widely shared k-grams.
type FrequencySummarizer struct{}

// NewFrequencySummarizer creates a document-frequency summarizer.
func NewFrequencySummarizer() *FrequencySummarizer { return &FrequencySummarizer{} }

// Entry is a k-gram and the number of documents containing it.
type Entry struct {
	KGram     string
	Documents int
}

// TopShared ranks k-grams by document frequency, ties in k-gram order.
func TopShared(sets []kgram.Set, maxEntries int) []Entry {
	if maxEntries <= 0 {
		maxEntries = 5
	}
	df := make(map[string]int)
	for _, s := range sets {
		for g := range s {
			df[g]++
		}
	}
	entries := make([]Entry, 0, len(df))
	for g, n := range df {
		entries = append(entries, Entry{KGram: g, Documents: n})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Documents != entries[j].Documents {
			return entries[i].Documents > entries[j].Documents
		}
		return entries[i].KGram < entries[j].KGram
	})
	if maxEntries > len(entries) {
		maxEntries = len(entries)
	}
	return entries[:maxEntries]
}

// Summarize returns a one-line corpus description followed by the top
// shared k-grams.
func (s *FrequencySummarizer) Summarize(names []string, sets []kgram.Set, maxEntries int) (string, error) {
	if len(names) != len(sets) {
		return "", fmt.Errorf("summarize: %d names for %d k-gram sets", len(names), len(sets))
	}
	union := make(map[string]struct{})
	total := 0
	for _, set := range sets {
		total += set.Len()
		for g := range set {
			union[g] = struct{}{}
		}
	}
	mean := 0.0
	if len(sets) > 0 {
		mean = float64(total) / float64(len(sets))
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d documents, %d k-grams, %.1f per document", len(sets), len(union), mean)
	top := TopShared(sets, maxEntries)
	if len(top) == 0 {
		return b.String(), nil
	}
	parts := make([]string, len(top))
	for i, e := range top {
		parts[i] = fmt.Sprintf("%q×%d", e.KGram, e.Documents)
	}
	b.WriteString("; most shared: ")
	b.WriteString(strings.Join(parts, ", "))
	return b.String(), nil
}
