package vectorstore

import (
	"math"
	"sort"

	"kgram/internal/domain"
)

// Ochiai returns |A∩B| / sqrt(|A||B|) for two presence vectors, which is
// their cosine similarity. Vectors of different length are compared over
// the shorter one.
func Ochiai(a, b domain.Vector) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	inter, na, nb := 0, 0, 0
	for i := 0; i < n; i++ {
		if a[i] != 0 {
			na++
			if b[i] != 0 {
				inter++
			}
		}
		if b[i] != 0 {
			nb++
		}
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return float64(inter) / math.Sqrt(float64(na)*float64(nb))
}

// TopK scores every document against vector and returns the best topK,
// highest score first; ties keep matrix order.
func TopK(docs []domain.DocumentVector, vector domain.Vector, topK int) []domain.SearchResult {
	if topK <= 0 {
		topK = 5
	}
	results := make([]domain.SearchResult, len(docs))
	for i, d := range docs {
		results[i] = domain.SearchResult{Document: d, Score: Ochiai(d.Vector, vector)}
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if topK > len(results) {
		topK = len(results)
	}
	return results[:topK]
}
