package service

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"kgram/internal/domain"
	"kgram/internal/embedding/presence"
	kerrors "kgram/internal/errors"
	"kgram/internal/kgram"
)

// Error policies, matching the on_error config values.
const (
	OnErrorAbort = "abort"
	OnErrorSkip  = "skip"
)

// Options tune a Pipeline. The zero value aborts on the first failing
// document, logs nothing and reports no progress.
type Options struct {
	OnError string
	Logger  *log.Logger
	// Progress is notified once per extracted document.
	Progress     domain.Progress
	ExcludeNames []string
	// Extensions restricts directory entries to these suffixes.
	Extensions        []string
	SummaryMaxEntries int
}

// Result is a vectorized corpus. Row i of Vectors belongs to Documents[i].
type Result struct {
	Documents []domain.Document
	Sets      []kgram.Set
	Vectors   []domain.Vector
	Terms     []string
	// Skipped holds the DocumentError of every document dropped under the skip policy.
	Skipped []error
}

// Names returns the document ids in row order.
func (r *Result) Names() []string {
	names := make([]string, len(r.Documents))
	for i, d := range r.Documents {
		names[i] = d.ID
	}
	return names
}

type vocabularyWriter interface {
	WriteVocabulary(terms []string) error
}

// Pipeline turns a list of documents into a vocabulary and presence matrix
// and answers similarity queries against the last run.
type Pipeline struct {
	extractor  domain.Extractor
	sampler    domain.Sampler
	embedder   *presence.Embedder
	store      domain.VectorStore
	summarizer domain.Summarizer
	opts       Options
	last       *Result
}

func NewPipeline(extractor domain.Extractor, sampler domain.Sampler, embedder *presence.Embedder, store domain.VectorStore, summarizer domain.Summarizer, opts Options) *Pipeline {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard, "", 0)
	}
	if opts.Progress == nil {
		opts.Progress = noProgress{}
	}
	if opts.OnError == "" {
		opts.OnError = OnErrorAbort
	}
	return &Pipeline{extractor: extractor, sampler: sampler, embedder: embedder, store: store, summarizer: summarizer, opts: opts}
}

// Result returns the last successful run, or nil.
func (p *Pipeline) Result() *Result { return p.last }

// Discover expands paths into documents. Directories contribute their
// regular files in lexical order; patterns are globbed. Reserved and
// hidden names are dropped from directories and glob matches, but a file
// named literally is always kept. Document ids are base names unless two
// inputs share one.
func (p *Pipeline) Discover(paths []string) ([]domain.Document, error) {
	var files []string
	for _, pattern := range paths {
		isPattern := strings.ContainsAny(pattern, "*?[")
		matches, _ := filepath.Glob(pattern)
		if matches == nil {
			matches = []string{pattern}
		}
		for _, m := range matches {
			info, err := os.Stat(m)
			if err != nil {
				return nil, err
			}
			if isPattern && (info.IsDir() || !p.accept(filepath.Base(m))) {
				continue
			}
			if !info.IsDir() {
				files = append(files, m)
				continue
			}
			entries, err := os.ReadDir(m)
			if err != nil {
				return nil, err
			}
			for _, e := range entries {
				if e.IsDir() || !p.accept(e.Name()) {
					continue
				}
				files = append(files, filepath.Join(m, e.Name()))
			}
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: nothing matched %s", kerrors.ErrNoDocuments, strings.Join(paths, ", "))
	}

	seen := make(map[string]bool, len(files))
	docs := make([]domain.Document, 0, len(files))
	for _, f := range files {
		id := filepath.Base(f)
		if seen[id] {
			id = f
		}
		if seen[id] {
			p.opts.Logger.Printf("ignoring repeated input %s", f)
			continue
		}
		seen[id] = true
		docs = append(docs, domain.Document{ID: id, Path: f})
	}
	return docs, nil
}

func (p *Pipeline) accept(name string) bool {
	if strings.HasPrefix(name, ".") {
		return false
	}
	for _, ex := range p.opts.ExcludeNames {
		if name == ex {
			return false
		}
	}
	if len(p.opts.Extensions) == 0 {
		return true
	}
	lower := strings.ToLower(name)
	for _, ext := range p.opts.Extensions {
		if strings.HasSuffix(lower, strings.ToLower(ext)) {
			return true
		}
	}
	return false
}

// Run extracts and samples every document in order, builds the vocabulary
// over the sampled sets and vectorizes each one. Vectors are stored only
// once the whole corpus has succeeded.
func (p *Pipeline) Run(docs []domain.Document) (*Result, error) {
	res := &Result{}
	p.opts.Progress.Start(len(docs))
	for _, d := range docs {
		set, err := p.extract(d)
		if err != nil {
			derr := kerrors.NewDocumentError(d.ID, err)
			if p.opts.OnError != OnErrorSkip {
				p.opts.Progress.Stop()
				return nil, derr
			}
			p.opts.Logger.Printf("skipping %v", derr)
			res.Skipped = append(res.Skipped, derr)
			p.opts.Progress.Advance(d.ID)
			continue
		}
		res.Documents = append(res.Documents, d)
		res.Sets = append(res.Sets, p.sampler.Sample(set))
		p.opts.Progress.Advance(d.ID)
	}
	p.opts.Progress.Stop()
	if len(res.Documents) == 0 {
		return nil, fmt.Errorf("%w: all %d documents failed", kerrors.ErrNoDocuments, len(docs))
	}

	if err := p.embedder.Prepare(res.Sets); err != nil {
		return nil, err
	}
	res.Terms = p.embedder.Vocabulary().Terms()
	rows := make([]domain.DocumentVector, len(res.Sets))
	res.Vectors = make([]domain.Vector, len(res.Sets))
	for i, set := range res.Sets {
		vec, err := p.embedder.Embed(set)
		if err != nil {
			return nil, kerrors.NewDocumentError(res.Documents[i].ID, err)
		}
		res.Vectors[i] = vec
		rows[i] = domain.DocumentVector{DocumentID: res.Documents[i].ID, Position: i, Vector: vec}
	}

	if err := p.store.Init(p.embedder.Dimension()); err != nil {
		return nil, err
	}
	if err := p.store.Clear(); err != nil {
		return nil, err
	}
	if err := p.store.Upsert(rows); err != nil {
		return nil, err
	}
	if vw, ok := p.store.(vocabularyWriter); ok {
		if err := vw.WriteVocabulary(res.Terms); err != nil {
			return nil, err
		}
	}
	p.last = res
	return res, nil
}

func (p *Pipeline) extract(d domain.Document) (kgram.Set, error) {
	f, err := os.Open(d.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return p.extractor.Extract(f)
}

// IngestDocuments discovers, vectorizes and summarizes a corpus.
func (p *Pipeline) IngestDocuments(paths []string) (string, error) {
	docs, err := p.Discover(paths)
	if err != nil {
		return "", err
	}
	res, err := p.Run(docs)
	if err != nil {
		return "", err
	}
	return p.summarizer.Summarize(res.Names(), res.Sets, p.opts.SummaryMaxEntries)
}

// Query finds the documents most similar to query. A query equal to a
// document id searches with that document's vector and leaves the document
// itself out; any other text is reduced to k-grams, and those outside the
// vocabulary are ignored.
func (p *Pipeline) Query(query string, topK int) ([]domain.SearchResult, error) {
	if p.last == nil {
		return nil, errors.New("no corpus ingested")
	}
	if topK <= 0 {
		topK = 5
	}
	self := -1
	var (
		qset kgram.Set
		vec  domain.Vector
	)
	for i, d := range p.last.Documents {
		if d.ID == query {
			self = i
			break
		}
	}
	if self >= 0 {
		qset, vec = p.last.Sets[self], p.last.Vectors[self]
	} else {
		set, err := p.extractor.ExtractText(query)
		if err != nil {
			return nil, err
		}
		v, known, err := p.embedder.Project(set)
		if err != nil {
			return nil, err
		}
		if known == 0 {
			return nil, nil
		}
		qset, vec = set, v
	}

	limit := topK
	if self >= 0 {
		limit++
	}
	found, err := p.store.Search(vec, limit)
	if err != nil {
		return nil, err
	}
	out := make([]domain.SearchResult, 0, topK)
	for _, r := range found {
		pos := r.Document.Position
		if pos == self || len(out) == topK {
			continue
		}
		if pos >= 0 && pos < len(p.last.Sets) {
			r.Shared = shared(qset, p.last.Sets[pos])
		}
		out = append(out, r)
	}
	return out, nil
}

func shared(a, b kgram.Set) []string {
	var out []string
	for g := range a {
		if b.Has(g) {
			out = append(out, g)
		}
	}
	sort.Strings(out)
	return out
}

type noProgress struct{}

func (noProgress) Start(int)      {}
func (noProgress) Advance(string) {}
func (noProgress) Stop()          {}
