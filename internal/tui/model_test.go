package tui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kgram/internal/domain"
)

type fakeService struct {
	results []domain.SearchResult
	err     error
	queries []string
}

func (f *fakeService) Query(q string, topK int) ([]domain.SearchResult, error) {
	f.queries = append(f.queries, q)
	return f.results, f.err
}

func sized(t *testing.T, m Model) Model {
	t.Helper()
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return next.(Model)
}

func enter(t *testing.T, m Model, q string) Model {
	t.Helper()
	m.input.SetValue(q)
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return next.(Model)
}

func TestViewBeforeResize(t *testing.T) {
	m := New(&fakeService{}, "2 documents", 0)
	assert.Equal(t, "Loading...", m.View())
	assert.Equal(t, 10, m.topK)
}

func TestQueryAndCycle(t *testing.T) {
	svc := &fakeService{results: []domain.SearchResult{
		{Document: domain.DocumentVector{DocumentID: "a.txt", Vector: domain.Vector{1, 1, 0}}, Score: 1, Shared: []string{"the cat"}},
		{Document: domain.DocumentVector{DocumentID: "b.txt", Position: 1, Vector: domain.Vector{0, 1, 1}}, Score: 0.5},
	}}
	m := enter(t, sized(t, New(svc, "2 documents", 3)), "the cat sat")

	require.Equal(t, []string{"the cat sat"}, svc.queries)
	assert.Contains(t, m.status, "2 documents similar")
	assert.Contains(t, m.renderCurrentResult(), "a.txt")
	assert.Contains(t, m.renderCurrentResult(), "the cat")

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(Model)
	assert.Contains(t, m.renderCurrentResult(), "b.txt")
	assert.Contains(t, m.renderCurrentResult(), "(no shared k-grams)")

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = next.(Model)
	assert.Equal(t, 0, m.cursor)
	assert.Contains(t, m.View(), "K-gram Similarity")
}

func TestQueryError(t *testing.T) {
	m := enter(t, sized(t, New(&fakeService{err: errors.New("boom")}, "", 3)), "x y")
	assert.Equal(t, "Error: boom", m.status)
	assert.Equal(t, "No results yet.", m.renderCurrentResult())
}

func TestQueryNoMatches(t *testing.T) {
	m := enter(t, sized(t, New(&fakeService{}, "", 3)), "dogs bark")
	assert.Contains(t, m.status, "No document shares")
}

func TestBlankQueryIgnored(t *testing.T) {
	svc := &fakeService{}
	enter(t, sized(t, New(svc, "", 3)), "   ")
	assert.Empty(t, svc.queries)
}
