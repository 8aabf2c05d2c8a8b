package output

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kgram/internal/domain"
)

func TestWriteMatrix(t *testing.T) {
	var buf bytes.Buffer
	err := WriteMatrix(&buf, []domain.Vector{{1, 0, 1}, {0, 1, 1}})
	require.NoError(t, err)
	assert.Equal(t, "1,0,1\n0,1,1\n", buf.String())
}

func TestWriteMatrixEmptyVocabulary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMatrix(&buf, []domain.Vector{{}, {}}))
	assert.Equal(t, "\n\n", buf.String())
}

func TestWriteNames(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteNames(&buf, []string{"a.txt", "b.txt"}))
	assert.Equal(t, "a.txt\nb.txt\n", buf.String())
}

func TestReadMatrix(t *testing.T) {
	rows, err := ReadMatrix(strings.NewReader("1,0,1\n\n0, 1 ,0.5\n"))
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1, 0, 1}, {0, 1, 0.5}}, rows)

	_, err = ReadMatrix(strings.NewReader("1,0\n1\n"))
	assert.Error(t, err)

	_, err = ReadMatrix(strings.NewReader("1,x\n"))
	assert.Error(t, err)
}

func TestReadNames(t *testing.T) {
	names, err := ReadNames(strings.NewReader("a.txt\r\nb.txt\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "b.txt"}, names)
}

func TestWriteFiles(t *testing.T) {
	dir := t.TempDir()
	prefix := filepath.Join(dir, "out", "corpus")

	require.NoError(t, WriteFiles(prefix, []string{"a.txt", "b.txt"}, []domain.Vector{{1, 0}, {0, 1}}))

	matrix, err := os.ReadFile(prefix + ".csv")
	require.NoError(t, err)
	assert.Equal(t, "1,0\n0,1\n", string(matrix))

	names, err := os.ReadFile(prefix + "_Names.txt")
	require.NoError(t, err)
	assert.Equal(t, "a.txt\nb.txt\n", string(names))

	entries, err := os.ReadDir(filepath.Join(dir, "out"))
	require.NoError(t, err)
	assert.Len(t, entries, 2, "no temporaries left behind")
}

func TestWriteFileFailureLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "clusters.txt")

	err := WriteFile(dest, func(w io.Writer) error {
		_, _ = io.WriteString(w, "partial")
		return errors.New("boom")
	})
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	require.NoError(t, WriteFile(dest, func(w io.Writer) error {
		_, err := io.WriteString(w, "ok\n")
		return err
	}))
	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "ok\n", string(got))
}

func TestPaths(t *testing.T) {
	m, n := Paths("run/books")
	assert.Equal(t, "run/books.csv", m)
	assert.Equal(t, "run/books_Names.txt", n)
}
