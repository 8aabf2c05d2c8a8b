package presence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kerrors "kgram/internal/errors"
	"kgram/internal/kgram"
)

func TestEmbedTwoDocuments(t *testing.T) {
	a := kgram.NewSet("the cat", "cat sat")
	b := kgram.NewSet("the cat", "cat ran")

	e := NewEmbedder()
	require.NoError(t, e.Prepare([]kgram.Set{a, b}))
	require.Equal(t, 3, e.Dimension())
	assert.Equal(t, "presence", e.Name())

	for _, s := range []kgram.Set{a, b} {
		vec, err := e.Embed(s)
		require.NoError(t, err)
		require.Len(t, vec, 3)
		assert.Equal(t, s.Len(), vec.Ones())
		zeros := 0
		for _, x := range vec {
			assert.Contains(t, []uint8{0, 1}, x)
			if x == 0 {
				zeros++
			}
		}
		assert.Equal(t, 1, zeros)
		for g := range s {
			idx, ok := e.Vocabulary().Index(g)
			require.True(t, ok)
			assert.Equal(t, uint8(1), vec[idx])
		}
	}
}

func TestEmbedUnknownKGram(t *testing.T) {
	e := NewEmbedder()
	require.NoError(t, e.Prepare([]kgram.Set{kgram.NewSet("a b")}))

	_, err := e.Embed(kgram.NewSet("a b", "b c"))
	assert.ErrorIs(t, err, kerrors.ErrUnknownKGram)
}

func TestEmbedRequiresPrepare(t *testing.T) {
	e := NewEmbedder()
	_, err := e.Embed(kgram.NewSet("a b"))
	assert.Error(t, err)
	_, _, err = e.Project(kgram.NewSet("a b"))
	assert.Error(t, err)
	assert.Error(t, e.Prepare(nil))
}

func TestProjectSkipsUnknown(t *testing.T) {
	e := NewEmbedder()
	require.NoError(t, e.Prepare([]kgram.Set{kgram.NewSet("a b", "b c")}))

	vec, known, err := e.Project(kgram.NewSet("b c", "x y"))
	require.NoError(t, err)
	assert.Equal(t, 1, known)
	assert.Equal(t, 1, vec.Ones())
}
