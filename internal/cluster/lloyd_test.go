package cluster

import (
	"bytes"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kerrors "kgram/internal/errors"
)

// two well separated groups
var blobs = [][]float64{
	{0, 0}, {0, 1}, {1, 0}, {1, 1},
	{10, 10}, {10, 11}, {11, 10}, {11, 11},
}

func sameCluster(assign []int, idx ...int) bool {
	for _, i := range idx[1:] {
		if assign[i] != assign[idx[0]] {
			return false
		}
	}
	return true
}

func TestRunSeparatesBlobs(t *testing.T) {
	for _, seeding := range []Seeding{PlusPlus, Gonzalez} {
		t.Run(string(seeding), func(t *testing.T) {
			res, err := Run(blobs, Options{
				Clusters: 2,
				Restarts: 5,
				Seeding:  seeding,
				Rand:     rand.New(rand.NewPCG(1, 1)),
			})
			require.NoError(t, err)
			assert.True(t, sameCluster(res.Assign, 0, 1, 2, 3))
			assert.True(t, sameCluster(res.Assign, 4, 5, 6, 7))
			assert.NotEqual(t, res.Assign[0], res.Assign[4])
			// every point is 0.5 from its center on both axes
			assert.InDelta(t, 0.7071, res.Cost, 1e-3)
		})
	}
}

func TestRunValidation(t *testing.T) {
	_, err := Run(nil, Options{Clusters: 1})
	assert.Error(t, err)

	_, err = Run(blobs, Options{Clusters: 0})
	assert.ErrorIs(t, err, kerrors.ErrInvalidConfig)

	_, err = Run(blobs, Options{Clusters: 9})
	assert.ErrorIs(t, err, kerrors.ErrInvalidConfig)

	_, err = Run(blobs, Options{Clusters: 2, Seeding: "random"})
	assert.ErrorIs(t, err, kerrors.ErrInvalidConfig)
}

func TestSeedGonzalezPicksFarthest(t *testing.T) {
	pts := [][]float64{{0}, {1}, {5}}
	rng := rand.New(rand.NewPCG(2, 3))
	seeds := SeedGonzalez(pts, 3, rng)
	require.Len(t, seeds, 3)
	assert.ElementsMatch(t, pts, seeds)
}

func TestSeedPlusPlusDuplicatePoints(t *testing.T) {
	pts := [][]float64{{1, 1}, {1, 1}, {1, 1}}
	seeds := SeedPlusPlus(pts, 2, rand.New(rand.NewPCG(5, 5)))
	assert.Len(t, seeds, 2)
}

func TestLloydKeepsEmptyCenter(t *testing.T) {
	pts := [][]float64{{0}, {1}}
	centers, assign := Lloyd(pts, [][]float64{{0.5}, {100}}, 10)
	assert.Equal(t, []float64{100}, centers[1])
	assert.Equal(t, []int{0, 0}, assign)
}

func TestCostAndNearest(t *testing.T) {
	idx, d := Nearest([][]float64{{0, 0}, {3, 4}}, []float64{3, 3})
	assert.Equal(t, 1, idx)
	assert.InDelta(t, 1.0, d, 1e-9)
	assert.InDelta(t, 0.0, Cost([][]float64{{1}}, [][]float64{{1}}), 1e-9)
}

func TestWriteClusters(t *testing.T) {
	var buf bytes.Buffer
	err := WriteClusters(&buf, 3, []int{1, 0, 1}, []string{"a.txt", "b.txt", "c.txt"})
	require.NoError(t, err)
	assert.Equal(t, "0:\nb.txt\n\n1:\na.txt\nc.txt\n\n2:\n\n", buf.String())

	assert.Error(t, WriteClusters(&buf, 1, []int{0}, nil))
}
