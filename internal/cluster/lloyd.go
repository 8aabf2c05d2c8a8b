package cluster

import (
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"strconv"

	kerrors "kgram/internal/errors"
)

// Seeding selects how initial centers are chosen.
type Seeding string

const (
	PlusPlus Seeding = "plusplus"
	Gonzalez Seeding = "gonzalez"
)

// Options configures a clustering run.
type Options struct {
	Clusters int
	Restarts int
	Seeding  Seeding
	// MaxIter bounds Lloyd iterations per restart; 0 means 300.
	MaxIter int
	Rand    *rand.Rand
}

// Result is the best clustering found over all restarts.
type Result struct {
	Centers [][]float64
	Assign  []int
	// Cost is the root mean squared distance of points to their centers.
	Cost float64
}

// Run clusters points with Lloyd's algorithm, restarting from fresh seeds
// and keeping the lowest-cost solution.
func Run(points [][]float64, opts Options) (*Result, error) {
	if len(points) == 0 {
		return nil, errors.New("cluster: no points")
	}
	if opts.Clusters < 1 || opts.Clusters > len(points) {
		return nil, kerrors.NewConfigurationError("clusters", strconv.Itoa(opts.Clusters),
			fmt.Sprintf("must be between 1 and %d", len(points)))
	}
	if opts.Restarts < 1 {
		opts.Restarts = 1
	}
	if opts.MaxIter <= 0 {
		opts.MaxIter = 300
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	var best *Result
	for r := 0; r < opts.Restarts; r++ {
		var seeds [][]float64
		switch opts.Seeding {
		case Gonzalez:
			seeds = SeedGonzalez(points, opts.Clusters, rng)
		case PlusPlus, "":
			seeds = SeedPlusPlus(points, opts.Clusters, rng)
		default:
			return nil, kerrors.NewConfigurationError("init", string(opts.Seeding), "must be plusplus or gonzalez")
		}
		centers, assign := Lloyd(points, seeds, opts.MaxIter)
		cost := Cost(points, centers)
		if best == nil || cost < best.Cost {
			best = &Result{Centers: centers, Assign: assign, Cost: cost}
		}
	}
	return best, nil
}

// Nearest returns the index of the center closest to x and the squared distance.
func Nearest(centers [][]float64, x []float64) (int, float64) {
	bestIdx, bestDist := -1, math.Inf(1)
	for i, c := range centers {
		if d := sqDist(c, x); d < bestDist {
			bestIdx, bestDist = i, d
		}
	}
	return bestIdx, bestDist
}

// SeedGonzalez picks a random first center, then repeatedly the point
// farthest from all chosen centers.
func SeedGonzalez(points [][]float64, k int, rng *rand.Rand) [][]float64 {
	centers := [][]float64{points[rng.IntN(len(points))]}
	for len(centers) < k {
		far, farDist := 0, -1.0
		for j, x := range points {
			if _, d := Nearest(centers, x); d > farDist {
				far, farDist = j, d
			}
		}
		centers = append(centers, points[far])
	}
	return clone(centers)
}

// SeedPlusPlus is k-means++ seeding: each further center is drawn with
// probability proportional to its squared distance from the chosen ones.
func SeedPlusPlus(points [][]float64, k int, rng *rand.Rand) [][]float64 {
	centers := [][]float64{points[rng.IntN(len(points))]}
	weights := make([]float64, len(points))
	for len(centers) < k {
		total := 0.0
		for j, x := range points {
			_, d := Nearest(centers, x)
			weights[j] = d
			total += d
		}
		next := rng.IntN(len(points))
		if total > 0 {
			target := rng.Float64() * total
			for j, w := range weights {
				target -= w
				if target < 0 {
					next = j
					break
				}
			}
		}
		centers = append(centers, points[next])
	}
	return clone(centers)
}

// Lloyd alternates assignment and mean update until no center moves or
// maxIter rounds pass. A center that loses all its points stays put.
func Lloyd(points, seeds [][]float64, maxIter int) ([][]float64, []int) {
	centers := clone(seeds)
	assign := make([]int, len(points))
	dim := len(points[0])
	for iter := 0; iter < maxIter; iter++ {
		sums := make([][]float64, len(centers))
		counts := make([]int, len(centers))
		for i := range sums {
			sums[i] = make([]float64, dim)
		}
		for i, x := range points {
			c, _ := Nearest(centers, x)
			assign[i] = c
			counts[c]++
			for j, v := range x {
				sums[c][j] += v
			}
		}
		unchanged := true
		for c := range centers {
			if counts[c] == 0 {
				continue
			}
			for j := range sums[c] {
				sums[c][j] /= float64(counts[c])
				if sums[c][j] != centers[c][j] {
					unchanged = false
				}
			}
			centers[c] = sums[c]
		}
		if unchanged {
			break
		}
	}
	for i, x := range points {
		assign[i], _ = Nearest(centers, x)
	}
	return centers, assign
}

// Cost returns sqrt(mean squared distance to the nearest center).
func Cost(points, centers [][]float64) float64 {
	sum := 0.0
	for _, x := range points {
		_, d := Nearest(centers, x)
		sum += d
	}
	return math.Sqrt(sum / float64(len(points)))
}

// WriteClusters writes each cluster as "<i>:" followed by its member names
// and a blank line.
func WriteClusters(w io.Writer, clusters int, assign []int, names []string) error {
	if len(assign) != len(names) {
		return fmt.Errorf("cluster: %d assignments for %d names", len(assign), len(names))
	}
	members := make([][]string, clusters)
	for i, c := range assign {
		members[c] = append(members[c], names[i])
	}
	for c, ms := range members {
		if _, err := fmt.Fprintf(w, "%d:\n", c); err != nil {
			return err
		}
		for _, n := range ms {
			if _, err := fmt.Fprintln(w, n); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}

func sqDist(a, b []float64) float64 {
	s := 0.0
	for i := range a {
		d := a[i] - b[i]
		s += d * d
	}
	return s
}

func clone(rows [][]float64) [][]float64 {
	out := make([][]float64, len(rows))
	for i, r := range rows {
		out[i] = append([]float64(nil), r...)
	}
	return out
}
