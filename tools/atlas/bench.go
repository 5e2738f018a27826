package main

import (
	"fmt"
	"math/rand"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/depp/atlaskit/lib/rectpack"
)

const sizeLimit = 1024

var benchFlags struct {
	minSize    int32
	maxSize    int32
	count      int
	iterations int
	initial    int32
}

// benchmark packs random rectangles and returns the mean overhead, the
// fraction of the bin not covered by rectangles.
func benchmark(rnd *rand.Rand, minSize, maxSize int32, count, iterations int, opts rectpack.Options) (float64, error) {
	items := make([]rectpack.Item, count)
	var sum float64
	for iter := 0; iter < iterations; iter++ {
		var area int64
		n := maxSize - minSize + 1
		for i := range items {
			sz := rectpack.Point{
				X: minSize + rnd.Int31n(n),
				Y: minSize + rnd.Int31n(n),
			}
			items[i] = rectpack.Item{ID: int32(i), Size: sz}
			area += sz.Area()
		}
		rectpack.SortByArea(items)
		res, err := rectpack.Pack(items, opts)
		if err != nil {
			return 0, err
		}
		sum += float64(res.Bounds.Area()-area) / float64(area)
	}
	return sum / float64(iterations), nil
}

var cmdBench = cobra.Command{
	Use:   "bench",
	Short: "Measure packing overhead on random rectangles.",
	Args:  cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		f := &benchFlags
		if f.minSize < 1 || sizeLimit < f.minSize {
			return fmt.Errorf("minsize %d is not between 1 and %d", f.minSize, sizeLimit)
		}
		if f.maxSize < f.minSize || sizeLimit < f.maxSize {
			return fmt.Errorf("maxsize %d is not between %d and %d", f.maxSize, f.minSize, sizeLimit)
		}
		if f.count < 1 || f.iterations < 1 {
			return fmt.Errorf("count and iterations must be positive")
		}
		rnd := rand.New(rand.NewSource(0x1234))
		for _, c := range []struct {
			name string
			opts rectpack.Options
		}{
			{"fixed", rectpack.Options{Initial: rectpack.Point{X: f.initial, Y: f.initial}}},
			{"fit-largest", rectpack.Options{FitLargest: true}},
		} {
			overhead, err := benchmark(rnd, f.minSize, f.maxSize, f.count, f.iterations, c.opts)
			if err != nil {
				return err
			}
			logrus.WithField("initial", c.name).Infof("overhead: %.1f%%", overhead*100)
		}
		return nil
	},
}

func init() {
	fl := cmdBench.Flags()
	fl.Int32Var(&benchFlags.minSize, "minsize", 1, "minimum size of generated rectangles")
	fl.Int32Var(&benchFlags.maxSize, "maxsize", 32, "maximum size of generated rectangles")
	fl.IntVar(&benchFlags.count, "count", 100, "number of generated rectangles")
	fl.IntVar(&benchFlags.iterations, "iterations", 100, "number of iterations")
	fl.Int32Var(&benchFlags.initial, "initial", 64, "initial bin size for the fixed policy")
}
