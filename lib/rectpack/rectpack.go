// Package rectpack packs rectangles into a single growing bin.
package rectpack

import (
	"errors"
	"fmt"
)

// Border is the number of pixels reserved on every side of a packed rectangle.
const Border = 1

// A Point is a 2D point.
type Point struct {
	X int32
	Y int32
}

// Area returns X*Y.
func (p Point) Area() int64 {
	return int64(p.X) * int64(p.Y)
}

// A rect is a rectangle.
type rect struct {
	min Point
	max Point
}

func (r rect) size() Point {
	return Point{X: r.max.X - r.min.X, Y: r.max.Y - r.min.Y}
}

// An Item is an input rectangle. The ID is opaque to the packer and is only
// used to order items with equal area.
type Item struct {
	ID   int32
	Size Point
}

// Options controls the initial bin size.
type Options struct {
	// Initial is the starting bin size. Ignored if FitLargest is set.
	Initial Point

	// FitLargest sizes the starting bin from the first (largest) item.
	FitLargest bool
}

// A Result is the outcome of a packing.
type Result struct {
	// Bounds is the final size of the bin.
	Bounds Point

	// Pos is the top-left corner of the bordered region of each item, in
	// the same order as the input. The item itself starts at Pos+Border.
	Pos []Point

	// Grown counts how many times the bin was doubled.
	Grown int
}

var errEmpty = errors.New("no rectangles to pack")

// Pack packs the items into a single bin. Items must already be sorted, see
// SortByArea; the packer places them in the order given. Every item is given
// a bordered region of Size+2*Border, and bordered regions never overlap.
func Pack(items []Item, opts Options) (Result, error) {
	if len(items) == 0 {
		return Result{}, errEmpty
	}
	for _, it := range items {
		if it.Size.X <= 0 || it.Size.Y <= 0 {
			return Result{}, fmt.Errorf("item %d has invalid size %dx%d", it.ID, it.Size.X, it.Size.Y)
		}
	}
	bounds := opts.Initial
	if opts.FitLargest {
		first := items[0].Size
		bounds = Point{X: first.X + Border, Y: first.Y + Border}
	}
	if bounds.X <= 0 || bounds.Y <= 0 {
		return Result{}, fmt.Errorf("invalid initial bin size %dx%d", bounds.X, bounds.Y)
	}
	var fl freeList
	fl.reset(bounds)
	res := Result{Pos: make([]Point, len(items))}
	for i, it := range items {
		for {
			if pos, ok := fl.place(it.Size); ok {
				res.Pos[i] = pos
				break
			}
			fl.grow()
			res.Grown++
		}
	}
	res.Bounds = fl.bounds
	return res, nil
}
