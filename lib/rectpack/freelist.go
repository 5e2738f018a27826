package rectpack

import "sort"

// A freeList tracks the unused regions of a bin during one packing pass.
// Regions in the list never overlap each other or any placed item.
type freeList struct {
	bounds Point
	free   []rect
}

func (l *freeList) reset(bounds Point) {
	l.bounds = bounds
	l.free = append(l.free[:0], rect{max: bounds})
}

// fits returns true if an item of the given size, plus its border on every
// side, fits inside the region.
func fits(size Point, r rect) bool {
	s := r.size()
	return size.X <= s.X-2*Border && size.Y <= s.Y-2*Border
}

// place puts an item of the given size into the first free region that fits
// and returns the top-left of its bordered region.
func (l *freeList) place(size Point) (pos Point, ok bool) {
	idx := -1
	for i, f := range l.free {
		if fits(size, f) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Point{}, false
	}
	f := l.free[idx]
	l.free = append(l.free[:idx], l.free[idx+1:]...)
	used := Point{X: size.X + 2*Border, Y: size.Y + 2*Border}

	//  +--------+-------------+
	//  |  item  |    right    |
	//  +--------+-------------+
	//  |        below         |
	//  +----------------------+
	right := rect{
		min: Point{X: f.min.X + used.X, Y: f.min.Y},
		max: Point{X: f.max.X, Y: f.min.Y + used.Y},
	}
	below := rect{
		min: Point{X: f.min.X, Y: f.min.Y + used.Y},
		max: f.max,
	}
	for _, r := range [2]rect{right, below} {
		if s := r.size(); s.X > 0 && s.Y > 0 {
			l.free = append(l.free, r)
		}
	}
	return f.min, true
}

// grow doubles the shorter side of the bin (the width, on a tie) and adds
// the newly exposed strip as a free region. The list is then ordered from
// smallest to largest area so that later items go into the tightest gaps.
func (l *freeList) grow() {
	b := l.bounds
	var r rect
	if b.X <= b.Y {
		r = rect{min: Point{X: b.X}, max: Point{X: b.X * 2, Y: b.Y}}
		l.bounds.X *= 2
	} else {
		r = rect{min: Point{Y: b.Y}, max: Point{X: b.X, Y: b.Y * 2}}
		l.bounds.Y *= 2
	}
	l.free = append(l.free, r)
	sort.SliceStable(l.free, func(i, j int) bool {
		return l.free[i].size().Area() < l.free[j].size().Area()
	})
}
