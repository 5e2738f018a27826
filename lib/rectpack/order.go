package rectpack

import "sort"

// areaSlice sorts items largest area first, then by ascending ID.
type areaSlice []Item

func (s areaSlice) Len() int { return len(s) }

func (s areaSlice) Less(i, j int) bool {
	ai := s[i].Size.Area()
	aj := s[j].Size.Area()
	switch {
	case ai > aj:
		return true
	case ai < aj:
		return false
	default:
		return s[i].ID < s[j].ID
	}
}

func (s areaSlice) Swap(i, j int) {
	s[i], s[j] = s[j], s[i]
}

// SortByArea sorts items in the order Pack expects: descending area, with
// ties broken by ascending ID so the result is deterministic.
func SortByArea(items []Item) {
	sort.Sort(areaSlice(items))
}
