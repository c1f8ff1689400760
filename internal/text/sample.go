package text

import "sort"

// Mark selects the item at index n*Num/Den once the input holds at least
// MinCount items.
type Mark struct {
	Num, Den int
	MinCount int
}

// Sampler picks representative items by position: a run from the start,
// single items at fractional positions, and a run from the end. An index is
// never picked twice and the result keeps document order.
type Sampler struct {
	Head  int
	Marks []Mark
	Tail  int
}

var (
	// GistSampler takes the first, middle and last sentences.
	GistSampler = Sampler{Head: 1, Marks: []Mark{{Num: 1, Den: 2, MinCount: 3}}, Tail: 1}

	// KeyPointSampler takes the first sentence, the ones a third and two
	// thirds through, and the last.
	KeyPointSampler = Sampler{
		Head:  1,
		Marks: []Mark{{Num: 1, Den: 3, MinCount: 3}, {Num: 2, Den: 3, MinCount: 5}},
		Tail:  1,
	}
)

// Indices returns the positions chosen from a sequence of n items.
func (s Sampler) Indices(n int) []int {
	if n <= 0 {
		return nil
	}
	seen := make(map[int]bool)
	var idx []int
	add := func(i int) {
		if i < 0 || i >= n || seen[i] {
			return
		}
		seen[i] = true
		idx = append(idx, i)
	}
	for i := 0; i < s.Head; i++ {
		add(i)
	}
	for _, m := range s.Marks {
		if m.Den <= 0 || n < m.MinCount {
			continue
		}
		add(n * m.Num / m.Den)
	}
	for i := n - s.Tail; i < n; i++ {
		add(i)
	}
	sort.Ints(idx)
	return idx
}

// Pick applies the sampler to items.
func (s Sampler) Pick(items []string) []string {
	idx := s.Indices(len(items))
	if len(idx) == 0 {
		return nil
	}
	out := make([]string, 0, len(idx))
	for _, i := range idx {
		out = append(out, items[i])
	}
	return out
}
