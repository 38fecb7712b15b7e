package tokenizer

// Rank is a symbol id. Ids 0..255 are raw bytes; merge-produced ids start at
// FirstMergeID and double as merge priority (lower merges first).
type Rank = uint32

// FirstMergeID is the id assigned to the first learned merge.
const FirstMergeID Rank = 256

// Pair is an ordered pair of adjacent symbol ids.
type Pair struct {
	A Rank
	B Rank
}

type pairCount struct {
	pair  Pair
	count int
}

// PairCounts accumulates adjacent pair frequencies. Entries remember the
// order in which they were first seen so that Max can break ties
// deterministically, independent of map iteration order.
type PairCounts struct {
	index   map[Pair]int // pair -> position in entries (its first-seen sequence number)
	entries []pairCount
}

// NewPairCounts returns an empty accumulator.
func NewPairCounts() *PairCounts {
	return &PairCounts{index: make(map[Pair]int)}
}

// CountPairs counts the adjacent pairs of a single sequence.
func CountPairs(ids []Rank) *PairCounts {
	c := NewPairCounts()
	c.Add(ids)
	return c
}

// Add counts the adjacent pairs of ids into c. Pairs are never formed across
// separate calls, so each call corresponds to one chunk.
func (c *PairCounts) Add(ids []Rank) {
	for i := 0; i+1 < len(ids); i++ {
		p := Pair{ids[i], ids[i+1]}
		if at, ok := c.index[p]; ok {
			c.entries[at].count++
			continue
		}
		c.index[p] = len(c.entries)
		c.entries = append(c.entries, pairCount{pair: p, count: 1})
	}
}

// Len reports the number of distinct pairs.
func (c *PairCounts) Len() int { return len(c.entries) }

// Count returns the frequency of p.
func (c *PairCounts) Count(p Pair) int {
	if at, ok := c.index[p]; ok {
		return c.entries[at].count
	}
	return 0
}

// Max returns the most frequent pair. Among equal counts the pair seen first
// wins. ok is false when no pairs were counted.
func (c *PairCounts) Max() (p Pair, count int, ok bool) {
	for _, e := range c.entries {
		if e.count > count {
			p, count, ok = e.pair, e.count, true
		}
	}
	return p, count, ok
}

// Each visits pairs in first-seen order.
func (c *PairCounts) Each(fn func(p Pair, count int)) {
	for _, e := range c.entries {
		fn(e.pair, e.count)
	}
}

// MergePair replaces every non-overlapping occurrence of p in ids with id,
// scanning left to right. After a match at i scanning resumes at i+2, so
// (a,a) over [a a a] yields [id a]. ids is not modified.
func MergePair(ids []Rank, p Pair, id Rank) []Rank {
	out := make([]Rank, 0, len(ids))
	for i := 0; i < len(ids); {
		if i+1 < len(ids) && ids[i] == p.A && ids[i+1] == p.B {
			out = append(out, id)
			i += 2
			continue
		}
		out = append(out, ids[i])
		i++
	}
	return out
}

// bytesToIDs seeds a token sequence with one id per byte.
func bytesToIDs(b []byte) []Rank {
	ids := make([]Rank, len(b))
	for i, v := range b {
		ids[i] = Rank(v)
	}
	return ids
}
