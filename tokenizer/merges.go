package tokenizer

import (
	"fmt"
	"sort"
)

// MergeTable maps a pair to the id it merges into. Ids are contiguous from
// FirstMergeID, so order[i] is the pair that produced FirstMergeID+i.
type MergeTable struct {
	ranks map[Pair]Rank
	order []Pair
}

// NewMergeTable returns an empty table.
func NewMergeTable() *MergeTable {
	return &MergeTable{ranks: make(map[Pair]Rank)}
}

// Add records p under the next free id and returns it.
func (m *MergeTable) Add(p Pair) Rank {
	id := FirstMergeID + Rank(len(m.order))
	m.ranks[p] = id
	m.order = append(m.order, p)
	return id
}

// Lookup returns the id p merges into.
func (m *MergeTable) Lookup(p Pair) (Rank, bool) {
	id, ok := m.ranks[p]
	return id, ok
}

// Len reports the number of merges.
func (m *MergeTable) Len() int { return len(m.order) }

// Pair returns the pair that produced id.
func (m *MergeTable) Pair(id Rank) (Pair, bool) {
	if id < FirstMergeID || int(id-FirstMergeID) >= len(m.order) {
		return Pair{}, false
	}
	return m.order[id-FirstMergeID], true
}

// Each visits merges in id order.
func (m *MergeTable) Each(fn func(p Pair, id Rank)) {
	for i, p := range m.order {
		fn(p, FirstMergeID+Rank(i))
	}
}

// MergeEntry is one merge with an explicit id, as read from a model file.
type MergeEntry struct {
	Pair Pair
	ID   Rank
}

// MergeTableFromEntries rebuilds a table from entries given in any order. The
// ids must be exactly FirstMergeID..FirstMergeID+len-1, each pair must be
// unique and both operands must exist before the merge that uses them.
func MergeTableFromEntries(entries []MergeEntry) (*MergeTable, error) {
	sorted := make([]MergeEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	m := NewMergeTable()
	for i, e := range sorted {
		want := FirstMergeID + Rank(i)
		if e.ID != want {
			return nil, fmt.Errorf("%w: merge ids not contiguous, got %d want %d", ErrMalformedModel, e.ID, want)
		}
		if e.Pair.A >= want || e.Pair.B >= want {
			return nil, fmt.Errorf("%w: merge %d references unknown id in (%d, %d)", ErrMalformedModel, e.ID, e.Pair.A, e.Pair.B)
		}
		if _, dup := m.ranks[e.Pair]; dup {
			return nil, fmt.Errorf("%w: duplicate merge (%d, %d)", ErrMalformedModel, e.Pair.A, e.Pair.B)
		}
		m.Add(e.Pair)
	}
	return m, nil
}

// BuildVocab expands every id of m into its byte sequence. Index i holds the
// bytes of id i.
func BuildVocab(m *MergeTable) [][]byte {
	vocab := make([][]byte, int(FirstMergeID)+m.Len())
	for i := 0; i < int(FirstMergeID); i++ {
		vocab[i] = []byte{byte(i)}
	}
	m.Each(func(p Pair, id Rank) {
		vocab[id] = concatBytes(vocab[p.A], vocab[p.B])
	})
	return vocab
}

func concatBytes(a, b []byte) []byte {
	out := make([]byte, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}
