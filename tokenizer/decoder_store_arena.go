//go:build goexperiment.arenas

package tokenizer

import "arena"

// Arena-backed token store. All expansions live in one arena blob addressed
// by an offset table. AppendInto copies out of the arena so arena-backed
// slices never leak to the heap.
type arenaStore struct {
	a    *arena.Arena
	blob []byte
	off  []uint32
}

func newTokenStore(vocab [][]byte) (tokenStore, error) {
	a := arena.NewArena()
	total := 0
	for _, b := range vocab {
		total += len(b)
	}
	blob := arena.MakeSlice[byte](a, total, total)
	off := arena.MakeSlice[uint32](a, len(vocab)+1, len(vocab)+1)
	pos := 0
	for id, b := range vocab {
		off[id] = uint32(pos)
		pos += copy(blob[pos:], b)
	}
	off[len(vocab)] = uint32(pos)
	return &arenaStore{a: a, blob: blob, off: off}, nil
}

func (s *arenaStore) AppendInto(dst *[]byte, id Rank) bool {
	if int(id) >= len(s.off)-1 {
		return false
	}
	a := s.off[id]
	b := s.off[id+1]
	if a == b {
		return false
	}
	*dst = append(*dst, s.blob[a:b]...)
	return true
}

func (s *arenaStore) Len() int { return len(s.off) - 1 }

func (s *arenaStore) Close() { s.a.Free() }
