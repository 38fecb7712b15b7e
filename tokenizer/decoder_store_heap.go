//go:build !goexperiment.arenas

package tokenizer

// Heap-backed token store. This is the default implementation and serves as
// the fallback when arenas are not enabled.

type heapStore struct {
	arr [][]byte // index = id
}

func newTokenStore(vocab [][]byte) (tokenStore, error) {
	arr := make([][]byte, len(vocab))
	for id, b := range vocab {
		arr[id] = append([]byte(nil), b...)
	}
	return &heapStore{arr: arr}, nil
}

func (s *heapStore) AppendInto(dst *[]byte, id Rank) bool {
	if int(id) >= len(s.arr) {
		return false
	}
	b := s.arr[id]
	if b == nil {
		return false
	}
	*dst = append(*dst, b...)
	return true
}

func (s *heapStore) Len() int { return len(s.arr) }

func (s *heapStore) Close() {}
