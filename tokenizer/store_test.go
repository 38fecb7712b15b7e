package tokenizer

import "testing"

func TestTokenStoreAppendIntoSmallVocab(t *testing.T) {
	m := NewMergeTable()
	m.Add(Pair{'h', 'i'})
	m.Add(Pair{'b', 'y'})
	m.Add(Pair{257, 'e'})

	store, err := newTokenStore(BuildVocab(m))
	if err != nil {
		t.Fatalf("newTokenStore: %v", err)
	}
	t.Cleanup(store.Close)

	if got := store.Len(); got != 259 {
		t.Fatalf("store len %d want 259", got)
	}
	var dst []byte
	if ok := store.AppendInto(&dst, 256); !ok {
		t.Fatalf("expected id 256 to be present")
	}
	if got := string(dst); got != "hi" {
		t.Fatalf("unexpected bytes after first append: %q", got)
	}
	if ok := store.AppendInto(&dst, 258); !ok {
		t.Fatalf("expected id 258 to be present")
	}
	if got := string(dst); got != "hibye" {
		t.Fatalf("unexpected bytes after second append: %q", got)
	}
	if ok := store.AppendInto(&dst, 'x'); !ok {
		t.Fatalf("expected raw byte id to be present")
	}
	if got := string(dst); got != "hibyex" {
		t.Fatalf("unexpected bytes after raw append: %q", got)
	}
	if ok := store.AppendInto(&dst, 259); ok {
		t.Fatalf("unexpected success for missing id")
	}
}
