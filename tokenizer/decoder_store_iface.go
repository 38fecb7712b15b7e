package tokenizer

// tokenStore holds the byte expansion of every vocabulary id.
// Implementations must not let references to internal storage escape.
type tokenStore interface {
	// AppendInto appends the bytes for token id into dst and returns true
	// if the id existed. Returns false when id is unknown.
	AppendInto(dst *[]byte, id Rank) bool
	// Len is one past the largest id held.
	Len() int
	// Close releases any resources held by the store.
	Close()
}
