package tokenizer

import (
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru"
	uni "golang.org/x/text/encoding/unicode"
)

// DefaultCacheSize is the number of encoded chunks remembered per Core.
const DefaultCacheSize = 4096

// Core encodes and decodes with a fixed merge table, vocabulary, special
// registry and segmenter. It is read-only apart from its chunk cache and is
// rebuilt whenever any of those change.
type Core struct {
	merges   *MergeTable
	dec      tokenStore
	specials *SpecialRegistry
	seg      Segmenter
	cache    *lru.Cache // chunk -> []Rank; nil when disabled
}

// NewCore builds a Core. vocab must be the expansion of merges (see
// BuildVocab). A cacheSize of 0 disables chunk caching.
func NewCore(merges *MergeTable, vocab [][]byte, specials *SpecialRegistry, seg Segmenter, cacheSize int) (*Core, error) {
	dec, err := newTokenStore(vocab)
	if err != nil {
		return nil, err
	}
	if specials == nil {
		specials = &SpecialRegistry{}
	}
	b := &Core{merges: merges, dec: dec, specials: specials, seg: seg}
	if cacheSize > 0 {
		if b.cache, err = lru.New(cacheSize); err != nil {
			return nil, fmt.Errorf("chunk cache: %w", err)
		}
	}
	return b, nil
}

// Close releases the token store.
func (b *Core) Close() { b.dec.Close() }

// Merges returns the merge table the Core encodes with.
func (b *Core) Merges() *MergeTable { return b.merges }

// Specials returns the special token registry.
func (b *Core) Specials() *SpecialRegistry { return b.specials }

// Segmenter returns the chunk splitter.
func (b *Core) Segmenter() Segmenter { return b.seg }

// IsSpecialToken reports whether id is a registered special.
func (b *Core) IsSpecialToken(id Rank) bool { _, ok := b.specials.Text(id); return ok }

// VocabSize is the number of byte and merge ids, excluding specials.
func (b *Core) VocabSize() int { return b.dec.Len() }

// TokenBytes returns the byte expansion of a vocabulary id.
func (b *Core) TokenBytes(id Rank) ([]byte, bool) {
	var out []byte
	if !b.dec.AppendInto(&out, id) {
		return nil, false
	}
	return out, true
}

func (b *Core) DecodeBytes(tokens []Rank) ([]byte, error) {
	var out []byte
	if err := b.DecodeBytesInto(&out, tokens); err != nil {
		return nil, err
	}
	return out, nil
}

// DecodeUTF8 decodes tokens to text. Invalid UTF-8 in the byte stream is
// replaced with U+FFFD, which happens when a caller cuts or reorders ids in
// the middle of a multi-byte character.
func (b *Core) DecodeUTF8(tokens []Rank) (string, error) {
	bs, err := b.DecodeBytes(tokens)
	if err != nil {
		return "", err
	}
	return LossyUTF8(bs), nil
}

// DecodeBytesInto appends the decoded bytes for the provided tokens
// into dst. Vocabulary ids take precedence over special ids.
func (b *Core) DecodeBytesInto(dst *[]byte, tokens []Rank) error {
	buf := *dst
	for _, t := range tokens {
		if b.dec.AppendInto(&buf, t) {
			continue
		}
		if v, ok := b.specials.Text(t); ok {
			buf = append(buf, v...)
			continue
		}
		return fmt.Errorf("%w: %d", ErrUnknownToken, t)
	}
	*dst = buf
	return nil
}

// EncodeOrdinary encodes text ignoring special tokens entirely.
func (b *Core) EncodeOrdinary(text string) ([]Rank, error) {
	var out []Rank
	if err := b.encodeOrdinaryInto(text, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Encode splits text on occurrences of the allowed special strings, emits
// their ids directly and encodes everything in between as ordinary text.
// Specials not in allowedSpecial are treated as ordinary text.
func (b *Core) Encode(text string, allowedSpecial map[string]struct{}) ([]Rank, error) {
	if len(allowedSpecial) == 0 {
		return b.EncodeOrdinary(text)
	}
	var out []Rank
	start := 0
	for i := 0; i < len(text); {
		tok, n := b.specials.matchSpecialAt(text, i, allowedSpecial)
		if n == 0 {
			i++
			continue
		}
		if err := b.encodeOrdinaryInto(text[start:i], &out); err != nil {
			return nil, err
		}
		out = append(out, tok)
		i += n
		start = i
	}
	if err := b.encodeOrdinaryInto(text[start:], &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (b *Core) encodeOrdinaryInto(text string, out *[]Rank) error {
	if text == "" {
		return nil
	}
	chunks, err := b.seg.Split(text)
	if err != nil {
		return err
	}
	for _, c := range chunks {
		*out = append(*out, b.encodeCached(c)...)
	}
	return nil
}

func (b *Core) encodeCached(chunk string) []Rank {
	if b.cache != nil {
		if v, ok := b.cache.Get(chunk); ok {
			return v.([]Rank)
		}
	}
	ids := b.EncodeChunk([]byte(chunk))
	if b.cache != nil {
		b.cache.Add(chunk, ids)
	}
	return ids
}

// EncodeChunk applies merges to one chunk. Each round merges the pair with
// the lowest id among the pairs present, which replays training order
// exactly; pairs without a merge never qualify.
func (b *Core) EncodeChunk(chunk []byte) []Rank {
	ids := bytesToIDs(chunk)
	for len(ids) >= 2 {
		best, bestID, found := Pair{}, Rank(0), false
		for i := 0; i+1 < len(ids); i++ {
			p := Pair{ids[i], ids[i+1]}
			if id, ok := b.merges.Lookup(p); ok && (!found || id < bestID) {
				best, bestID, found = p, id, true
			}
		}
		if !found {
			break
		}
		ids = MergePair(ids, best, bestID)
	}
	return ids
}

// LossyUTF8 converts bs to a string, replacing invalid sequences with U+FFFD.
func LossyUTF8(bs []byte) string {
	out, err := uni.UTF8.NewDecoder().Bytes(bs)
	if err != nil {
		return strings.ToValidUTF8(string(bs), "\uFFFD")
	}
	return string(out)
}
