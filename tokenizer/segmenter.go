package tokenizer

import (
	"fmt"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
)

// Split patterns in regexp2 syntax. regexp2 has no possessive quantifiers, so
// the upstream `?+` and `++` forms are written as atomic groups. Letter classes
// include \p{M} so combining marks stay attached to their word.
const (
	GPT2SplitPattern = `'(?:[sdmt]|ll|ve|re)| ?[\p{L}\p{M}]+| ?\p{N}+| ?[^\s\p{L}\p{M}\p{N}]+|\s+(?!\S)|\s+`
	GPT4SplitPattern = `'(?i:[sdmt]|ll|ve|re)|(?>[^\r\n\p{L}\p{N}]?)[\p{L}\p{M}]+|\p{N}{1,3}| ?(?>[^\s\p{L}\p{M}\p{N}]+)[\r\n]*|\s*[\r\n]|\s+(?!\S)|\s+`
)

// DefaultSplitPattern is used when a pattern-segmented tokenizer is built
// without an explicit pattern.
const DefaultSplitPattern = GPT4SplitPattern

// Segmenter cuts text into chunks. Chunks are contiguous and their
// concatenation is always the input.
type Segmenter interface {
	Split(text string) ([]string, error)
	// Pattern is the persisted form of the segmenter; empty for whole-input.
	Pattern() string
}

type wholeSegmenter struct{}

// NewWholeSegmenter returns the byte-level segmenter: the entire input is a
// single chunk.
func NewWholeSegmenter() Segmenter { return wholeSegmenter{} }

func (wholeSegmenter) Split(text string) ([]string, error) {
	if text == "" {
		return nil, nil
	}
	return []string{text}, nil
}

func (wholeSegmenter) Pattern() string { return "" }

type regexSegmenter struct {
	pattern string
	re      *regexp2.Regexp
}

// NewRegexSegmenter compiles pattern case-insensitively. The same options are
// used for training and encoding.
func NewRegexSegmenter(pattern string) (Segmenter, error) {
	if pattern == "" {
		return nil, fmt.Errorf("empty split pattern")
	}
	re, err := regexp2.Compile(pattern, regexp2.IgnoreCase)
	if err != nil {
		return nil, fmt.Errorf("compile split pattern: %w", err)
	}
	return &regexSegmenter{pattern: pattern, re: re}, nil
}

func (s *regexSegmenter) Pattern() string { return s.pattern }

// Split returns the pattern matches in order. Text the pattern skips over is
// kept as its own chunk so no byte is ever dropped.
func (s *regexSegmenter) Split(text string) ([]string, error) {
	if text == "" {
		return nil, nil
	}
	// regexp2 reports rune positions; map them back to byte offsets so chunks
	// are cut from the original bytes.
	offsets := runeOffsets(text)
	var out []string
	last := 0
	m, err := s.re.FindStringMatch(text)
	for ; m != nil && err == nil; m, err = s.re.FindNextMatch(m) {
		if m.Length == 0 {
			continue
		}
		start, end := offsets[m.Index], offsets[m.Index+m.Length]
		if start > last {
			out = append(out, text[last:start])
		}
		out = append(out, text[start:end])
		last = end
	}
	if err != nil {
		return nil, fmt.Errorf("split: %w", err)
	}
	if last < len(text) {
		out = append(out, text[last:])
	}
	return out, nil
}

// runeOffsets returns the byte offset of every rune in s plus len(s). Invalid
// bytes count as one rune each, matching the []rune conversion regexp2 uses.
func runeOffsets(s string) []int {
	offsets := make([]int, 0, len(s)+1)
	for i := 0; i < len(s); {
		offsets = append(offsets, i)
		if s[i] < utf8.RuneSelf {
			i++
			continue
		}
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}
	return append(offsets, len(s))
}
