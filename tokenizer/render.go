package tokenizer

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode"
)

// RenderToken makes a token's bytes printable: invalid UTF-8 becomes U+FFFD
// and every rune in Unicode category C is written as \uXXXX. The result is
// for display only and cannot be turned back into the original bytes.
func RenderToken(b []byte) string {
	s := LossyUTF8(b)
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		if isOther(r) {
			fmt.Fprintf(&sb, `\u%04x`, r)
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// isOther reports whether r is in category C, including unassigned code
// points (Cn).
func isOther(r rune) bool {
	if unicode.In(r, unicode.Cc, unicode.Cf, unicode.Co, unicode.Cs) {
		return true
	}
	return !unicode.In(r, unicode.L, unicode.M, unicode.N, unicode.P, unicode.S, unicode.Z)
}

// WriteVocab writes the human-readable vocabulary listing of b, one id per
// line: "[tok] id" for raw bytes and specials, "[left][right]->[tok] id" for
// merges. It must never be used as a load source.
func WriteVocab(w io.Writer, b *Core) error {
	bw := bufio.NewWriter(w)
	for id := Rank(0); int(id) < b.VocabSize(); id++ {
		tok, ok := b.TokenBytes(id)
		if !ok {
			continue
		}
		if p, merged := b.merges.Pair(id); merged {
			left, _ := b.TokenBytes(p.A)
			right, _ := b.TokenBytes(p.B)
			fmt.Fprintf(bw, "[%s][%s]->[%s] %d\n", RenderToken(left), RenderToken(right), RenderToken(tok), id)
			continue
		}
		fmt.Fprintf(bw, "[%s] %d\n", RenderToken(tok), id)
	}
	for _, s := range b.specials.Entries() {
		fmt.Fprintf(bw, "[%s] %d\n", RenderToken([]byte(s.Text)), s.ID)
	}
	return bw.Flush()
}
