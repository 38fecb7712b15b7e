package tokenizer

import (
	"bytes"
	"strings"
	"testing"
)

func TestRenderToken(t *testing.T) {
	tests := []struct {
		in   []byte
		want string
	}{
		{[]byte("abc"), "abc"},
		{[]byte("a\nb"), `a\u000ab`},
		{[]byte{0x00}, `\u0000`},
		{[]byte("\u200b"), `\u200b`},
		{[]byte{0xff}, "\ufffd"},
		{[]byte("héllo"), "héllo"},
	}
	for _, tc := range tests {
		if got := RenderToken(tc.in); got != tc.want {
			t.Fatalf("RenderToken(%q) = %q want %q", tc.in, got, tc.want)
		}
	}
}

func TestWriteVocab(t *testing.T) {
	core := trainCore(t, "aaabdaaabac", 259, NewWholeSegmenter(), map[string]Rank{"<|eot|>": 300}, 0)
	var buf bytes.Buffer
	if err := WriteVocab(&buf, core); err != nil {
		t.Fatalf("write vocab: %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 260 {
		t.Fatalf("line count %d want 260", len(lines))
	}
	checks := map[int]string{
		10:  `[\u000a] 10`,
		97:  "[a] 97",
		256: "[a][a]->[aa] 256",
		257: "[aa][a]->[aaa] 257",
		258: "[aaa][b]->[aaab] 258",
		259: "[<|eot|>] 300",
	}
	for i, want := range checks {
		if lines[i] != want {
			t.Fatalf("line %d = %q want %q", i, lines[i], want)
		}
	}
}
