package tokenizer

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestWriteModelFormat(t *testing.T) {
	res, err := Train(chunksOf("aaabdaaabac"), 259, nil)
	if err != nil {
		t.Fatalf("train: %v", err)
	}
	var buf bytes.Buffer
	m := Model{
		Pattern:  "",
		Specials: mustRegistry(t, map[string]Rank{"<|eot|>": 300, "<|bot|>": 299}).Entries(),
		Merges:   res.Merges,
	}
	if err := WriteModel(&buf, m); err != nil {
		t.Fatalf("write: %v", err)
	}
	want := "tinyBPE/v1.0\n\n2\n<|bot|> 299\n<|eot|> 300\n97 97 256\n256 97 257\n257 98 258\n"
	if buf.String() != want {
		t.Fatalf("model file:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestReadModelRoundTrip(t *testing.T) {
	seg, err := NewRegexSegmenter(GPT4SplitPattern)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	chunks, _ := seg.Split(strings.Repeat("round trip the model file, twice over. ", 5))
	res, err := Train(chunksOf(chunks...), 290, nil)
	if err != nil {
		t.Fatalf("train: %v", err)
	}
	in := Model{
		Pattern:  GPT4SplitPattern,
		Specials: []Special{{Text: "<|end of text|>", ID: 1000}},
		Merges:   res.Merges,
	}
	var buf bytes.Buffer
	if err := WriteModel(&buf, in); err != nil {
		t.Fatalf("write: %v", err)
	}
	out, err := ReadModel(&buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if out.Pattern != in.Pattern {
		t.Fatalf("pattern %q want %q", out.Pattern, in.Pattern)
	}
	if !reflect.DeepEqual(out.Specials, in.Specials) {
		t.Fatalf("specials %v want %v", out.Specials, in.Specials)
	}
	if !reflect.DeepEqual(mergeList(out.Merges), mergeList(in.Merges)) {
		t.Fatalf("merges differ")
	}
}

func TestReadModelMergesInAnyOrder(t *testing.T) {
	src := "tinyBPE/v1.0\n\n0\n257 98 258\n97 97 256\n256 97 257\n"
	m, err := ReadModel(strings.NewReader(src))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got := mergeList(m.Merges); !reflect.DeepEqual(got, []Pair{{97, 97}, {256, 97}, {257, 98}}) {
		t.Fatalf("merges %v", got)
	}
}

func TestReadModelErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"empty", "", ErrVersion},
		{"wrong version", "tinyBPE/v2.0\n\n0\n", ErrVersion},
		{"missing pattern", "tinyBPE/v1.0\n", ErrMalformedModel},
		{"bad count", "tinyBPE/v1.0\n\nx\n", ErrMalformedModel},
		{"short specials", "tinyBPE/v1.0\n\n2\n<|a|> 300\n", ErrMalformedModel},
		{"bad special id", "tinyBPE/v1.0\n\n1\n<|a|> abc\n", ErrMalformedModel},
		{"shared special id", "tinyBPE/v1.0\n\n2\n<|a|> 300\n<|b|> 300\n", ErrMalformedModel},
		{"repeated special", "tinyBPE/v1.0\n\n2\n<|a|> 300\n<|a|> 301\n", ErrMalformedModel},
		{"bad merge", "tinyBPE/v1.0\n\n0\n97 97\n", ErrMalformedModel},
		{"merge gap", "tinyBPE/v1.0\n\n0\n97 97 300\n", ErrMalformedModel},
	}
	for _, tc := range tests {
		_, err := ReadModel(strings.NewReader(tc.src))
		if !errors.Is(err, tc.want) {
			t.Fatalf("%s: got %v want %v", tc.name, err, tc.want)
		}
	}
}

func TestWriteModelRejectsUnstorable(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteModel(&buf, Model{Pattern: "a\nb"}); !errors.Is(err, ErrMalformedModel) {
		t.Fatalf("pattern with newline: %v", err)
	}
	if err := WriteModel(&buf, Model{Specials: []Special{{Text: "", ID: 1}}}); !errors.Is(err, ErrMalformedModel) {
		t.Fatalf("empty special: %v", err)
	}
	if err := WriteModel(&buf, Model{Specials: []Special{{Text: "a\nb", ID: 1}}}); !errors.Is(err, ErrInvalidSpecial) {
		t.Fatalf("special with newline: %v", err)
	}
}
