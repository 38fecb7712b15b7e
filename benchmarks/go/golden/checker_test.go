package golden

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/euforicio/tinybpe-go"
)

const corpus = "aaabdaaabac"

func TestEncodeMatchesGolden(t *testing.T) {
	byteLevel := func(t *testing.T) tinybpe.Tokenizer {
		tok := tinybpe.NewByteLevel(tinybpe.WithLogger(nil))
		if err := tok.Train(corpus, 259, false); err != nil {
			t.Fatalf("train: %v", err)
		}
		if err := tok.AddSpecialTokens(map[string]uint32{"<|eot|>": 259}); err != nil {
			t.Fatalf("specials: %v", err)
		}
		return tok
	}
	regex := func(t *testing.T) tinybpe.Tokenizer {
		tok, err := tinybpe.NewRegex("", tinybpe.WithLogger(nil))
		if err != nil {
			t.Fatalf("new regex: %v", err)
		}
		if err := tok.Train(corpus, 259, false); err != nil {
			t.Fatalf("train: %v", err)
		}
		return tok
	}
	loaded := func(t *testing.T) tinybpe.Tokenizer {
		tok, err := tinybpe.Open(filepath.Join("testdata", "aaabdaaabac.tbpe"))
		if err != nil {
			t.Fatalf("open: %v", err)
		}
		return tok
	}

	cases := []struct {
		name  string
		file  string
		text  string
		build func(*testing.T) tinybpe.Tokenizer
	}{
		{name: "canonical", file: "canonical.tokens.json", text: corpus, build: byteLevel},
		{name: "special", file: "special.tokens.json", text: "aaab<|eot|>ac", build: byteLevel},
		{name: "regex_canonical", file: "regex_canonical.tokens.json", text: corpus, build: regex},
		{name: "loaded_canonical", file: "canonical.tokens.json", text: corpus, build: loaded},
		{name: "loaded_special", file: "special.tokens.json", text: "aaab<|eot|>ac", build: loaded},
	}

	update := os.Getenv("GOLDEN_UPDATE") == "1"

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tokens, err := tc.build(t).Encode(tc.text)
			if err != nil {
				t.Fatalf("encode: %v", err)
			}

			goldenPath := filepath.Join("testdata", tc.file)
			if update {
				writeGolden(t, goldenPath, tokens)
				return
			}

			expected := readGolden(t, goldenPath)
			if len(tokens) != len(expected) {
				t.Fatalf("token length mismatch: got %d, want %d", len(tokens), len(expected))
			}
			for i := range tokens {
				if tokens[i] != expected[i] {
					t.Fatalf("token mismatch at %d: got %d, want %d", i, tokens[i], expected[i])
				}
			}
		})
	}
}

func TestSavedModelMatchesGolden(t *testing.T) {
	tok := tinybpe.NewByteLevel(tinybpe.WithLogger(nil))
	if err := tok.Train(corpus, 259, false); err != nil {
		t.Fatalf("train: %v", err)
	}
	if err := tok.AddSpecialTokens(map[string]uint32{"<|eot|>": 259}); err != nil {
		t.Fatalf("specials: %v", err)
	}
	prefix := filepath.Join(t.TempDir(), "aaabdaaabac")
	if err := tok.Save(prefix); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := os.ReadFile(prefix + tinybpe.ModelExt)
	if err != nil {
		t.Fatalf("read saved model: %v", err)
	}
	want, err := os.ReadFile(filepath.Join("testdata", "aaabdaaabac.tbpe"))
	if err != nil {
		t.Fatalf("read golden model: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("model mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func readGolden(t *testing.T, path string) []uint32 {
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden %s: %v", path, err)
	}
	var out []uint32
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal golden %s: %v", path, err)
	}
	return out
}

func writeGolden(t *testing.T, path string, tokens []uint32) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	encoded, err := json.MarshalIndent(tokens, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	if err := os.WriteFile(path, append(encoded, '\n'), 0o644); err != nil {
		t.Fatalf("write golden %s: %v", path, err)
	}
}
