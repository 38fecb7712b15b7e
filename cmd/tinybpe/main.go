package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/euforicio/tinybpe-go"
	"github.com/euforicio/tinybpe-go/config"
	"github.com/euforicio/tinybpe-go/tokenizer"
)

func die(err error) { fmt.Fprintln(os.Stderr, err); os.Exit(1) }

// trainable is a tokenizer whose learned vocabulary can be inspected.
type trainable interface {
	tinybpe.Tokenizer
	Vocab() [][]byte
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("tinybpe [train|encode|decode|vocab]")
		return
	}
	cfg, err := config.Load()
	if err != nil {
		die(err)
	}
	opts := []tinybpe.Option{tinybpe.WithCacheSize(cfg.CacheSize)}

	switch os.Args[1] {
	case "train":
		fs := flag.NewFlagSet("train", flag.ExitOnError)
		in := fs.String("in", "", "training text file (default stdin)")
		out := fs.String("out", "", "output prefix for .tbpe and .vocab")
		vocab := fs.Int("vocab", cfg.VocabSize, "target vocabulary size")
		variant := fs.String("variant", cfg.Variant, "tokenizer variant (regex|byte)")
		pattern := fs.String("pattern", cfg.Pattern, "split pattern for the regex variant")
		specials := fs.String("specials", "", "comma-separated special tokens to reserve after the vocabulary")
		verbose := fs.Bool("verbose", cfg.Verbose, "log every merge")
		_ = fs.Parse(os.Args[2:])
		if *out == "" {
			die(fmt.Errorf("train: -out is required"))
		}
		text, err := readInput(*in)
		if err != nil {
			die(err)
		}
		opts = append(opts, tinybpe.WithLogger(log.New(os.Stderr, "", log.LstdFlags)))
		var tok trainable
		switch strings.ToLower(*variant) {
		case config.VariantByte:
			tok = tinybpe.NewByteLevel(opts...)
		case config.VariantRegex:
			rx, err := tinybpe.NewRegex(*pattern, opts...)
			if err != nil {
				die(err)
			}
			tok = rx
		default:
			die(fmt.Errorf("train: unknown variant %q", *variant))
		}
		if err := tok.Train(text, *vocab, *verbose); err != nil {
			die(err)
		}
		if names := splitList(*specials); len(names) > 0 {
			reserved := tokenizer.ReservedSpecials(names, uint32(len(tok.Vocab())))
			if err := tok.AddSpecialTokens(reserved); err != nil {
				die(err)
			}
		}
		if err := tok.Save(*out); err != nil {
			die(err)
		}
	case "encode":
		fs := flag.NewFlagSet("encode", flag.ExitOnError)
		model := fs.String("model", cfg.Model, "path to a .tbpe model")
		specials := fs.String("specials", "all", "special policy: all, none, none_raise or a comma-separated list")
		_ = fs.Parse(os.Args[2:])
		policy, err := tinybpe.ParsePolicy(*specials)
		if err != nil {
			die(err)
		}
		tok, err := tinybpe.Open(*model, opts...)
		if err != nil {
			die(err)
		}
		text, err := readInput("")
		if err != nil {
			die(err)
		}
		ids, err := tok.EncodeWithSpecials(text, policy)
		if err != nil {
			die(err)
		}
		_ = json.NewEncoder(os.Stdout).Encode(ids)
	case "decode":
		fs := flag.NewFlagSet("decode", flag.ExitOnError)
		model := fs.String("model", cfg.Model, "path to a .tbpe model")
		raw := fs.Bool("bytes", false, "write the exact bytes instead of lossy UTF-8")
		if err := fs.Parse(os.Args[2:]); err != nil {
			die(err)
		}
		var ids []uint32
		if err := json.NewDecoder(os.Stdin).Decode(&ids); err != nil {
			die(err)
		}
		tok, err := tinybpe.Open(*model, opts...)
		if err != nil {
			die(err)
		}
		if err := writeDecoded(os.Stdout, tok, ids, *raw); err != nil {
			die(err)
		}
	case "vocab":
		fs := flag.NewFlagSet("vocab", flag.ExitOnError)
		model := fs.String("model", cfg.Model, "path to a .tbpe model")
		_ = fs.Parse(os.Args[2:])
		tok, err := tinybpe.Open(*model, opts...)
		if err != nil {
			die(err)
		}
		if err := tinybpe.WriteVocab(os.Stdout, tok); err != nil {
			die(err)
		}
	default:
		fmt.Fprintln(os.Stderr, "unimplemented")
		os.Exit(2)
	}
}

// writeDecoded writes exactly the decoded text, or the raw bytes when raw
// is set, with nothing appended.
func writeDecoded(w io.Writer, tok tinybpe.Tokenizer, ids []uint32, raw bool) error {
	if raw {
		b, err := tok.DecodeBytes(ids)
		if err != nil {
			return err
		}
		_, err = w.Write(b)
		return err
	}
	s, err := tok.Decode(ids)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(w, s)
	return err
}

func readInput(path string) (string, error) {
	if path == "" {
		b, err := io.ReadAll(os.Stdin)
		return string(b), err
	}
	b, err := os.ReadFile(path)
	return string(b), err
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
