package tinybpe

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/euforicio/tinybpe-go/tokenizer"
)

// File extensions written by Save.
const (
	ModelExt = ".tbpe"
	VocabExt = ".vocab"
)

// Save writes prefix.tbpe, the loadable model, and prefix.vocab, a lossy
// listing for people to read.
func (b *base) Save(prefix string) error {
	m := tokenizer.Model{
		Pattern:  b.seg.Pattern(),
		Specials: b.specials.Entries(),
		Merges:   b.merges,
	}
	if err := writeFile(prefix+ModelExt, func(f *os.File) error { return tokenizer.WriteModel(f, m) }); err != nil {
		return err
	}
	return writeFile(prefix+VocabExt, func(f *os.File) error { return tokenizer.WriteVocab(f, b.core) })
}

// WriteVocab writes the same listing Save puts in the .vocab file.
func WriteVocab(w io.Writer, t Tokenizer) error {
	switch t := t.(type) {
	case *ByteLevel:
		return tokenizer.WriteVocab(w, t.core)
	case *Regex:
		return tokenizer.WriteVocab(w, t.core)
	default:
		return fmt.Errorf("unsupported tokenizer %T", t)
	}
}

// writeFile fills a temporary file next to path and renames it into place,
// so a failed write leaves any existing file at path untouched.
func writeFile(path string, fill func(*os.File) error) error {
	f, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if err := fill(f); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

func readModelFile(path string) (tokenizer.Model, error) {
	if !strings.HasSuffix(path, ModelExt) {
		return tokenizer.Model{}, fmt.Errorf("%w: %s", ErrModelPath, path)
	}
	f, err := os.Open(path)
	if err != nil {
		return tokenizer.Model{}, err
	}
	defer func() { _ = f.Close() }()
	m, err := tokenizer.ReadModel(f)
	if err != nil {
		return tokenizer.Model{}, fmt.Errorf("load %s: %w", path, err)
	}
	return m, nil
}

// apply replaces all state with m. The vocabulary is rebuilt from the merges.
func (b *base) apply(m tokenizer.Model, seg tokenizer.Segmenter) error {
	specials := make(map[string]uint32, len(m.Specials))
	for _, s := range m.Specials {
		specials[s.Text] = s.ID
	}
	reg, err := tokenizer.NewSpecialRegistry(specials)
	if err != nil {
		return errors.Join(ErrMalformedModel, err)
	}
	b.seg = seg
	b.merges = m.Merges
	b.vocab = tokenizer.BuildVocab(m.Merges)
	b.specials = reg
	return b.rebuild()
}

// Open loads a model file into the variant it was saved from: Regex when it
// carries a split pattern, ByteLevel otherwise.
func Open(path string, opts ...Option) (Tokenizer, error) {
	m, err := readModelFile(path)
	if err != nil {
		return nil, err
	}
	if m.Pattern == "" {
		t := NewByteLevel(opts...)
		if err := t.apply(m, t.seg); err != nil {
			return nil, err
		}
		return t, nil
	}
	t, err := NewRegex(m.Pattern, opts...)
	if err != nil {
		return nil, errors.Join(ErrMalformedModel, err)
	}
	if err := t.apply(m, t.seg); err != nil {
		return nil, err
	}
	return t, nil
}
