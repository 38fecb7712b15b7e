package tinybpe

import (
	"fmt"

	"github.com/euforicio/tinybpe-go/tokenizer"
)

// Tokenizer is implemented by ByteLevel and Regex.
type Tokenizer interface {
	// Train learns vocabSize-256 merges from text, replacing any previous
	// merges. It stops early, without error, when nothing is left to merge.
	Train(text string, vocabSize int, verbose bool) error
	// Encode maps text to ids, recognizing all registered special tokens.
	Encode(text string) ([]uint32, error)
	// EncodeWithSpecials maps text to ids under an explicit special policy.
	EncodeWithSpecials(text string, policy SpecialPolicy) ([]uint32, error)
	// Decode maps ids back to text, substituting U+FFFD for invalid UTF-8.
	Decode(ids []uint32) (string, error)
	// DecodeBytes maps ids back to the exact byte stream.
	DecodeBytes(ids []uint32) ([]byte, error)
	// AddSpecialTokens replaces the special token registry.
	AddSpecialTokens(specials map[string]uint32) error
	// Save writes prefix.tbpe and the display-only prefix.vocab.
	Save(prefix string) error
	// Load restores state from a .tbpe file.
	Load(path string) error
}

var (
	_ Tokenizer = (*ByteLevel)(nil)
	_ Tokenizer = (*Regex)(nil)
)

// base holds the state shared by both variants. core is rebuilt whenever
// merges, specials or the segmenter change, which also drops its cache.
type base struct {
	opts     options
	seg      tokenizer.Segmenter
	merges   *tokenizer.MergeTable
	vocab    [][]byte
	specials *tokenizer.SpecialRegistry
	core     *tokenizer.Core
}

func newBase(seg tokenizer.Segmenter, opts []Option) (*base, error) {
	specials, err := tokenizer.NewSpecialRegistry(nil)
	if err != nil {
		return nil, err
	}
	b := &base{
		opts:     defaultOptions(),
		seg:      seg,
		merges:   tokenizer.NewMergeTable(),
		specials: specials,
	}
	for _, o := range opts {
		o(&b.opts)
	}
	b.vocab = tokenizer.BuildVocab(b.merges)
	if err := b.rebuild(); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *base) rebuild() error {
	core, err := tokenizer.NewCore(b.merges, b.vocab, b.specials, b.seg, b.opts.cacheSize)
	if err != nil {
		return err
	}
	if b.core != nil {
		b.core.Close()
	}
	b.core = core
	return nil
}

func (b *base) train(chunks []string, vocabSize int, verbose bool) error {
	raw := make([][]byte, len(chunks))
	for i, c := range chunks {
		raw[i] = []byte(c)
	}
	logger := b.opts.logger
	if !verbose {
		logger = nil
	}
	res, err := tokenizer.Train(raw, vocabSize, logger)
	if err != nil {
		return err
	}
	b.merges, b.vocab = res.Merges, res.Vocab
	return b.rebuild()
}

// EncodeOrdinary encodes text without looking for special tokens.
func (b *base) EncodeOrdinary(text string) ([]uint32, error) {
	return b.core.EncodeOrdinary(text)
}

func (b *base) EncodeWithSpecials(text string, policy SpecialPolicy) ([]uint32, error) {
	allowed, err := policy.allowed(b.specials, text)
	if err != nil {
		return nil, err
	}
	return b.core.Encode(text, allowed)
}

func (b *base) Decode(ids []uint32) (string, error) {
	return b.core.DecodeUTF8(ids)
}

func (b *base) DecodeBytes(ids []uint32) ([]byte, error) {
	return b.core.DecodeBytes(ids)
}

// AddSpecialTokens replaces the registry. Strings must be non-empty and
// free of line breaks, and ids must be distinct, or ErrInvalidSpecial is
// returned and the old registry is kept. Ids must not overlap the
// vocabulary; that is not checked.
func (b *base) AddSpecialTokens(specials map[string]uint32) error {
	reg, err := tokenizer.NewSpecialRegistry(specials)
	if err != nil {
		return err
	}
	b.specials = reg
	return b.rebuild()
}

// SpecialTokens returns a copy of the registered specials.
func (b *base) SpecialTokens() map[string]uint32 { return b.specials.Map() }

// Merges returns the learned merge table. It must not be modified.
func (b *base) Merges() *tokenizer.MergeTable { return b.merges }

// Vocab returns the byte expansion of every byte and merge id.
func (b *base) Vocab() [][]byte {
	out := make([][]byte, len(b.vocab))
	for i, v := range b.vocab {
		out[i] = append([]byte(nil), v...)
	}
	return out
}

// Pattern is the split pattern, empty for the byte-level variant.
func (b *base) Pattern() string { return b.seg.Pattern() }

// ByteLevel is the byte-level variant: the whole input is one chunk.
type ByteLevel struct {
	*base
}

// NewByteLevel returns an untrained byte-level tokenizer.
func NewByteLevel(opts ...Option) *ByteLevel {
	b, err := newBase(tokenizer.NewWholeSegmenter(), opts)
	if err != nil {
		// Only the cache can fail to build and options clamp its size.
		panic(err)
	}
	return &ByteLevel{base: b}
}

func (t *ByteLevel) Train(text string, vocabSize int, verbose bool) error {
	var chunks []string
	if text != "" {
		chunks = []string{text}
	}
	return t.train(chunks, vocabSize, verbose)
}

func (t *ByteLevel) Encode(text string) ([]uint32, error) {
	return t.EncodeWithSpecials(text, AllowAll())
}

func (t *ByteLevel) Load(path string) error {
	m, err := readModelFile(path)
	if err != nil {
		return err
	}
	if m.Pattern != "" {
		return fmt.Errorf("%w: byte-level tokenizer cannot use split pattern %q", ErrVariantMismatch, m.Pattern)
	}
	return t.apply(m, t.seg)
}

// Regex is the pattern-segmented variant.
type Regex struct {
	*base
}

// NewRegex returns an untrained tokenizer splitting with pattern, or with
// tokenizer.DefaultSplitPattern when pattern is empty.
func NewRegex(pattern string, opts ...Option) (*Regex, error) {
	if pattern == "" {
		pattern = tokenizer.DefaultSplitPattern
	}
	seg, err := tokenizer.NewRegexSegmenter(pattern)
	if err != nil {
		return nil, err
	}
	b, err := newBase(seg, opts)
	if err != nil {
		return nil, err
	}
	return &Regex{base: b}, nil
}

func (t *Regex) Train(text string, vocabSize int, verbose bool) error {
	if vocabSize < int(tokenizer.FirstMergeID) {
		return fmt.Errorf("%w: got %d", ErrVocabSize, vocabSize)
	}
	chunks, err := t.seg.Split(text)
	if err != nil {
		return err
	}
	return t.train(chunks, vocabSize, verbose)
}

func (t *Regex) Encode(text string) ([]uint32, error) {
	return t.EncodeWithSpecials(text, AllowAll())
}

// Load restores a model and adopts its split pattern.
func (t *Regex) Load(path string) error {
	m, err := readModelFile(path)
	if err != nil {
		return err
	}
	if m.Pattern == "" {
		return fmt.Errorf("%w: model has no split pattern", ErrVariantMismatch)
	}
	seg, err := tokenizer.NewRegexSegmenter(m.Pattern)
	if err != nil {
		return err
	}
	return t.apply(m, seg)
}
