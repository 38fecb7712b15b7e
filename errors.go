package tinybpe

import (
	"errors"

	"github.com/euforicio/tinybpe-go/tokenizer"
)

// Configuration errors.
var (
	ErrVocabSize         = tokenizer.ErrVocabSize
	ErrVersion           = tokenizer.ErrVersion
	ErrMalformedModel    = tokenizer.ErrMalformedModel
	ErrInvalidSpecial    = tokenizer.ErrInvalidSpecial
	ErrInvalidPolicy     = errors.New("invalid special token policy")
	ErrDisallowedSpecial = errors.New("disallowed special token in input")
	ErrVariantMismatch   = errors.New("model does not match tokenizer variant")
	ErrModelPath         = errors.New("model path must end with " + ModelExt)
)

// ErrUnknownToken is the lookup error raised by Decode.
var ErrUnknownToken = tokenizer.ErrUnknownToken
