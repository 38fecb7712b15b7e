package tokenizer

import "errors"

// Configuration errors.
var (
	ErrVocabSize      = errors.New("vocab size must be at least 256")
	ErrVersion        = errors.New("model version mismatch")
	ErrMalformedModel = errors.New("malformed model")
	ErrInvalidSpecial = errors.New("invalid special token")
)

// ErrUnknownToken is returned when decoding an id that is neither in the
// vocabulary nor registered as a special token.
var ErrUnknownToken = errors.New("invalid token for decoding")
