package tinybpe

import (
	"log"
	"os"

	"github.com/euforicio/tinybpe-go/tokenizer"
)

type options struct {
	logger    *log.Logger
	cacheSize int
}

func defaultOptions() options {
	return options{
		logger:    log.New(os.Stderr, "tinybpe: ", log.LstdFlags),
		cacheSize: tokenizer.DefaultCacheSize,
	}
}

// Option configures a tokenizer.
type Option func(*options)

// WithLogger sets where verbose training output goes. A nil logger silences
// it even when verbose is requested.
func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithCacheSize sets how many encoded chunks are remembered. Zero disables
// the cache.
func WithCacheSize(n int) Option {
	return func(o *options) {
		if n < 0 {
			n = 0
		}
		o.cacheSize = n
	}
}
