// Package config resolves command-line defaults from the environment and an
// optional .env file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables read by Load.
const (
	EnvVocabSize = "TINYBPE_VOCAB_SIZE"
	EnvVariant   = "TINYBPE_VARIANT"
	EnvPattern   = "TINYBPE_PATTERN"
	EnvCacheSize = "TINYBPE_CACHE_SIZE"
	EnvModel     = "TINYBPE_MODEL"
	EnvVerbose   = "TINYBPE_VERBOSE"
)

// Tokenizer variants.
const (
	VariantRegex = "regex"
	VariantByte  = "byte"
)

// Config holds defaults for the tinybpe command. Flags override it.
type Config struct {
	VocabSize int
	Variant   string
	Pattern   string // empty selects the default split pattern
	CacheSize int
	Model     string
	Verbose   bool
}

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		VocabSize: 512,
		Variant:   VariantRegex,
		CacheSize: 4096,
	}
}

// Load reads a .env file from the working directory or one of its parents,
// then applies the environment on top of Default. Variables already set in
// the environment win over the file.
func Load() (Config, error) {
	_ = loadEnvFile()
	return FromEnv()
}

// FromEnv applies the environment on top of Default without touching .env.
func FromEnv() (Config, error) {
	cfg := Default()
	if v := os.Getenv(EnvVocabSize); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvVocabSize, err)
		}
		cfg.VocabSize = n
	}
	if v := os.Getenv(EnvVariant); v != "" {
		v = strings.ToLower(v)
		if v != VariantRegex && v != VariantByte {
			return cfg, fmt.Errorf("%s: unknown variant %q", EnvVariant, v)
		}
		cfg.Variant = v
	}
	cfg.Pattern = os.Getenv(EnvPattern)
	if v := os.Getenv(EnvCacheSize); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return cfg, fmt.Errorf("%s: invalid cache size %q", EnvCacheSize, v)
		}
		cfg.CacheSize = n
	}
	cfg.Model = os.Getenv(EnvModel)
	if v := os.Getenv(EnvVerbose); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvVerbose, err)
		}
		cfg.Verbose = b
	}
	return cfg, nil
}

// loadEnvFile looks up to 5 levels up for a .env file.
func loadEnvFile() error {
	dir, err := os.Getwd()
	if err != nil {
		return err
	}
	for i := 0; i < 5; i++ {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			return godotenv.Load(envPath)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return nil
}
