package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvVocabSize, EnvVariant, EnvPattern, EnvCacheSize, EnvModel, EnvVerbose} {
		t.Setenv(k, "")
	}
}

func TestFromEnvDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := FromEnv()
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestFromEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvVocabSize, "1024")
	t.Setenv(EnvVariant, "BYTE")
	t.Setenv(EnvCacheSize, "0")
	t.Setenv(EnvModel, "models/toy.tbpe")
	t.Setenv(EnvVerbose, "true")

	cfg, err := FromEnv()
	require.NoError(t, err)
	require.Equal(t, 1024, cfg.VocabSize)
	require.Equal(t, VariantByte, cfg.Variant)
	require.Equal(t, 0, cfg.CacheSize)
	require.Equal(t, "models/toy.tbpe", cfg.Model)
	require.True(t, cfg.Verbose)
}

func TestFromEnvRejectsBadValues(t *testing.T) {
	for k, v := range map[string]string{
		EnvVocabSize: "lots",
		EnvVariant:   "wordpiece",
		EnvCacheSize: "-1",
		EnvVerbose:   "maybe",
	} {
		clearEnv(t)
		t.Setenv(k, v)
		_, err := FromEnv()
		require.Error(t, err, "%s=%s", k, v)
	}
}

func TestLoadReadsDotEnv(t *testing.T) {
	clearEnv(t)
	os.Unsetenv(EnvVocabSize)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(EnvVocabSize+"=777\n"), 0o644))
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 777, cfg.VocabSize)
}
