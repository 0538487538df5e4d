// Package config loads runtime settings from the environment.
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the tunables of the tool. Every field has a working
// default; overrides come from PROCREATE_META_* environment variables
// (e.g. PROCREATE_META_TEMP_DIR, PROCREATE_META_EMBED_URL).
type Config struct {
	// TempDir overrides the managed temp directory. Empty selects the
	// default under os.TempDir.
	TempDir string
	// EmbedURL is the base URL of the embedding inference service.
	EmbedURL string
	// EmbedTimeout bounds one embedding request.
	EmbedTimeout time.Duration
	// HashChunkSize is the read size used while hashing source files.
	HashChunkSize int
}

// Load reads the environment and returns the effective configuration.
func Load() *Config {
	v := viper.New()
	v.SetEnvPrefix("PROCREATE_META")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("temp_dir", "")
	v.SetDefault("embed_url", "http://127.0.0.1:8484")
	v.SetDefault("embed_timeout", "60s")
	v.SetDefault("hash_chunk_size", 1<<20)

	return &Config{
		TempDir:       v.GetString("temp_dir"),
		EmbedURL:      v.GetString("embed_url"),
		EmbedTimeout:  v.GetDuration("embed_timeout"),
		HashChunkSize: v.GetInt("hash_chunk_size"),
	}
}
