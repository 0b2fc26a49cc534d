// Package config loads kotok settings from an optional YAML file and
// KOTOK_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/rs/zerolog"

	"github.com/az-ai-labs/ko-lang-nlp/pos"
	"github.com/az-ai-labs/ko-lang-nlp/tokenizer"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("config: invalid")

// Config is the root configuration.
type Config struct {
	Log       LogConfig       `yaml:"log"`
	Tokenizer TokenizerConfig `yaml:"tokenizer"`
	Profile   ProfileConfig   `yaml:"profile"`
	Server    ServerConfig    `yaml:"server"`
	Lexicon   LexiconConfig   `yaml:"lexicon"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"KOTOK_LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"KOTOK_LOG_FORMAT" env-default:"console"`
}

// TokenizerConfig holds tokenizer construction settings.
type TokenizerConfig struct {
	Workers       int `yaml:"workers"         env:"KOTOK_TOKENIZER_WORKERS"         env-default:"1"`
	CacheSize     int `yaml:"cache_size"      env:"KOTOK_TOKENIZER_CACHE_SIZE"      env-default:"4096"`
	MaxInputBytes int `yaml:"max_input_bytes" env:"KOTOK_TOKENIZER_MAX_INPUT_BYTES" env-default:"1048576"`
	MaxTopN       int `yaml:"max_top_n"       env:"KOTOK_TOKENIZER_MAX_TOP_N"       env-default:"10"`
}

// ProfileConfig mirrors tokenizer.Profile. Preferred patterns are written
// as "Noun+Josa".
type ProfileConfig struct {
	TokenCount           float64  `yaml:"token_count"            env:"KOTOK_PROFILE_TOKEN_COUNT"            env-default:"0.18"`
	Unknown              float64  `yaml:"unknown"                env:"KOTOK_PROFILE_UNKNOWN"                env-default:"0.3"`
	WordCount            float64  `yaml:"word_count"             env:"KOTOK_PROFILE_WORD_COUNT"             env-default:"0.3"`
	Freq                 float64  `yaml:"freq"                   env:"KOTOK_PROFILE_FREQ"                   env-default:"0.2"`
	UnknownCoverage      float64  `yaml:"unknown_coverage"       env:"KOTOK_PROFILE_UNKNOWN_COVERAGE"       env-default:"0.5"`
	ExactMatch           float64  `yaml:"exact_match"            env:"KOTOK_PROFILE_EXACT_MATCH"            env-default:"0.5"`
	AllNoun              float64  `yaml:"all_noun"               env:"KOTOK_PROFILE_ALL_NOUN"               env-default:"0.1"`
	UnknownPosCount      float64  `yaml:"unknown_pos_count"      env:"KOTOK_PROFILE_UNKNOWN_POS_COUNT"      env-default:"10.0"`
	DeterminerPosCount   float64  `yaml:"determiner_pos_count"   env:"KOTOK_PROFILE_DETERMINER_POS_COUNT"   env-default:"-0.01"`
	ExclamationPosCount  float64  `yaml:"exclamation_pos_count"  env:"KOTOK_PROFILE_EXCLAMATION_POS_COUNT"  env-default:"0.01"`
	InitialPostPosition  float64  `yaml:"initial_post_position"  env:"KOTOK_PROFILE_INITIAL_POST_POSITION"  env-default:"0.2"`
	HaVerb               float64  `yaml:"ha_verb"                env:"KOTOK_PROFILE_HA_VERB"                env-default:"0.3"`
	PreferredPattern     float64  `yaml:"preferred_pattern"      env:"KOTOK_PROFILE_PREFERRED_PATTERN"      env-default:"0.6"`
	PreferredPatterns    []string `yaml:"preferred_patterns"     env:"KOTOK_PROFILE_PREFERRED_PATTERNS"     env-default:"Noun+Josa,ProperNoun+Josa"`
	SpaceGuidePenalty    float64  `yaml:"space_guide_penalty"    env:"KOTOK_PROFILE_SPACE_GUIDE_PENALTY"    env-default:"3.0"`
	JosaUnmatchedPenalty float64  `yaml:"josa_unmatched_penalty" env:"KOTOK_PROFILE_JOSA_UNMATCHED_PENALTY" env-default:"3.0"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr            string        `yaml:"addr"             env:"KOTOK_SERVER_ADDR"             env-default:":8080"`
	CORSOrigins     []string      `yaml:"cors_origins"     env:"KOTOK_SERVER_CORS_ORIGINS"     env-default:"*"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"KOTOK_SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"KOTOK_SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"KOTOK_SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// LexiconConfig points at lexicon data outside the binary. Empty paths
// use the embedded seed lexicon only.
type LexiconConfig struct {
	Dir        string `yaml:"dir"         env:"KOTOK_LEXICON_DIR"`
	ExtraNouns string `yaml:"extra_nouns" env:"KOTOK_LEXICON_EXTRA_NOUNS"`
	Blockwords string `yaml:"blockwords"  env:"KOTOK_LEXICON_BLOCKWORDS"`
}

// Load reads configuration. Priority: ENV > YAML > defaults. An empty
// path reads the environment and defaults only; a missing file is an
// error.
func Load(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config: file %s: %w", path, err)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges. Errors wrap ErrInvalidConfig.
func (c *Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
	}

	if _, err := zerolog.ParseLevel(strings.ToLower(c.Log.Level)); err != nil {
		return invalid("log.level %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return invalid("log.format must be console or json (got %q)", c.Log.Format)
	}

	if c.Tokenizer.Workers < 1 {
		return invalid("tokenizer.workers must be >= 1 (got %d)", c.Tokenizer.Workers)
	}
	if c.Tokenizer.CacheSize < 0 {
		return invalid("tokenizer.cache_size must be >= 0 (got %d)", c.Tokenizer.CacheSize)
	}
	if c.Tokenizer.MaxInputBytes <= 0 {
		return invalid("tokenizer.max_input_bytes must be > 0 (got %d)", c.Tokenizer.MaxInputBytes)
	}
	if c.Tokenizer.MaxTopN < 1 {
		return invalid("tokenizer.max_top_n must be >= 1 (got %d)", c.Tokenizer.MaxTopN)
	}

	if _, err := c.Profile.Build(); err != nil {
		return invalid("profile: %v", err)
	}

	if c.Server.Addr == "" {
		return invalid("server.addr is empty")
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 || c.Server.ShutdownTimeout <= 0 {
		return invalid("server timeouts must be > 0")
	}
	return nil
}

// Build converts the configuration to a tokenizer profile.
func (p ProfileConfig) Build() (*tokenizer.Profile, error) {
	weights := []float64{
		p.TokenCount, p.Unknown, p.WordCount, p.Freq, p.UnknownCoverage,
		p.ExactMatch, p.AllNoun, p.UnknownPosCount, p.DeterminerPosCount,
		p.ExclamationPosCount, p.InitialPostPosition, p.HaVerb,
		p.PreferredPattern, p.SpaceGuidePenalty, p.JosaUnmatchedPenalty,
	}
	for _, w := range weights {
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, fmt.Errorf("weight %v is not finite", w)
		}
	}

	patterns := make([][]pos.Tag, 0, len(p.PreferredPatterns))
	for _, raw := range p.PreferredPatterns {
		var pat []pos.Tag
		for _, name := range strings.Split(raw, "+") {
			tag, err := pos.Parse(strings.TrimSpace(name))
			if err != nil {
				return nil, fmt.Errorf("preferred pattern %q: %w", raw, err)
			}
			pat = append(pat, tag)
		}
		patterns = append(patterns, pat)
	}

	return &tokenizer.Profile{
		TokenCount:           p.TokenCount,
		Unknown:              p.Unknown,
		WordCount:            p.WordCount,
		Freq:                 p.Freq,
		UnknownCoverage:      p.UnknownCoverage,
		ExactMatch:           p.ExactMatch,
		AllNoun:              p.AllNoun,
		UnknownPosCount:      p.UnknownPosCount,
		DeterminerPosCount:   p.DeterminerPosCount,
		ExclamationPosCount:  p.ExclamationPosCount,
		InitialPostPosition:  p.InitialPostPosition,
		HaVerb:               p.HaVerb,
		PreferredPattern:     p.PreferredPattern,
		PreferredPatterns:    patterns,
		SpaceGuidePenalty:    p.SpaceGuidePenalty,
		JosaUnmatchedPenalty: p.JosaUnmatchedPenalty,
	}, nil
}

// NewLogger returns a logger writing to w in the configured format and
// level. Call after Validate.
func (c LogConfig) NewLogger(w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(c.Level))
	if err != nil {
		level = zerolog.InfoLevel
	}
	if c.Format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}
