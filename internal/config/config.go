// Package config handles loading the synthesizer configuration.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is the root configuration for the synthesizer.
type Config struct {
	Library    LibraryConfig    `mapstructure:"library"`
	Synth      SynthConfig      `mapstructure:"synth"`
	Server     ServerConfig     `mapstructure:"server"`
	Transports TransportsConfig `mapstructure:"transports"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// LibraryConfig locates the static assets loaded once at startup.
type LibraryConfig struct {
	Diphones string `mapstructure:"diphones"` // folder of <p1>-<p2>.wav files
	Lexicon  string `mapstructure:"lexicon"`  // CMU-format dictionary; empty uses the builtin table
}

// SynthConfig holds the per-request synthesis settings. Values here are the
// defaults; the HTTP and gRPC transports may override some per request.
type SynthConfig struct {
	Play              bool         `mapstructure:"play"`
	Outfile           string       `mapstructure:"outfile"`
	Volume            *int         `mapstructure:"volume"` // percent; nil leaves the signal untouched
	StrictVolume      bool         `mapstructure:"strict_volume"`
	Spell             bool         `mapstructure:"spell"`
	Reverse           string       `mapstructure:"reverse"` // "", "words", "phones" or "signal"
	Fromfile          string       `mapstructure:"fromfile"`
	Crossfade         bool         `mapstructure:"crossfade"`
	CrossfadeMS       int          `mapstructure:"crossfade_ms"`
	CrossfadeFraction float64      `mapstructure:"crossfade_fraction"`
	LinkWords         bool         `mapstructure:"link_words"`
	StrictWords       bool         `mapstructure:"strict_words"`
	Pauses            PausesConfig `mapstructure:"pauses"`
	Concurrency       int          `mapstructure:"concurrency"` // 0 uses GOMAXPROCS
}

// PausesConfig sets the silence inserted for each boundary class and for
// words missing from the lexicon.
type PausesConfig struct {
	WordMS     int `mapstructure:"word_ms"`
	ClauseMS   int `mapstructure:"clause_ms"`
	SentenceMS int `mapstructure:"sentence_ms"`
	UnknownMS  int `mapstructure:"unknown_ms"`
}

// ServerConfig holds the health check server settings.
type ServerConfig struct {
	HealthPort int `mapstructure:"health_port"`
}

// TransportsConfig holds the configuration for each transport layer.
type TransportsConfig struct {
	GRPC    PortConfig `mapstructure:"grpc"`
	HTTP    PortConfig `mapstructure:"http"`
	Wyoming PortConfig `mapstructure:"wyoming"`
}

// PortConfig enables a listener on a TCP port.
type PortConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, text
}

// flagKeys maps command-line flag names to configuration keys.
var flagKeys = map[string]string{
	"diphones":  "library.diphones",
	"lexicon":   "library.lexicon",
	"play":      "synth.play",
	"outfile":   "synth.outfile",
	"spell":     "synth.spell",
	"reverse":   "synth.reverse",
	"fromfile":  "synth.fromfile",
	"crossfade": "synth.crossfade",
	"log-level": "logging.level",
}

// Load reads the configuration from file, environment variables, bound
// flags and defaults. If configFile is non-empty it is used directly;
// otherwise the standard search order applies: ./synthesizer.yaml,
// ./configs/synthesizer.yaml, /etc/synthesizer/synthesizer.yaml.
// flags may be nil.
func Load(configFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("library.diphones", "./diphones")
	v.SetDefault("library.lexicon", "")
	v.SetDefault("synth.play", false)
	v.SetDefault("synth.outfile", "")
	v.SetDefault("synth.strict_volume", false)
	v.SetDefault("synth.spell", false)
	v.SetDefault("synth.reverse", "")
	v.SetDefault("synth.fromfile", "")
	v.SetDefault("synth.crossfade", false)
	v.SetDefault("synth.crossfade_ms", 10)
	v.SetDefault("synth.crossfade_fraction", 0.5)
	v.SetDefault("synth.link_words", false)
	v.SetDefault("synth.strict_words", false)
	v.SetDefault("synth.pauses.word_ms", 0)
	v.SetDefault("synth.pauses.clause_ms", 200)
	v.SetDefault("synth.pauses.sentence_ms", 400)
	v.SetDefault("synth.pauses.unknown_ms", 200)
	v.SetDefault("synth.concurrency", 0)
	v.SetDefault("server.health_port", 8081)
	v.SetDefault("transports.http.enabled", true)
	v.SetDefault("transports.http.port", 8080)
	v.SetDefault("transports.grpc.enabled", true)
	v.SetDefault("transports.grpc.port", 50051)
	v.SetDefault("transports.wyoming.enabled", false)
	v.SetDefault("transports.wyoming.port", 10200)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	// Config file
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("synthesizer")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/synthesizer")
	}

	// Environment variables: SYNTHESIZER_LIBRARY_DIPHONES, SYNTHESIZER_SYNTH_VOLUME, etc.
	v.SetEnvPrefix("SYNTHESIZER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// AutomaticEnv only sees keys viper already knows about; volume has no default.
	if err := v.BindEnv("synth.volume"); err != nil {
		return nil, fmt.Errorf("binding env: %w", err)
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("binding flag %s: %w", name, err)
				}
			}
		}
	}

	// Read config file (optional; env vars and defaults are sufficient)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || configFile != "" {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		slog.Debug("no config file found, using defaults and environment variables")
	} else {
		slog.Debug("loaded config file", "path", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	// Volume is optional, so a bound flag only counts when it was given.
	if flags != nil {
		if f := flags.Lookup("volume"); f != nil && f.Changed {
			vol, err := flags.GetInt("volume")
			if err != nil {
				return nil, fmt.Errorf("reading volume flag: %w", err)
			}
			cfg.Synth.Volume = &vol
		}
	}

	cfg.Library.Diphones = expandHome(cfg.Library.Diphones)
	cfg.Library.Lexicon = expandHome(cfg.Library.Lexicon)

	return &cfg, nil
}

// expandHome replaces a leading "~/" with the user's home directory.
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	if home, err := os.UserHomeDir(); err == nil {
		return home + path[1:]
	}
	return path
}

// SetupLogging configures the global slog logger based on config.
func SetupLogging(cfg LoggingConfig) {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.ToLower(cfg.Format) == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	slog.SetDefault(slog.New(handler))
}
