package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/runar-rkmedia/termkit/term"
)

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "TERMKIT_"

// sections are the nested config tables. Their env names use the first
// underscore as the separator: TERMKIT_INPUT_REPEAT_THRESHOLD -> input.repeat_threshold.
var sections = []string{"input", "history", "watch"}

// LoadOptions controls config loading behavior.
type LoadOptions struct {
	// CWD is the current working directory.
	CWD string

	// GitRoot is the git repository root (empty if not in a git repo).
	GitRoot string

	// ConfigFile overrides config file discovery (--config flag). When empty,
	// TERMKIT_CONFIG is consulted unless SkipEnv is set.
	ConfigFile string

	// SkipEnv disables environment variable loading.
	SkipEnv bool

	// Verbose enables debug output during loading.
	Verbose bool
}

// LoadResult contains the loaded config and metadata about sources.
type LoadResult struct {
	Config  *Config
	Sources []string // List of sources that contributed to the config
}

// Load loads configuration from all sources and returns the merged result.
// Order (later overrides earlier): defaults → files → env vars
// Flags are applied by the caller after Load returns.
func Load(opts LoadOptions) (*LoadResult, error) {
	k := koanf.New(".")
	result := &LoadResult{
		Sources: []string{"defaults"},
	}

	// 1. Load defaults
	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	// 2. Load config files: --config or TERMKIT_CONFIG, else discovery
	getenv := os.Getenv
	if opts.SkipEnv {
		getenv = nil
	}
	if loc, ok := ExplicitLocation(opts.ConfigFile, getenv); ok {
		if err := loadFile(k, loc.Path); err != nil {
			return nil, fmt.Errorf("%s: %w", loc.Path, err)
		}
		result.Sources = append(result.Sources, loc.Source+":"+loc.Path)
	} else {
		// Auto-discover config files
		locations := FindLocations(opts.CWD, opts.GitRoot)
		for _, loc := range ExistingLocations(locations) {
			if err := loadFile(k, loc.Path); err != nil {
				// Log but continue - don't fail on config parse errors
				if opts.Verbose {
					term.Warnf("config: error loading %s: %v", loc.Path, err)
				}
				continue
			}
			result.Sources = append(result.Sources, loc.Source+":"+loc.Path)
		}
	}

	// 3. Load environment variables
	if !opts.SkipEnv {
		envProvider := env.Provider(EnvPrefix, ".", envKey)

		if err := k.Load(envProvider, nil); err != nil {
			return nil, err
		}
		result.Sources = append(result.Sources, "env")
	}

	// 4. Unmarshal into Config struct
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{DecoderConfig: decoderConfig(&cfg)}); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	result.Config = &cfg
	return result, nil
}

// decoderConfig is koanf's default decoding plus numeric durations.
func decoderConfig(out *Config) *mapstructure.DecoderConfig {
	return &mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			numericDurationHook,
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.TextUnmarshallerHookFunc(),
		),
		Result:           out,
		WeaklyTypedInput: true,
	}
}

var durationType = reflect.TypeOf(Duration(0))

// numericDurationHook reads a bare number as seconds, the same as
// Duration.UnmarshalText does for "0.3". Values that already are a Duration
// (the defaults) pass through.
func numericDurationHook(from, to reflect.Type, data any) (any, error) {
	if to != durationType || from == durationType {
		return data, nil
	}
	v := reflect.ValueOf(data)
	switch from.Kind() {
	case reflect.Float32, reflect.Float64:
		return Duration(v.Float() * float64(time.Second)), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Duration(v.Int()) * Duration(time.Second), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Duration(v.Uint()) * Duration(time.Second), nil
	}
	return data, nil
}

// envKey maps an environment variable name to a config key.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	for _, sec := range sections {
		if strings.HasPrefix(s, sec+"_") {
			return sec + "." + strings.TrimPrefix(s, sec+"_")
		}
	}
	return s
}

// loadFile loads a single config file based on its extension.
func loadFile(k *koanf.Koanf, path string) error {
	ext := strings.ToLower(filepath.Ext(path))

	var parser koanf.Parser
	switch ext {
	case ".toml":
		parser = toml.Parser()
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		// Try TOML by default
		parser = toml.Parser()
	}

	return k.Load(file.Provider(path), parser)
}
