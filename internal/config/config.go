// Package config loads relayts settings from defaults, an optional
// relayts.yaml and RELAYTS_* environment variables, in increasing
// precedence. Command-line flags are applied on top by the CLI.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"

	"github.com/roach88/relayts/internal/codegen"
)

// FileName is the project config file searched for by Find.
const FileName = "relayts.yaml"

// EnvPrefix prefixes every environment override, e.g. RELAYTS_OUTPUT.
const EnvPrefix = "RELAYTS"

// Config is the full driver configuration.
type Config struct {
	Source  string `mapstructure:"source"`
	Output  string `mapstructure:"output"`
	Cache   string `mapstructure:"cache"` // empty disables the artifact cache
	Workers int    `mapstructure:"workers"`

	// CustomScalars is a list rather than a map because viper lowercases
	// map keys and scalar names are case sensitive.
	CustomScalars []ScalarMapping `mapstructure:"custom_scalars"`

	EnumsHasteModule           string   `mapstructure:"enums_haste_module"`
	ExistingFragmentNames      []string `mapstructure:"existing_fragment_names"`
	OptionalInputFields        []string `mapstructure:"optional_input_fields"`
	UseHaste                   bool     `mapstructure:"use_haste"`
	UseSingleArtifactDirectory bool     `mapstructure:"use_single_artifact_directory"`
	NoFutureProofEnums         bool     `mapstructure:"no_future_proof_enums"`
	StrictScalars              bool     `mapstructure:"strict_scalars"`
}

// ScalarMapping maps one schema scalar to a TypeScript type.
type ScalarMapping struct {
	Scalar string `mapstructure:"scalar"`
	Type   string `mapstructure:"type"`
}

// SetDefaults registers every key so environment overrides apply even
// when no config file sets them.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("source", ".")
	v.SetDefault("output", "__generated__")
	v.SetDefault("cache", "")
	v.SetDefault("workers", 0)
	v.SetDefault("custom_scalars", []map[string]string{})
	v.SetDefault("enums_haste_module", "")
	v.SetDefault("existing_fragment_names", []string{})
	v.SetDefault("optional_input_fields", []string{})
	v.SetDefault("use_haste", false)
	v.SetDefault("use_single_artifact_directory", false)
	v.SetDefault("no_future_proof_enums", false)
	v.SetDefault("strict_scalars", false)
}

// New returns a viper instance with defaults and environment binding.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

// Load reads configuration into v and decodes it. path selects an explicit
// config file; when empty, Find searches upward from the working directory
// and a missing file is not an error.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "get working directory")
		}
		path = Find(wd)
	}
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config file %s", path)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}
	if err := cfg.Validate(); err != nil {
		if path != "" {
			return nil, errors.WithHintf(err, "check %s", path)
		}
		return nil, err
	}
	return &cfg, nil
}

// Find walks up from dir looking for FileName and returns its path, or ""
// when the filesystem root is reached without a match.
func Find(dir string) string {
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// Validate checks values viper cannot type-check.
func (c *Config) Validate() error {
	if c.Workers < 0 {
		return errors.Newf("workers must be >= 0, got %d", c.Workers)
	}
	seen := make(map[string]bool)
	for i, m := range c.CustomScalars {
		if m.Scalar == "" || m.Type == "" {
			return errors.Newf("custom_scalars[%d]: scalar and type are both required", i)
		}
		if seen[m.Scalar] {
			return errors.Newf("custom_scalars[%d]: scalar %q mapped twice", i, m.Scalar)
		}
		seen[m.Scalar] = true
	}
	if c.UseHaste && c.UseSingleArtifactDirectory {
		return errors.New("use_haste and use_single_artifact_directory are mutually exclusive")
	}
	return nil
}

// CodegenOptions converts the configuration into generator options.
func (c *Config) CodegenOptions() codegen.Options {
	var scalars map[string]string
	if len(c.CustomScalars) > 0 {
		scalars = make(map[string]string, len(c.CustomScalars))
		for _, m := range c.CustomScalars {
			scalars[m.Scalar] = m.Type
		}
	}
	return codegen.Options{
		CustomScalars:              scalars,
		EnumsHasteModule:           c.EnumsHasteModule,
		ExistingFragmentNames:      c.ExistingFragmentNames,
		OptionalInputFields:        c.OptionalInputFields,
		UseHaste:                   c.UseHaste,
		UseSingleArtifactDirectory: c.UseSingleArtifactDirectory,
		NoFutureProofEnums:         c.NoFutureProofEnums,
		StrictScalars:              c.StrictScalars,
	}
}
