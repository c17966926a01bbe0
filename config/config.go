// Package config loads jsa settings. Values are layered: built-in
// defaults, then a YAML file, then JSA_* environment variables, and last
// command line flags, each layer overriding only what it sets.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/mstoykov/envconfig"
	"github.com/spf13/afero"
	"gopkg.in/guregu/null.v3"
	"gopkg.in/yaml.v3"

	"github.com/dhamidi/jsa/analysis"
)

// FileName is the configuration file looked up in the workspace root.
const FileName = ".jsa.yaml"

type Config struct {
	// Analyzers lists the enabled analyzers. They always run in the
	// host's fixed order.
	Analyzers []string     `yaml:"analyzers"`
	Parser    ParserConfig `yaml:"parser"`
	Log       LogConfig    `yaml:"log"`
	Watch     WatchConfig  `yaml:"watch"`
}

type ParserConfig struct {
	TypeScriptExtensions []string `yaml:"typescript_extensions"`
	ModuleExtensions     []string `yaml:"module_extensions"`
}

type LogConfig struct {
	Verbosity null.Int    `yaml:"verbosity"`
	File      null.String `yaml:"file"`
}

type WatchConfig struct {
	Enabled  null.Bool    `yaml:"enabled"`
	Interval NullDuration `yaml:"interval"`
}

// envConfig is the flat environment view of Config.
type envConfig struct {
	Analyzers            []string     `envconfig:"JSA_ANALYZERS"`
	TypeScriptExtensions []string     `envconfig:"JSA_PARSER_TYPESCRIPT_EXTENSIONS"`
	ModuleExtensions     []string     `envconfig:"JSA_PARSER_MODULE_EXTENSIONS"`
	LogVerbosity         null.Int     `envconfig:"JSA_LOG_VERBOSITY"`
	LogFile              null.String  `envconfig:"JSA_LOG_FILE"`
	WatchEnabled         null.Bool    `envconfig:"JSA_WATCH_ENABLED"`
	WatchInterval        NullDuration `envconfig:"JSA_WATCH_INTERVAL"`
}

func Default() Config {
	return Config{
		Analyzers: analysis.AnalyzerNames(),
		Parser: ParserConfig{
			TypeScriptExtensions: []string{".ts", ".tsx", ".mts", ".cts"},
			ModuleExtensions:     []string{".mjs", ".mts"},
		},
		Log: LogConfig{
			Verbosity: null.IntFrom(0),
		},
		Watch: WatchConfig{
			Enabled:  null.BoolFrom(true),
			Interval: NullDurationFrom(time.Second),
		},
	}
}

// Apply returns c overridden by every value set in other.
func (c Config) Apply(other Config) Config {
	if other.Analyzers != nil {
		c.Analyzers = other.Analyzers
	}
	if other.Parser.TypeScriptExtensions != nil {
		c.Parser.TypeScriptExtensions = other.Parser.TypeScriptExtensions
	}
	if other.Parser.ModuleExtensions != nil {
		c.Parser.ModuleExtensions = other.Parser.ModuleExtensions
	}
	if other.Log.Verbosity.Valid {
		c.Log.Verbosity = other.Log.Verbosity
	}
	if other.Log.File.Valid {
		c.Log.File = other.Log.File
	}
	if other.Watch.Enabled.Valid {
		c.Watch.Enabled = other.Watch.Enabled
	}
	if other.Watch.Interval.Valid {
		c.Watch.Interval = other.Watch.Interval
	}
	return c
}

// ReadFile reads a YAML configuration file.
func ReadFile(fs afero.Fs, path string) (Config, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}
	var conf Config
	if err := yaml.Unmarshal(data, &conf); err != nil {
		return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return conf, nil
}

// ReadEnv reads JSA_* variables through lookup, or the process
// environment when lookup is nil.
func ReadEnv(lookup func(string) (string, bool)) (Config, error) {
	var env envConfig
	var err error
	if lookup != nil {
		err = envconfig.Process("", &env, lookup)
	} else {
		err = envconfig.Process("", &env)
	}
	if err != nil {
		return Config{}, fmt.Errorf("read environment: %w", err)
	}
	return Config{
		Analyzers: env.Analyzers,
		Parser: ParserConfig{
			TypeScriptExtensions: env.TypeScriptExtensions,
			ModuleExtensions:     env.ModuleExtensions,
		},
		Log:   LogConfig{Verbosity: env.LogVerbosity, File: env.LogFile},
		Watch: WatchConfig{Enabled: env.WatchEnabled, Interval: env.WatchInterval},
	}, nil
}

// FindFile returns the path of the configuration file in dir, or "" when
// there is none.
func FindFile(fs afero.Fs, dir string) string {
	path := filepath.Join(dir, FileName)
	if _, err := fs.Stat(path); err != nil {
		return ""
	}
	return path
}

// Load layers the defaults, the file at path (skipped when path is empty)
// and the environment.
func Load(fs afero.Fs, path string, lookup func(string) (string, bool)) (Config, error) {
	conf := Default()
	if path != "" {
		fileConf, err := ReadFile(fs, path)
		if err != nil {
			return Config{}, err
		}
		conf = conf.Apply(fileConf)
	}
	envConf, err := ReadEnv(lookup)
	if err != nil {
		return Config{}, err
	}
	conf = conf.Apply(envConf)
	if err := conf.Validate(); err != nil {
		return Config{}, err
	}
	return conf, nil
}

func (c Config) Validate() error {
	var errs []error
	if _, err := analysis.SelectAnalyzers(c.Analyzers); err != nil {
		errs = append(errs, err)
	}
	if c.Log.Verbosity.Valid && c.Log.Verbosity.Int64 < 0 {
		errs = append(errs, fmt.Errorf("log.verbosity must not be negative, got %d", c.Log.Verbosity.Int64))
	}
	if c.Watch.Interval.Valid && c.Watch.Interval.Duration <= 0 {
		errs = append(errs, fmt.Errorf("watch.interval must be positive, got %s", c.Watch.Interval.Duration))
	}
	return errors.Join(errs...)
}

// EnabledAnalyzers returns the enabled analyzers in host order.
func (c Config) EnabledAnalyzers() ([]analysis.Analyzer, error) {
	return analysis.SelectAnalyzers(c.Analyzers)
}

// FileOptions picks parser options from the extension of path.
func (c Config) FileOptions(path string) analysis.FileOptions {
	ext := strings.ToLower(filepath.Ext(path))
	return analysis.FileOptions{
		TypeScript: slices.Contains(c.Parser.TypeScriptExtensions, ext),
		Module:     slices.Contains(c.Parser.ModuleExtensions, ext),
	}
}

// SourceExtensions lists every extension jsa treats as a source file.
func (c Config) SourceExtensions() []string {
	exts := []string{".js", ".jsx", ".cjs"}
	for _, ext := range slices.Concat(c.Parser.TypeScriptExtensions, c.Parser.ModuleExtensions) {
		if !slices.Contains(exts, ext) {
			exts = append(exts, ext)
		}
	}
	return exts
}

// IsSource reports whether path has one of SourceExtensions.
func (c Config) IsSource(path string) bool {
	return slices.Contains(c.SourceExtensions(), strings.ToLower(filepath.Ext(path)))
}

// LogFile returns the configured log file path or nil for stderr, in the
// form commonlog.Configure expects.
func (c Config) LogFile() *string {
	if !c.Log.File.Valid {
		return nil
	}
	path := os.ExpandEnv(c.Log.File.String)
	return &path
}
