package config

import (
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/guregu/null.v3"

	"github.com/dhamidi/jsa/analysis"
)

func envLookup(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func writeFile(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
}

func TestDefault(t *testing.T) {
	t.Parallel()

	conf, err := Load(afero.NewMemMapFs(), "", envLookup(nil))
	require.NoError(t, err)
	assert.Equal(t, Default(), conf)
	assert.Equal(t, analysis.AnalyzerNames(), conf.Analyzers)
	assert.True(t, conf.Watch.Enabled.Bool)
	assert.Equal(t, time.Second, conf.Watch.Interval.Duration)
	assert.Nil(t, conf.LogFile())
}

func TestLayering(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/ws/.jsa.yaml", `
analyzers: [double-equals, all-caps]
parser:
  typescript_extensions: [.ts]
log:
  verbosity: 2
  file: /tmp/jsa.log
watch:
  interval: 5s
`)

	tests := []struct {
		name   string
		path   string
		env    map[string]string
		expect func(t *testing.T, c Config)
	}{
		{
			name: "file overrides defaults",
			path: "/ws/.jsa.yaml",
			expect: func(t *testing.T, c Config) {
				assert.Equal(t, []string{"double-equals", "all-caps"}, c.Analyzers)
				assert.Equal(t, []string{".ts"}, c.Parser.TypeScriptExtensions)
				assert.Equal(t, Default().Parser.ModuleExtensions, c.Parser.ModuleExtensions)
				assert.Equal(t, null.IntFrom(2), c.Log.Verbosity)
				assert.Equal(t, 5*time.Second, c.Watch.Interval.Duration)
				assert.True(t, c.Watch.Enabled.Bool, "unset keys keep their default")
			},
		},
		{
			name: "environment overrides file",
			path: "/ws/.jsa.yaml",
			env: map[string]string{
				"JSA_ANALYZERS":      "swap-condition",
				"JSA_LOG_VERBOSITY":  "0",
				"JSA_WATCH_ENABLED":  "false",
				"JSA_WATCH_INTERVAL": "250ms",
			},
			expect: func(t *testing.T, c Config) {
				assert.Equal(t, []string{"swap-condition"}, c.Analyzers)
				assert.Equal(t, null.IntFrom(0), c.Log.Verbosity)
				assert.Equal(t, null.BoolFrom(false), c.Watch.Enabled)
				assert.Equal(t, 250*time.Millisecond, c.Watch.Interval.Duration)
				assert.Equal(t, "/tmp/jsa.log", c.Log.File.String)
			},
		},
		{
			name: "environment overrides defaults without a file",
			env: map[string]string{
				"JSA_PARSER_MODULE_EXTENSIONS": ".js,.mjs",
			},
			expect: func(t *testing.T, c Config) {
				assert.Equal(t, []string{".js", ".mjs"}, c.Parser.ModuleExtensions)
				assert.Equal(t, Default().Analyzers, c.Analyzers)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			conf, err := Load(fs, tt.path, envLookup(tt.env))
			require.NoError(t, err)
			tt.expect(t, conf)
		})
	}
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/bad.yaml", "analyzers: [nope]\n")
	writeFile(t, fs, "/broken.yaml", "watch: [\n")
	writeFile(t, fs, "/interval.yaml", "watch:\n  interval: 0s\n")

	_, err := Load(fs, "/missing.yaml", envLookup(nil))
	assert.ErrorContains(t, err, "read config file")

	_, err = Load(fs, "/bad.yaml", envLookup(nil))
	assert.ErrorIs(t, err, analysis.ErrUnknownAnalyzer)

	_, err = Load(fs, "/broken.yaml", envLookup(nil))
	assert.ErrorContains(t, err, "parse config file")

	_, err = Load(fs, "/interval.yaml", envLookup(nil))
	assert.ErrorContains(t, err, "watch.interval")

	_, err = Load(fs, "", envLookup(map[string]string{"JSA_WATCH_INTERVAL": "soon"}))
	assert.Error(t, err)
}

func TestFindFile(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	assert.Equal(t, "", FindFile(fs, "/ws"))
	writeFile(t, fs, "/ws/.jsa.yaml", "")
	assert.Equal(t, "/ws/.jsa.yaml", FindFile(fs, "/ws"))

	conf, err := Load(fs, FindFile(fs, "/ws"), envLookup(nil))
	require.NoError(t, err)
	assert.Equal(t, Default(), conf)
}

func TestFileOptions(t *testing.T) {
	t.Parallel()

	conf := Default()
	assert.Equal(t, analysis.FileOptions{}, conf.FileOptions("a/b.js"))
	assert.Equal(t, analysis.FileOptions{TypeScript: true}, conf.FileOptions("a/b.TS"))
	assert.Equal(t, analysis.FileOptions{Module: true}, conf.FileOptions("b.mjs"))
	assert.Equal(t, analysis.FileOptions{TypeScript: true, Module: true}, conf.FileOptions("b.mts"))

	assert.True(t, conf.IsSource("x.jsx"))
	assert.True(t, conf.IsSource("x.cts"))
	assert.False(t, conf.IsSource("x.go"))
}

func TestEnabledAnalyzersKeepHostOrder(t *testing.T) {
	t.Parallel()

	conf := Default()
	conf.Analyzers = []string{"swap-condition", "all-caps"}
	analyzers, err := conf.EnabledAnalyzers()
	require.NoError(t, err)
	require.Len(t, analyzers, 2)
	assert.Equal(t, "all-caps", analyzers[0].Name())
	assert.Equal(t, "swap-condition", analyzers[1].Name())
}

func TestNullDuration(t *testing.T) {
	t.Parallel()

	var d NullDuration
	require.NoError(t, d.UnmarshalText([]byte("1m30s")))
	assert.Equal(t, NullDurationFrom(90*time.Second), d)

	require.NoError(t, d.UnmarshalText(nil))
	assert.False(t, d.Valid)

	assert.Error(t, d.UnmarshalText([]byte("fast")))

	text, err := NullDurationFrom(time.Second).MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "1s", string(text))
}
