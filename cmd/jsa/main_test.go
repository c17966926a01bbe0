package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/dhamidi/jsa/js/syntax"
)

func newTestFs(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for path, text := range files {
		require.NoError(t, afero.WriteFile(fs, path, []byte(text), 0o644))
	}
	return fs
}

// run executes the CLI against fs. Tests here are sequential because each
// run reconfigures the global logger.
func run(fs afero.Fs, args ...string) (string, string, error) {
	var stdout, stderr bytes.Buffer
	rc := &rootCommand{
		fs:        fs,
		stdout:    &stdout,
		stderr:    &stderr,
		lookupEnv: func(string) (string, bool) { return "", false },
		getwd:     func() (string, error) { return "/proj", nil },
	}
	cmd := rc.command()
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestCheck(t *testing.T) {
	fs := newTestFs(t, map[string]string{
		"/proj/src/a.js":          "let X = a == b;\n",
		"/proj/src/.hidden/z.js":  "a == b;",
		"/proj/src/notes.txt":     "a == b",
		"/proj/src/lib/clean.mjs": "a === b;",
	})
	stdout, stderr, err := run(fs, "check", "/proj/src")
	require.ErrorIs(t, err, errProblems)
	assert.Equal(t,
		"/proj/src/a.js:1:5: warning: the name X is in all caps\n"+
			"/proj/src/a.js:1:11: warning: do not use == operator\n",
		stdout)
	assert.Contains(t, stderr, "2 files checked, 2 problems")
}

func TestCheckFix(t *testing.T) {
	fs := newTestFs(t, map[string]string{"/proj/a.js": "let X = a == b;\n"})
	stdout, stderr, err := run(fs, "check", "--fix", "/proj/a.js")
	require.ErrorIs(t, err, errProblems)
	assert.Equal(t, "/proj/a.js:1:5: warning: the name X is in all caps\n", stdout)
	assert.Contains(t, stderr, "/proj/a.js: applied 1 fixes")
	assert.Contains(t, stderr, "1 files checked, 1 problems, 1 fixed")

	data, err := afero.ReadFile(fs, "/proj/a.js")
	require.NoError(t, err)
	assert.Equal(t, "let X = a === b;\n", string(data))
}

func TestCheckClean(t *testing.T) {
	fs := newTestFs(t, map[string]string{"/proj/a.js": "let X = a === b;"})
	stdout, stderr, err := run(fs, "check", "--analyzers", "double-equals", "/proj/a.js")
	require.NoError(t, err)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "1 files checked, 0 problems")
}

func TestCheckConfigFile(t *testing.T) {
	fs := newTestFs(t, map[string]string{
		"/proj/.jsa.yaml": "analyzers: [all-caps]\n",
		"/proj/a.js":      "let X = a == b;",
	})
	stdout, _, err := run(fs, "check", "/proj/a.js")
	require.ErrorIs(t, err, errProblems)
	assert.Equal(t, "/proj/a.js:1:5: warning: the name X is in all caps\n", stdout)
}

func TestCheckErrors(t *testing.T) {
	fs := newTestFs(t, map[string]string{"/proj/a.js": "a;"})
	_, _, err := run(fs, "check", "/proj/missing")
	assert.ErrorContains(t, err, "stat /proj/missing")

	_, _, err = run(fs, "check", "--analyzers", "nope", "/proj/a.js")
	assert.ErrorContains(t, err, "unknown analyzer")

	_, _, err = run(fs, "check")
	assert.Error(t, err)
}

func TestParse(t *testing.T) {
	fs := newTestFs(t, map[string]string{"/proj/a.js": "let x, x;"})
	stdout, stderr, err := run(fs, "parse", "--format", "json", "/proj/a.js")
	require.NoError(t, err)
	require.True(t, gjson.Valid(stdout))
	assert.Equal(t, "Root", gjson.Get(stdout, "root.kind").String())
	assert.Equal(t, int64(1), gjson.Get(stdout, "diagnostics.#").Int())
	assert.Equal(t,
		"/proj/a.js:1:8: error: declarations inside of a `let` or `const` declaration may not have duplicates\n"+
			"/proj/a.js:1:5: note: x is first declared here\n",
		stderr)

	stdout, _, err = run(fs, "parse", "/proj/a.js")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "Root@0..9\n"), stdout)

	_, _, err = run(fs, "parse", "--format", "xml", "/proj/a.js")
	assert.ErrorContains(t, err, "unknown format")
}

func TestQuery(t *testing.T) {
	fs := newTestFs(t, map[string]string{"/proj/a.js": "a == b; c;"})
	stdout, _, err := run(fs, "query", "--kind", "IdentifierExpression", "/proj/a.js")
	require.NoError(t, err)
	assert.Equal(t,
		"IdentifierExpression\t0..1\t\"a\"\n"+
			"IdentifierExpression\t5..6\t\"b\"\n"+
			"IdentifierExpression\t8..9\t\"c\"\n",
		stdout)

	stdout, _, err = run(fs, "query", "--kind", "IdentifierExpression", "--range", "0:7", "/proj/a.js")
	require.NoError(t, err)
	assert.Equal(t,
		"IdentifierExpression\t0..1\t\"a\"\n"+
			"IdentifierExpression\t5..6\t\"b\"\n",
		stdout)

	_, _, err = run(fs, "query", "--kind", "Bogus", "/proj/a.js")
	assert.ErrorContains(t, err, `unknown kind "Bogus"`)
}

func TestParseRange(t *testing.T) {
	rng, err := parseRange("3:7")
	require.NoError(t, err)
	assert.Equal(t, syntax.NewRange(3, 7), rng)

	for _, bad := range []string{"", "3", "a:1", "1:b", "7:3", "-1:2"} {
		_, err := parseRange(bad)
		assert.Error(t, err, "range %q", bad)
	}
}
