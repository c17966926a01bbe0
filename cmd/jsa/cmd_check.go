package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/dhamidi/jsa/analysis"
	"github.com/dhamidi/jsa/js/syntax"
	"github.com/dhamidi/jsa/lsp"
)

var errProblems = errors.New("problems found")

func (rc *rootCommand) newCheckCmd() *cobra.Command {
	var fix bool

	cmd := &cobra.Command{
		Use:   "check <path>...",
		Short: "Run the analyzers over files and directories",
		Long: `Run the enabled analyzers over the given files and every source file
below the given directories, printing parse errors and analyzer findings.

With --fix, every fix the analyzers offer is applied in place. Fixes whose
edits overlap an earlier fix are skipped.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rc.runCheck(args, fix)
		},
	}

	cmd.Flags().BoolVar(&fix, "fix", false, "apply fixes in place")

	return cmd
}

func (rc *rootCommand) runCheck(args []string, fix bool) error {
	files, err := rc.collectFiles(args)
	if err != nil {
		return err
	}
	s, err := rc.newSession()
	if err != nil {
		return err
	}
	p := rc.newPrinter(rc.stdout)

	problems, fixed := 0, 0
	for _, path := range files {
		id, err := s.add(path)
		if err != nil {
			return err
		}
		text := s.texts[id]
		lines := lsp.NewLineIndex(text)

		parseDiags, err := s.host.ParseDiagnostics(id)
		if err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		var cursor *syntax.TextRange
		if fix {
			whole := syntax.NewRange(0, len(text))
			cursor = &whole
		}
		signal, err := s.host.Analyze(id, cursor)
		if err != nil {
			return fmt.Errorf("analyze %s: %w", path, err)
		}

		if fix && len(signal.Actions) > 0 {
			out, n, err := rc.applyFixes(path, text, signal)
			if err != nil {
				return err
			}
			if n > 0 {
				fmt.Fprintf(rc.stderr, "%s: applied %d fixes\n", path, n)
				fixed += n
				s.update(id, out)
				text = out
				lines = lsp.NewLineIndex(text)
				if parseDiags, err = s.host.ParseDiagnostics(id); err != nil {
					return fmt.Errorf("parse %s: %w", path, err)
				}
				if signal, err = s.host.Analyze(id, nil); err != nil {
					return fmt.Errorf("analyze %s: %w", path, err)
				}
			}
		}

		for _, d := range parseDiags {
			p.printParseDiagnostic(path, lines, d)
		}
		for _, d := range signal.Diagnostics {
			p.print(path, lines, d.Range, "warning", d.Message)
		}
		problems += len(parseDiags) + len(signal.Diagnostics)
	}

	fmt.Fprintf(rc.stderr, "%d files checked, %d problems", len(files), problems)
	if fix {
		fmt.Fprintf(rc.stderr, ", %d fixed", fixed)
	}
	fmt.Fprintln(rc.stderr)
	if problems > 0 {
		return fmt.Errorf("%d %w", problems, errProblems)
	}
	return nil
}

// applyFixes writes the fixed text of path back to disk and returns it
// with the number of fixes applied.
func (rc *rootCommand) applyFixes(path, text string, signal analysis.Signal) (string, int, error) {
	out, n, err := analysis.ApplyFixes(text, signal)
	if err != nil {
		return "", 0, fmt.Errorf("fix %s: %w", path, err)
	}
	if n == 0 {
		return text, 0, nil
	}
	perm := os.FileMode(0o644)
	if info, err := rc.fs.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}
	if err := afero.WriteFile(rc.fs, path, []byte(out), perm); err != nil {
		return "", 0, fmt.Errorf("write %s: %w", path, err)
	}
	return out, n, nil
}
