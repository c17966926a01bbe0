package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/afero"

	"github.com/dhamidi/jsa/analysis"
	"github.com/dhamidi/jsa/js/parser"
	"github.com/dhamidi/jsa/js/syntax"
	"github.com/dhamidi/jsa/lsp"
)

// session is an analysis host over files read from disk for one command.
type session struct {
	rc    *rootCommand
	host  *analysis.AnalysisHost
	paths []string
	texts []string
}

func (rc *rootCommand) newSession() (*session, error) {
	analyzers, err := rc.conf.EnabledAnalyzers()
	if err != nil {
		return nil, err
	}
	return &session{rc: rc, host: analysis.New(analysis.WithAnalyzers(analyzers...))}, nil
}

func (s *session) add(path string) (analysis.FileID, error) {
	data, err := afero.ReadFile(s.rc.fs, path)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", path, err)
	}
	id := analysis.FileID(len(s.paths))
	s.host.SetFileOptions(id, s.rc.conf.FileOptions(path))
	s.host.SetFileText(id, string(data))
	s.paths = append(s.paths, path)
	s.texts = append(s.texts, string(data))
	return id, nil
}

// update replaces the text of a file already in the session.
func (s *session) update(id analysis.FileID, text string) {
	s.host.SetFileText(id, text)
	s.texts[id] = text
}

// collectFiles expands directories into the source files below them.
// Files named explicitly are kept whatever their extension.
func (rc *rootCommand) collectFiles(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := rc.fs.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", arg, err)
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		err = afero.Walk(rc.fs, arg, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				if path != arg && strings.HasPrefix(info.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if rc.conf.IsSource(path) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", arg, err)
		}
	}
	return files, nil
}

// printer writes diagnostics as path:line:column: severity: message.
type printer struct {
	w      io.Writer
	colors map[string]*color.Color
}

func (rc *rootCommand) newPrinter(w io.Writer) *printer {
	colors := map[string]*color.Color{
		"error":   color.New(color.FgRed, color.Bold),
		"warning": color.New(color.FgYellow, color.Bold),
		"note":    color.New(color.FgCyan),
		"path":    color.New(color.Bold),
	}
	for _, c := range colors {
		if rc.colorful {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return &printer{w: w, colors: colors}
}

func (p *printer) print(path string, lines *lsp.LineIndex, rng syntax.TextRange, severity, msg string) {
	pos := lines.Position(rng.Start)
	loc := fmt.Sprintf("%s:%d:%d:", path, pos.Line+1, pos.Character+1)
	fmt.Fprintf(p.w, "%s %s %s\n", p.colors["path"].Sprint(loc), p.colors[severity].Sprint(severity+":"), msg)
}

func (p *printer) printParseDiagnostic(path string, lines *lsp.LineIndex, d *parser.Diagnostic) {
	p.print(path, lines, d.Range, "error", d.Message)
	for _, label := range d.Secondary {
		p.print(path, lines, label.Range, "note", label.Message)
	}
}
