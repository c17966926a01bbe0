package lsp

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/spf13/afero"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dhamidi/jsa/analysis"
	"github.com/dhamidi/jsa/config"
	"github.com/dhamidi/jsa/js/syntax"
)

const diagnosticSource = "jsa"

// Workspace owns the analysis host for one editor session. Every method
// takes the workspace lock, so the host only ever sees one caller.
type Workspace struct {
	mu    sync.Mutex
	fs    afero.Fs
	root  string
	conf  config.Config
	host  *analysis.AnalysisHost
	urls  *UrlInterner
	open  map[analysis.FileID]bool
	known map[analysis.FileID]bool
	lines map[analysis.FileID]*LineIndex
}

func NewWorkspace(fs afero.Fs, root string, conf config.Config) (*Workspace, error) {
	analyzers, err := conf.EnabledAnalyzers()
	if err != nil {
		return nil, err
	}
	return &Workspace{
		fs:    fs,
		root:  root,
		conf:  conf,
		host:  analysis.New(analysis.WithAnalyzers(analyzers...)),
		urls:  NewUrlInterner(),
		open:  make(map[analysis.FileID]bool),
		known: make(map[analysis.FileID]bool),
		lines: make(map[analysis.FileID]*LineIndex),
	}, nil
}

func (ws *Workspace) Root() string {
	return ws.root
}

// ScanAll loads every source file under the root, skipping hidden
// directories.
func (ws *Workspace) ScanAll() error {
	return afero.Walk(ws.fs, ws.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if path != ws.root && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if ws.conf.IsSource(path) {
			if err := ws.ScanFile(path); err != nil {
				log.Errorf("scan %s: %s", path, err)
			}
		}
		return nil
	})
}

// ScanFile reads path from disk. Files open in the editor are left alone:
// the editor's buffer wins over the disk.
func (ws *Workspace) ScanFile(path string) error {
	uri := pathToURI(path)
	content, err := afero.ReadFile(ws.fs, path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	ws.mu.Lock()
	defer ws.mu.Unlock()
	if id, ok := ws.urls.Get(uri); ok && ws.open[id] {
		return nil
	}
	ws.update(uri, string(content))
	return nil
}

// UpdateFile sets the text of uri and returns its file id.
func (ws *Workspace) UpdateFile(uri, text string) analysis.FileID {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	return ws.update(uri, text)
}

func (ws *Workspace) update(uri, text string) analysis.FileID {
	id := ws.urls.Intern(uri)
	path, err := uriToPath(uri)
	if err != nil {
		path = uri
	}
	ws.host.SetFileOptions(id, ws.conf.FileOptions(path))
	ws.host.SetFileText(id, text)
	ws.known[id] = true
	ws.lines[id] = NewLineIndex(text)
	log.Debugf("updated %s as %s (%d bytes)", uri, id, len(text))
	return id
}

// OpenFile marks uri as owned by the editor and sets its text.
func (ws *Workspace) OpenFile(uri, text string) analysis.FileID {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	id := ws.update(uri, text)
	ws.open[id] = true
	return id
}

// ChangeFile applies editor content changes to an open file. Whole-text
// changes replace the buffer; ranged changes are spliced in order.
func (ws *Workspace) ChangeFile(uri string, changes []any) error {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	id, ok := ws.urls.Get(uri)
	if !ok || !ws.known[id] {
		return fmt.Errorf("%s: %w", uri, analysis.ErrUnknownFile)
	}
	text, err := ws.host.FileText(id)
	if err != nil {
		return err
	}
	for _, change := range changes {
		switch change := change.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			text = change.Text
		case protocol.TextDocumentContentChangeEvent:
			rng := NewLineIndex(text).TextRange(*change.Range)
			text = text[:rng.Start] + change.Text + text[rng.End:]
		default:
			return fmt.Errorf("unsupported content change %T", change)
		}
	}
	ws.update(uri, text)
	return nil
}

// CloseFile hands uri back to the disk. The file is reread if it exists
// there and forgotten otherwise.
func (ws *Workspace) CloseFile(uri string) {
	ws.mu.Lock()
	id, ok := ws.urls.Get(uri)
	if ok {
		delete(ws.open, id)
	}
	ws.mu.Unlock()
	if !ok {
		return
	}
	path, err := uriToPath(uri)
	if err == nil {
		err = ws.ScanFile(path)
	}
	if err != nil {
		ws.RemoveFile(uri)
	}
}

// RemoveFile forgets a file that is gone from disk. Its id stays
// interned; its text becomes empty.
func (ws *Workspace) RemoveFile(uri string) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	id, ok := ws.urls.Get(uri)
	if !ok || ws.open[id] {
		return
	}
	ws.host.SetFileText(id, "")
	delete(ws.known, id)
	delete(ws.lines, id)
}

func (ws *Workspace) IsOpen(uri string) bool {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	id, ok := ws.urls.Get(uri)
	return ok && ws.open[id]
}

// Files returns the URIs of every known file, sorted.
func (ws *Workspace) Files() []string {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	files := make([]string, 0, len(ws.known))
	for id := range ws.known {
		files = append(files, ws.urls.Lookup(id))
	}
	slices.Sort(files)
	return files
}

// Text returns the current text of uri as the host sees it.
func (ws *Workspace) Text(uri string) (string, error) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	id, _, err := ws.file(uri)
	if err != nil {
		return "", err
	}
	return ws.host.FileText(id)
}

func (ws *Workspace) file(uri string) (analysis.FileID, *LineIndex, error) {
	id, ok := ws.urls.Get(uri)
	if !ok || !ws.known[id] {
		return 0, nil, fmt.Errorf("%s: %w", uri, analysis.ErrUnknownFile)
	}
	return id, ws.lines[id], nil
}

// Diagnostics returns the parse errors and analyzer findings of uri.
func (ws *Workspace) Diagnostics(uri string) ([]protocol.Diagnostic, error) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	id, lines, err := ws.file(uri)
	if err != nil {
		return nil, err
	}
	parseDiags, err := ws.host.ParseDiagnostics(id)
	if err != nil {
		return nil, err
	}
	signal, err := ws.host.Analyze(id, nil)
	if err != nil {
		return nil, err
	}

	diags := make([]protocol.Diagnostic, 0, len(parseDiags)+len(signal.Diagnostics))
	for _, d := range parseDiags {
		diag := newDiagnostic(lines, d.Range, d.Message, protocol.DiagnosticSeverityError)
		for _, label := range d.Secondary {
			diag.RelatedInformation = append(diag.RelatedInformation, protocol.DiagnosticRelatedInformation{
				Location: protocol.Location{URI: uri, Range: lines.Range(label.Range)},
				Message:  label.Message,
			})
		}
		diags = append(diags, diag)
	}
	for _, d := range signal.Diagnostics {
		diags = append(diags, newDiagnostic(lines, d.Range, d.Message, protocol.DiagnosticSeverityWarning))
	}
	return diags, nil
}

// CodeActions returns the fixes and refactorings analyzers offer for rng.
func (ws *Workspace) CodeActions(uri string, rng protocol.Range) ([]protocol.CodeAction, error) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	id, lines, err := ws.file(uri)
	if err != nil {
		return nil, err
	}
	cursor := lines.TextRange(rng)
	signal, err := ws.host.Analyze(id, &cursor)
	if err != nil {
		return nil, err
	}

	actions := make([]protocol.CodeAction, 0, len(signal.Actions))
	for _, a := range signal.Actions {
		kind := protocol.CodeActionKindRefactorRewrite
		if a.IsFix() {
			kind = protocol.CodeActionKindQuickFix
		}
		edits := make([]protocol.TextEdit, 0, len(a.Replacements))
		for _, r := range a.Replacements {
			edits = append(edits, protocol.TextEdit{Range: lines.Range(r.Range()), NewText: r.Text()})
		}
		action := protocol.CodeAction{
			Title: a.Title,
			Kind:  &kind,
			Edit:  &protocol.WorkspaceEdit{Changes: map[protocol.DocumentUri][]protocol.TextEdit{uri: edits}},
		}
		for _, d := range a.Diagnostics {
			action.Diagnostics = append(action.Diagnostics, newDiagnostic(lines, d.Range, d.Message, protocol.DiagnosticSeverityWarning))
		}
		actions = append(actions, action)
	}
	return actions, nil
}

func newDiagnostic(lines *LineIndex, rng syntax.TextRange, msg string, severity protocol.DiagnosticSeverity) protocol.Diagnostic {
	source := diagnosticSource
	return protocol.Diagnostic{
		Range:    lines.Range(rng),
		Severity: &severity,
		Source:   &source,
		Message:  msg,
	}
}

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}

func pathToURI(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String()
}
