// Package analysis runs analyzers over source files held in an
// incremental query database.
package analysis

import (
	"errors"
	"fmt"
	"iter"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/jsa/js/parser"
	"github.com/dhamidi/jsa/js/syntax"
	"github.com/dhamidi/jsa/query"
)

var log = commonlog.GetLogger("jsa.analysis")

var ErrUnknownFile = errors.New("unknown file")

// AnalysisHost owns the source database and the analyzer pipeline. It is
// not safe for concurrent use.
type AnalysisHost struct {
	db        *query.Database
	analyzers []Analyzer
}

type Option func(*AnalysisHost)

// WithAnalyzers replaces the default pipeline.
func WithAnalyzers(analyzers ...Analyzer) Option {
	return func(h *AnalysisHost) {
		h.analyzers = analyzers
	}
}

func New(opts ...Option) *AnalysisHost {
	h := &AnalysisHost{
		db:        query.NewDatabase(),
		analyzers: DefaultAnalyzers(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *AnalysisHost) Analyzers() []Analyzer {
	return h.analyzers
}

func (h *AnalysisHost) SetFileText(file FileID, text string) {
	fileText.Set(h.db, file, text)
}

func (h *AnalysisHost) SetFileOptions(file FileID, opts FileOptions) {
	fileOptions.Set(h.db, file, opts)
}

func (h *AnalysisHost) FileText(file FileID) (string, error) {
	text, ok := fileText.Get(h.db, file)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownFile, file)
	}
	return text, nil
}

func (h *AnalysisHost) checkFile(file FileID) error {
	_, err := h.FileText(file)
	return err
}

// guard turns panics raised by broken grammar rules or query cycles into
// errors. Anything else is re-raised.
func guard(err *error) {
	r := recover()
	if r == nil {
		return
	}
	var gerr *parser.GrammarError
	var cerr *query.CycleError
	if e, ok := r.(error); ok && (errors.As(e, &gerr) || errors.As(e, &cerr)) {
		log.Errorf("%s", e)
		*err = e
		return
	}
	panic(r)
}

func (h *AnalysisHost) Parse(file FileID) (result *parser.Result, err error) {
	if err := h.checkFile(file); err != nil {
		return nil, err
	}
	defer guard(&err)
	return parseQuery.Get(h.db, file), nil
}

func (h *AnalysisHost) ParseDiagnostics(file FileID) ([]*parser.Diagnostic, error) {
	result, err := h.Parse(file)
	if err != nil {
		return nil, err
	}
	return result.Diagnostics, nil
}

// QueryNodes returns the nodes of the given kinds in source order. The
// sequence can be iterated any number of times.
func (h *AnalysisHost) QueryNodes(file FileID, kinds syntax.KindSet) (nodes iter.Seq[syntax.Node], err error) {
	if err := h.checkFile(file); err != nil {
		return nil, err
	}
	defer guard(&err)
	ctx := h.context(file, nil)
	return ctx.QueryNodes(kinds.Kinds()...), nil
}

// QueryNodesInRange is QueryNodes restricted to nodes contained in rng.
func (h *AnalysisHost) QueryNodesInRange(file FileID, kinds syntax.KindSet, rng syntax.TextRange) (nodes iter.Seq[syntax.Node], err error) {
	if err := h.checkFile(file); err != nil {
		return nil, err
	}
	defer guard(&err)
	ctx := h.context(file, nil)
	return ctx.QueryNodesInRange(rng, kinds.Kinds()...), nil
}

func (h *AnalysisHost) context(file FileID, cursor *syntax.TextRange) *Context {
	return &Context{File: file, Cursor: cursor, db: h.db}
}

// Analyze runs every analyzer on file and concatenates their signals in
// pipeline order. An analyzer error aborts the run; the cached parse and
// indexes stay valid.
func (h *AnalysisHost) Analyze(file FileID, cursor *syntax.TextRange) (signal Signal, err error) {
	if err := h.checkFile(file); err != nil {
		return Signal{}, err
	}
	defer guard(&err)
	log.Debugf("analyzing %s (cursor %v)", file, cursor)
	ctx := h.context(file, cursor)
	for _, a := range h.analyzers {
		s, err := a.Analyze(ctx)
		if err != nil {
			return Signal{}, fmt.Errorf("analyzer %s: %w", a.Name(), err)
		}
		signal.Merge(s)
	}
	return signal, nil
}

// Stats reports how often each query has been recomputed.
func (h *AnalysisHost) Stats() map[string]int {
	return h.db.Stats()
}
