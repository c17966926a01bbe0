// Package lsp serves jsa's analyses to editors over the language server
// protocol.
package lsp

import (
	"errors"
	"sync"

	"github.com/spf13/afero"
	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"github.com/dhamidi/jsa/analysis"
	"github.com/dhamidi/jsa/config"
)

const lsName = "jsa"

var log = commonlog.GetLogger("jsa.lsp")

type Server struct {
	conf    config.Config
	fs      afero.Fs
	handler protocol.Handler
	server  *server.Server
	version string

	mu        sync.Mutex
	workspace *Workspace
	watcher   *Watcher
	notify    glsp.NotifyFunc
}

func NewServer(version string, conf config.Config, fs afero.Fs) *Server {
	ls := &Server{
		conf:    conf,
		fs:      fs,
		version: version,
	}

	ls.handler = protocol.Handler{
		Initialize:             ls.initialize,
		Initialized:            ls.initialized,
		Shutdown:               ls.shutdown,
		SetTrace:               ls.setTrace,
		TextDocumentDidOpen:    ls.textDocumentDidOpen,
		TextDocumentDidChange:  ls.textDocumentDidChange,
		TextDocumentDidClose:   ls.textDocumentDidClose,
		TextDocumentDidSave:    ls.textDocumentDidSave,
		TextDocumentCodeAction: ls.textDocumentCodeAction,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *Server) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *Server) RunTCP(address string) error {
	return ls.server.RunTCP(address)
}

// Workspace returns the workspace created by initialize, or nil before it.
func (ls *Server) Workspace() *Workspace {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	return ls.workspace
}

func (ls *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	rootDir := "."
	if params.RootPath != nil && *params.RootPath != "" {
		rootDir = *params.RootPath
	} else if params.RootURI != nil && *params.RootURI != "" {
		if path, err := uriToPath(*params.RootURI); err == nil {
			rootDir = path
		}
	}

	ws, err := NewWorkspace(ls.fs, rootDir, ls.conf)
	if err != nil {
		log.Errorf("initialize: %s", err)
		return nil, err
	}
	ls.mu.Lock()
	ls.workspace = ws
	ls.mu.Unlock()
	log.Infof("initialized workspace at %s", rootDir)

	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}
	capabilities.CodeActionProvider = &protocol.CodeActionOptions{
		CodeActionKinds: []protocol.CodeActionKind{
			protocol.CodeActionKindQuickFix,
			protocol.CodeActionKindRefactorRewrite,
		},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	ws := ls.Workspace()
	if ws == nil {
		return nil
	}
	if err := ws.ScanAll(); err != nil {
		log.Errorf("scan %s: %s", ws.Root(), err)
	}
	log.Infof("loaded %d files", len(ws.Files()))

	ls.mu.Lock()
	defer ls.mu.Unlock()
	ls.notify = ctx.Notify
	if ls.conf.Watch.Enabled.Bool && ls.watcher == nil {
		ls.watcher = NewWatcher(ws, ls.conf.Watch.Interval.Duration)
		ls.watcher.OnChange = ls.watchedFileChanged
		ls.watcher.Start()
	}
	return nil
}

func (ls *Server) watchedFileChanged(uri string) {
	ls.mu.Lock()
	notify := ls.notify
	ls.mu.Unlock()
	if notify != nil {
		ls.publishDiagnostics(notify, uri)
	}
}

func (ls *Server) shutdown(ctx *glsp.Context) error {
	ls.mu.Lock()
	watcher := ls.watcher
	ls.watcher = nil
	ls.mu.Unlock()
	if watcher != nil {
		watcher.Stop()
	}
	return nil
}

func (ls *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	ws := ls.Workspace()
	if ws == nil {
		return nil
	}
	ws.OpenFile(params.TextDocument.URI, params.TextDocument.Text)
	ls.publishDiagnostics(ctx.Notify, params.TextDocument.URI)
	return nil
}

func (ls *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	ws := ls.Workspace()
	if ws == nil {
		return nil
	}
	uri := params.TextDocument.URI
	if err := ws.ChangeFile(uri, params.ContentChanges); err != nil {
		log.Errorf("didChange: %s", err)
		return nil
	}
	ls.publishDiagnostics(ctx.Notify, uri)
	return nil
}

func (ls *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	ws := ls.Workspace()
	if ws == nil {
		return nil
	}
	ws.CloseFile(params.TextDocument.URI)
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})
	return nil
}

func (ls *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	ws := ls.Workspace()
	if ws == nil {
		return nil
	}
	if params.Text != nil {
		ws.UpdateFile(params.TextDocument.URI, *params.Text)
	}
	ls.publishDiagnostics(ctx.Notify, params.TextDocument.URI)
	return nil
}

func (ls *Server) textDocumentCodeAction(ctx *glsp.Context, params *protocol.CodeActionParams) (any, error) {
	ws := ls.Workspace()
	if ws == nil {
		return nil, nil
	}
	actions, err := ws.CodeActions(params.TextDocument.URI, params.Range)
	if err != nil {
		log.Errorf("codeAction: %s", err)
		return nil, err
	}
	log.Debugf("codeAction %s: %d actions", params.TextDocument.URI, len(actions))
	return actions, nil
}

func (ls *Server) publishDiagnostics(notify glsp.NotifyFunc, uri string) {
	diags, err := ls.Workspace().Diagnostics(uri)
	if errors.Is(err, analysis.ErrUnknownFile) {
		// gone from disk: clear what the editor still shows
		diags = []protocol.Diagnostic{}
	} else if err != nil {
		log.Errorf("diagnostics %s: %s", uri, err)
		return
	}
	notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diags,
	})
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(kind protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &kind
}
