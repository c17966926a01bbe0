package lsp

import "github.com/dhamidi/jsa/analysis"

// UrlInterner maps document URIs to dense file ids. Ids are handed out in
// interning order starting at zero and never change.
type UrlInterner struct {
	ids  map[string]analysis.FileID
	urls []string
}

func NewUrlInterner() *UrlInterner {
	return &UrlInterner{ids: make(map[string]analysis.FileID)}
}

// Get returns the id of uri if it has been interned.
func (in *UrlInterner) Get(uri string) (analysis.FileID, bool) {
	id, ok := in.ids[uri]
	return id, ok
}

// Intern returns the id of uri, allocating one on first use.
func (in *UrlInterner) Intern(uri string) analysis.FileID {
	if id, ok := in.ids[uri]; ok {
		return id
	}
	id := analysis.FileID(len(in.urls))
	in.ids[uri] = id
	in.urls = append(in.urls, uri)
	return id
}

// Lookup returns the URI interned as id. It panics for ids this interner
// never handed out.
func (in *UrlInterner) Lookup(id analysis.FileID) string {
	return in.urls[id]
}

func (in *UrlInterner) Len() int {
	return len(in.urls)
}
