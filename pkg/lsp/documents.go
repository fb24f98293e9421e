package lsp

import (
	"strings"
	"sync"

	"github.com/spf13/afero"

	"github.com/helgardferreira/cucumber-language-service/pkg/lsp/protocol"
)

// normalizeURI strips the file scheme so documents are keyed by plain path
// regardless of how the client spells the URI.
func normalizeURI(uri string) string {
	uri = strings.TrimPrefix(uri, "file://")
	uri = strings.TrimPrefix(uri, "file:")
	return uri
}

// Document is an open text document.
type Document struct {
	URI        protocol.DocumentURI
	LanguageID string
	Version    int
	Content    string
}

// DocumentManager tracks open documents, falling back to the filesystem for
// documents the client has not opened.
type DocumentManager struct {
	fs    afero.Fs
	store *sync.Map // map[string]*Document
}

func NewDocumentManager(fs afero.Fs) *DocumentManager {
	return &DocumentManager{
		fs:    fs,
		store: &sync.Map{},
	}
}

func (m *DocumentManager) Get(uri protocol.DocumentURI) (*Document, bool) {
	normalized := normalizeURI(string(uri))
	if doc, ok := m.store.Load(normalized); ok {
		return doc.(*Document), true
	}

	content, err := afero.ReadFile(m.fs, normalized)
	if err != nil {
		return nil, false
	}
	doc := &Document{
		URI:     uri,
		Content: string(content),
	}
	m.store.Store(normalized, doc)
	return doc, true
}

func (m *DocumentManager) Store(uri protocol.DocumentURI, doc *Document) {
	m.store.Store(normalizeURI(string(uri)), doc)
}

func (m *DocumentManager) Delete(uri protocol.DocumentURI) {
	m.store.Delete(normalizeURI(string(uri)))
}
