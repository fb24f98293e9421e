// Package lsp implements the language server: document lifecycle, workspace
// indexing, and step-definition navigation.
package lsp

import (
	"context"
	"os"
	"regexp"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/xid"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"

	"github.com/helgardferreira/cucumber-language-service/pkg/config"
	"github.com/helgardferreira/cucumber-language-service/pkg/feature"
	"github.com/helgardferreira/cucumber-language-service/pkg/language"
	"github.com/helgardferreira/cucumber-language-service/pkg/locate"
	"github.com/helgardferreira/cucumber-language-service/pkg/lsp/protocol"
	"github.com/helgardferreira/cucumber-language-service/pkg/stepdef"
)

// Server is the language server instance. It implements protocol.Server.
type Server struct {
	documents *DocumentManager
	fs        afero.Fs
	builder   *stepdef.Builder
	cfg       *config.Config

	workspace          string
	workspaceFSWatcher *fsnotify.Watcher

	initialized bool
	shutdown    bool

	id string

	// index is rebuilt lazily: watcher and didChange events only mark it
	// dirty, the next definition request pays for the rebuild.
	mu         sync.Mutex
	index      *stepdef.Index
	indexDirty bool
}

var _ protocol.Server = (*Server)(nil)

func NewServer(ctx context.Context, cfg *config.Config) *Server {
	fs := afero.NewOsFs()
	return &Server{
		id:         xid.New().String(),
		fs:         fs,
		documents:  NewDocumentManager(fs),
		builder:    stepdef.NewBuilder(fs),
		cfg:        cfg,
		indexDirty: true,
	}
}

func (s *Server) Documents() *DocumentManager {
	return s.documents
}

func (s *Server) Initialize(ctx context.Context, params *protocol.InitializeParams) (*protocol.InitializeResult, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("server_id", s.id).Msg("initializing server")

	switch {
	case params.RootURI != "":
		s.workspace = normalizeURI(string(params.RootURI))
	case len(params.WorkspaceFolders) > 0:
		s.workspace = normalizeURI(string(params.WorkspaceFolders[0].URI))
	}

	for name, patterns := range s.cfg.ParameterTypes {
		regexps := make([]*regexp.Regexp, 0, len(patterns))
		for _, pattern := range patterns {
			re, err := regexp.Compile(pattern)
			if err != nil {
				logger.Warn().Err(err).Str("parameter_type", name).Msg("invalid parameter type pattern, skipping")
				regexps = nil
				break
			}
			regexps = append(regexps, re)
		}
		if regexps == nil {
			continue
		}
		if err := s.builder.DefineParameterType(name, regexps); err != nil {
			logger.Warn().Err(err).Str("parameter_type", name).Msg("could not register parameter type")
		}
	}

	s.initialized = true

	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: true,
				Change:    protocol.SyncFull,
			},
			DefinitionProvider: true,
		},
		ServerInfo: &protocol.ServerInfo{
			Name: "cucumber-language-server",
		},
	}, nil
}

func (s *Server) Initialized(ctx context.Context, params *protocol.InitializedParams) error {
	if s.workspace == "" {
		zerolog.Ctx(ctx).Debug().Msg("no workspace root, skipping index build")
		return nil
	}

	if err := s.watchWorkspace(ctx); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("workspace watcher unavailable, index rebuilds on document events only")
	}

	if _, err := s.currentIndex(ctx); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("initial index build reported errors")
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.shutdown = true
	if s.workspaceFSWatcher != nil {
		if err := s.workspaceFSWatcher.Close(); err != nil {
			return errors.Errorf("closing workspace watcher: %w", err)
		}
	}
	return nil
}

func (s *Server) Exit(ctx context.Context) error {
	return nil
}

func (s *Server) DidOpen(ctx context.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.documents.Store(params.TextDocument.URI, &Document{
		URI:        params.TextDocument.URI,
		LanguageID: params.TextDocument.LanguageID,
		Version:    params.TextDocument.Version,
		Content:    params.TextDocument.Text,
	})
	s.markDirtyIfStepSource(params.TextDocument.URI)
	return nil
}

func (s *Server) DidChange(ctx context.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) == 0 {
		return nil
	}

	doc, ok := s.documents.Get(params.TextDocument.URI)
	if !ok {
		return errors.Errorf("change for unknown document: %s", params.TextDocument.URI)
	}

	// full sync: the last change carries the whole document
	doc.Content = params.ContentChanges[len(params.ContentChanges)-1].Text
	doc.Version = params.TextDocument.Version
	s.documents.Store(params.TextDocument.URI, doc)
	s.markDirtyIfStepSource(params.TextDocument.URI)
	return nil
}

func (s *Server) DidClose(ctx context.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.documents.Delete(params.TextDocument.URI)
	return nil
}

// Definition resolves the step at the request position to the step
// definitions whose expression matches it, ordered by target URI and line.
func (s *Server) Definition(ctx context.Context, params *protocol.DefinitionParams) ([]protocol.LocationLink, error) {
	logger := zerolog.Ctx(ctx)

	doc, ok := s.documents.Get(params.TextDocument.URI)
	if !ok {
		logger.Debug().Str("uri", string(params.TextDocument.URI)).Msg("definition for unknown document")
		return protocol.NonNilSlice[protocol.LocationLink](nil), nil
	}

	step, err := feature.StepAt(doc.Content, params.Position.Line)
	if err != nil {
		// a half-typed feature file is normal during editing
		logger.Debug().Err(err).Msg("feature document does not parse")
		return protocol.NonNilSlice[protocol.LocationLink](nil), nil
	}
	if step == nil {
		return protocol.NonNilSlice[protocol.LocationLink](nil), nil
	}

	index, err := s.currentIndex(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("index build reported errors, navigating with partial index")
	}

	defs := locate.SortLinks(index.Match(ctx, step.Text))
	links := make([]protocol.LocationLink, 0, len(defs))
	for _, def := range defs {
		links = append(links, def.Link)
	}

	logger.Debug().Str("step", step.Text).Int("definitions", len(links)).Msg("definition request resolved")
	return links, nil
}

func (s *Server) markDirtyIfStepSource(uri protocol.DocumentURI) {
	if _, ok := language.ForFile(normalizeURI(string(uri))); !ok {
		return
	}
	s.mu.Lock()
	s.indexDirty = true
	s.mu.Unlock()
}

// currentIndex returns the step-definition index, rebuilding it first when
// dirty. A build error does not discard the partial index.
func (s *Server) currentIndex(ctx context.Context) (*stepdef.Index, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.indexDirty && s.index != nil {
		return s.index, nil
	}

	index, err := s.builder.Build(ctx, s.workspace, s.cfg.Globs)
	s.index = index
	s.indexDirty = false
	if err != nil {
		return index, errors.Errorf("building step-definition index: %w", err)
	}

	zerolog.Ctx(ctx).Debug().Int("definitions", index.Len()).Msg("step-definition index rebuilt")
	return index, nil
}

// watchWorkspace marks the index dirty whenever a step-definition source
// changes on disk. fsnotify does not recurse, so every directory is added
// individually and new directories are picked up from create events.
func (s *Server) watchWorkspace(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Errorf("creating workspace watcher: %w", err)
	}
	s.workspaceFSWatcher = watcher

	if err := addWatchDirs(s.fs, watcher, s.workspace); err != nil {
		return err
	}

	go func() {
		logger := zerolog.Ctx(ctx)
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&fsnotify.Create != 0 {
					if info, err := s.fs.Stat(event.Name); err == nil && info.IsDir() {
						if err := watcher.Add(event.Name); err != nil {
							logger.Debug().Err(err).Str("dir", event.Name).Msg("could not watch new directory")
						}
						continue
					}
				}
				if _, ok := language.ForFile(event.Name); ok {
					logger.Debug().Str("file", event.Name).Str("op", event.Op.String()).Msg("step source changed")
					s.mu.Lock()
					s.indexDirty = true
					s.mu.Unlock()
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn().Err(err).Msg("workspace watcher error")
			}
		}
	}()

	return nil
}

func addWatchDirs(fs afero.Fs, watcher *fsnotify.Watcher, root string) error {
	return afero.Walk(fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if err := watcher.Add(path); err != nil {
				return errors.Errorf("watching %s: %w", path, err)
			}
		}
		return nil
	})
}
