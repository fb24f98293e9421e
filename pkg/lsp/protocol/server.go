package protocol

import (
	"context"
	"io"
	"sync"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/channel"
	"github.com/creachadair/jrpc2/handler"
)

// Server is the set of LSP methods this language server implements.
type Server interface {
	Initialize(ctx context.Context, params *InitializeParams) (*InitializeResult, error)
	Initialized(ctx context.Context, params *InitializedParams) error
	Shutdown(ctx context.Context) error
	Exit(ctx context.Context) error
	DidOpen(ctx context.Context, params *DidOpenTextDocumentParams) error
	DidChange(ctx context.Context, params *DidChangeTextDocumentParams) error
	DidClose(ctx context.Context, params *DidCloseTextDocumentParams) error
	Definition(ctx context.Context, params *DefinitionParams) ([]LocationLink, error)
}

func newParseError(err error) *jrpc2.Error {
	return &jrpc2.Error{
		Code:    -32700, // Parse error
		Message: err.Error(),
	}
}

func createHandler[T any, O any](method func(ctx context.Context, params *T) (O, error)) handler.Func {
	return handler.New(func(ctx context.Context, r *jrpc2.Request) (interface{}, error) {
		ctx = ApplyRequestToZerolog(ctx, r)
		var params T
		if err := r.UnmarshalParams(&params); err != nil {
			return nil, newParseError(err)
		}
		result, err := method(ctx, &params)
		if err != nil {
			return nil, err
		}
		return result, nil
	})
}

func createEmptyResultHandler[T any](method func(ctx context.Context, params *T) error) handler.Func {
	return handler.New(func(ctx context.Context, r *jrpc2.Request) (interface{}, error) {
		ctx = ApplyRequestToZerolog(ctx, r)
		var params T
		if err := r.UnmarshalParams(&params); err != nil {
			return nil, newParseError(err)
		}
		return nil, method(ctx, &params)
	})
}

func createEmptyHandler(method func(ctx context.Context) error) handler.Func {
	return handler.New(func(ctx context.Context, r *jrpc2.Request) (interface{}, error) {
		ctx = ApplyRequestToZerolog(ctx, r)
		return nil, method(ctx)
	})
}

func buildServerDispatchMap(server Server) handler.Map {
	return handler.Map{
		"initialize":              createHandler(server.Initialize),
		"initialized":             createEmptyResultHandler(server.Initialized),
		"shutdown":                createEmptyHandler(server.Shutdown),
		"exit":                    createEmptyHandler(server.Exit),
		"textDocument/didOpen":    createEmptyResultHandler(server.DidOpen),
		"textDocument/didChange":  createEmptyResultHandler(server.DidChange),
		"textDocument/didClose":   createEmptyResultHandler(server.DidClose),
		"textDocument/definition": createHandler(server.Definition),
	}
}

// ServerInstance wraps a jrpc2 server bound to a Server dispatch map.
type ServerInstance struct {
	server *jrpc2.Server
	opts   *jrpc2.ServerOptions

	mu      sync.RWMutex
	baseCtx context.Context
}

// NewServerInstance builds the jrpc2 server. The given ctx becomes the base
// context for every request, carrying the zerolog logger.
func NewServerInstance(ctx context.Context, server Server, opts *jrpc2.ServerOptions) *ServerInstance {
	methods := buildServerDispatchMap(server)
	if opts == nil {
		opts = &jrpc2.ServerOptions{}
	}

	si := &ServerInstance{baseCtx: ctx, opts: opts}

	opts.AllowPush = true
	opts.NewContext = func() context.Context {
		si.mu.RLock()
		defer si.mu.RUnlock()
		return si.baseCtx
	}

	si.server = jrpc2.NewServer(methods, opts)
	return si
}

func (si *ServerInstance) Instance() *jrpc2.Server {
	return si.server
}

// StartAndWait serves LSP-framed JSON-RPC on the given streams until the
// client disconnects. Once the client is connected the request logger is
// rerouted to it as window/logMessage notifications.
func (si *ServerInstance) StartAndWait(in io.Reader, out io.WriteCloser) error {
	si.server.Start(channel.LSP(in, out))

	si.mu.Lock()
	si.baseCtx = ApplyNotifierToZerolog(si.baseCtx, si.server)
	si.mu.Unlock()

	return si.server.Wait()
}

// Notifier pushes server-initiated notifications to the client.
type Notifier interface {
	Notify(ctx context.Context, method string, params interface{}) error
}
