package protocol

import (
	"context"
	"strings"

	"github.com/creachadair/jrpc2"
	"github.com/rs/zerolog"
)

// ApplyRequestToZerolog stamps the request method and id onto the logger in
// ctx so every log line inside a handler is attributable to its request.
func ApplyRequestToZerolog(ctx context.Context, req *jrpc2.Request) context.Context {
	logger := zerolog.Ctx(ctx).With().
		Str("rpc_method", req.Method()).
		Str("rpc_id", req.ID()).
		Logger()
	return logger.WithContext(ctx)
}

// RPCLogger logs every request and response through the context logger.
type RPCLogger struct{}

func (l *RPCLogger) LogRequest(ctx context.Context, req *jrpc2.Request) {
	zerolog.Ctx(ctx).Debug().
		Str("rpc_method", req.Method()).
		Str("rpc_id", req.ID()).
		Str("rpc_params", req.ParamString()).
		Msg("client request")
}

func (l *RPCLogger) LogResponse(ctx context.Context, res *jrpc2.Response) {
	zerolog.Ctx(ctx).Debug().
		Str("rpc_id", res.ID()).
		Str("rpc_result", res.ResultString()).
		Msg("server response")
}

// logWriter forwards the server's log stream to the client as
// window/logMessage notifications.
type logWriter struct {
	ctx      context.Context
	notifier Notifier
}

func (w *logWriter) Write(p []byte) (int, error) {
	err := w.notifier.Notify(w.ctx, "window/logMessage", &LogMessageParams{
		Type:    MessageLog,
		Message: strings.TrimSuffix(string(p), "\n"),
	})
	if err != nil {
		return 0, err
	}
	return len(p), nil
}

// ApplyNotifierToZerolog swaps the context logger for one that writes to the
// client. A server must not log to its own stdout, that stream carries the
// protocol.
func ApplyNotifierToZerolog(ctx context.Context, notifier Notifier) context.Context {
	level := zerolog.Ctx(ctx).GetLevel()

	logger := zerolog.New(&logWriter{ctx: ctx, notifier: notifier}).
		Level(level).
		With().
		Str("lsp_role", "server").
		Logger()

	return logger.WithContext(ctx)
}
