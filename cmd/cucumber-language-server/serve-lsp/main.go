package serve_lsp

import (
	"context"
	"os"

	"github.com/creachadair/jrpc2"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/helgardferreira/cucumber-language-service/pkg/config"
	"github.com/helgardferreira/cucumber-language-service/pkg/lsp"
	"github.com/helgardferreira/cucumber-language-service/pkg/lsp/protocol"
)

type Handler struct {
	debug   bool
	cfgFile string
}

func NewServeLSPCommand() *cobra.Command {
	me := &Handler{}

	cmd := &cobra.Command{
		Use:   "serve-lsp",
		Short: "start the language server on stdin/stdout",
	}

	cmd.Flags().BoolVar(&me.debug, "debug", false, "enable debug logging")
	cmd.Flags().StringVar(&me.cfgFile, "config", "", "path to a yaml settings file")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return me.Run(cmd.Context())
	}

	return cmd
}

func (me *Handler) Run(ctx context.Context) error {
	level := zerolog.InfoLevel
	if me.debug {
		level = zerolog.DebugLevel
	}

	// stdout carries the protocol, logs go to stderr until the client is
	// connected and can receive window/logMessage
	logger := zerolog.New(os.Stderr).Level(level).With().
		Str("component", "lsp-server").
		Timestamp().
		Logger()
	ctx = logger.WithContext(ctx)

	cfg, err := config.Load(me.cfgFile)
	if err != nil {
		return errors.Errorf("loading configuration: %w", err)
	}

	server := lsp.NewServer(ctx, cfg)

	opts := &jrpc2.ServerOptions{
		RPCLog: &protocol.RPCLogger{},
	}

	instance := protocol.NewServerInstance(ctx, server, opts)

	if err := instance.StartAndWait(os.Stdin, os.Stdout); err != nil {
		return errors.Errorf("error running language server: %w", err)
	}

	return nil
}
