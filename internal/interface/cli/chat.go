package cli

import (
	"github.com/spf13/cobra"

	"github.com/YoshitsuguKoike/notesvc/internal/infrastructure/di"
)

func newChatCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat proxy service",
	}
	cmd.AddCommand(newChatServeCmd(opts))
	return cmd
}

func newChatServeCmd(opts *rootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the chat page and proxy prompts to Ollama",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg
			if cmd.Flags().Changed("addr") {
				cfg = cfg.WithChatAddr(addr)
			}

			container, err := di.NewContainer(di.Config{App: cfg, Logger: opts.logger})
			if err != nil {
				return err
			}
			defer container.Close()

			ctx, cancel := setupSignalHandler(cmd.Context())
			defer cancel()

			opts.logger.Info("forwarding prompts to %s model=%s", cfg.OllamaBaseURL(), cfg.OllamaModel())
			return runServer(ctx, container.ChatServer(), opts.logger)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides CHAT_ADDR)")
	return cmd
}
