package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/conneroisu/projectcard/internal/server"
)

var serveCmd = &cobra.Command{
	Use:     "serve [catalog]",
	Aliases: []string{"s"},
	Short:   "Preview the card gallery with live reload",
	Long: `Start the preview server. It renders every project in the catalog,
serves local images from the assets directory, and reloads open browsers when
the catalog or an image changes.

Examples:
  projectcard serve                     # Serve projects.yml on localhost:8080
  projectcard serve data/projects.json  # Serve another catalog
  projectcard serve -p 3000 --open      # Pick a port and open a browser`,
	Args: cobra.MaximumNArgs(1),
	RunE: runServe,
}

var serveFlags *StandardFlags

func init() {
	rootCmd.AddCommand(serveCmd)

	serveFlags = AddStandardFlags(serveCmd, "server", "render")
	AddFlagValidation(serveCmd, "port", ValidatePort)
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := serveFlags.ValidateFlags(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	cfg, logger, err := loadConfig(cmd, args, map[string]string{
		"port":           "server.port",
		"host":           "server.host",
		"open":           "server.open",
		"no-open":        "server.no-open",
		"button-links":   "render.button_links",
		"show-link-text": "render.show_link_text",
	})
	if err != nil {
		return err
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	ctx, stop := signal.NotifyContext(contextOrBackground(cmd.Context()), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		select {
		case <-srv.Ready():
			fmt.Fprintf(cmd.OutOrStdout(), "Serving %s at http://%s\n", cfg.Catalog.Path, srv.Addr())
		case <-ctx.Done():
		}
	}()

	if err := srv.Start(ctx); err != nil {
		return err
	}
	return nil
}

// contextOrBackground returns ctx, or context.Background when a command is
// run directly in tests without Execute.
func contextOrBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
