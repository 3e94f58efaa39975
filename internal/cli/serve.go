package cli

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"navigator/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the question answering API",
	Long: `Load the index built by 'navigator ingest' and serve it over HTTP.

Routes:
  POST /api/query   {"question": "..."} -> answer and sources
  POST /api/reload  reload the index after a new ingest
  GET  /health      index status

Send SIGHUP to reload the index without restarting.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	stack, err := newQueryStack(cmd.Context(), cfg, GetRootDir())
	if err != nil {
		return err
	}

	// A missing index is not fatal: /health reports it and /api/reload
	// picks it up once ingest has run.
	if _, err := stack.runtime.Reload(); err != nil {
		slog.Warn("starting without an index", "component", "serve", "err", err)
	}

	srv, err := server.New(server.Config{
		Ask:             stack.ask,
		Runtime:         stack.runtime,
		CORSOrigins:     cfg.Server.CORSOrigins,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	go func() {
		for {
			select {
			case <-hup:
				stack.runtime.Reload()
			case <-ctx.Done():
				return
			}
		}
	}()

	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	fmt.Printf("Serving on %s\n", addr)
	return srv.ListenAndServe(ctx, addr)
}
