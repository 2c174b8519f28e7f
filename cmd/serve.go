package cmd

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmllr/ytsnap/internal"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	Long: `Start the HTTP server exposing the search form and the snapshot API.

Endpoints:
  POST /api/search         run a YouTube search
  POST /api/save           archive a snapshot (token-gated)
  POST /api/notify         share a snapshot to Discord (token-gated)
  GET  /api/snapshots      list archived snapshots (token-gated)
  POST /api/archive/clear  delete archived snapshots (token-gated)
  GET  /archive/<file>     download one snapshot (token-gated)`,
	Example: `  # Serve on the configured address
  ytsnap serve

  # Serve on port 9090
  ytsnap serve --addr :9090`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	addr := config.ListenAddr
	if flagAddr, _ := cmd.Flags().GetString("addr"); flagAddr != "" {
		addr = flagAddr
	}

	app := internal.NewApp(config)

	srv := &http.Server{
		Addr:              addr,
		Handler:           internal.NewServer(app),
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("server listening on %s", addr)
		if config.AppToken != "" {
			log.Printf("app token required for archive endpoints")
		}
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-cmd.Context().Done():
	}

	log.Println("shutdown signal received")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
		_ = srv.Close()
	}
	log.Println("server stopped")
	return nil
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Listen address (overrides config)")
}
