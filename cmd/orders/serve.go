package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/diewo77/go-orders/view"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web interface",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := bootstrap()
			if err != nil {
				return err
			}
			defer d.Close()
			if port == "" {
				port = d.cfg.Server.Port
			}
			if d.cfg.App.Dev {
				// templates are re-parsed on every request
				if err := os.Setenv("DEV", "1"); err != nil {
					return fmt.Errorf("enable dev templates: %w", err)
				}
				view.ResetForTests()
			}

			srv := &http.Server{
				Addr:         ":" + port,
				Handler:      withLogging(NewApp(d)),
				ReadTimeout:  time.Duration(d.cfg.Server.ReadTimeout) * time.Second,
				WriteTimeout: time.Duration(d.cfg.Server.WriteTimeout) * time.Second,
				IdleTimeout:  time.Duration(d.cfg.Server.IdleTimeout) * time.Second,
			}

			errc := make(chan error, 1)
			go func() {
				log.Printf("Server starting on port %s (env=%s dev=%v)", port, d.cfg.App.Env, d.cfg.App.Dev)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errc <- err
				}
			}()

			// Wait for interrupt signal
			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			select {
			case err := <-errc:
				return err
			case <-quit:
			}
			log.Println("Shutdown signal received")

			// Graceful shutdown with timeout
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				log.Printf("Error during shutdown: %v", err)
			}
			log.Println("Server stopped gracefully")
			return nil
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "listen port (defaults to PORT)")
	return cmd
}

// withLogging adds request logging middleware.
func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}
