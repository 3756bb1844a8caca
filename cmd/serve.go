package cmd

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/cpusched/server"
	"github.com/inference-sim/cpusched/sim"
)

var addr string // HTTP listen address

// serveCmd exposes the simulator over the JSON HTTP API.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the simulator over HTTP",
	Run: func(cmd *cobra.Command, args []string) {
		st, err := openStore(cmd)
		if err != nil {
			logrus.Fatalf("Opening run history failed: %v", err)
		}
		if st != nil {
			defer st.Close()
		}

		srv := server.New(engineConfig(), st)
		httpServer := &http.Server{
			Addr:              addr,
			Handler:           srv.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Graceful shutdown
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			logrus.WithFields(logrus.Fields{"addr": addr, "db": dbPath}).Info("server starting")
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logrus.Fatalf("server failed: %v", err)
			}
		}()

		<-ctx.Done()
		logrus.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logrus.Errorf("shutdown error: %v", err)
		}
		logrus.Info("server stopped")
	},
}

func init() {
	serveCmd.Flags().StringVar(&addr, "addr", ":8080", "HTTP listen address")
	serveCmd.Flags().IntVar(&quantum, "quantum", sim.DefaultQuantum, "Default round robin time slice for requests that omit it")
	serveCmd.Flags().Int64Var(&maxTicks, "max-ticks", 0, "Default stall guard for requests that omit it")

	rootCmd.AddCommand(serveCmd)
}
