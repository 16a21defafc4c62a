package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gkwa/noblenewtonia/models"
	"github.com/gkwa/noblenewtonia/pipeline"
)

// printSummary writes the post-run statistics to stderr so stdout stays a
// clean payload stream.
func printSummary(stats models.BatchStats) {
	separator := "--------------------------------------------------"
	fmt.Fprintln(os.Stderr, "\n"+separator)
	fmt.Fprintln(os.Stderr, "Processing complete")
	fmt.Fprintf(os.Stderr, "  Records:       %d\n", stats.TotalProcessed)
	fmt.Fprintf(os.Stderr, "  Succeeded:     %d\n", stats.SuccessCount)
	fmt.Fprintf(os.Stderr, "  Failed:        %d\n", stats.ErrorCount)
	fmt.Fprintf(os.Stderr, "  Input bytes:   %s\n", humanize.Bytes(uint64(stats.TotalInputBytes)))
	fmt.Fprintf(os.Stderr, "  Output bytes:  %s\n", humanize.Bytes(uint64(stats.TotalOutputBytes)))
	if stats.TotalInputBytes > 0 {
		ratio := float64(stats.TotalOutputBytes) / float64(stats.TotalInputBytes)
		fmt.Fprintf(os.Stderr, "  Expansion:     %.2fx\n", ratio)
	}
	fmt.Fprintln(os.Stderr, separator)
}

func startMetricsServer(addr string, metrics *pipeline.Metrics) *http.Server {
	if addr == "" || metrics == nil {
		return nil
	}
	srv := &http.Server{
		Addr:    addr,
		Handler: promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}),
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("metrics server failed", slog.Any("error", err))
		}
	}()
	slog.Info("metrics server enabled", slog.String("addr", addr))
	return srv
}

func stopMetricsServer(srv *http.Server) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("metrics server shutdown failed", slog.Any("error", err))
	}
}
