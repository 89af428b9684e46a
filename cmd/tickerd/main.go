package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"tickerboard/internal/board"
	"tickerboard/internal/config"
	"tickerboard/internal/display"
	"tickerboard/internal/feed"
	"tickerboard/internal/httpx"
	"tickerboard/internal/logging"
	"tickerboard/internal/quote"
	"tickerboard/internal/render"
)

func main() {
	cfgPath := os.Getenv("CONFIG_FILE")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log)
	defer logger.Sync()

	httpClient := httpx.New(time.Duration(cfg.Feed.TimeoutSec)*time.Second, cfg.Feed.InsecureTransport)

	var source feed.Source = feed.NewYahoo(feed.Config{
		URL:       cfg.Feed.Endpoint,
		UserAgent: cfg.Feed.UserAgent,
	}, httpClient, logger)
	if cfg.Feed.MinRequestGapMs > 0 {
		source = &feed.MinInterval{
			S:        source,
			Interval: time.Duration(cfg.Feed.MinRequestGapMs) * time.Millisecond,
		}
	}

	repo := board.New(cfg.QuoteSymbols(), source, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var srv *http.Server
	if cfg.Server.Port != "" {
		srv = statusServer(cfg.Server.Port, repo)
		go func() {
			logger.Info("status server listening", zap.String("port", cfg.Server.Port))
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("status server", zap.Error(err))
			}
		}()
	}

	con := display.NewConsole(os.Stdout)
	runLoop(ctx, repo, con, logger,
		time.Duration(cfg.Display.ValueViewSec)*time.Second,
		time.Duration(cfg.Display.PercentViewSec)*time.Second)

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}
}

// runLoop refreshes the board, shows the value view, then the
// percent-change view, and repeats until the context is canceled.
func runLoop(ctx context.Context, repo *board.Repository, d display.Display, log *zap.Logger, valueHold, percentHold time.Duration) {
	for {
		snap, ok := repo.Refresh(ctx)
		if !ok {
			log.Warn("refresh incomplete, rendering prior values where needed")
		}

		if err := d.Render(valueRows(snap)); err != nil {
			log.Error("render value view", zap.Error(err))
		}
		if !hold(ctx, valueHold) {
			return
		}

		if err := d.Render(percentRows(snap)); err != nil {
			log.Error("render percent view", zap.Error(err))
		}
		if !hold(ctx, percentHold) {
			return
		}
	}
}

func valueRows(snap quote.Snapshot) []display.Row {
	rows := make([]display.Row, 0, len(snap.Entries))
	for _, e := range snap.Entries {
		rows = append(rows, display.Row{
			Label: e.Symbol.Label,
			Text:  render.ValueText(e),
			State: render.ByValue(e.Quote),
		})
	}
	return rows
}

func percentRows(snap quote.Snapshot) []display.Row {
	rows := make([]display.Row, 0, len(snap.Entries))
	for _, e := range snap.Entries {
		rows = append(rows, display.Row{
			Label: e.Symbol.Label,
			Text:  render.PercentText(e),
			State: render.ByPercent(e.Quote),
		})
	}
	return rows
}

func hold(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func statusServer(port string, repo *board.Repository) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/api/snapshot", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		_ = enc.Encode(repo.Current())
	})

	return &http.Server{
		Addr:              ":" + port,
		Handler:           withJSONHeaders(recoverPanic(mux)),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

func withJSONHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// recoverPanic protects handlers from panics.
func recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
