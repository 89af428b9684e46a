package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"tickerboard/internal/board"
	"tickerboard/internal/config"
	"tickerboard/internal/feed"
	"tickerboard/internal/httpx"
	"tickerboard/internal/render"
)

func main() {
	var configPath string
	var timeout int
	var asJSON bool

	flag.StringVar(&configPath, "config", os.Getenv("CONFIG_FILE"), "path to config.yaml (optional)")
	flag.IntVar(&timeout, "timeout", 15, "overall timeout seconds")
	flag.BoolVar(&asJSON, "json", false, "print the raw snapshot as JSON")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	httpClient := httpx.New(time.Duration(cfg.Feed.TimeoutSec)*time.Second, cfg.Feed.InsecureTransport)
	var source feed.Source = feed.NewYahoo(feed.Config{
		URL:       cfg.Feed.Endpoint,
		UserAgent: cfg.Feed.UserAgent,
	}, httpClient, zap.NewNop())
	if cfg.Feed.MinRequestGapMs > 0 {
		source = &feed.MinInterval{
			S:        source,
			Interval: time.Duration(cfg.Feed.MinRequestGapMs) * time.Millisecond,
		}
	}

	repo := board.New(cfg.QuoteSymbols(), source, zap.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeout)*time.Second)
	defer cancel()

	snap, ok := repo.Refresh(ctx)
	if !ok {
		log.Println("warning: one or more symbols failed to refresh")
	}

	if asJSON {
		b, _ := json.MarshalIndent(snap, "", "  ")
		fmt.Println(string(b))
		return
	}
	for _, e := range snap.Entries {
		fmt.Printf("%-4s %12s  %8s  [%s]\n",
			e.Symbol.Label,
			render.ValueText(e),
			render.PercentText(e),
			render.ByValue(e.Quote))
	}
}
