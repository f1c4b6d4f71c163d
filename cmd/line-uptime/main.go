package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/transit-tools/line-uptime/config"
	"github.com/transit-tools/line-uptime/engine"
	"github.com/transit-tools/line-uptime/feed"
	"github.com/transit-tools/line-uptime/internal"
	"github.com/transit-tools/line-uptime/scrape"
	"github.com/transit-tools/line-uptime/server"
	"github.com/transit-tools/line-uptime/uptime"
)

func main() {
	sourceName := flag.String("source", "", "observation source: feed|scrape (overrides config)")
	flag.Parse()

	internal.InitLogging()
	if err := config.LoadAppConfig(); err != nil {
		panic(err)
	}
	cfg := config.Config
	if *sourceName != "" {
		cfg.Source = *sourceName
	}

	store := uptime.NewStore(cfg.Lines)

	var src engine.Source
	switch cfg.Source {
	case "scrape":
		src = scrape.New(cfg.Scrape)
	default:
		src = feed.New(cfg.Upstream)
	}
	log.Printf("tracking %d lines via %s source, refresh %dms", len(cfg.Lines), src.Name(), cfg.RefreshMS)

	eng := engine.New(src, store, time.Duration(cfg.RefreshMS)*time.Millisecond)
	eng.Start()

	srv := server.New(cfg.Server.Port, store, eng)
	srv.Start()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	log.Printf("shutdown signal received")

	eng.Stop()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	} else {
		log.Printf("server shut down successfully")
	}
}
