package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mvanholst/lurker/internal/api"
	"github.com/mvanholst/lurker/internal/cache"
	"github.com/mvanholst/lurker/internal/config"
	"github.com/mvanholst/lurker/internal/history"
	"github.com/mvanholst/lurker/internal/prefetch"
	"github.com/mvanholst/lurker/internal/ui"
)

func main() {
	configPath := flag.String("config", "", "path to config.toml")
	sort := flag.String("sort", "", "listing sort: hot, new, top, rising, controversial")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: lurker [flags] [subreddit]\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if flag.NArg() > 0 {
		cfg.Subreddit = strings.TrimPrefix(strings.TrimPrefix(flag.Arg(0), "/r/"), "r/")
	}
	if *sort != "" {
		cfg.Sort = *sort
	}
	if !validSort(cfg.Sort) {
		log.Fatalf("unknown sort %q", cfg.Sort)
	}

	if err := os.MkdirAll(cfg.CacheDir, 0o755); err != nil {
		log.Fatalf("creating cache dir: %v", err)
	}

	// The terminal is taken over by the UI; anything logged goes to a file.
	if logFile, err := os.OpenFile(cfg.LogPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644); err == nil {
		log.SetOutput(logFile)
		defer logFile.Close()
	}

	db, err := cache.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("opening cache: %v", err)
	}
	defer db.Close()

	seen, err := history.Load(cfg.HistoryPath)
	if err != nil {
		log.Printf("loading history: %v", err)
		seen = make(history.Set)
	}

	client := api.NewClient()

	// Warm the comment cache for the listing being browsed.
	warmer := prefetch.New(cfg, client, db, cfg.Subreddit, cfg.Sort)
	warmer.Start()
	defer warmer.Stop()

	app := ui.NewApp(cfg, client, db, seen)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := history.Save(cfg.HistoryPath, seen, cfg.HistoryLimit); err != nil {
		log.Printf("saving history: %v", err)
	}
}

func validSort(s string) bool {
	switch api.SortOrder(s) {
	case api.SortHot, api.SortNew, api.SortTop, api.SortRising, api.SortControversial:
		return true
	}
	return false
}
