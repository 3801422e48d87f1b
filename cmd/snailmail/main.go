package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kwheeler/snailmail/internal/app"
	"github.com/kwheeler/snailmail/internal/archive"
	"github.com/kwheeler/snailmail/internal/model"
	"github.com/kwheeler/snailmail/internal/remote"
	"github.com/kwheeler/snailmail/internal/session"
	"github.com/kwheeler/snailmail/internal/store"
)

var version = "dev"

func main() {
	var confPath string
	var showVersion bool
	flag.StringVar(&confPath, "config", model.DefaultConfigPath(), "Path to config file")
	flag.BoolVar(&showVersion, "version", false, "Show version")
	flag.Parse()

	if showVersion {
		fmt.Printf("snailmail %s\n", version)
		return
	}

	cfg, err := model.LoadConfig(confPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	dbPath := cfg.Storage.DatabasePath
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	recordStore, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		log.Fatalf("Failed to open local archive: %v", err)
	}
	defer recordStore.Close()

	sess, err := session.Open()
	if err != nil {
		log.Fatalf("Failed to open session keyring: %v", err)
	}

	client := remote.NewClient(
		cfg.Server.BaseURL,
		sess,
		time.Duration(cfg.Server.RequestTimeoutSec)*time.Second,
	)

	m := app.New(sess, archive.New(recordStore), client)

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("Error running program: %v", err)
	}
}
