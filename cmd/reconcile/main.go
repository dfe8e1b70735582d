package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	journal_adapter "github.com/JoeShih716/account-ledger/internal/app/core/adapter/out/journal"
	"github.com/JoeShih716/account-ledger/internal/config"
	"github.com/JoeShih716/account-ledger/pkg/logger"
	"github.com/JoeShih716/account-ledger/pkg/wal"
)

// reconcile 列出補償紀錄中尚未完成 (pending 或 failed) 的意圖，每行一筆 JSON
// 有未完成的意圖時 exit code 為 2
func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	journalPath := flag.String("journal", "", "compensation journal path (overrides ledger.journal_path)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "reconcile: %v\n", err)
		os.Exit(1)
	}
	if *journalPath != "" {
		cfg.Ledger.JournalPath = *journalPath
	}

	log, _, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "reconcile: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	walFile, err := wal.Open(cfg.Ledger.JournalPath)
	if err != nil {
		log.Fatal("failed to open compensation journal", zap.String("path", cfg.Ledger.JournalPath), zap.Error(err))
	}
	defer walFile.Close()

	intents, err := journal_adapter.NewWALJournal(walFile).Unresolved()
	if err != nil {
		log.Fatal("failed to replay compensation journal", zap.Error(err))
	}

	enc := json.NewEncoder(os.Stdout)
	for _, intent := range intents {
		if err := enc.Encode(intent); err != nil {
			log.Fatal("failed to write intent", zap.Error(err))
		}
	}

	log.Info("compensation journal replayed",
		zap.String("path", cfg.Ledger.JournalPath),
		zap.Int("unresolved", len(intents)),
	)
	if len(intents) > 0 {
		_ = log.Sync()
		os.Exit(2)
	}
}
