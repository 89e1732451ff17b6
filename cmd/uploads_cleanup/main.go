package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"eduportal/internal/config"
	"eduportal/internal/pkg/logger"
	"eduportal/internal/server"
	"eduportal/internal/storage"
)

// uploads_cleanup removes staging batches abandoned by a crashed process
// and, with CLEANUP_ORPHANS=true, stored files no lead references any
// more (documents replaced by a later upload).
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log := logger.Must(cfg.AppEnv, cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	stagingAge := durationEnv(log, "CLEANUP_STAGING_AGE", time.Hour)
	orphanAge := durationEnv(log, "CLEANUP_ORPHAN_AGE", 30*24*time.Hour)

	disk, err := storage.NewDisk(cfg.UploadDir, cfg.UploadMaxBytes, false)
	if err != nil {
		log.Fatal("open upload dir failed", zap.Error(err))
	}

	now := time.Now()
	pruned, err := disk.PruneStaging(now.Add(-stagingAge))
	if err != nil {
		log.Fatal("prune staging failed", zap.Error(err))
	}
	log.Info("staging pruned", zap.Int("batches", pruned))

	if !strings.EqualFold(os.Getenv("CLEANUP_ORPHANS"), "true") {
		return
	}

	ctx := context.Background()
	store, err := server.OpenStore(ctx, cfg, log)
	if err != nil {
		log.Fatal("open store failed", zap.Error(err))
	}
	defer func() { _ = store.Close(ctx) }()

	leads, err := store.Leads.List(ctx)
	if err != nil {
		log.Fatal("list leads failed", zap.Error(err))
	}
	referenced := make(map[string]bool)
	for _, l := range leads {
		for _, d := range l.Documents {
			referenced[d.Name] = true
		}
	}

	removed, err := disk.RemoveUnreferenced(referenced, now.Add(-orphanAge))
	if err != nil {
		log.Error("remove orphans incomplete", zap.Error(err))
	}
	log.Info("orphaned uploads removed",
		zap.Int("files", len(removed)),
		zap.Int("referenced", len(referenced)))
}

func durationEnv(log *zap.Logger, name string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Fatal("invalid duration", zap.String("name", name), zap.String("value", raw))
	}
	return d
}
