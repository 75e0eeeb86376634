package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/meltforce/terrapump/internal/config"
	"github.com/meltforce/terrapump/internal/seed"
	"github.com/meltforce/terrapump/internal/storage"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	seedDir := flag.String("dir", "", "path to seed directory (defaults to seed.dir from config)")
	dryRun := flag.Bool("dry-run", false, "report counts without writing to the database")
	force := flag.Bool("force", false, "apply all files even if unchanged")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	dir := *seedDir
	if dir == "" {
		dir = cfg.Seed.Dir
	}
	if dir == "" {
		fmt.Fprintf(os.Stderr, "Usage: terrapump-seed -config config.yaml [-dir /path/to/seed] [-dry-run] [-force]\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		log.Error("seed path does not exist or is not a directory", "path", dir)
		os.Exit(1)
	}

	dsn := cfg.Database.DSN()

	migrationsPath := cfg.Server.MigrationsPath
	if migrationsPath == "" {
		migrationsPath = "migrations"
	}
	if err := storage.RunMigrations(dsn, migrationsPath); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}
	log.Info("migrations applied")

	ctx := context.Background()

	if *dryRun {
		log.Info("DRY RUN mode, no data will be written to the database")
	}

	db, err := storage.New(ctx, dsn)
	if err != nil {
		log.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	log.Info("database connected")

	var state *seed.StateDB
	if !*force {
		stateDir := cfg.Seed.StateDB
		if stateDir == "" {
			stateDir = ".terrapump-seed"
		}
		state, err = seed.OpenStateDB(stateDir)
		if err != nil {
			log.Error("failed to open state db", "error", err)
			os.Exit(1)
		}
		defer state.Close()
	}

	imp := seed.New(db, state, log, *dryRun)
	stats, err := imp.Import(ctx, dir)
	if err != nil {
		log.Error("seed import failed", "error", err)
		printStats(log, stats)
		os.Exit(1)
	}

	printStats(log, stats)
	if stats.FilesErrored > 0 {
		log.Error("seed import finished with errors")
		os.Exit(1)
	}
	log.Info("seed import complete")
}

func printStats(log *slog.Logger, stats *seed.Stats) {
	log.Info("seed stats",
		"files_processed", stats.FilesProcessed,
		"files_skipped", stats.FilesSkipped,
		"files_errored", stats.FilesErrored,
		"brands_upserted", stats.BrandsUpserted,
		"machines_upserted", stats.MachinesUpserted,
		"attachments_upserted", stats.AttachmentsUpserted,
		"library_upserted", stats.LibraryUpserted,
	)
}
