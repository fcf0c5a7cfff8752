package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/quadpane/internal/config"
	"github.com/jask/quadpane/internal/database"
	"github.com/jask/quadpane/internal/database/repository"
	"github.com/jask/quadpane/internal/desktop"
	"github.com/jask/quadpane/internal/service"
	"github.com/jask/quadpane/internal/storage"
	"github.com/jask/quadpane/internal/tui"
)

func main() {
	saveConfig := flag.Bool("save-config", false, "write the effective config file and exit")
	history := flag.Int("history", 0, "print the newest n runs and exit")
	runID := flag.String("run", "", "print one run by id and exit")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if *saveConfig {
		if err := config.Save(cfg); err != nil {
			log.Fatalf("save config: %v", err)
		}
		return
	}

	for _, p := range []string{cfg.Database.Path, cfg.Log.Path} {
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			log.Fatalf("mkdir %s: %v", filepath.Dir(p), err)
		}
	}

	// the terminal belongs to bubbletea from here on
	logFile, err := tea.LogToFile(cfg.Log.Path, "quadpane")
	if err != nil {
		log.Fatalf("log file: %v", err)
	}
	defer logFile.Close()

	db, err := database.Open(cfg.Database.Driver, cfg.Database.Path)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	if *history > 0 || *runID != "" {
		svc := &service.HistoryService{DB: db}
		if *runID != "" {
			err = svc.PrintRun(ctx, os.Stdout, *runID)
		} else {
			err = svc.PrintRecent(ctx, os.Stdout, *history)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			db.Close()
			os.Exit(1)
		}
		return
	}

	maintenance := &service.MaintenanceService{DB: db}
	if cfg.Storage.Reset {
		if err := maintenance.Reset(ctx); err != nil {
			log.Fatalf("reset: %v", err)
		}
		log.Printf("stored disk and run history wiped")
	}
	if n, err := maintenance.PruneHistory(ctx, cfg.History.Keep); err != nil {
		log.Printf("warn: prune run history: %v", err)
	} else if n > 0 {
		log.Printf("pruned %d old runs", n)
	}

	fs, err := loadDisk(ctx, cfg, db)
	if err != nil {
		log.Fatalf("load disk: %v", err)
	}

	rec := service.NewRecorder(ctx, db, fs)
	desk := desktop.New(fs, rec, nil)

	p := tea.NewProgram(tui.New(desk, cfg.Scheduler.TickInterval), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("error: %v\n", err)
	}
}

// loadDisk restores the stored disk image, seeding the sample programs when
// nothing is stored yet.
func loadDisk(ctx context.Context, cfg config.Config, db *sql.DB) (*storage.FileSystem, error) {
	fs := storage.New()
	img, err := repository.NewDiskRepo(db).Load(ctx)
	if err != nil {
		return nil, err
	}
	if len(img.Files) > 0 {
		if err := fs.Restore(img); err != nil {
			return nil, err
		}
		log.Printf("restored %d files", len(img.Files))
		return fs, nil
	}
	if !cfg.Storage.Seed {
		return fs, nil
	}
	n, err := database.SeedPrograms(ctx, db, fs)
	if err != nil {
		return nil, err
	}
	log.Printf("seeded %d programs", n)
	return fs, nil
}
