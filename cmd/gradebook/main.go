package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/mind-engage/mindengage-gradebook/internal/chart"
	"github.com/mind-engage/mindengage-gradebook/internal/cli"
	"github.com/mind-engage/mindengage-gradebook/internal/config"
	"github.com/mind-engage/mindengage-gradebook/internal/db"
	"github.com/mind-engage/mindengage-gradebook/internal/gradebook"
	"github.com/mind-engage/mindengage-gradebook/internal/storage"
)

func init() {
	config.LoadDotEnv()
	log.SetPrefix("[gradebook] ")
}

func main() {
	cfg := config.FromEnv()

	// --- Data ---
	data, err := gradebook.Load(gradebook.Paths{
		Students:       cfg.StudentsFile,
		Assignments:    cfg.AssignmentsFile,
		SubmissionsDir: cfg.SubmissionsDir,
	})
	if err != nil {
		log.Fatalf("load failed: %v", err)
	}
	if cfg.Verbose {
		for _, s := range data.Students.List() {
			log.Printf("student %s: %s", s.ID, s.Name)
		}
	}

	// --- Reporter ---
	var rep gradebook.Reporter
	switch cfg.Backend {
	case config.BackendMemory:
		rep = gradebook.NewMemoryReporter(data)
	case config.BackendSQL:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
		if err != nil {
			cancel()
			log.Fatalf("db open failed: %v", err)
		}
		defer dbh.Close()
		sqlRep, err := gradebook.NewSQLReporter(ctx, dbh, data)
		cancel()
		if err != nil {
			log.Fatalf("db load failed: %v", err)
		}
		rep = sqlRep
	default:
		log.Fatalf("unknown report backend %q", cfg.Backend)
	}

	// --- Charts ---
	bs, err := storage.NewFSStore(cfg.ChartDir)
	if err != nil {
		log.Fatalf("chart store: %v", err)
	}

	loop := cli.NewLoop(os.Stdin, os.Stdout, rep, chart.NewXLSXRenderer(bs))
	if err := loop.Run(context.Background()); err != nil {
		log.Fatalf("gradebook: %v", err)
	}
}
