package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"loyalty_backend/internal/db"
	"loyalty_backend/internal/logger"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
)

const trackingTable = `CREATE TABLE IF NOT EXISTS schema_migrations (
    name       TEXT PRIMARY KEY,
    applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

func main() {
	_ = godotenv.Load()
	logger.Init(os.Getenv("LOG_LEVEL"), false)

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		logger.Fatal("DATABASE_URL not set")
	}

	apply := flag.Bool("apply", false, "apply pending migrations")
	dir := flag.String("dir", filepath.Join("internal", "migrations"), "migrations directory")
	flag.Parse()

	ctx := context.Background()
	pool := db.MustConnect(dsn, 2)
	defer pool.Close()

	if _, err := pool.Exec(ctx, trackingTable); err != nil {
		logger.Fatal("create schema_migrations failed", "error", err)
	}

	entries, err := os.ReadDir(*dir)
	if err != nil {
		logger.Fatal("read migrations dir failed", "dir", *dir, "error", err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		var done bool
		if err := pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE name = $1)`, name).Scan(&done); err != nil {
			logger.Fatal("check migration failed", "name", name, "error", err)
		}
		if !*apply {
			state := "pending"
			if done {
				state = "applied"
			}
			fmt.Printf("%-8s %s\n", state, name)
			continue
		}
		if done {
			continue
		}

		b, err := os.ReadFile(filepath.Join(*dir, name))
		if err != nil {
			logger.Fatal("read migration failed", "name", name, "error", err)
		}
		err = pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, string(b)); err != nil {
				return err
			}
			_, err := tx.Exec(ctx, `INSERT INTO schema_migrations (name) VALUES ($1)`, name)
			return err
		})
		if err != nil {
			logger.Fatal("apply migration failed", "name", name, "error", err)
		}
		logger.Info("applied migration", "name", name)
	}
}
