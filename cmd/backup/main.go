// Command backup dumps every business table to a timestamped JSON file.
// It is meant to run from cron on the host next to the database.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sakura-imports/books-backend/internal/config"
	"github.com/sakura-imports/books-backend/internal/db"
)

var tables = []string{"customers", "assets", "orders", "quotes", "customer_accounts", "calculations"}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	outDir := "backups"
	if len(os.Args) > 1 {
		outDir = os.Args[1]
	}

	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pg, err := db.New(ctx, cfg.Postgres)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pg.Close()

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		log.Fatal().Err(err).Msg("Failed to create backup directory")
	}

	dump := make(map[string][]map[string]any, len(tables))
	for _, table := range tables {
		rows, err := dumpTable(ctx, pg.Pool, table)
		if err != nil {
			log.Fatal().Err(err).Str("table", table).Msg("Failed to dump table")
		}
		dump[table] = rows
		log.Info().Str("table", table).Int("rows", len(rows)).Msg("Table dumped")
	}

	name := filepath.Join(outDir, fmt.Sprintf("backup_%s.json", time.Now().Format("20060102_150405")))
	f, err := os.Create(name)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create backup file")
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(dump); err != nil {
		log.Fatal().Err(err).Msg("Failed to write backup")
	}

	log.Info().Str("file", name).Msg("Backup complete")
}

func dumpTable(ctx context.Context, pool *pgxpool.Pool, table string) ([]map[string]any, error) {
	rows, err := pool.Query(ctx, "SELECT * FROM "+table)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer rows.Close()

	out := make([]map[string]any, 0)
	fields := rows.FieldDescriptions()
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("failed to read %s row: %w", table, err)
		}
		record := make(map[string]any, len(fields))
		for i, fd := range fields {
			record[fd.Name] = values[i]
		}
		out = append(out, record)
	}
	return out, rows.Err()
}
