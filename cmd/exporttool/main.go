package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"visit-scheduler-service/internal/adapters/state"
	"visit-scheduler-service/internal/config"
	"visit-scheduler-service/internal/export"
	"visit-scheduler-service/internal/ports"
)

// exporttool writes the persisted schedule to calendar and spreadsheet
// files without going through the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found (using environment variables)")
	}

	store, closeStore, err := openStateStore()
	if err != nil {
		log.Fatal().Err(err).Msg("state store init failed")
	}
	defer closeStore()

	snap, err := store.Load(context.Background())
	if err != nil {
		log.Fatal().Err(err).Msg("load snapshot failed")
	}
	if len(snap.Schedule) == 0 {
		log.Fatal().Msg("no schedule to export")
	}

	stamp := time.Now().Format("2006-01-02")

	icsPath := fmt.Sprintf("visit_schedule_%s.ics", stamp)
	icsData, err := export.EncodeICS(snap.Schedule)
	if err != nil {
		log.Fatal().Err(err).Msg("ics encode failed")
	}
	if err := os.WriteFile(icsPath, icsData, 0o644); err != nil {
		log.Fatal().Err(err).Str("path", icsPath).Msg("ics write failed")
	}
	log.Info().Str("path", icsPath).Msg("calendar written")

	xlsxPath := fmt.Sprintf("visit_schedule_%s.xlsx", stamp)
	f, err := os.Create(xlsxPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", xlsxPath).Msg("xlsx create failed")
	}
	defer f.Close()
	if err := export.WriteXLSX(snap.Schedule, f); err != nil {
		log.Fatal().Err(err).Str("path", xlsxPath).Msg("xlsx write failed")
	}
	log.Info().Str("path", xlsxPath).Msg("spreadsheet written")
}

func openStateStore() (ports.StateStore, func(), error) {
	switch backend := config.Get("STATE_BACKEND", "sqlite"); backend {
	case "postgres":
		db, err := state.OpenPostgres(os.Getenv("DATABASE_URL"))
		if err != nil {
			return nil, nil, err
		}
		return state.NewPostgresStore(db), func() { db.Close() }, nil
	default:
		db, err := state.OpenSqlite(config.Get("DB_PATH", "data/state.db"))
		if err != nil {
			return nil, nil, err
		}
		return state.NewSqliteStore(db), func() { db.Close() }, nil
	}
}
