package main

import (
	"context"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"visit-scheduler-service/internal/adapters/distance"
	"visit-scheduler-service/internal/adapters/hours"
	"visit-scheduler-service/internal/adapters/state"
	"visit-scheduler-service/internal/api"
	"visit-scheduler-service/internal/config"
	"visit-scheduler-service/internal/ports"
)

// main is the application composition root.
// It wires concrete adapters (SQLite or Postgres state, the postcode
// estimator) behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found (using environment variables)")
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	port := config.Get("PORT", "8080")

	store, closeStore, err := openStateStore()
	if err != nil {
		log.Fatal().Err(err).Msg("state store init failed")
	}
	defer closeStore()

	if err := seedSettings(store); err != nil {
		log.Fatal().Err(err).Msg("settings init failed")
	}

	seed := time.Now().UnixNano()
	if v := config.Get("ESTIMATOR_SEED", ""); v != "" {
		seed, err = strconv.ParseInt(v, 10, 64)
		if err != nil {
			log.Fatal().Err(err).Msg("ESTIMATOR_SEED must be an integer")
		}
	}
	est := distance.NewPostcodeEstimator(seed)
	checker := hours.NewSynthetic(hours.DefaultCutoffHour, hours.DefaultCutoffMinute)

	router := api.NewRouter(store, est, checker)

	log.Info().Str("addr", ":"+port).Msg("server listening")
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal().Err(srv.ListenAndServe()).Msg("server stopped")
}

// seedSettings fills persisted settings that are still empty from the
// environment, so a fresh deployment starts with usable defaults without
// clobbering anything the user has already saved.
func seedSettings(store ports.StateStore) error {
	ctx := context.Background()

	snap, err := store.Load(ctx)
	if err != nil {
		return err
	}

	changed := false
	if snap.Settings.HomePostcode == "" {
		if v := config.Get("HOME_POSTCODE", ""); v != "" {
			snap.Settings.HomePostcode = v
			changed = true
		}
	}
	if snap.Settings.VisitsPerDay == 0 {
		if v, err := strconv.Atoi(config.Get("VISITS_PER_DAY", "0")); err == nil && v > 0 {
			snap.Settings.VisitsPerDay = v
			changed = true
		}
	}
	if snap.Settings.BusinessDays == 0 {
		if v, err := strconv.Atoi(config.Get("BUSINESS_DAYS", "0")); err == nil && v > 0 {
			snap.Settings.BusinessDays = v
			changed = true
		}
	}

	if !changed {
		return nil
	}
	return store.Save(ctx, snap)
}

// openStateStore picks the state backend from STATE_BACKEND: "sqlite"
// (default, local single-user runs) or "postgres".
func openStateStore() (ports.StateStore, func(), error) {
	switch backend := config.Get("STATE_BACKEND", "sqlite"); backend {
	case "postgres":
		db, err := state.OpenPostgres(os.Getenv("DATABASE_URL"))
		if err != nil {
			return nil, nil, err
		}
		store := state.NewPostgresStore(db)
		if err := store.InitSchema(); err != nil {
			db.Close()
			return nil, nil, err
		}
		return store, func() { db.Close() }, nil
	default:
		db, err := state.OpenSqlite(config.Get("DB_PATH", "data/state.db"))
		if err != nil {
			return nil, nil, err
		}
		store := state.NewSqliteStore(db)
		if err := store.InitSchema(); err != nil {
			db.Close()
			return nil, nil, err
		}
		return store, func() { db.Close() }, nil
	}
}
