package main

import (
	"database/sql"
	"fmt"

	"github.com/goosetap/goosetap/go/internal/dbconfig"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog/log"
)

func setupDatabase() (*sql.DB, dbconfig.Config, error) {
	cfg := dbconfig.NewConfigFromEnv()

	database, err := sql.Open("pgx", cfg.DSN())
	if err != nil {
		return nil, cfg, fmt.Errorf("failed to create database connection: %w", err)
	}

	if err := database.Ping(); err != nil {
		return nil, cfg, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Str("database", cfg.Database).
		Msg("connected to database")
	return database, cfg, nil
}
