package store

import (
	"context"
	_ "embed"
	"log/slog"
)

//go:embed sql/create.sql
var createSQL string

//go:embed sql/drop.sql
var dropSQL string

func (s *Store) CreateSchema(ctx context.Context) error {
	slog.Info("Creating tables and indices...")

	if _, err := s.pool.Exec(ctx, createSQL); err != nil {
		return err
	}

	slog.Info("Finished creating schema!")
	return nil
}

// Drops every table, including all the stored samples
func (s *Store) DropSchema(ctx context.Context) error {
	slog.Info("Dropping tables...")

	if _, err := s.pool.Exec(ctx, dropSQL); err != nil {
		return err
	}

	slog.Info("Finished dropping schema!")
	return nil
}
