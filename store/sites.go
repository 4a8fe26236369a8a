package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"desigo/bms"
)

func (s *Store) ListSites(ctx context.Context) ([]bms.Site, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name FROM sites ORDER BY name`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[bms.Site])
}

func (s *Store) FindSite(ctx context.Context, name string) (bms.Site, error) {
	var site bms.Site
	err := s.pool.QueryRow(ctx, `SELECT id, name FROM sites WHERE name = $1`, name).Scan(&site.ID, &site.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return site, fmt.Errorf("%w: %q", ErrSiteNotFound, name)
	}
	return site, err
}

// Creates the site if it does not exist yet. Existing sites are returned as they are.
func (s *Store) CreateSite(ctx context.Context, name string) (bms.Site, error) {
	var site bms.Site
	err := s.pool.QueryRow(ctx,
		`INSERT INTO sites (name) VALUES ($1)
            ON CONFLICT (name) DO NOTHING
            RETURNING id, name`,
		name,
	).Scan(&site.ID, &site.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return s.FindSite(ctx, name)
	}
	return site, err
}
