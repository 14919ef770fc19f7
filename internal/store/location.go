// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"blogicum/internal/models"
)

// LocationStore manages the optional post locations.
type LocationStore struct {
	db *sql.DB
}

// NewLocationStore returns a new LocationStore.
func NewLocationStore(db *sql.DB) *LocationStore {
	return &LocationStore{db: db}
}

const locationColumns = `id, name, is_published, created_at`

// ListPublished returns all published locations ordered by name, for the
// post form's location selector.
func (s *LocationStore) ListPublished() ([]models.Location, error) {
	rows, err := s.db.Query(
		`SELECT ` + locationColumns + ` FROM locations WHERE is_published ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()

	var items []models.Location
	for rows.Next() {
		var l models.Location
		if err := rows.Scan(&l.ID, &l.Name, &l.IsPublished, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		items = append(items, l)
	}
	return items, rows.Err()
}

// Create inserts a new location and returns it. Seed support only.
func (s *LocationStore) Create(l *models.Location) (*models.Location, error) {
	result := &models.Location{}
	err := s.db.QueryRow(`
		INSERT INTO locations (name, is_published)
		VALUES ($1, $2)
		RETURNING `+locationColumns,
		l.Name, l.IsPublished,
	).Scan(&result.ID, &result.Name, &result.IsPublished, &result.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create location: %w", err)
	}
	return result, nil
}
