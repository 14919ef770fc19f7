// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"blogicum/internal/models"
)

// CategoryStore manages categories in the database. Categories are
// created administratively (seed/migrations), not from the site.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, title, slug, description, is_published, created_at`

// scanCategory scans a row into a Category struct.
func scanCategory(scanner interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	err := scanner.Scan(
		&c.ID, &c.Title, &c.Slug, &c.Description, &c.IsPublished, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// FindPublishedBySlug retrieves a published category by slug. Returns nil
// when the slug is unknown OR the category is unpublished: an unpublished
// category's listing page must 404.
func (s *CategoryStore) FindPublishedBySlug(slug string) (*models.Category, error) {
	row := s.db.QueryRow(
		`SELECT `+categoryColumns+` FROM categories WHERE slug = $1 AND is_published`, slug)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by slug: %w", err)
	}
	return c, nil
}

// ListPublished returns all published categories ordered by title.
// Used to populate the category selector on the post form.
func (s *CategoryStore) ListPublished() ([]models.Category, error) {
	rows, err := s.db.Query(
		`SELECT ` + categoryColumns + ` FROM categories WHERE is_published ORDER BY title`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// Create inserts a new category and returns it. Seed and operational
// tooling only; there is no user-facing category management.
func (s *CategoryStore) Create(c *models.Category) (*models.Category, error) {
	row := s.db.QueryRow(`
		INSERT INTO categories (title, slug, description, is_published)
		VALUES ($1, $2, $3, $4)
		RETURNING `+categoryColumns,
		c.Title, c.Slug, c.Description, c.IsPublished,
	)
	result, err := scanCategory(row)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return result, nil
}
