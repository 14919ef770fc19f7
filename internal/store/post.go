// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"blogicum/internal/models"
)

// PostStore handles all post-related database operations, including the
// visibility filter applied to every public listing and lookup.
type PostStore struct {
	db *sql.DB
}

// NewPostStore creates a new PostStore with the given database connection.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

// postSelect fetches a post with its author, category, and location in a
// single query so listings never re-fetch per row.
const postSelect = `
	SELECT p.id, p.title, p.text, p.pub_date, p.is_published,
	       p.author_id, p.category_id, p.location_id, p.comment_count,
	       p.created_at, p.updated_at,
	       u.username, u.first_name, u.last_name,
	       c.title, c.slug, c.is_published,
	       l.name, l.is_published
	FROM posts p
	JOIN users u ON u.id = p.author_id
	JOIN categories c ON c.id = p.category_id
	LEFT JOIN locations l ON l.id = p.location_id`

// visibleWhere is the public visibility invariant: the post is published,
// its publication date has passed, and its category is published.
// Authors bypass it for their own posts via ListByAuthor / FindByID.
const visibleWhere = `p.pub_date <= NOW() AND p.is_published AND c.is_published`

// scanPost scans a joined post row, attaching author, category, and
// location as virtual fields.
func scanPost(scanner interface{ Scan(...any) error }) (*models.Post, error) {
	var (
		p        models.Post
		author   models.User
		category models.Category
		locName  sql.NullString
		locPub   sql.NullBool
	)
	err := scanner.Scan(
		&p.ID, &p.Title, &p.Text, &p.PubDate, &p.IsPublished,
		&p.AuthorID, &p.CategoryID, &p.LocationID, &p.CommentCount,
		&p.CreatedAt, &p.UpdatedAt,
		&author.Username, &author.FirstName, &author.LastName,
		&category.Title, &category.Slug, &category.IsPublished,
		&locName, &locPub,
	)
	if err != nil {
		return nil, err
	}

	author.ID = p.AuthorID
	p.Author = &author

	category.ID = p.CategoryID
	p.Category = &category

	if p.LocationID != nil && locName.Valid {
		p.Location = &models.Location{
			ID:          *p.LocationID,
			Name:        locName.String,
			IsPublished: locPub.Bool,
		}
	}
	return &p, nil
}

// PostFilter narrows a listing with extra equality conditions on top of
// the visibility invariant.
type PostFilter struct {
	CategorySlug string
	AuthorID     *uuid.UUID
}

// where renders the filter as SQL conditions, appending to args.
func (f PostFilter) where(conds []string, args []any) ([]string, []any) {
	if f.CategorySlug != "" {
		args = append(args, f.CategorySlug)
		conds = append(conds, fmt.Sprintf("c.slug = $%d", len(args)))
	}
	if f.AuthorID != nil {
		args = append(args, *f.AuthorID)
		conds = append(conds, fmt.Sprintf("p.author_id = $%d", len(args)))
	}
	return conds, args
}

// ListVisible returns publicly visible posts matching the filter, newest
// first by publication date.
func (s *PostStore) ListVisible(f PostFilter, limit, offset int) ([]models.Post, error) {
	conds, args := f.where([]string{visibleWhere}, nil)

	query := postSelect + "\n\tWHERE " + joinConds(conds) +
		fmt.Sprintf("\n\tORDER BY p.pub_date DESC\n\tLIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	return s.queryPosts(query, args...)
}

// CountVisible returns the number of publicly visible posts matching the
// filter. Used to size pagination.
func (s *PostStore) CountVisible(f PostFilter) (int, error) {
	conds, args := f.where([]string{visibleWhere}, nil)

	var count int
	err := s.db.QueryRow(`
		SELECT COUNT(*)
		FROM posts p
		JOIN categories c ON c.id = p.category_id
		WHERE `+joinConds(conds), args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count visible posts: %w", err)
	}
	return count, nil
}

// ListByAuthor returns ALL of an author's posts, bypassing the visibility
// filter. Only the profile owner's own view may use it: the owner sees
// their drafts and future-dated posts.
func (s *PostStore) ListByAuthor(authorID uuid.UUID, limit, offset int) ([]models.Post, error) {
	query := postSelect + `
	WHERE p.author_id = $1
	ORDER BY p.pub_date DESC
	LIMIT $2 OFFSET $3`

	return s.queryPosts(query, authorID, limit, offset)
}

// CountByAuthor returns the total number of an author's posts, visible or not.
func (s *PostStore) CountByAuthor(authorID uuid.UUID) (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM posts WHERE author_id = $1`, authorID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count posts by author: %w", err)
	}
	return count, nil
}

// FindByID retrieves a post by ID without any visibility check. Used for
// the author's own detail view and for ownership checks. Returns nil if
// not found.
func (s *PostStore) FindByID(id uuid.UUID) (*models.Post, error) {
	row := s.db.QueryRow(postSelect+` WHERE p.id = $1`, id)
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by id: %w", err)
	}
	return p, nil
}

// FindVisibleByID retrieves a post by ID only if it passes the visibility
// invariant. Returns nil when the post is absent OR merely invisible, so
// non-authors cannot distinguish hidden posts from missing ones.
func (s *PostStore) FindVisibleByID(id uuid.UUID) (*models.Post, error) {
	row := s.db.QueryRow(postSelect+` WHERE p.id = $1 AND `+visibleWhere, id)
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find visible post by id: %w", err)
	}
	return p, nil
}

// Create inserts a new post and returns it with joins attached.
func (s *PostStore) Create(p *models.Post) (*models.Post, error) {
	var id uuid.UUID
	err := s.db.QueryRow(`
		INSERT INTO posts (title, text, pub_date, is_published, author_id, category_id, location_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, p.Title, p.Text, p.PubDate, p.IsPublished, p.AuthorID, p.CategoryID, p.LocationID).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return s.FindByID(id)
}

// Update modifies an existing post's editable fields.
func (s *PostStore) Update(p *models.Post) error {
	_, err := s.db.Exec(`
		UPDATE posts SET
			title = $1, text = $2, pub_date = $3, is_published = $4,
			category_id = $5, location_id = $6, updated_at = NOW()
		WHERE id = $7
	`, p.Title, p.Text, p.PubDate, p.IsPublished, p.CategoryID, p.LocationID, p.ID)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	return nil
}

// Delete removes a post by ID. Comments go with it (ON DELETE CASCADE).
func (s *PostStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}

// RecountComments persists comment_count as the live count of the post's
// comments. Always a full recount, never an increment, so the value cannot
// drift from missed events. Two concurrent recounts race benignly: each
// derives from a fresh COUNT(*), so the last write is still correct.
func (s *PostStore) RecountComments(postID uuid.UUID) error {
	_, err := s.db.Exec(`
		UPDATE posts
		SET comment_count = (SELECT COUNT(*) FROM comments WHERE post_id = $1)
		WHERE id = $1
	`, postID)
	if err != nil {
		return fmt.Errorf("recount comments: %w", err)
	}
	return nil
}

// queryPosts runs a multi-row post query and scans every joined row.
func (s *PostStore) queryPosts(query string, args ...any) ([]models.Post, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, *p)
	}
	return posts, rows.Err()
}

// joinConds combines SQL conditions with AND.
func joinConds(conds []string) string {
	out := conds[0]
	for _, c := range conds[1:] {
		out += " AND " + c
	}
	return out
}
