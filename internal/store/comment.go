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

// CommentStore handles all comment-related database operations.
// Callers are responsible for invoking PostStore.RecountComments after
// every Create or Delete so the parent post's comment_count stays exact.
type CommentStore struct {
	db *sql.DB
}

// NewCommentStore creates a new CommentStore with the given database connection.
func NewCommentStore(db *sql.DB) *CommentStore {
	return &CommentStore{db: db}
}

// ListByPost returns a post's comments oldest-first with authors joined.
func (s *CommentStore) ListByPost(postID uuid.UUID) ([]models.Comment, error) {
	rows, err := s.db.Query(`
		SELECT cm.id, cm.text, cm.author_id, cm.post_id, cm.created_at,
		       u.username, u.first_name, u.last_name
		FROM comments cm
		JOIN users u ON u.id = cm.author_id
		WHERE cm.post_id = $1
		ORDER BY cm.created_at ASC
	`, postID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		var (
			cm     models.Comment
			author models.User
		)
		err := rows.Scan(
			&cm.ID, &cm.Text, &cm.AuthorID, &cm.PostID, &cm.CreatedAt,
			&author.Username, &author.FirstName, &author.LastName,
		)
		if err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		author.ID = cm.AuthorID
		cm.Author = &author
		comments = append(comments, cm)
	}
	return comments, rows.Err()
}

// FindByID retrieves a comment by its UUID. Returns nil if not found.
func (s *CommentStore) FindByID(id uuid.UUID) (*models.Comment, error) {
	cm := &models.Comment{}
	err := s.db.QueryRow(`
		SELECT id, text, author_id, post_id, created_at
		FROM comments WHERE id = $1
	`, id).Scan(&cm.ID, &cm.Text, &cm.AuthorID, &cm.PostID, &cm.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find comment by id: %w", err)
	}
	return cm, nil
}

// Create inserts a new comment and returns it.
func (s *CommentStore) Create(cm *models.Comment) (*models.Comment, error) {
	result := &models.Comment{}
	err := s.db.QueryRow(`
		INSERT INTO comments (text, author_id, post_id)
		VALUES ($1, $2, $3)
		RETURNING id, text, author_id, post_id, created_at
	`, cm.Text, cm.AuthorID, cm.PostID).Scan(
		&result.ID, &result.Text, &result.AuthorID, &result.PostID, &result.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return result, nil
}

// Update modifies a comment's text.
func (s *CommentStore) Update(id uuid.UUID, text string) error {
	_, err := s.db.Exec(`UPDATE comments SET text = $1 WHERE id = $2`, text, id)
	if err != nil {
		return fmt.Errorf("update comment: %w", err)
	}
	return nil
}

// Delete removes a comment by ID.
func (s *CommentStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}
