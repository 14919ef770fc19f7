package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"blogicum/internal/slug"
)

// Seed populates the database with initial development data: a default
// admin user, a starter category, and a couple of locations. It is a
// no-op when users already exist, so repeated startups are safe.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	// 2FA stays off until the admin enables it from their profile.
	_, err = db.Exec(`
		INSERT INTO users (username, email, password_hash, totp_enabled)
		VALUES ($1, $2, $3, $4)
	`, "admin", "admin@blogicum.local", string(hash), false)
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	for _, title := range []string{"News", "Travel Notes"} {
		_, err = db.Exec(`
			INSERT INTO categories (title, slug, description, is_published)
			VALUES ($1, $2, $3, TRUE)
		`, title, slug.Generate(title), "Posts about "+title+".")
		if err != nil {
			return fmt.Errorf("seed insert category %q: %w", title, err)
		}
	}

	for _, name := range []string{"The Hague", "Bucharest"} {
		if _, err := db.Exec(
			"INSERT INTO locations (name, is_published) VALUES ($1, TRUE)", name,
		); err != nil {
			return fmt.Errorf("seed insert location %q: %w", name, err)
		}
	}

	slog.Info("database seeded with default admin user",
		"username", "admin",
		"password", "admin",
	)

	return nil
}
