// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"blogicum/internal/database"
	"blogicum/internal/models"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching docker-compose.yml.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "blogicum")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "blogicum")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped. A cleanup
// function is registered to close the connection when the test finishes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := testDSN()
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	// Run migrations to ensure the schema is current.
	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	// Downgrade goose global state.
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// cleanUsers removes test users by username. Call in t.Cleanup().
func cleanUsers(t *testing.T, db *sql.DB, usernames ...string) {
	t.Helper()
	for _, username := range usernames {
		db.Exec("DELETE FROM users WHERE username = $1", username)
	}
}

// cleanCategories removes test categories by slug. Call in t.Cleanup().
func cleanCategories(t *testing.T, db *sql.DB, slugs ...string) {
	t.Helper()
	for _, slug := range slugs {
		db.Exec("DELETE FROM categories WHERE slug = $1", slug)
	}
}

// cleanPosts removes test posts by title. Comments cascade. Call in t.Cleanup().
func cleanPosts(t *testing.T, db *sql.DB, titles ...string) {
	t.Helper()
	for _, title := range titles {
		db.Exec("DELETE FROM posts WHERE title = $1", title)
	}
}

// uniqueSuffix returns a short random suffix for test record names, so
// parallel test runs against a shared database don't collide.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// mustCreateUser creates a user for fixtures and registers cleanup.
func mustCreateUser(t *testing.T, db *sql.DB, username string) *models.User {
	t.Helper()
	u, err := NewUserStore(db).Create(username, username+"@test.local", "secret-pass")
	if err != nil {
		t.Fatalf("create test user %s: %v", username, err)
	}
	t.Cleanup(func() { cleanUsers(t, db, username) })
	return u
}

// mustCreateCategory creates a category fixture and registers cleanup.
func mustCreateCategory(t *testing.T, db *sql.DB, slug string, published bool) *models.Category {
	t.Helper()
	c, err := NewCategoryStore(db).Create(&models.Category{
		Title:       "Category " + slug,
		Slug:        slug,
		Description: "test category",
		IsPublished: published,
	})
	if err != nil {
		t.Fatalf("create test category %s: %v", slug, err)
	}
	t.Cleanup(func() { cleanCategories(t, db, slug) })
	return c
}

// mustCreatePost creates a post fixture and registers cleanup.
func mustCreatePost(t *testing.T, db *sql.DB, title string, author *models.User, category *models.Category, pubDate time.Time, published bool) *models.Post {
	t.Helper()
	p, err := NewPostStore(db).Create(&models.Post{
		Title:       title,
		Text:        "Body of " + title,
		PubDate:     pubDate,
		IsPublished: published,
		AuthorID:    author.ID,
		CategoryID:  category.ID,
	})
	if err != nil {
		t.Fatalf("create test post %s: %v", title, err)
	}
	t.Cleanup(func() { cleanPosts(t, db, title) })
	return p
}
