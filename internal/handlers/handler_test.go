// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler integration
// tests. Tests are skipped when PostgreSQL or Valkey are unavailable.
package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	"blogicum/internal/database"
	"blogicum/internal/middleware"
	"blogicum/internal/models"
	"blogicum/internal/render"
	"blogicum/internal/session"
	"blogicum/internal/store"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "blogicum")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "blogicum")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testValkeyClient returns a Redis client for handler tests on DB 15.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, "session:*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})

	return client
}

// testEnv holds all dependencies for handler integration tests.
type testEnv struct {
	DB            *sql.DB
	Valkey        *redis.Client
	Renderer      *render.Renderer
	Sessions      *session.Store
	UserStore     *store.UserStore
	PostStore     *store.PostStore
	CategoryStore *store.CategoryStore
	LocationStore *store.LocationStore
	CommentStore  *store.CommentStore
	Blog          *Blog
	Comments      *Comments
	Profile       *Profile
	Auth          *Auth
	Pages         *Pages
}

// newTestEnv creates a complete test environment with all handler dependencies.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testDB(t)
	vk := testValkeyClient(t)

	renderer, err := render.New(true)
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	sessions := session.NewStore(vk, false)
	userStore := store.NewUserStore(db)
	postStore := store.NewPostStore(db)
	categoryStore := store.NewCategoryStore(db)
	locationStore := store.NewLocationStore(db)
	commentStore := store.NewCommentStore(db)

	return &testEnv{
		DB:            db,
		Valkey:        vk,
		Renderer:      renderer,
		Sessions:      sessions,
		UserStore:     userStore,
		PostStore:     postStore,
		CategoryStore: categoryStore,
		LocationStore: locationStore,
		CommentStore:  commentStore,
		Blog:          NewBlog(renderer, postStore, categoryStore, locationStore, commentStore),
		Comments:      NewComments(renderer, commentStore, postStore),
		Profile:       NewProfile(renderer, userStore, postStore, sessions),
		Auth:          NewAuth(renderer, sessions, userStore),
		Pages:         NewPages(renderer),
	}
}

// uniqueSuffix returns a short random string for unique fixture names.
func uniqueSuffix() string {
	return uuid.NewString()[:8]
}

// testSession creates a fully authenticated session.Data for a user.
func testSession(user *models.User) *session.Data {
	return &session.Data{
		UserID:    user.ID,
		Username:  user.Username,
		TwoFADone: true,
		CreatedAt: time.Now(),
	}
}

// ctxWithSession adds session data to a context using the middleware key.
func ctxWithSession(ctx context.Context, data *session.Data) context.Context {
	return context.WithValue(ctx, middleware.SessionKey, data)
}

// withChiURLParams adds chi URL parameters and an optional session to a
// request, the way the router and middleware would.
func withChiURLParams(r *http.Request, params map[string]string, sess *session.Data) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	ctx := context.WithValue(r.Context(), chi.RouteCtxKey, rctx)
	if sess != nil {
		ctx = ctxWithSession(ctx, sess)
	}
	return r.WithContext(ctx)
}

// createTestUser inserts a user and schedules cleanup. Posts and comments
// cascade with the user row.
func createTestUser(t *testing.T, env *testEnv) *models.User {
	t.Helper()

	username := "handler_" + uniqueSuffix()
	user, err := env.UserStore.Create(username, username+"@example.com", "password123")
	if err != nil {
		t.Fatalf("create test user: %v", err)
	}
	t.Cleanup(func() {
		env.DB.Exec("DELETE FROM users WHERE id = $1", user.ID)
	})
	return user
}

// createTestCategory inserts a category and schedules cleanup.
func createTestCategory(t *testing.T, env *testEnv, published bool) *models.Category {
	t.Helper()

	slug := "handler-cat-" + uniqueSuffix()
	cat, err := env.CategoryStore.Create(&models.Category{
		Title:       "Handler Category " + slug,
		Slug:        slug,
		Description: "category for handler tests",
		IsPublished: published,
	})
	if err != nil {
		t.Fatalf("create test category: %v", err)
	}
	t.Cleanup(func() {
		env.DB.Exec("DELETE FROM categories WHERE id = $1", cat.ID)
	})
	return cat
}

// createTestPost inserts a post; pubDate in the past and published=true
// makes it publicly visible when the category is published too.
func createTestPost(t *testing.T, env *testEnv, author *models.User, cat *models.Category, pubDate time.Time, published bool) *models.Post {
	t.Helper()

	post, err := env.PostStore.Create(&models.Post{
		Title:       "Handler Post " + uniqueSuffix(),
		Text:        "Some **markdown** body.",
		PubDate:     pubDate,
		IsPublished: published,
		AuthorID:    author.ID,
		CategoryID:  cat.ID,
	})
	if err != nil {
		t.Fatalf("create test post: %v", err)
	}
	return post
}

// createTestComment inserts a comment on a post and recounts.
func createTestComment(t *testing.T, env *testEnv, author *models.User, post *models.Post, text string) *models.Comment {
	t.Helper()

	comment, err := env.CommentStore.Create(&models.Comment{
		Text:     text,
		AuthorID: author.ID,
		PostID:   post.ID,
	})
	if err != nil {
		t.Fatalf("create test comment: %v", err)
	}
	if err := env.PostStore.RecountComments(post.ID); err != nil {
		t.Fatalf("recount comments: %v", err)
	}
	return comment
}
