// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// blog. Public reads need no session; everything that writes sits behind
// authentication, CSRF protection, and (where enrolled) 2FA.
package router

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"blogicum/internal/handlers"
	"blogicum/internal/middleware"
	"blogicum/internal/session"
	"blogicum/web"
)

// loginRateLimit caps credential-guessing attempts per client IP.
const (
	loginRateLimit  = 10
	loginRateWindow = time.Minute
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(sessionStore *session.Store, blog *handlers.Blog, comments *handlers.Comments, profile *handlers.Profile, auth *handlers.Auth, pages *handlers.Pages) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(sessionStore))
	r.Use(middleware.CSRF)

	r.NotFound(pages.NotFound)

	// Health check — no session needed.
	r.Get("/health", pages.Health)

	// Static assets (compiled CSS in production), served from the embed.
	staticFS, _ := fs.Sub(web.StaticFS, "static")
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	// Public pages.
	r.Get("/", blog.Home)
	r.Get("/posts/{id}/", blog.Detail)
	r.Get("/category/{slug}/", blog.Category)
	r.Get("/profile/{username}/", profile.View)
	r.Get("/pages/about/", pages.About)
	r.Get("/pages/rules/", pages.Rules)

	// Auth flows.
	r.Route("/auth", func(r chi.Router) {
		loginLimiter := middleware.NewRateLimiter(loginRateLimit, loginRateWindow)

		r.Get("/registration/", auth.RegisterPage)
		r.With(loginLimiter.Middleware).Post("/registration/", auth.RegisterSubmit)
		r.Get("/login/", auth.LoginPage)
		r.With(loginLimiter.Middleware).Post("/login/", auth.LoginSubmit)
		r.Post("/logout/", auth.Logout)

		// Code prompt for half-open sessions: needs a session, not full auth.
		r.Get("/2fa/verify/", auth.TwoFAVerifyPage)
		r.With(loginLimiter.Middleware).Post("/2fa/verify/", auth.TwoFAVerifySubmit)

		// Enrollment is voluntary and requires a fully authenticated actor.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.Require2FA)
			r.Get("/2fa/setup/", auth.TwoFASetupPage)
			r.Post("/2fa/setup/", auth.TwoFASetupSubmit)
		})
	})

	// Authenticated area: everything that creates or mutates content.
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Use(middleware.Require2FA)

		r.Get("/edit_profile/", profile.EditForm)
		r.Post("/edit_profile/", profile.EditSubmit)

		r.Get("/posts/create/", blog.CreateForm)
		r.Post("/posts/create/", blog.CreateSubmit)
		r.Get("/posts/{id}/edit/", blog.EditForm)
		r.Post("/posts/{id}/edit/", blog.EditSubmit)
		r.Get("/posts/{id}/delete/", blog.DeleteConfirm)
		r.Post("/posts/{id}/delete/", blog.DeleteSubmit)

		r.Post("/posts/{id}/comment/", comments.Add)
		r.Get("/posts/{id}/edit_comment/{cid}/", comments.EditForm)
		r.Post("/posts/{id}/edit_comment/{cid}/", comments.EditSubmit)
		r.Get("/posts/{id}/delete_comment/{cid}/", comments.DeleteConfirm)
		r.Post("/posts/{id}/delete_comment/{cid}/", comments.DeleteSubmit)
	})

	return r
}
