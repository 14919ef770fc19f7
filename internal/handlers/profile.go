// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"blogicum/internal/middleware"
	"blogicum/internal/models"
	"blogicum/internal/pagination"
	"blogicum/internal/render"
	"blogicum/internal/session"
	"blogicum/internal/store"
)

// Profile groups handlers for user profile pages.
type Profile struct {
	renderer *render.Renderer
	users    *store.UserStore
	posts    *store.PostStore
	sessions *session.Store
}

// NewProfile creates a new Profile handler group.
func NewProfile(renderer *render.Renderer, users *store.UserStore, posts *store.PostStore, sessions *session.Store) *Profile {
	return &Profile{
		renderer: renderer,
		users:    users,
		posts:    posts,
		sessions: sessions,
	}
}

// View renders a user's profile with their posts. The profile owner sees
// every post they wrote, including scheduled, unpublished, and posts in
// hidden categories; everyone else sees only publicly visible ones.
func (p *Profile) View(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	user, err := p.users.FindByUsername(username)
	if err != nil {
		slog.Error("find profile user failed", "error", err, "username", username)
		renderServerError(p.renderer, w, r)
		return
	}
	if user == nil {
		renderNotFound(p.renderer, w, r)
		return
	}

	sess := middleware.SessionFromCtx(r.Context())
	isOwner := sess.Authenticated() && sess.UserID == user.ID

	var (
		total int
		posts []models.Post
	)
	if isOwner {
		total, err = p.posts.CountByAuthor(user.ID)
	} else {
		total, err = p.posts.CountVisible(store.PostFilter{AuthorID: &user.ID})
	}
	if err != nil {
		slog.Error("count profile posts failed", "error", err, "username", username)
		renderServerError(p.renderer, w, r)
		return
	}

	page := pagination.FromRequest(r, total)
	if isOwner {
		posts, err = p.posts.ListByAuthor(user.ID, page.Limit, page.Offset)
	} else {
		posts, err = p.posts.ListVisible(store.PostFilter{AuthorID: &user.ID}, page.Limit, page.Offset)
	}
	if err != nil {
		slog.Error("list profile posts failed", "error", err, "username", username)
		renderServerError(p.renderer, w, r)
		return
	}

	p.renderer.Page(w, r, "profile", &render.PageData{
		Title: user.Username,
		Data: map[string]any{
			"Profile": user,
			"IsOwner": isOwner,
			"Posts":   posts,
			"Page":    page,
		},
	})
}

// profileForm carries the profile edit fields.
type profileForm struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
}

// EditForm renders the profile edit form for the current actor. There is
// no {username} in the URL: you can only ever edit yourself.
func (p *Profile) EditForm(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	user, err := p.users.FindByID(sess.UserID)
	if err != nil || user == nil {
		slog.Error("find current user failed", "error", err, "user_id", sess.UserID)
		renderServerError(p.renderer, w, r)
		return
	}

	p.renderProfileForm(w, r, profileForm{
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}, "")
}

// EditSubmit updates the current actor's profile. A username change is
// propagated to the session so navigation links stay correct.
func (p *Profile) EditSubmit(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	form := profileForm{
		Username:  r.FormValue("username"),
		Email:     r.FormValue("email"),
		FirstName: r.FormValue("first_name"),
		LastName:  r.FormValue("last_name"),
	}

	if msg := validateProfile(form.Username, form.Email, form.FirstName, form.LastName); msg != "" {
		p.renderProfileForm(w, r, form, msg)
		return
	}

	// Reject a username already taken by somebody else.
	if existing, err := p.users.FindByUsername(form.Username); err != nil {
		slog.Error("username lookup failed", "error", err)
		renderServerError(p.renderer, w, r)
		return
	} else if existing != nil && existing.ID != sess.UserID {
		p.renderProfileForm(w, r, form, "That username is already taken.")
		return
	}

	if err := p.users.UpdateProfile(sess.UserID, form.Username, form.Email, form.FirstName, form.LastName); err != nil {
		slog.Error("update profile failed", "error", err, "user_id", sess.UserID)
		renderServerError(p.renderer, w, r)
		return
	}

	if sess.Username != form.Username {
		sess.Username = form.Username
		if err := p.sessions.Update(r.Context(), r, sess); err != nil {
			slog.Error("session update failed", "error", err)
		}
	}

	http.Redirect(w, r, "/profile/"+form.Username+"/", http.StatusSeeOther)
}

func (p *Profile) renderProfileForm(w http.ResponseWriter, r *http.Request, form profileForm, errMsg string) {
	p.renderer.Page(w, r, "profile_form", &render.PageData{
		Title: "Edit profile",
		Data: map[string]any{
			"Form":  form,
			"Error": errMsg,
		},
	})
}
