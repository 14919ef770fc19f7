// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"blogicum/internal/markdown"
	"blogicum/internal/middleware"
	"blogicum/internal/models"
	"blogicum/internal/pagination"
	"blogicum/internal/render"
	"blogicum/internal/session"
	"blogicum/internal/store"
)

// pubDateLayout is the format used by <input type="datetime-local">.
const pubDateLayout = "2006-01-02T15:04"

// Blog groups handlers for post listings and the post lifecycle.
type Blog struct {
	renderer   *render.Renderer
	posts      *store.PostStore
	categories *store.CategoryStore
	locations  *store.LocationStore
	comments   *store.CommentStore
}

// NewBlog creates a new Blog handler group.
func NewBlog(renderer *render.Renderer, posts *store.PostStore, categories *store.CategoryStore, locations *store.LocationStore, comments *store.CommentStore) *Blog {
	return &Blog{
		renderer:   renderer,
		posts:      posts,
		categories: categories,
		locations:  locations,
		comments:   comments,
	}
}

// postForViewer loads a post the given session is allowed to see: the
// author sees their own posts regardless of visibility, everyone else
// only sees publicly visible ones. Returns nil when the post does not
// exist or is hidden from this viewer; hidden posts are indistinguishable
// from absent ones.
func postForViewer(posts *store.PostStore, id uuid.UUID, sess *session.Data) (*models.Post, error) {
	post, err := posts.FindByID(id)
	if err != nil || post == nil {
		return nil, err
	}
	if sess.Authenticated() && sess.UserID == post.AuthorID {
		return post, nil
	}
	if !post.VisibleAt(time.Now()) {
		return nil, nil
	}
	return post, nil
}

// postIDParam parses the {id} URL parameter. Returns uuid.Nil on garbage;
// callers treat that as not found.
func postIDParam(r *http.Request) uuid.UUID {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil
	}
	return id
}

// Home renders the public post listing, newest first, ten per page.
func (b *Blog) Home(w http.ResponseWriter, r *http.Request) {
	total, err := b.posts.CountVisible(store.PostFilter{})
	if err != nil {
		slog.Error("count visible posts failed", "error", err)
		renderServerError(b.renderer, w, r)
		return
	}

	page := pagination.FromRequest(r, total)
	posts, err := b.posts.ListVisible(store.PostFilter{}, page.Limit, page.Offset)
	if err != nil {
		slog.Error("list visible posts failed", "error", err)
		renderServerError(b.renderer, w, r)
		return
	}

	b.renderer.Page(w, r, "index", &render.PageData{
		Title: "Latest posts",
		Data: map[string]any{
			"Posts": posts,
			"Page":  page,
		},
	})
}

// Category renders the listing of visible posts in one published category.
// Unpublished and unknown categories are both a 404.
func (b *Blog) Category(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	category, err := b.categories.FindPublishedBySlug(slug)
	if err != nil {
		slog.Error("find category failed", "error", err, "slug", slug)
		renderServerError(b.renderer, w, r)
		return
	}
	if category == nil {
		renderNotFound(b.renderer, w, r)
		return
	}

	filter := store.PostFilter{CategorySlug: slug}
	total, err := b.posts.CountVisible(filter)
	if err != nil {
		slog.Error("count category posts failed", "error", err, "slug", slug)
		renderServerError(b.renderer, w, r)
		return
	}

	page := pagination.FromRequest(r, total)
	posts, err := b.posts.ListVisible(filter, page.Limit, page.Offset)
	if err != nil {
		slog.Error("list category posts failed", "error", err, "slug", slug)
		renderServerError(b.renderer, w, r)
		return
	}

	b.renderer.Page(w, r, "category", &render.PageData{
		Title: category.Title,
		Data: map[string]any{
			"Category": category,
			"Posts":    posts,
			"Page":     page,
		},
	})
}

// Detail renders a single post with its comments and the comment form.
// Hidden posts 404 for everyone except their author.
func (b *Blog) Detail(w http.ResponseWriter, r *http.Request) {
	id := postIDParam(r)
	sess := middleware.SessionFromCtx(r.Context())

	post, err := postForViewer(b.posts, id, sess)
	if err != nil {
		slog.Error("find post failed", "error", err, "post_id", id)
		renderServerError(b.renderer, w, r)
		return
	}
	if post == nil {
		renderNotFound(b.renderer, w, r)
		return
	}

	comments, err := b.comments.ListByPost(post.ID)
	if err != nil {
		slog.Error("list comments failed", "error", err, "post_id", id)
		renderServerError(b.renderer, w, r)
		return
	}

	bodyHTML, err := markdown.ToHTML(post.Text)
	if err != nil {
		slog.Error("render post markdown failed", "error", err, "post_id", id)
		renderServerError(b.renderer, w, r)
		return
	}

	b.renderer.Page(w, r, "detail", &render.PageData{
		Title: post.Title,
		Data: map[string]any{
			"Post":     post,
			"PostHTML": template.HTML(bodyHTML),
			"Comments": comments,
			"IsOwner":  sess.Authenticated() && sess.UserID == post.AuthorID,
		},
	})
}

// postForm carries post form values between request parsing and templates.
type postForm struct {
	Title       string
	Text        string
	PubDate     string
	CategoryID  string
	LocationID  string
	IsPublished bool
}

// parsePostForm reads post fields from a submitted form.
func parsePostForm(r *http.Request) postForm {
	return postForm{
		Title:       r.FormValue("title"),
		Text:        r.FormValue("text"),
		PubDate:     r.FormValue("pub_date"),
		CategoryID:  r.FormValue("category"),
		LocationID:  r.FormValue("location"),
		IsPublished: r.FormValue("is_published") == "on",
	}
}

// formFromPost pre-fills the form from an existing post for editing.
func formFromPost(post *models.Post) postForm {
	f := postForm{
		Title:       post.Title,
		Text:        post.Text,
		PubDate:     post.PubDate.Format(pubDateLayout),
		CategoryID:  post.CategoryID.String(),
		IsPublished: post.IsPublished,
	}
	if post.LocationID != nil {
		f.LocationID = post.LocationID.String()
	}
	return f
}

// renderPostForm renders the create/edit form, optionally with an error.
func (b *Blog) renderPostForm(w http.ResponseWriter, r *http.Request, mode string, postID uuid.UUID, form postForm, errMsg string) {
	categories, err := b.categories.ListPublished()
	if err != nil {
		slog.Error("list categories failed", "error", err)
		renderServerError(b.renderer, w, r)
		return
	}
	locations, err := b.locations.ListPublished()
	if err != nil {
		slog.Error("list locations failed", "error", err)
		renderServerError(b.renderer, w, r)
		return
	}

	title := "New post"
	if mode == "edit" {
		title = "Edit post"
	}
	b.renderer.Page(w, r, "post_form", &render.PageData{
		Title: title,
		Data: map[string]any{
			"Mode":       mode,
			"PostID":     postID,
			"Form":       form,
			"Categories": categories,
			"Locations":  locations,
			"Error":      errMsg,
		},
	})
}

// CreateForm renders the empty post form.
func (b *Blog) CreateForm(w http.ResponseWriter, r *http.Request) {
	form := postForm{
		PubDate:     time.Now().Format(pubDateLayout),
		IsPublished: true,
	}
	b.renderPostForm(w, r, "create", uuid.Nil, form, "")
}

// CreateSubmit creates a post authored by the current actor and redirects
// to their profile, where scheduled posts are immediately listed.
func (b *Blog) CreateSubmit(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	form := parsePostForm(r)

	post, errMsg := b.postFromForm(form, sess.UserID)
	if errMsg != "" {
		b.renderPostForm(w, r, "create", uuid.Nil, form, errMsg)
		return
	}

	if _, err := b.posts.Create(post); err != nil {
		slog.Error("create post failed", "error", err)
		renderServerError(b.renderer, w, r)
		return
	}

	http.Redirect(w, r, "/profile/"+sess.Username+"/", http.StatusSeeOther)
}

// postFromForm validates form values and builds a post. Returns a
// human-readable message on validation failure.
func (b *Blog) postFromForm(form postForm, authorID uuid.UUID) (*models.Post, string) {
	if msg := validatePost(form.Title, form.Text, form.PubDate, form.CategoryID); msg != "" {
		return nil, msg
	}

	pubDate, err := time.ParseInLocation(pubDateLayout, form.PubDate, time.Local)
	if err != nil {
		return nil, "Enter a valid publication date."
	}
	categoryID, err := uuid.Parse(form.CategoryID)
	if err != nil {
		return nil, "Choose a valid category."
	}

	post := &models.Post{
		Title:       form.Title,
		Text:        form.Text,
		PubDate:     pubDate,
		IsPublished: form.IsPublished,
		AuthorID:    authorID,
		CategoryID:  categoryID,
	}
	if form.LocationID != "" {
		locationID, err := uuid.Parse(form.LocationID)
		if err != nil {
			return nil, "Choose a valid location."
		}
		post.LocationID = &locationID
	}
	return post, ""
}

// ownPost loads a post for a mutation by its author. When the actor is
// not the author it writes a silent redirect to the detail page and
// returns nil; a missing post 404s.
func (b *Blog) ownPost(w http.ResponseWriter, r *http.Request) *models.Post {
	id := postIDParam(r)
	sess := middleware.SessionFromCtx(r.Context())

	post, err := b.posts.FindByID(id)
	if err != nil {
		slog.Error("find post failed", "error", err, "post_id", id)
		renderServerError(b.renderer, w, r)
		return nil
	}
	if post == nil {
		renderNotFound(b.renderer, w, r)
		return nil
	}
	if post.AuthorID != sess.UserID {
		// Not the author: bounce to the detail page without surfacing an
		// error, keeping edit URLs unprobeable.
		http.Redirect(w, r, "/posts/"+post.ID.String()+"/", http.StatusSeeOther)
		return nil
	}
	return post
}

// EditForm renders the edit form pre-filled with the post's fields.
func (b *Blog) EditForm(w http.ResponseWriter, r *http.Request) {
	post := b.ownPost(w, r)
	if post == nil {
		return
	}
	b.renderPostForm(w, r, "edit", post.ID, formFromPost(post), "")
}

// EditSubmit applies edits to the actor's own post.
func (b *Blog) EditSubmit(w http.ResponseWriter, r *http.Request) {
	post := b.ownPost(w, r)
	if post == nil {
		return
	}

	form := parsePostForm(r)
	updated, errMsg := b.postFromForm(form, post.AuthorID)
	if errMsg != "" {
		b.renderPostForm(w, r, "edit", post.ID, form, errMsg)
		return
	}

	updated.ID = post.ID
	if err := b.posts.Update(updated); err != nil {
		slog.Error("update post failed", "error", err, "post_id", post.ID)
		renderServerError(b.renderer, w, r)
		return
	}

	http.Redirect(w, r, "/posts/"+post.ID.String()+"/", http.StatusSeeOther)
}

// DeleteConfirm renders a read-only confirmation view of the post.
func (b *Blog) DeleteConfirm(w http.ResponseWriter, r *http.Request) {
	post := b.ownPost(w, r)
	if post == nil {
		return
	}

	b.renderer.Page(w, r, "post_form", &render.PageData{
		Title: "Delete post",
		Data: map[string]any{
			"Mode":   "delete",
			"PostID": post.ID,
			"Form":   formFromPost(post),
		},
	})
}

// DeleteSubmit deletes the actor's own post; comments go with it.
func (b *Blog) DeleteSubmit(w http.ResponseWriter, r *http.Request) {
	post := b.ownPost(w, r)
	if post == nil {
		return
	}

	if err := b.posts.Delete(post.ID); err != nil {
		slog.Error("delete post failed", "error", err, "post_id", post.ID)
		renderServerError(b.renderer, w, r)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}
