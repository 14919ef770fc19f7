// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"blogicum/internal/middleware"
	"blogicum/internal/models"
	"blogicum/internal/render"
	"blogicum/internal/store"
)

// Comments groups handlers for the comment lifecycle. Unlike post
// mutations, touching someone else's comment is answered with an explicit
// 403 page.
type Comments struct {
	renderer *render.Renderer
	comments *store.CommentStore
	posts    *store.PostStore
}

// NewComments creates a new Comments handler group.
func NewComments(renderer *render.Renderer, comments *store.CommentStore, posts *store.PostStore) *Comments {
	return &Comments{
		renderer: renderer,
		comments: comments,
		posts:    posts,
	}
}

// Add creates a comment on a post the actor can see and recounts the
// post's comment total.
func (c *Comments) Add(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	id := postIDParam(r)

	post, err := postForViewer(c.posts, id, sess)
	if err != nil {
		slog.Error("find post for comment failed", "error", err, "post_id", id)
		renderServerError(c.renderer, w, r)
		return
	}
	if post == nil {
		renderNotFound(c.renderer, w, r)
		return
	}

	text := r.FormValue("text")
	if validateComment(text) != "" {
		// Invalid comment: back to the detail page, nothing saved.
		http.Redirect(w, r, "/posts/"+post.ID.String()+"/", http.StatusSeeOther)
		return
	}

	if _, err := c.comments.Create(&models.Comment{
		Text:     text,
		AuthorID: sess.UserID,
		PostID:   post.ID,
	}); err != nil {
		slog.Error("create comment failed", "error", err, "post_id", post.ID)
		renderServerError(c.renderer, w, r)
		return
	}

	if err := c.posts.RecountComments(post.ID); err != nil {
		slog.Error("recount comments failed", "error", err, "post_id", post.ID)
	}

	http.Redirect(w, r, "/posts/"+post.ID.String()+"/", http.StatusSeeOther)
}

// ownComment loads a comment for a mutation by its author. Missing
// comments (or a post/comment mismatch in the URL) 404; someone else's
// comment gets the 403 page. Returns nil when a response was written.
func (c *Comments) ownComment(w http.ResponseWriter, r *http.Request) *models.Comment {
	sess := middleware.SessionFromCtx(r.Context())
	postID := postIDParam(r)

	commentID, err := uuid.Parse(chi.URLParam(r, "cid"))
	if err != nil {
		renderNotFound(c.renderer, w, r)
		return nil
	}

	comment, err := c.comments.FindByID(commentID)
	if err != nil {
		slog.Error("find comment failed", "error", err, "comment_id", commentID)
		renderServerError(c.renderer, w, r)
		return nil
	}
	if comment == nil || comment.PostID != postID {
		renderNotFound(c.renderer, w, r)
		return nil
	}
	if comment.AuthorID != sess.UserID {
		renderForbidden(c.renderer, w, r)
		return nil
	}
	return comment
}

// EditForm renders the comment edit form.
func (c *Comments) EditForm(w http.ResponseWriter, r *http.Request) {
	comment := c.ownComment(w, r)
	if comment == nil {
		return
	}

	c.renderer.Page(w, r, "comment_form", &render.PageData{
		Title: "Edit comment",
		Data: map[string]any{
			"Mode":    "edit",
			"Comment": comment,
			"Text":    comment.Text,
		},
	})
}

// EditSubmit updates the actor's own comment.
func (c *Comments) EditSubmit(w http.ResponseWriter, r *http.Request) {
	comment := c.ownComment(w, r)
	if comment == nil {
		return
	}

	text := r.FormValue("text")
	if msg := validateComment(text); msg != "" {
		c.renderer.Page(w, r, "comment_form", &render.PageData{
			Title: "Edit comment",
			Data: map[string]any{
				"Mode":    "edit",
				"Comment": comment,
				"Text":    text,
				"Error":   msg,
			},
		})
		return
	}

	if err := c.comments.Update(comment.ID, text); err != nil {
		slog.Error("update comment failed", "error", err, "comment_id", comment.ID)
		renderServerError(c.renderer, w, r)
		return
	}

	http.Redirect(w, r, "/posts/"+comment.PostID.String()+"/", http.StatusSeeOther)
}

// DeleteConfirm renders the comment delete confirmation.
func (c *Comments) DeleteConfirm(w http.ResponseWriter, r *http.Request) {
	comment := c.ownComment(w, r)
	if comment == nil {
		return
	}

	c.renderer.Page(w, r, "comment_form", &render.PageData{
		Title: "Delete comment",
		Data: map[string]any{
			"Mode":    "delete",
			"Comment": comment,
		},
	})
}

// DeleteSubmit deletes the actor's own comment and recounts the post's
// comment total.
func (c *Comments) DeleteSubmit(w http.ResponseWriter, r *http.Request) {
	comment := c.ownComment(w, r)
	if comment == nil {
		return
	}

	if err := c.comments.Delete(comment.ID); err != nil {
		slog.Error("delete comment failed", "error", err, "comment_id", comment.ID)
		renderServerError(c.renderer, w, r)
		return
	}

	if err := c.posts.RecountComments(comment.PostID); err != nil {
		slog.Error("recount comments failed", "error", err, "post_id", comment.PostID)
	}

	http.Redirect(w, r, "/posts/"+comment.PostID.String()+"/", http.StatusSeeOther)
}
