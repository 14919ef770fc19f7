package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
)

func TestCommentAdd(t *testing.T) {
	env := newTestEnv(t)
	author := createTestUser(t, env)
	commenter := createTestUser(t, env)
	cat := createTestCategory(t, env, true)
	post := createTestPost(t, env, author, cat, time.Now().Add(-time.Hour), true)

	t.Run("creates comment and recounts", func(t *testing.T) {
		form := url.Values{"text": {"nice post!"}}
		req := withChiURLParams(
			formRequest("/posts/"+post.ID.String()+"/comment/", form),
			map[string]string{"id": post.ID.String()}, testSession(commenter),
		)
		w := httptest.NewRecorder()
		env.Comments.Add(w, req)

		if w.Code != http.StatusSeeOther {
			t.Fatalf("status = %d, want 303", w.Code)
		}

		reloaded, err := env.PostStore.FindByID(post.ID)
		if err != nil || reloaded == nil {
			t.Fatalf("reload post: %v", err)
		}
		if reloaded.CommentCount != 1 {
			t.Errorf("comment_count = %d, want 1", reloaded.CommentCount)
		}
	})

	t.Run("empty text is rejected without saving", func(t *testing.T) {
		form := url.Values{"text": {"   "}}
		req := withChiURLParams(
			formRequest("/posts/"+post.ID.String()+"/comment/", form),
			map[string]string{"id": post.ID.String()}, testSession(commenter),
		)
		w := httptest.NewRecorder()
		env.Comments.Add(w, req)

		if w.Code != http.StatusSeeOther {
			t.Fatalf("status = %d, want 303", w.Code)
		}
		comments, err := env.CommentStore.ListByPost(post.ID)
		if err != nil {
			t.Fatalf("list comments: %v", err)
		}
		if len(comments) != 1 {
			t.Errorf("comment count = %d, want 1 (blank comment dropped)", len(comments))
		}
	})

	t.Run("hidden post is 404 for non-author", func(t *testing.T) {
		hidden := createTestPost(t, env, author, cat, time.Now().Add(24*time.Hour), true)

		form := url.Values{"text": {"sneaky comment"}}
		req := withChiURLParams(
			formRequest("/posts/"+hidden.ID.String()+"/comment/", form),
			map[string]string{"id": hidden.ID.String()}, testSession(commenter),
		)
		w := httptest.NewRecorder()
		env.Comments.Add(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", w.Code)
		}
	})
}

func TestCommentEdit(t *testing.T) {
	env := newTestEnv(t)
	author := createTestUser(t, env)
	commenter := createTestUser(t, env)
	cat := createTestCategory(t, env, true)
	post := createTestPost(t, env, author, cat, time.Now().Add(-time.Hour), true)
	comment := createTestComment(t, env, commenter, post, "original text")

	params := map[string]string{"id": post.ID.String(), "cid": comment.ID.String()}

	t.Run("non-owner gets 403 page", func(t *testing.T) {
		req := withChiURLParams(
			httptest.NewRequest(http.MethodGet, "/posts/"+post.ID.String()+"/edit_comment/"+comment.ID.String()+"/", nil),
			params, testSession(author),
		)
		w := httptest.NewRecorder()
		env.Comments.EditForm(w, req)

		if w.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", w.Code)
		}
	})

	t.Run("owner sees the form", func(t *testing.T) {
		req := withChiURLParams(
			httptest.NewRequest(http.MethodGet, "/posts/"+post.ID.String()+"/edit_comment/"+comment.ID.String()+"/", nil),
			params, testSession(commenter),
		)
		w := httptest.NewRecorder()
		env.Comments.EditForm(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		if !strings.Contains(w.Body.String(), "original text") {
			t.Error("edit form should be pre-filled with the comment text")
		}
	})

	t.Run("owner update persists", func(t *testing.T) {
		form := url.Values{"text": {"edited text"}}
		req := withChiURLParams(
			formRequest("/posts/"+post.ID.String()+"/edit_comment/"+comment.ID.String()+"/", form),
			params, testSession(commenter),
		)
		w := httptest.NewRecorder()
		env.Comments.EditSubmit(w, req)

		if w.Code != http.StatusSeeOther {
			t.Fatalf("status = %d, want 303", w.Code)
		}
		reloaded, err := env.CommentStore.FindByID(comment.ID)
		if err != nil || reloaded == nil {
			t.Fatalf("reload comment: %v", err)
		}
		if reloaded.Text != "edited text" {
			t.Errorf("text = %q, want %q", reloaded.Text, "edited text")
		}
	})

	t.Run("mismatched post id is 404", func(t *testing.T) {
		other := createTestPost(t, env, author, cat, time.Now().Add(-time.Hour), true)
		req := withChiURLParams(
			httptest.NewRequest(http.MethodGet, "/posts/"+other.ID.String()+"/edit_comment/"+comment.ID.String()+"/", nil),
			map[string]string{"id": other.ID.String(), "cid": comment.ID.String()}, testSession(commenter),
		)
		w := httptest.NewRecorder()
		env.Comments.EditForm(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", w.Code)
		}
	})
}

func TestCommentDelete(t *testing.T) {
	env := newTestEnv(t)
	author := createTestUser(t, env)
	commenter := createTestUser(t, env)
	cat := createTestCategory(t, env, true)
	post := createTestPost(t, env, author, cat, time.Now().Add(-time.Hour), true)
	comment := createTestComment(t, env, commenter, post, "doomed comment")

	params := map[string]string{"id": post.ID.String(), "cid": comment.ID.String()}

	t.Run("non-owner gets 403 page", func(t *testing.T) {
		req := withChiURLParams(
			formRequest("/posts/"+post.ID.String()+"/delete_comment/"+comment.ID.String()+"/", url.Values{}),
			params, testSession(author),
		)
		w := httptest.NewRecorder()
		env.Comments.DeleteSubmit(w, req)

		if w.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", w.Code)
		}
	})

	t.Run("owner confirm shows the text", func(t *testing.T) {
		req := withChiURLParams(
			httptest.NewRequest(http.MethodGet, "/posts/"+post.ID.String()+"/delete_comment/"+comment.ID.String()+"/", nil),
			params, testSession(commenter),
		)
		w := httptest.NewRecorder()
		env.Comments.DeleteConfirm(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		if !strings.Contains(w.Body.String(), "doomed comment") {
			t.Error("confirmation should show the comment text")
		}
	})

	t.Run("owner delete removes and recounts", func(t *testing.T) {
		req := withChiURLParams(
			formRequest("/posts/"+post.ID.String()+"/delete_comment/"+comment.ID.String()+"/", url.Values{}),
			params, testSession(commenter),
		)
		w := httptest.NewRecorder()
		env.Comments.DeleteSubmit(w, req)

		if w.Code != http.StatusSeeOther {
			t.Fatalf("status = %d, want 303", w.Code)
		}
		if c, _ := env.CommentStore.FindByID(comment.ID); c != nil {
			t.Error("comment should be gone")
		}

		reloaded, err := env.PostStore.FindByID(post.ID)
		if err != nil || reloaded == nil {
			t.Fatalf("reload post: %v", err)
		}
		if reloaded.CommentCount != 0 {
			t.Errorf("comment_count = %d, want 0", reloaded.CommentCount)
		}
	})
}
