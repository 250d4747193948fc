package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/privlab/leakshare/internal/middleware"
	"github.com/privlab/leakshare/internal/models"
	"github.com/privlab/leakshare/internal/repo"
)

// ==========================
// Post Handler
// ==========================
type PostHandler struct {
	Posts *repo.PostRepo
	Logs  *repo.AccessLogRepo
}

// ==========================
// List Public Posts (compliant: public, not soft-deleted)
// ==========================
func (h *PostHandler) ListPublic(w http.ResponseWriter, r *http.Request) {
	posts, err := h.Posts.ListPublic(r.Context())
	if err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	if err := recordAccess(r, h.Logs, "/posts", map[string]interface{}{
		"action": "view_public_posts",
	}); err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	JSON(w, http.StatusOK, models.PostViews(posts, false))
}

// ==========================
// Create Post
// ==========================
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		JSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	var input struct {
		Title    string `json:"title"`
		Content  string `json:"content"`
		IsPublic bool   `json:"is_public"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	fields := make(map[string]string)
	if input.Title == "" {
		fields["title"] = "required"
	}
	if input.Content == "" {
		fields["content"] = "required"
	}
	if len(fields) > 0 {
		JSONValidationError(w, "validation failed", fields, http.StatusBadRequest)
		return
	}

	post, err := h.Posts.Create(r.Context(), input.Title, input.Content, userID, input.IsPublic)
	if err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	if username, ok := middleware.GetUsername(r.Context()); ok {
		post.AuthorUsername = username
	}

	JSON(w, http.StatusCreated, post.View(true))
}

// loadOwnedPost fetches the post and enforces the owner-or-admin rule.
// Returns nil after writing the error response when the caller may not touch it.
func (h *PostHandler) loadOwnedPost(w http.ResponseWriter, r *http.Request) *models.Post {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		JSONError(w, "invalid post id", http.StatusBadRequest)
		return nil
	}

	post, err := h.Posts.GetByID(r.Context(), id)
	if err != nil {
		if err == sql.ErrNoRows {
			JSONError(w, "post not found", http.StatusNotFound)
		} else {
			JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		}
		return nil
	}

	userID, _ := middleware.GetUserID(r.Context())
	if post.UserID != userID && !middleware.IsAdmin(r.Context()) {
		JSONError(w, "you do not have permission to modify this post", http.StatusForbidden)
		return nil
	}
	return post
}

// ==========================
// Edit Post (owner or admin)
// ==========================
func (h *PostHandler) Edit(w http.ResponseWriter, r *http.Request) {
	post := h.loadOwnedPost(w, r)
	if post == nil {
		return
	}

	var input struct {
		Title    string `json:"title"`
		Content  string `json:"content"`
		IsPublic bool   `json:"is_public"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if input.Title == "" || input.Content == "" {
		JSONValidationError(w, "validation failed", map[string]string{"title": "required", "content": "required"}, http.StatusBadRequest)
		return
	}

	if err := h.Posts.Update(r.Context(), post.ID, input.Title, input.Content, input.IsPublic); err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	updated, err := h.Posts.GetByID(r.Context(), post.ID)
	if err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	JSON(w, http.StatusOK, updated.View(true))
}

// ==========================
// Delete Post (soft delete: the row stays in storage)
// ==========================
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	post := h.loadOwnedPost(w, r)
	if post == nil {
		return
	}

	if err := h.Posts.SoftDelete(r.Context(), post.ID); err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	JSON(w, http.StatusOK, map[string]string{"message": "post deleted"})
}
