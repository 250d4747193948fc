package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"github.com/privlab/leakshare/internal/models"
	"github.com/privlab/leakshare/internal/repo"
)

// AdminHandler serves the management views. These are compliant reads: the
// caller's admin capability was already checked before dispatch, so private
// fields are legitimately visible and the rows are logged without a leak tag.
type AdminHandler struct {
	Users *repo.UserRepo
	Posts *repo.PostRepo
	Logs  *repo.AccessLogRepo
}

// ListUsers returns every user with private fields visible.
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Users.ListAll(r.Context())
	if err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	views := make([]models.UserView, 0, len(users))
	for i := range users {
		views = append(views, users[i].View(true))
	}

	if err := recordAccess(r, h.Logs, "/admin/users", map[string]interface{}{
		"action": "view_all_users",
	}); err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	JSON(w, http.StatusOK, views)
}

// ListPosts returns every post row, soft-deleted included.
func (h *AdminHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.Posts.ListAll(r.Context(), true)
	if err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	if err := recordAccess(r, h.Logs, "/admin/posts", map[string]interface{}{
		"action": "view_all_posts",
	}); err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	JSON(w, http.StatusOK, models.PostViews(posts, true))
}

// ListLogs returns the full access log, newest first, with the leak count.
// Query: limit (default 100, max 500).
func (h *AdminHandler) ListLogs(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if l := r.URL.Query().Get("limit"); l != "" {
		if val, err := strconv.Atoi(l); err == nil && val > 0 && val <= 500 {
			limit = val
		}
	}

	entries, err := h.Logs.ListAll(r.Context(), limit)
	if err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	leaks, err := h.Logs.CountLeaks(r.Context())
	if err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"logs":          entries,
		"privacy_leaks": leaks,
	})
}

// EditUser updates any user's record, including the admin flag and the
// visibility flags, with an optional password reset.
func (h *AdminHandler) EditUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		JSONError(w, "invalid user id", http.StatusBadRequest)
		return
	}

	var input struct {
		Username    string `json:"username"`
		Email       string `json:"email"`
		Bio         string `json:"bio"`
		IsAdmin     bool   `json:"is_admin"`
		EmailPublic bool   `json:"email_public"`
		BioPublic   bool   `json:"bio_public"`
		NewPassword string `json:"new_password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	fields := make(map[string]string)
	if input.Username == "" {
		fields["username"] = "required"
	}
	if input.Email == "" {
		fields["email"] = "required"
	}
	if len(fields) > 0 {
		JSONValidationError(w, "validation failed", fields, http.StatusBadRequest)
		return
	}

	err = h.Users.AdminUpdate(r.Context(), &models.User{
		ID:          id,
		Username:    input.Username,
		Email:       input.Email,
		Bio:         input.Bio,
		IsAdmin:     input.IsAdmin,
		EmailPublic: input.EmailPublic,
		BioPublic:   input.BioPublic,
	})
	if err != nil {
		if err == sql.ErrNoRows {
			JSONError(w, "user not found", http.StatusNotFound)
			return
		}
		if e, ok := err.(*pq.Error); ok && e.Code == "23505" {
			JSONError(w, "username or email already exists", http.StatusConflict)
			return
		}
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	if input.NewPassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
			return
		}
		if err := h.Users.UpdatePassword(r.Context(), id, string(hash)); err != nil {
			JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
			return
		}
	}

	user, err := h.Users.GetByID(r.Context(), id)
	if err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	JSON(w, http.StatusOK, user.View(true))
}
