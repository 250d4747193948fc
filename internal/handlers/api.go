package handlers

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/privlab/leakshare/internal/middleware"
	"github.com/privlab/leakshare/internal/models"
	"github.com/privlab/leakshare/internal/repo"
)

// APIHandler serves the JSON read paths: the compliant self-reads and public
// profile, and the non-compliant endpoints that exist to demonstrate leaks.
// Every read writes exactly one access-log row; the non-compliant ones tag it
// with their leak type.
type APIHandler struct {
	Users *repo.UserRepo
	Posts *repo.PostRepo
	Logs  *repo.AccessLogRepo
}

// ==========================
// Compliant reads
// ==========================

// Me returns the caller's own full record.
func (h *APIHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		JSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	user, err := h.Users.GetByID(r.Context(), userID)
	if err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	if err := recordAccess(r, h.Logs, "/api/users/me", map[string]interface{}{
		"user_id": userID,
	}); err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	JSON(w, http.StatusOK, user.View(true))
}

// MyPosts returns the caller's own posts, private included, soft-deleted excluded.
func (h *APIHandler) MyPosts(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		JSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	posts, err := h.Posts.ListByUser(r.Context(), userID)
	if err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	views := models.PostViews(posts, true)

	if err := recordAccess(r, h.Logs, "/api/posts/me", map[string]interface{}{
		"user_id":    userID,
		"post_count": len(views),
	}); err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	JSON(w, http.StatusOK, views)
}

// MyLogs returns the caller's own access-log trail. Admins see the most
// recent entries across all users plus the running leak count.
func (h *APIHandler) MyLogs(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		JSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	if middleware.IsAdmin(r.Context()) {
		entries, err := h.Logs.ListAll(r.Context(), 100)
		if err != nil {
			JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
			return
		}
		leaks, err := h.Logs.CountLeaks(r.Context())
		if err != nil {
			JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
			return
		}
		JSON(w, http.StatusOK, map[string]interface{}{"logs": entries, "privacy_leaks": leaks})
		return
	}

	entries, err := h.Logs.ListByUser(r.Context(), userID, 50)
	if err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	JSON(w, http.StatusOK, map[string]interface{}{"logs": entries})
}

// UserProfile returns a user's publicly-visible fields and public posts.
func (h *APIHandler) UserProfile(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	user, err := h.Users.GetByUsername(r.Context(), username)
	if err != nil {
		if err == sql.ErrNoRows {
			JSONError(w, "user not found", http.StatusNotFound)
		} else {
			JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		}
		return
	}

	posts, err := h.Posts.ListPublicByUser(r.Context(), user.ID)
	if err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	if err := recordAccess(r, h.Logs, "/users/"+username, map[string]interface{}{
		"username":   username,
		"show_email": user.EmailPublic,
		"show_bio":   user.BioPublic,
	}); err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"user":  user.View(false),
		"posts": models.PostViews(posts, false),
	})
}

// ==========================
// Non-compliant reads (intentional leaks, always tagged)
// ==========================

// AllUsers dumps every user with private fields forced visible, exposing
// emails regardless of email_public.
func (h *APIHandler) AllUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Users.ListAll(r.Context())
	if err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	views := make([]models.UserView, 0, len(users))
	for i := range users {
		views = append(views, users[i].View(true))
	}

	if err := recordLeak(r, h.Logs, "/api/users", map[string]interface{}{
		"user_count": len(views),
	}, models.LeakEmail); err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	JSON(w, http.StatusOK, views)
}

// AllPosts dumps every non-deleted post, private ones included.
func (h *APIHandler) AllPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.Posts.ListAll(r.Context(), false)
	if err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	views := models.PostViews(posts, true)

	if err := recordLeak(r, h.Logs, "/api/posts", map[string]interface{}{
		"post_count": len(views),
	}, models.LeakPrivatePost); err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	JSON(w, http.StatusOK, views)
}

// UserByID returns any user's full record with no ownership check.
func (h *APIHandler) UserByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		JSONError(w, "invalid user id", http.StatusBadRequest)
		return
	}

	user, err := h.Users.GetByID(r.Context(), id)
	if err != nil {
		if err == sql.ErrNoRows {
			JSONError(w, "user not found", http.StatusNotFound)
		} else {
			JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		}
		return
	}

	if err := recordLeak(r, h.Logs, "/api/users/"+strconv.Itoa(id), map[string]interface{}{
		"user_id": id,
	}, models.LeakUserDetail); err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	JSON(w, http.StatusOK, user.View(true))
}

// AllPostsIncludingDeleted dumps every post row, soft-deleted ones included.
// Hard-deleted rows are gone from storage, so only soft-deleted data leaks.
func (h *APIHandler) AllPostsIncludingDeleted(w http.ResponseWriter, r *http.Request) {
	posts, err := h.Posts.ListAll(r.Context(), true)
	if err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	views := models.PostViews(posts, true)

	if err := recordLeak(r, h.Logs, "/api/posts/all", map[string]interface{}{
		"post_count": len(views),
	}, models.LeakDeletedPost); err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	JSON(w, http.StatusOK, views)
}
