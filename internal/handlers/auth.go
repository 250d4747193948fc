package handlers

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"github.com/privlab/leakshare/internal/middleware"
	"github.com/privlab/leakshare/internal/models"
	"github.com/privlab/leakshare/internal/repo"
)

// ==========================
// Auth Handler
// ==========================
type AuthHandler struct {
	Users       *repo.UserRepo
	Logs        *repo.AccessLogRepo
	Secret      []byte
	ExpireHours int
}

// ==========================
// Register (visibility flags taken from the signup form)
// ==========================
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Username    string `json:"username"`
		Email       string `json:"email"`
		Password    string `json:"password"`
		Bio         string `json:"bio"`
		EmailPublic bool   `json:"email_public"`
		BioPublic   bool   `json:"bio_public"`
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
	if input.Password == "" {
		fields["password"] = "required"
	}
	if len(fields) > 0 {
		JSONValidationError(w, "validation failed", fields, http.StatusBadRequest)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	user, err := h.Users.Create(r.Context(), &models.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hash),
		Bio:          input.Bio,
		EmailPublic:  input.EmailPublic,
		BioPublic:    input.BioPublic,
	})
	if err != nil {
		// Unique violation: no partial write happened, tell the caller which field.
		if e, ok := err.(*pq.Error); ok && e.Code == "23505" {
			if strings.Contains(e.Constraint, "email") {
				JSONError(w, "email already exists", http.StatusConflict)
			} else {
				JSONError(w, "username already exists", http.StatusConflict)
			}
			return
		}
		slog.Error("register: create user failed", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	JSON(w, http.StatusCreated, user.View(true))
}

// ==========================
// Login (bcrypt verify, issue JWT, log the access)
// ==========================
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	user, err := h.Users.GetByUsername(r.Context(), input.Username)
	if err != nil {
		JSONError(w, "invalid username or password", http.StatusUnauthorized)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		JSONError(w, "invalid username or password", http.StatusUnauthorized)
		return
	}

	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"is_admin": user.IsAdmin,
		"exp":      time.Now().Add(time.Duration(h.ExpireHours) * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(h.Secret)
	if err != nil {
		JSONError(w, "failed to issue token", http.StatusInternalServerError)
		return
	}

	// Attribute the login row to the user even though the request itself
	// carried no token.
	userID := user.ID
	data, _ := json.Marshal(map[string]interface{}{"username": user.Username})
	if err := h.Logs.Record(r.Context(), repo.AccessEntry{
		Endpoint:     "/auth/login",
		Method:       r.Method,
		UserID:       &userID,
		IPAddress:    middleware.ClientIP(r),
		UserAgent:    r.UserAgent(),
		AccessedData: string(data),
	}); err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"token": signed,
		"user":  user.View(true),
	})
}

// ==========================
// Update Profile (bio, visibility flags, optional password change)
// ==========================
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		JSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	var input struct {
		Bio         string `json:"bio"`
		EmailPublic bool   `json:"email_public"`
		BioPublic   bool   `json:"bio_public"`
		NewPassword string `json:"new_password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	if err := h.Users.UpdateProfile(r.Context(), userID, input.Bio, input.EmailPublic, input.BioPublic); err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	if input.NewPassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
			return
		}
		if err := h.Users.UpdatePassword(r.Context(), userID, string(hash)); err != nil {
			JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
			return
		}
	}

	user, err := h.Users.GetByID(r.Context(), userID)
	if err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	JSON(w, http.StatusOK, user.View(true))
}

// ==========================
// Delete Account (hard delete; posts and access logs cascade away)
// ==========================
func (h *AuthHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		JSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	var input struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	user, err := h.Users.GetByID(r.Context(), userID)
	if err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		JSONError(w, "incorrect password, account deletion canceled", http.StatusForbidden)
		return
	}

	if err := h.Users.Delete(r.Context(), userID); err != nil {
		if err == sql.ErrNoRows {
			JSONError(w, "user not found", http.StatusNotFound)
			return
		}
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	slog.Info("account deleted", "user_id", userID, "username", user.Username)
	JSON(w, http.StatusOK, map[string]string{
		"message": "account " + user.Username + " has been permanently deleted along with all associated data",
	})
}
