package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"

	"github.com/privlab/leakshare/internal/repo"
)

func newPostHandler(db *sql.DB) *PostHandler {
	return &PostHandler{
		Posts: repo.NewPostRepo(db),
		Logs:  repo.NewAccessLogRepo(db),
	}
}

func postRouter(h *PostHandler) *chi.Mux {
	r := chi.NewRouter()
	r.Get("/posts", h.ListPublic)
	r.Post("/posts", h.Create)
	r.Post("/posts/{id}/edit", h.Edit)
	r.Post("/posts/{id}/delete", h.Delete)
	return r
}

func TestPostHandler_ListPublic(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`WHERE p\.is_public = TRUE AND p\.is_deleted = FALSE`).
		WillReturnRows(postRows().
			AddRow(1, "Hello World!", "First post.", 2, "alice", true, false, now, now))
	mock.ExpectExec(`INSERT INTO access_logs`).
		WithArgs("/posts", "GET", nil, sqlmock.AnyArg(), sqlmock.AnyArg(), `{"action":"view_public_posts"}`, false, nil).
		WillReturnResult(sqlmock.NewResult(1, 1))

	h := newPostHandler(db)
	req := httptest.NewRequest("GET", "/posts", nil)
	rr := httptest.NewRecorder()
	postRouter(h).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	var posts []struct {
		Title     string `json:"title"`
		IsPublic  *bool  `json:"is_public"`
		IsDeleted *bool  `json:"is_deleted"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&posts); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(posts) != 1 || posts[0].Title != "Hello World!" {
		t.Fatalf("unexpected posts: %+v", posts)
	}
	// Public view hides the moderation flags.
	if posts[0].IsPublic != nil || posts[0].IsDeleted != nil {
		t.Errorf("public view must omit is_public/is_deleted: %+v", posts[0])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPostHandler_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`INSERT INTO posts`).
		WithArgs("My Post", "Some content.", 2, false).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(9, now, now))

	h := newPostHandler(db)
	body := `{"title":"My Post","content":"Some content.","is_public":false}`
	req := httptest.NewRequest("POST", "/posts", strings.NewReader(body))
	req = req.WithContext(authedContext(req.Context(), 2, "alice", false))
	rr := httptest.NewRecorder()
	postRouter(h).ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want 201, body %s", rr.Code, rr.Body.String())
	}
	var view struct {
		ID             int    `json:"id"`
		AuthorUsername string `json:"author_username"`
		IsPublic       *bool  `json:"is_public"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&view); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if view.ID != 9 || view.AuthorUsername != "alice" {
		t.Errorf("unexpected view: %+v", view)
	}
	if view.IsPublic == nil || *view.IsPublic {
		t.Errorf("owner view must show is_public=false: %+v", view)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPostHandler_Create_Validation(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	h := newPostHandler(db)
	req := httptest.NewRequest("POST", "/posts", strings.NewReader(`{"title":"Only title"}`))
	req = req.WithContext(authedContext(req.Context(), 2, "alice", false))
	rr := httptest.NewRecorder()
	postRouter(h).ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rr.Code)
	}
}

func TestPostHandler_Delete_NotOwner(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`WHERE p\.id = \$1`).
		WithArgs(4).
		WillReturnRows(postRows().
			AddRow(4, "Alice's Post", "Hers.", 2, "alice", true, false, now, now))

	h := newPostHandler(db)
	req := httptest.NewRequest("POST", "/posts/4/delete", nil)
	req = req.WithContext(authedContext(req.Context(), 3, "bob", false))
	rr := httptest.NewRecorder()
	postRouter(h).ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Errorf("status: got %d, want 403", rr.Code)
	}
	// The soft-delete UPDATE must not run.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPostHandler_Delete_AdminOverride(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`WHERE p\.id = \$1`).
		WithArgs(4).
		WillReturnRows(postRows().
			AddRow(4, "Alice's Post", "Hers.", 2, "alice", true, false, now, now))
	mock.ExpectExec(`UPDATE posts SET is_deleted = TRUE`).
		WithArgs(4).
		WillReturnResult(sqlmock.NewResult(0, 1))

	h := newPostHandler(db)
	req := httptest.NewRequest("POST", "/posts/4/delete", nil)
	req = req.WithContext(authedContext(req.Context(), 1, "admin", true))
	rr := httptest.NewRecorder()
	postRouter(h).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200, body %s", rr.Code, rr.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPostHandler_Edit_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`WHERE p\.id = \$1`).
		WithArgs(99).
		WillReturnError(sql.ErrNoRows)

	h := newPostHandler(db)
	req := httptest.NewRequest("POST", "/posts/99/edit", strings.NewReader(`{"title":"x","content":"y"}`))
	req = req.WithContext(authedContext(req.Context(), 2, "alice", false))
	rr := httptest.NewRecorder()
	postRouter(h).ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", rr.Code)
	}
}
