package repo

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func postRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "title", "content", "user_id", "username", "is_public", "is_deleted", "created_at", "updated_at"})
}

func TestPostRepo_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`INSERT INTO posts \(title, content, user_id, is_public\)`).
		WithArgs("Hello World!", "First post.", 2, true).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(1, now, now))

	repo := NewPostRepo(db)
	post, err := repo.Create(context.Background(), "Hello World!", "First post.", 2, true)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if post.ID != 1 || post.UserID != 2 || !post.IsPublic {
		t.Errorf("unexpected post: %+v", post)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPostRepo_ListPublic_FiltersDeletedAndPrivate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`WHERE p\.is_public = TRUE AND p\.is_deleted = FALSE`).
		WillReturnRows(postRows().
			AddRow(1, "Hello World!", "First post.", 2, "alice", true, false, now, now))

	repo := NewPostRepo(db)
	posts, err := repo.ListPublic(context.Background())
	if err != nil {
		t.Fatalf("ListPublic: %v", err)
	}
	if len(posts) != 1 || posts[0].AuthorUsername != "alice" {
		t.Errorf("unexpected posts: %+v", posts)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPostRepo_ListAll_IncludeDeleted(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`FROM posts p\s+JOIN users u ON u\.id = p\.user_id\s+ORDER BY p\.id`).
		WillReturnRows(postRows().
			AddRow(1, "Hello World!", "First post.", 2, "alice", true, false, now, now).
			AddRow(7, "Post Marked as Deleted", "Still in the database.", 2, "alice", true, true, now, now))

	repo := NewPostRepo(db)
	posts, err := repo.ListAll(context.Background(), true)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(posts) != 2 || !posts[1].IsDeleted {
		t.Errorf("unexpected posts: %+v", posts)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPostRepo_SoftDelete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`UPDATE posts SET is_deleted = TRUE`).
		WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewPostRepo(db)
	if err := repo.SoftDelete(context.Background(), 3); err != nil {
		t.Fatalf("SoftDelete: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPostRepo_SoftDelete_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`UPDATE posts SET is_deleted = TRUE`).
		WithArgs(999).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewPostRepo(db)
	if err := repo.SoftDelete(context.Background(), 999); err != sql.ErrNoRows {
		t.Errorf("expected sql.ErrNoRows, got: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
