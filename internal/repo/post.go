package repo

import (
	"context"
	"database/sql"

	"github.com/privlab/leakshare/internal/models"
)

// ==========================
// PostRepo
// ==========================
type PostRepo struct {
	db *sql.DB
}

func NewPostRepo(db *sql.DB) *PostRepo {
	return &PostRepo{db: db}
}

const postColumns = `p.id, p.title, p.content, p.user_id, u.username, p.is_public, p.is_deleted, p.created_at, p.updated_at`

const postSelect = `
	SELECT ` + postColumns + `
	FROM posts p
	JOIN users u ON u.id = p.user_id
`

func (r *PostRepo) queryPosts(ctx context.Context, query string, args ...interface{}) ([]models.Post, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		var p models.Post
		if err := rows.Scan(&p.ID, &p.Title, &p.Content, &p.UserID, &p.AuthorUsername,
			&p.IsPublic, &p.IsDeleted, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// ==========================
// Create Post
// ==========================
func (r *PostRepo) Create(ctx context.Context, title, content string, userID int, isPublic bool) (*models.Post, error) {
	query := `
		INSERT INTO posts (title, content, user_id, is_public)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	p := &models.Post{
		Title:    title,
		Content:  content,
		UserID:   userID,
		IsPublic: isPublic,
	}
	err := r.db.QueryRowContext(ctx, query, title, content, userID, isPublic).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ==========================
// Get By ID (includes soft-deleted rows; callers decide)
// ==========================
func (r *PostRepo) GetByID(ctx context.Context, id int) (*models.Post, error) {
	p := &models.Post{}
	err := r.db.QueryRowContext(ctx, postSelect+`WHERE p.id = $1`, id).
		Scan(&p.ID, &p.Title, &p.Content, &p.UserID, &p.AuthorUsername,
			&p.IsPublic, &p.IsDeleted, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ==========================
// List Public (compliant listing: public and not soft-deleted)
// ==========================
func (r *PostRepo) ListPublic(ctx context.Context) ([]models.Post, error) {
	return r.queryPosts(ctx, postSelect+`
		WHERE p.is_public = TRUE AND p.is_deleted = FALSE
		ORDER BY p.created_at DESC`)
}

// ==========================
// List Public By User
// ==========================
func (r *PostRepo) ListPublicByUser(ctx context.Context, userID int) ([]models.Post, error) {
	return r.queryPosts(ctx, postSelect+`
		WHERE p.user_id = $1 AND p.is_public = TRUE AND p.is_deleted = FALSE
		ORDER BY p.created_at DESC`, userID)
}

// ==========================
// List By User (own posts, private included, soft-deleted excluded)
// ==========================
func (r *PostRepo) ListByUser(ctx context.Context, userID int) ([]models.Post, error) {
	return r.queryPosts(ctx, postSelect+`
		WHERE p.user_id = $1 AND p.is_deleted = FALSE
		ORDER BY p.created_at DESC`, userID)
}

// ==========================
// List All (includeDeleted leaks soft-deleted rows too)
// ==========================
func (r *PostRepo) ListAll(ctx context.Context, includeDeleted bool) ([]models.Post, error) {
	if includeDeleted {
		return r.queryPosts(ctx, postSelect+`ORDER BY p.id`)
	}
	return r.queryPosts(ctx, postSelect+`WHERE p.is_deleted = FALSE ORDER BY p.id`)
}

// ==========================
// Update Post
// ==========================
func (r *PostRepo) Update(ctx context.Context, id int, title, content string, isPublic bool) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE posts
		SET title = $1, content = $2, is_public = $3, updated_at = now()
		WHERE id = $4`,
		title, content, isPublic, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ==========================
// Soft Delete (row persists with is_deleted = TRUE)
// ==========================
func (r *PostRepo) SoftDelete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE posts SET is_deleted = TRUE, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
