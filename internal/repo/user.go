package repo

import (
	"context"
	"database/sql"

	"github.com/privlab/leakshare/internal/models"
)

// ==========================
// UserRepo
// ==========================
type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

const userColumns = `id, username, email, password_hash, bio, is_admin, email_public, bio_public, created_at`

func scanUser(row interface{ Scan(...interface{}) error }) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Bio,
		&u.IsAdmin, &u.EmailPublic, &u.BioPublic, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// ==========================
// Create User
// ==========================
func (r *UserRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	query := `
		INSERT INTO users (username, email, password_hash, bio, is_admin, email_public, bio_public)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		u.Username, u.Email, u.PasswordHash, u.Bio, u.IsAdmin, u.EmailPublic, u.BioPublic).
		Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		return nil, err
	}

	return u, nil
}

// ==========================
// Get By ID
// ==========================
func (r *UserRepo) GetByID(ctx context.Context, id int) (*models.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

// ==========================
// Get By Username
// ==========================
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`, username))
}

// ==========================
// List All Users
// ==========================
func (r *UserRepo) ListAll(ctx context.Context) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// ==========================
// Update Profile (bio + visibility flags)
// ==========================
func (r *UserRepo) UpdateProfile(ctx context.Context, id int, bio string, emailPublic, bioPublic bool) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET bio = $1, email_public = $2, bio_public = $3 WHERE id = $4`,
		bio, emailPublic, bioPublic, id)
	return err
}

// ==========================
// Update Password
// ==========================
func (r *UserRepo) UpdatePassword(ctx context.Context, id int, passwordHash string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = $1 WHERE id = $2`, passwordHash, id)
	return err
}

// ==========================
// Admin Update (full record)
// ==========================
func (r *UserRepo) AdminUpdate(ctx context.Context, u *models.User) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET username = $1, email = $2, bio = $3, is_admin = $4, email_public = $5, bio_public = $6
		WHERE id = $7`,
		u.Username, u.Email, u.Bio, u.IsAdmin, u.EmailPublic, u.BioPublic, u.ID)
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
// Delete User (hard delete; posts and access logs cascade)
// ==========================
func (r *UserRepo) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
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
// Count Users
// ==========================
func (r *UserRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}
