package repo

import (
	"context"
	"database/sql"

	"github.com/privlab/leakshare/internal/models"
)

// AccessEntry is the input to Record. UserID is nil for unauthenticated or
// simulated access; LeakType must be set when IsPrivacyLeak is true.
type AccessEntry struct {
	Endpoint      string
	Method        string
	UserID        *int
	IPAddress     string
	UserAgent     string
	AccessedData  string
	IsPrivacyLeak bool
	LeakType      *string
}

// AccessLogRepo persists the append-only access log. Entries are never
// updated; storage errors are propagated to the caller, not swallowed.
type AccessLogRepo struct {
	db *sql.DB
}

// NewAccessLogRepo returns a new AccessLogRepo.
func NewAccessLogRepo(db *sql.DB) *AccessLogRepo {
	return &AccessLogRepo{db: db}
}

// Record appends one access log row.
func (r *AccessLogRepo) Record(ctx context.Context, e AccessEntry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO access_logs (endpoint, method, user_id, ip_address, user_agent, accessed_data, is_privacy_leak, leak_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		e.Endpoint, e.Method, e.UserID, e.IPAddress, e.UserAgent, e.AccessedData, e.IsPrivacyLeak, e.LeakType)
	return err
}

const accessLogColumns = `id, timestamp, endpoint, method, user_id, ip_address, user_agent, accessed_data, is_privacy_leak, leak_type`

func scanAccessLogs(rows *sql.Rows) ([]models.AccessLog, error) {
	defer rows.Close()

	var entries []models.AccessLog
	for rows.Next() {
		var e models.AccessLog
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.Endpoint, &e.Method, &e.UserID,
			&e.IPAddress, &e.UserAgent, &e.AccessedData, &e.IsPrivacyLeak, &e.LeakType); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ListAll returns recent entries across all users, newest first.
func (r *AccessLogRepo) ListAll(ctx context.Context, limit int) ([]models.AccessLog, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+accessLogColumns+` FROM access_logs ORDER BY timestamp DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	return scanAccessLogs(rows)
}

// ListByUser returns recent entries attributed to one user, newest first.
func (r *AccessLogRepo) ListByUser(ctx context.Context, userID, limit int) ([]models.AccessLog, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+accessLogColumns+` FROM access_logs WHERE user_id = $1 ORDER BY timestamp DESC LIMIT $2`, userID, limit)
	if err != nil {
		return nil, err
	}
	return scanAccessLogs(rows)
}

// CountLeaks returns the number of entries flagged as privacy leaks.
func (r *AccessLogRepo) CountLeaks(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM access_logs WHERE is_privacy_leak = TRUE`).Scan(&n)
	return n, err
}
