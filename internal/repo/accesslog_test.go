package repo

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/privlab/leakshare/internal/models"
)

func TestAccessLogRepo_Record_Leak(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	leakType := models.LeakEmail
	mock.ExpectExec(`INSERT INTO access_logs`).
		WithArgs("/api/users", "GET", nil, "203.0.113.9", "curl/8.0", `{"user_count":4}`, true, "email_leak").
		WillReturnResult(sqlmock.NewResult(1, 1))

	repo := NewAccessLogRepo(db)
	err = repo.Record(context.Background(), AccessEntry{
		Endpoint:      "/api/users",
		Method:        "GET",
		IPAddress:     "203.0.113.9",
		UserAgent:     "curl/8.0",
		AccessedData:  `{"user_count":4}`,
		IsPrivacyLeak: true,
		LeakType:      &leakType,
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAccessLogRepo_Record_NonLeak(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	userID := 2
	mock.ExpectExec(`INSERT INTO access_logs`).
		WithArgs("/api/users/me", "GET", 2, "203.0.113.9", "curl/8.0", `{"user_id":2}`, false, nil).
		WillReturnResult(sqlmock.NewResult(1, 1))

	repo := NewAccessLogRepo(db)
	err = repo.Record(context.Background(), AccessEntry{
		Endpoint:     "/api/users/me",
		Method:       "GET",
		UserID:       &userID,
		IPAddress:    "203.0.113.9",
		UserAgent:    "curl/8.0",
		AccessedData: `{"user_id":2}`,
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAccessLogRepo_ListByUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	userID := 2
	mock.ExpectQuery(`FROM access_logs WHERE user_id = \$1 ORDER BY timestamp DESC LIMIT \$2`).
		WithArgs(2, 50).
		WillReturnRows(sqlmock.NewRows([]string{"id", "timestamp", "endpoint", "method", "user_id", "ip_address", "user_agent", "accessed_data", "is_privacy_leak", "leak_type"}).
			AddRow(10, time.Now(), "/api/users/me", "GET", &userID, "203.0.113.9", "curl/8.0", "{}", false, nil))

	repo := NewAccessLogRepo(db)
	entries, err := repo.ListByUser(context.Background(), 2, 50)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(entries) != 1 || entries[0].Endpoint != "/api/users/me" || entries[0].IsPrivacyLeak {
		t.Errorf("unexpected entries: %+v", entries)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAccessLogRepo_CountLeaks(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM access_logs WHERE is_privacy_leak = TRUE`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(6))

	repo := NewAccessLogRepo(db)
	n, err := repo.CountLeaks(context.Background())
	if err != nil {
		t.Fatalf("CountLeaks: %v", err)
	}
	if n != 6 {
		t.Errorf("CountLeaks: got %d, want 6", n)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
