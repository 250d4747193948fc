package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/privlab/leakshare/internal/metrics"
	"github.com/privlab/leakshare/internal/middleware"
	"github.com/privlab/leakshare/internal/repo"
)

// recordAccess appends one non-leak audit row for a compliant read or action.
// A storage failure is propagated; callers treat it as fatal for the request.
func recordAccess(r *http.Request, logs *repo.AccessLogRepo, endpoint string, data map[string]interface{}) error {
	return record(r, logs, endpoint, data, "")
}

// recordLeak appends one leak-tagged audit row for a non-compliant read.
func recordLeak(r *http.Request, logs *repo.AccessLogRepo, endpoint string, data map[string]interface{}, leakType string) error {
	return record(r, logs, endpoint, data, leakType)
}

func record(r *http.Request, logs *repo.AccessLogRepo, endpoint string, data map[string]interface{}, leakType string) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}

	e := repo.AccessEntry{
		Endpoint:     endpoint,
		Method:       r.Method,
		IPAddress:    middleware.ClientIP(r),
		UserAgent:    r.UserAgent(),
		AccessedData: string(payload),
	}
	if userID, ok := middleware.GetUserID(r.Context()); ok {
		e.UserID = &userID
	}
	if leakType != "" {
		e.IsPrivacyLeak = true
		e.LeakType = &leakType
	}

	if err := logs.Record(r.Context(), e); err != nil {
		return err
	}
	if leakType != "" {
		metrics.RecordLeak(leakType)
	}
	return nil
}
