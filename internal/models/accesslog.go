package models

import "time"

// Leak types classify which privacy rule a non-compliant read violated.
const (
	LeakEmail       = "email_leak"
	LeakPrivatePost = "private_post_leak"
	LeakUserDetail  = "user_detail_leak"
	LeakDeletedPost = "deleted_post_leak"
)

// AccessLog is one audit row. Rows are append-only: they are written exactly
// once per access event and never updated, and only removed when an account
// deletion cascades over them.
type AccessLog struct {
	ID            int       `json:"id"`
	Timestamp     time.Time `json:"timestamp"`
	Endpoint      string    `json:"endpoint"`
	Method        string    `json:"method"`
	UserID        *int      `json:"user_id"`
	IPAddress     string    `json:"ip_address"`
	UserAgent     string    `json:"user_agent"`
	AccessedData  string    `json:"accessed_data"`
	IsPrivacyLeak bool      `json:"is_privacy_leak"`
	LeakType      *string   `json:"leak_type"`
}
