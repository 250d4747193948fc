package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/privlab/leakshare/internal/repo"
	"github.com/privlab/leakshare/internal/scraper"
)

// Drives the full start/conflict/stop lifecycle through the HTTP surface.
// Steps overlap the requests, so expectations are unordered and the stop
// lands during step 1's pause, before steps 2 and 3 ever query.
func TestScraperHandler_Lifecycle(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()
	mock.MatchExpectationsInOrder(false)

	mock.ExpectQuery(`FROM users ORDER BY id`).
		WillReturnRows(userRows())
	mock.ExpectExec(`INSERT INTO access_logs`).
		WithArgs("/scraper/start", "POST", 1, sqlmock.AnyArg(), sqlmock.AnyArg(), `{"action":"start_scraper"}`, false, nil).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO access_logs`).
		WithArgs("/scraper/stop", "POST", 1, sqlmock.AnyArg(), sqlmock.AnyArg(), `{"action":"stop_scraper"}`, false, nil).
		WillReturnResult(sqlmock.NewResult(2, 1))

	logs := repo.NewAccessLogRepo(db)
	h := &ScraperHandler{
		Harvester: scraper.New(repo.NewUserRepo(db), repo.NewPostRepo(db), logs, 200*time.Millisecond),
		Logs:      logs,
	}

	do := func(method, path string, handler http.HandlerFunc) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, nil)
		req = req.WithContext(authedContext(req.Context(), 1, "admin", true))
		rr := httptest.NewRecorder()
		handler(rr, req)
		return rr
	}

	if rr := do("POST", "/scraper/start", h.Start); rr.Code != http.StatusOK {
		t.Fatalf("start status: got %d, want 200, body %s", rr.Code, rr.Body.String())
	}

	if rr := do("POST", "/scraper/start", h.Start); rr.Code != http.StatusConflict {
		t.Fatalf("second start status: got %d, want 409", rr.Code)
	}

	if rr := do("POST", "/scraper/stop", h.Stop); rr.Code != http.StatusOK {
		t.Fatalf("stop status: got %d, want 200, body %s", rr.Code, rr.Body.String())
	}

	// Cancellation takes effect after the current step's pause.
	deadline := time.After(2 * time.Second)
	for {
		rr := do("GET", "/scraper/status", h.Status)
		var status struct {
			Running bool              `json:"running"`
			Results []json.RawMessage `json:"results"`
		}
		if err := json.NewDecoder(rr.Body).Decode(&status); err != nil {
			t.Fatalf("decode status: %v", err)
		}
		if !status.Running {
			// Step 1 plus the terminal entry; the canceled steps never ran.
			if len(status.Results) != 2 {
				t.Errorf("expected 2 progress entries after cancel, got %d", len(status.Results))
			}
			break
		}
		select {
		case <-deadline:
			t.Fatal("harvester did not return to idle")
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}

	if rr := do("POST", "/scraper/stop", h.Stop); rr.Code != http.StatusConflict {
		t.Errorf("stop while idle status: got %d, want 409", rr.Code)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
