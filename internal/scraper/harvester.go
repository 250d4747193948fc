package scraper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/privlab/leakshare/internal/metrics"
	"github.com/privlab/leakshare/internal/models"
	"github.com/privlab/leakshare/internal/repo"
)

var (
	ErrAlreadyRunning = errors.New("scraper is already running")
	ErrNotRunning     = errors.New("scraper is not running")
)

// Progress entry statuses.
const (
	StatusInProgress = "in-progress"
	StatusComplete   = "complete"
	StatusError      = "error"
)

// Identity the simulation stamps on the access-log rows it writes itself.
const (
	simulatedIP        = "scraper-simulation"
	simulatedUserAgent = "Scraper/1.0"
)

// detailUserLimit caps how many users step 4 inspects individually.
const detailUserLimit = 3

// ProgressEntry is one step of the simulated harvest, readable by callers
// while the run is still in flight.
type ProgressEntry struct {
	Timestamp     time.Time `json:"timestamp"`
	Action        string    `json:"action"`
	URL           string    `json:"url,omitempty"`
	Status        string    `json:"status"`
	PrivacyLeak   bool      `json:"privacy_leak,omitempty"`
	LeakType      string    `json:"leak_type,omitempty"`
	DataCollected string    `json:"data_collected,omitempty"`
}

// UserStore is the slice of the user repository the harvester needs.
type UserStore interface {
	ListAll(ctx context.Context) ([]models.User, error)
	GetByID(ctx context.Context, id int) (*models.User, error)
}

// PostStore is the slice of the post repository the harvester needs.
type PostStore interface {
	ListAll(ctx context.Context, includeDeleted bool) ([]models.Post, error)
	ListByUser(ctx context.Context, userID int) ([]models.Post, error)
}

// Recorder appends access-log rows for the per-user reads in step 4.
type Recorder interface {
	Record(ctx context.Context, e repo.AccessEntry) error
}

// Harvester simulates a third party walking the non-compliant read paths in a
// fixed sequence. One run at a time; all state is serialized behind mu so the
// request path (Start/Stop/Status) and the background run never race.
type Harvester struct {
	users UserStore
	posts PostStore
	logs  Recorder

	stepDelay time.Duration

	mu       sync.Mutex
	running  bool
	canceled bool
	results  []ProgressEntry
}

// New returns a Harvester with its dependencies injected. stepDelay is the
// artificial per-step "processing" pause; tests pass zero.
func New(users UserStore, posts PostStore, logs Recorder, stepDelay time.Duration) *Harvester {
	return &Harvester{
		users:     users,
		posts:     posts,
		logs:      logs,
		stepDelay: stepDelay,
	}
}

// Start launches a background run. Fails with ErrAlreadyRunning if one is
// active; the existing run's progress is untouched in that case.
func (h *Harvester) Start() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.running {
		return ErrAlreadyRunning
	}
	h.running = true
	h.canceled = false
	h.results = nil
	metrics.ScraperRunning.Set(1)

	go h.run()
	return nil
}

// Stop requests cooperative cancellation. The running script only checks the
// flag between steps, so the current step finishes first. Fails with
// ErrNotRunning when idle.
func (h *Harvester) Stop() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.running {
		return ErrNotRunning
	}
	h.canceled = true
	return nil
}

// Status returns the running flag and a copy of the progress entries. The
// copy grows monotonically while running and is frozen once idle.
func (h *Harvester) Status() (bool, []ProgressEntry) {
	h.mu.Lock()
	defer h.mu.Unlock()
	results := make([]ProgressEntry, len(h.results))
	copy(results, h.results)
	return h.running, results
}

func (h *Harvester) append(e ProgressEntry) {
	e.Timestamp = time.Now()
	h.mu.Lock()
	h.results = append(h.results, e)
	h.mu.Unlock()
}

// finishLast marks the most recent entry with a final status and summary.
func (h *Harvester) finishLast(status, summary string) {
	h.mu.Lock()
	if n := len(h.results); n > 0 {
		h.results[n-1].Status = status
		h.results[n-1].DataCollected = summary
	}
	h.mu.Unlock()
}

func (h *Harvester) isCanceled() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.canceled
}

func (h *Harvester) sleep(d time.Duration) {
	if d > 0 {
		time.Sleep(d)
	}
}

// run executes the fixed harvest script. Whatever happens, a terminal
// "Scraper finished" entry is appended and the harvester returns to idle.
func (h *Harvester) run() {
	ctx := context.Background()
	outcome := "completed"

	defer func() {
		h.append(ProgressEntry{
			Action:        "Scraper finished",
			Status:        StatusComplete,
			DataCollected: "All data collection complete",
		})
		h.mu.Lock()
		h.running = false
		h.mu.Unlock()
		metrics.ScraperRunning.Set(0)
		metrics.ScraperRunsTotal.WithLabelValues(outcome).Inc()
		slog.Info("scraper run finished", "outcome", outcome)
	}()

	fail := func(step string, err error) {
		h.append(ProgressEntry{
			Action:        "Error in scraper",
			Status:        StatusError,
			DataCollected: fmt.Sprintf("%s: %v", step, err),
		})
		outcome = "error"
		slog.Error("scraper step failed", "step", step, "error", err)
	}

	// Step 1: bulk user read. Emails come back regardless of email_public.
	h.append(ProgressEntry{
		Action:      "Scraping all users",
		URL:         "/api/users",
		Status:      StatusInProgress,
		PrivacyLeak: true,
		LeakType:    models.LeakEmail,
	})
	users, err := h.users.ListAll(ctx)
	if err != nil {
		fail("list users", err)
		return
	}
	h.finishLast(StatusComplete,
		fmt.Sprintf("Found %d users with emails and privacy settings", len(users)))
	h.sleep(h.stepDelay)

	if h.isCanceled() {
		outcome = "canceled"
		return
	}

	// Step 2: bulk post read, private posts included.
	h.append(ProgressEntry{
		Action:      "Scraping all posts",
		URL:         "/api/posts",
		Status:      StatusInProgress,
		PrivacyLeak: true,
		LeakType:    models.LeakPrivatePost,
	})
	posts, err := h.posts.ListAll(ctx, false)
	if err != nil {
		fail("list posts", err)
		return
	}
	private := 0
	for _, p := range posts {
		if !p.IsPublic {
			private++
		}
	}
	h.finishLast(StatusComplete,
		fmt.Sprintf("Found %d posts including %d private ones", len(posts), private))
	h.sleep(h.stepDelay)

	if h.isCanceled() {
		outcome = "canceled"
		return
	}

	// Step 3: all posts including soft-deleted rows.
	h.append(ProgressEntry{
		Action:      "Scraping deleted posts",
		URL:         "/api/posts/all",
		Status:      StatusInProgress,
		PrivacyLeak: true,
		LeakType:    models.LeakDeletedPost,
	})
	allPosts, err := h.posts.ListAll(ctx, true)
	if err != nil {
		fail("list all posts", err)
		return
	}
	deleted := 0
	for _, p := range allPosts {
		if p.IsDeleted {
			deleted++
		}
	}
	h.finishLast(StatusComplete,
		fmt.Sprintf("Found %d deleted posts that should be inaccessible", deleted))
	h.sleep(h.stepDelay)

	// Step 4: per-user detail reads for the first few users from step 1.
	// Each read writes its own leak-tagged access-log row, like a real
	// unauthenticated caller of /api/users/{id} would trigger.
	for i, u := range users {
		if i >= detailUserLimit {
			break
		}
		if h.isCanceled() {
			outcome = "canceled"
			return
		}

		h.append(ProgressEntry{
			Action:      fmt.Sprintf("Scraping detailed info for user %s", u.Username),
			URL:         fmt.Sprintf("/api/users/%d", u.ID),
			Status:      StatusInProgress,
			PrivacyLeak: true,
			LeakType:    models.LeakUserDetail,
		})

		if _, err := h.users.GetByID(ctx, u.ID); err != nil {
			fail(fmt.Sprintf("get user %d", u.ID), err)
			return
		}
		if _, err := h.posts.ListByUser(ctx, u.ID); err != nil {
			fail(fmt.Sprintf("list posts for user %d", u.ID), err)
			return
		}

		data, _ := json.Marshal(map[string]interface{}{
			"action":  "get_user_details",
			"user_id": u.ID,
		})
		leakType := models.LeakUserDetail
		if err := h.logs.Record(ctx, repo.AccessEntry{
			Endpoint:      fmt.Sprintf("/api/users/%d", u.ID),
			Method:        "GET",
			IPAddress:     simulatedIP,
			UserAgent:     simulatedUserAgent,
			AccessedData:  string(data),
			IsPrivacyLeak: true,
			LeakType:      &leakType,
		}); err != nil {
			fail(fmt.Sprintf("record access for user %d", u.ID), err)
			return
		}
		metrics.RecordLeak(models.LeakUserDetail)

		h.finishLast(StatusComplete,
			fmt.Sprintf("Collected private details for %s", u.Username))
		h.sleep(h.stepDelay / 2)
	}
}
