package handlers

import (
	"net/http"

	"github.com/privlab/leakshare/internal/repo"
	"github.com/privlab/leakshare/internal/scraper"
)

// ScraperHandler controls the harvest simulation. All routes are admin-gated
// before dispatch.
type ScraperHandler struct {
	Harvester *scraper.Harvester
	Logs      *repo.AccessLogRepo
}

// Start launches a harvest run. Starting while one is active is a
// non-fatal conflict, not an error.
func (h *ScraperHandler) Start(w http.ResponseWriter, r *http.Request) {
	if err := h.Harvester.Start(); err != nil {
		JSON(w, http.StatusConflict, map[string]interface{}{
			"success": false,
			"message": "Scraper is already running",
		})
		return
	}

	if err := recordAccess(r, h.Logs, "/scraper/start", map[string]interface{}{
		"action": "start_scraper",
	}); err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Scraper started",
	})
}

// Stop requests cancellation of the running harvest.
func (h *ScraperHandler) Stop(w http.ResponseWriter, r *http.Request) {
	if err := h.Harvester.Stop(); err != nil {
		JSON(w, http.StatusConflict, map[string]interface{}{
			"success": false,
			"message": "Scraper is not running",
		})
		return
	}

	if err := recordAccess(r, h.Logs, "/scraper/stop", map[string]interface{}{
		"action": "stop_scraper",
	}); err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Scraper stopped",
	})
}

// Status reports the running flag and the progress collected so far.
func (h *ScraperHandler) Status(w http.ResponseWriter, r *http.Request) {
	running, results := h.Harvester.Status()
	JSON(w, http.StatusOK, map[string]interface{}{
		"running": running,
		"results": results,
	})
}
