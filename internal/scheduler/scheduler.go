package scheduler

import (
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/privlab/leakshare/internal/scraper"
)

// Run starts a cron scheduler that kicks off a harvest simulation at each
// tick of spec (e.g. "@hourly"). A tick that lands while a run is still
// active is skipped; single-flight is the harvester's invariant, not ours.
func Run(spec string, h *scraper.Harvester) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		if err := h.Start(); err != nil {
			slog.Info("scheduled scraper run skipped", "reason", err)
			return
		}
		slog.Info("scheduled scraper run started", "cron", spec)
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}
