package app

import (
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/five82/porch/internal/config"
	"github.com/five82/porch/internal/dashboard"
	"github.com/five82/porch/internal/logs"
	"github.com/five82/porch/internal/state"
)

// newCron builds the wall-clock jobs: a forced morning briefing and a
// midnight refresh so calendar events roll from upcoming to today. Empty
// specs disable the job.
func newCron(cfg config.Config, p *Poller, client *dashboard.Client) (*cron.Cron, error) {
	c := cron.New()
	if cfg.BriefingCron != "" {
		if _, err := c.AddFunc(cfg.BriefingCron, func() {
			logs.Info("scheduled briefing")
			p.Run(state.Jarvis, briefingFetch(client, true))
		}); err != nil {
			return nil, fmt.Errorf("briefing cron %q: %w", cfg.BriefingCron, err)
		}
	}
	if cfg.RolloverCron != "" {
		if _, err := c.AddFunc(cfg.RolloverCron, func() {
			logs.Info("day rollover refresh")
			p.TriggerAll()
		}); err != nil {
			return nil, fmt.Errorf("rollover cron %q: %w", cfg.RolloverCron, err)
		}
	}
	return c, nil
}
