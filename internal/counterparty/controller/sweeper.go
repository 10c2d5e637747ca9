package controller

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// SweepIdle drops sessions unused for longer than the idle timeout and
// returns how many were removed. A zero timeout keeps every session.
func (s *CounterpartyService) SweepIdle() int {
	if s.opts.IdleTimeout <= 0 {
		return 0
	}
	cutoff := s.now().Add(-s.opts.IdleTimeout)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		sess.mu.Lock()
		idle := sess.lastSeen.Before(cutoff)
		sess.mu.Unlock()
		if idle {
			delete(s.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		s.logger.Info("Idle sessions swept", zap.Int("removed", removed))
	}
	return removed
}

// StartSweeper schedules SweepIdle with a cron spec such as "@every 1m".
// The caller stops the returned scheduler on shutdown.
func (s *CounterpartyService) StartSweeper(spec string) (*cron.Cron, error) {
	c := cron.New()
	if _, err := c.AddFunc(spec, func() { s.SweepIdle() }); err != nil {
		return nil, fmt.Errorf("invalid sweep schedule %q: %w", spec, err)
	}
	c.Start()
	return c, nil
}

// SessionCount returns the number of open sessions.
func (s *CounterpartyService) SessionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
