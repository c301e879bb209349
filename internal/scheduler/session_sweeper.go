package scheduler

import (
	"time"

	"github.com/ikkim/variant-reservation/pkg/logger"
	"github.com/robfig/cron/v3"
)

// IdleSweeper closes sessions that have been quiet for longer than maxIdle.
type IdleSweeper interface {
	SweepIdle(maxIdle time.Duration) int
}

// SessionSweeper 유휴 쇼퍼 세션 정리 스케줄러
type SessionSweeper struct {
	cron     *cron.Cron
	sweeper  IdleSweeper
	schedule string
	maxIdle  time.Duration
}

// NewSessionSweeper 세션 정리 스케줄러 생성
func NewSessionSweeper(sweeper IdleSweeper, schedule string, maxIdle time.Duration) *SessionSweeper {
	return &SessionSweeper{
		cron:     cron.New(),
		sweeper:  sweeper,
		schedule: schedule,
		maxIdle:  maxIdle,
	}
}

// Start 스케줄러 시작
func (s *SessionSweeper) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, func() { s.RunOnce() }); err != nil {
		logger.Error("Failed to add cron job for session sweep", err, map[string]interface{}{
			"schedule": s.schedule,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Session sweeper started", map[string]interface{}{
		"schedule": s.schedule,
		"max_idle": s.maxIdle.String(),
	})
	return nil
}

// RunOnce sweeps immediately and returns how many sessions were closed.
func (s *SessionSweeper) RunOnce() int {
	closed := s.sweeper.SweepIdle(s.maxIdle)
	if closed > 0 {
		logger.Info("Idle sessions closed", map[string]interface{}{
			"closed": closed,
		})
	}
	return closed
}

// Stop 스케줄러 중지
func (s *SessionSweeper) Stop() {
	logger.Info("Stopping session sweeper...", nil)
	<-s.cron.Stop().Done()
	logger.Info("Session sweeper stopped", nil)
}
