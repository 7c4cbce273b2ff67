package workload

import (
	"context"
	"fmt"

	"crud-service/internal/config"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// SummaryReporter periodically logs the in-memory Status. It never touches the store.
type SummaryReporter struct {
	schedule  string
	status    *Status
	logger    *zap.Logger
	scheduler *cron.Cron
}

func NewSummaryReporter(cfg *config.Config, status *Status, logger *zap.Logger) *SummaryReporter {
	return &SummaryReporter{schedule: cfg.SummarySchedule, status: status, logger: logger}
}

func (s *SummaryReporter) Enabled() bool {
	return s.schedule != ""
}

func (s *SummaryReporter) InitializeScheduler(_ context.Context) error {
	if !s.Enabled() {
		return nil
	}
	s.scheduler = cron.New()
	if _, err := s.scheduler.AddFunc(s.schedule, s.Report); err != nil {
		return fmt.Errorf("invalid SUMMARY_SCHEDULE %q: %w", s.schedule, err)
	}
	s.logger.Info("summary reporter scheduled", zap.String("schedule", s.schedule))
	s.scheduler.Start()
	return nil
}

func (s *SummaryReporter) StopScheduler() error {
	if s.scheduler != nil {
		ctx := s.scheduler.Stop()
		<-ctx.Done()
	}
	return nil
}

func (s *SummaryReporter) Report() {
	snap := s.status.Snapshot()
	fields := []zap.Field{
		zap.Int64("ticks", snap.Ticks),
		zap.Int64("population", snap.Population),
		zap.Int64("loop_errors", snap.LoopErrors),
	}
	for _, op := range Operations {
		fields = append(fields, zap.Int64(string(op)+"_succeeded", snap.Operations[op][ResultSucceeded]))
	}
	fields = append(fields, zap.Int64("failed", totalFailed(snap)))
	s.logger.Info("workload summary", fields...)
}

func totalFailed(snap StatusSnapshot) int64 {
	var n int64
	for _, byResult := range snap.Operations {
		n += byResult[ResultFailed]
	}
	return n
}
