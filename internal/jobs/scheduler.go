package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"civicpulse/portal/internal/config"
)

const reportTimeout = 30 * time.Second

type BacklogCounter interface {
	CountOutstandingByDistrict(ctx context.Context) (map[string]int, error)
}

// Scheduler runs periodic operational reports. It never mutates incidents.
type Scheduler struct {
	cron    *cron.Cron
	cfg     config.JobsConfig
	backlog BacklogCounter
	log     zerolog.Logger
}

func NewScheduler(cfg config.JobsConfig, backlog BacklogCounter, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithSeconds()),
		cfg:     cfg,
		backlog: backlog,
		log:     log.With().Str("component", "scheduler").Logger(),
	}
}

func (s *Scheduler) Start() error {
	if s.cfg.BacklogSchedule == "" {
		s.log.Info().Msg("backlog report disabled")
		return nil
	}

	if _, err := s.cron.AddFunc(s.cfg.BacklogSchedule, s.runBacklogReport); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

// Stop halts the schedule; the returned context is done once running jobs finish.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

func (s *Scheduler) runBacklogReport() {
	ctx, cancel := context.WithTimeout(context.Background(), reportTimeout)
	defer cancel()

	if _, err := s.ReportBacklog(ctx); err != nil {
		s.log.Error().Err(err).Msg("backlog report failed")
	}
}

// ReportBacklog logs the number of unresolved incidents per district.
func (s *Scheduler) ReportBacklog(ctx context.Context) (map[string]int, error) {
	counts, err := s.backlog.CountOutstandingByDistrict(ctx)
	if err != nil {
		return nil, err
	}

	total := 0
	districts := zerolog.Dict()
	for district, n := range counts {
		districts.Int(district, n)
		total += n
	}

	s.log.Info().
		Dict("outstanding", districts).
		Int("total", total).
		Msg("incident backlog")
	return counts, nil
}
