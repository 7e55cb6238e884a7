package worker

import (
	"context"
	"time"

	"github.com/agrivest/agrivest-backend/internal/service"
	"github.com/sirupsen/logrus"
)

// Sweeper runs the daily-gain sweep from an in-process ticker for
// deployments without an external scheduler. It shares the code path of the
// cron endpoint, so running both is safe.
type Sweeper struct {
	investments service.InvestmentService
	interval    time.Duration
}

func NewSweeper(investments service.InvestmentService, interval time.Duration) *Sweeper {
	return &Sweeper{investments: investments, interval: interval}
}

func (s *Sweeper) Start() {
	logrus.WithField("interval", s.interval.String()).Info("gain sweeper started")

	s.run()
	ticker := time.NewTicker(s.interval)
	for range ticker.C {
		s.run()
	}
}

func (s *Sweeper) run() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if _, err := s.investments.SweepDailyGains(ctx); err != nil {
		logrus.WithField("error", err.Error()).Error("gain sweep cycle failed")
	}
}
