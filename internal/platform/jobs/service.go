package jobs

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"leavedesk/internal/domain/leave"
	"leavedesk/internal/platform/backend"
	"leavedesk/internal/platform/metrics"
)

const JobHolidayRefresh = "holiday_refresh"

// Service runs background work on a single worker goroutine. The only
// scheduled job today reloads the holiday calendar from the records
// service, so duration math keeps up with newly declared holidays.
type Service struct {
	Backend  *backend.Client
	Calendar *leave.Calendar
	queue    chan job
}

type job struct {
	Type string
	Run  func(context.Context) error
}

func New(client *backend.Client, calendar *leave.Calendar) *Service {
	return &Service{
		Backend:  client,
		Calendar: calendar,
		queue:    make(chan job, 32),
	}
}

func (s *Service) Start(ctx context.Context, refreshInterval time.Duration) {
	go s.worker(ctx)
	if refreshInterval > 0 {
		go s.scheduleHolidayRefresh(ctx, refreshInterval)
	}
}

func (s *Service) Enqueue(jobType string, run func(context.Context) error) {
	select {
	case s.queue <- job{Type: jobType, Run: run}:
	default:
		log.WithField("job_type", jobType).Warn("job queue full")
	}
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			if err := j.Run(ctx); err != nil {
				log.WithField("job_type", j.Type).WithError(err).Warn("job run failed")
			}
		}
	}
}

func (s *Service) scheduleHolidayRefresh(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Enqueue(JobHolidayRefresh, func(ctx context.Context) error {
				_, err := s.RefreshNow(ctx)
				return err
			})
		}
	}
}

// RefreshNow fetches the holiday list and swaps the calendar in one go.
// Returns the number of dates loaded.
func (s *Service) RefreshNow(ctx context.Context) (int, error) {
	holidays, err := s.Backend.Holidays(ctx)
	if err != nil {
		metrics.CountHolidayRefresh(false, 0)
		return 0, err
	}
	dates := make([]string, 0, len(holidays))
	for _, h := range holidays {
		dates = append(dates, h.Date)
	}
	s.Calendar.Replace(dates)
	size := s.Calendar.Len()
	metrics.CountHolidayRefresh(true, size)
	log.WithField("holidays", size).Debug("holiday calendar refreshed")
	return size, nil
}
