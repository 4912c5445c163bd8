// Package scheduler drives the periodic deadline notifiers: a short
// interval loop for board tasks and class reminders, and a once-daily
// run for assignment deadlines and ledger retention.
package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/nattawatc/study-planner-api/internal/services"
)

type Scheduler struct {
	notifier      *services.NotifierService
	notifications *services.NotificationService

	scanInterval time.Duration
	dailyHour    int
	location     *time.Location

	stop chan struct{}
	wg   sync.WaitGroup
}

// New creates a Scheduler. An unknown timezone name falls back to UTC.
func New(notifier *services.NotifierService, notifications *services.NotificationService, scanInterval time.Duration, dailyHour int, timezone string) *Scheduler {
	location, err := time.LoadLocation(timezone)
	if err != nil {
		log.Printf("scheduler: unknown timezone %q, using UTC", timezone)
		location = time.UTC
	}

	return &Scheduler{
		notifier:      notifier,
		notifications: notifications,
		scanInterval:  scanInterval,
		dailyHour:     dailyHour,
		location:      location,
		stop:          make(chan struct{}),
	}
}

// Start launches the scan loops. Each tick runs to completion before the
// next is considered; a failed tick is dropped and the work is retried
// on the next one.
func (s *Scheduler) Start() {
	log.Printf("scheduler: task scan every %s, daily scan at %02d:00 %s",
		s.scanInterval, s.dailyHour, s.location)

	s.wg.Add(2)
	go s.runIntervalLoop()
	go s.runDailyLoop()
}

// Stop shuts down the loops and waits for in-flight ticks to finish.
func (s *Scheduler) Stop() {
	close(s.stop)
	s.wg.Wait()
}

func (s *Scheduler) runIntervalLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.scanInterval)
	defer ticker.Stop()

	// First scan immediately on startup.
	s.RunTaskScanOnce()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.RunTaskScanOnce()
		}
	}
}

func (s *Scheduler) runDailyLoop() {
	defer s.wg.Done()

	for {
		timer := time.NewTimer(time.Until(nextDailyRun(time.Now().In(s.location), s.dailyHour)))
		select {
		case <-s.stop:
			timer.Stop()
			return
		case <-timer.C:
			s.RunDailyOnce()
		}
	}
}

// RunTaskScanOnce runs the short-interval scans once. Exposed so the
// scan can be triggered on demand.
func (s *Scheduler) RunTaskScanOnce() {
	ctx := context.Background()
	now := time.Now().In(s.location)

	if err := s.notifier.ScanTaskDeadlines(ctx, now); err != nil {
		log.Printf("scheduler: task deadline scan failed: %v", err)
	}
	if err := s.notifier.ScanUpcomingCourses(ctx, now); err != nil {
		log.Printf("scheduler: course reminder scan failed: %v", err)
	}
}

// RunDailyOnce runs the daily scans once.
func (s *Scheduler) RunDailyOnce() {
	ctx := context.Background()
	now := time.Now().In(s.location)

	if err := s.notifier.ScanAssignmentDeadlines(ctx, now); err != nil {
		log.Printf("scheduler: assignment deadline scan failed: %v", err)
	}

	purged, err := s.notifications.PurgeExpired(now)
	if err != nil {
		log.Printf("scheduler: notification purge failed: %v", err)
	} else if purged > 0 {
		log.Printf("scheduler: purged %d expired notifications", purged)
	}
}

// nextDailyRun returns the next occurrence of the given hour after now.
func nextDailyRun(now time.Time, hour int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
