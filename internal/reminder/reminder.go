// Package reminder periodically counts due items and hands the count to a
// Notifier while the local hour is inside the configured window.
package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/jonboulle/clockwork"

	"github.com/heartmarshall/lexitrack/internal/config"
)

type dueCounter interface {
	CountDue(ctx context.Context, now time.Time) (int, error)
}

// Notifier delivers a reminder that count items are waiting.
type Notifier interface {
	NotifyDue(ctx context.Context, count int) error
}

type reminderObserver interface {
	ObserveReminder()
}

// Job is the due-items reminder.
type Job struct {
	log      *slog.Logger
	due      dueCounter
	notifier Notifier
	observer reminderObserver
	clock    clockwork.Clock
	loc      *time.Location

	interval  time.Duration
	startHour int
	endHour   int
}

// New creates a reminder Job. loc is the learner's timezone used for the
// hour window; nil means UTC. A nil clock uses the real clock.
func New(
	log *slog.Logger,
	cfg config.ReminderConfig,
	loc *time.Location,
	due dueCounter,
	notifier Notifier,
	observer reminderObserver,
	clock clockwork.Clock,
) *Job {
	if loc == nil {
		loc = time.UTC
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Job{
		log:       log.With("service", "reminder"),
		due:       due,
		notifier:  notifier,
		observer:  observer,
		clock:     clock,
		loc:       loc,
		interval:  cfg.Interval,
		startHour: cfg.StartHour,
		endHour:   cfg.EndHour,
	}
}

// Check runs one reminder pass. It returns true when a notification was
// delivered. Outside the hour window or with nothing due it does nothing.
func (j *Job) Check(ctx context.Context) (bool, error) {
	now := j.clock.Now()

	hour := now.In(j.loc).Hour()
	if hour < j.startHour || hour > j.endHour {
		j.log.DebugContext(ctx, "outside reminder hours",
			slog.Int("hour", hour),
			slog.Int("start_hour", j.startHour),
			slog.Int("end_hour", j.endHour),
		)
		return false, nil
	}

	count, err := j.due.CountDue(ctx, now)
	if err != nil {
		return false, fmt.Errorf("count due: %w", err)
	}
	if count == 0 {
		return false, nil
	}

	if err := j.notifier.NotifyDue(ctx, count); err != nil {
		return false, fmt.Errorf("notify due: %w", err)
	}

	if j.observer != nil {
		j.observer.ObserveReminder()
	}
	j.log.InfoContext(ctx, "reminder sent", slog.Int("due", count))
	return true, nil
}

// Run schedules Check every interval and blocks until ctx is cancelled.
func (j *Job) Run(ctx context.Context) error {
	s := gocron.NewScheduler(j.loc)
	s.SingletonModeAll()

	_, err := s.Every(j.interval).Do(func() {
		if _, err := j.Check(ctx); err != nil {
			j.log.ErrorContext(ctx, "reminder check failed", slog.String("error", err.Error()))
		}
	})
	if err != nil {
		return fmt.Errorf("schedule reminder: %w", err)
	}

	j.log.InfoContext(ctx, "reminder started", slog.Duration("interval", j.interval))
	s.StartAsync()

	<-ctx.Done()
	s.Stop()
	j.log.InfoContext(ctx, "reminder stopped")
	return nil
}

// LogNotifier writes reminders to the application log.
type LogNotifier struct {
	log *slog.Logger
}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier(log *slog.Logger) *LogNotifier {
	return &LogNotifier{log: log.With("notifier", "log")}
}

// NotifyDue logs the number of due items.
func (n *LogNotifier) NotifyDue(ctx context.Context, count int) error {
	n.log.InfoContext(ctx, "items waiting for review", slog.Int("count", count))
	return nil
}
