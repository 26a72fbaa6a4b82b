// Package scheduler runs the periodic inventory reminder.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/calendar"
)

// DefaultSchedule fires at 09:00 UTC on the first day of every month.
const DefaultSchedule = "0 9 1 * *"

// PendingLister reports the groups that still have to take the current quarter's inventory.
// *service.InventoryService implements it.
type PendingLister interface {
	PendingGroups(ctx context.Context) (time.Time, []string, error)
}

// Notifier is told about one group that needs to take its inventory.
type Notifier func(ctx context.Context, quarter time.Time, groupID string)

// LogNotifier writes the reminder to the standard logger.
func LogNotifier(_ context.Context, quarter time.Time, groupID string) {
	log.Printf("reminder: group %s has no inventory for %s", groupID, calendar.Label(quarter))
}

// Reminder finds the groups behind on their inventory and notifies each one.
type Reminder struct {
	lister  PendingLister
	notify  Notifier
	timeout time.Duration
}

// NewReminder creates a Reminder. A nil notifier logs.
func NewReminder(lister PendingLister, notify Notifier) *Reminder {
	if notify == nil {
		notify = LogNotifier
	}
	return &Reminder{lister: lister, notify: notify, timeout: time.Minute}
}

// Run notifies every pending group and returns how many were notified.
func (r *Reminder) Run(ctx context.Context) (int, error) {
	quarter, groups, err := r.lister.PendingGroups(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list pending groups: %w", err)
	}
	for _, groupID := range groups {
		r.notify(ctx, quarter, groupID)
	}
	return len(groups), nil
}

// Scheduler wraps a cron runner holding the reminder job.
type Scheduler struct {
	cron *cron.Cron
}

// New registers reminder on schedule, a standard five-field cron expression evaluated in UTC.
func New(schedule string, reminder *Reminder) (*Scheduler, error) {
	c := cron.New(cron.WithLocation(time.UTC))
	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), reminder.timeout)
		defer cancel()

		n, err := reminder.Run(ctx)
		if err != nil {
			log.Printf("reminder: %v", err)
			return
		}
		log.Printf("reminder: %d group(s) notified", n)
	})
	if err != nil {
		return nil, fmt.Errorf("invalid reminder schedule %q: %w", schedule, err)
	}
	return &Scheduler{cron: c}, nil
}

// Start runs the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the scheduler. The returned context is done once a running job finishes.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

// Next returns the next time the reminder fires.
func (s *Scheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Schedule.Next(time.Now().UTC())
}
