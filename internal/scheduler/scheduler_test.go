package scheduler_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/scheduler"
)

type fakeLister struct {
	quarter time.Time
	groups  []string
	err     error
}

func (f fakeLister) PendingGroups(context.Context) (time.Time, []string, error) {
	return f.quarter, f.groups, f.err
}

func TestReminder_Run(t *testing.T) {
	quarter := time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)

	t.Run("notifies every pending group", func(t *testing.T) {
		var notified []string
		r := scheduler.NewReminder(fakeLister{quarter: quarter, groups: []string{"g1", "g2"}},
			func(_ context.Context, q time.Time, groupID string) {
				assert.Equal(t, quarter, q)
				notified = append(notified, groupID)
			})

		n, err := r.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		assert.Equal(t, []string{"g1", "g2"}, notified)
	})

	t.Run("propagates lister errors", func(t *testing.T) {
		r := scheduler.NewReminder(fakeLister{err: errors.New("db closed")}, nil)

		n, err := r.Run(context.Background())
		require.Error(t, err)
		assert.Zero(t, n)
	})
}

func TestNew(t *testing.T) {
	r := scheduler.NewReminder(fakeLister{}, nil)

	t.Run("accepts the default schedule", func(t *testing.T) {
		s, err := scheduler.New(scheduler.DefaultSchedule, r)
		require.NoError(t, err)

		next := s.Next()
		assert.Equal(t, 1, next.Day())
		assert.Equal(t, 9, next.Hour())
	})

	t.Run("rejects an invalid schedule", func(t *testing.T) {
		_, err := scheduler.New("every tuesday", r)
		assert.Error(t, err)
	})

	t.Run("starts and stops", func(t *testing.T) {
		s, err := scheduler.New("@every 1h", r)
		require.NoError(t, err)
		s.Start()
		<-s.Stop().Done()
	})
}
