package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabletop-league/scorekeeper/internal/models"
)

func TestNewScheduler_InvalidCron(t *testing.T) {
	_, err := NewScheduler(SchedulerConfig{
		RecalcSchedule: "every night please",
		Stats:          &MockFullRecalculator{},
	})
	assert.Error(t, err)
}

func TestScheduler_StartStop(t *testing.T) {
	s, err := NewScheduler(SchedulerConfig{
		RecalcSchedule:   "0 4 * * *",
		ReminderInterval: time.Hour,
		Stats:            &MockFullRecalculator{summary: &models.RecalcSummary{}},
		Reminders:        &MockReminderSender{},
	})
	require.NoError(t, err)
	s.Start()
	assert.NoError(t, s.Stop())
}

func TestScheduler_RecalculateAll(t *testing.T) {
	full := &MockFullRecalculator{summary: &models.RecalcSummary{Players: 3, Updated: 2, Removed: 1, Failed: []string{}}}
	s, err := NewScheduler(SchedulerConfig{RecalcSchedule: "0 4 * * *", Stats: full})
	require.NoError(t, err)

	s.recalculateAll(context.Background())
	full.err = errors.New("boom")
	s.recalculateAll(context.Background())
	assert.Equal(t, 2, full.runs)
}

func TestScheduler_Reminders(t *testing.T) {
	sender := &MockReminderSender{sent: 2}
	s, err := NewScheduler(SchedulerConfig{
		ReminderInterval: time.Minute,
		ReminderLeadTime: 6 * time.Hour,
		Reminders:        sender,
	})
	require.NoError(t, err)

	s.sendReminders(context.Background())
	assert.Equal(t, []time.Duration{6 * time.Hour}, sender.leads)
}

func TestScheduler_DefaultLeadTime(t *testing.T) {
	sender := &MockReminderSender{}
	s, err := NewScheduler(SchedulerConfig{Reminders: sender})
	require.NoError(t, err)

	s.sendReminders(context.Background())
	assert.Equal(t, []time.Duration{24 * time.Hour}, sender.leads)
}
