package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/tabletop-league/scorekeeper/internal/models"
)

// MockRecalculator counts calls per player. failures[id] makes the first N
// attempts for that player fail; removed players get a nil result.
type MockRecalculator struct {
	mu       sync.Mutex
	calls    map[string]int
	failures map[string]int
	removed  map[string]bool
	delay    time.Duration
	nilCtx   bool
}

func NewMockRecalculator() *MockRecalculator {
	return &MockRecalculator{
		calls:    make(map[string]int),
		failures: make(map[string]int),
		removed:  make(map[string]bool),
	}
}

func (m *MockRecalculator) RecalculatePlayerStats(ctx context.Context, playerID string) (*models.PlayerStats, error) {
	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nilCtx = m.nilCtx || ctx == nil
	m.calls[playerID]++
	if m.failures[playerID] > 0 {
		m.failures[playerID]--
		return nil, errors.New("postgres unavailable")
	}
	if m.removed[playerID] {
		return nil, nil
	}
	return &models.PlayerStats{PlayerID: playerID, Overall: models.OverallStats{TotalGames: m.calls[playerID]}}, nil
}

func (m *MockRecalculator) Calls(playerID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[playerID]
}

func (m *MockRecalculator) Total() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		n += c
	}
	return n
}

type MockBadgeAwarder struct {
	mu      sync.Mutex
	players []string
	err     error
}

func (m *MockBadgeAwarder) AwardForStats(ctx context.Context, stats *models.PlayerStats) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.players = append(m.players, stats.PlayerID)
	return nil, m.err
}

func (m *MockBadgeAwarder) Players() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.players...)
}

type MockFullRecalculator struct {
	runs    int
	summary *models.RecalcSummary
	err     error
}

func (m *MockFullRecalculator) RecalculateAllStats(ctx context.Context) (*models.RecalcSummary, error) {
	m.runs++
	return m.summary, m.err
}

type MockReminderSender struct {
	leads []time.Duration
	sent  int
	err   error
}

func (m *MockReminderSender) SendReminders(ctx context.Context, lead time.Duration) (int, error) {
	m.leads = append(m.leads, lead)
	return m.sent, m.err
}
