package logic

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/tabletop-league/scorekeeper/internal/models"
)

// memStore is an in-memory implementation of every store interface used by
// the services under test.
type memStore struct {
	mu       sync.Mutex
	games    map[string]models.GameDefinition
	players  map[string]models.Player
	sessions map[string]models.GameSession
	stats    map[string]models.PlayerStats
	badges   map[string]map[string]time.Time
	nights   map[string]models.GameNight
	feedback map[string]models.Feedback

	failStatsFor map[string]error
}

func newMemStore() *memStore {
	return &memStore{
		games:        map[string]models.GameDefinition{},
		players:      map[string]models.Player{},
		sessions:     map[string]models.GameSession{},
		stats:        map[string]models.PlayerStats{},
		badges:       map[string]map[string]time.Time{},
		nights:       map[string]models.GameNight{},
		feedback:     map[string]models.Feedback{},
		failStatsFor: map[string]error{},
	}
}

func cloneSession(s models.GameSession) models.GameSession {
	s.Results = slices.Clone(s.Results)
	return s
}

// games

func (m *memStore) CreateGame(_ context.Context, g *models.GameDefinition) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.games {
		if strings.EqualFold(existing.Name, g.Name) {
			return ErrConflict
		}
	}
	m.games[g.ID] = *g
	return nil
}

func (m *memStore) UpdateGame(_ context.Context, g *models.GameDefinition) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.games[g.ID]; !ok {
		return ErrNotFound
	}
	for id, existing := range m.games {
		if id != g.ID && strings.EqualFold(existing.Name, g.Name) {
			return ErrConflict
		}
	}
	m.games[g.ID] = *g
	return nil
}

func (m *memStore) GetGame(_ context.Context, id string) (*models.GameDefinition, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.games[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &g, nil
}

func (m *memStore) GetGameBySlug(_ context.Context, slug string) (*models.GameDefinition, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, g := range m.games {
		if g.Slug == slug {
			return &g, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memStore) ListGames(_ context.Context, includeInactive bool) ([]models.GameDefinition, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.GameDefinition{}
	for _, g := range m.games {
		if g.IsActive || includeInactive {
			out = append(out, g)
		}
	}
	slices.SortFunc(out, func(a, b models.GameDefinition) int { return cmp.Compare(a.Name, b.Name) })
	return out, nil
}

// players

func (m *memStore) CreatePlayer(_ context.Context, p *models.Player) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.players {
		if strings.EqualFold(existing.Name, p.Name) {
			return ErrConflict
		}
	}
	m.players[p.ID] = *p
	return nil
}

func (m *memStore) UpdatePlayer(_ context.Context, p *models.Player) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.players[p.ID]; !ok {
		return ErrNotFound
	}
	for id, existing := range m.players {
		if id != p.ID && strings.EqualFold(existing.Name, p.Name) {
			return ErrConflict
		}
	}
	m.players[p.ID] = *p
	return nil
}

func (m *memStore) GetPlayer(_ context.Context, id string) (*models.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.players[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (m *memStore) GetPlayers(_ context.Context, ids []string) ([]models.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Player{}
	for _, id := range ids {
		if p, ok := m.players[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memStore) ListPlayers(_ context.Context, includeArchived bool) ([]models.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Player{}
	for _, p := range m.players {
		if p.IsActive || includeArchived {
			out = append(out, p)
		}
	}
	slices.SortFunc(out, func(a, b models.Player) int { return cmp.Compare(a.Name, b.Name) })
	return out, nil
}

func (m *memStore) DeletePlayer(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.players[id]; !ok {
		return ErrNotFound
	}
	delete(m.players, id)
	for sid, s := range m.sessions {
		s = cloneSession(s)
		for i := range s.Results {
			if s.Results[i].PlayerID == id {
				s.Results[i].PlayerID = ""
				s.Results[i].PlayerName = models.DeletedPlayerName
			}
		}
		m.sessions[sid] = s
	}
	delete(m.stats, id)
	delete(m.badges, id)
	return nil
}

// sessions

func (m *memStore) CreateSession(_ context.Context, s *models.GameSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = cloneSession(*s)
	return nil
}

func (m *memStore) UpdateSession(_ context.Context, s *models.GameSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[s.ID]; !ok {
		return ErrNotFound
	}
	m.sessions[s.ID] = cloneSession(*s)
	return nil
}

func (m *memStore) DeleteSession(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(m.sessions, id)
	return nil
}

func (m *memStore) GetSession(_ context.Context, id string) (*models.GameSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	s = cloneSession(s)
	return &s, nil
}

func (m *memStore) sortedSessions() []models.GameSession {
	out := make([]models.GameSession, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, cloneSession(s))
	}
	slices.SortFunc(out, func(a, b models.GameSession) int {
		if c := b.PlayedAt.Compare(a.PlayedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

func (m *memStore) ListSessions(_ context.Context, f models.SessionFilter) ([]models.GameSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.GameSession{}
	for _, s := range m.sortedSessions() {
		if f.GameID != "" && s.GameID != f.GameID {
			continue
		}
		if f.PlayerID != "" {
			if _, ok := s.ResultFor(f.PlayerID); !ok {
				continue
			}
		}
		out = append(out, s)
	}
	if f.Offset > 0 {
		if f.Offset >= len(out) {
			return []models.GameSession{}, nil
		}
		out = out[f.Offset:]
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (m *memStore) ListSessionsForPlayer(ctx context.Context, playerID string) ([]models.GameSession, error) {
	return m.ListSessions(ctx, models.SessionFilter{PlayerID: playerID})
}

func (m *memStore) ListParticipantIDs(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := map[string]bool{}
	out := []string{}
	for _, s := range m.sessions {
		for _, id := range s.PlayerIDs() {
			if !seen[id] {
				seen[id] = true
				out = append(out, id)
			}
		}
	}
	slices.Sort(out)
	return out, nil
}

// stats

func (m *memStore) UpsertPlayerStats(_ context.Context, s *models.PlayerStats) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failStatsFor[s.PlayerID]; err != nil {
		return err
	}
	m.stats[s.PlayerID] = *s
	return nil
}

func (m *memStore) DeletePlayerStats(_ context.Context, playerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.stats[playerID]; !ok {
		return ErrNotFound
	}
	delete(m.stats, playerID)
	return nil
}

func (m *memStore) GetPlayerStats(_ context.Context, playerID string) (*models.PlayerStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.stats[playerID]
	if !ok {
		return nil, ErrNotFound
	}
	return &s, nil
}

func (m *memStore) ListTopPlayerStats(_ context.Context, limit int) ([]models.PlayerStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.PlayerStats{}
	for _, s := range m.stats {
		out = append(out, s)
	}
	slices.SortFunc(out, func(a, b models.PlayerStats) int {
		if c := cmp.Compare(b.Overall.TotalPoints, a.Overall.TotalPoints); c != 0 {
			return c
		}
		return cmp.Compare(a.PlayerName, b.PlayerName)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memStore) ListPlayerStatsForGame(_ context.Context, gameID string) ([]models.PlayerStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.PlayerStats{}
	for _, s := range m.stats {
		if _, ok := s.GameRow(gameID); ok {
			out = append(out, s)
		}
	}
	return out, nil
}

// badges

func (m *memStore) AwardBadges(_ context.Context, playerID string, codes []string, at time.Time) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	held := m.badges[playerID]
	if held == nil {
		held = map[string]time.Time{}
		m.badges[playerID] = held
	}
	added := []string{}
	for _, c := range codes {
		if _, ok := held[c]; !ok {
			held[c] = at
			added = append(added, c)
		}
	}
	return added, nil
}

func (m *memStore) ListPlayerBadges(_ context.Context, playerID string) ([]models.PlayerBadge, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.PlayerBadge{}
	for code, at := range m.badges[playerID] {
		out = append(out, models.PlayerBadge{PlayerID: playerID, BadgeCode: code, AwardedAt: at})
	}
	slices.SortFunc(out, func(a, b models.PlayerBadge) int { return cmp.Compare(a.BadgeCode, b.BadgeCode) })
	return out, nil
}

// game nights

func (m *memStore) CreateGameNight(_ context.Context, n *models.GameNight) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *n
	c.RSVPs = slices.Clone(n.RSVPs)
	m.nights[n.ID] = c
	return nil
}

func (m *memStore) UpdateGameNight(_ context.Context, n *models.GameNight) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.nights[n.ID]
	if !ok {
		return ErrNotFound
	}
	c := *n
	c.RSVPs = existing.RSVPs
	m.nights[n.ID] = c
	return nil
}

func (m *memStore) GetGameNight(_ context.Context, id string) (*models.GameNight, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.nights[id]
	if !ok {
		return nil, ErrNotFound
	}
	n.RSVPs = slices.Clone(n.RSVPs)
	return &n, nil
}

func (m *memStore) ListGameNightsBetween(_ context.Context, from, to time.Time, limit int) ([]models.GameNight, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.GameNight{}
	for _, n := range m.nights {
		if n.Cancelled || n.ScheduledAt.Before(from) || !n.ScheduledAt.Before(to) {
			continue
		}
		n.RSVPs = slices.Clone(n.RSVPs)
		out = append(out, n)
	}
	slices.SortFunc(out, func(a, b models.GameNight) int { return a.ScheduledAt.Compare(b.ScheduledAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memStore) UpsertRSVP(_ context.Context, nightID string, rsvp models.RSVP) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.nights[nightID]
	if !ok {
		return ErrNotFound
	}
	rsvps := slices.Clone(n.RSVPs)
	replaced := false
	for i := range rsvps {
		if rsvps[i].PlayerID == rsvp.PlayerID {
			rsvps[i] = rsvp
			replaced = true
		}
	}
	if !replaced {
		rsvps = append(rsvps, rsvp)
	}
	n.RSVPs = rsvps
	m.nights[nightID] = n
	return nil
}

func (m *memStore) MarkReminded(_ context.Context, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.nights[id]
	if !ok {
		return ErrNotFound
	}
	n.RemindedAt = &at
	m.nights[id] = n
	return nil
}

// feedback

func (m *memStore) CreateFeedback(_ context.Context, f *models.Feedback) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.feedback[f.ID] = *f
	return nil
}

func (m *memStore) ListFeedback(_ context.Context, includeResolved bool) ([]models.Feedback, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Feedback{}
	for _, f := range m.feedback {
		if !f.Resolved || includeResolved {
			out = append(out, f)
		}
	}
	slices.SortFunc(out, func(a, b models.Feedback) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out, nil
}

func (m *memStore) ResolveFeedback(_ context.Context, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.feedback[id]
	if !ok {
		return ErrNotFound
	}
	f.Resolved = true
	f.ResolvedAt = &at
	m.feedback[id] = f
	return nil
}

// memCache implements Cache.
type memCache struct {
	mu        sync.Mutex
	data      map[string][]byte
	version   int64
	published map[string][][]byte
	gets      int
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}, published: map[string][][]byte{}}
}

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *memCache) Version(_ context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.version, nil
}

func (c *memCache) Bump(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.version++
	return nil
}

func (c *memCache) Publish(_ context.Context, channel string, message []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.published[channel] = append(c.published[channel], message)
	return nil
}

func (c *memCache) messages(channel string) [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.published[channel])
}

// memActivity implements ActivityLog.
type memActivity struct {
	mu   sync.Mutex
	rows []models.SessionActivity
}

func (a *memActivity) RecordSessionActivity(_ context.Context, row models.SessionActivity) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.rows = append(a.rows, row)
	return nil
}

func (a *memActivity) DailyActivity(context.Context, int) ([]models.ActivityDay, error) {
	return []models.ActivityDay{}, nil
}

func (a *memActivity) GamePopularity(context.Context, int) ([]models.GamePopularity, error) {
	return []models.GamePopularity{}, nil
}

func (a *memActivity) actions() []models.SessionAction {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]models.SessionAction, len(a.rows))
	for i, r := range a.rows {
		out[i] = r.Action
	}
	return out
}

// recordingQueue implements RecalcQueue and remembers every enqueued id.
type recordingQueue struct {
	mu  sync.Mutex
	ids []string
}

func (q *recordingQueue) Enqueue(ids ...string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.ids = append(q.ids, ids...)
	return true
}

func (q *recordingQueue) drain() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.ids
	q.ids = nil
	slices.Sort(out)
	return slices.Compact(out)
}
