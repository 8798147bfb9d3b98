package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/linkboost/linkboost/internal/analytics"
	"github.com/linkboost/linkboost/internal/link"
	"github.com/linkboost/linkboost/internal/user"
)

// MemoryStore is an in-memory implementation of the user, link, and click
// repositories plus the analytics aggregator. It backs tests and
// database-free runs.
type MemoryStore struct {
	mu     sync.RWMutex
	users  map[int64]*user.User
	links  map[int64]*link.Link
	clicks map[int64]*link.Click

	// short codes ever assigned; codes are never reused, even after deletion
	codes map[string]struct{}

	nextUserID  int64
	nextLinkID  int64
	nextClickID int64
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:       make(map[int64]*user.User),
		links:       make(map[int64]*link.Link),
		clicks:      make(map[int64]*link.Click),
		codes:       make(map[string]struct{}),
		nextUserID:  1,
		nextLinkID:  1,
		nextClickID: 1,
	}
}

// --- user.Repository ---

func (m *MemoryStore) Create(ctx context.Context, u *user.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.users {
		if existing.Username == u.Username {
			return user.ErrUsernameTaken
		}
	}

	u.ID = m.nextUserID
	m.nextUserID++
	u.CreatedAt = time.Now()

	cp := *u
	m.users[u.ID] = &cp

	return nil
}

func (m *MemoryStore) GetByID(ctx context.Context, id int64) (*user.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}

	cp := *u

	return &cp, nil
}

func (m *MemoryStore) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if u.Username == username {
			cp := *u

			return &cp, nil
		}
	}

	return nil, user.ErrNotFound
}

// --- link.Repository ---

// Links returns a view implementing link.Repository. The method indirection
// exists because Create is claimed by user.Repository on the store itself.
func (m *MemoryStore) Links() *MemoryLinkStore {
	return &MemoryLinkStore{store: m}
}

// MemoryLinkStore is the link-facing view of a MemoryStore.
type MemoryLinkStore struct {
	store *MemoryStore
}

func (s *MemoryLinkStore) Create(ctx context.Context, l *link.Link) error {
	m := s.store

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, taken := m.codes[l.ShortCode]; taken {
		return link.ErrCodeTaken
	}

	l.ID = m.nextLinkID
	m.nextLinkID++
	l.CreatedAt = time.Now()

	m.codes[l.ShortCode] = struct{}{}

	cp := *l
	m.links[l.ID] = &cp

	return nil
}

func (s *MemoryLinkStore) GetByID(ctx context.Context, id int64) (*link.Link, error) {
	m := s.store

	m.mu.RLock()
	defer m.mu.RUnlock()

	l, ok := m.links[id]
	if !ok {
		return nil, link.ErrNotFound
	}

	cp := *l

	return &cp, nil
}

func (s *MemoryLinkStore) GetByShortCode(ctx context.Context, code string) (*link.Link, error) {
	m := s.store

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, l := range m.links {
		if l.ShortCode == code {
			cp := *l

			return &cp, nil
		}
	}

	return nil, link.ErrNotFound
}

func (s *MemoryLinkStore) GetByCustomDomain(ctx context.Context, domain string) (*link.Link, error) {
	m := s.store

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, l := range m.links {
		if l.CustomDomain == domain && domain != "" {
			cp := *l

			return &cp, nil
		}
	}

	return nil, link.ErrNotFound
}

func (s *MemoryLinkStore) ListByOwner(ctx context.Context, userID int64) ([]*link.Link, error) {
	m := s.store

	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*link.Link

	for _, l := range m.links {
		if l.UserID == userID {
			cp := *l
			out = append(out, &cp)
		}
	}

	sortLinksNewestFirst(out)

	return out, nil
}

func (s *MemoryLinkStore) ListPublished(ctx context.Context) ([]*link.PublicLink, error) {
	m := s.store

	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*link.PublicLink

	for _, l := range m.links {
		if !l.IsPublished {
			continue
		}

		entry := &link.PublicLink{Link: *l}
		if owner, ok := m.users[l.UserID]; ok {
			entry.Username = owner.Username
		}

		out = append(out, entry)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}

		return out[i].ID > out[j].ID
	})

	return out, nil
}

func (s *MemoryLinkStore) Update(ctx context.Context, id int64, fields link.Update) (*link.Link, error) {
	m := s.store

	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.links[id]
	if !ok {
		return nil, link.ErrNotFound
	}

	if fields.OriginalURL != nil {
		l.OriginalURL = *fields.OriginalURL
	}

	if fields.CustomDomain != nil {
		l.CustomDomain = *fields.CustomDomain
	}

	if fields.Title != nil {
		l.Title = *fields.Title
	}

	if fields.Category != nil {
		l.Category = *fields.Category
	}

	if fields.Password != nil {
		l.Password = *fields.Password
	}

	if fields.IsPublished != nil {
		l.IsPublished = *fields.IsPublished
	}

	cp := *l

	return &cp, nil
}

func (s *MemoryLinkStore) Delete(ctx context.Context, id int64) error {
	m := s.store

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.links[id]; !ok {
		return link.ErrNotFound
	}

	delete(m.links, id)

	// clicks cascade with their link
	for clickID, c := range m.clicks {
		if c.LinkID == id {
			delete(m.clicks, clickID)
		}
	}

	return nil
}

// --- link.ClickRecorder ---

func (m *MemoryStore) Record(ctx context.Context, linkID int64, userAgent, ipAddress string) (*link.Click, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c := &link.Click{
		ID:        m.nextClickID,
		LinkID:    linkID,
		ClickedAt: time.Now(),
		UserAgent: userAgent,
		IPAddress: ipAddress,
	}
	m.nextClickID++

	cp := *c
	m.clicks[c.ID] = &cp

	return c, nil
}

// --- analytics.Aggregator ---

func (m *MemoryStore) PerDayCounts(ctx context.Context, linkID int64) ([]analytics.DayCount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	byDay := make(map[string]int64)

	for _, c := range m.clicks {
		if c.LinkID == linkID {
			byDay[c.ClickedAt.Format("2006-01-02")]++
		}
	}

	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}

	sort.Strings(days)

	out := make([]analytics.DayCount, 0, len(days))
	for _, day := range days {
		out = append(out, analytics.DayCount{Day: day, Count: byDay[day]})
	}

	return out, nil
}

func (m *MemoryStore) Leaderboard(ctx context.Context, topN int) ([]analytics.LeaderboardEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	clicksPerLink := make(map[int64]int64)
	for _, c := range m.clicks {
		clicksPerLink[c.LinkID]++
	}

	totals := make(map[int64]int64)
	for _, l := range m.links {
		totals[l.UserID] += clicksPerLink[l.ID]
	}

	out := make([]analytics.LeaderboardEntry, 0, len(m.users))
	for id, u := range m.users {
		out = append(out, analytics.LeaderboardEntry{
			Username:    u.Username,
			TotalClicks: totals[id],
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalClicks != out[j].TotalClicks {
			return out[i].TotalClicks > out[j].TotalClicks
		}

		return out[i].Username < out[j].Username
	})

	if topN >= 0 && len(out) > topN {
		out = out[:topN]
	}

	return out, nil
}

func sortLinksNewestFirst(links []*link.Link) {
	sort.Slice(links, func(i, j int) bool {
		if !links[i].CreatedAt.Equal(links[j].CreatedAt) {
			return links[i].CreatedAt.After(links[j].CreatedAt)
		}

		return links[i].ID > links[j].ID
	})
}
