package study

import (
	"sync"
	"time"

	"github.com/lumenlabs/studyportal/internal/principal"
	"github.com/lumenlabs/studyportal/internal/repository"
)

// Manager hands out one sync coordinator and one notification poller
// per principal, so the at-most-one-in-flight save discipline and the
// last-known unread count both span every request in a session.
// Reset discards a principal's components; a fresh pair (with an
// untripped breaker) is built on next use.
type Manager struct {
	profiles     repository.ProfileRepository
	messages     repository.MessageRepository
	debounce     time.Duration
	pollInterval time.Duration

	mu      sync.Mutex
	coords  map[string]*SyncCoordinator
	pollers map[string]*NotificationPoller
}

func NewManager(profiles repository.ProfileRepository, messages repository.MessageRepository, debounce, pollInterval time.Duration) *Manager {
	return &Manager{
		profiles:     profiles,
		messages:     messages,
		debounce:     debounce,
		pollInterval: pollInterval,
		coords:       make(map[string]*SyncCoordinator),
		pollers:      make(map[string]*NotificationPoller),
	}
}

// Coordinator returns the principal's sync coordinator, creating it on
// first use.
func (m *Manager) Coordinator(p principal.Principal) *SyncCoordinator {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.coords[p.ID]
	if !ok {
		c = NewSyncCoordinator(m.profiles, p, m.debounce, nil)
		m.coords[p.ID] = c
	}
	return c
}

// Poller returns the principal's notification poller, creating it on
// first use.
func (m *Manager) Poller(p principal.Principal) *NotificationPoller {
	m.mu.Lock()
	defer m.mu.Unlock()

	np, ok := m.pollers[p.ID]
	if !ok {
		np = NewNotificationPoller(m.messages, p, m.pollInterval)
		m.pollers[p.ID] = np
	}
	return np
}

// Reset tears down a principal's session components, e.g. after
// re-authentication. This is the only way out of a tripped breaker.
func (m *Manager) Reset(p principal.Principal) {
	m.mu.Lock()
	c := m.coords[p.ID]
	np := m.pollers[p.ID]
	delete(m.coords, p.ID)
	delete(m.pollers, p.ID)
	m.mu.Unlock()

	if c != nil {
		c.Close()
	}
	if np != nil {
		np.Stop()
	}
}

// Close stops every live poller and cancels every scheduled auto-save.
func (m *Manager) Close() {
	m.mu.Lock()
	coords := make([]*SyncCoordinator, 0, len(m.coords))
	pollers := make([]*NotificationPoller, 0, len(m.pollers))
	for _, c := range m.coords {
		coords = append(coords, c)
	}
	for _, np := range m.pollers {
		pollers = append(pollers, np)
	}
	m.coords = make(map[string]*SyncCoordinator)
	m.pollers = make(map[string]*NotificationPoller)
	m.mu.Unlock()

	for _, c := range coords {
		c.Close()
	}
	for _, np := range pollers {
		np.Stop()
	}
}
