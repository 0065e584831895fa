package canvas

import (
	"context"
	"sync"
)

// Manager hands out one Session per project, booting each lazily on first
// use. Transports resolve sessions through it instead of holding references.
type Manager struct {
	mu       sync.Mutex
	opts     Options
	sessions map[int64]*Session
}

// NewManager builds a manager. The options act as a template; ProjectID is
// assigned per session.
func NewManager(opts Options) *Manager {
	return &Manager{
		opts:     opts,
		sessions: make(map[int64]*Session),
	}
}

// Canvas returns the project's session, creating and starting it on first
// access.
func (m *Manager) Canvas(ctx context.Context, projectID int64) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[projectID]
	if !ok {
		opts := m.opts
		opts.ProjectID = projectID
		session = NewSession(opts)
		session.Start(ctx)
		m.sessions[projectID] = session
	}
	return session, nil
}

// Release drops a project's session after draining in-flight chart work.
// The ephemeral snapshot survives, so the next Canvas call restores state.
func (m *Manager) Release(projectID int64) {
	m.mu.Lock()
	session, ok := m.sessions[projectID]
	delete(m.sessions, projectID)
	m.mu.Unlock()
	if ok {
		session.Flush()
	}
}
