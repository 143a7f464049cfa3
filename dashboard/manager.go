package dashboard

import (
	"context"
	"sync"
	"time"

	"bitbucket.org/mmdatafocus/dashboard_backend/utils"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type ManagerOptions struct {
	// IdleTTL closes sessions not touched for this long. Zero keeps them
	// until they are closed explicitly.
	IdleTTL time.Duration
	Session SessionOptions
}

// Manager owns the open sessions of the process.
type Manager struct {
	mu        sync.Mutex
	catalogue *Catalogue
	sessions  map[string]Session
	opts      ManagerOptions
	newId     func() string
}

func NewManager(catalogue *Catalogue, opts ManagerOptions) *Manager {
	opts.Session = opts.Session.withDefaults()
	return &Manager{
		catalogue: catalogue,
		sessions:  make(map[string]Session),
		opts:      opts,
		newId:     uuid.NewString,
	}
}

func (m *Manager) Catalogue() *Catalogue { return m.catalogue }

// Open starts a session on a screen of role.
func (m *Manager) Open(ctx context.Context, role Role, name string) (Session, error) {
	screen, err := m.catalogue.Lookup(role, name)
	if err != nil {
		return nil, err
	}
	id := m.newId()
	sess := screen.Open(utils.SetSessionIdInContext(ctx, id), id, m.opts.Session)

	m.mu.Lock()
	m.sessions[id] = sess
	m.mu.Unlock()

	m.opts.Session.Metrics.SessionOpened()
	m.opts.Session.Logger.WithFields(logrus.Fields{
		"session_id": id,
		"screen":     sess.ScreenKey(),
	}).Debug("session opened")
	return sess, nil
}

func (m *Manager) Get(id string) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[id]
	if !ok {
		return nil, utils.ErrorSessionNotFound
	}
	return sess, nil
}

func (m *Manager) Close(id string) error {
	m.mu.Lock()
	sess, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return utils.ErrorSessionNotFound
	}
	sess.Close()
	m.opts.Session.Metrics.SessionClosed(false)
	return nil
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep closes sessions idle for longer than IdleTTL and returns how many
// were closed.
func (m *Manager) Sweep() int {
	if m.opts.IdleTTL <= 0 {
		return 0
	}
	now := m.opts.Session.Now()

	m.mu.Lock()
	var expired []Session
	for id, sess := range m.sessions {
		if now.Sub(sess.LastSeen()) > m.opts.IdleTTL {
			expired = append(expired, sess)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, sess := range expired {
		sess.Close()
		m.opts.Session.Metrics.SessionClosed(true)
		m.opts.Session.Logger.WithFields(logrus.Fields{
			"session_id": sess.Id(),
			"screen":     sess.ScreenKey(),
		}).Debug("idle session closed")
	}
	return len(expired)
}

// Run sweeps every interval until ctx is done.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}

// CloseAll closes every session, for shutdown.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]Session)
	m.mu.Unlock()

	for _, sess := range sessions {
		sess.Close()
		m.opts.Session.Metrics.SessionClosed(false)
	}
}
