package session

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/jwalitptl/clinic-records/internal/model"
	apperrors "github.com/jwalitptl/clinic-records/pkg/errors"
	"github.com/jwalitptl/clinic-records/pkg/logger"
	"github.com/jwalitptl/clinic-records/pkg/metrics"
)

type Config struct {
	// IdleTimeout ends a session that has not been touched for this long.
	// Zero keeps sessions until logout.
	IdleTimeout     time.Duration
	CleanupInterval time.Duration
	// PatientID is bound to every Patient-role session.
	PatientID string
}

// Manager tracks the single signed-in session.
type Manager struct {
	mu        sync.Mutex
	currentID string
	cache     *cache.Cache
	patientID string
	nowFn     func() time.Time
	logger    *logger.Logger
	metrics   *metrics.Metrics
}

func NewManager(cfg Config, log *logger.Logger, m *metrics.Metrics) *Manager {
	if log == nil {
		log = logger.Nop()
	}
	expiry := cfg.IdleTimeout
	if expiry <= 0 {
		expiry = cache.NoExpiration
	}
	cleanup := cfg.CleanupInterval
	if cfg.IdleTimeout <= 0 || cleanup <= 0 {
		cleanup = 0
	}
	return &Manager{
		cache:     cache.New(expiry, cleanup),
		patientID: cfg.PatientID,
		nowFn:     func() time.Time { return time.Now().UTC() },
		logger:    log,
		metrics:   m,
	}
}

// Start opens a session for role, replacing any current one. An empty
// displayName falls back to "<role> User".
func (m *Manager) Start(role model.Role, displayName string) (model.Session, error) {
	role, known := model.ParseRole(string(role))
	if !known {
		return model.Session{}, apperrors.BadRequest(fmt.Sprintf("unknown role %q", role), nil)
	}
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		displayName = role.DefaultDisplayName()
	}

	sess := model.Session{
		ID:          uuid.New(),
		Role:        role,
		DisplayName: displayName,
		StartedAt:   m.nowFn(),
	}
	if role == model.RolePatient {
		sess.PatientID = m.patientID
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.currentID != "" {
		m.cache.Delete(m.currentID)
	}
	m.currentID = sess.ID.String()
	m.cache.Set(m.currentID, sess, cache.DefaultExpiration)
	m.setActive(1)

	m.logger.Info("Session started", "session_id", m.currentID, "role", string(role), "user", displayName)
	return sess, nil
}

// Current returns the live session. An idle-expired session is ended and
// reported as absent.
func (m *Manager) Current() (model.Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current()
}

// Active reports whether a session is signed in.
func (m *Manager) Active() bool {
	_, ok := m.Current()
	return ok
}

// Touch records activity on the current session, extending its idle deadline.
func (m *Manager) Touch() (model.Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.current()
	if ok {
		m.cache.Set(m.currentID, sess, cache.DefaultExpiration)
	}
	return sess, ok
}

// End closes the current session and returns it.
func (m *Manager) End() (model.Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.current()
	if m.currentID != "" {
		m.cache.Delete(m.currentID)
		m.currentID = ""
	}
	m.setActive(0)
	if ok {
		m.logger.Info("Session ended", "session_id", sess.ID.String(), "role", string(sess.Role))
	}
	return sess, ok
}

func (m *Manager) current() (model.Session, bool) {
	if m.currentID == "" {
		return model.Session{}, false
	}
	v, found := m.cache.Get(m.currentID)
	if !found {
		m.logger.Info("Session expired", "session_id", m.currentID)
		m.currentID = ""
		m.setActive(0)
		return model.Session{}, false
	}
	return v.(model.Session), true
}

func (m *Manager) setActive(n float64) {
	if m.metrics != nil {
		m.metrics.ActiveSessions.Set(n)
	}
}
