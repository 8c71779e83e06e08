package swap

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"fxswap/internal/domain"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
)

// OpenParams describes a new swap. Balance is optional; when set, the source
// amount may not exceed it.
type OpenParams struct {
	Source      string
	Destination string
	Balance     string
}

type ManagerConfig struct {
	Decimals      int32
	Debounce      time.Duration
	SubmitTimeout time.Duration
	IdleTimeout   time.Duration
	Clock         clockwork.Clock
}

// Manager keeps the open sessions, one Controller each.
type Manager struct {
	catalog Catalog
	quoter  Quoter
	swapper Swapper
	cfg     ManagerConfig

	mu       sync.Mutex
	sessions map[uuid.UUID]*Controller
}

func NewManager(catalog Catalog, quoter Quoter, swapper Swapper, cfg ManagerConfig) *Manager {
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	if cfg.Decimals <= 0 {
		cfg.Decimals = domain.DefaultDecimals
	}
	return &Manager{
		catalog:  catalog,
		quoter:   quoter,
		swapper:  swapper,
		cfg:      cfg,
		sessions: make(map[uuid.UUID]*Controller),
	}
}

func (m *Manager) Open(_ context.Context, p OpenParams) (Session, error) {
	source := domain.NormalizeSymbol(p.Source)
	destination := domain.NormalizeSymbol(p.Destination)
	if err := m.catalog.ValidatePair(source, destination); err != nil {
		return Session{}, err
	}

	rules := []Rule{RequiredAmount}
	if balance := strings.TrimSpace(p.Balance); balance != "" {
		b, err := domain.ParseDecimal(balance)
		if err != nil {
			return Session{}, fmt.Errorf("invalid balance: %w", err)
		}
		rules = append(rules, MaxBalance(b))
	}

	initial := NewSession(uuid.New(), source, destination, m.cfg.Decimals, m.catalog.PairEligible(source, destination))
	c := NewController(initial, Env{Catalog: m.catalog, Rules: rules}, m.quoter, m.swapper, ControllerConfig{
		Debounce:      m.cfg.Debounce,
		SubmitTimeout: m.cfg.SubmitTimeout,
		Clock:         m.cfg.Clock,
	})

	m.mu.Lock()
	m.sessions[initial.ID] = c
	m.mu.Unlock()

	logrus.WithFields(logrus.Fields{"session": initial.ID, "from": source, "to": destination}).Info("swap session opened")
	return c.Snapshot(), nil
}

func (m *Manager) Get(id uuid.UUID) (*Controller, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return c, nil
}

func (m *Manager) Snapshot(_ context.Context, id uuid.UUID) (Session, error) {
	c, err := m.Get(id)
	if err != nil {
		return Session{}, err
	}
	return c.Snapshot(), nil
}

func (m *Manager) EditAmount(ctx context.Context, id uuid.UUID, field domain.Field, value string) (Session, error) {
	return m.dispatch(ctx, id, EditAmount{Field: field, Value: value})
}

func (m *Manager) ChangeDestination(ctx context.Context, id uuid.UUID, symbol string) (Session, error) {
	return m.dispatch(ctx, id, ChangeDestination{Symbol: symbol})
}

func (m *Manager) SelectRateMode(ctx context.Context, id uuid.UUID, mode domain.RateMode) (Session, error) {
	return m.dispatch(ctx, id, SelectRateMode{Mode: mode})
}

func (m *Manager) Submit(ctx context.Context, id uuid.UUID) (Session, error) {
	return m.dispatch(ctx, id, Submit{})
}

func (m *Manager) dispatch(ctx context.Context, id uuid.UUID, ev Event) (Session, error) {
	c, err := m.Get(id)
	if err != nil {
		return Session{}, err
	}
	return c.Dispatch(ctx, ev)
}

// Close tears a session down. Closing an unknown session is an error.
func (m *Manager) Close(id uuid.UUID) error {
	m.mu.Lock()
	c, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return domain.ErrSessionNotFound
	}
	c.Close()
	logrus.WithField("session", id).Info("swap session closed")
	return nil
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// ReapIdle closes sessions without user activity for longer than the idle timeout.
// Sessions with a swap in flight are kept.
func (m *Manager) ReapIdle(_ context.Context) error {
	if m.cfg.IdleTimeout <= 0 {
		return nil
	}
	deadline := m.cfg.Clock.Now().Add(-m.cfg.IdleTimeout)

	m.mu.Lock()
	var idle []*Controller
	for id, c := range m.sessions {
		if c.LastActivity().Before(deadline) && !c.Snapshot().Submitting {
			idle = append(idle, c)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, c := range idle {
		c.Close()
	}
	if len(idle) > 0 {
		logrus.Infof("%d idle swap sessions closed", len(idle))
	}
	return nil
}

// Shutdown closes every open session.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	all := make([]*Controller, 0, len(m.sessions))
	for id, c := range m.sessions {
		all = append(all, c)
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	for _, c := range all {
		c.Close()
	}
}
