package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Listener reacts to session events
type Listener interface {
	OnSessionEvent(ctx context.Context, evt Event)
}

// ListenerFunc adapts a function to Listener
type ListenerFunc func(ctx context.Context, evt Event)

func (f ListenerFunc) OnSessionEvent(ctx context.Context, evt Event) { f(ctx, evt) }

// Manager owns the one subscription to the session bus. It tracks the
// signed-in users it has seen and dispatches every event to its listeners.
// Tracked users older than the retention are forgotten.
type Manager struct {
	bus       Bus
	log       *zap.Logger
	retention time.Duration
	now       func() time.Time

	mu        sync.RWMutex
	listeners []Listener
	users     map[string]Session
	loading   bool

	sub    Subscription
	cancel context.CancelFunc
	done   chan struct{}
}

// Option configures a Manager
type Option func(*Manager)

// WithRetention forgets tracked users whose last event is older than d. A
// session older than the access token lifetime can no longer change any
// request, so that lifetime is the natural value.
func WithRetention(d time.Duration) Option {
	return func(m *Manager) { m.retention = d }
}

func NewManager(bus Bus, log *zap.Logger, opts ...Option) *Manager {
	m := &Manager{
		bus:     bus,
		log:     log,
		now:     time.Now,
		users:   make(map[string]Session),
		loading: true,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// AddListener registers l for every subsequent event
func (m *Manager) AddListener(l Listener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, l)
}

// Start subscribes to the bus and begins dispatching. It fails if called twice.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.sub != nil {
		m.mu.Unlock()
		return errors.New("session manager already started")
	}
	m.mu.Unlock()

	sub, err := m.bus.Subscribe(ctx)
	if err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	m.mu.Lock()
	m.sub = sub
	m.cancel = cancel
	m.done = make(chan struct{})
	m.loading = false
	m.mu.Unlock()

	go m.run(runCtx, sub, m.done)
	m.log.Info("session manager started")
	return nil
}

func (m *Manager) run(ctx context.Context, sub Subscription, done chan struct{}) {
	defer close(done)

	var sweep <-chan time.Time
	if m.retention > 0 {
		interval := time.Minute
		if m.retention < interval {
			interval = m.retention
		}
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		sweep = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-sweep:
			if n := m.Expire(m.retention); n > 0 {
				m.log.Debug("expired tracked sessions", zap.Int("count", n))
			}
		case evt, ok := <-sub.Events():
			if !ok {
				return
			}
			m.dispatch(ctx, evt)
		}
	}
}

func (m *Manager) dispatch(ctx context.Context, evt Event) {
	m.mu.Lock()
	switch evt.Type {
	case EventSignedIn, EventUserUpdated:
		m.users[evt.UserID] = Session{UserID: evt.UserID, Email: evt.Email, Role: evt.Role, IssuedAt: evt.At}
	case EventSignedOut:
		delete(m.users, evt.UserID)
	}
	listeners := make([]Listener, len(m.listeners))
	copy(listeners, m.listeners)
	m.mu.Unlock()

	m.log.Debug("session event",
		zap.String("type", string(evt.Type)),
		zap.String("user_id", evt.UserID),
	)
	for _, l := range listeners {
		l.OnSessionEvent(ctx, evt)
	}
}

// Publish sends evt to every manager subscribed to the bus, this one included
func (m *Manager) Publish(ctx context.Context, evt Event) error {
	if evt.At.IsZero() {
		evt.At = time.Now().UTC()
	}
	return m.bus.Publish(ctx, evt)
}

// CurrentUser returns the last known session of userID
func (m *Manager) CurrentUser(userID string) (Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.users[userID]
	return s, ok
}

// Expire forgets tracked users whose last event is older than maxAge and
// returns how many were dropped
func (m *Manager) Expire(maxAge time.Duration) int {
	cutoff := m.now().Add(-maxAge)
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, s := range m.users {
		if s.IssuedAt.Before(cutoff) {
			delete(m.users, id)
			n++
		}
	}
	return n
}

// Tracked returns how many users the manager currently tracks
func (m *Manager) Tracked() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.users)
}

// Loading reports whether the manager has not yet subscribed
func (m *Manager) Loading() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loading
}

// Close unsubscribes and waits for the dispatch loop to exit
func (m *Manager) Close() error {
	m.mu.Lock()
	sub, cancel, done := m.sub, m.cancel, m.done
	m.mu.Unlock()
	if sub == nil {
		return nil
	}

	cancel()
	err := sub.Close()
	<-done
	m.log.Info("session manager stopped")
	return err
}
