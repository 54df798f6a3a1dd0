// Package session holds the client's single source of truth for who is
// logged in. The Manager owns the token lifecycle: it rehydrates a persisted
// token at start, performs login and logout, and exposes derived flags for
// route guards.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/mygroup/apphub/internal/client/tokenstore"
	"github.com/mygroup/apphub/internal/roles"
)

// Deps are the manager's collaborators. API and Store are required.
type Deps struct {
	API       API
	Store     tokenstore.Store
	Navigator Navigator
	Logger    *zap.Logger
}

// Manager is safe for concurrent use. Durable-storage writes happen under
// mu so that they are ordered with the generation checks.
type Manager struct {
	api    API
	store  tokenstore.Store
	nav    Navigator
	logger *zap.Logger

	mu          sync.Mutex
	user        *User
	token       string
	rehydrating bool
	loggingIn   int
	closed      bool
	// gen is bumped by every login, logout, close and rehydration start;
	// a rehydration result is applied only if gen is unchanged.
	gen             uint64
	cancelRehydrate context.CancelFunc

	listenerMu sync.Mutex
	listeners  map[int]func(State)
	nextID     int
}

// New reads the persisted token and returns a manager. No network call is
// made; with a token present the manager reports loading until Rehydrate
// (or Start) resolves.
func New(ctx context.Context, deps Deps) *Manager {
	m := &Manager{
		api:       deps.API,
		store:     deps.Store,
		nav:       deps.Navigator,
		logger:    deps.Logger,
		listeners: make(map[int]func(State)),
	}
	if m.nav == nil {
		m.nav = NavigatorFunc(func(string) {})
	}
	if m.logger == nil {
		m.logger = zap.NewNop()
	}

	token, err := m.store.Load(ctx)
	if err != nil {
		m.logger.Warn("read persisted token", zap.Error(err))
		token = ""
	}
	m.token = token
	m.rehydrating = token != ""
	return m
}

// Start rehydrates in the background when a token is present.
func (m *Manager) Start(ctx context.Context) {
	m.mu.Lock()
	pending := m.token != "" && !m.closed
	m.mu.Unlock()
	if pending {
		go m.Rehydrate(ctx)
	}
}

// Rehydrate verifies the persisted token with the whoami endpoint. Any
// failure downgrades silently to logged out and purges the token. It is a
// no-op without a token. Results superseded by Login, Logout or Close are
// discarded.
func (m *Manager) Rehydrate(ctx context.Context) {
	m.mu.Lock()
	if m.token == "" || m.closed {
		m.rehydrating = false
		m.mu.Unlock()
		m.notify()
		return
	}
	token := m.token
	m.gen++
	gen := m.gen
	ctx, cancel := context.WithCancel(ctx)
	prev := m.cancelRehydrate
	m.cancelRehydrate = cancel
	m.rehydrating = true
	m.mu.Unlock()

	defer cancel()
	if prev != nil {
		prev()
	}

	who, err := m.api.Me(ctx, token)

	m.mu.Lock()
	if m.gen != gen || m.closed {
		m.mu.Unlock()
		return
	}
	m.cancelRehydrate = nil
	m.rehydrating = false

	switch {
	case err != nil && ctx.Err() != nil:
		// Abandoned by the caller: no verdict on the token, keep it for a later attempt.
		m.user = nil
		m.logger.Debug("rehydration cancelled", zap.Error(err))
	case err != nil:
		m.user = nil
		m.token = ""
		if clearErr := m.store.Clear(context.WithoutCancel(ctx)); clearErr != nil {
			m.logger.Warn("purge persisted token", zap.Error(clearErr))
		}
		m.logger.Debug("rehydration failed; session dropped", zap.Error(err))
	default:
		user := who.User
		user.IsAdmin = user.IsAdmin || who.IsAdmin
		m.user = &user
	}
	m.mu.Unlock()
	m.notify()
}

// Login submits credentials. On success the token is persisted, the session
// set, any pending rehydration invalidated, and the client navigated to the
// user's dashboard. On failure nothing changes and a *LoginError is returned.
func (m *Manager) Login(ctx context.Context, creds Credentials) (*LoginResult, error) {
	m.mu.Lock()
	m.loggingIn++
	m.mu.Unlock()
	m.notify()

	resp, err := m.api.Login(ctx, creds)
	if err == nil && resp.Token == "" {
		err = ErrNoToken
	}
	if err != nil {
		m.finishLogin()
		m.logger.Debug("login rejected", zap.String("username", creds.Username), zap.Error(err))
		return nil, newLoginError(err)
	}

	m.mu.Lock()
	if err := m.store.Save(ctx, resp.Token); err != nil {
		m.loggingIn--
		m.mu.Unlock()
		m.notify()
		return nil, newLoginError(fmt.Errorf("persist token: %w", err))
	}
	m.loggingIn--
	m.gen++
	cancel := m.cancelRehydrate
	m.cancelRehydrate = nil
	m.rehydrating = false
	user := resp.User
	m.token = resp.Token
	m.user = &user
	redirect := roles.DashboardPath(string(user.Role))
	m.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	m.notify()
	m.nav.Navigate(redirect)
	return &LoginResult{User: user, Redirect: redirect}, nil
}

func (m *Manager) finishLogin() {
	m.mu.Lock()
	m.loggingIn--
	m.mu.Unlock()
	m.notify()
}

// Logout ends the session. The server call is best effort; local state is
// always cleared and the client is sent to the login screen.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	token := m.token
	m.gen++
	cancel := m.cancelRehydrate
	m.cancelRehydrate = nil
	m.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	if token != "" {
		if err := m.api.Logout(ctx, token); err != nil {
			m.logger.Warn("server logout failed", zap.Error(err))
		}
	}

	m.mu.Lock()
	if err := m.store.Clear(context.WithoutCancel(ctx)); err != nil {
		m.logger.Warn("purge persisted token", zap.Error(err))
	}
	m.user = nil
	m.token = ""
	m.rehydrating = false
	m.mu.Unlock()

	m.notify()
	m.nav.Navigate(LoginPath)
}

// State returns a snapshot of the session.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *Manager) snapshotLocked() State {
	st := State{
		Token:     m.token,
		IsLoading: (m.token != "" && m.rehydrating) || m.loggingIn > 0,
	}
	if m.user != nil {
		u := *m.user
		st.User = &u
	}
	st.IsAuthenticated = st.User != nil && st.Token != ""
	return st
}

// Token returns the in-memory token, "" when logged out.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// DashboardPath returns the landing route for the current user's role.
func (m *Manager) DashboardPath() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return roles.DefaultDashboard
	}
	return roles.DashboardPath(string(m.user.Role))
}

// Subscribe registers fn for state changes. The returned func unsubscribes.
func (m *Manager) Subscribe(fn func(State)) func() {
	m.listenerMu.Lock()
	defer m.listenerMu.Unlock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = fn
	return func() {
		m.listenerMu.Lock()
		defer m.listenerMu.Unlock()
		delete(m.listeners, id)
	}
}

func (m *Manager) notify() {
	st := m.State()
	m.listenerMu.Lock()
	fns := make([]func(State), 0, len(m.listeners))
	for _, fn := range m.listeners {
		fns = append(fns, fn)
	}
	m.listenerMu.Unlock()
	for _, fn := range fns {
		fn(st)
	}
}

// Close cancels in-flight rehydration and drops listeners. Late results are discarded.
func (m *Manager) Close() {
	m.mu.Lock()
	m.closed = true
	m.gen++
	cancel := m.cancelRehydrate
	m.cancelRehydrate = nil
	m.mu.Unlock()
	if cancel != nil {
		cancel()
	}

	m.listenerMu.Lock()
	m.listeners = make(map[int]func(State))
	m.listenerMu.Unlock()
}

// IsLoginError reports whether err came from a rejected login.
func IsLoginError(err error) bool {
	var le *LoginError
	return errors.As(err, &le)
}
