// Package guard gates protected views on the session state. A guard is in
// one of four states: checking, redirecting, denied or authorized.
package guard

import (
	"context"

	"go.uber.org/zap"

	"github.com/mygroup/apphub/internal/client/render"
	"github.com/mygroup/apphub/internal/client/session"
	"github.com/mygroup/apphub/internal/roles"
)

// Status is the outcome of a guard evaluation.
type Status int

const (
	Checking Status = iota
	Redirecting
	Denied
	Authorized
)

func (s Status) String() string {
	switch s {
	case Checking:
		return "checking"
	case Redirecting:
		return "redirecting"
	case Denied:
		return "denied"
	case Authorized:
		return "authorized"
	default:
		return "unknown"
	}
}

// Requirement describes what a route demands. The zero value only requires
// an authenticated session.
type Requirement struct {
	RequiredRole   roles.Role
	AdminOnly      bool
	RedirectTarget string
}

// Target returns where an unauthenticated visitor is sent.
func (r Requirement) Target() string {
	if r.RedirectTarget == "" {
		return session.LoginPath
	}
	return r.RedirectTarget
}

// Decide is the guard's state machine. tokenStored reports whether durable
// storage still holds a token; it only matters once loading has finished
// without an authenticated session, and keeps an unverified token from
// ever causing a redirect.
func Decide(st session.State, tokenStored bool, req Requirement) Status {
	if st.IsLoading {
		return Checking
	}
	if !st.IsAuthenticated {
		if tokenStored {
			return Checking
		}
		return Redirecting
	}
	if req.AdminOnly && !st.User.HasAdminAccess() {
		return Denied
	}
	if req.RequiredRole != "" && !roles.Matches(string(st.User.Role), string(req.RequiredRole)) {
		return Denied
	}
	return Authorized
}

// StateSource is satisfied by *session.Manager.
type StateSource interface {
	State() session.State
}

// TokenReader is satisfied by any tokenstore.Store.
type TokenReader interface {
	Load(ctx context.Context) (string, error)
}

// Deps are shared by every guard in a process.
type Deps struct {
	Session   StateSource
	Tokens    TokenReader
	Navigator session.Navigator
	Logger    *zap.Logger
}

// Guard wraps one protected route.
type Guard struct {
	deps Deps
	req  Requirement
}

// New returns a guard enforcing req.
func New(deps Deps, req Requirement) *Guard {
	if deps.Navigator == nil {
		deps.Navigator = session.NavigatorFunc(func(string) {})
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &Guard{deps: deps, req: req}
}

// AdminOnly returns a guard that admits admins only.
func AdminOnly(deps Deps) *Guard {
	return New(deps, Requirement{AdminOnly: true})
}

// RequireRole returns a guard that admits users holding role.
func RequireRole(deps Deps, role string) *Guard {
	return New(deps, Requirement{RequiredRole: roles.Parse(role)})
}

// Requirement returns the guard's requirement.
func (g *Guard) Requirement() Requirement {
	return g.req
}

// Evaluate computes the current status without side effects.
func (g *Guard) Evaluate(ctx context.Context) Status {
	st := g.deps.Session.State()
	return Decide(st, g.tokenStored(ctx, st), g.req)
}

func (g *Guard) tokenStored(ctx context.Context, st session.State) bool {
	if st.IsLoading || st.IsAuthenticated {
		return st.Token != ""
	}
	if g.deps.Tokens == nil {
		return st.Token != ""
	}
	token, err := g.deps.Tokens.Load(ctx)
	if err != nil {
		// Unreadable storage is not proof of a logout.
		g.deps.Logger.Warn("read token for guard", zap.Error(err))
		return true
	}
	return token != ""
}

// Render returns the view for the current status. Navigation for the
// redirecting state is queued on frame and happens when the frame commits.
func (g *Guard) Render(ctx context.Context, frame *render.Frame, children render.View) (render.View, Status) {
	st := g.deps.Session.State()
	status := Decide(st, g.tokenStored(ctx, st), g.req)

	switch status {
	case Checking:
		return LoadingView(), status
	case Redirecting:
		target := g.req.Target()
		frame.After(func() { g.deps.Navigator.Navigate(target) })
		return render.Empty, status
	case Denied:
		return DeniedView(st.User, g.req), status
	default:
		return children, status
	}
}

// GoHome is the denied panel's action.
func (g *Guard) GoHome() {
	g.deps.Navigator.Navigate(session.HomePath)
}
