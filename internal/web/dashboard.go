// Package web serves the role dashboards behind the same guard decision the
// client uses.
package web

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/mygroup/apphub/internal/api/dto"
	"github.com/mygroup/apphub/internal/auth"
	"github.com/mygroup/apphub/internal/client/guard"
	"github.com/mygroup/apphub/internal/client/session"
	"github.com/mygroup/apphub/internal/roles"
	apperrors "github.com/mygroup/apphub/pkg/util"
)

// Authenticator resolves a raw token into a principal.
type Authenticator interface {
	Authenticate(c *fiber.Ctx, raw string) (*auth.Principal, error)
}

// DashboardHandler guards and renders the dashboard routes.
type DashboardHandler struct {
	auth   Authenticator
	logger *zap.Logger
}

// NewDashboardHandler builds the handler.
func NewDashboardHandler(authn Authenticator, logger *zap.Logger) *DashboardHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardHandler{auth: authn, logger: logger}
}

type dashboardPage struct {
	path  string
	title string
	req   guard.Requirement
}

var dashboards = []dashboardPage{
	{roles.DefaultDashboard, "Dashboard", guard.Requirement{}},
	{roles.AdminDashboard, "Admin dashboard", guard.Requirement{AdminOnly: true}},
	{roles.CorporateDashboard, "Corporate dashboard", guard.Requirement{RequiredRole: roles.Corporate}},
	{roles.RegionalDashboard, "Regional dashboard", guard.Requirement{RequiredRole: roles.Regional}},
	{roles.BranchDashboard, "Branch dashboard", guard.Requirement{RequiredRole: roles.Branch}},
	{roles.HeadOfficeDashboard, "Head office dashboard", guard.Requirement{RequiredRole: roles.HeadOffice}},
}

// Register mounts every dashboard route on r.
func (h *DashboardHandler) Register(r fiber.Router) {
	for _, page := range dashboards {
		r.Get(page.path, h.Guard(page.req), h.show(page))
	}
}

// Guard maps the guard decision onto HTTP: redirecting is a 302 to the
// requirement's target, denied is a 403 with the panel payload.
func (h *DashboardHandler) Guard(req guard.Requirement) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := auth.RequestToken(c)

		var (
			st        session.State
			principal *auth.Principal
		)
		tokenStored := raw != ""
		if tokenStored {
			p, err := h.auth.Authenticate(c, raw)
			switch {
			case err == nil:
				principal = p
				st = session.State{User: sessionUser(p), Token: raw, IsAuthenticated: true}
			case isUnauthorized(err):
				// A token that failed verification is purged, as rehydration does.
				h.logger.Debug("dashboard token rejected", zap.String("path", c.Path()), zap.Error(err))
				c.ClearCookie(auth.TokenCookie)
				tokenStored = false
			default:
				return err
			}
		}

		switch guard.Decide(st, tokenStored, req) {
		case guard.Authorized:
			auth.WithPrincipal(c, principal)
			return c.Next()
		case guard.Redirecting:
			return c.Redirect(req.Target(), http.StatusFound)
		case guard.Denied:
			return c.Status(http.StatusForbidden).JSON(deniedResponse(principal, req))
		default:
			return apperrors.NewDomainError("SESSION_PENDING", "session verification pending", http.StatusServiceUnavailable, nil)
		}
	}
}

func (h *DashboardHandler) show(page dashboardPage) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := auth.PrincipalFromContext(c)
		if !ok || principal.User == nil {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.JSON(fiber.Map{
			"title":         page.title,
			"path":          page.path,
			"user":          dto.NewUserResponse(principal.User),
			"homeDashboard": principal.User.Role.DashboardPath(),
		})
	}
}

func sessionUser(p *auth.Principal) *session.User {
	u := p.User
	return &session.User{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
		IsAdmin:   u.IsAdmin,
	}
}

func deniedResponse(p *auth.Principal, req guard.Requirement) fiber.Map {
	body := fiber.Map{
		"error":    "access denied",
		"code":     "FORBIDDEN",
		"homePath": session.HomePath,
	}
	if req.AdminOnly {
		body["requires"] = "admin"
	} else if req.RequiredRole != "" {
		body["requires"] = string(req.RequiredRole)
	}
	if p != nil && p.User != nil {
		body["dashboard"] = p.User.Role.DashboardPath()
	}
	return body
}

func isUnauthorized(err error) bool {
	var de *apperrors.DomainError
	return errors.As(err, &de) && de.HTTPStatus == http.StatusUnauthorized
}
