package auth

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mygroup/apphub/internal/domain"
	"github.com/mygroup/apphub/internal/repository"
	"github.com/mygroup/apphub/internal/roles"
	apperrors "github.com/mygroup/apphub/pkg/util"
)

func newProtectedApp(t *testing.T, handlers ...fiber.Handler) (*fiber.App, *TokenManager, *repository.MemoryUserRepository, *MemoryRevocationStore) {
	t.Helper()
	tm := NewTokenManager("secret", 30)
	users := repository.NewMemoryUserRepository()
	revoked := NewMemoryRevocationStore()
	mw := NewAuthMiddleware(tm, users, revoked)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).JSON(fiber.Map{"error": de.Message, "code": de.Code})
		},
	})
	chain := append([]fiber.Handler{mw.Handle}, handlers...)
	chain = append(chain, func(c *fiber.Ctx) error {
		p, ok := PrincipalFromContext(c)
		if !ok {
			return fiber.ErrInternalServerError
		}
		return c.SendString(p.User.Username)
	})
	app.Get("/protected", chain...)
	return app, tm, users, revoked
}

func issue(t *testing.T, tm *TokenManager, users *repository.MemoryUserRepository, name string, role roles.Role, isAdmin bool) string {
	t.Helper()
	u := &domain.User{Username: name, Role: role, IsAdmin: isAdmin}
	require.NoError(t, users.Create(context.Background(), u))
	tok, err := tm.GenerateToken(u)
	require.NoError(t, err)
	return tok.Value
}

func call(t *testing.T, app *fiber.App, header string) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestAuthMiddleware(t *testing.T) {
	app, tm, users, revoked := newProtectedApp(t, RequireAnyRole())
	token := issue(t, tm, users, "rita", roles.Regional, false)

	assert.Equal(t, http.StatusOK, call(t, app, "Bearer "+token))
	assert.Equal(t, http.StatusOK, call(t, app, "bearer "+token))
	assert.Equal(t, http.StatusUnauthorized, call(t, app, ""))
	assert.Equal(t, http.StatusUnauthorized, call(t, app, "Basic abc"))
	assert.Equal(t, http.StatusUnauthorized, call(t, app, "Bearer "))
	assert.Equal(t, http.StatusUnauthorized, call(t, app, "Bearer garbage"))

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	require.NoError(t, revoked.Revoke(context.Background(), claims.ID, time.Now().Add(time.Hour)))
	assert.Equal(t, http.StatusUnauthorized, call(t, app, "Bearer "+token))
}

func TestAuthMiddlewareUnknownUser(t *testing.T) {
	app, tm, _, _ := newProtectedApp(t)
	tok, err := tm.GenerateToken(&domain.User{ID: "ghost", Username: "ghost"})
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, call(t, app, "Bearer "+tok.Value))
}

func TestRequireAdmin(t *testing.T) {
	app, tm, users, _ := newProtectedApp(t, RequireAdmin())

	assert.Equal(t, http.StatusForbidden, call(t, app, "Bearer "+issue(t, tm, users, "bo", roles.Branch, false)))
	assert.Equal(t, http.StatusOK, call(t, app, "Bearer "+issue(t, tm, users, "admin", roles.Admin, false)))
	assert.Equal(t, http.StatusOK, call(t, app, "Bearer "+issue(t, tm, users, "ops", roles.Corporate, true)))
}

func TestRequestTokenFallsBackToCookie(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString(RequestToken(c)) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookie, Value: "from-cookie"})
	resp, err := app.Test(req)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "from-cookie", string(body))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer from-header")
	req.AddCookie(&http.Cookie{Name: TokenCookie, Value: "from-cookie"})
	resp, err = app.Test(req)
	require.NoError(t, err)
	body, err = io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "from-header", string(body))
}
