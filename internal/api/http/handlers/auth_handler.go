package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/mygroup/apphub/internal/api/dto"
	"github.com/mygroup/apphub/internal/auth"
	"github.com/mygroup/apphub/internal/domain"
	"github.com/mygroup/apphub/internal/service"
)

// AuthHandler exposes the session endpoints consumed by clients.
type AuthHandler struct {
	auth   *service.AuthService
	tokens *auth.TokenManager
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService, tokens: authService.TokenManager()}
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "username and password required")
	}

	user, token, err := h.auth.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}

	setTokenCookie(c, token)
	return c.JSON(dto.AuthResponse{
		Token:     token.Value,
		ExpiresAt: token.ExpiresAt,
		User:      dto.NewUserResponse(user),
	})
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if strings.TrimSpace(req.Username) == "" || req.Email == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "username, email, password required")
	}

	user, token, err := h.auth.Register(c.UserContext(), service.RegisterInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		return err
	}

	setTokenCookie(c, token)
	return c.Status(http.StatusCreated).JSON(dto.AuthResponse{
		Token:     token.Value,
		ExpiresAt: token.ExpiresAt,
		User:      dto.NewUserResponse(user),
	})
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}
	return c.JSON(dto.MeResponse{
		User:    dto.NewUserResponse(principal.User),
		IsAdmin: principal.User.HasAdminAccess(),
	})
}

// Logout handles POST /api/auth/logout. It always succeeds; a valid token is
// revoked and a failed revocation is logged by the service.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if raw := auth.RequestToken(c); raw != "" {
		if claims, err := h.tokens.ParseToken(raw); err == nil {
			_ = h.auth.Logout(c.UserContext(), claims)
		}
	}
	c.ClearCookie(auth.TokenCookie)
	return c.JSON(fiber.Map{"success": true})
}

func setTokenCookie(c *fiber.Ctx, token *domain.Token) {
	c.Cookie(&fiber.Cookie{
		Name:     auth.TokenCookie,
		Value:    token.Value,
		Path:     "/",
		Expires:  token.ExpiresAt,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
