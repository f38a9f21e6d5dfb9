package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"online-voting/internal/domain"
	"online-voting/internal/middleware"
	"online-voting/internal/service/auth"
)

const oauthStateCookie = "oauth_state"

type AuthHandler struct {
	authService auth.Service
}

func NewAuthHandler(authService auth.Service) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input domain.CreateUserInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	result, err := h.authService.Register(c.UserContext(), input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input domain.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	result, err := h.authService.Login(c.UserContext(), input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	var input struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	tokens, err := h.authService.RefreshToken(c.UserContext(), input.RefreshToken)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(tokens)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var input struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	if err := h.authService.Logout(c.UserContext(), input.RefreshToken); err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Logged out",
	})
}

// LogoutAll revokes every refresh token of the signed-in user.
func (h *AuthHandler) LogoutAll(c *fiber.Ctx) error {
	revoked, err := h.authService.LogoutAll(c.UserContext(), middleware.GetCurrentUserID(c))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Logged out everywhere",
		"revoked": revoked,
	})
}

type sessionView struct {
	ID        uuid.UUID   `json:"id"`
	Role      domain.Role `json:"role"`
	UserAgent *string     `json:"user_agent,omitempty"`
	IPAddress *string     `json:"ip_address,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	ExpiresAt time.Time   `json:"expires_at"`
}

func (h *AuthHandler) Sessions(c *fiber.Ctx) error {
	sessions, err := h.authService.ActiveSessions(c.UserContext(), middleware.GetCurrentUserID(c))
	if err != nil {
		return err
	}

	views := make([]sessionView, len(sessions))
	for i, s := range sessions {
		views[i] = sessionView{
			ID:        s.ID,
			Role:      s.Role,
			UserAgent: s.UserAgent,
			IPAddress: s.IPAddress,
			CreatedAt: s.CreatedAt,
			ExpiresAt: s.ExpiresAt,
		}
	}
	return c.JSON(fiber.Map{"data": views})
}

// Me returns the signed-in user together with the role and the dashboard
// they belong on.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return middleware.Unauthorized("User not authenticated")
	}
	role := middleware.GetCurrentRole(c)

	return c.JSON(fiber.Map{
		"user":     user,
		"role":     role,
		"redirect": role.Redirect(),
	})
}

func (h *AuthHandler) GoogleURL(c *fiber.Ctx) error {
	state := uuid.NewString()
	url, err := h.authService.FederatedAuthURL(state)
	if err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		Expires:  time.Now().Add(10 * time.Minute),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return c.JSON(fiber.Map{"url": url})
}

func (h *AuthHandler) GoogleCallback(c *fiber.Ctx) error {
	state := c.Query("state")
	if state == "" || state != c.Cookies(oauthStateCookie) {
		return middleware.BadRequest("Invalid OAuth state")
	}
	c.ClearCookie(oauthStateCookie)

	code := c.Query("code")
	if code == "" {
		return middleware.BadRequest("Authorization code is required")
	}

	result, err := h.authService.FederatedLogin(c.UserContext(), code)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}
