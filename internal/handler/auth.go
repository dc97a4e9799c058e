package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/ciclored/ciclored-api/internal/middleware"
	"github.com/ciclored/ciclored-api/internal/repository"
	"github.com/ciclored/ciclored-api/internal/utils"
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	responder
	users     UserStore
	jwtSecret string
	accessTTL time.Duration
}

func NewAuthHandler(users UserStore, jwtSecret string, accessTTL time.Duration, log *zap.Logger, m *utils.Metrics) *AuthHandler {
	return &AuthHandler{responder: newResponder(log, m), users: users, jwtSecret: jwtSecret, accessTTL: accessTTL}
}

// Register creates an account.  No token is issued; clients log in next.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if ok, err := h.bindAndValidate(c, "register", &req); !ok { // response already written on failure
		return err
	}

	ctx, cancel := dbContext(c) // request context capped at dbTimeout
	defer cancel()

	u, err := h.users.Register(ctx, req.toModel())
	if err != nil {
		return h.fail(c, "register", err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "user registered",
		"user":    toUserResp(u),
	})
}

// Login verifies credentials and returns an access token.  Unknown emails
// and wrong passwords get the same 401 response.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if ok, err := h.bindAndValidate(c, "login", &req); !ok { // response already written on failure
		return err
	}

	ctx, cancel := dbContext(c) // request context capped at dbTimeout
	defer cancel()

	u, err := h.users.Verify(ctx, req.Email, req.Password) // equal cost for unknown and known emails
	if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrInvalidCredential) {
		if h.metrics != nil {
			h.metrics.ErrorCount.WithLabelValues("login", "auth").Inc()
		}
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"}) // same body for both causes
	}
	if err != nil {
		return h.fail(c, "login", err)
	}

	access, err := utils.NewAccessToken(h.jwtSecret, u.ID, u.Email, h.accessTTL)
	if err != nil {
		return h.fail(c, "login", err)
	}
	return c.JSON(http.StatusOK, loginResp{
		Token:     access.Token,
		ExpiresAt: access.Exp,
		User:      toUserResp(u),
	})
}

// Me returns the account behind the bearer token.  A token for a user
// that no longer exists answers 404.
func (h *AuthHandler) Me(c echo.Context) error {
	id, ok := middleware.IdentityFrom(c.Request().Context())
	if !ok {
		return h.fail(c, "me", errNoIdentity)
	}
	ctx, cancel := dbContext(c) // request context capped at dbTimeout
	defer cancel()

	u, err := h.users.GetByID(ctx, id.UserID)
	if err != nil {
		return h.fail(c, "me", err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"user_id": u.ID,
		"email":   u.Email,
		"name":    u.Name,
		"phone":   u.Phone,
	})
}
