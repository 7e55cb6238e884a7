package middleware

import (
	"errors"
	"net/http"

	"github.com/agrivest/agrivest-backend/internal/model"
	"github.com/agrivest/agrivest-backend/internal/service"
	"github.com/labstack/echo/v4"
)

// AccountMiddleware resolves the verified identity to a platform account.
// RequireAccount must run after AuthMiddleware.RequireAuth.
type AccountMiddleware struct {
	users service.UserService
}

func NewAccountMiddleware(users service.UserService) *AccountMiddleware {
	return &AccountMiddleware{users: users}
}

func (m *AccountMiddleware) RequireAccount(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		uid, _ := c.Get("uid").(string)
		if uid == "" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		}
		u, err := m.users.GetByUID(c.Request().Context(), uid)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return c.JSON(http.StatusNotFound, map[string]string{"error": "account_not_registered"})
			}
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal_error"})
		}
		if u.Status == model.UserStatusBanned {
			return c.JSON(http.StatusForbidden, map[string]string{"error": "account_banned"})
		}
		c.Set("user", u)
		return next(c)
	}
}

// RequireAdmin must run after RequireAccount.
func (m *AccountMiddleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		u, _ := c.Get("user").(*model.User)
		if u == nil || u.Role != model.RoleAdmin {
			return c.JSON(http.StatusForbidden, map[string]string{"error": "admin_only"})
		}
		return next(c)
	}
}

// CurrentUser returns the account placed in the context by RequireAccount.
func CurrentUser(c echo.Context) *model.User {
	u, _ := c.Get("user").(*model.User)
	return u
}
