package middleware

import (
	"net/http"
	"strings"

	"github.com/Eursukkul/registration-service/internal/policy"
	"github.com/labstack/echo/v4"
)

// Headers set by the gateway after it has authenticated the caller.
const (
	HeaderUserID    = "X-User-Id"
	HeaderUserRoles = "X-User-Roles"
)

const requesterKey = "requester"

// Identity copies the trusted identity headers into the request. Requests
// without a user id are rejected; a missing roles header means no roles.
func Identity() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID := strings.TrimSpace(c.Request().Header.Get(HeaderUserID))
			if userID == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing "+HeaderUserID+" header")
			}

			requester := policy.Requester{
				ID:    userID,
				Roles: policy.ParseRoles(c.Request().Header.Get(HeaderUserRoles)),
			}
			c.Set(requesterKey, requester)
			return next(c)
		}
	}
}

// RequesterFrom returns the identity stored by Identity.
func RequesterFrom(c echo.Context) (policy.Requester, bool) {
	requester, ok := c.Get(requesterKey).(policy.Requester)
	return requester, ok
}

