package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/open-crosspost/crosspost-proxy/internal/api"
	"github.com/open-crosspost/crosspost-proxy/internal/api/httperrors"
	"github.com/open-crosspost/crosspost-proxy/internal/api/middleware"
	"github.com/open-crosspost/crosspost-proxy/internal/util"
)

func DeleteAuthorizeRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Auth.DELETE("/authorize", deleteAuthorizeHandler(s), middleware.WalletAuth(s))
}

func deleteAuthorizeHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		accountID, ok := util.AccountIDFromContext(ctx)
		if !ok {
			return httperrors.ErrUnauthorizedAuthenticationFailed
		}

		if err := s.Auth.Unauthorize(ctx, accountID); err != nil {
			util.LogFromContext(ctx).Error().Err(err).Msg("Failed to clear authorization")
			return httperrors.ErrServiceUnavailableStore
		}

		return c.NoContent(http.StatusNoContent)
	}
}
