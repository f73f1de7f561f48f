package auth

import (
	"net/http"

	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
	"github.com/open-crosspost/crosspost-proxy/internal/api"
	"github.com/open-crosspost/crosspost-proxy/internal/api/httperrors"
	"github.com/open-crosspost/crosspost-proxy/internal/api/middleware"
	"github.com/open-crosspost/crosspost-proxy/internal/types"
	"github.com/open-crosspost/crosspost-proxy/internal/util"
)

func GetStatusRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Auth.GET("/status", getStatusHandler(s), middleware.WalletAuth(s))
}

func getStatusHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		accountID, ok := util.AccountIDFromContext(ctx)
		if !ok {
			return httperrors.ErrUnauthorizedAuthenticationFailed
		}

		record, err := s.Auth.AuthorizationStatus(ctx, accountID)
		if err != nil {
			util.LogFromContext(ctx).Error().Err(err).Msg("Failed to read authorization")
			return httperrors.ErrServiceUnavailableStore
		}

		response := &types.AuthorizationStatusResponse{
			AccountID:  accountID,
			Authorized: swag.Bool(record.Authorized),
		}
		if record.Authorized {
			response.Timestamp = record.Timestamp.String()
		}

		return util.ValidateAndReturn(c, http.StatusOK, response)
	}
}
