package accounts

import (
	"net/http"

	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
	"github.com/open-crosspost/crosspost-proxy/internal/api"
	"github.com/open-crosspost/crosspost-proxy/internal/api/httperrors"
	"github.com/open-crosspost/crosspost-proxy/internal/types"
	"github.com/open-crosspost/crosspost-proxy/internal/util"
)

func GetConnectedRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Accounts.GET("/connected", getConnectedHandler(s))
}

func getConnectedHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		accountID, ok := util.AccountIDFromContext(ctx)
		if !ok {
			return httperrors.ErrUnauthorizedAuthenticationFailed
		}

		entries, err := s.Auth.ListConnectedAccounts(ctx, accountID)
		if err != nil {
			util.LogFromContext(ctx).Error().Err(err).Msg("Failed to list connected accounts")
			return httperrors.ErrServiceUnavailableStore
		}

		connected := make([]types.ConnectedAccount, 0, len(entries))
		for _, entry := range entries {
			connected = append(connected, types.ConnectedAccount{
				Platform:       swag.String(entry.Platform),
				ExternalUserID: swag.String(entry.ExternalUserID),
			})
		}

		response := &types.GetConnectedAccountsResponse{
			AccountID: accountID,
			Accounts:  connected,
		}

		return util.ValidateAndReturn(c, http.StatusOK, response)
	}
}
