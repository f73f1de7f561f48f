package credentials

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/open-crosspost/crosspost-proxy/internal/api"
	"github.com/open-crosspost/crosspost-proxy/internal/api/httperrors"
	"github.com/open-crosspost/crosspost-proxy/internal/util"
)

func DeleteCredentialRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Credentials.DELETE("/:platform/:externalUserId", deleteCredentialHandler(s))
}

// deleteCredentialHandler revokes the stored credential and unlinks the
// external account. Revoking a credential that never existed still
// succeeds.
func deleteCredentialHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		accountID, ok := util.AccountIDFromContext(ctx)
		if !ok {
			return httperrors.ErrUnauthorizedAuthenticationFailed
		}

		platform := c.Param("platform")
		externalUserID := c.Param("externalUserId")

		if err := s.Auth.RevokeCredential(ctx, accountID, platform, externalUserID); err != nil {
			log.Error().Err(err).Str("platform", platform).Msg("Failed to revoke credential")
			return httperrors.ErrServiceUnavailableStore
		}

		return c.NoContent(http.StatusNoContent)
	}
}
