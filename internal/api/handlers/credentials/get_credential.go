package credentials

import (
	"net/http"

	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
	"github.com/open-crosspost/crosspost-proxy/internal/api"
	"github.com/open-crosspost/crosspost-proxy/internal/api/httperrors"
	"github.com/open-crosspost/crosspost-proxy/internal/auth"
	"github.com/open-crosspost/crosspost-proxy/internal/types"
	"github.com/open-crosspost/crosspost-proxy/internal/util"
	"github.com/pkg/errors"
)

func GetCredentialRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Credentials.GET("/:platform/:externalUserId", getCredentialHandler(s))
}

func getCredentialHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		accountID, ok := util.AccountIDFromContext(ctx)
		if !ok {
			return httperrors.ErrUnauthorizedAuthenticationFailed
		}

		platform := c.Param("platform")
		externalUserID := c.Param("externalUserId")

		secret, err := s.Auth.GetCredential(ctx, accountID, platform, externalUserID)
		if err != nil {
			if errors.Is(err, auth.ErrNotFound) {
				return httperrors.ErrNotFoundCredential
			}
			log.Error().Err(err).Str("platform", platform).Msg("Failed to fetch credential")
			return httperrors.ErrServiceUnavailableStore
		}

		response := &types.GetCredentialResponse{
			Platform:       swag.String(platform),
			ExternalUserID: swag.String(externalUserID),
			Secret:         secret,
		}

		return util.ValidateAndReturn(c, http.StatusOK, response)
	}
}
