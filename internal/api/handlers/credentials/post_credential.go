package credentials

import (
	"net/http"

	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
	"github.com/open-crosspost/crosspost-proxy/internal/api"
	"github.com/open-crosspost/crosspost-proxy/internal/api/httperrors"
	"github.com/open-crosspost/crosspost-proxy/internal/types"
	"github.com/open-crosspost/crosspost-proxy/internal/util"
)

func PostCredentialRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Credentials.POST("/:platform", postCredentialHandler(s))
}

// postCredentialHandler encrypts and persists the posted secret blob for
// the authenticated account and links the external account in the index.
func postCredentialHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		accountID, ok := util.AccountIDFromContext(ctx)
		if !ok {
			return httperrors.ErrUnauthorizedAuthenticationFailed
		}

		platform := c.Param("platform")
		if platform == "" {
			return httperrors.ErrBadRequestMissingField
		}

		var body types.PostCredentialPayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		externalUserID := swag.StringValue(body.ExternalUserID)
		if err := s.Auth.StoreCredential(ctx, accountID, platform, externalUserID, body.Secret); err != nil {
			log.Error().Err(err).Str("platform", platform).Msg("Failed to store credential")
			return httperrors.ErrServiceUnavailableStore
		}

		response := &types.GetCredentialResponse{
			Platform:       swag.String(platform),
			ExternalUserID: body.ExternalUserID,
			Secret:         body.Secret,
		}

		return util.ValidateAndReturn(c, http.StatusCreated, response)
	}
}
