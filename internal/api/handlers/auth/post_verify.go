package auth

import (
	"net/http"

	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
	"github.com/open-crosspost/crosspost-proxy/internal/api"
	"github.com/open-crosspost/crosspost-proxy/internal/api/httperrors"
	"github.com/open-crosspost/crosspost-proxy/internal/api/middleware"
	"github.com/open-crosspost/crosspost-proxy/internal/nearauth"
	"github.com/open-crosspost/crosspost-proxy/internal/types"
	"github.com/open-crosspost/crosspost-proxy/internal/util"
	"github.com/pkg/errors"
)

func PostVerifyRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Auth.POST("/verify", postVerifyHandler(s))
}

// postVerifyHandler authenticates the bearer credential without requiring
// any prior state. A malformed credential is the caller's bug and yields a
// 400; a failed verification yields the uniform 401.
func postVerifyHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		req, err := middleware.SignatureRequestFromRequest(c, s)
		if err != nil {
			if errors.Is(err, nearauth.ErrMissingField) {
				return httperrors.ErrBadRequestMissingField
			}
			log.Debug().Err(err).Msg("Failed to parse bearer credential")
			return httperrors.ErrUnauthorizedAuthenticationFailed
		}

		result := s.Auth.Authenticate(ctx, req)
		if !result.Valid {
			return httperrors.ErrUnauthorizedAuthenticationFailed
		}

		response := &types.PostVerifyResponse{
			Valid:     swag.Bool(true),
			AccountID: result.AccountID,
		}

		return util.ValidateAndReturn(c, http.StatusOK, response)
	}
}
