package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/open-crosspost/crosspost-proxy/internal/api"
	"github.com/open-crosspost/crosspost-proxy/internal/api/httperrors"
	"github.com/open-crosspost/crosspost-proxy/internal/nearauth"
	"github.com/open-crosspost/crosspost-proxy/internal/util"
)

// SignatureRequestFromRequest extracts the SignatureRequest from the
// request's Authorization header and applies the contract defaults: the
// recipient falls back to the configured service identifier, the callback
// URL to the current request URL.
func SignatureRequestFromRequest(c echo.Context, s *api.Server) (nearauth.SignatureRequest, error) {
	req, err := nearauth.ParseBearer(c.Request().Header.Get(echo.HeaderAuthorization))
	if err != nil {
		return req, err
	}

	if req.Recipient == "" {
		req.Recipient = s.Config.Auth.Recipient
	}
	if req.CallbackURL == "" {
		req.CallbackURL = c.Request().URL.String()
	}

	return req, nil
}

// WalletAuth re-proves the caller's identity on every request: no session
// state survives between calls. On success the verified account id is put
// into the request context; on any failure the response is a uniform 401.
func WalletAuth(s *api.Server) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			log := util.LogFromContext(ctx)

			req, err := SignatureRequestFromRequest(c, s)
			if err != nil {
				log.Debug().Err(err).Msg("Failed to parse signature request from authorization header")
				return httperrors.ErrUnauthorizedAuthenticationFailed
			}

			result := s.Auth.Authenticate(ctx, req)
			if !result.Valid {
				return httperrors.ErrUnauthorizedAuthenticationFailed
			}

			ctx = util.WithAccountID(ctx, result.AccountID)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}
