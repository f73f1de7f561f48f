package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/open-crosspost/crosspost-proxy/internal/api"
	"github.com/open-crosspost/crosspost-proxy/internal/api/handlers/accounts"
	"github.com/open-crosspost/crosspost-proxy/internal/api/handlers/auth"
	"github.com/open-crosspost/crosspost-proxy/internal/api/handlers/credentials"
	"github.com/open-crosspost/crosspost-proxy/internal/api/handlers/management"
	"github.com/open-crosspost/crosspost-proxy/internal/api/httperrors"
	"github.com/open-crosspost/crosspost-proxy/internal/api/middleware"
	"github.com/open-crosspost/crosspost-proxy/internal/util"
)

// Init attaches the echo instance, middlewares and all routes to the
// server. Components must already be initialized.
func Init(s *api.Server) {
	s.Echo = echo.New()
	s.Echo.Debug = false
	s.Echo.HideBanner = true
	s.Echo.HTTPErrorHandler = HTTPErrorHandlerWithConfig(s)

	if s.Config.Echo.EnableRecoverMiddleware {
		s.Echo.Use(echomiddleware.Recover())
	}
	s.Echo.Use(middleware.RequestLogger())

	s.Router = &api.Router{
		Root:       s.Echo.Group(""),
		Management: s.Echo.Group("/-"),
		APIV1Auth:  s.Echo.Group("/api/v1/auth"),
		APIV1Credentials: s.Echo.Group("/api/v1/credentials",
			middleware.WalletAuth(s)),
		APIV1Accounts: s.Echo.Group("/api/v1/accounts",
			middleware.WalletAuth(s)),
	}

	attachAllRoutes(s)
}

func attachAllRoutes(s *api.Server) {
	s.Router.Routes = []*echo.Route{
		management.GetHealthyRoute(s),
		management.GetReadyRoute(s),
		management.GetMetricsRoute(s),

		auth.PostVerifyRoute(s),
		auth.PostAuthorizeRoute(s),
		auth.DeleteAuthorizeRoute(s),
		auth.GetStatusRoute(s),

		credentials.PostCredentialRoute(s),
		credentials.GetCredentialRoute(s),
		credentials.DeleteCredentialRoute(s),

		accounts.GetConnectedRoute(s),
	}
}

// HTTPErrorHandlerWithConfig renders every error as the public HTTPError
// shape. Internal details are dropped unless explicitly configured
// otherwise.
func HTTPErrorHandlerWithConfig(s *api.Server) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		log := util.LogFromContext(c.Request().Context())

		var httpError *httperrors.HTTPError
		switch e := err.(type) {
		case *httperrors.HTTPError:
			httpError = e
		case *echo.HTTPError:
			httpError = httperrors.NewFromEcho(e)
		default:
			httpError = httperrors.NewHTTPError(http.StatusInternalServerError, httperrors.TypeGeneric, http.StatusText(http.StatusInternalServerError))
			httpError.Internal = err
		}

		if httpError.Internal != nil {
			log.Error().Err(httpError.Internal).Int("status", httpError.Code).Msg("Request failed")
			if s.Config.Echo.HideInternalServerErrorDetails {
				httpError.Internal = nil
			}
		}

		if writeErr := c.JSON(httpError.Code, httpError); writeErr != nil {
			log.Error().Err(writeErr).Msg("Failed to write error response")
		}
	}
}
