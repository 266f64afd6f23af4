package echoapi

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/kjboard/board/core"
	"github.com/kjboard/board/core/admin"
)

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler rendering a plain text error page.
// Details are only shown in debug mode.
func newAppHTTPErrorHandler(logger core.Logger) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		code := http.StatusInternalServerError
		message := http.StatusText(code)

		if herr, ok := errors.Cause(err).(*echo.HTTPError); ok {
			code = herr.Code
			message = fmt.Sprintf("%v", herr.Message)
		} else {
			var adm admin.Admin
			if claims, ok := getContextClaims(ctx); ok {
				adm = claims.Admin()
			}
			logger.Error(message, errors.Wrap(err, ctx.Request().Method+" "+ctx.Request().URL.Path), adm)
		}

		if ctx.Echo().Debug {
			message = err.Error()
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.String(code, message)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}
