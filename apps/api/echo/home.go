package echoapi

import (
	"github.com/labstack/echo/v4"

	"github.com/kjboard/board/core"
)

func registerHomeWeb(app *echo.Echo, conf *core.Config) {
	app.GET("/", func(ctx echo.Context) error {
		return render(ctx, conf, "home", "Home", nil)
	})
}
