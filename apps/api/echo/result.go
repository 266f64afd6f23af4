package echoapi

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/kjboard/board/core"
	"github.com/kjboard/board/core/result"
	"github.com/kjboard/board/core/student"
)

type resultWeb struct {
	conf       *core.Config
	logger     core.Logger
	svc        *result.Service
	studentSvc *student.Service
	validate   *validator.Validate
	translator ut.Translator
}

func registerResultWeb(app *echo.Echo, deps ServerDeps) {
	web := resultWeb{
		conf:       deps.Conf,
		logger:     deps.Logger,
		svc:        deps.ResultSvc,
		studentSvc: deps.StudentSvc,
		validate:   deps.Validate,
		translator: deps.Translator,
	}

	g := app.Group("/results")
	g.GET("", web.list)

	// admin only
	g.GET("/new", web.newForm, requireAdmin)
	g.POST("", web.create, requireAdmin)
}

func (web *resultWeb) list(ctx echo.Context) error {
	results, err := web.svc.Query(ctx.Request().Context())
	if err != nil {
		logFailure(web.logger, ctx, "listing results", err)
		results = nil
	}
	return render(ctx, web.conf, "results/index", "Results", echo.Map{
		"Results": results,
		"Failed":  err != nil,
	})
}

func (web *resultWeb) newForm(ctx echo.Context) error {
	students, err := web.studentSvc.Query(ctx.Request().Context())
	if err != nil {
		logFailure(web.logger, ctx, "listing students", err)
		students = nil
	}
	return render(ctx, web.conf, "results/new", "Add Result", echo.Map{
		"Students": students,
		"Failed":   err != nil,
	})
}

func (web *resultWeb) create(ctx echo.Context) error {
	var data result.NewResult
	if err := ctx.Bind(&data); err != nil {
		logFailure(web.logger, ctx, "binding to NewResult", err)
		return redirectWith(ctx, "/results/new", flagError)
	}
	if err := data.Validate(web.validate); err != nil {
		logFailure(web.logger, ctx, "invalid result", validationErr(err, web.translator))
		return redirectWith(ctx, "/results/new", flagError)
	}
	if _, err := web.svc.Create(ctx.Request().Context(), data); err != nil {
		logFailure(web.logger, ctx, "recording result", err)
		return redirectWith(ctx, "/results/new", flagError)
	}
	return redirectWith(ctx, "/results", flagSuccess)
}
