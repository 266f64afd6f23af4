package echoapi

import (
	"fmt"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/kjboard/board/core"
	"github.com/kjboard/board/core/result"
	"github.com/kjboard/board/core/student"
)

type studentWeb struct {
	conf       *core.Config
	logger     core.Logger
	svc        *student.Service
	resultSvc  *result.Service
	validate   *validator.Validate
	translator ut.Translator
}

func registerStudentWeb(app *echo.Echo, deps ServerDeps) {
	web := studentWeb{
		conf:       deps.Conf,
		logger:     deps.Logger,
		svc:        deps.StudentSvc,
		resultSvc:  deps.ResultSvc,
		validate:   deps.Validate,
		translator: deps.Translator,
	}

	g := app.Group("/students")
	g.GET("", web.list)
	g.GET("/:id/results", web.results)

	// admin only
	g.GET("/new", web.newForm, requireAdmin)
	g.POST("", web.create, requireAdmin)
	g.GET("/:id/edit", web.editForm, requireAdmin)
	g.POST("/:id/edit", web.update, requireAdmin)
	g.POST("/:id/delete", web.destroy, requireAdmin)
}

func (web *studentWeb) list(ctx echo.Context) error {
	students, err := web.svc.Query(ctx.Request().Context())
	if err != nil {
		logFailure(web.logger, ctx, "listing students", err)
		students = nil
	}
	return render(ctx, web.conf, "students/index", "Students", echo.Map{
		"Students": students,
		"Failed":   err != nil,
	})
}

func (web *studentWeb) newForm(ctx echo.Context) error {
	return render(ctx, web.conf, "students/new", "Add Student", nil)
}

func (web *studentWeb) create(ctx echo.Context) error {
	var data student.NewStudent
	if err := ctx.Bind(&data); err != nil {
		logFailure(web.logger, ctx, "binding to NewStudent", err)
		return redirectWith(ctx, "/students/new", flagError)
	}
	if err := data.Validate(web.validate); err != nil {
		logFailure(web.logger, ctx, "invalid student", validationErr(err, web.translator))
		return redirectWith(ctx, "/students/new", flagError)
	}
	if _, err := web.svc.Create(ctx.Request().Context(), data); err != nil {
		logFailure(web.logger, ctx, "creating student", err)
		return redirectWith(ctx, "/students/new", flagError)
	}
	return redirectWith(ctx, "/students", flagSuccess)
}

func (web *studentWeb) editForm(ctx echo.Context) error {
	id, err := paramID(ctx)
	if err != nil {
		return redirectWith(ctx, "/students", flagError)
	}
	s, err := web.svc.Get(ctx.Request().Context(), id)
	if err != nil {
		logFailure(web.logger, ctx, "finding student", err)
		return redirectWith(ctx, "/students", flagError)
	}
	return render(ctx, web.conf, "students/edit", "Edit Student", echo.Map{"Student": s})
}

func (web *studentWeb) update(ctx echo.Context) error {
	id, err := paramID(ctx)
	if err != nil {
		return redirectWith(ctx, "/students", flagError)
	}
	editPath := fmt.Sprintf("/students/%d/edit", id)

	var data student.UpdateStudent
	if err := ctx.Bind(&data); err != nil {
		logFailure(web.logger, ctx, "binding to UpdateStudent", err)
		return redirectWith(ctx, editPath, flagError)
	}
	if err := data.Validate(web.validate); err != nil {
		logFailure(web.logger, ctx, "invalid student", validationErr(err, web.translator))
		return redirectWith(ctx, editPath, flagError)
	}
	found, err := web.svc.Update(ctx.Request().Context(), id, data)
	if err != nil {
		logFailure(web.logger, ctx, "updating student", err)
		return redirectWith(ctx, editPath, flagError)
	}
	if !found {
		web.logger.Warn(fmt.Sprintf("updating student %d: no such student", id), contextAdmin(ctx))
	}
	return redirectWith(ctx, "/students", flagUpdated)
}

func (web *studentWeb) destroy(ctx echo.Context) error {
	id, err := paramID(ctx)
	if err != nil {
		return redirectWith(ctx, "/students", flagError)
	}
	if err := web.svc.Delete(ctx.Request().Context(), id); err != nil {
		logFailure(web.logger, ctx, "deleting student", err)
		return redirectWith(ctx, "/students", flagError)
	}
	return redirectWith(ctx, "/students", flagDeleted)
}

func (web *studentWeb) results(ctx echo.Context) error {
	id, err := paramID(ctx)
	if err != nil {
		return redirectWith(ctx, "/students", flagError)
	}
	reqCtx := ctx.Request().Context()

	s, err := web.svc.Get(reqCtx, id)
	if err != nil {
		logFailure(web.logger, ctx, "finding student", err)
		return redirectWith(ctx, "/students", flagError)
	}
	results, err := web.resultSvc.QueryByStudent(reqCtx, id)
	if err != nil {
		logFailure(web.logger, ctx, "listing student results", err)
		return redirectWith(ctx, "/students", flagError)
	}
	return render(ctx, web.conf, "students/results", s.Name+" - Results", echo.Map{
		"Student": s,
		"Results": results,
	})
}
