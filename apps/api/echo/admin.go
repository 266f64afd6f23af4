package echoapi

import (
	"bytes"
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/kjboard/board/core"
	"github.com/kjboard/board/core/admin"
	"github.com/kjboard/board/core/report"
	"github.com/kjboard/board/core/result"
	"github.com/kjboard/board/core/student"
)

const recentActivityLimit = 5

type LoginRequest struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

type adminWeb struct {
	conf       *core.Config
	logger     core.Logger
	svc        *admin.Service
	studentSvc *student.Service
	resultSvc  *result.Service
	reporter   *report.Reporter
	sessions   sessionManager
	validate   *validator.Validate
	translator ut.Translator
}

func registerAdminWeb(app *echo.Echo, deps ServerDeps, sessions sessionManager) {
	web := adminWeb{
		conf:       deps.Conf,
		logger:     deps.Logger,
		svc:        deps.AdminSvc,
		studentSvc: deps.StudentSvc,
		resultSvc:  deps.ResultSvc,
		reporter:   deps.Reporter,
		sessions:   sessions,
		validate:   deps.Validate,
		translator: deps.Translator,
	}

	g := app.Group("/admin")
	g.GET("/login", web.loginForm)
	g.POST("/login", web.login)
	g.GET("/logout", web.logout)

	// admin only
	ag := g.Group("", requireAdmin)
	ag.GET("/dashboard", web.dashboard)
	ag.GET("/settings", web.settings)
	ag.POST("/change-password", web.changePassword)
	ag.GET("/export-students", web.exportStudents)
	ag.GET("/export-results", web.exportResults)
	ag.GET("/clear-data", web.clearData)
}

func (web *adminWeb) loginForm(ctx echo.Context) error {
	if isAdmin(ctx) {
		return ctx.Redirect(http.StatusFound, "/admin/dashboard")
	}
	return render(ctx, web.conf, "admin/login", "Admin Login", nil)
}

func (web *adminWeb) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		logFailure(web.logger, ctx, "binding to LoginRequest", err)
		return redirectWith(ctx, loginPath, flagError)
	}
	if err := web.validate.Struct(data); err != nil {
		return redirectWith(ctx, loginPath, flagError)
	}

	adm, err := web.svc.Authenticate(ctx.Request().Context(), data.Username, data.Password)
	if err != nil {
		if errors.Cause(err) != core.ErrUnauthorized {
			logFailure(web.logger, ctx, "authenticating", err)
		}
		return redirectWith(ctx, loginPath, flagError)
	}
	if err := web.sessions.issue(ctx, adm); err != nil {
		logFailure(web.logger, ctx, "issuing session", err)
		return redirectWith(ctx, loginPath, flagError)
	}
	return ctx.Redirect(http.StatusFound, "/admin/dashboard")
}

func (web *adminWeb) logout(ctx echo.Context) error {
	web.sessions.clear(ctx)
	return ctx.Redirect(http.StatusFound, loginPath)
}

func (web *adminWeb) dashboard(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	// a failing aggregate degrades to zero figures
	stats, err := web.reporter.Dashboard(reqCtx)
	if err != nil {
		logFailure(web.logger, ctx, "computing dashboard stats", err)
		stats = report.Stats{}
	}
	activity, err := web.reporter.RecentActivity(reqCtx, recentActivityLimit)
	if err != nil {
		logFailure(web.logger, ctx, "loading recent activity", err)
		activity = nil
	}
	return render(ctx, web.conf, "admin/dashboard", "Admin Dashboard", echo.Map{
		"Stats":    stats,
		"Activity": activity,
	})
}

func (web *adminWeb) settings(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	claims, _ := getContextClaims(ctx)

	// the session may outlive its admin
	adm, err := web.svc.GetByID(reqCtx, claims.AdminID())
	if err != nil {
		logFailure(web.logger, ctx, "finding session admin", err)
		if errors.Cause(err) == core.ErrNotFound {
			web.sessions.clear(ctx)
			return ctx.Redirect(http.StatusFound, loginPath)
		}
		adm = claims.Admin()
	}

	stats, err := web.reporter.Summary(reqCtx)
	if err != nil {
		logFailure(web.logger, ctx, "computing settings stats", err)
		stats = report.Stats{}
	}
	return render(ctx, web.conf, "admin/settings", "Admin Settings", echo.Map{
		"Admin": adm,
		"Stats": stats,
	})
}

func (web *adminWeb) changePassword(ctx echo.Context) error {
	claims, _ := getContextClaims(ctx)

	var data admin.ChangePassword
	if err := ctx.Bind(&data); err != nil {
		logFailure(web.logger, ctx, "binding to ChangePassword", err)
		return redirectWith(ctx, "/admin/settings", flagError)
	}
	if err := data.Validate(web.validate, claims.Username); err != nil {
		logFailure(web.logger, ctx, "invalid password change", validationErr(err, web.translator))
		return redirectWith(ctx, "/admin/settings", flagError)
	}
	if err := web.svc.ChangePassword(ctx.Request().Context(), claims.AdminID(), data); err != nil {
		logFailure(web.logger, ctx, "changing password", err)
		return redirectWith(ctx, "/admin/settings", flagError)
	}
	return redirectWith(ctx, "/admin/settings", flagSuccess)
}

func (web *adminWeb) exportStudents(ctx echo.Context) error {
	students, err := web.studentSvc.Query(ctx.Request().Context())
	if err != nil {
		logFailure(web.logger, ctx, "exporting students", err)
		return redirectWith(ctx, "/admin/settings", flagError)
	}
	var buf bytes.Buffer
	if err := report.WriteStudentsCSV(&buf, students); err != nil {
		logFailure(web.logger, ctx, "exporting students", err)
		return redirectWith(ctx, "/admin/settings", flagError)
	}
	return sendCSV(ctx, "students.csv", buf.Bytes())
}

func (web *adminWeb) exportResults(ctx echo.Context) error {
	results, err := web.resultSvc.Query(ctx.Request().Context())
	if err != nil {
		logFailure(web.logger, ctx, "exporting results", err)
		return redirectWith(ctx, "/admin/settings", flagError)
	}
	var buf bytes.Buffer
	if err := report.WriteResultsCSV(&buf, results); err != nil {
		logFailure(web.logger, ctx, "exporting results", err)
		return redirectWith(ctx, "/admin/settings", flagError)
	}
	return sendCSV(ctx, "results.csv", buf.Bytes())
}

func (web *adminWeb) clearData(ctx echo.Context) error {
	if err := web.svc.ClearData(ctx.Request().Context()); err != nil {
		logFailure(web.logger, ctx, "clearing data", err)
		return redirectWith(ctx, "/admin/settings", flagError)
	}
	web.logger.Warn("all records cleared", contextAdmin(ctx))
	return redirectWith(ctx, "/admin/settings", flagSuccess)
}

func sendCSV(ctx echo.Context, filename string, data []byte) error {
	ctx.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+filename)
	return ctx.Blob(http.StatusOK, "text/csv", data)
}
