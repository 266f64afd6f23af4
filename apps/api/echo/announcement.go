package echoapi

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/kjboard/board/core"
	"github.com/kjboard/board/core/announcement"
)

type announcementWeb struct {
	conf       *core.Config
	logger     core.Logger
	svc        *announcement.Service
	validate   *validator.Validate
	translator ut.Translator
}

func registerAnnouncementWeb(app *echo.Echo, deps ServerDeps) {
	web := announcementWeb{
		conf:       deps.Conf,
		logger:     deps.Logger,
		svc:        deps.AnnouncementSvc,
		validate:   deps.Validate,
		translator: deps.Translator,
	}

	g := app.Group("/announcements")
	g.GET("", web.list)

	// admin only
	g.GET("/new", web.newForm, requireAdmin)
	g.POST("", web.create, requireAdmin)
}

func (web *announcementWeb) list(ctx echo.Context) error {
	announcements, err := web.svc.Query(ctx.Request().Context())
	if err != nil {
		logFailure(web.logger, ctx, "listing announcements", err)
		announcements = nil
	}
	return render(ctx, web.conf, "announcements/index", "Announcements", echo.Map{
		"Announcements": announcements,
		"Failed":        err != nil,
	})
}

func (web *announcementWeb) newForm(ctx echo.Context) error {
	return render(ctx, web.conf, "announcements/new", "Post Announcement", echo.Map{
		"Priorities": announcement.Priorities,
	})
}

func (web *announcementWeb) create(ctx echo.Context) error {
	var data announcement.NewAnnouncement
	if err := ctx.Bind(&data); err != nil {
		logFailure(web.logger, ctx, "binding to NewAnnouncement", err)
		return redirectWith(ctx, "/announcements/new", flagError)
	}
	if err := data.Validate(web.validate); err != nil {
		logFailure(web.logger, ctx, "invalid announcement", validationErr(err, web.translator))
		return redirectWith(ctx, "/announcements/new", flagError)
	}
	if _, err := web.svc.Create(ctx.Request().Context(), data); err != nil {
		logFailure(web.logger, ctx, "posting announcement", err)
		return redirectWith(ctx, "/announcements/new", flagError)
	}
	return redirectWith(ctx, "/announcements", flagSuccess)
}
