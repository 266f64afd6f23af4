package echoapi

import (
	"net/http"
	"sort"
	"strconv"

	ut "github.com/go-playground/universal-translator"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/kjboard/board/core"
	"github.com/kjboard/board/core/admin"
)

// Outcome flags
const (
	flagSuccess = "success"
	flagUpdated = "updated"
	flagDeleted = "deleted"
	flagError   = "error"
)

// redirectWith sends a 302 to path with `flag=1` in the query string.
func redirectWith(ctx echo.Context, path, flag string) error {
	return ctx.Redirect(http.StatusFound, path+"?"+flag+"=1")
}

func readFlags(ctx echo.Context) flags {
	on := func(name string) bool { return ctx.QueryParam(name) == "1" }
	return flags{
		Success: on(flagSuccess),
		Updated: on(flagUpdated),
		Deleted: on(flagDeleted),
		Error:   on(flagError),
	}
}

// render renders the named view with the layout data filled from the request.
func render(ctx echo.Context, conf *core.Config, name, title string, data echo.Map) error {
	vd := viewData{
		AppName: conf.AppName,
		Title:   title,
		IsAdmin: isAdmin(ctx),
		Flags:   readFlags(ctx),
		Data:    data,
	}
	if claims, ok := getContextClaims(ctx); ok {
		vd.Username = claims.Username
	}
	return ctx.Render(http.StatusOK, name, vd)
}

func paramID(ctx echo.Context) (int64, error) {
	return strconv.ParseInt(ctx.Param("id"), 10, 64)
}

// contextAdmin is the session admin, for log records.
func contextAdmin(ctx echo.Context) admin.Admin {
	claims, _ := getContextClaims(ctx)
	return claims.Admin()
}

// logFailure logs err with the request and, when known, the session admin.
// Expected outcomes (bad input, conflicts, unknown ids) are warnings; anything else is an error.
func logFailure(logger core.Logger, ctx echo.Context, msg string, err error) {
	req := ctx.Request()
	err = errors.Wrap(err, req.Method+" "+req.URL.Path)
	if core.IsStoreFailure(err) {
		logger.Error(msg, err, contextAdmin(ctx))
		return
	}
	logger.Warn(msg, err, contextAdmin(ctx))
}

// validationErr flattens validation failures into one loggable error.
func validationErr(err error, translator ut.Translator) error {
	msgs := core.ValidationMessages(err, translator)
	if len(msgs) == 0 {
		return err
	}
	return core.NewValidationError(nil, fieldErrors(msgs)...)
}

func fieldErrors(msgs map[string]string) []core.FieldError {
	fields := make([]string, 0, len(msgs))
	for f := range msgs {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	errs := make([]core.FieldError, 0, len(fields))
	for _, f := range fields {
		errs = append(errs, core.FieldError{Field: f, Error: msgs[f]})
	}
	return errs
}
