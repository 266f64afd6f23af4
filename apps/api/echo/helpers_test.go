package echoapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kjboard/board/core"
	"github.com/kjboard/board/core/admin"
	"github.com/kjboard/board/core/announcement"
	"github.com/kjboard/board/core/report"
	"github.com/kjboard/board/core/result"
	"github.com/kjboard/board/core/student"
	"github.com/kjboard/board/services/email"
	"github.com/kjboard/board/storage/database/sqlx"
	"github.com/kjboard/board/tests"
)

type testApp struct {
	Server
	db   *sqlx.DB
	conf *core.Config
	mail *emailsvc.ConsoleServiceMock
}

func setup(t *testing.T) testApp {
	conf := testutil.Config(t)
	conf.Mail.AnnouncementRecipients = []string{"staff@kj.test"}
	logger := testutil.Logger()
	core.ParseEmailTemplates(logger)

	db := testutil.PrepareDB(t, conf)
	mailSvc := emailsvc.NewConsoleServiceMock(conf, logger)

	studentRepo := sqlxrepos.NewStudentRepository(db)
	resultRepo := sqlxrepos.NewResultRepository(db)
	adminRepo := sqlxrepos.NewAdminRepository(db)
	validate, translator := core.NewValidator()

	srv, err := NewServer(ServerDeps{
		Conf:            conf,
		Logger:          logger,
		StudentSvc:      student.NewService(db, studentRepo, resultRepo),
		ResultSvc:       result.NewService(db, resultRepo, studentRepo),
		AnnouncementSvc: announcement.NewService(sqlxrepos.NewAnnouncementRepository(db), mailSvc, conf, logger),
		AdminSvc:        admin.NewService(db, adminRepo, adminRepo),
		Reporter:        report.NewReporter(sqlxrepos.NewReportRepository(db)),
		Validate:        validate,
		Translator:      translator,
	})
	require.NoError(t, err)
	return testApp{Server: srv, db: db, conf: conf, mail: mailSvc}
}

type httpTest struct {
	name         string
	method       string
	path         string
	form         url.Values
	session      *http.Cookie
	wantCode     int
	wantLocation string
	wantBody     []string
}

func newRequest(method, path string, form url.Values, session *http.Cookie) (*http.Request, *httptest.ResponseRecorder) {
	if method == "" {
		method = http.MethodGet
	}
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if session != nil {
		req.AddCookie(session)
	}
	return req, httptest.NewRecorder()
}

func (app testApp) do(t *testing.T, tt httpTest) *httptest.ResponseRecorder {
	req, rec := newRequest(tt.method, tt.path, tt.form, tt.session)
	app.ServeHTTP(rec, req)
	checkResponse(t, tt, rec)
	return rec
}

func checkResponse(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	wantCode := tt.wantCode
	if wantCode == 0 {
		wantCode = http.StatusOK
	}
	assert.Equal(t, wantCode, rec.Code, "status of %s %s", tt.method, tt.path)
	if tt.wantLocation != "" {
		assert.Equal(t, tt.wantLocation, rec.Header().Get("Location"))
	}
	for _, s := range tt.wantBody {
		assert.Contains(t, rec.Body.String(), s)
	}
}

// login signs in through the login form and returns the session cookie.
func (app testApp) login(t *testing.T, username, pwd string) *http.Cookie {
	rec := app.do(t, httpTest{
		method: http.MethodPost, path: "/admin/login",
		form:     url.Values{"username": {username}, "password": {pwd}},
		wantCode: http.StatusFound, wantLocation: "/admin/dashboard",
	})
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookieName {
			return c
		}
	}
	t.Fatalf("login() failed: no session cookie")
	return nil
}

func bgCtx() context.Context { return context.Background() }
