package echoapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/kjboard/board/core/admin"
)

const (
	sessionCookieName = "session"
	contextClaimsKey  = "claims"
	loginPath         = "/admin/login"
)

var errInvalidSession = errors.New("invalid session")

// Claims represents the session state carried by the session cookie.
type Claims struct {
	jwt.StandardClaims
	Username string `json:"username,omitempty"`
	IsAdmin  bool   `json:"is_admin,omitempty"`
}

func (c Claims) AdminID() int64 {
	id, _ := strconv.ParseInt(c.Subject, 10, 64)
	return id
}

// Admin returns the admin the claims were issued for (id and username only).
func (c Claims) Admin() admin.Admin {
	return admin.Admin{ID: c.AdminID(), Username: c.Username}
}

type sessionManager struct {
	appName string
	key     []byte
	ttl     time.Duration
	secure  bool
}

func (sm sessionManager) claimsFor(adm admin.Admin) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Id:        uuid.New().String(),
			Issuer:    sm.appName,
			Subject:   strconv.FormatInt(adm.ID, 10),
			ExpiresAt: now.Add(sm.ttl).Unix(),
			IssuedAt:  now.Unix(),
		},
		Username: adm.Username,
		IsAdmin:  true,
	}
}

// generateToken signs the Claims.
func (sm sessionManager) generateToken(claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	ss, err := token.SignedString(sm.key)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

func (sm sessionManager) parseToken(ss string) (*Claims, error) {
	claims := new(Claims)
	token, err := jwt.ParseWithClaims(ss, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errInvalidSession
		}
		return sm.key, nil
	})
	if err != nil || !token.Valid {
		return nil, errInvalidSession
	}
	return claims, nil
}

// issue establishes a session for adm.
func (sm sessionManager) issue(ctx echo.Context, adm admin.Admin) error {
	claims := sm.claimsFor(adm)
	ss, err := sm.generateToken(claims)
	if err != nil {
		return err
	}
	ctx.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    ss,
		Path:     "/",
		Expires:  time.Unix(claims.ExpiresAt, 0),
		HttpOnly: true,
		Secure:   sm.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// clear destroys the session.
func (sm sessionManager) clear(ctx echo.Context) {
	ctx.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   sm.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// loadSession puts the request's session claims, if any, in the echo.Context.
// A bad or expired cookie is dropped.
func (sm sessionManager) loadSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		cookie, err := ctx.Cookie(sessionCookieName)
		if err == nil && cookie.Value != "" {
			if claims, err := sm.parseToken(cookie.Value); err == nil {
				ctx.Set(contextClaimsKey, *claims)
			} else {
				sm.clear(ctx)
			}
		}
		return next(ctx)
	}
}

func getContextClaims(ctx echo.Context) (Claims, bool) {
	claims, ok := ctx.Get(contextClaimsKey).(Claims)
	return claims, ok
}

// isAdmin reports whether the request carries an admin session.
func isAdmin(ctx echo.Context) bool {
	claims, ok := getContextClaims(ctx)
	return ok && claims.IsAdmin
}

// requireAdmin redirects to the login page, without calling next, unless the request is admin.
func requireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		if !isAdmin(ctx) {
			return ctx.Redirect(http.StatusFound, loginPath)
		}
		return next(ctx)
	}
}
