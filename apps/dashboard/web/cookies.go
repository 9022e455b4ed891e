package web

import (
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

const (
	tokenCookie  = "token"
	prefsSession = "prefs"

	darkKey = "dark"
)

func (s *Server) setupCookies() {
	ttl := s.conf.Cookie.TokenTTL
	hashKey, blockKey := []byte(s.conf.Cookie.HashKey), []byte(s.conf.Cookie.BlockKey)

	s.cookies = securecookie.New(hashKey, blockKey).MaxAge(int(ttl.Seconds()))

	s.sessions = sessions.NewCookieStore(hashKey, blockKey)
	s.sessions.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   365 * 24 * 60 * 60,
		Secure:   s.conf.Cookie.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// tokenJar keeps the bearer token in a signed and encrypted cookie.
type tokenJar struct {
	ctx    echo.Context
	codec  *securecookie.SecureCookie
	secure bool
}

func (s *Server) tokenJar(ctx echo.Context) *tokenJar {
	return &tokenJar{ctx: ctx, codec: s.cookies, secure: s.conf.Cookie.Secure}
}

// Token returns the token of the request cookie; a tampered or expired cookie yields no token.
func (j *tokenJar) Token() string {
	c, err := j.ctx.Cookie(tokenCookie)
	if err != nil {
		return ""
	}
	var token string
	if err = j.codec.Decode(tokenCookie, c.Value, &token); err != nil {
		return ""
	}
	return token
}

func (j *tokenJar) SetToken(token string, ttl time.Duration) error {
	encoded, err := j.codec.Encode(tokenCookie, token)
	if err != nil {
		return errors.Wrap(err, "encoding token cookie")
	}
	j.ctx.SetCookie(j.cookie(encoded, ttl))
	return nil
}

func (j *tokenJar) ClearToken() {
	j.ctx.SetCookie(j.cookie("", 0))
}

// cookie returns the token cookie; a zero ttl deletes it.
func (j *tokenJar) cookie(value string, ttl time.Duration) *http.Cookie {
	c := &http.Cookie{
		Name:     tokenCookie,
		Value:    value,
		Path:     "/",
		Secure:   j.secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if ttl > 0 {
		c.Expires = time.Now().Add(ttl)
		c.MaxAge = int(ttl.Seconds())
	} else {
		c.Expires = time.Unix(0, 0)
		c.MaxAge = -1
	}
	return c
}

// Preferences & flashes

func (s *Server) prefs(ctx echo.Context) *sessions.Session {
	// a session that fails to decode is replaced by a new one
	sess, _ := s.sessions.Get(ctx.Request(), prefsSession)
	return sess
}

func (s *Server) isDark(ctx echo.Context) bool {
	dark, _ := s.prefs(ctx).Values[darkKey].(bool)
	return dark
}

func (s *Server) setDark(ctx echo.Context, dark bool) error {
	sess := s.prefs(ctx)
	sess.Values[darkKey] = dark
	return errors.Wrap(sess.Save(ctx.Request(), ctx.Response()), "saving prefs session")
}

// flash queues a message, given as a translation key, for the next rendered page.
func (s *Server) flash(ctx echo.Context, key string) error {
	sess := s.prefs(ctx)
	sess.AddFlash(key)
	return errors.Wrap(sess.Save(ctx.Request(), ctx.Response()), "saving prefs session")
}

// popFlashes returns and clears the queued messages.
func (s *Server) popFlashes(ctx echo.Context) []string {
	sess := s.prefs(ctx)
	flashes := sess.Flashes()
	if len(flashes) == 0 {
		return nil
	}
	keys := make([]string, 0, len(flashes))
	for _, f := range flashes {
		if key, ok := f.(string); ok {
			keys = append(keys, key)
		}
	}
	_ = sess.Save(ctx.Request(), ctx.Response())
	return keys
}
