package auth

import (
	"crypto/subtle"
	"encoding/gob"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

const (
	SessionName = "chamados_session"

	keyLoggedIn = "logged_in"
	keyUser     = "admin_user"
)

// Flash is a one-shot message shown on the next rendered page. Category maps
// to a CSS class: success, info, warning, danger.
type Flash struct {
	Category string
	Message  string
}

func init() {
	gob.Register(Flash{})
}

// Middleware installs the cookie-backed session store.
func Middleware(secret string) gin.HandlerFunc {
	store := cookie.NewStore([]byte(secret))
	store.Options(sessions.Options{
		Path:     "/",
		HttpOnly: true,
		MaxAge:   12 * 60 * 60,
	})
	return sessions.Sessions(SessionName, store)
}

// Gate holds the single administrator credential pair.
type Gate struct {
	user string
	pass string
}

func NewGate(user, pass string) *Gate {
	return &Gate{user: user, pass: pass}
}

// Login checks the pair in constant time and, on match, marks the session
// authenticated.
func (g *Gate) Login(c *gin.Context, username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(g.user))
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(g.pass))
	if userOK&passOK != 1 {
		return false
	}
	sess := sessions.Default(c)
	sess.Set(keyLoggedIn, true)
	sess.Set(keyUser, username)
	_ = sess.Save()
	return true
}

// Logout clears the authenticated marker.
func (g *Gate) Logout(c *gin.Context) {
	sess := sessions.Default(c)
	sess.Delete(keyLoggedIn)
	sess.Delete(keyUser)
	_ = sess.Save()
}

func IsLoggedIn(c *gin.Context) bool {
	v, ok := sessions.Default(c).Get(keyLoggedIn).(bool)
	return ok && v
}

// CurrentUser returns the logged-in administrator's username, or "".
func CurrentUser(c *gin.Context) string {
	v, _ := sessions.Default(c).Get(keyUser).(string)
	return v
}

// RequireLogin gates the admin routes. The lifecycle engine never sees
// authentication; unauthenticated requests bounce to /login with a warning.
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsLoggedIn(c) {
			AddFlash(c, "warning", "Por favor, faça login para acessar esta página.")
			c.Redirect(http.StatusSeeOther, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// AddFlash queues a one-shot message on the session.
func AddFlash(c *gin.Context, category, message string) {
	sess := sessions.Default(c)
	sess.AddFlash(Flash{Category: category, Message: message})
	_ = sess.Save()
}

// TakeFlashes drains the queued messages.
func TakeFlashes(c *gin.Context) []Flash {
	sess := sessions.Default(c)
	raw := sess.Flashes()
	if len(raw) > 0 {
		_ = sess.Save()
	}
	out := make([]Flash, 0, len(raw))
	for _, v := range raw {
		if f, ok := v.(Flash); ok {
			out = append(out, f)
		}
	}
	return out
}
