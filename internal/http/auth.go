package httpapi

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/fairyhunter13/printshop/internal/model"
)

const (
	sessionName     = "printshop_session"
	sessionAdminKey = "admin"
	ctxAdminKey     = "is_admin"
)

// withAdminFlag resolves the session's admin flag once per request and keeps
// it on the request context; handlers read the flag, never the session.
func withAdminFlag() gin.HandlerFunc {
	return func(c *gin.Context) {
		admin, _ := sessions.Default(c).Get(sessionAdminKey).(bool)
		c.Set(ctxAdminKey, admin)
		c.Next()
	}
}

// isAdmin reports whether the request carries an authenticated admin session.
func isAdmin(c *gin.Context) bool { return c.GetBool(ctxAdminKey) }

// requireAdminPage sends unauthenticated page requests to the login form.
func requireAdminPage(c *gin.Context) {
	if !isAdmin(c) {
		c.Redirect(http.StatusFound, "/admin/login")
		c.Abort()
		return
	}
	c.Next()
}

// requireAdminJSON rejects unauthenticated API requests with 401 JSON.
func requireAdminJSON(c *gin.Context) {
	if !isAdmin(c) {
		errorJSON(c, model.ErrUnauthorized)
		return
	}
	c.Next()
}

// setAdmin stores or clears the session's admin flag.
func setAdmin(c *gin.Context, admin bool) error {
	s := sessions.Default(c)
	if admin {
		s.Set(sessionAdminKey, true)
	} else {
		s.Delete(sessionAdminKey)
	}
	return s.Save()
}

// passwordMatches compares the submitted admin password in constant time.
func passwordMatches(got, want string) bool {
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}

// flash is one queued back-office notice shown on the next page load.
type flash struct {
	Kind    string
	Message string
}

func addFlash(c *gin.Context, kind, message string) {
	s := sessions.Default(c)
	s.AddFlash(message, kind)
	_ = s.Save()
}

// takeFlashes drains queued flashes, removing them from the session.
func takeFlashes(c *gin.Context) []flash {
	s := sessions.Default(c)
	var out []flash
	for _, kind := range []string{"success", "error"} {
		for _, v := range s.Flashes(kind) {
			if msg, ok := v.(string); ok {
				out = append(out, flash{Kind: kind, Message: msg})
			}
		}
	}
	_ = s.Save()
	return out
}
