package guard

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"homeflow/auth"
	"homeflow/role"
	"homeflow/session"
)

// Context keys populated by Authenticate for downstream handlers.
const (
	CtxUserID    = "user_id"
	CtxEmail     = "email"
	CtxSessionID = "session_id"
)

// TokenVerifier validates a bearer token.
type TokenVerifier interface {
	VerifyToken(token string) (auth.Claims, error)
}

// Authenticate parses the Authorization header and, when the token is valid
// and its session is still live, records the identity on the request
// context. It never aborts; the gates decide what an anonymous request may
// reach.
func Authenticate(verifier TokenVerifier, sessions *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.Next()
			return
		}

		claims, err := verifier.VerifyToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.Next()
			return
		}

		// A signed token whose session was removed (sign-out) is anonymous.
		if _, ok := sessions.Current(claims.SessionID); !ok {
			c.Next()
			return
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxEmail, claims.Email)
		c.Set(CtxSessionID, claims.SessionID)
		c.Next()
	}
}

// RequireAuth redirects anonymous requests to the sign-in route.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		res := EvaluateAuth(c.GetString(CtxUserID) != "")
		if res.Decision != DecisionGranted {
			c.Redirect(http.StatusSeeOther, res.Fallback)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAgent resolves the caller's role and only admits agents.
func RequireAgent(resolver *role.Resolver) gin.HandlerFunc {
	return requireRole(resolver, EvaluateAgent)
}

// RequireAdmin resolves the caller's role and only admits admins.
func RequireAdmin(resolver *role.Resolver) gin.HandlerFunc {
	return requireRole(resolver, EvaluateAdmin)
}

func requireRole(resolver *role.Resolver, evaluate func(bool, RoleState) Result) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString(CtxUserID)
		hasSession := userID != ""

		state := RoleState{Pending: true}
		if hasSession {
			// Resolution is synchronous server-side; the pending state only
			// exists between here and the Resolve return.
			state = RoleState{Role: resolver.Resolve(c.Request.Context(), userID, c.GetString(CtxEmail))}
		}

		res := evaluate(hasSession, state)
		if res.Decision != DecisionGranted {
			c.Redirect(http.StatusSeeOther, res.Fallback)
			c.Abort()
			return
		}
		c.Next()
	}
}
