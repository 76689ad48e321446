package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	logicv1 "sessiongate/internal/logic/v1"
	"sessiongate/middleware"
)

const grantContextKey = "session_grant"

// RequireSession is the backend enforcement point: a defense-in-depth
// re-check on routes the edge authorizer is expected to have already
// protected. It re-derives the credential from the same two sources and
// re-validates from scratch through the same Authority — it must not
// assume the edge ran.
//
// Every Deny collapses to a generic unauthenticated response; the reason
// goes to logs and metrics only.
func RequireSession(authority *logicv1.Authority, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		candidate := logicv1.ExtractSessionID(c.Request.Header, cookieName)

		grant, err := authority.Decide(ctx, candidate)
		if err != nil {
			reason := logicv1.Reason(err)
			middleware.AuthDecisions.WithLabelValues("backend", "deny", reason).Inc()
			zerolog.Ctx(ctx).Warn().Str("reason", reason).Msg("Session check denied")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
			return
		}

		middleware.AuthDecisions.WithLabelValues("backend", "allow", "").Inc()
		c.Set(grantContextKey, grant)
		c.Next()
	}
}

// grantFromContext returns the grant stored by RequireSession.
func grantFromContext(c *gin.Context) (*logicv1.Grant, bool) {
	v, ok := c.Get(grantContextKey)
	if !ok {
		return nil, false
	}
	grant, ok := v.(*logicv1.Grant)
	return grant, ok
}
