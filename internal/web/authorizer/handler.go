// Package authorizer implements the edge enforcement point as a
// forward-auth HTTP service: the reverse proxy in front of the backend
// asks it to authorize every inbound request before forwarding.
package authorizer

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	logicv1 "sessiongate/internal/logic/v1"
	"sessiongate/middleware"
)

// Identity response headers attached on Allow. Flat strings only, so any
// proxy can copy them onto the upstream request.
const (
	UserIDHeader    = "X-Auth-User-Id"
	SessionIDHeader = "X-Auth-Session-Id"
)

// Decision is the authorization answer for one resource. Context carries
// the identity as flat string key/value pairs on Allow. The deny reason is
// deliberately absent: it stays inside the trust boundary.
type Decision struct {
	Allow    bool              `json:"allow"`
	Resource string            `json:"resource"`
	Context  map[string]string `json:"context,omitempty"`
}

// DecisionRequest is the request-descriptor form accepted by
// POST /v1/decisions: the resource being requested plus the raw inbound
// headers.
type DecisionRequest struct {
	Resource string            `json:"resource" binding:"required"`
	Headers  map[string]string `json:"headers"`
}

// Handler evaluates authorization decisions through the shared Authority.
type Handler struct {
	authority  *logicv1.Authority
	cookieName string
}

// NewHandler creates an authorizer Handler.
func NewHandler(authority *logicv1.Authority, cookieName string) *Handler {
	return &Handler{authority: authority, cookieName: cookieName}
}

// RegisterRoutes registers the authorizer endpoints.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/authorize", h.Authorize)
	r.POST("/v1/decisions", h.Decide)
}

// Evaluate runs the decision function over a header set and returns the
// wire-level Decision together with the internal deny reason ("" on Allow).
func (h *Handler) Evaluate(c *gin.Context, resource string, headers http.Header) (Decision, string) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "edge.authorize", trace.WithAttributes(
		attribute.String("layer", "edge"),
		attribute.String("resource", resource),
	))
	defer span.End()

	candidate := logicv1.ExtractSessionID(headers, h.cookieName)

	grant, err := h.authority.Decide(ctx, candidate)
	if err != nil {
		reason := logicv1.Reason(err)
		span.SetAttributes(attribute.String("decision", "deny"))
		middleware.AuthDecisions.WithLabelValues("edge", "deny", reason).Inc()
		zerolog.Ctx(ctx).Warn().
			Str("resource", resource).
			Str("reason", reason).
			Msg("Edge deny")
		return Decision{Allow: false, Resource: resource}, reason
	}

	span.SetAttributes(attribute.String("decision", "allow"))
	middleware.AuthDecisions.WithLabelValues("edge", "allow", "").Inc()
	zerolog.Ctx(ctx).Info().
		Str("resource", resource).
		Str("user_id", grant.UserID).
		Msg("Edge allow")

	return Decision{Allow: true, Resource: resource, Context: grant.Context()}, ""
}

// Authorize handles GET /authorize, the forward-auth probe. The proxy
// passes the original request's headers through; the protected resource is
// taken from the X-Forwarded-* headers it sets.
//
// 204 plus identity headers on Allow; bare 401 on Deny — the reason never
// reaches the caller.
func (h *Handler) Authorize(c *gin.Context) {
	resource := forwardedResource(c.Request)

	decision, _ := h.Evaluate(c, resource, c.Request.Header)
	if !decision.Allow {
		c.Status(http.StatusUnauthorized)
		return
	}

	c.Header(UserIDHeader, decision.Context["userId"])
	c.Header(SessionIDHeader, decision.Context["sessionId"])
	c.Status(http.StatusNoContent)
}

// Decide handles POST /v1/decisions, the request-descriptor form of the
// same contract. Useful for proxies that integrate via subrequests with an
// explicit document, and for exercising the decision surface directly.
func (h *Handler) Decide(c *gin.Context) {
	var req DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "resource required"})
		return
	}

	headers := make(http.Header, len(req.Headers))
	for k, v := range req.Headers {
		headers.Set(k, v)
	}

	decision, _ := h.Evaluate(c, req.Resource, headers)
	c.JSON(http.StatusOK, decision)
}

// forwardedResource reconstructs the protected resource from forward-auth
// headers, falling back to the probe's own method and path.
func forwardedResource(r *http.Request) string {
	method := r.Header.Get("X-Forwarded-Method")
	uri := r.Header.Get("X-Forwarded-Uri")
	if uri == "" {
		uri = r.Header.Get("X-Original-Url")
	}

	if uri == "" {
		return r.Method + " " + r.URL.Path
	}
	if method == "" {
		method = r.Method
	}
	return method + " " + uri
}
