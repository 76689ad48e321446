package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"sessiongate/internal/core/domain"
	logicv1 "sessiongate/internal/logic/v1"
	"sessiongate/middleware"
)

// Handler groups the HTTP handlers of the backend service.
// Dependencies are injected via the constructor — no global state.
type Handler struct {
	login     *logicv1.LoginService
	issuer    *logicv1.Issuer
	authority *logicv1.Authority
	users     domain.UserDirectory
	cookie    CookieOptions
}

// NewHandler creates a Handler with the given collaborators.
func NewHandler(
	login *logicv1.LoginService,
	issuer *logicv1.Issuer,
	authority *logicv1.Authority,
	users domain.UserDirectory,
	cookie CookieOptions,
) *Handler {
	return &Handler{
		login:     login,
		issuer:    issuer,
		authority: authority,
		users:     users,
		cookie:    cookie,
	}
}

// RegisterRoutes registers the auth endpoints and the protected API group.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.POST("/auth/login", h.Login)
	r.POST("/auth/logout", h.Logout)

	api := r.Group("/api")
	api.Use(RequireSession(h.authority, h.cookie.Name))
	api.GET("/profile", h.Profile)
}

// Login handles POST /auth/login: verifies credentials, issues a session
// and sets the session cookie.
func (h *Handler) Login(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.login", trace.WithAttributes(
		attribute.String("layer", "web"),
	))
	defer span.End()

	logger := zerolog.Ctx(ctx)

	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.SetAttributes(attribute.Bool("request.valid", false))
		c.JSON(http.StatusBadRequest, gin.H{"error": "username & password required"})
		return
	}

	user, err := h.login.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, logicv1.ErrInvalidCredentials) {
			logger.Warn().Str("username", req.Username).Msg("Login rejected")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		logger.Error().Err(err).Msg("Login failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	sess, err := h.issuer.CreateSession(ctx, user.ID)
	if err != nil {
		span.RecordError(err)
		logger.Error().Err(err).Msg("Session creation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	setSessionCookie(c.Writer, sess.SessionID, h.cookie)

	logger.Info().Str("user_id", user.ID).Msg("Login successful")
	c.JSON(http.StatusOK, domain.LoginResponse{UserID: user.ID, Username: user.Username})
}

// Logout handles POST /auth/logout: deletes the presented session (cookie
// or bearer) and clears the cookie. Always answers 200 — logging out with
// no live session is not an error.
func (h *Handler) Logout(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.logout", trace.WithAttributes(
		attribute.String("layer", "web"),
	))
	defer span.End()

	sessionID := logicv1.ExtractSessionID(c.Request.Header, h.cookie.Name)
	if sessionID != "" {
		if err := h.issuer.DeleteSession(ctx, sessionID); err != nil {
			span.RecordError(err)
			zerolog.Ctx(ctx).Error().Err(err).Msg("Session deletion failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}
		clearSessionCookie(c.Writer, h.cookie)
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Profile handles GET /api/profile. RequireSession has already validated
// and renewed the session; this handler resolves the profile.
func (h *Handler) Profile(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.profile", trace.WithAttributes(
		attribute.String("layer", "web"),
	))
	defer span.End()

	grant, ok := grantFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	user, err := h.users.GetByID(ctx, grant.UserID)
	if err != nil {
		span.RecordError(err)
		zerolog.Ctx(ctx).Error().Err(err).Msg("Profile lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	if user == nil {
		// Session outlived the principal; treat like any other deny.
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	span.SetAttributes(attribute.String("user.id", user.ID))
	c.JSON(http.StatusOK, domain.ProfileResponse{
		UserID:       user.ID,
		Username:     user.Username,
		LastActivity: grant.LastActivity,
	})
}
