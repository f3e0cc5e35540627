package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/marulab/maruboard/config"
	"github.com/marulab/maruboard/utils"
)

// ContextSubjectKey is the gin context key holding the external subject
// string of the authenticated caller.
const ContextSubjectKey = "identity_subject"

// Subject returns the external subject of the current request, or "" for
// anonymous callers.
func Subject(ctx *gin.Context) string {
	v, exists := ctx.Get(ContextSubjectKey)
	if !exists {
		return ""
	}
	s, _ := v.(string)
	return s
}

func bearerToken(ctx *gin.Context) (string, bool) {
	authHeader := ctx.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

// AuthRequired verifies the bearer token against the identity provider and
// aborts with 401 when it is missing or invalid. It only establishes who the
// caller is; whether a user record exists is checked in the service layer.
func AuthRequired(verifier utils.Verifier) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token, ok := bearerToken(ctx)
		if !ok {
			utils.Error(ctx, http.StatusUnauthorized, 40101, "authorization header missing or malformed")
			ctx.Abort()
			return
		}
		subject, err := verifier.Verify(ctx.Request.Context(), token)
		if err != nil {
			utils.Error(ctx, http.StatusUnauthorized, 40102, "invalid token")
			ctx.Abort()
			return
		}
		ctx.Set(ContextSubjectKey, subject)
		ctx.Next()
	}
}

// OptionalAuth resolves the bearer token when present and passes anonymous
// requests through. An invalid token is treated as anonymous, not an error;
// read paths never fail on identity.
func OptionalAuth(verifier utils.Verifier) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if token, ok := bearerToken(ctx); ok {
			if subject, err := verifier.Verify(ctx.Request.Context(), token); err == nil {
				ctx.Set(ContextSubjectKey, subject)
			}
		}
		ctx.Next()
	}
}

// AdminRequired guards administrative endpoints with the X-Admin-Key header
// checked against the configured bcrypt hash.
func AdminRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		cfg := config.Get()
		if !utils.CheckAdminKey(cfg.AdminKeyHash, ctx.GetHeader("X-Admin-Key")) {
			utils.Error(ctx, http.StatusForbidden, 40310, "admin key required")
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}

// WebhookSecretRequired guards the identity sync webhook with a shared
// secret header.
func WebhookSecretRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		cfg := config.Get()
		presented := ctx.GetHeader("X-Webhook-Secret")
		if cfg.WebhookSecret == "" || presented == "" ||
			subtle.ConstantTimeCompare([]byte(cfg.WebhookSecret), []byte(presented)) != 1 {
			utils.Error(ctx, http.StatusUnauthorized, 40110, "invalid webhook secret")
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}
