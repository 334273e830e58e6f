// Package middleware provides the Gin middleware stack: panic recovery,
// request IDs, request logging, and the token gate protecting
// authenticated routes.
package middleware

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/gin-gonic/gin"

	"github.com/isquicha/desafio-softfocus/internal/apperr"
	"github.com/isquicha/desafio-softfocus/internal/auth/authctx"
	"github.com/isquicha/desafio-softfocus/internal/auth/token"
	"github.com/isquicha/desafio-softfocus/internal/logger"
	"github.com/isquicha/desafio-softfocus/internal/server"
)

// TokenVerifier validates a token string and returns its claims. The auth
// service implements it; the gate depends on this interface so tests can
// substitute their own verifier.
type TokenVerifier interface {
	Verify(tokenString string) (*token.Claims, error)
}

// maxTokenBodyPeek bounds how much of a request body the gate will read
// while looking for an access_token field.
const maxTokenBodyPeek = 1 << 20

// TokenAuth returns the request gate: it extracts an access token from the
// request, verifies it, and either attaches the claims and continues or
// aborts with the mapped status. The wrapped handler never runs on failure.
//
// Token lookup order is fixed: the access_token query parameter first,
// then an access_token field in a JSON request body. The body is restored
// afterwards so handlers can still bind it.
//
// Status mapping — the only place it exists: missing token 401, expired
// 401, invalid signature or structure 403, any other decode fault 500.
func TokenAuth(verifier TokenVerifier, log *logger.Logger) gin.HandlerFunc {
	gateLog := log.WithComponent("gate")

	return func(c *gin.Context) {
		tokenString := c.Query("access_token")
		if tokenString == "" {
			tokenString = tokenFromBody(c)
		}
		if tokenString == "" {
			server.AbortWithError(c, apperr.TokenMissing())
			return
		}

		claims, err := verifier.Verify(tokenString)
		if err != nil {
			gateLog.Warn("Token rejected", map[string]any{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})
			server.AbortWithError(c, err)
			return
		}

		c.Request = c.Request.WithContext(authctx.Set(c.Request.Context(), claims))
		c.Next()
	}
}

// tokenFromBody peeks at a JSON request body for an access_token field and
// restores the body for downstream handlers. Anything unreadable or
// non-JSON counts as no token.
func tokenFromBody(c *gin.Context) string {
	if c.Request.Body == nil {
		return ""
	}

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxTokenBodyPeek))
	if err != nil {
		return ""
	}
	// Stitch the unread remainder back on so a body larger than the peek
	// window reaches the handler intact.
	c.Request.Body = io.NopCloser(io.MultiReader(bytes.NewReader(body), c.Request.Body))

	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return payload.AccessToken
}
