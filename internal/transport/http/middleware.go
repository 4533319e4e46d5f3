package rest

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/Gunvolt24/peerkart/pkg/ctxmeta"
	"github.com/gin-gonic/gin"
)

// AdminTokenHeader — заголовок с админским токеном для GET /users.
const AdminTokenHeader = "X-Admin-Token"

// withTimeout — таймаут обработки запроса в контексте.
func (h *Handler) withTimeout() gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.handlerTimeout <= 0 {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), h.handlerTimeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// authRequired — проверка Bearer-токена; id пользователя кладётся в контекст.
func (h *Handler) authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || strings.TrimSpace(token) == "" {
			fail(c, http.StatusUnauthorized, "Not authorized")
			return
		}

		userID, err := h.svc.Auth.Verify(strings.TrimSpace(token))
		if err != nil {
			fail(c, http.StatusUnauthorized, "Not authorized")
			return
		}
		c.Request = c.Request.WithContext(ctxmeta.WithActorID(c.Request.Context(), userID))
		c.Next()
	}
}

func (h *Handler) adminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		got := c.GetHeader(AdminTokenHeader)
		if h.adminToken == "" || subtle.ConstantTimeCompare([]byte(got), []byte(h.adminToken)) != 1 {
			fail(c, http.StatusUnauthorized, "Not authorized")
			return
		}
		c.Next()
	}
}

// actorID — id из контекста; authRequired гарантирует, что он есть.
func actorID(c *gin.Context) string {
	id, _ := ctxmeta.ActorIDFromContext(c.Request.Context())
	return id
}
