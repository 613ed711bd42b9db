package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/barter-backend/internal/domain/valueobject"
	"github.com/ignatzorin/barter-backend/internal/interface/http/response"
)

// RequireRoles пропускает только пользователей с одной из ролей. Ставится после AuthMiddleware.
func RequireRoles(allowed ...valueobject.Role) gin.HandlerFunc {
	allowedSet := make(map[valueobject.Role]struct{}, len(allowed))
	for _, r := range allowed {
		allowedSet[r] = struct{}{}
	}

	return func(c *gin.Context) {
		raw, ok := c.Get(ContextRoleKey)
		if !ok {
			response.Unauthorized(c, "требуется авторизация")
			return
		}

		role, _ := raw.(valueobject.Role)
		if _, ok := allowedSet[role]; !ok {
			response.Forbidden(c, "действие недоступно для вашей роли")
			return
		}

		c.Next()
	}
}
