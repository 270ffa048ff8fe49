package middleware

import (
	"classhub_backend/internal/config"
	"classhub_backend/internal/model"
	"classhub_backend/internal/util"
	"strings"

	"github.com/gin-gonic/gin"
)

func extractToken(c *gin.Context) string {
	if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	// 浏览器内嵌资源拿不到自定义头时降级用 query 参数
	return c.Query("token")
}

func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		claims, err := util.ParseJWT(tokenString, cfg.JWT.Secret)
		if err != nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set(util.ContextUserKey, claims)
		c.Next()
	}
}

// RoleMiddleware 管理员拥有全部教师权限，直接放行
func RoleMiddleware(roles ...model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := util.GetUserFromContext(c)
		if user == nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		if user.Role != model.Admin {
			allowed := false
			for _, role := range roles {
				if user.Role == role {
					allowed = true
					break
				}
			}
			if !allowed {
				util.Forbidden(c)
				c.Abort()
				return
			}
		}

		c.Next()
	}
}
