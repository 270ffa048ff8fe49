package security

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	allowedHeaders = "Content-Type, Content-Length, Accept-Encoding, Authorization, Accept, Origin, Cache-Control, X-Requested-With"
	allowedMethods = "GET, POST, PUT, PATCH, DELETE, OPTIONS"
)

// CORS 只放行白名单内的 Origin；配置了 "*" 时放行所有来源（仅开发环境）
func CORS(allowedOrigins []string) gin.HandlerFunc {
	allowAll := false
	originSet := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		if o == "*" {
			allowAll = true
		}
		originSet[strings.TrimRight(o, "/")] = true
	}

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		if origin != "" && (allowAll || originSet[origin]) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Vary", "Origin")
		}

		c.Writer.Header().Set("Access-Control-Allow-Headers", allowedHeaders)
		c.Writer.Header().Set("Access-Control-Allow-Methods", allowedMethods)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// Secure 常规安全响应头
func Secure() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "no-referrer")
		if c.Request.TLS != nil {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter 按客户端 IP 限流。学生集中交卷时请求会扎堆，
// 限流器允许 maxRequests 的突发，平均速率摊在整个窗口上；
// 不活跃的条目由后台定期清理
func RateLimiter(maxRequests int, window time.Duration) gin.HandlerFunc {
	clients := make(map[string]*client)
	var mu sync.Mutex

	go func() {
		idle := window * 3
		if idle < time.Minute {
			idle = time.Minute
		}
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			mu.Lock()
			for ip, cl := range clients {
				if time.Since(cl.lastSeen) > idle {
					delete(clients, ip)
				}
			}
			mu.Unlock()
		}
	}()

	limit := rate.Every(window / time.Duration(maxRequests))

	return func(c *gin.Context) {
		ip := c.ClientIP()

		mu.Lock()
		cl, ok := clients[ip]
		if !ok {
			cl = &client{limiter: rate.NewLimiter(limit, maxRequests)}
			clients[ip] = cl
		}
		cl.lastSeen = time.Now()
		mu.Unlock()

		if !cl.limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}

		c.Next()
	}
}
