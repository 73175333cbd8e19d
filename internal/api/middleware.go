package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mailsystem/mailgate/internal/access"
)

// apiKeyHeader carries the client's API key on protected endpoints.
const apiKeyHeader = "X-API-Key"

// requireWhitelist enforces the IP whitelist alone. Used for the
// documentation routes, which need no API key.
func (s *Server) requireWhitelist() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := access.ClientIP(c.Request)
		if err := s.guard.CheckIP(clientIP); err != nil {
			slog.Warn("documentation access denied", "client_ip", clientIP)
			c.AbortWithStatusJSON(http.StatusForbidden, errorResponse{
				Error:  "access denied",
				Detail: err.Error(),
			})
			return
		}
		c.Next()
	}
}

// requireAccess enforces the full gate on protected endpoints: IP
// whitelist first, then API key. A denial short-circuits before the
// request body is touched.
func (s *Server) requireAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := access.ClientIP(c.Request)

		if err := s.guard.CheckIP(clientIP); err != nil {
			slog.Warn("request denied by IP whitelist", "client_ip", clientIP)
			c.AbortWithStatusJSON(http.StatusForbidden, errorResponse{
				Error:  "access denied",
				Detail: err.Error(),
			})
			return
		}

		if err := s.guard.CheckKey(c.GetHeader(apiKeyHeader)); err != nil {
			slog.Warn("request denied by API key check", "client_ip", clientIP)
			c.Header("WWW-Authenticate", "ApiKey")
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{
				Error:  "authentication failed",
				Detail: "missing or invalid API key in " + apiKeyHeader + " header",
			})
			return
		}

		c.Next()
	}
}
