package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mailsystem/mailgate/internal/email"
)

// sendResponse is the success body of the send endpoint.
type sendResponse struct {
	Success    bool     `json:"success"`
	Message    string   `json:"message"`
	Timestamp  string   `json:"timestamp"`
	Recipients []string `json:"recipients"`
}

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":        "mailgate",
		"version":     Version,
		"description": "HTTP gateway for outbound email",
		"docs":        "/docs",
	})
}

// handleHealth reports the delivery configuration without attempting a
// live connection. Credentials never appear in the response.
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":          "healthy",
		"provider":        s.provider.Name(),
		"smtp_server":     s.cfg.SMTP.Server,
		"smtp_port":       s.cfg.SMTP.Port,
		"smtp_from_email": s.cfg.SMTP.FromEmail,
		"smtp_configured": s.cfg.SMTPConfigured(),
		"security": gin.H{
			"mode":                 s.guard.Mode().String(),
			"api_key_configured":   s.guard.KeyRequired(),
			"ip_whitelist_enabled": s.guard.WhitelistEnabled(),
			"allowed_ips_count":    s.guard.WhitelistSize(),
		},
	})
}

// handleSendEmail validates the request, builds the message, and hands it
// to the delivery provider in a single synchronous attempt.
func (s *Server) handleSendEmail(c *gin.Context) {
	var req email.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		resp := errorResponse{Error: "validation failed", Fields: bindingFieldErrors(err)}
		if resp.Fields == nil {
			resp.Detail = "request body is not a valid email request"
		}
		c.JSON(http.StatusUnprocessableEntity, resp)
		return
	}

	msg, err := req.Build(s.cfg.SMTP.FromEmail)
	if err != nil {
		var verr *email.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusUnprocessableEntity, errorResponse{
				Error:  "validation failed",
				Fields: []fieldError{{Field: verr.Field, Message: verr.Detail}},
			})
			return
		}
		c.JSON(http.StatusUnprocessableEntity, errorResponse{
			Error:  "validation failed",
			Detail: err.Error(),
		})
		return
	}

	if err := s.provider.Send(c.Request.Context(), msg); err != nil {
		slog.Error("delivery failed",
			"provider", s.provider.Name(),
			"recipients", len(msg.To),
			"error", err,
		)
		c.JSON(http.StatusBadGateway, errorResponse{
			Error:  "delivery failed",
			Detail: err.Error(),
		})
		return
	}

	slog.Info("email sent",
		"provider", s.provider.Name(),
		"recipients", len(msg.To),
		"attachments", len(msg.Attachments),
	)

	c.JSON(http.StatusOK, sendResponse{
		Success:    true,
		Message:    fmt.Sprintf("email sent to %d recipient(s)", len(msg.To)),
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Recipients: msg.To,
	})
}
