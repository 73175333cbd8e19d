package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// swaggerUIPage is a minimal Swagger UI shell pointed at /openapi.json.
const swaggerUIPage = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>mailgate API</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    SwaggerUIBundle({url: "/openapi.json", dom_id: "#swagger-ui"});
  </script>
</body>
</html>`

// redocPage is the alternative ReDoc rendering of the same document.
const redocPage = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>mailgate API</title>
</head>
<body>
  <redoc spec-url="/openapi.json"></redoc>
  <script src="https://cdn.redoc.ly/redoc/latest/bundles/redoc.standalone.js"></script>
</body>
</html>`

func (s *Server) handleSwaggerUI(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(swaggerUIPage))
}

func (s *Server) handleReDoc(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(redocPage))
}

// handleOpenAPI serves the OpenAPI 3 description of the service.
func (s *Server) handleOpenAPI(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"openapi": "3.0.3",
		"info": gin.H{
			"title":       "mailgate",
			"description": "HTTP gateway for outbound email. Protected endpoints require an API key in the X-API-Key header and a whitelisted client IP.",
			"version":     Version,
		},
		"components": gin.H{
			"securitySchemes": gin.H{
				"ApiKeyAuth": gin.H{
					"type": "apiKey",
					"in":   "header",
					"name": apiKeyHeader,
				},
			},
			"schemas": gin.H{
				"EmailRequest": gin.H{
					"type":     "object",
					"required": []string{"subject", "body", "recipients"},
					"properties": gin.H{
						"subject":    gin.H{"type": "string", "minLength": 1, "maxLength": 500},
						"body":       gin.H{"type": "string"},
						"recipients": gin.H{"type": "array", "items": gin.H{"type": "string", "format": "email"}, "minItems": 1},
						"is_html":    gin.H{"type": "boolean", "default": false},
						"attachments": gin.H{
							"type": "array",
							"items": gin.H{
								"type":     "object",
								"required": []string{"filename", "content"},
								"properties": gin.H{
									"filename":     gin.H{"type": "string"},
									"content":      gin.H{"type": "string", "format": "byte"},
									"content_type": gin.H{"type": "string"},
								},
							},
						},
					},
				},
				"SendResponse": gin.H{
					"type": "object",
					"properties": gin.H{
						"success":    gin.H{"type": "boolean"},
						"message":    gin.H{"type": "string"},
						"timestamp":  gin.H{"type": "string", "format": "date-time"},
						"recipients": gin.H{"type": "array", "items": gin.H{"type": "string"}},
					},
				},
				"ErrorResponse": gin.H{
					"type": "object",
					"properties": gin.H{
						"error":  gin.H{"type": "string"},
						"detail": gin.H{"type": "string"},
						"fields": gin.H{
							"type": "array",
							"items": gin.H{
								"type": "object",
								"properties": gin.H{
									"field":   gin.H{"type": "string"},
									"message": gin.H{"type": "string"},
								},
							},
						},
					},
				},
			},
		},
		"paths": gin.H{
			"/": gin.H{
				"get": gin.H{
					"summary":   "Service metadata",
					"responses": gin.H{"200": gin.H{"description": "Name, version, and docs path"}},
				},
			},
			"/health": gin.H{
				"get": gin.H{
					"summary":   "Configuration summary",
					"responses": gin.H{"200": gin.H{"description": "Delivery configuration without secrets"}},
				},
			},
			"/send-email": gin.H{
				"post": gin.H{
					"summary":  "Send an email",
					"security": []gin.H{{"ApiKeyAuth": []string{}}},
					"requestBody": gin.H{
						"required": true,
						"content": gin.H{
							"application/json": gin.H{"schema": gin.H{"$ref": "#/components/schemas/EmailRequest"}},
						},
					},
					"responses": gin.H{
						"200": gin.H{
							"description": "Message accepted by the delivery backend",
							"content": gin.H{
								"application/json": gin.H{"schema": gin.H{"$ref": "#/components/schemas/SendResponse"}},
							},
						},
						"401": gin.H{"description": "Missing or invalid API key"},
						"403": gin.H{"description": "Client IP not whitelisted"},
						"422": gin.H{
							"description": "Request failed validation",
							"content": gin.H{
								"application/json": gin.H{"schema": gin.H{"$ref": "#/components/schemas/ErrorResponse"}},
							},
						},
						"502": gin.H{"description": "Delivery backend failure"},
					},
				},
			},
		},
	})
}
