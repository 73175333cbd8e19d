package api

func (s *Server) registerRoutes() {
	s.engine.GET("/", s.handleRoot)
	s.engine.GET("/health", s.handleHealth)

	// Documentation is gated by the IP whitelist only
	docs := s.engine.Group("/", s.requireWhitelist())
	docs.GET("/docs", s.handleSwaggerUI)
	docs.GET("/redoc", s.handleReDoc)
	docs.GET("/openapi.json", s.handleOpenAPI)

	protected := s.engine.Group("/", s.requireAccess())
	protected.POST("/send-email", s.handleSendEmail)
}
