package api

import "github.com/gin-gonic/gin"

func RegisterRoutes(r *gin.Engine, s *Service) {
	api := r.Group("/api")
	{
		api.GET("/health", health)
		api.POST("/filter", s.filterHandler)
		api.POST("/merge", mergeHandler)
		api.POST("/compose", s.composeHandler)
		api.GET("/qr", qrHandler)
	}
}
