package api

import "github.com/gin-gonic/gin"

func SetupRoutes(router *gin.Engine, handler *Handler) {
	api := router.Group("/api")
	{
		api.GET("/health", handler.Health)
		api.GET("/city", handler.GetCity)
		api.GET("/records", handler.GetRecords)
		api.GET("/stats", handler.GetStats)
		api.GET("/districts", handler.GetDistricts)

		api.GET("/map/heat", handler.GetHeatLayer)
		api.GET("/map/markers", handler.GetMarkers)
		api.GET("/map/hulls", handler.GetDistrictHulls)

		api.POST("/model/run", handler.RunModel)
		api.GET("/model/runs", handler.GetModelRuns)
	}
}
