package routes

import (
	"github.com/gin-gonic/gin"

	"threatlens/internal/handlers"
	"threatlens/internal/services"
)

func InitScanRoutes(router *gin.RouterGroup, scanService services.ScanServiceMethods) {
	scanHandlers := handlers.NewScanHandler(scanService)

	scanRoutes := router.Group("/scan")
	{
		scanRoutes.POST("", scanHandlers.SubmitScan)
		scanRoutes.POST("/file", scanHandlers.SubmitFileScan)
		scanRoutes.GET("/history", scanHandlers.History)
		scanRoutes.GET("/report/:id", scanHandlers.Report)
	}
}
