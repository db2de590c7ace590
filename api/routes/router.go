package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"threatlens/internal/dao"
	"threatlens/internal/handlers"
	"threatlens/internal/services"
)

// InitRouter wires the HTTP surface. Services are built by the caller so
// the same instances back both the API and the background workers.
func InitRouter(db *gorm.DB, scanService services.ScanServiceMethods, lookupService services.LookupServiceMethods) *gin.Engine {
	router := gin.Default()

	userDao := dao.NewUserDAO(db)
	contactHandlers := handlers.NewContactHandler(dao.NewContactDAO(db))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		api.POST("/contact", contactHandlers.Submit)

		authed := api.Group("")
		authed.Use(handlers.AuthRequired(userDao))
		{
			InitScanRoutes(authed, scanService)
			InitLookupRoutes(authed, lookupService)
		}
	}

	return router
}
