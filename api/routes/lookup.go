package routes

import (
	"github.com/gin-gonic/gin"

	"threatlens/internal/handlers"
	"threatlens/internal/services"
)

func InitLookupRoutes(router *gin.RouterGroup, lookupService services.LookupServiceMethods) {
	lookupHandlers := handlers.NewLookupHandler(lookupService)

	router.POST("/breach-check", lookupHandlers.BreachCheck)
	router.GET("/news", lookupHandlers.News)
	router.POST("/summarize", lookupHandlers.Summarize)
	router.GET("/intel", lookupHandlers.DomainIntel)
}
