package routes

import (
	"campusfind/controllers"
	"campusfind/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterItemRoutes(rg *gin.RouterGroup, container *ServiceContainer) {
	itemController := controllers.NewItemController(container.Store, container.Submission, container.Lifecycle, container.Config.MaxUploadSize)

	items := rg.Group("/items")
	{
		// Browsing is public; no identity needed to read the bulletin.
		items.GET("", itemController.ListItems)
		items.GET("/:id", itemController.GetItem)
	}

	authed := rg.Group("/items")
	authed.Use(middleware.AuthMiddleware(container.Config.JWTSecret))
	{
		authed.POST("", container.SubmitLimiter.Middleware(), itemController.SubmitItem)
		authed.DELETE("/:id", itemController.MarkFound)
	}
}
