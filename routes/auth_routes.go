package routes

import (
	"campusfind/controllers"

	"github.com/gin-gonic/gin"
)

func RegisterAuthRoutes(rg *gin.RouterGroup, container *ServiceContainer) {
	cfg := container.Config
	authController := controllers.NewAuthController(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTExpiration, cfg.AllowedEmailDomain)

	auth := rg.Group("/auth")
	{
		auth.POST("/login", authController.Login)
	}
}
