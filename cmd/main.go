package main

import (
	"log"
	"net/http"
	"time"

	"campusfind/config"
	"campusfind/jobs"
	"campusfind/routes"
	"campusfind/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	// Load .env before config so env vars are in place.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	config.LoadConfig()
	cfg := config.AppConfig

	// Initialize MongoDB client
	ctx, cancel := config.CreateContext(10 * time.Second)
	defer cancel()

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	defer func() {
		disconnectCtx, disconnectCancel := config.CreateContext(5 * time.Second)
		defer disconnectCancel()
		if err = mongoClient.Disconnect(disconnectCtx); err != nil {
			log.Printf("Failed to disconnect MongoDB: %v", err)
		}
	}()

	if err = mongoClient.Ping(ctx, nil); err != nil {
		log.Fatalf("Failed to ping MongoDB: %v", err)
	}

	log.Println("Connected to MongoDB successfully")

	db := mongoClient.Database(cfg.DatabaseName)

	container, err := routes.NewServiceContainer(db, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize services: %v", err)
	}
	defer container.SubmitLimiter.Stop()

	if err := container.Store.EnsureIndexes(ctx); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}

	// Demo fixture, loaded once and only into an empty store.
	if cfg.SeedFile != "" {
		loaded, err := services.LoadSeedItems(ctx, container.Store, cfg.SeedFile)
		if err != nil {
			log.Fatalf("Failed to load seed items: %v", err)
		}
		if loaded > 0 {
			log.Printf("Loaded %d seed items from %s", loaded, cfg.SeedFile)
		}
	}

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	router.Use(corsMiddleware(cfg.AllowedOrigins))

	api := router.Group("/api")
	routes.SetupRoutes(api, container)

	// Local storage serves its uploads directly; B2 hands out signed URLs.
	if local, ok := container.Storage.(*services.LocalStorage); ok {
		router.Static("/uploads", local.Dir())
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().UTC(),
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	cleaner := jobs.NewStaleCleaner(container.Store, container.Storage, cfg.ItemRetention, cfg.CleanupInterval)
	cleaner.Start()
	defer cleaner.Stop()

	log.Printf("Starting campusfind server on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(allowedOrigins))
	wildcard := false
	for _, origin := range allowedOrigins {
		if origin == "*" {
			wildcard = true
		}
		allowed[origin] = true
	}

	return func(c *gin.Context) {
		requestOrigin := c.Request.Header.Get("Origin")

		switch {
		case wildcard || len(allowedOrigins) == 0:
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		case allowed[requestOrigin]:
			c.Writer.Header().Set("Access-Control-Allow-Origin", requestOrigin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, Origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, DELETE")
		c.Writer.Header().Set("Access-Control-Max-Age", "86400")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
