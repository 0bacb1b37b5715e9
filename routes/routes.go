package routes

import (
	"fmt"

	"campusfind/config"
	"campusfind/middleware"
	"campusfind/services"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
)

// SetupRoutes registers every API route group on the /api router.
func SetupRoutes(api *gin.RouterGroup, container *ServiceContainer) {
	RegisterAuthRoutes(api, container)
	RegisterItemRoutes(api, container)
}

// ServiceContainer holds all services and dependencies wired from config.
type ServiceContainer struct {
	Config        *config.Config
	Store         *services.MongoItemStore
	Storage       services.ImageStorage
	Matcher       *services.MatchService
	Submission    *services.SubmissionService
	Lifecycle     *services.LifecycleService
	SubmitLimiter *middleware.SubmitLimiter
}

// NewServiceContainer initializes the storage backend chosen in config and
// the services on top of the Mongo-backed item store.
func NewServiceContainer(db *mongo.Database, cfg *config.Config) (*ServiceContainer, error) {
	store := services.NewMongoItemStore(db)

	var storage services.ImageStorage
	switch cfg.StorageBackend {
	case "b2":
		b2, err := services.NewB2Storage(cfg.B2ApplicationKeyID, cfg.B2ApplicationKey, cfg.B2BucketName)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize B2 storage: %w", err)
		}
		storage = b2
	case "local":
		local, err := services.NewLocalStorage(cfg.UploadDir, cfg.PublicBaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize local storage: %w", err)
		}
		storage = local
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}

	matcher := services.NewMatchService(cfg.MatchServiceURL, cfg.MatchTimeout)

	return &ServiceContainer{
		Config:        cfg,
		Store:         store,
		Storage:       storage,
		Matcher:       matcher,
		Submission:    services.NewSubmissionService(store, storage, matcher, cfg.MaxUploadSize),
		Lifecycle:     services.NewLifecycleService(store, storage),
		SubmitLimiter: middleware.NewSubmitLimiter(cfg.SubmitRatePerMinute, cfg.SubmitBurst),
	}, nil
}
