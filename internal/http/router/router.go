package router

import (
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"

	"github.com/ignatzorin/barter-backend/internal/config"
	"github.com/ignatzorin/barter-backend/internal/domain/valueobject"
	"github.com/ignatzorin/barter-backend/internal/http/middleware"
	"github.com/ignatzorin/barter-backend/internal/interface/http/handler"
)

// Handlers: все обработчики, которые вешаются на маршруты.
type Handlers struct {
	Auth    *handler.AuthHandler
	Project *handler.ProjectHandler
	Bid     *handler.BidHandler
	Health  *handler.HealthHandler
	// WS может быть nil: тогда /api/ws не регистрируется.
	WS *handler.WSHandler
}

func SetupRouter(
	cfg *config.Config,
	h Handlers,
	auth middleware.Authenticator,
	authLimiter *limiter.Limiter,
) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestLogger(), middleware.Recovery())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", h.Health.Health)

	api := r.Group("/api")
	api.GET("/health", h.Health.Health)

	requireAuth := middleware.AuthMiddleware(auth)
	clientOnly := middleware.RequireRoles(valueobject.RoleClient)
	freelancerOnly := middleware.RequireRoles(valueobject.RoleFreelancer)

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", middleware.RateLimitMiddleware(authLimiter), h.Auth.Register)
		authGroup.POST("/login", middleware.RateLimitMiddleware(authLimiter), h.Auth.Login)
		authGroup.GET("/profile", requireAuth, h.Auth.GetProfile)
		authGroup.PUT("/profile", requireAuth, h.Auth.UpdateProfile)
	}

	projects := api.Group("/projects")
	{
		projects.GET("", h.Project.ListProjects)
		projects.GET("/my-projects", requireAuth, h.Project.ListMyProjects)
		projects.GET("/:id", middleware.UUIDValidator("id"), h.Project.GetProject)
		projects.POST("", requireAuth, clientOnly, h.Project.CreateProject)
		projects.PATCH("/:id/status", requireAuth, middleware.UUIDValidator("id"), h.Project.UpdateProjectStatus)
		projects.DELETE("/:id", requireAuth, middleware.UUIDValidator("id"), h.Project.DeleteProject)
	}

	bids := api.Group("/bids")
	bids.Use(requireAuth)
	{
		bids.POST("", freelancerOnly, h.Bid.SubmitBid)
		bids.GET("/my-bids", h.Bid.ListMyBids)
		bids.GET("/project/:projectId", middleware.UUIDValidator("projectId"), h.Bid.ListProjectBids)
		bids.PATCH("/:id/status", middleware.UUIDValidator("id"), h.Bid.UpdateBidStatus)
	}

	if h.WS != nil {
		api.GET("/ws", h.WS.Handle)
	}

	return r
}
