package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/mawahib/portal/internal/config"
	"github.com/mawahib/portal/internal/handler"
	"github.com/mawahib/portal/internal/middleware"
	"github.com/mawahib/portal/internal/model"
	"github.com/mawahib/portal/internal/response"
	"github.com/mawahib/portal/internal/session"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth          *handler.AuthHandler
	View          *handler.ViewHandler
	Page          *handler.PageHandler
	Scholarship   *handler.ScholarshipHandler
	Report        *handler.ReportHandler
	Admin         *handler.AdminHandler
	Profile       *handler.ProfileHandler
	Notifications *handler.NotificationHandler
	Health        *handler.HealthHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	store session.Store,
	loginLimiter *middleware.RateLimiter,
	handlers *Handlers,
	cfg *config.Config,
	log zerolog.Logger,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// The session travels in a cookie, so origins are echoed rather than
	// answered with "*". Without AllowedOrigins every origin is echoed (dev).
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowOriginFunc = func(string) bool { return true }
	}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Health check.
	router.GET("/health", handlers.Health.Health)

	sessions := middleware.Session(store, middleware.SessionCookie{
		Name:   cfg.SessionCookie,
		TTL:    cfg.SessionTTL,
		Secure: cfg.CookieSecure,
	}, log)

	api := router.Group("/api")
	api.Use(middleware.NoStore(), sessions)

	// ─── 0. Public Group (No Auth) ─────────────────────────────────────
	auth := api.Group("/auth")
	{
		auth.POST("/login", loginLimiter.Middleware(), handlers.Auth.Login)
		auth.POST("/signup", loginLimiter.Middleware(), handlers.Auth.Signup)
		auth.POST("/forgot-password", loginLimiter.Middleware(), handlers.Auth.ForgotPassword)
		auth.POST("/reset-password/:token", loginLimiter.Middleware(), handlers.Auth.ResetPassword)
		auth.POST("/logout", handlers.Auth.Logout)
		auth.GET("/me", handlers.Auth.Me)
	}
	api.GET("/view", handlers.View.Resolve)
	api.GET("/view/routes", handlers.View.Routes)

	// ─── 1. Signed-in Group ────────────────────────────────────────────
	signedIn := api.Group("")
	signedIn.Use(middleware.RequireAuth())
	{
		signedIn.GET("/notifications", handlers.Notifications.Drain)

		signedIn.GET("/profile", middleware.RequirePath("/profile"), handlers.Profile.Get)
		signedIn.PUT("/profile", middleware.RequirePath("/profile"), handlers.Profile.Update)

		// Each page is gated by the route rules of its browser path.
		pages := signedIn.Group("/pages")
		{
			pages.GET("", handlers.Page.Catalogue)
			pages.GET("/:page", handlers.Page.Mount)
			pages.DELETE("/:page", handlers.Page.Unmount)
			pages.POST("/:page", handlers.Page.Create)
			pages.PUT("/:page/:id", handlers.Page.Update)
			pages.DELETE("/:page/:id", handlers.Page.Remove)
		}

		scholarship := signedIn.Group("/scholarship")
		scholarship.Use(middleware.RequirePath("/student/scholarship-student-form"))
		{
			scholarship.GET("", handlers.Scholarship.Get)
			scholarship.POST("", handlers.Scholarship.Create)
			scholarship.PUT("", handlers.Scholarship.Save)
		}

		reports := signedIn.Group("/reports")
		reports.Use(middleware.RequirePath("/student-report"))
		{
			reports.GET("/form", handlers.Report.Form)
			reports.POST("", handlers.Report.Submit)
			reports.PUT("/:id", handlers.Report.Edit)
			reports.POST("/items/:kind", handlers.Report.AddItem)
		}
	}

	// ─── 2. Staff Group ────────────────────────────────────────────────
	admin := api.Group("/admin")
	{
		dashboards := admin.Group("")
		dashboards.Use(middleware.RequireRole(model.RoleAdmin, model.RoleEmployee))
		{
			dashboards.GET("/summary", handlers.Admin.Summary)
			dashboards.GET("/overview", handlers.Admin.Overview)
		}

		users := admin.Group("/users")
		users.Use(middleware.RequirePath("/admin-dashboard"))
		{
			users.GET("", handlers.Admin.Users)
			users.PUT("/:id/role", handlers.Admin.UpdateRole)
		}
	}

	// ─── 3. WebSocket Group ────────────────────────────────────────────
	wsGroup := router.Group("/ws")
	wsGroup.Use(sessions)
	{
		wsGroup.GET("/notifications", handlers.Notifications.Stream)
	}

	return router
}
