package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/cppla/yatube/config"
	"github.com/cppla/yatube/controllers"
	"github.com/cppla/yatube/middleware"
	"github.com/cppla/yatube/repository"
	"github.com/cppla/yatube/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB, feed utils.FeedCache) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg); err == nil {
		r.Use(ginzap.Ginzap(gl, time.RFC3339, true))
		r.Use(ginzap.RecoveryWithZap(gl, true))
	} else {
		utils.Sugar.Warnf("gin logger unavailable, using default recovery: %v", err)
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Location"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))
	r.Use(middleware.Metrics())
	r.Use(middleware.PageViewRecorder(db))
	r.Use(middleware.Authenticate())

	repos := repository.New(db)
	media := &utils.MediaStore{
		Root:     cfg.MediaRoot,
		URL:      cfg.MediaURL,
		MaxBytes: int64(cfg.MaxUploadMB) << 20,
		DB:       db,
	}
	postController := controllers.NewPostController(repos, feed, media)
	commentController := controllers.NewCommentController(repos)
	followController := controllers.NewFollowController(repos)
	authController := controllers.NewAuthController(repos)
	adminController := controllers.NewAdminController(repos, feed)
	statsController := controllers.NewStatsController(db)

	limiter := middleware.RateLimitMiddleware()
	login := middleware.LoginRequired()

	r.Static(strings.TrimSuffix(cfg.MediaURL, "/"), cfg.MediaRoot)
	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/api/v1/stats", statsController.GetStats)

	auth := r.Group("/auth", limiter)
	auth.GET("/login/", authController.Login)
	auth.POST("/login/", authController.Login)
	auth.POST("/signup/", authController.Signup)
	auth.POST("/logout/", middleware.AuthRequired(), authController.Logout)
	auth.GET("/me/", middleware.AuthRequired(), authController.Me)

	admin := r.Group("/admin", middleware.AuthRequired(), middleware.AdminRequired())
	admin.GET("/groups/", adminController.ListGroups)
	admin.POST("/groups/", adminController.CreateGroup)
	admin.DELETE("/groups/:slug/", adminController.DeleteGroup)
	admin.POST("/cache/clear/", adminController.ClearFeedCache)

	r.GET("/", postController.Index)
	r.GET("/group/:slug/", postController.GroupPosts)
	r.GET("/new/", login, postController.NewPost)
	r.POST("/new/", login, limiter, postController.NewPost)
	r.GET("/follow/", login, postController.FollowIndex)

	r.GET("/:username/", postController.Profile)
	r.GET("/:username/follow/", login, followController.ProfileFollow)
	r.POST("/:username/follow/", login, followController.ProfileFollow)
	r.GET("/:username/unfollow/", login, followController.ProfileUnfollow)
	r.POST("/:username/unfollow/", login, followController.ProfileUnfollow)
	r.GET("/:username/:post_id/", postController.PostView)
	r.GET("/:username/:post_id/edit/", login, postController.PostEdit)
	r.POST("/:username/:post_id/edit/", login, limiter, postController.PostEdit)
	r.GET("/:username/:post_id/comment/", login, commentController.AddComment)
	r.POST("/:username/:post_id/comment/", login, limiter, commentController.AddComment)
	r.POST("/:username/:post_id/delete/", login, postController.PostDelete)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Respond(ctx, http.StatusNotFound, 40400, "page not found", gin.H{"path": ctx.Request.URL.Path})
	})

	return r
}
