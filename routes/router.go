package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/wordseek/seekengine/config"
	"github.com/wordseek/seekengine/controllers"
	"github.com/wordseek/seekengine/daily"
	"github.com/wordseek/seekengine/game"
	"github.com/wordseek/seekengine/metrics"
	"github.com/wordseek/seekengine/middleware"
	"github.com/wordseek/seekengine/utils"
)

// Deps are the engines the HTTP surface drives.
type Deps struct {
	Config    config.AppConfig
	Games     *game.Engine
	Authority *game.Authority
	Daily     *daily.Engine
	Log       *zap.Logger
}

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(d Deps) *gin.Engine {
	cfg := d.Config
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.AccessLog(log))
	r.Use(middleware.Recovery(log))
	r.Use(metrics.GinMiddleware())

	corsCfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 0 || (len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*") {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})
	r.GET("/metrics", metrics.Handler())

	gameController := controllers.NewGameController(d.Games, d.Authority)
	enderController := controllers.NewEnderController(d.Authority)
	dailyController := controllers.NewDailyController(d.Daily)
	moderationController := controllers.NewModerationController(d.Authority)

	api := r.Group("/api/v1")
	api.Use(middleware.ServiceAuth(cfg.JWTSecret), middleware.RateLimit(cfg.RateLimitPerMinute))

	chats := api.Group("/chats/:chatId")
	chats.POST("/games", gameController.StartGame)
	chats.GET("/games", gameController.Status)
	chats.POST("/guesses", gameController.Guess)
	chats.POST("/end", gameController.End)
	chats.GET("/votes", gameController.Votes)
	chats.GET("/enders", enderController.List)
	chats.POST("/enders", enderController.Grant)
	chats.DELETE("/enders/:userId", enderController.Revoke)
	chats.GET("/topics", moderationController.ListTopics)
	chats.POST("/topics", moderationController.SetTopic)
	chats.DELETE("/topics/:topicId", moderationController.UnsetTopic)

	api.GET("/bans", moderationController.ListBans)
	api.POST("/bans", moderationController.Ban)
	api.DELETE("/bans/:userId", moderationController.Unban)

	api.GET("/daily/today", dailyController.Today)

	users := api.Group("/users/:userId")
	users.POST("/daily", dailyController.Start)
	users.DELETE("/daily", dailyController.Pause)
	users.GET("/daily", dailyController.InProgress)
	users.POST("/daily/guesses", dailyController.Guess)
	users.GET("/streak", dailyController.Streak)

	r.NoRoute(func(ctx *gin.Context) {
		if strings.HasPrefix(ctx.Request.URL.Path, "/api/") {
			utils.Error(ctx, http.StatusNotFound, 40400, "api route not found")
			return
		}
		utils.Error(ctx, http.StatusNotFound, 40400, "not found")
	})

	return r
}
