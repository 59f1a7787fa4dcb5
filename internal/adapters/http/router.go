package http

import (
	"context"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Parley/internal/adapters/chat"
	"github.com/dkeye/Parley/internal/app/coord"
	"github.com/dkeye/Parley/internal/config"
)

func genClientToken() string {
	idStr := uuid.NewString()
	return idStr
}

// ClientTokenMiddleware tags the browser with a stable token so the
// web client can be recognized across page loads. Connection ids stay
// per-websocket; this token never substitutes for one.
func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie("ct")
		if token == "" {
			token = genClientToken()
			c.SetCookie("ct", token, 3600*24*7, "/", "", false, true)
		}
		c.Set("client_token", token)
		c.Next()
	}
}

func SetupRouter(ctx context.Context, cfg *config.Config, c *coord.Coordinator) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(cfg.Secret))
	r.Use(sessions.Sessions("ParleySessions", store))
	r.Use(ClientTokenMiddleware())

	r.Static("/static", cfg.StaticPath)
	r.GET("/", func(gc *gin.Context) {
		gc.File(cfg.StaticPath + "/index.html")
	})

	log.Info().Str("module", "adapters.http").Str("static", cfg.StaticPath).Msg("router setup")

	ctrl := chat.NewChatWSController(c, cfg)

	api := r.Group("/api")

	api.GET("/ws/chat", func(gc *gin.Context) {
		log.Info().Str("module", "adapters.http").Str("ct", gc.GetString("client_token")).Msg("ws chat endpoint hit")
		ctrl.HandleChat(ctx, gc)
	})

	// Room listing reads the store directly; it never takes the
	// coordinator's intent lock.
	api.GET("/rooms", func(gc *gin.Context) {
		gc.JSON(http.StatusOK, c.Rooms.List())
	})

	r.GET("/healthz", func(gc *gin.Context) {
		gc.String(http.StatusOK, "ok")
	})

	return r
}
