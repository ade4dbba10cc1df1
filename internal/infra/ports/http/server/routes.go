package server

import (
	"github.com/labstack/echo/v4"

	"github.com/business-nexus/backend/internal/application/config"
	"github.com/business-nexus/backend/internal/infra/ports/http/handlers"
	"github.com/business-nexus/backend/internal/infra/ports/http/middleware"
)

func New(
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	meetingHandler *handlers.MeetingHandler,
	iceHandler *handlers.IceHandler,
	wsHandler *handlers.WebSocketHandler,
) *echo.Echo {
	e := echo.New()

	e.HideBanner = true

	e.Use(middleware.SlogLogger())
	e.Use(middleware.PrometheusMiddleware())

	api := e.Group("/api")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}

		v1 := api.Group("/v1")
		v1.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
		{
			v1.GET("/me", authHandler.GetMe)

			v1.GET("/ice", iceHandler.IceServers)

			v1.GET("/ws", wsHandler.Handle)

			v1.GET("/meetings", meetingHandler.ListMeetingsHandler)
			v1.POST("/meetings", meetingHandler.CreateMeetingHandler)
			v1.GET("/meetings/:id", meetingHandler.GetMeetingHandler)
			v1.DELETE("/meetings/:id", meetingHandler.DeleteMeetingHandler)

			v1.GET("/users/online", authHandler.GetOnlineUsers)
		}
	}

	e.Static("/", "web")

	return e
}
