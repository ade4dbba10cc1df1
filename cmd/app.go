package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/business-nexus/backend/internal/application/config"
	"github.com/business-nexus/backend/internal/application/constant"
	"github.com/business-nexus/backend/internal/application/metric"
	"github.com/business-nexus/backend/internal/infra/adapters/memory"
	"github.com/business-nexus/backend/internal/infra/adapters/postgres"
	"github.com/business-nexus/backend/internal/infra/adapters/postgres/repository"
	"github.com/business-nexus/backend/internal/infra/ports/http/handlers"
	"github.com/business-nexus/backend/internal/infra/ports/http/server"
	"github.com/business-nexus/backend/internal/usecase"
)

func runApp() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	slog.SetDefault(
		slog.New(
			slog.NewJSONHandler(
				os.Stdout,
				&slog.HandlerOptions{Level: slog.LevelInfo},
			),
		),
	)

	cfg, err := config.New()
	if err != nil {
		slog.Error("parse config", slog.Any(constant.Error, err))
		os.Exit(1)
	}

	slog.Info("Running app", slog.Bool("debug", cfg.Debug))

	dbConn, err := postgres.NewPostgres(ctx, cfg.Postgres.DSN())
	if err != nil {
		slog.Error("connect to postgres", slog.Any(constant.Error, err))
		os.Exit(1)
	}
	defer dbConn.Close()

	userRepo := repository.NewUserRepo(dbConn)
	meetingRepo := repository.NewMeetingRepo(dbConn)
	connRepo := memory.NewConnectionRepository()
	presenceRepo := memory.NewPresenceRepository()
	roomRepo := memory.NewRoomRepository()

	userUsecase := usecase.NewUserUsecase([]byte(cfg.JWTSecret), userRepo, presenceRepo)
	meetingUsecase := usecase.NewMeetingUsecase(meetingRepo, userRepo, presenceRepo, connRepo)
	signalingUsecase := usecase.NewSignalingUsecase(meetingRepo, presenceRepo, roomRepo, connRepo)

	authHandler := handlers.NewAuthHandler(userUsecase)
	meetingHandler := handlers.NewMeetingHandler(meetingUsecase)
	iceHandler := handlers.NewIceHandler(cfg)
	wsHandler := handlers.NewWebSocketHandler(cfg, signalingUsecase, connRepo)

	echoSrv := server.New(cfg, authHandler, meetingHandler, iceHandler, wsHandler)

	metricsSrv := metric.NewServer()

	echoSrvCh := make(chan error, 1)
	metricsSrvCh := make(chan error, 1)

	go func() {
		echoSrvCh <- echoSrv.Start(":" + cfg.Port)
	}()

	go func() {
		metricsSrvCh <- metricsSrv.Start(":" + cfg.MetricPort)
	}()

	select {
	case <-ctx.Done():
		slog.Info("Shutting down servers due to context cancel")
	case err := <-echoSrvCh:
		slog.Error(
			"HTTP server failed",
			slog.Any(constant.Error, err),
		)
		os.Exit(1)
	case err := <-metricsSrvCh:
		slog.Error(
			"Metrics server failed",
			slog.Any(constant.Error, err),
		)
		os.Exit(1)
	}

	timeoutCtx, timeoutCancel := context.WithTimeout(ctx, 5*time.Second)
	defer timeoutCancel()

	if err := echoSrv.Shutdown(timeoutCtx); err != nil {
		slog.Error("Failed to gracefully shutdown HTTP server", slog.Any(constant.Error, err))
	}

	if err := metricsSrv.Shutdown(timeoutCtx); err != nil {
		slog.Error("Failed to gracefully shutdown metric server", slog.Any(constant.Error, err))
	}
}
