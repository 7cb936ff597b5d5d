package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-todo-tasks/internal/config"
	"github.com/adanyl0v/go-todo-tasks/internal/delivery/http/middleware"
	"github.com/adanyl0v/go-todo-tasks/internal/delivery/http/v1"
	"github.com/adanyl0v/go-todo-tasks/internal/services"
)

func MustListenAndServeHTTP() {
	cfg := config.Global()
	if cfg.Env != config.EnvLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	httpCfg := cfg.HTTP

	err := v1.RegisterValidators()
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to register validators")
		panic(err)
	}

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(globalLogger))
	router.Use(gin.Recovery())
	router.Use(middleware.Metrics())
	router.Use(middleware.CORS(httpCfg.CORSAllowOrigins))
	registerRoutes(router)

	server := &http.Server{
		Addr:    net.JoinHostPort(httpCfg.Host, httpCfg.Port),
		Handler: router,
	}

	go func() {
		globalLogger.Info().
			Str("host", httpCfg.Host).
			Str("port", httpCfg.Port).
			Msg("setting up http server")
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			globalLogger.Error().
				Err(err).
				Msg("failed to listen and serve http")
			panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	// SIGKILL can't be caught
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	globalLogger.Info().
		Str("signal", sig.String()).
		Dur("timeout", httpCfg.ShutdownTimeout).
		Msg("shutting down http server")

	ctx, cancel := context.WithTimeout(context.Background(), httpCfg.ShutdownTimeout)
	defer cancel()

	err = server.Shutdown(ctx)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to shutdown http server")
		panic(err)
	}
	globalLogger.Info().Msg("shut down http server")
}

func registerRoutes(router *gin.Engine) {
	v1Handler := v1.New(
		globalLogger,
		services.NewUserService(globalLogger, globalUsers),
		services.NewTaskService(globalLogger, globalUsers),
		services.NewSubtaskService(globalLogger, globalUsers),
		globalUsers,
	)

	router.GET("/healthz", v1Handler.HandleHealth)
	router.GET("/metrics", gin.WrapH(middleware.MetricsHandler()))

	v1.Register(router.Group("/api/v1"), v1Handler)
}
