package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/schedule-sync/api/swagger"
	"github.com/noah-isme/schedule-sync/internal/handler"
	internalmiddleware "github.com/noah-isme/schedule-sync/internal/middleware"
	"github.com/noah-isme/schedule-sync/pkg/config"
	"github.com/noah-isme/schedule-sync/pkg/logger"
	corsmiddleware "github.com/noah-isme/schedule-sync/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/schedule-sync/pkg/middleware/requestid"
)

const shutdownTimeout = 10 * time.Second

// Router builds the bridge engine.
func (a *App) Router() *gin.Engine {
	if a.Config.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(a.Logger.Named("bridge")))
	r.Use(corsmiddleware.New(a.Config.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(a.Metrics))

	bridge := handler.NewBridge(a.Store, a.Saga, a.Validator, a.Config.Bridge.WaitTimeout, a.Logger.Named("bridge"))
	handler.NewRoutes(bridge, a.Metrics, a.Exports).Mount(r)

	if a.Config.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
	return r
}

// Serve runs the bridge until ctx is done, then shuts it down gracefully.
func (a *App) Serve(ctx context.Context) error {
	addr := fmt.Sprintf("127.0.0.1:%d", a.Config.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           a.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	cleanupCtx, stopCleanup := context.WithCancel(ctx)
	defer stopCleanup()
	go a.Exports.RunCleanup(cleanupCtx, time.Hour)

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Sugar().Infow("bridge starting", "addr", addr, "env", a.Config.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	a.Logger.Sugar().Infow("bridge stopping")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown bridge: %w", err)
	}
	return <-errCh
}
