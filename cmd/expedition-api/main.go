// README: Entry point; loads config, wires services, starts the HTTP server.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"expedition/internal/ai"
	"expedition/internal/config"
	"expedition/internal/geo"
	"expedition/internal/hotels"
	httptransport "expedition/internal/http"
	"expedition/internal/infra"
	"expedition/internal/modules/history"
	"expedition/internal/planner"
	"expedition/internal/rates"
	"expedition/internal/render"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := infra.NewLogger(cfg.Log.Level, cfg.Log.Format)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisClient := infra.NewRedis(cfg.Redis.Addr)

	geoSvc, err := geo.NewService(cfg.Maps.APIKey, redisClient, logger)
	if err != nil {
		logger.Fatal("maps init", zap.Error(err))
	}
	imageClient := geo.NewImageClient()

	llm, err := ai.NewGeminiProvider(ctx, cfg.AI.GeminiKey, cfg.AI.Model)
	if err != nil {
		logger.Fatal("gemini init", zap.Error(err))
	}
	defer llm.Close()

	hotelClient := hotels.NewClient(cfg.Amadeus.APIKey, cfg.Amadeus.APISecret, cfg.Amadeus.BaseURL, logger)
	rateSvc := rates.NewService(cfg.Rates.Endpoint, redisClient, cfg.Rates.CacheTTL, logger)
	renderer := render.New(cfg.Artifacts.Dir, cfg.Artifacts.MaxAge, logger)

	plannerDeps := planner.Deps{
		Geocoder:     geoSvc,
		POIs:         geoSvc,
		Hotels:       hotelClient,
		LLM:          llm,
		Renderer:     renderer,
		StageTimeout: cfg.Planner.StageTimeout,
		Log:          logger,
	}

	// History is optional: without a DSN the service runs stateless.
	var historyStore *history.Store
	if cfg.DB.DSN != "" {
		dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
		if err != nil {
			logger.Fatal("db init", zap.Error(err))
		}
		defer dbPool.Close()

		historyStore = history.NewStore(dbPool)
		if err := historyStore.EnsureSchema(ctx); err != nil {
			logger.Fatal("db schema", zap.Error(err))
		}
		plannerDeps.Archiver = historyStore
	}

	routerDeps := httptransport.Deps{
		Planner:   planner.New(plannerDeps),
		Rates:     rateSvc,
		Artifacts: renderer,
		Geo:       geoSvc,
		Images:    imageClient,
		Log:       logger,
	}
	if historyStore != nil {
		routerDeps.History = historyStore
	}

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: httptransport.NewRouter(routerDeps)}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warn("shutdown", zap.Error(err))
		}
	}()

	logger.Info("listening", zap.String("addr", cfg.HTTP.Addr))
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("serve", zap.Error(err))
	}
}
