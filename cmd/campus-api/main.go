// README: Entry point; loads config and rates, wires collaborators and the fee engine, starts HTTP.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"campusgo/internal/config"
	httptransport "campusgo/internal/http"
	"campusgo/internal/infra"
	"campusgo/internal/logger"
	"campusgo/internal/modules/calendar"
	"campusgo/internal/modules/distance"
	"campusgo/internal/modules/fees"
	"campusgo/internal/modules/order"
	"campusgo/internal/modules/rates"
	"campusgo/internal/modules/region"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	zlog, err := logger.New(cfg.Log.Level)
	if err != nil {
		log.Fatal(err)
	}
	defer zlog.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		zlog.Fatal("postgres init", zap.Error(err))
	}
	redisClient := infra.NewRedis(cfg.Redis.Addr)

	// An invalid rate table is the one startup-fatal condition: the
	// engine must not price orders against a broken configuration.
	rateCfg, err := loadRates(ctx, cfg, dbPool, zlog)
	if err != nil {
		zlog.Fatal("rate configuration", zap.Error(err))
	}

	calendarSvc := calendar.NewService(rateCfg.Calendar, zlog)
	if err := calendarSvc.LoadHolidays(ctx); err != nil {
		zlog.Warn("holiday feed load failed", zap.Error(err))
	}

	var routeAPI distance.RouteAPI
	if cfg.Maps.APIKey != "" {
		routeAPI, err = distance.NewGoogleRoutes(cfg.Maps.APIKey)
		if err != nil {
			zlog.Fatal("maps client init", zap.Error(err))
		}
	} else {
		zlog.Warn("no maps API key, all distances fall back to straight-line")
	}
	distanceSvc := distance.NewService(routeAPI, distance.NewStore(redisClient, zlog), zlog)

	regions, err := region.NewStore(dbPool).LoadRegions(ctx)
	if err != nil {
		zlog.Warn("region load failed, all coordinates price at the neutral multiplier", zap.Error(err))
	}
	regionSvc := region.NewService(regions, region.NewCache(redisClient, zlog), zlog)

	engine := fees.NewEngine(rateCfg, distanceSvc, regionSvc, calendarSvc, zlog)
	orderStore := order.NewStore(dbPool)

	router := httptransport.NewRouter(engine, orderStore, zlog)
	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: router}

	go func() {
		<-ctx.Done()
		_ = server.Shutdown(context.Background())
	}()

	zlog.Info("listening", zap.String("addr", cfg.HTTP.Addr))
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		zlog.Fatal("http server", zap.Error(err))
	}
}

// loadRates prefers the database tables when enabled and falls back to
// the YAML file, so local runs work without seeded fee tables. Both paths
// validate; an invalid table from either source is fatal upstream.
func loadRates(ctx context.Context, cfg config.Config, dbPool *pgxpool.Pool, zlog *zap.Logger) (*rates.Config, error) {
	if cfg.Rates.FromDB {
		rateCfg, err := rates.NewStore(dbPool).Load(ctx)
		if err == nil {
			return rateCfg, nil
		}
		zlog.Warn("rates load from database failed, falling back to file",
			zap.String("file", cfg.Rates.File), zap.Error(err))
	}
	return rates.LoadFile(cfg.Rates.File)
}
