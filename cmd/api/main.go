package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"go-service-market/internal/core/auth"
	"go-service-market/internal/core/cache"
	"go-service-market/internal/core/config"
	"go-service-market/internal/core/database"
	"go-service-market/internal/core/logger"
	"go-service-market/internal/core/server"
	"go-service-market/internal/domain"
	"go-service-market/internal/service"
	"go-service-market/internal/storage"
	"go-service-market/internal/transport/http/handler"
	"go-service-market/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := logger.New(cfg.Log.Level, cfg.Log.JSON)
	defer cleanup()

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 数据库（失败会直接 Fatal）
	db := mustOpenDB(cfg, log)
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	if cfg.DB.AutoMigrate {
		if err := domain.AutoMigrate(db); err != nil {
			log.Fatal("automigrate failed", zap.Error(err))
		}
		log.Info("automigrate done")
	}

	jwter := &auth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
	}

	store := mustOpenStorage(cfg, log)
	uploadsDir := ""
	if cfg.Storage.Driver != "s3" {
		uploadsDir = cfg.Storage.LocalRoot
	}

	var rc *cache.Cache
	if cfg.Redis.Addr != "" {
		rc = cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		log.Info("redis cache enabled", zap.String("addr", cfg.Redis.Addr))
	}

	// 业务装配
	profiles := service.NewProfileService(db)
	accounts := service.NewAccountService(db, jwter, cfg.Auth.BcryptCost)
	recruiters := service.NewRecruiterService(db, jwter, cfg.Auth.BcryptCost,
		time.Duration(cfg.Auth.InviteTTLHours)*time.Hour)
	onboarding := service.NewOnboardingService(db, profiles, cfg.Auth.BcryptCost, cfg.Auth.TempPasswordLen)
	documents := service.NewDocumentService(db, store, log, int64(cfg.Storage.MaxUploadMB))
	catalog := service.NewCatalogService(db, rc)
	bookings := service.NewBookingService(db)
	dashboard := service.NewDashboardService(db, rc)
	commissions := service.NewCommissionService(db)

	r := router.NewAPIEngine(router.Deps{
		Log:         log,
		JWTer:       jwter,
		Auth:        handler.NewAuthHandler(accounts),
		Profiles:    handler.NewProfileHandler(profiles),
		Catalog:     handler.NewCatalogHandler(catalog),
		Bookings:    handler.NewBookingHandler(bookings),
		Recruiter:   handler.NewRecruiterHandler(recruiters),
		Offline:     handler.NewOfflineHandler(onboarding, documents, dashboard, commissions),
		CORSOrigins: cfg.CORS.Origins,
		UploadsDir:  uploadsDir,
	})

	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)

	host4human := cfg.App.HTTP.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.HTTP.Port)
	log.Info("api starting",
		zap.String("addr", addr),
		zap.String("health", baseURL+"/health"),
		zap.String("api", baseURL+"/api"),
	)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("api start FAILED", zap.Error(err))
		}
	}()
	log.Info("api started")

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	log.Info("api stopped gracefully")
}

func mustOpenDB(cfg *config.Config, l *zap.Logger) *gorm.DB {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
	})
	if err != nil {
		l.Fatal("db open", zap.Error(err))
	}
	return db
}

func mustOpenStorage(cfg *config.Config, l *zap.Logger) storage.Store {
	switch cfg.Storage.Driver {
	case "s3":
		s, err := storage.NewS3Store(storage.S3Opts{
			Endpoint:      cfg.Storage.Endpoint,
			Region:        cfg.Storage.Region,
			Bucket:        cfg.Storage.Bucket,
			AccessKey:     cfg.Storage.AccessKey,
			SecretKey:     cfg.Storage.SecretKey,
			UseSSL:        cfg.Storage.UseSSL,
			PublicBaseURL: cfg.Storage.PublicBaseURL,
		})
		if err != nil {
			l.Fatal("s3 storage open", zap.Error(err))
		}
		return s
	default:
		s, err := storage.NewLocalStore(cfg.Storage.LocalRoot, cfg.Storage.PublicBaseURL)
		if err != nil {
			l.Fatal("local storage open", zap.Error(err))
		}
		return s
	}
}
