package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/kunotice/notice-backend/internal/common"
	"github.com/kunotice/notice-backend/internal/config"
	"github.com/kunotice/notice-backend/internal/database"
	"github.com/kunotice/notice-backend/internal/handler"
	"github.com/kunotice/notice-backend/internal/middleware"
	"github.com/kunotice/notice-backend/internal/migration"
	"github.com/kunotice/notice-backend/internal/repository"
	"github.com/kunotice/notice-backend/internal/routes"
	"github.com/kunotice/notice-backend/internal/service"
	pkgcache "github.com/kunotice/notice-backend/pkg/cache"
	"github.com/kunotice/notice-backend/pkg/jwt"
	pkglogger "github.com/kunotice/notice-backend/pkg/logger"
	pkgredis "github.com/kunotice/notice-backend/pkg/redis"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// @title           Notice Backend API
// @version         1.0
// @description     학과/기관 공지 모아보기 API
//
// @host            localhost:8081
// @BasePath        /
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Authorization header using the Bearer scheme. Example: "Bearer {token}"

func main() {
	env := os.Getenv("APP_ENV")
	dotenvFiles := config.LoadDotEnv(env)

	// 로거 초기화
	pkglogger.Init(env)
	pkglogger.Info("APP_ENV=%s, loaded env files: %v", env, dotenvFiles)

	// 설정 로드
	configPath := config.Path(env)
	pkglogger.Info("Loading config from: %s", configPath)
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	config.LogResolved(cfg)

	// DB 연결 + 마이그레이션
	db, err := database.Open(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	pkglogger.Info("Connected to %s", cfg.Database.Driver)
	if err := migration.Run(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	// Redis 연결 (선택)
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = pkgredis.NewClient(context.Background(), pkgredis.Options{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err != nil {
			pkglogger.Warn("Failed to connect to Redis: %v (continuing without Redis)", err)
			redisClient = nil
		} else {
			pkglogger.Info("Connected to Redis")
		}
	}

	var cacheService pkgcache.Service
	if redisClient != nil {
		cacheService = pkgcache.NewService(redisClient)
	}

	jwtManager := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.ExpiresIn)

	// Repositories / services / handlers
	noticeService := service.NewNoticeService(
		repository.NewNoticeRepository(db),
		repository.NewScrapRepository(db),
		repository.NewScrapBoxRepository(db),
		repository.NewNoticeRequestRepository(db),
	)
	categoryService := service.NewCategoryService(repository.NewCategoryRepository(db), cacheService)

	noticeHandler := handler.NewNoticeHandler(noticeService)
	categoryHandler := handler.NewCategoryHandler(categoryService)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	// CORS 설정
	allowOrigins := common.SplitList(cfg.CORS.AllowOrigins)
	if len(allowOrigins) == 0 {
		allowOrigins = []string{"http://localhost:3000"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Remaining", "Retry-After"},
		MaxAge:           12 * time.Hour,
	}))

	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.Metrics())
	router.Use(middleware.RequestLogger())

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Health Check
	router.GET("/health", healthHandler(db))

	// Swagger UI
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	routes.Setup(router, noticeHandler, categoryHandler, jwtManager, redisClient, cfg.RateLimit.RequestsPerMinute)

	router.NoRoute(func(c *gin.Context) {
		common.ErrorResponse(c, http.StatusNotFound, "not found", nil)
	})

	// 서버 시작
	addr := ":" + strconv.Itoa(cfg.Server.Port)
	pkglogger.Info("Server listening on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func healthHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		middleware.SetDBConnectionsOpen(database.OpenConnections(db))

		status, code := "ok", http.StatusOK
		if err := database.Ping(db); err != nil {
			status, code = "degraded", http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":  status,
			"service": "notice-backend",
			"time":    time.Now().Unix(),
		})
	}
}
