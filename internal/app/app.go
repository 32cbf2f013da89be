package app

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"vibro/internal/config"
	"vibro/internal/handlers"
	"vibro/internal/repositories"
	"vibro/internal/routes"
	"vibro/internal/services"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	_ "vibro/docs"
)

func Run() {
	cfg := config.LoadConfig()

	// === DB ===
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.Fatal("failed to open database: ", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("failed to close database: %v", err)
		}
	}()

	// === Redis (rate-limit counters) ===
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	// === Repos ===
	userRepo := repositories.NewUserRepository(db)
	sessionRepo := repositories.NewSessionRepository(db)
	verificationRepo := repositories.NewVerificationRepository(db)
	resetRepo := repositories.NewPasswordResetRepository(db)
	videoRepo := repositories.NewVideoRepository(db)
	commentRepo := repositories.NewCommentRepository(db)

	// === Services ===
	authService := services.NewAuthService()
	emailService := services.NewEmailService(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPUser,
		cfg.Email.SMTPPassword,
		cfg.Email.FromEmail,
	)
	alertService := services.NewAlertService(cfg.Telegram.BotToken, cfg.Telegram.OpsChatID)

	limiter := services.NewRedisLoginLimiter(rdb, cfg.RateLimit.MaxAttempts, time.Duration(cfg.RateLimit.WindowSec)*time.Second)
	captchaService := services.NewCaptchaService(cfg.Captcha)
	codeService := services.NewVerificationCodeService(verificationRepo, emailService, time.Duration(cfg.CodeTTLSec)*time.Second)

	sessionService, err := services.NewSessionService(
		sessionRepo,
		cfg.Session.Secret,
		cfg.Session.KDFSalt,
		time.Duration(cfg.Session.ShortTTLSec)*time.Second,
		time.Duration(cfg.Session.LongTTLSec)*time.Second,
	)
	if err != nil {
		log.Fatal("failed to init session service: ", err)
	}

	loginService := services.NewLoginService(userRepo, authService, limiter, captchaService, codeService, sessionService, alertService)
	googleService := services.NewGoogleAuthService(cfg.Google)
	userService := services.NewUserService(userRepo, authService, codeService, emailService)
	resetService := services.NewPasswordResetService(userRepo, resetRepo, emailService, authService)

	videoService := services.NewVideoService(
		videoRepo,
		cfg.Files.RootDir,
		cfg.Files.MaxUploadMB,
		cfg.Files.GrantSecret,
		time.Duration(cfg.Files.GrantTTLMin)*time.Minute,
	)
	commentService := services.NewCommentService(commentRepo, videoRepo)

	// === Handlers ===
	authHandler := handlers.NewAuthHandler(loginService, googleService, userService, sessionService,
		cfg.Session.ShortTTLSec, cfg.Session.LongTTLSec)
	userHandler := handlers.NewUserHandler(userService, resetService)
	videoHandler := handlers.NewVideoHandler(videoService)
	commentHandler := handlers.NewCommentHandler(commentService)

	// === Gin ===
	router := gin.Default()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.HandleMethodNotAllowed = true
	router.MaxMultipartMemory = 32 << 20

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	routes.SetupRoutes(
		router,
		authHandler,
		userHandler,
		videoHandler,
		commentHandler,
		sessionService,
		userService,
	)

	// === Run ===
	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("server listening on %s", listenAddr)
	if err := router.Run(listenAddr); err != nil {
		log.Fatal("server failed: ", err)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization, X-Upload-Grant, X-Video-Title, X-Video-Description")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
