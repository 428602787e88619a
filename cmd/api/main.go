package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"soulengine/internal/config"
	"soulengine/internal/db"
	"soulengine/internal/email"
	"soulengine/internal/engine"
	apihttp "soulengine/internal/http"
	"soulengine/internal/llm"
	"soulengine/internal/llmevaluator"
	"soulengine/internal/repository"
	"soulengine/internal/service"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	characterRepo := repository.NewPgCharacterRepository(pool)
	beliefRepo := repository.NewPgBeliefRepository(pool)
	beliefEmbeddings := repository.NewBeliefEmbeddingRepository(pool)

	var redisClient *redis.Client
	var tokenStore service.RefreshTokenStore
	var cache *service.CharacterCache
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else {
			tokenStore = service.NewRedisRefreshTokenStore(redisClient)
			cache = service.NewCharacterCache(redisClient, 5*time.Minute)
		}
		cancel()
	}

	jwtSvc := service.NewJWTServiceWithStore(
		cfg.JWTSecret,
		time.Duration(cfg.JWTAccessTTLMinutes)*time.Minute,
		time.Duration(cfg.JWTRefreshTTLMinutes)*time.Minute,
		tokenStore,
	)

	operatorStore := service.NewMemoryOperatorStore()
	authSvc := service.NewAuthService(operatorStore, jwtSvc)
	if cfg.OperatorBootstrapSecret != "" {
		if err := authSvc.Provision("bootstrap", cfg.OperatorBootstrapSecret); err != nil {
			logger.Warn("operator bootstrap failed", zap.Error(err))
		}
	}

	emailSender := email.NewDisabledSender("email sender not configured")
	if cfg.SMTPHost != "" {
		sender, err := email.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, cfg.SMTPFromName, cfg.SMTPUseTLS)
		if err != nil {
			logger.Warn("smtp sender init failed", zap.Error(err))
		} else {
			emailSender = sender
		}
	}

	registry := engine.NewRegistry()
	eng := engine.NewEngine(registry, func() float64 { return float64(time.Now().UnixNano()) / float64(time.Second) })
	eng.Erosion.HardeningFactor = cfg.ErosionHardeningFactor
	eng.Triggers.DefaultCooldown = cfg.TriggerDefaultCooldown

	charSvc := service.NewCharacterService(eng, characterRepo, beliefRepo, cache, logger)
	if cfg.LLMAPIKey != "" {
		llmClient := llm.NewHTTPClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, http.DefaultClient)
		judge := llmevaluator.NewJudgeEvaluator(llmClient)
		eng.Beliefs.SetEvaluator(judge.Evaluate)
		charSvc.WithBeliefEmbeddings(llmClient, beliefEmbeddings)
	}

	notifier := service.NewShiftNotifier(emailSender, cfg.ShiftAlertTo, logger)
	notifier.Attach(eng.History)

	authHandler := apihttp.NewAuthHandler(logger, authSvc, jwtSvc)
	charHandler := apihttp.NewCharacterHandler(logger, charSvc)
	router := apihttp.NewRouter(logger, authHandler, charHandler, jwtSvc)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
