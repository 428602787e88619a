package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"soulengine/internal/service"
)

// NewRouter configures the Gin router with middleware and routes.
func NewRouter(
	logger *zap.Logger,
	authH *AuthHandler,
	charH *CharacterHandler,
	jwtSvc *service.JWTService,
) *gin.Engine {
	r := gin.New()

	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	auth := r.Group("/auth")
	auth.POST("/login", authH.Login)
	auth.POST("/refresh", authH.Refresh)
	auth.POST("/logout", authH.Logout)

	characters := r.Group("/characters", JWTAuthMiddleware(jwtSvc))
	characters.POST("", charH.CreateCharacter)
	characters.GET("/:id", charH.GetCharacter)
	characters.POST("/:id/interactions", charH.ApplyInteraction)
	characters.POST("/:id/text", charH.ProcessText)
	characters.POST("/:id/situation", charH.EnterSituation)
	characters.DELETE("/:id/situation", charH.LeaveSituation)
	characters.POST("/:id/beliefs/evaluate", charH.EvaluateBeliefs)
	characters.POST("/:id/beliefs/shock", charH.ApplyShock)

	return r
}

// zapLoggerMiddleware logs each request with structured fields via zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware forces Content-Type: application/json on responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
