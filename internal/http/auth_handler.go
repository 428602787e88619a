package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"soulengine/internal/service"
)

// AuthHandler issues JWT pairs to operators authenticated by shared
// secret.
type AuthHandler struct {
	log  *zap.Logger
	auth *service.AuthService
	jwt  *service.JWTService
}

func NewAuthHandler(log *zap.Logger, auth *service.AuthService, jwt *service.JWTService) *AuthHandler {
	return &AuthHandler{log: log, auth: auth, jwt: jwt}
}

type loginRequest struct {
	Name   string `json:"name" binding:"required"`
	Secret string `json:"secret" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	pair, err := h.auth.Login(req.Name, req.Secret)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	c.JSON(http.StatusOK, pair)
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	pair, err := h.jwt.RefreshPair(req.RefreshToken)
	if err != nil {
		status := http.StatusUnauthorized
		if errors.Is(err, service.ErrJWTExpired) {
			status = http.StatusUnauthorized
		}
		c.JSON(status, gin.H{"error": "invalid refresh token"})
		return
	}
	c.JSON(http.StatusOK, pair)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.jwt.RevokeRefresh(req.RefreshToken); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid refresh token"})
		return
	}
	c.Status(http.StatusNoContent)
}
