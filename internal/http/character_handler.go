package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"soulengine/internal/domain"
	"soulengine/internal/engine"
	"soulengine/internal/repository"
	"soulengine/internal/service"
)

// CharacterHandler exposes the character service over HTTP.
type CharacterHandler struct {
	log *zap.Logger
	svc *service.CharacterService
}

func NewCharacterHandler(log *zap.Logger, svc *service.CharacterService) *CharacterHandler {
	return &CharacterHandler{log: log, svc: svc}
}

type createCharacterRequest struct {
	ID               string                       `json:"id" binding:"required"`
	Personality      domain.Personality           `json:"personality" binding:"required"`
	InitHistory      bool                         `json:"init_history"`
	InitPresentation bool                         `json:"init_presentation"`
	InitTriggers     bool                         `json:"init_triggers"`
	InitialBeliefs   []domain.Belief              `json:"initial_beliefs"`
}

func (h *CharacterHandler) CreateCharacter(c *gin.Context) {
	var req createCharacterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	opts := engine.CharacterOptions{
		InitHistory:      req.InitHistory,
		InitPresentation: req.InitPresentation,
		InitBeliefs:      len(req.InitialBeliefs) > 0,
		InitialBeliefs:   req.InitialBeliefs,
		InitTriggers:     req.InitTriggers,
	}

	char, err := h.svc.CreateCharacter(c.Request.Context(), req.ID, req.Personality, opts)
	if err != nil {
		h.respondEngineError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": char.ID, "personality": char.Personality})
}

func (h *CharacterHandler) GetCharacter(c *gin.Context) {
	view, err := h.svc.View(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

type applyInteractionRequest struct {
	Interaction string  `json:"interaction" binding:"required"`
	Intensity   float64 `json:"intensity"`
}

func (h *CharacterHandler) ApplyInteraction(c *gin.Context) {
	var req applyInteractionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Intensity == 0 {
		req.Intensity = 1
	}
	applied, err := h.svc.ApplyInteraction(c.Request.Context(), c.Param("id"), req.Interaction, req.Intensity)
	if err != nil {
		h.respondEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"applied": applied})
}

type processTextRequest struct {
	Text string `json:"text" binding:"required"`
}

func (h *CharacterHandler) ProcessText(c *gin.Context) {
	var req processTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	fired, err := h.svc.ProcessText(c.Request.Context(), c.Param("id"), req.Text)
	if err != nil {
		h.respondEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"fired": fired})
}

type enterSituationRequest struct {
	Situation string   `json:"situation" binding:"required"`
	People    []string `json:"people"`
}

func (h *CharacterHandler) EnterSituation(c *gin.Context) {
	var req enterSituationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.svc.EnterSituation(c.Request.Context(), c.Param("id"), req.Situation, req.People); err != nil {
		h.respondEngineError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CharacterHandler) LeaveSituation(c *gin.Context) {
	if err := h.svc.LeaveSituation(c.Request.Context(), c.Param("id")); err != nil {
		h.respondEngineError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type evaluateBeliefsRequest struct {
	Scene        string `json:"scene"`
	Conversation string `json:"conversation"`
}

func (h *CharacterHandler) EvaluateBeliefs(c *gin.Context) {
	var req evaluateBeliefsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	events, err := h.svc.EvaluateBeliefs(c.Request.Context(), c.Param("id"), req.Scene, req.Conversation)
	if err != nil {
		h.respondEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tipping_events": events})
}

type applyShockRequest struct {
	BeliefIndex int     `json:"belief_index"`
	Direction   int     `json:"direction" binding:"required"`
	Magnitude   float64 `json:"magnitude" binding:"required"`
}

func (h *CharacterHandler) ApplyShock(c *gin.Context) {
	var req applyShockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	applied, err := h.svc.ApplyShock(c.Request.Context(), c.Param("id"), req.BeliefIndex, req.Direction, req.Magnitude)
	if err != nil {
		h.respondEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"applied": applied})
}

func (h *CharacterHandler) respondEngineError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrCharacterNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "character not found"})
	case errors.Is(err, domain.ErrUnknownInteraction),
		errors.Is(err, domain.ErrUnknownEmotion),
		errors.Is(err, domain.ErrUnknownPersonality),
		errors.Is(err, domain.ErrUnknownSituation),
		errors.Is(err, domain.ErrUnknownTopic),
		errors.Is(err, domain.ErrInvalidBeliefIndex):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrLayerNotInitialized), errors.Is(err, domain.ErrEvaluatorNotSet):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.log.Error("character handler error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
