package domain

import "errors"

// Error taxonomy per spec §7. Every member here is a programmer error
// surfaced at the call site — the engine never logs, retries or
// swallows them.
var (
	ErrUnknownInteraction  = errors.New("soulengine: unknown interaction")
	ErrUnknownEmotion      = errors.New("soulengine: unknown emotion")
	ErrUnknownPersonality  = errors.New("soulengine: unknown personality")
	ErrUnknownSituation    = errors.New("soulengine: unknown situation")
	ErrUnknownTopic        = errors.New("soulengine: unknown topic")
	ErrInvalidBeliefIndex  = errors.New("soulengine: invalid belief index")
	ErrEvaluatorNotSet     = errors.New("soulengine: evaluator not configured")
	ErrLayerNotInitialized = errors.New("soulengine: layer not initialized")
)
