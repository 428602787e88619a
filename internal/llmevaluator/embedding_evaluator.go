package llmevaluator

import (
	"context"
	"strings"

	"soulengine/internal/domain"
	"soulengine/internal/engine"
	"soulengine/internal/llm"
	"soulengine/internal/repository"
)

// EmbeddingEvaluator classifies beliefs by semantic distance between
// the scene/conversation embedding and each belief's stored
// embedding, rather than JudgeEvaluator's direct LLM judgement. A
// close match decides which belief is in play; a keyword pass over
// the raw text then decides the sign, since embedding distance alone
// carries no polarity.
type EmbeddingEvaluator struct {
	client      llm.Client
	embeddings  *repository.BeliefEmbeddingRepository
	characterID string
	Threshold   float64
}

func NewEmbeddingEvaluator(client llm.Client, embeddings *repository.BeliefEmbeddingRepository, characterID string) *EmbeddingEvaluator {
	return &EmbeddingEvaluator{client: client, embeddings: embeddings, characterID: characterID, Threshold: 0.35}
}

// Evaluate satisfies engine.Evaluator.
func (e *EmbeddingEvaluator) Evaluate(beliefs []domain.Belief, _ domain.Vector, scene, conversation string) (engine.InteractionDelta, map[int]domain.Impact) {
	if e.client == nil || e.embeddings == nil || len(beliefs) == 0 {
		return nil, nil
	}
	text := scene + " " + conversation
	vec, err := e.client.CreateEmbedding(context.Background(), text)
	if err != nil || len(vec) == 0 {
		return nil, nil
	}
	matches, err := e.embeddings.Nearest(context.Background(), e.characterID, vec, len(beliefs))
	if err != nil {
		return nil, nil
	}

	lower := strings.ToLower(text)
	deltas := make(engine.InteractionDelta)
	impacts := make(map[int]domain.Impact)
	for _, m := range matches {
		if m.Distance > e.Threshold || m.BeliefIndex < 0 || m.BeliefIndex >= len(beliefs) {
			continue
		}
		impact := classifyPolarity(lower)
		if impact == domain.Neutral {
			continue
		}
		impacts[m.BeliefIndex] = impact
		s := beliefs[m.BeliefIndex].Strength
		if impact == domain.Challenged {
			deltas[domain.Anxiety] += 0.08 * s
		} else {
			deltas[domain.Confidence] += 0.08 * s
		}
	}
	return deltas, impacts
}

var negativePolarity = []string{"betray", "lied", "unsafe", "danger", "worthless", "alone", "abandoned"}
var positivePolarity = []string{"proud", "trust", "safe", "reliable", "belong"}

func classifyPolarity(text string) domain.Impact {
	for _, w := range negativePolarity {
		if strings.Contains(text, w) {
			return domain.Challenged
		}
	}
	for _, w := range positivePolarity {
		if strings.Contains(text, w) {
			return domain.Reinforced
		}
	}
	return domain.Neutral
}
