package engine

import (
	"strings"

	"soulengine/internal/domain"
)

// Evaluator is the pluggable belief-evaluation capability (spec §6).
// Implementations may be synchronous wrappers around an LLM call; the
// engine treats latency as opaque and never surfaces a pending state.
type Evaluator func(beliefs []domain.Belief, emotions domain.Vector, scene, conversation string) (InteractionDelta, map[int]domain.Impact)

// Beliefs is the text-based belief store with a pluggable evaluator.
type Beliefs struct {
	evaluator Evaluator
}

// NewBeliefs returns a Beliefs component with the shipped default
// keyword evaluator installed. SetEvaluator swaps it for another
// backend.
func NewBeliefs() *Beliefs {
	return &Beliefs{evaluator: DefaultEvaluator}
}

// SetEvaluator installs a new evaluator backend.
func (b *Beliefs) SetEvaluator(e Evaluator) {
	b.evaluator = e
}

// Init seeds char's belief sequence. Beliefs are addressed by stable
// index thereafter and are never reordered.
func (b *Beliefs) Init(char *domain.Character, initial []domain.Belief) {
	char.Beliefs = append([]domain.Belief(nil), initial...)
	for i := range char.Beliefs {
		if char.Beliefs[i].Erosion == (domain.ErosionState{}) {
			char.Beliefs[i].Erosion = domain.DefaultErosionState()
		}
	}
}

// AddBelief appends a new belief and returns its stable index.
func (b *Beliefs) AddBelief(char *domain.Character, belief domain.Belief) int {
	if belief.Erosion == (domain.ErosionState{}) {
		belief.Erosion = domain.DefaultErosionState()
	}
	belief.Strength = domain.Clamp01(belief.Strength)
	belief.Inertia = domain.Clamp01(belief.Inertia)
	char.Beliefs = append(char.Beliefs, belief)
	return len(char.Beliefs) - 1
}

// GetBeliefs returns the full belief sequence.
func (b *Beliefs) GetBeliefs(char *domain.Character) []domain.Belief {
	return char.Beliefs
}

// GetBeliefsByTag returns the stable indices of the beliefs carrying
// the given tag.
func (b *Beliefs) GetBeliefsByTag(char *domain.Character, tag string) []int {
	var idx []int
	for i, belief := range char.Beliefs {
		if belief.HasTag(tag) {
			idx = append(idx, i)
		}
	}
	return idx
}

// Evaluate runs the configured evaluator backend against char's
// beliefs, current emotions, and the given scene/conversation text.
func (b *Beliefs) Evaluate(char *domain.Character, scene, conversation string) (InteractionDelta, map[int]domain.Impact, error) {
	if b.evaluator == nil {
		return nil, nil, domain.ErrEvaluatorNotSet
	}
	deltas, impacts := b.evaluator(char.Beliefs, char.Emotions, scene, conversation)
	validated := make(map[int]domain.Impact, len(impacts))
	for idx, impact := range impacts {
		if idx < 0 || idx >= len(char.Beliefs) {
			continue // evaluator may omit entries; it must not fabricate indices
		}
		validated[idx] = impact
	}
	return deltas, validated, nil
}

// ApplyShock is the scripted, evaluator-bypassing belief update. It
// returns false (no-op) when the shock is blocked by inertia, per
// spec §4.4. It leaves the belief's erosion state untouched;
// Engine.ApplyShock calls this and then resets the erosion pressure
// to zero when the shock was not blocked.
func (b *Beliefs) ApplyShock(char *domain.Character, index int, direction int, magnitude float64) (bool, error) {
	if index < 0 || index >= len(char.Beliefs) {
		return false, domain.ErrInvalidBeliefIndex
	}
	belief := &char.Beliefs[index]
	threshold := 1 - belief.Inertia
	if magnitude <= threshold {
		return false, nil
	}
	delta := float64(direction) * (magnitude - threshold)
	belief.Strength = domain.Clamp01(belief.Strength + delta)
	belief.Inertia = domain.Clamp01(belief.Inertia - 0.05)
	return true, nil
}

// DefaultEvaluator is the deterministic "fake LLM" evaluator shipped
// for testability. It scans the lowercased concatenation of scene and
// conversation for keyword clusters associated with each belief's
// tags; the first cluster to match decides the belief's impact.
func DefaultEvaluator(beliefs []domain.Belief, _ domain.Vector, scene, conversation string) (InteractionDelta, map[int]domain.Impact) {
	text := strings.ToLower(scene + " " + conversation)
	deltas := make(InteractionDelta)
	impacts := make(map[int]domain.Impact)

	for i, belief := range beliefs {
		impact := classifyBelief(text, belief)
		if impact == domain.Neutral {
			continue
		}
		impacts[i] = impact
		s := belief.Strength
		switch impact {
		case domain.Challenged:
			deltas[domain.Anxiety] += 0.1 * s
			deltas[domain.Fear] += 0.05 * s
			deltas[domain.Anger] += 0.03 * s
			deltas[domain.Happiness] -= 0.05 * s
		case domain.Reinforced:
			deltas[domain.Happiness] += 0.05 * s
			deltas[domain.Confidence] += 0.05 * s
			deltas[domain.Anxiety] -= 0.025 * s
		}
	}
	return deltas, impacts
}

// challengeKeywords and reinforceKeywords are per-tag keyword clusters
// used by DefaultEvaluator. A belief with no tags, or whose tags carry
// no configured cluster, is always Neutral.
var challengeKeywords = map[string][]string{
	"trust":     {"betrayed", "lied", "can't trust", "cannot trust"},
	"safety":    {"danger", "unsafe", "threat"},
	"worth":     {"worthless", "useless", "failure"},
	"belonging": {"alone", "abandoned", "nobody wants"},
}

var reinforceKeywords = map[string][]string{
	"trust":     {"kept their word", "reliable", "trustworthy"},
	"safety":    {"protected", "safe now", "secure"},
	"worth":     {"proud of you", "well done", "valuable"},
	"belonging": {"we're here for you", "you belong", "part of us"},
}

func classifyBelief(text string, belief domain.Belief) domain.Impact {
	for _, tag := range belief.Tags {
		for _, kw := range challengeKeywords[tag] {
			if strings.Contains(text, kw) {
				return domain.Challenged
			}
		}
	}
	for _, tag := range belief.Tags {
		for _, kw := range reinforceKeywords[tag] {
			if strings.Contains(text, kw) {
				return domain.Reinforced
			}
		}
	}
	return domain.Neutral
}
