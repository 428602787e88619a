package engine

import "soulengine/internal/domain"

// PreHook transforms the scaled base delta before cross-effects are
// computed. It receives the character, the interaction name and the
// current base map, and returns the (possibly new) base map that
// replaces it for the rest of the pipeline.
type PreHook func(char *domain.Character, name string, base InteractionDelta) InteractionDelta

// PostHook observes the applied delta after commit. Post-hooks may
// mutate other layers' state on char, but must never mutate
// char.Emotions.
type PostHook func(char *domain.Character, name string, applied InteractionDelta)

// Core is the Core Emotions component: it owns the apply-interaction
// pipeline, the nudge path, and hook dispatch. It holds no
// per-character state; everything it touches lives on the
// domain.Character passed in.
type Core struct {
	registry  *Registry
	preHooks  []PreHook
	postHooks []PostHook
}

// NewCore returns a Core bound to the given registry with no hooks
// registered. RegisterPreHook/RegisterPostHook add hooks in the order
// they must run.
func NewCore(registry *Registry) *Core {
	return &Core{registry: registry}
}

// RegisterPreHook appends a pre-hook. Pre-hooks run in registration
// order.
func (c *Core) RegisterPreHook(h PreHook) {
	c.preHooks = append(c.preHooks, h)
}

// RegisterPostHook appends a post-hook. Post-hooks run in registration
// order.
func (c *Core) RegisterPostHook(h PostHook) {
	c.postHooks = append(c.postHooks, h)
}

// Emotions returns a read-only copy of char's current emotion vector.
func (c *Core) Emotions(char *domain.Character) domain.Vector {
	return char.Emotions.Clone()
}

// Emotion returns a single emotion's current value. err is
// domain.ErrUnknownEmotion if e is not a member of E.
func (c *Core) Emotion(char *domain.Character, e domain.Emotion) (float64, error) {
	if !domain.IsValidEmotion(e) {
		return 0, domain.ErrUnknownEmotion
	}
	return char.Emotions[e], nil
}

// ApplyInteraction runs the full seven-step pipeline described in spec
// §4.1 and returns the applied deltas (post personality scaling, pre
// the next call's observation — i.e. exactly what got committed).
func (c *Core) ApplyInteraction(char *domain.Character, name string, intensity float64) (InteractionDelta, error) {
	catalogue, ok := c.registry.interactions[name]
	if !ok {
		return nil, domain.ErrUnknownInteraction
	}
	if !char.Personality.IsValid() {
		return nil, domain.ErrUnknownPersonality
	}

	// Step 2: scale.
	base := make(InteractionDelta, len(catalogue))
	for e, v := range catalogue {
		base[e] = v * intensity
	}

	// Step 3: pre-hooks, registration order, each may replace base.
	for _, hook := range c.preHooks {
		base = hook(char, name, base)
	}

	// Step 4: cross-effects, single pass over post-pre-hook base only.
	cross := make(map[domain.Emotion]float64, len(domain.Emotions))
	for _, source := range domain.Emotions {
		sourceDelta, ok := base[source]
		if !ok || sourceDelta == 0 {
			continue
		}
		targets := c.registry.crossEffects[source]
		for _, target := range domain.Emotions {
			factor, ok := targets[target]
			if !ok {
				continue
			}
			cross[target] += sourceDelta * factor
		}
	}

	// Step 5: sum and scale by personality multiplier.
	applied := make(InteractionDelta, len(domain.Emotions))
	for _, e := range domain.Emotions {
		sum := base[e] + cross[e]
		if sum == 0 {
			continue
		}
		mult := personalityMultiplier(c.registry.personality, char.Personality, e)
		applied[e] = sum * mult
	}

	// Step 6: commit.
	for e, delta := range applied {
		char.Emotions[e] = domain.Clamp(char.Emotions[e] + delta)
	}

	// Step 7: post-hooks, registration order, observational only.
	for _, hook := range c.postHooks {
		hook(char, name, applied)
	}

	return applied, nil
}

// Nudge is the single-emotion path: personality-scaled, clamped,
// hook-less and cross-effect-less. It is the surgical tool used by
// Triggers and scripted events; aggregated state settles on the next
// full ApplyInteraction call.
func (c *Core) Nudge(char *domain.Character, e domain.Emotion, delta float64) (float64, error) {
	if !domain.IsValidEmotion(e) {
		return 0, domain.ErrUnknownEmotion
	}
	if !char.Personality.IsValid() {
		return 0, domain.ErrUnknownPersonality
	}
	mult := personalityMultiplier(c.registry.personality, char.Personality, e)
	applied := delta * mult
	char.Emotions[e] = domain.Clamp(char.Emotions[e] + applied)
	return applied, nil
}
