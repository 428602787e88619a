// Package engine implements the Soul Engine's six-layer pipeline:
// Core Emotions, History, Presentation, Beliefs, Erosion and
// Triggers, plus the Facade that wires them. Every type here operates
// on *domain.Character and its sub-states; the package itself holds
// no per-character state of its own.
//
// The process-wide registries below (interactions, cross-effects,
// personality multipliers, situations, topics) are immutable after
// the first character is constructed, per spec §5. They are ordinary
// Go maps/slices, not goroutine-guarded: populate them at program
// start, before calling NewCharacter for the first time.
package engine

import (
	"sort"

	"soulengine/internal/domain"
)

// InteractionDelta is a sparse emotion->delta mapping.
type InteractionDelta map[domain.Emotion]float64

// Registry is the process-wide, immutable-after-init collection of
// interaction, cross-effect, personality, situation and topic tables.
// An Engine is constructed around one Registry; multiple Engines may
// share a Registry (it is read-only after construction).
type Registry struct {
	interactions map[string]InteractionDelta
	crossEffects map[domain.Emotion]map[domain.Emotion]float64
	personality  map[domain.Personality]map[domain.Emotion]float64
	situations   map[string]map[domain.Emotion]domain.Modifier
	maskingAbility map[domain.Personality]float64

	topicOrder []string
	topics     map[string]topicEntry
}

type topicEntry struct {
	keywords []string
	deltas   InteractionDelta
}

// NewRegistry returns a registry pre-populated with the shipped
// interaction catalogue, cross-effects matrix, personality
// multipliers, masking abilities, a starter situation catalogue and a
// starter topic registry. Callers may extend it further (AddSituation,
// AddTopic, AddInteraction) before constructing the first character.
// The starter topics are registered in name order.
func NewRegistry() *Registry {
	r := &Registry{
		interactions:   defaultInteractions(),
		crossEffects:   defaultCrossEffects(),
		personality:    defaultPersonalityMultipliers(),
		maskingAbility: defaultMaskingAbility(),
		situations:     defaultSituations(),
		topics:         make(map[string]topicEntry),
	}
	defaults := defaultTopics()
	for name := range defaults {
		r.topicOrder = append(r.topicOrder, name)
	}
	sort.Strings(r.topicOrder)
	for _, name := range r.topicOrder {
		r.topics[name] = defaults[name]
	}
	return r
}

// AddInteraction extends the interaction catalogue. Safe only before
// the first character is constructed.
func (r *Registry) AddInteraction(name string, delta InteractionDelta) {
	r.interactions[name] = delta
}

// AddSituation extends the situation catalogue. Safe only before the
// first character is constructed.
func (r *Registry) AddSituation(name string, modifiers map[domain.Emotion]domain.Modifier) {
	r.situations[name] = modifiers
}

// AddTopic extends the topic registry, preserving registration order
// for reproducible scan results (spec §9). Safe only before the first
// character is constructed.
func (r *Registry) AddTopic(name string, keywords []string, deltas InteractionDelta) {
	if _, exists := r.topics[name]; !exists {
		r.topicOrder = append(r.topicOrder, name)
	}
	r.topics[name] = topicEntry{keywords: keywords, deltas: deltas}
}

func personalityMultiplier(table map[domain.Personality]map[domain.Emotion]float64, p domain.Personality, e domain.Emotion) float64 {
	if m, ok := table[p]; ok {
		if v, ok := m[e]; ok {
			return v
		}
	}
	return 1.0
}

func defaultPersonalityMultipliers() map[domain.Personality]map[domain.Emotion]float64 {
	return map[domain.Personality]map[domain.Emotion]float64{
		domain.PersonalityWorrier: {
			domain.Fear:    1.5,
			domain.Anxiety: 1.4,
			domain.Trust:   0.8,
		},
		domain.PersonalityHothead: {
			domain.Anger:      1.6,
			domain.Fear:       0.7,
			domain.Confidence: 1.1,
		},
		domain.PersonalityStoic: {
			domain.Fear:      0.5,
			domain.Anger:     0.6,
			domain.Anxiety:   0.5,
			domain.Happiness: 0.8,
		},
		domain.PersonalitySocial: {
			domain.Happiness:  1.3,
			domain.Loneliness: 1.4,
			domain.Energy:     1.2,
		},
	}
}

func defaultMaskingAbility() map[domain.Personality]float64 {
	return map[domain.Personality]float64{
		domain.PersonalityDefault: 0.5,
		domain.PersonalityStoic:   0.9,
		domain.PersonalityHothead: 0.2,
		domain.PersonalityWorrier: 0.3,
		domain.PersonalitySocial:  0.6,
	}
}

func defaultInteractions() map[string]InteractionDelta {
	return map[string]InteractionDelta{
		"social": {
			domain.Happiness:  0.2,
			domain.Loneliness: -0.3,
			domain.Trust:      0.1,
		},
		"conflict": {
			domain.Anger:     0.3,
			domain.Trust:     -0.2,
			domain.Happiness: -0.15,
		},
		"achievement": {
			domain.Confidence: 0.3,
			domain.Happiness:  0.2,
			domain.Energy:     0.1,
		},
		"loss": {
			domain.Happiness:  -0.35,
			domain.Loneliness: 0.25,
			domain.Energy:     -0.1,
		},
		"rest": {
			domain.Energy:  0.3,
			domain.Anxiety: -0.1,
		},
		"threat": {
			domain.Fear:   0.35,
			domain.Anger:  0.15,
			domain.Energy: 0.1,
		},
	}
}

// defaultCrossEffects returns the shipped sparse cross-effects matrix
// X. Factors are kept small (|factor| <= 0.3) per spec §4.1.
func defaultCrossEffects() map[domain.Emotion]map[domain.Emotion]float64 {
	return map[domain.Emotion]map[domain.Emotion]float64{
		domain.Fear: {
			domain.Anxiety:   0.3,
			domain.Confidence: -0.2,
		},
		domain.Anger: {
			domain.Trust:  -0.2,
			domain.Energy: 0.1,
		},
		domain.Happiness: {
			domain.Loneliness: -0.2,
			domain.Confidence: 0.15,
		},
		domain.Loneliness: {
			domain.Anxiety: 0.2,
			domain.Trust:   -0.1,
		},
		domain.Trust: {
			domain.Anxiety: -0.15,
		},
		domain.Confidence: {
			domain.Anxiety: -0.2,
		},
	}
}

func defaultSituations() map[string]map[domain.Emotion]domain.Modifier {
	return map[string]map[domain.Emotion]domain.Modifier{
		"loud_party": {
			domain.Happiness: {Bias: 0.5, Strength: 0.4},
			domain.Energy:    {Bias: 0.4, Strength: 0.3},
		},
		"quiet_library": {
			domain.Anxiety: {Bias: -0.1, Strength: 0.2},
			domain.Energy:  {Bias: -0.2, Strength: 0.3},
		},
		"job_interview": {
			domain.Anxiety:    {Bias: -0.3, Strength: 0.6},
			domain.Confidence: {Bias: 0.4, Strength: 0.5},
		},
	}
}

func defaultTopics() map[string]topicEntry {
	return map[string]topicEntry{
		"father": {
			keywords: []string{"father", "dad"},
			deltas: InteractionDelta{
				domain.Anxiety: 0.1,
				domain.Trust:   -0.05,
			},
		},
		"betrayal": {
			keywords: []string{"betray", "betrayal", "backstab"},
			deltas: InteractionDelta{
				domain.Anger: 0.2,
				domain.Trust: -0.3,
			},
		},
		"praise": {
			keywords: []string{"amazing", "proud of you", "well done"},
			deltas: InteractionDelta{
				domain.Happiness:  0.15,
				domain.Confidence: 0.15,
			},
		},
	}
}
