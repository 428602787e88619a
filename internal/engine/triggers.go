package engine

import (
	"regexp"
	"strings"
	"sync"

	"soulengine/internal/domain"
)

// defaultCooldownTurns is the number of turns a topic stays dormant
// after firing (spec §4.6), used when Triggers.DefaultCooldown is
// unset.
const defaultCooldownTurns = 3

// Triggers is the word-boundary keyword-scan layer: fast, surface
// level, and deterministic, as opposed to Beliefs' slow,
// evaluator-dependent reasoning.
type Triggers struct {
	registry *Registry
	core     *Core

	// DefaultCooldown overrides defaultCooldownTurns when positive.
	DefaultCooldown int

	mu          sync.Mutex
	wordPattern map[string]*regexp.Regexp
}

// NewTriggers binds a Triggers component to the given registry and
// Core (Triggers nudges core emotions on fire).
func NewTriggers(registry *Registry, core *Core) *Triggers {
	return &Triggers{
		registry:        registry,
		core:            core,
		DefaultCooldown: defaultCooldownTurns,
		wordPattern:     make(map[string]*regexp.Regexp),
	}
}

func (tr *Triggers) cooldown() int {
	if tr.DefaultCooldown > 0 {
		return tr.DefaultCooldown
	}
	return defaultCooldownTurns
}

// Init attaches a fresh TriggerState, applying any per-character
// sensitivity overrides supplied by the caller.
func (tr *Triggers) Init(char *domain.Character, overrides map[string]domain.Sensitivity) {
	char.Triggers = domain.NewTriggerState()
	for topic, s := range overrides {
		sc := s
		char.Triggers.Sensitivities[topic] = &sc
	}
}

// keywordPattern compiles (and caches) a word-boundary regex for a
// keyword. Word-boundary semantics per spec §4.6: a keyword matches
// only when both adjacent characters, if present, are non-word
// characters. A literal keyword may itself contain spaces ("multi
// word" phrases), so we can't use \b (which only understands single
// alnum/underscore characters) directly — instead we match
// (?:^|[^\w])keyword(?:[^\w]|$) against the lowercased haystack.
func (tr *Triggers) keywordPattern(keyword string) *regexp.Regexp {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	if re, ok := tr.wordPattern[keyword]; ok {
		return re
	}
	re := regexp.MustCompile(`(?:^|[^0-9A-Za-z_])` + regexp.QuoteMeta(keyword) + `(?:[^0-9A-Za-z_]|$)`)
	tr.wordPattern[keyword] = re
	return re
}

func (tr *Triggers) matches(lowerText, keyword string) bool {
	return tr.keywordPattern(strings.ToLower(keyword)).MatchString(lowerText)
}

// ProcessText scans text against every topic not currently on
// cooldown, firing each topic whose keywords match. Topics are
// iterated in registration order for reproducibility (spec §9).
func (tr *Triggers) ProcessText(char *domain.Character, text string) ([]domain.FiredTopic, error) {
	if char.Triggers == nil {
		return nil, domain.ErrLayerNotInitialized
	}
	lower := strings.ToLower(text)
	var fired []domain.FiredTopic
	for _, name := range tr.registry.topicOrder {
		if char.Triggers.Cooldowns[name] > 0 {
			continue
		}
		entry := tr.registry.topics[name]
		hit := false
		for _, kw := range entry.keywords {
			if tr.matches(lower, kw) {
				hit = true
				break
			}
		}
		if !hit {
			continue
		}
		ft, err := tr.fire(char, name, entry)
		if err != nil {
			return fired, err
		}
		fired = append(fired, ft)
	}
	return fired, nil
}

// TriggerTopic fires a single named topic directly, bypassing the
// keyword scan, regardless of cooldown state observed by the caller
// (the cooldown is still set afterward).
func (tr *Triggers) TriggerTopic(char *domain.Character, name string) (domain.FiredTopic, error) {
	if char.Triggers == nil {
		return domain.FiredTopic{}, domain.ErrLayerNotInitialized
	}
	entry, ok := tr.registry.topics[name]
	if !ok {
		return domain.FiredTopic{}, domain.ErrUnknownTopic
	}
	return tr.fire(char, name, entry)
}

func (tr *Triggers) fire(char *domain.Character, name string, entry topicEntry) (domain.FiredTopic, error) {
	sens := char.Triggers.Sensitivities[name]

	effectiveDeltas := entry.deltas
	if sens != nil && sens.HasOverride {
		effectiveDeltas = sens.OverrideDeltas
	}
	intensity := 1.0
	if sens != nil {
		intensity = sens.Intensity
	}

	applied := make(InteractionDelta, len(effectiveDeltas))
	for e, delta := range effectiveDeltas {
		got, err := tr.core.Nudge(char, e, delta*intensity)
		if err != nil {
			return domain.FiredTopic{}, err
		}
		applied[e] = got
	}

	if sens != nil {
		sens.TimesTriggered++
		sens.Intensity -= sens.DesensitizeRate
		if sens.Intensity < sens.MinIntensity {
			sens.Intensity = sens.MinIntensity
		}
	}

	char.Triggers.Cooldowns[name] = tr.cooldown()

	times := 0
	if sens != nil {
		times = sens.TimesTriggered
	}
	return domain.FiredTopic{
		Topic:          name,
		AppliedDeltas:  applied,
		Intensity:      intensity,
		TimesTriggered: times,
	}, nil
}

// AdvanceTurn decrements every positive cooldown by one; cooldowns
// already at zero stay at zero.
func (tr *Triggers) AdvanceTurn(char *domain.Character) error {
	if char.Triggers == nil {
		return domain.ErrLayerNotInitialized
	}
	for name, cd := range char.Triggers.Cooldowns {
		if cd > 0 {
			char.Triggers.Cooldowns[name] = cd - 1
		}
	}
	return nil
}

// GetSensitiveTopics returns the names of every topic with a
// per-character sensitivity override configured.
func (tr *Triggers) GetSensitiveTopics(char *domain.Character) []string {
	if char.Triggers == nil {
		return nil
	}
	var out []string
	for _, name := range tr.registry.topicOrder {
		if _, ok := char.Triggers.Sensitivities[name]; ok {
			out = append(out, name)
		}
	}
	return out
}
