package engine

import "soulengine/internal/domain"

// CharacterOptions configures the optional sub-layers a Facade wires
// onto a new character. Zero-value fields take the documented
// defaults (or skip that layer entirely when Init* is false).
type CharacterOptions struct {
	InitHistory      bool
	HistoryAlpha     float64
	InitPresentation bool
	InitBeliefs      bool
	InitialBeliefs   []domain.Belief
	InitTriggers     bool
	TriggerOverrides map[string]domain.Sensitivity
}

// Engine is the fully wired bundle of layers sharing one Registry,
// one Core, one time source. Construct one Engine per process (or per
// isolated test) and call NewCharacter for every character it owns.
type Engine struct {
	Registry     *Registry
	Core         *Core
	History      *History
	Presentation *Presentation
	Beliefs      *Beliefs
	Erosion      *Erosion
	Triggers     *Triggers
}

// NewEngine wires every layer against registry (or, if registry is
// nil, NewRegistry()) and the given time source, and registers the
// canonical post-hooks once for the whole Engine. NewCharacter
// registers no hooks; it only initialises the layers its options
// request.
func NewEngine(registry *Registry, timeSource TimeSource) *Engine {
	if registry == nil {
		registry = NewRegistry()
	}
	core := NewCore(registry)
	eng := &Engine{
		Registry:     registry,
		Core:         core,
		History:      NewHistory(timeSource),
		Presentation: NewPresentation(registry),
		Beliefs:      NewBeliefs(),
		Erosion:      NewErosion(timeSource),
		Triggers:     NewTriggers(registry, core),
	}

	// Canonical post-hook wiring (spec §4.7): history first, so
	// baselines update before presentation recomputes on those new
	// emotion values; presentation second. Hook registration is
	// global per Engine instance, not per character — each hook
	// no-ops for characters that never initialised that layer, so
	// registering once here (rather than per NewCharacter call)
	// avoids firing the same hook twice for characters that do.
	core.RegisterPostHook(func(char *domain.Character, name string, applied InteractionDelta) {
		if char.History == nil {
			return
		}
		_ = eng.History.Update(char, name, applied)
	})
	core.RegisterPostHook(eng.Presentation.OnCoreChange())

	return eng
}

// NewCharacter constructs a fully wired character: personality tag,
// zeroed emotions, and whichever sub-layers opts requests. No
// pre-hooks are registered by default; advanced integrations may call
// Core.RegisterPreHook directly.
func (eng *Engine) NewCharacter(id string, personality domain.Personality, opts CharacterOptions) (*domain.Character, error) {
	if !personality.IsValid() {
		return nil, domain.ErrUnknownPersonality
	}
	char := domain.NewCharacter(id, personality)

	if opts.InitHistory {
		eng.History.Init(char, opts.HistoryAlpha)
	}
	if opts.InitPresentation {
		eng.Presentation.Init(char)
	}
	if opts.InitBeliefs {
		eng.Beliefs.Init(char, opts.InitialBeliefs)
	}
	if opts.InitTriggers {
		eng.Triggers.Init(char, opts.TriggerOverrides)
	}
	return char, nil
}

// ApplyShock performs the Open Question decision from spec §9: a
// successful shock resets the belief's erosion pressure to zero, in
// the same call. It calls Beliefs.ApplyShock and then zeroes the
// belief's erosion pressure itself rather than leaving the reset to
// callers.
func (eng *Engine) ApplyShock(char *domain.Character, index int, direction int, magnitude float64) (bool, error) {
	applied, err := eng.Beliefs.ApplyShock(char, index, direction, magnitude)
	if err != nil || !applied {
		return applied, err
	}
	if index >= 0 && index < len(char.Beliefs) {
		char.Beliefs[index].Erosion.Pressure = 0
	}
	return true, nil
}
