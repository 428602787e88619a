package engine

import "soulengine/internal/domain"

// Presentation derives the outward-facing, situation-and-person
// masked emotion vector from core state. The presented vector is a
// cache; core + situation + people is the only source of truth.
type Presentation struct {
	registry *Registry
}

// NewPresentation binds a Presentation component to the given
// registry.
func NewPresentation(registry *Registry) *Presentation {
	return &Presentation{registry: registry}
}

// Init attaches a fresh PresentationState to char.
func (p *Presentation) Init(char *domain.Character) {
	char.Presentation = domain.NewPresentationState()
}

// EnterSituation activates a situation and the given present people,
// then recomputes the presented vector.
func (p *Presentation) EnterSituation(char *domain.Character, name string, people []string) error {
	if char.Presentation == nil {
		return domain.ErrLayerNotInitialized
	}
	if _, ok := p.registry.situations[name]; !ok {
		return domain.ErrUnknownSituation
	}
	char.Presentation.ActiveSituation = name
	char.Presentation.ActivePeople = append([]string(nil), people...)
	p.recompute(char)
	return nil
}

// LeaveSituation clears the active situation; the presented cache is
// then dropped since no situation means presented == core.
func (p *Presentation) LeaveSituation(char *domain.Character) error {
	if char.Presentation == nil {
		return domain.ErrLayerNotInitialized
	}
	char.Presentation.ActiveSituation = ""
	char.Presentation.ActivePeople = nil
	char.Presentation.Presented = nil
	return nil
}

// SetPersonModifier registers (or clears, when mods is nil) a
// per-emotion override for personID, recomputing the presented vector
// when a situation is active.
func (p *Presentation) SetPersonModifier(char *domain.Character, personID string, mods domain.PersonModifiers) error {
	if char.Presentation == nil {
		return domain.ErrLayerNotInitialized
	}
	if mods == nil {
		delete(char.Presentation.PersonMods, personID)
	} else {
		char.Presentation.PersonMods[personID] = mods
	}
	if char.Presentation.ActiveSituation != "" {
		p.recompute(char)
	}
	return nil
}

// GetPerceived returns the presented vector. With no active situation
// it is exactly the core vector (spec invariant 4).
func (p *Presentation) GetPerceived(char *domain.Character) domain.Vector {
	if char.Presentation == nil || char.Presentation.ActiveSituation == "" {
		return char.Emotions.Clone()
	}
	if char.Presentation.Presented == nil {
		p.recompute(char)
	}
	return char.Presentation.Presented.Clone()
}

// GetMaskingStrain returns the derived strain scalar: the average gap
// between core and presented, normalised so an average gap of 0.5
// maps to strain 1.
func (p *Presentation) GetMaskingStrain(char *domain.Character) float64 {
	if char.Presentation == nil || char.Presentation.ActiveSituation == "" {
		return 0
	}
	presented := p.GetPerceived(char)
	var sum float64
	for _, e := range domain.Emotions {
		diff := char.Emotions[e] - presented[e]
		if diff < 0 {
			diff = -diff
		}
		sum += diff
	}
	mean := sum / float64(len(domain.Emotions))
	return domain.Clamp01(mean / 0.5)
}

// OnCoreChange is the post-hook factory: it recomputes the presented
// vector whenever a core-emotion change occurs while a situation is
// active. Registering it as a Core post-hook is what keeps presented
// a pure, always-fresh function of core state.
func (p *Presentation) OnCoreChange() PostHook {
	return func(char *domain.Character, _ string, applied InteractionDelta) {
		if char.Presentation == nil || char.Presentation.ActiveSituation == "" {
			return
		}
		p.recompute(char)
	}
}

func (p *Presentation) recompute(char *domain.Character) {
	st := char.Presentation
	situation := p.registry.situations[st.ActiveSituation]
	masking := p.registry.maskingAbility[char.Personality]

	presented := char.Emotions.Clone()
	for e, core := range char.Emotions {
		mod, active := situation[e]
		if !active {
			continue
		}
		bias := mod.Bias
		strength := mod.Strength

		for _, person := range st.ActivePeople {
			personMods, ok := st.PersonMods[person]
			if !ok {
				continue
			}
			pm, ok := personMods[e]
			if !ok {
				continue
			}
			bias += pm.Bias
			if pm.Strength > strength {
				strength = pm.Strength
			}
		}

		presented[e] = domain.Clamp(core + (bias-core)*strength*masking)
	}
	st.Presented = presented
}
