package domain

// Modifier is a (bias, strength) pair as used by situations and
// person-level overrides.
type Modifier struct {
	Bias     float64
	Strength float64
}

// PersonModifiers maps a present person to their per-emotion override.
type PersonModifiers map[Emotion]Modifier

// PresentationState holds the active situation, the presented-vector
// cache, and the people currently modifying it.
type PresentationState struct {
	ActiveSituation string
	Presented       Vector // cached derived value, nil when no situation is active
	PersonMods      map[string]PersonModifiers
	ActivePeople    []string
}

// NewPresentationState returns an empty, situation-less state.
func NewPresentationState() *PresentationState {
	return &PresentationState{
		PersonMods: make(map[string]PersonModifiers),
	}
}
