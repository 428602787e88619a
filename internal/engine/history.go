package engine

import "soulengine/internal/domain"

// TimeSource is injected at init: a parameter-less function returning
// a monotonic, caller-defined timestamp. The engine never reads
// wall-clock time itself (spec §4.2).
type TimeSource func() float64

const defaultAlpha = 0.05
const shiftThreshold = 0.3

// ShiftObserver is notified synchronously whenever Update appends a
// new shift record, for any character.
type ShiftObserver func(char *domain.Character, shift domain.Shift)

// History is the EMA-smoothed baseline tracker and shift detector.
type History struct {
	timeSource TimeSource
	observers  []ShiftObserver
}

// NewHistory binds a History component to the given time source.
func NewHistory(timeSource TimeSource) *History {
	return &History{timeSource: timeSource}
}

// Subscribe registers an observer fired for every shift record
// appended by Update, across every character sharing this History
// component. Used to relay shift alerts out of process (spec §9
// supplemented feature) without coupling the engine to a transport.
func (h *History) Subscribe(fn ShiftObserver) {
	h.observers = append(h.observers, fn)
}

// Init attaches a fresh HistoryState to char. alpha <= 0 falls back to
// the documented default of 0.05.
func (h *History) Init(char *domain.Character, alpha float64) {
	if alpha <= 0 {
		alpha = defaultAlpha
	}
	char.History = domain.NewHistoryState(alpha)
}

// Update runs the EMA step and shift detection for every emotion,
// using causeLabel to annotate any shift records it appends. It is
// typically wired as a Core post-hook.
func (h *History) Update(char *domain.Character, causeLabel string, _ InteractionDelta) error {
	if char.History == nil {
		return domain.ErrLayerNotInitialized
	}
	st := char.History
	now := h.timeSource()
	for _, e := range domain.Emotions {
		current := char.Emotions[e]
		st.Baselines[e] = st.Alpha*current + (1-st.Alpha)*st.Baselines[e]

		from := st.Reference[e]
		to := st.Baselines[e]
		if diff := to - from; diff > shiftThreshold || diff < -shiftThreshold {
			shift := domain.Shift{
				Timestamp:  now,
				Emotion:    e,
				From:       from,
				To:         to,
				CauseLabel: causeLabel,
			}
			st.Shifts = append(st.Shifts, shift)
			st.Reference[e] = to
			for _, obs := range h.observers {
				obs(char, shift)
			}
		}
	}
	return nil
}

// TakeSnapshot appends an independent, labelled capture of the full
// emotion vector, unrelated to shift detection.
func (h *History) TakeSnapshot(char *domain.Character, label string) error {
	if char.History == nil {
		return domain.ErrLayerNotInitialized
	}
	char.History.Snapshots = append(char.History.Snapshots, domain.Snapshot{
		Timestamp: h.timeSource(),
		Label:     label,
		Emotions:  char.Emotions.Clone(),
	})
	return nil
}

// FindShift returns the most recent shift recorded for e, if any.
func (h *History) FindShift(char *domain.Character, e domain.Emotion) (domain.Shift, bool) {
	if char.History == nil {
		return domain.Shift{}, false
	}
	for i := len(char.History.Shifts) - 1; i >= 0; i-- {
		if char.History.Shifts[i].Emotion == e {
			return char.History.Shifts[i], true
		}
	}
	return domain.Shift{}, false
}

// GetNarrativeShifts returns every recorded shift whose magnitude
// |to-from| exceeds threshold, in recording order.
func (h *History) GetNarrativeShifts(char *domain.Character, threshold float64) []domain.Shift {
	if char.History == nil {
		return nil
	}
	var out []domain.Shift
	for _, s := range char.History.Shifts {
		d := s.To - s.From
		if d < 0 {
			d = -d
		}
		if d > threshold {
			out = append(out, s)
		}
	}
	return out
}
