package engine

import (
	"testing"

	"soulengine/internal/domain"
)

func TestBeliefs_InitAssignsDefaultErosionState(t *testing.T) {
	b := NewBeliefs()
	char := domain.NewCharacter("c1", domain.PersonalityDefault)
	b.Init(char, []domain.Belief{{Text: "trust is earned", Strength: 0.6, Inertia: 0.3, Tags: []string{"trust"}}})

	if len(char.Beliefs) != 1 {
		t.Fatalf("expected one belief, got %d", len(char.Beliefs))
	}
	if char.Beliefs[0].Erosion != domain.DefaultErosionState() {
		t.Fatalf("expected default erosion state, got %+v", char.Beliefs[0].Erosion)
	}
}

func TestBeliefs_AddBeliefClampsAndReturnsStableIndex(t *testing.T) {
	b := NewBeliefs()
	char := domain.NewCharacter("c2", domain.PersonalityDefault)
	b.Init(char, nil)

	idx := b.AddBelief(char, domain.Belief{Strength: 1.5, Inertia: -0.2, Tags: []string{"safety"}})
	if idx != 0 {
		t.Fatalf("expected first belief at index 0, got %d", idx)
	}
	if char.Beliefs[0].Strength != 1 || char.Beliefs[0].Inertia != 0 {
		t.Fatalf("expected strength/inertia clamped to [0,1], got %+v", char.Beliefs[0])
	}

	idx2 := b.AddBelief(char, domain.Belief{Strength: 0.4, Tags: []string{"worth"}})
	if idx2 != 1 {
		t.Fatalf("expected second belief at index 1, got %d", idx2)
	}
}

func TestBeliefs_GetBeliefsByTag(t *testing.T) {
	b := NewBeliefs()
	char := domain.NewCharacter("c3", domain.PersonalityDefault)
	b.Init(char, []domain.Belief{
		{Text: "a", Tags: []string{"trust"}},
		{Text: "b", Tags: []string{"safety"}},
		{Text: "c", Tags: []string{"trust", "worth"}},
	})

	idx := b.GetBeliefsByTag(char, "trust")
	if len(idx) != 2 || idx[0] != 0 || idx[1] != 2 {
		t.Fatalf("expected indices [0 2] for tag trust, got %v", idx)
	}
}

func TestBeliefs_EvaluateRequiresEvaluator(t *testing.T) {
	b := &Beliefs{}
	char := domain.NewCharacter("c4", domain.PersonalityDefault)
	b.Init(char, nil)

	if _, _, err := b.Evaluate(char, "scene", "conversation"); err != domain.ErrEvaluatorNotSet {
		t.Fatalf("expected ErrEvaluatorNotSet, got %v", err)
	}
}

func TestBeliefs_EvaluateFiltersOutOfRangeIndices(t *testing.T) {
	b := NewBeliefs()
	char := domain.NewCharacter("c5", domain.PersonalityDefault)
	b.Init(char, []domain.Belief{{Text: "lone belief"}})

	b.SetEvaluator(func(_ []domain.Belief, _ domain.Vector, _, _ string) (InteractionDelta, map[int]domain.Impact) {
		return InteractionDelta{domain.Fear: 0.1}, map[int]domain.Impact{0: domain.Challenged, 5: domain.Reinforced}
	})

	_, impacts, err := b.Evaluate(char, "scene", "conversation")
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(impacts) != 1 {
		t.Fatalf("expected the out-of-range index to be dropped, got %+v", impacts)
	}
	if impacts[0] != domain.Challenged {
		t.Fatalf("expected belief 0 challenged, got %+v", impacts)
	}
}

func TestDefaultEvaluator_ClassifiesChallengedAndReinforced(t *testing.T) {
	beliefs := []domain.Belief{
		{Text: "people keep their word", Strength: 0.8, Tags: []string{"trust"}},
		{Text: "I am safe here", Strength: 0.5, Tags: []string{"safety"}},
	}
	deltas, impacts := DefaultEvaluator(beliefs, domain.NewVector(), "he betrayed me badly", "it felt unsafe and like a threat")
	if impacts[0] != domain.Challenged {
		t.Fatalf("expected belief 0 challenged by 'betrayed', got %v", impacts[0])
	}
	if impacts[1] != domain.Challenged {
		t.Fatalf("expected belief 1 challenged by 'threat', got %v", impacts[1])
	}
	if deltas[domain.Anxiety] <= 0 {
		t.Fatalf("expected positive anxiety delta from challenged beliefs, got %v", deltas[domain.Anxiety])
	}
}

func TestDefaultEvaluator_NeutralWithoutKeywordMatch(t *testing.T) {
	beliefs := []domain.Belief{{Text: "nothing in particular", Tags: []string{"trust"}}}
	deltas, impacts := DefaultEvaluator(beliefs, domain.NewVector(), "we had tea and biscuits", "")
	if len(impacts) != 0 {
		t.Fatalf("expected no impacts for unrelated text, got %+v", impacts)
	}
	if len(deltas) != 0 {
		t.Fatalf("expected no deltas for unrelated text, got %+v", deltas)
	}
}

func TestApplyShock_BlockedByInertiaThenSucceeds(t *testing.T) {
	b := NewBeliefs()
	char := domain.NewCharacter("c6", domain.PersonalityDefault)
	b.Init(char, []domain.Belief{{Text: "the world is safe", Strength: 0.5, Inertia: 0.9}})

	applied, err := b.ApplyShock(char, 0, -1, 0.05)
	if err != nil {
		t.Fatalf("apply shock: %v", err)
	}
	if applied {
		t.Fatalf("expected shock below inertia threshold to be blocked")
	}
	if char.Beliefs[0].Strength != 0.5 {
		t.Fatalf("expected strength unchanged after blocked shock, got %v", char.Beliefs[0].Strength)
	}

	applied, err = b.ApplyShock(char, 0, -1, 0.95)
	if err != nil {
		t.Fatalf("apply shock: %v", err)
	}
	if !applied {
		t.Fatalf("expected shock above inertia threshold to apply")
	}
	if char.Beliefs[0].Strength >= 0.5 {
		t.Fatalf("expected strength to drop after a negative shock, got %v", char.Beliefs[0].Strength)
	}

	if _, err := b.ApplyShock(char, 9, 1, 1.0); err != domain.ErrInvalidBeliefIndex {
		t.Fatalf("expected ErrInvalidBeliefIndex, got %v", err)
	}
}
