package engine

import (
	"testing"

	"soulengine/internal/domain"
)

func newTestCore() (*Registry, *Core) {
	registry := NewRegistry()
	return registry, NewCore(registry)
}

func TestApplyInteraction_UnknownInteractionAndPersonality(t *testing.T) {
	registry, core := newTestCore()
	char := domain.NewCharacter("c1", domain.PersonalityDefault)

	if _, err := core.ApplyInteraction(char, "does-not-exist", 1.0); err != domain.ErrUnknownInteraction {
		t.Fatalf("expected ErrUnknownInteraction, got %v", err)
	}

	char2 := domain.NewCharacter("c2", domain.Personality("bogus"))
	registry.AddInteraction("noop", InteractionDelta{})
	if _, err := core.ApplyInteraction(char2, "noop", 1.0); err != domain.ErrUnknownPersonality {
		t.Fatalf("expected ErrUnknownPersonality, got %v", err)
	}
}

func TestApplyInteraction_ScalesByIntensityAndClamps(t *testing.T) {
	_, core := newTestCore()
	char := domain.NewCharacter("c3", domain.PersonalityDefault)

	applied, err := core.ApplyInteraction(char, "social", 2.0)
	if err != nil {
		t.Fatalf("apply interaction: %v", err)
	}
	if applied[domain.Happiness] <= 0 {
		t.Fatalf("expected positive happiness delta, got %v", applied[domain.Happiness])
	}

	for i := 0; i < 20; i++ {
		if _, err := core.ApplyInteraction(char, "social", 2.0); err != nil {
			t.Fatalf("apply interaction: %v", err)
		}
	}
	for _, e := range domain.Emotions {
		if v := char.Emotions[e]; v > 1 || v < -1 {
			t.Fatalf("emotion %s escaped bounds: %v", e, v)
		}
	}
}

func TestApplyInteraction_CrossEffectsPropagate(t *testing.T) {
	_, core := newTestCore()
	char := domain.NewCharacter("c4", domain.PersonalityDefault)

	if _, err := core.ApplyInteraction(char, "threat", 1.0); err != nil {
		t.Fatalf("apply interaction: %v", err)
	}
	if char.Emotions[domain.Anxiety] <= 0 {
		t.Fatalf("expected fear's cross-effect to raise anxiety, got %v", char.Emotions[domain.Anxiety])
	}
}

func TestApplyInteraction_PersonalityMultiplierAmplifies(t *testing.T) {
	_, core := newTestCore()
	hothead := domain.NewCharacter("c5", domain.PersonalityHothead)
	stoic := domain.NewCharacter("c6", domain.PersonalityStoic)

	if _, err := core.ApplyInteraction(hothead, "conflict", 1.0); err != nil {
		t.Fatalf("apply interaction: %v", err)
	}
	if _, err := core.ApplyInteraction(stoic, "conflict", 1.0); err != nil {
		t.Fatalf("apply interaction: %v", err)
	}
	if hothead.Emotions[domain.Anger] <= stoic.Emotions[domain.Anger] {
		t.Fatalf("expected hothead anger (%v) to exceed stoic anger (%v)", hothead.Emotions[domain.Anger], stoic.Emotions[domain.Anger])
	}
}

func TestApplyInteraction_PreAndPostHooksRunInOrder(t *testing.T) {
	_, core := newTestCore()
	char := domain.NewCharacter("c7", domain.PersonalityDefault)

	var order []string
	core.RegisterPreHook(func(_ *domain.Character, _ string, base InteractionDelta) InteractionDelta {
		order = append(order, "pre1")
		return base
	})
	core.RegisterPreHook(func(_ *domain.Character, _ string, base InteractionDelta) InteractionDelta {
		order = append(order, "pre2")
		return base
	})
	core.RegisterPostHook(func(_ *domain.Character, _ string, _ InteractionDelta) {
		order = append(order, "post1")
	})
	core.RegisterPostHook(func(_ *domain.Character, _ string, _ InteractionDelta) {
		order = append(order, "post2")
	})

	if _, err := core.ApplyInteraction(char, "rest", 1.0); err != nil {
		t.Fatalf("apply interaction: %v", err)
	}
	want := []string{"pre1", "pre2", "post1", "post2"}
	if len(order) != len(want) {
		t.Fatalf("expected hook order %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected hook order %v, got %v", want, order)
		}
	}
}

func TestNudge_SingleEmotionNoHooks(t *testing.T) {
	_, core := newTestCore()
	char := domain.NewCharacter("c8", domain.PersonalityDefault)

	hookFired := false
	core.RegisterPostHook(func(_ *domain.Character, _ string, _ InteractionDelta) {
		hookFired = true
	})

	applied, err := core.Nudge(char, domain.Fear, 0.4)
	if err != nil {
		t.Fatalf("nudge: %v", err)
	}
	if applied <= 0 {
		t.Fatalf("expected positive applied delta, got %v", applied)
	}
	if hookFired {
		t.Fatalf("nudge must not fire post-hooks")
	}
	if _, err := core.Nudge(char, domain.Emotion("bogus"), 0.1); err != domain.ErrUnknownEmotion {
		t.Fatalf("expected ErrUnknownEmotion, got %v", err)
	}
}

func TestEmotionAndEmotions_ReadOnly(t *testing.T) {
	_, core := newTestCore()
	char := domain.NewCharacter("c9", domain.PersonalityDefault)
	char.Emotions[domain.Trust] = 0.5

	v, err := core.Emotion(char, domain.Trust)
	if err != nil || v != 0.5 {
		t.Fatalf("expected trust=0.5, got %v, err=%v", v, err)
	}
	if _, err := core.Emotion(char, domain.Emotion("bogus")); err != domain.ErrUnknownEmotion {
		t.Fatalf("expected ErrUnknownEmotion, got %v", err)
	}

	snap := core.Emotions(char)
	snap[domain.Trust] = 0.9
	if char.Emotions[domain.Trust] != 0.5 {
		t.Fatalf("expected Emotions() to return an independent copy")
	}
}
