package engine

import (
	"testing"

	"soulengine/internal/domain"
)

func newTestTriggers() (*Registry, *Triggers) {
	registry := NewRegistry()
	core := NewCore(registry)
	return registry, NewTriggers(registry, core)
}

func TestTriggers_ProcessTextRequiresInit(t *testing.T) {
	_, tr := newTestTriggers()
	char := domain.NewCharacter("c1", domain.PersonalityDefault)

	if _, err := tr.ProcessText(char, "father"); err != domain.ErrLayerNotInitialized {
		t.Fatalf("expected ErrLayerNotInitialized, got %v", err)
	}
}

func TestTriggers_WordBoundaryScan(t *testing.T) {
	_, tr := newTestTriggers()
	char := domain.NewCharacter("c2", domain.PersonalityDefault)
	tr.Init(char, nil)

	fired, err := tr.ProcessText(char, "my grandfather used to tell stories")
	if err != nil {
		t.Fatalf("process text: %v", err)
	}
	if len(fired) != 0 {
		t.Fatalf("expected 'grandfather' to not match the 'father' keyword at a word boundary, got %+v", fired)
	}

	fired, err = tr.ProcessText(char, "my father used to tell stories")
	if err != nil {
		t.Fatalf("process text: %v", err)
	}
	if len(fired) != 1 || fired[0].Topic != "father" {
		t.Fatalf("expected 'father' topic to fire, got %+v", fired)
	}
}

func TestTriggers_CooldownSuppressesRefire(t *testing.T) {
	_, tr := newTestTriggers()
	char := domain.NewCharacter("c3", domain.PersonalityDefault)
	tr.Init(char, nil)

	if _, err := tr.ProcessText(char, "don't betray me"); err != nil {
		t.Fatalf("process text: %v", err)
	}
	if char.Triggers.Cooldowns["betrayal"] != defaultCooldownTurns {
		t.Fatalf("expected cooldown set to %d, got %d", defaultCooldownTurns, char.Triggers.Cooldowns["betrayal"])
	}

	fired, err := tr.ProcessText(char, "betray")
	if err != nil {
		t.Fatalf("process text: %v", err)
	}
	if len(fired) != 0 {
		t.Fatalf("expected no refire while on cooldown, got %+v", fired)
	}

	for char.Triggers.Cooldowns["betrayal"] > 0 {
		if err := tr.AdvanceTurn(char); err != nil {
			t.Fatalf("advance turn: %v", err)
		}
	}
	fired, err = tr.ProcessText(char, "betray")
	if err != nil {
		t.Fatalf("process text: %v", err)
	}
	if len(fired) != 1 {
		t.Fatalf("expected topic to fire again once cooldown cleared, got %+v", fired)
	}
}

func TestTriggers_CustomCooldownOverride(t *testing.T) {
	registry := NewRegistry()
	core := NewCore(registry)
	tr := NewTriggers(registry, core)
	tr.DefaultCooldown = 1
	char := domain.NewCharacter("c4", domain.PersonalityDefault)
	tr.Init(char, nil)

	if _, err := tr.ProcessText(char, "don't betray me"); err != nil {
		t.Fatalf("process text: %v", err)
	}
	if char.Triggers.Cooldowns["betrayal"] != 1 {
		t.Fatalf("expected custom cooldown of 1, got %d", char.Triggers.Cooldowns["betrayal"])
	}
}

func TestTriggers_SensitivityOverrideAndDesensitization(t *testing.T) {
	_, tr := newTestTriggers()
	char := domain.NewCharacter("c5", domain.PersonalityDefault)
	tr.Init(char, map[string]domain.Sensitivity{
		"father": {
			HasOverride:     true,
			OverrideDeltas:  map[domain.Emotion]float64{domain.Anger: 0.5},
			Intensity:       1.0,
			DesensitizeRate: 0.3,
			MinIntensity:    0.2,
		},
	})

	fired, err := tr.ProcessText(char, "my father called")
	if err != nil {
		t.Fatalf("process text: %v", err)
	}
	if len(fired) != 1 {
		t.Fatalf("expected father topic to fire, got %+v", fired)
	}
	if fired[0].AppliedDeltas[domain.Anger] == 0 {
		t.Fatalf("expected override delta on anger to apply, got %+v", fired[0].AppliedDeltas)
	}
	if char.Triggers.Sensitivities["father"].Intensity != 0.7 {
		t.Fatalf("expected intensity to desensitize from 1.0 to 0.7, got %v", char.Triggers.Sensitivities["father"].Intensity)
	}
	if char.Triggers.Sensitivities["father"].TimesTriggered != 1 {
		t.Fatalf("expected TimesTriggered=1, got %d", char.Triggers.Sensitivities["father"].TimesTriggered)
	}
}

func TestTriggers_TriggerTopicBypassesCooldownCheck(t *testing.T) {
	_, tr := newTestTriggers()
	char := domain.NewCharacter("c6", domain.PersonalityDefault)
	tr.Init(char, nil)

	char.Triggers.Cooldowns["praise"] = 2
	ft, err := tr.TriggerTopic(char, "praise")
	if err != nil {
		t.Fatalf("trigger topic: %v", err)
	}
	if ft.Topic != "praise" {
		t.Fatalf("expected praise topic fired directly, got %+v", ft)
	}

	if _, err := tr.TriggerTopic(char, "does-not-exist"); err != domain.ErrUnknownTopic {
		t.Fatalf("expected ErrUnknownTopic, got %v", err)
	}
}

func TestTriggers_GetSensitiveTopics(t *testing.T) {
	_, tr := newTestTriggers()
	char := domain.NewCharacter("c7", domain.PersonalityDefault)
	tr.Init(char, map[string]domain.Sensitivity{"betrayal": {Intensity: 1.0}})

	topics := tr.GetSensitiveTopics(char)
	if len(topics) != 1 || topics[0] != "betrayal" {
		t.Fatalf("expected [betrayal], got %v", topics)
	}
}
