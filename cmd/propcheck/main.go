// Command propcheck runs a fixed battery of property scenarios
// against a fresh, in-memory engine and writes a markdown report.
// Unlike the API server it needs no database or LLM: every layer
// under test here is deterministic, so a scenario either holds or it
// doesn't, with no judge call in between.
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"soulengine/internal/domain"
	"soulengine/internal/engine"
)

// scenario is one named property check. run returns a pass/fail verdict
// plus a short narrative of what it observed, written verbatim into the
// report.
type scenario struct {
	Name string
	Run  func() (bool, string)
}

func main() {
	now := time.Now()

	reportsDir := filepath.Join("reports")
	if err := os.MkdirAll(reportsDir, 0o755); err != nil {
		log.Fatalf("create reports dir: %v", err)
	}
	reportPath := filepath.Join(reportsDir, fmt.Sprintf("propcheck_run_%s.md", now.Format("2006-01-02_15-04-05")))
	reportFile, err := os.Create(reportPath)
	if err != nil {
		log.Fatalf("create report file: %v", err)
	}
	defer reportFile.Close()

	scenarios := []scenario{
		scenarioCoreClamping(),
		scenarioCrossEffectPropagation(),
		scenarioPresentationIdentityWithoutSituation(),
		scenarioMaskingStrainBounded(),
		scenarioHistoryShiftDetection(),
		scenarioErosionTippingPointHardens(),
		scenarioBeliefShockBlockedByInertia(),
		scenarioTriggerCooldownSuppressesRefire(),
	}

	var report strings.Builder
	report.WriteString("# Engine Property Report\n\n")
	report.WriteString(fmt.Sprintf("Generated: %s\n\n", now.Format(time.RFC3339)))

	passed, failed := 0, 0
	for _, sc := range scenarios {
		ok, narrative := sc.Run()
		status := "PASS"
		if !ok {
			status = "FAIL"
			failed++
		} else {
			passed++
		}
		report.WriteString(fmt.Sprintf("## [%s] %s\n\n%s\n\n", status, sc.Name, narrative))
		fmt.Printf("[%s] %s\n", status, sc.Name)
	}

	report.WriteString(fmt.Sprintf("---\n\n%d passed, %d failed out of %d scenarios.\n", passed, failed, len(scenarios)))

	if _, err := reportFile.WriteString(report.String()); err != nil {
		log.Fatalf("write report: %v", err)
	}
	fmt.Printf("report written to %s\n", reportPath)
	if failed > 0 {
		os.Exit(1)
	}
}

func newTestEngine() (*engine.Engine, float64) {
	tick := 0.0
	ts := func() float64 { return tick }
	return engine.NewEngine(engine.NewRegistry(), ts), tick
}

func scenarioCoreClamping() scenario {
	return scenario{
		Name: "core emotions never leave [-1, 1] under repeated conflict",
		Run: func() (bool, string) {
			eng, _ := newTestEngine()
			char, err := eng.NewCharacter("c1", domain.PersonalityHothead, engine.CharacterOptions{})
			if err != nil {
				return false, fmt.Sprintf("NewCharacter failed: %v", err)
			}
			for i := 0; i < 50; i++ {
				if _, err := eng.Core.ApplyInteraction(char, "conflict", 1.0); err != nil {
					return false, fmt.Sprintf("ApplyInteraction failed at iteration %d: %v", i, err)
				}
			}
			for _, e := range domain.Emotions {
				v := char.Emotions[e]
				if v > 1 || v < -1 {
					return false, fmt.Sprintf("emotion %s escaped bounds: %f", e, v)
				}
			}
			return true, fmt.Sprintf("after 50 conflicts, anger=%.3f trust=%.3f, both within bounds", char.Emotions[domain.Anger], char.Emotions[domain.Trust])
		},
	}
}

func scenarioCrossEffectPropagation() scenario {
	return scenario{
		Name: "fear raises anxiety via cross-effects on a single threat interaction",
		Run: func() (bool, string) {
			eng, _ := newTestEngine()
			char, err := eng.NewCharacter("c2", domain.PersonalityDefault, engine.CharacterOptions{})
			if err != nil {
				return false, fmt.Sprintf("NewCharacter failed: %v", err)
			}
			before := char.Emotions[domain.Anxiety]
			if _, err := eng.Core.ApplyInteraction(char, "threat", 1.0); err != nil {
				return false, fmt.Sprintf("ApplyInteraction failed: %v", err)
			}
			after := char.Emotions[domain.Anxiety]
			if after <= before {
				return false, fmt.Sprintf("expected anxiety to rise via fear's cross-effect, went %f -> %f", before, after)
			}
			return true, fmt.Sprintf("anxiety moved %.3f -> %.3f after a single threat interaction", before, after)
		},
	}
}

func scenarioPresentationIdentityWithoutSituation() scenario {
	return scenario{
		Name: "perceived equals core when no situation is active",
		Run: func() (bool, string) {
			eng, _ := newTestEngine()
			char, err := eng.NewCharacter("c3", domain.PersonalityDefault, engine.CharacterOptions{InitPresentation: true})
			if err != nil {
				return false, fmt.Sprintf("NewCharacter failed: %v", err)
			}
			if _, err := eng.Core.ApplyInteraction(char, "loss", 1.0); err != nil {
				return false, fmt.Sprintf("ApplyInteraction failed: %v", err)
			}
			perceived := eng.Presentation.GetPerceived(char)
			for _, e := range domain.Emotions {
				if perceived[e] != char.Emotions[e] {
					return false, fmt.Sprintf("perceived[%s]=%f diverged from core=%f with no active situation", e, perceived[e], char.Emotions[e])
				}
			}
			return true, "perceived vector matched core exactly across every emotion"
		},
	}
}

func scenarioMaskingStrainBounded() scenario {
	return scenario{
		Name: "masking strain stays within [0, 1] under an extreme situation mismatch",
		Run: func() (bool, string) {
			eng, _ := newTestEngine()
			char, err := eng.NewCharacter("c4", domain.PersonalityHothead, engine.CharacterOptions{InitPresentation: true})
			if err != nil {
				return false, fmt.Sprintf("NewCharacter failed: %v", err)
			}
			for i := 0; i < 10; i++ {
				if _, err := eng.Core.ApplyInteraction(char, "conflict", 1.0); err != nil {
					return false, fmt.Sprintf("ApplyInteraction failed: %v", err)
				}
			}
			if err := eng.Presentation.EnterSituation(char, "job_interview", nil); err != nil {
				return false, fmt.Sprintf("EnterSituation failed: %v", err)
			}
			strain := eng.Presentation.GetMaskingStrain(char)
			if strain < 0 || strain > 1 {
				return false, fmt.Sprintf("masking strain out of bounds: %f", strain)
			}
			return true, fmt.Sprintf("masking strain under job_interview after 10 conflicts: %.3f (label: %s)", strain, describeStrainLocal(strain))
		},
	}
}

func describeStrainLocal(strain float64) string {
	switch {
	case strain < 0.2:
		return "relaxed"
	case strain < 0.4:
		return "composed"
	case strain < 0.6:
		return "straining"
	case strain < 0.8:
		return "overextended"
	default:
		return "breaking"
	}
}

func scenarioHistoryShiftDetection() scenario {
	return scenario{
		Name: "a sustained swing in happiness is recorded as a shift against the reference baseline",
		Run: func() (bool, string) {
			eng, tick := newTestEngine()
			_ = tick
			char, err := eng.NewCharacter("c5", domain.PersonalityDefault, engine.CharacterOptions{InitHistory: true, HistoryAlpha: 0.3})
			if err != nil {
				return false, fmt.Sprintf("NewCharacter failed: %v", err)
			}
			for i := 0; i < 10; i++ {
				if _, err := eng.Core.ApplyInteraction(char, "loss", 1.0); err != nil {
					return false, fmt.Sprintf("ApplyInteraction failed: %v", err)
				}
			}
			shift, found := eng.History.FindShift(char, domain.Happiness)
			if !found {
				return false, fmt.Sprintf("expected a recorded happiness shift after 10 losses, baseline=%.3f", char.History.Baselines[domain.Happiness])
			}
			return true, fmt.Sprintf("happiness shift recorded: %.3f -> %.3f (cause=%s)", shift.From, shift.To, shift.CauseLabel)
		},
	}
}

func scenarioErosionTippingPointHardens() scenario {
	return scenario{
		Name: "a tipping point hardens the belief's threshold",
		Run: func() (bool, string) {
			eng, _ := newTestEngine()
			char, err := eng.NewCharacter("c6", domain.PersonalityDefault, engine.CharacterOptions{
				InitBeliefs:    true,
				InitialBeliefs: []domain.Belief{{Text: "people can be trusted", Strength: 0.8, Inertia: 0.3, Tags: []string{"trust"}}},
			})
			if err != nil {
				return false, fmt.Sprintf("NewCharacter failed: %v", err)
			}
			threshold0 := char.Beliefs[0].Erosion.Threshold
			if err := eng.Erosion.ApplyPressure(char, 0, -1, 1.0); err != nil {
				return false, fmt.Sprintf("ApplyPressure failed: %v", err)
			}
			_, fired, err := eng.Erosion.CheckTippingPoint(char, 0)
			if err != nil {
				return false, fmt.Sprintf("CheckTippingPoint failed: %v", err)
			}
			if !fired {
				return false, "expected a tipping point to fire after pressure exceeded threshold"
			}
			threshold1 := char.Beliefs[0].Erosion.Threshold
			if threshold1 <= threshold0 {
				return false, fmt.Sprintf("threshold did not harden: %.4f -> %.4f", threshold0, threshold1)
			}
			return true, fmt.Sprintf("threshold hardened %.4f -> %.4f after one tipping point, strength now %.3f", threshold0, threshold1, char.Beliefs[0].Strength)
		},
	}
}

func scenarioBeliefShockBlockedByInertia() scenario {
	return scenario{
		Name: "a shock below a belief's inertia threshold is a no-op",
		Run: func() (bool, string) {
			eng, _ := newTestEngine()
			char, err := eng.NewCharacter("c7", domain.PersonalityDefault, engine.CharacterOptions{
				InitBeliefs:    true,
				InitialBeliefs: []domain.Belief{{Text: "the world is safe", Strength: 0.5, Inertia: 0.9, Tags: []string{"safety"}}},
			})
			if err != nil {
				return false, fmt.Sprintf("NewCharacter failed: %v", err)
			}
			before := char.Beliefs[0].Strength
			applied, err := eng.ApplyShock(char, 0, -1, 0.05)
			if err != nil {
				return false, fmt.Sprintf("ApplyShock failed: %v", err)
			}
			if applied {
				return false, "expected low-magnitude shock to be blocked by high inertia"
			}
			after := char.Beliefs[0].Strength
			if before != after {
				return false, fmt.Sprintf("belief strength moved despite a blocked shock: %.3f -> %.3f", before, after)
			}
			return true, fmt.Sprintf("shock of magnitude 0.05 against inertia 0.9 correctly blocked, strength held at %.3f", after)
		},
	}
}

func scenarioTriggerCooldownSuppressesRefire() scenario {
	return scenario{
		Name: "a topic does not refire on the next scan while its cooldown is active",
		Run: func() (bool, string) {
			eng, _ := newTestEngine()
			char, err := eng.NewCharacter("c8", domain.PersonalityDefault, engine.CharacterOptions{InitTriggers: true})
			if err != nil {
				return false, fmt.Sprintf("NewCharacter failed: %v", err)
			}
			first, err := eng.Triggers.ProcessText(char, "my father never called back")
			if err != nil {
				return false, fmt.Sprintf("first ProcessText failed: %v", err)
			}
			second, err := eng.Triggers.ProcessText(char, "my father never called back")
			if err != nil {
				return false, fmt.Sprintf("second ProcessText failed: %v", err)
			}
			if len(first) == 0 {
				return false, "expected the father topic to fire on first mention"
			}
			if len(second) != 0 {
				return false, fmt.Sprintf("expected no refire while on cooldown, got %d fired topics", len(second))
			}
			return true, fmt.Sprintf("topic %q fired once then suppressed by cooldown=%d on the immediate repeat scan", first[0].Topic, char.Triggers.Cooldowns[first[0].Topic])
		},
	}
}
