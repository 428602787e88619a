package service

import (
	"context"
	"sync"
	"testing"

	"go.uber.org/zap"

	"soulengine/internal/domain"
	"soulengine/internal/engine"
	"soulengine/internal/repository"
)

type memCharacterRepo struct {
	mu   sync.Mutex
	data map[string]domain.CharacterSnapshot
}

func newMemCharacterRepo() *memCharacterRepo {
	return &memCharacterRepo{data: make(map[string]domain.CharacterSnapshot)}
}

func (r *memCharacterRepo) Save(_ context.Context, snap domain.CharacterSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[snap.ID] = snap
	return nil
}

func (r *memCharacterRepo) FindByID(_ context.Context, id string) (domain.CharacterSnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap, ok := r.data[id]
	if !ok {
		return domain.CharacterSnapshot{}, repository.ErrCharacterNotFound
	}
	return snap, nil
}

func (r *memCharacterRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.data, id)
	return nil
}

func (r *memCharacterRepo) ListIDs(_ context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []string
	for id := range r.data {
		ids = append(ids, id)
	}
	return ids, nil
}

type memBeliefRepo struct {
	mu       sync.Mutex
	upserts  int
	byTag    map[string][]repository.BeliefRow
}

func newMemBeliefRepo() *memBeliefRepo {
	return &memBeliefRepo{byTag: make(map[string][]repository.BeliefRow)}
}

func (r *memBeliefRepo) Upsert(_ context.Context, characterID string, index int, belief domain.Belief) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.upserts++
	for _, tag := range belief.Tags {
		r.byTag[tag] = append(r.byTag[tag], repository.BeliefRow{
			CharacterID: characterID,
			Index:       index,
			Text:        belief.Text,
			Strength:    belief.Strength,
			Tags:        belief.Tags,
		})
	}
	return nil
}

func (r *memBeliefRepo) FindByTag(_ context.Context, tag string) ([]repository.BeliefRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byTag[tag], nil
}

func newTestCharacterService() (*CharacterService, *memCharacterRepo) {
	now := 0.0
	eng := engine.NewEngine(engine.NewRegistry(), func() float64 { return now })
	repo := newMemCharacterRepo()
	beliefRepo := newMemBeliefRepo()
	return NewCharacterService(eng, repo, beliefRepo, nil, zap.NewNop()), repo
}

func TestCharacterService_CreateAndView(t *testing.T) {
	svc, _ := newTestCharacterService()
	ctx := context.Background()

	char, err := svc.CreateCharacter(ctx, "char-1", domain.PersonalityDefault, engine.CharacterOptions{InitPresentation: true})
	if err != nil {
		t.Fatalf("create character: %v", err)
	}
	if char.ID != "char-1" {
		t.Fatalf("unexpected character id: %q", char.ID)
	}

	view, err := svc.View(ctx, "char-1")
	if err != nil {
		t.Fatalf("view character: %v", err)
	}
	if view.ID != "char-1" || view.Personality != domain.PersonalityDefault {
		t.Fatalf("unexpected view: %+v", view)
	}
	if view.StrainLabel != DescribeStrain(view.MaskingStrain) {
		t.Fatalf("expected strain label to match DescribeStrain, got %+v", view)
	}
}

func TestCharacterService_CreateRejectsUnknownPersonality(t *testing.T) {
	svc, _ := newTestCharacterService()
	if _, err := svc.CreateCharacter(context.Background(), "char-1", domain.Personality("bogus"), engine.CharacterOptions{}); err != domain.ErrUnknownPersonality {
		t.Fatalf("expected ErrUnknownPersonality, got %v", err)
	}
}

func TestCharacterService_ViewMissingCharacterFails(t *testing.T) {
	svc, _ := newTestCharacterService()
	if _, err := svc.View(context.Background(), "ghost"); err != repository.ErrCharacterNotFound {
		t.Fatalf("expected ErrCharacterNotFound, got %v", err)
	}
}

func TestCharacterService_ApplyInteractionPersistsState(t *testing.T) {
	svc, repo := newTestCharacterService()
	ctx := context.Background()

	if _, err := svc.CreateCharacter(ctx, "char-1", domain.PersonalityDefault, engine.CharacterOptions{}); err != nil {
		t.Fatalf("create character: %v", err)
	}
	applied, err := svc.ApplyInteraction(ctx, "char-1", "social", 1)
	if err != nil {
		t.Fatalf("apply interaction: %v", err)
	}
	if len(applied) == 0 {
		t.Fatalf("expected a non-empty interaction delta")
	}

	snap, err := repo.FindByID(ctx, "char-1")
	if err != nil {
		t.Fatalf("find persisted character: %v", err)
	}
	if snap.Emotions[domain.Happiness] == 0 {
		t.Fatalf("expected the persisted snapshot to carry the interaction's effect")
	}
}

func TestCharacterService_ApplyInteractionUnknownNameFails(t *testing.T) {
	svc, _ := newTestCharacterService()
	ctx := context.Background()
	if _, err := svc.CreateCharacter(ctx, "char-1", domain.PersonalityDefault, engine.CharacterOptions{}); err != nil {
		t.Fatalf("create character: %v", err)
	}
	if _, err := svc.ApplyInteraction(ctx, "char-1", "nonexistent", 1); err == nil {
		t.Fatalf("expected an error for an unknown interaction")
	}
}

func TestCharacterService_EnterAndLeaveSituation(t *testing.T) {
	svc, _ := newTestCharacterService()
	ctx := context.Background()
	if _, err := svc.CreateCharacter(ctx, "char-1", domain.PersonalityDefault, engine.CharacterOptions{InitPresentation: true}); err != nil {
		t.Fatalf("create character: %v", err)
	}
	if err := svc.EnterSituation(ctx, "char-1", "job_interview", []string{"recruiter"}); err != nil {
		t.Fatalf("enter situation: %v", err)
	}
	if err := svc.LeaveSituation(ctx, "char-1"); err != nil {
		t.Fatalf("leave situation: %v", err)
	}
}

func TestCharacterService_ApplyShockAppliedFlag(t *testing.T) {
	svc, _ := newTestCharacterService()
	ctx := context.Background()
	belief := domain.Belief{Text: "people always leave", Strength: 0.5, Inertia: 0.3, Erosion: domain.DefaultErosionState()}
	if _, err := svc.CreateCharacter(ctx, "char-1", domain.PersonalityDefault, engine.CharacterOptions{
		InitBeliefs:    true,
		InitialBeliefs: []domain.Belief{belief},
	}); err != nil {
		t.Fatalf("create character: %v", err)
	}

	applied, err := svc.ApplyShock(ctx, "char-1", 0, 1, 0.9)
	if err != nil {
		t.Fatalf("apply shock: %v", err)
	}
	if !applied {
		t.Fatalf("expected a strong shock to apply")
	}
}

func TestCharacterService_ApplyShockOutOfRangeIndexFails(t *testing.T) {
	svc, _ := newTestCharacterService()
	ctx := context.Background()
	if _, err := svc.CreateCharacter(ctx, "char-1", domain.PersonalityDefault, engine.CharacterOptions{InitBeliefs: true}); err != nil {
		t.Fatalf("create character: %v", err)
	}
	if _, err := svc.ApplyShock(ctx, "char-1", 5, 1, 0.9); err == nil {
		t.Fatalf("expected an error for an out-of-range belief index")
	}
}

func TestCharacterService_ProcessTextFiresTrigger(t *testing.T) {
	svc, _ := newTestCharacterService()
	ctx := context.Background()
	if _, err := svc.CreateCharacter(ctx, "char-1", domain.PersonalityDefault, engine.CharacterOptions{InitTriggers: true}); err != nil {
		t.Fatalf("create character: %v", err)
	}
	fired, err := svc.ProcessText(ctx, "char-1", "my father called again")
	if err != nil {
		t.Fatalf("process text: %v", err)
	}
	if len(fired) == 0 {
		t.Fatalf("expected the 'father' topic to fire")
	}
}

func TestCharacterService_EvaluateBeliefsWithUntaggedBeliefReturnsNoEvents(t *testing.T) {
	svc, _ := newTestCharacterService()
	ctx := context.Background()
	belief := domain.Belief{Text: "people always leave", Strength: 0.5, Erosion: domain.DefaultErosionState()}
	if _, err := svc.CreateCharacter(ctx, "char-1", domain.PersonalityDefault, engine.CharacterOptions{
		InitBeliefs:    true,
		InitialBeliefs: []domain.Belief{belief},
	}); err != nil {
		t.Fatalf("create character: %v", err)
	}

	events, err := svc.EvaluateBeliefs(ctx, "char-1", "a quiet evening", "nothing much happened")
	if err != nil {
		t.Fatalf("evaluate beliefs: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("expected an untagged belief to stay neutral under the default keyword evaluator, got %+v", events)
	}
}

func TestCharacterService_PersistMirrorsBeliefsBestEffort(t *testing.T) {
	svc, _ := newTestCharacterService()
	ctx := context.Background()
	belief := domain.Belief{Text: "people always leave", Strength: 0.5, Tags: []string{"trust"}, Erosion: domain.DefaultErosionState()}
	if _, err := svc.CreateCharacter(ctx, "char-1", domain.PersonalityDefault, engine.CharacterOptions{
		InitBeliefs:    true,
		InitialBeliefs: []domain.Belief{belief},
	}); err != nil {
		t.Fatalf("create character: %v", err)
	}

	beliefRepo, ok := svc.beliefRepo.(*memBeliefRepo)
	if !ok {
		t.Fatalf("expected the belief repo fake to be wired")
	}
	if beliefRepo.upserts == 0 {
		t.Fatalf("expected CreateCharacter's persist to mirror beliefs into the belief repo")
	}
}
