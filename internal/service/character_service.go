package service

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"soulengine/internal/domain"
	"soulengine/internal/engine"
	"soulengine/internal/llm"
	"soulengine/internal/repository"
)

// CharacterView is the HTTP-facing projection of a character: its
// core state plus the derived, situation-aware presented state.
type CharacterView struct {
	ID              string            `json:"id"`
	Personality     domain.Personality `json:"personality"`
	Core            domain.Vector     `json:"core"`
	Perceived       domain.Vector     `json:"perceived"`
	MaskingStrain   float64           `json:"masking_strain"`
	StrainLabel     string            `json:"strain_label"`
}

// CharacterService orchestrates the engine facade against persistent
// storage. Every mutating method takes a per-character advisory lock
// (a keyed sync.Mutex, not a distributed lock) so concurrent calls
// against the same character serialise, while independent characters
// proceed concurrently per spec §5.
type CharacterService struct {
	eng        *engine.Engine
	repo       repository.CharacterRepository
	beliefRepo repository.BeliefRepository
	embeddings *repository.BeliefEmbeddingRepository
	llmClient  llm.Client
	cache      *CharacterCache
	log        *zap.Logger

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

func NewCharacterService(eng *engine.Engine, repo repository.CharacterRepository, beliefRepo repository.BeliefRepository, cache *CharacterCache, log *zap.Logger) *CharacterService {
	return &CharacterService{
		eng:        eng,
		repo:       repo,
		beliefRepo: beliefRepo,
		cache:      cache,
		log:        log,
		locks:      make(map[string]*sync.Mutex),
	}
}

// WithBeliefEmbeddings enables best-effort embedding capture: every
// EvaluateBeliefs call also embeds and stores each belief's text, so
// an EmbeddingEvaluator can later be swapped in against real data.
func (s *CharacterService) WithBeliefEmbeddings(client llm.Client, embeddings *repository.BeliefEmbeddingRepository) *CharacterService {
	s.llmClient = client
	s.embeddings = embeddings
	return s
}

func (s *CharacterService) lockFor(id string) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	return l
}

// CreateCharacter builds a new character via the engine facade and
// persists its initial snapshot.
func (s *CharacterService) CreateCharacter(ctx context.Context, id string, personality domain.Personality, opts engine.CharacterOptions) (*domain.Character, error) {
	lock := s.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	char, err := s.eng.NewCharacter(id, personality, opts)
	if err != nil {
		return nil, err
	}
	if err := s.persist(ctx, char); err != nil {
		return nil, err
	}
	return char, nil
}

func (s *CharacterService) load(ctx context.Context, id string) (*domain.Character, error) {
	if s.cache != nil {
		if snap, ok := s.cache.Get(ctx, id); ok {
			return domain.FromSnapshot(snap), nil
		}
	}
	snap, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	char := domain.FromSnapshot(snap)
	if s.cache != nil {
		s.cache.Set(ctx, snap)
	}
	return char, nil
}

func (s *CharacterService) persist(ctx context.Context, char *domain.Character) error {
	snap := char.ToSnapshot()
	if err := s.repo.Save(ctx, snap); err != nil {
		return err
	}
	if s.cache != nil {
		s.cache.Set(ctx, snap)
	}
	if s.beliefRepo != nil {
		for i, belief := range char.Beliefs {
			if err := s.beliefRepo.Upsert(ctx, char.ID, i, belief); err != nil {
				s.log.Warn("belief mirror upsert failed", zap.String("character_id", char.ID), zap.Int("index", i), zap.Error(err))
			}
		}
	}
	return nil
}

// View returns the HTTP-facing projection of a character's current
// state, with no mutation.
func (s *CharacterService) View(ctx context.Context, id string) (CharacterView, error) {
	lock := s.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	char, err := s.load(ctx, id)
	if err != nil {
		return CharacterView{}, err
	}
	strain := s.eng.Presentation.GetMaskingStrain(char)
	return CharacterView{
		ID:            char.ID,
		Personality:   char.Personality,
		Core:          s.eng.Core.Emotions(char),
		Perceived:     s.eng.Presentation.GetPerceived(char),
		MaskingStrain: strain,
		StrainLabel:   DescribeStrain(strain),
	}, nil
}

// ApplyInteraction loads char, runs the interaction through the
// engine, and persists the result.
func (s *CharacterService) ApplyInteraction(ctx context.Context, id, interaction string, intensity float64) (engine.InteractionDelta, error) {
	lock := s.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	char, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	applied, err := s.eng.Core.ApplyInteraction(char, interaction, intensity)
	if err != nil {
		return nil, err
	}
	if err := s.persist(ctx, char); err != nil {
		return nil, err
	}
	return applied, nil
}

// ProcessText scans text for trigger topics, applying any that fire.
func (s *CharacterService) ProcessText(ctx context.Context, id, text string) ([]domain.FiredTopic, error) {
	lock := s.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	char, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	fired, err := s.eng.Triggers.ProcessText(char, text)
	if err != nil {
		return nil, err
	}
	if err := s.persist(ctx, char); err != nil {
		return nil, err
	}
	return fired, nil
}

// EnterSituation activates a situation for the character.
func (s *CharacterService) EnterSituation(ctx context.Context, id, situation string, people []string) error {
	lock := s.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	char, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := s.eng.Presentation.EnterSituation(char, situation, people); err != nil {
		return err
	}
	return s.persist(ctx, char)
}

// LeaveSituation clears the character's active situation.
func (s *CharacterService) LeaveSituation(ctx context.Context, id string) error {
	lock := s.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	char, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := s.eng.Presentation.LeaveSituation(char); err != nil {
		return err
	}
	return s.persist(ctx, char)
}

// EvaluateBeliefs runs the configured evaluator against a scene and
// folds the resulting impacts into erosion pressure.
func (s *CharacterService) EvaluateBeliefs(ctx context.Context, id, scene, conversation string) ([]domain.ShiftEvent, error) {
	lock := s.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	char, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	deltas, impacts, err := s.eng.Beliefs.Evaluate(char, scene, conversation)
	if err != nil {
		return nil, err
	}
	for e, d := range deltas {
		if _, err := s.eng.Core.Nudge(char, e, d); err != nil {
			return nil, err
		}
	}
	events, err := s.eng.Erosion.ProcessEvaluation(char, impacts, deltas)
	if err != nil {
		return nil, err
	}
	if err := s.persist(ctx, char); err != nil {
		return nil, err
	}
	s.captureBeliefEmbeddings(ctx, char)
	return events, nil
}

// captureBeliefEmbeddings best-effort embeds and stores each belief's
// text when an embedding backend is configured. Failures are logged,
// never surfaced — this is a background enrichment, not part of the
// evaluation contract.
func (s *CharacterService) captureBeliefEmbeddings(ctx context.Context, char *domain.Character) {
	if s.llmClient == nil || s.embeddings == nil {
		return
	}
	for i, belief := range char.Beliefs {
		vec, err := s.llmClient.CreateEmbedding(ctx, belief.Text)
		if err != nil {
			s.log.Warn("belief embedding failed", zap.String("character_id", char.ID), zap.Int("index", i), zap.Error(err))
			continue
		}
		if err := s.embeddings.Upsert(ctx, char.ID, i, vec); err != nil {
			s.log.Warn("belief embedding upsert failed", zap.String("character_id", char.ID), zap.Int("index", i), zap.Error(err))
		}
	}
}

// ApplyShock applies a scripted, evaluator-bypassing belief shock.
func (s *CharacterService) ApplyShock(ctx context.Context, id string, index, direction int, magnitude float64) (bool, error) {
	lock := s.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	char, err := s.load(ctx, id)
	if err != nil {
		return false, err
	}
	applied, err := s.eng.ApplyShock(char, index, direction, magnitude)
	if err != nil {
		return false, err
	}
	if err := s.persist(ctx, char); err != nil {
		return false, err
	}
	return applied, nil
}
