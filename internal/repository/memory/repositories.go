package memory

import (
	"context"
	"sort"
	"time"

	"ai-triage-be/internal/entity"

	"github.com/google/uuid"
)

type encounterRepository struct {
	uow *UnitOfWork
}

func (r *encounterRepository) Create(ctx context.Context, encounter *entity.Encounter) error {
	if encounter.Id == uuid.Nil {
		encounter.Id = uuid.New()
	}
	if encounter.CreatedAt.IsZero() {
		encounter.CreatedAt = time.Now()
	}
	if r.uow.tx != nil {
		r.uow.tx.encounters[encounter.Id] = *encounter
		return nil
	}
	s := r.uow.store
	s.mu.Lock()
	defer s.mu.Unlock()
	s.putEncounter(*encounter)
	return nil
}

func (r *encounterRepository) FindById(ctx context.Context, id uuid.UUID) (*entity.Encounter, error) {
	if r.uow.tx != nil {
		if e, ok := r.uow.tx.encounters[id]; ok {
			return &e, nil
		}
	}
	s := r.uow.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.getEncounter(id)
	if !ok {
		return nil, nil
	}
	return &e, nil
}

// FindByIdForUpdate has no row lock here; callers serialise per encounter.
func (r *encounterRepository) FindByIdForUpdate(ctx context.Context, id uuid.UUID) (*entity.Encounter, error) {
	return r.FindById(ctx, id)
}

func (r *encounterRepository) UpdateState(ctx context.Context, id uuid.UUID, state string) error {
	e, err := r.FindById(ctx, id)
	if err != nil {
		return err
	}
	if e == nil {
		return ErrRecordNotFound
	}
	now := time.Now()
	e.State = state
	e.UpdatedAt = &now

	if r.uow.tx != nil {
		r.uow.tx.encounters[id] = *e
		return nil
	}
	s := r.uow.store
	s.mu.Lock()
	defer s.mu.Unlock()
	s.putEncounter(*e)
	return nil
}

type turnRepository struct {
	uow *UnitOfWork
}

func (r *turnRepository) Append(ctx context.Context, turn *entity.Turn) error {
	if turn.Id == uuid.Nil {
		turn.Id = uuid.New()
	}
	if turn.CreatedAt.IsZero() {
		turn.CreatedAt = time.Now()
	}

	if r.uow.tx != nil {
		last, err := r.LastSequence(ctx, turn.EncounterId)
		if err != nil {
			return err
		}
		if turn.Sequence <= last {
			return ErrDuplicateSequence
		}
		r.uow.tx.turns[turn.EncounterId] = append(r.uow.tx.turns[turn.EncounterId], *turn)
		return nil
	}

	s := r.uow.store
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appendTurns(turn.EncounterId, []entity.Turn{*turn})
}

func (r *turnRepository) ListByEncounter(ctx context.Context, encounterId uuid.UUID) ([]*entity.Turn, error) {
	s := r.uow.store
	s.mu.RLock()
	committed := s.getTurns(encounterId)
	s.mu.RUnlock()

	all := make([]entity.Turn, 0, len(committed))
	all = append(all, committed...)
	if r.uow.tx != nil {
		all = append(all, r.uow.tx.turns[encounterId]...)
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].Sequence < all[j].Sequence })

	result := make([]*entity.Turn, len(all))
	for i := range all {
		t := all[i]
		result[i] = &t
	}
	return result, nil
}

func (r *turnRepository) LastSequence(ctx context.Context, encounterId uuid.UUID) (int, error) {
	turns, err := r.ListByEncounter(ctx, encounterId)
	if err != nil {
		return 0, err
	}
	if len(turns) == 0 {
		return 0, nil
	}
	return turns[len(turns)-1].Sequence, nil
}

type summaryRepository struct {
	uow *UnitOfWork
}

func (r *summaryRepository) Create(ctx context.Context, summary *entity.Summary) error {
	existing, err := r.FindByEncounterId(ctx, summary.EncounterId)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrDuplicateSummary
	}
	if summary.Id == uuid.Nil {
		summary.Id = uuid.New()
	}
	if summary.CreatedAt.IsZero() {
		summary.CreatedAt = time.Now()
	}

	if r.uow.tx != nil {
		r.uow.tx.summaries[summary.EncounterId] = *summary
		r.uow.tx.createdSummaries[summary.EncounterId] = true
		return nil
	}
	s := r.uow.store
	s.mu.Lock()
	defer s.mu.Unlock()
	s.putSummary(*summary)
	return nil
}

func (r *summaryRepository) FindByEncounterId(ctx context.Context, encounterId uuid.UUID) (*entity.Summary, error) {
	if r.uow.tx != nil {
		if sm, ok := r.uow.tx.summaries[encounterId]; ok {
			return &sm, nil
		}
	}
	s := r.uow.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	sm, ok := s.getSummary(encounterId)
	if !ok {
		return nil, nil
	}
	return &sm, nil
}

func (r *summaryRepository) Update(ctx context.Context, summary *entity.Summary) error {
	existing, err := r.FindByEncounterId(ctx, summary.EncounterId)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrRecordNotFound
	}
	now := time.Now()
	summary.UpdatedAt = &now

	if r.uow.tx != nil {
		r.uow.tx.summaries[summary.EncounterId] = *summary
		return nil
	}
	s := r.uow.store
	s.mu.Lock()
	defer s.mu.Unlock()
	s.putSummary(*summary)
	return nil
}
