package memory

import (
	"context"
	"fmt"

	"ai-triage-be/internal/entity"
	"ai-triage-be/internal/repository/contract"
	"ai-triage-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type RepositoryFactory struct {
	store *Store
}

func NewRepositoryFactory(store *Store) unitofwork.RepositoryFactory {
	return &RepositoryFactory{store: store}
}

func (f *RepositoryFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &UnitOfWork{store: f.store}
}

// staged holds writes made between Begin and Commit. Reads inside the
// transaction see staged values over committed ones.
type staged struct {
	encounters       map[uuid.UUID]entity.Encounter
	turns            map[uuid.UUID][]entity.Turn
	summaries        map[uuid.UUID]entity.Summary
	createdSummaries map[uuid.UUID]bool
}

type UnitOfWork struct {
	store *Store
	tx    *staged
}

var _ unitofwork.UnitOfWork = &UnitOfWork{}

func (u *UnitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}
	u.tx = &staged{
		encounters:       make(map[uuid.UUID]entity.Encounter),
		turns:            make(map[uuid.UUID][]entity.Turn),
		summaries:        make(map[uuid.UUID]entity.Summary),
		createdSummaries: make(map[uuid.UUID]bool),
	}
	return nil
}

// Commit applies every staged write under one store lock, or none of them.
func (u *UnitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}
	tx := u.tx
	u.tx = nil

	s := u.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for encounterId, added := range tx.turns {
		last := lastSequence(s.getTurns(encounterId))
		if len(added) > 0 && added[0].Sequence <= last {
			return ErrDuplicateSequence
		}
	}
	for encounterId := range tx.createdSummaries {
		if _, exists := s.getSummary(encounterId); exists {
			return ErrDuplicateSummary
		}
	}

	for _, e := range tx.encounters {
		s.putEncounter(e)
	}
	for encounterId, added := range tx.turns {
		if err := s.appendTurns(encounterId, added); err != nil {
			return err
		}
	}
	for _, summary := range tx.summaries {
		s.putSummary(summary)
	}
	return nil
}

func (u *UnitOfWork) Rollback() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to rollback")
	}
	u.tx = nil
	return nil
}

func (u *UnitOfWork) EncounterRepository() contract.EncounterRepository {
	return &encounterRepository{uow: u}
}

func (u *UnitOfWork) TurnRepository() contract.TurnRepository {
	return &turnRepository{uow: u}
}

func (u *UnitOfWork) SummaryRepository() contract.SummaryRepository {
	return &summaryRepository{uow: u}
}
