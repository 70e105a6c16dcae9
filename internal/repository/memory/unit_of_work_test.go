package memory

import (
	"context"
	"testing"

	"ai-triage-be/internal/constant"
	"ai-triage-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedEncounter(t *testing.T, store *Store) uuid.UUID {
	t.Helper()
	uow := NewRepositoryFactory(store).NewUnitOfWork(context.Background())
	e := &entity.Encounter{State: constant.EncounterStateInProgress, ChiefComplaint: "cough"}
	require.NoError(t, uow.EncounterRepository().Create(context.Background(), e))
	return e.Id
}

func TestCommitAppliesAllWrites(t *testing.T) {
	ctx := context.Background()
	store := NewStore(0)
	id := seedEncounter(t, store)
	factory := NewRepositoryFactory(store)

	uow := factory.NewUnitOfWork(ctx)
	require.NoError(t, uow.Begin(ctx))
	require.NoError(t, uow.TurnRepository().Append(ctx, &entity.Turn{EncounterId: id, Sequence: 1, Origin: constant.TurnOriginSystem, Content: "hi"}))
	require.NoError(t, uow.TurnRepository().Append(ctx, &entity.Turn{EncounterId: id, Sequence: 2, Origin: constant.TurnOriginPatient, Content: "hello"}))
	require.NoError(t, uow.SummaryRepository().Create(ctx, &entity.Summary{EncounterId: id, Version: 1, RiskScore: constant.RiskScoreLow}))
	require.NoError(t, uow.EncounterRepository().UpdateState(ctx, id, constant.EncounterStateAwaitingReview))

	// Nothing is visible to other units before commit.
	other := factory.NewUnitOfWork(ctx)
	turns, err := other.TurnRepository().ListByEncounter(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, turns)
	enc, err := other.EncounterRepository().FindById(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, constant.EncounterStateInProgress, enc.State)

	require.NoError(t, uow.Commit())

	turns, err = other.TurnRepository().ListByEncounter(ctx, id)
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, 1, turns[0].Sequence)
	assert.Equal(t, 2, turns[1].Sequence)

	enc, err = other.EncounterRepository().FindById(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, constant.EncounterStateAwaitingReview, enc.State)

	summary, err := other.SummaryRepository().FindByEncounterId(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, summary)
	assert.Equal(t, 1, summary.Version)
}

func TestRollbackDiscardsWrites(t *testing.T) {
	ctx := context.Background()
	store := NewStore(0)
	id := seedEncounter(t, store)

	uow := NewRepositoryFactory(store).NewUnitOfWork(ctx)
	require.NoError(t, uow.Begin(ctx))
	require.NoError(t, uow.TurnRepository().Append(ctx, &entity.Turn{EncounterId: id, Sequence: 1, Content: "x"}))
	require.NoError(t, uow.Rollback())

	last, err := uow.TurnRepository().LastSequence(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 0, last)
	assert.Error(t, uow.Rollback())
	assert.Error(t, uow.Commit())
}

func TestDuplicateSequenceRejected(t *testing.T) {
	ctx := context.Background()
	store := NewStore(0)
	id := seedEncounter(t, store)
	factory := NewRepositoryFactory(store)

	first := factory.NewUnitOfWork(ctx)
	second := factory.NewUnitOfWork(ctx)
	require.NoError(t, first.Begin(ctx))
	require.NoError(t, second.Begin(ctx))

	require.NoError(t, first.TurnRepository().Append(ctx, &entity.Turn{EncounterId: id, Sequence: 1}))
	require.NoError(t, second.TurnRepository().Append(ctx, &entity.Turn{EncounterId: id, Sequence: 1}))

	require.NoError(t, first.Commit())
	assert.ErrorIs(t, second.Commit(), ErrDuplicateSequence)

	turns, err := factory.NewUnitOfWork(ctx).TurnRepository().ListByEncounter(ctx, id)
	require.NoError(t, err)
	assert.Len(t, turns, 1)

	direct := factory.NewUnitOfWork(ctx)
	assert.ErrorIs(t, direct.TurnRepository().Append(ctx, &entity.Turn{EncounterId: id, Sequence: 1}), ErrDuplicateSequence)
}

func TestSummaryLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewStore(0)
	id := seedEncounter(t, store)
	repo := NewRepositoryFactory(store).NewUnitOfWork(ctx).SummaryRepository()

	missing, err := repo.FindByEncounterId(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, missing)
	assert.ErrorIs(t, repo.Update(ctx, &entity.Summary{EncounterId: id}), ErrRecordNotFound)

	s := &entity.Summary{EncounterId: id, Plan: "rest", Version: 1}
	require.NoError(t, repo.Create(ctx, s))
	assert.ErrorIs(t, repo.Create(ctx, &entity.Summary{EncounterId: id}), ErrDuplicateSummary)

	s.Plan = "refer"
	s.Version = 2
	require.NoError(t, repo.Update(ctx, s))

	got, err := repo.FindByEncounterId(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "refer", got.Plan)
	assert.Equal(t, 2, got.Version)
	assert.NotNil(t, got.UpdatedAt)
}

func TestUpdateStateMissingEncounter(t *testing.T) {
	uow := NewRepositoryFactory(NewStore(0)).NewUnitOfWork(context.Background())
	err := uow.EncounterRepository().UpdateState(context.Background(), uuid.New(), constant.EncounterStateCompleted)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}
