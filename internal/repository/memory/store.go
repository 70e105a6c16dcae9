package memory

import (
	"errors"
	"sync"
	"time"

	"ai-triage-be/internal/entity"
	"ai-triage-be/internal/pkg/apperror"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

var (
	ErrRecordNotFound    = errors.New("record not found")
	ErrDuplicateSequence = apperror.Conflict("duplicate turn sequence")
	ErrDuplicateSummary  = apperror.Conflict("summary already exists for encounter")
)

// Store keeps encounters, turns and summaries in process memory. Values are
// stored by copy so callers never share mutable state with the store.
type Store struct {
	mu    sync.RWMutex
	cache *cache.Cache
}

// NewStore creates a store whose records expire after ttl. A zero ttl keeps
// records for the life of the process.
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		return &Store{cache: cache.New(cache.NoExpiration, 0)}
	}
	return &Store{cache: cache.New(ttl, ttl/6)}
}

func encounterKey(id uuid.UUID) string { return "encounter:" + id.String() }
func turnsKey(id uuid.UUID) string     { return "turns:" + id.String() }
func summaryKey(id uuid.UUID) string   { return "summary:" + id.String() }

// The helpers below expect s.mu to be held by the caller.

func (s *Store) getEncounter(id uuid.UUID) (entity.Encounter, bool) {
	if x, found := s.cache.Get(encounterKey(id)); found {
		return x.(entity.Encounter), true
	}
	return entity.Encounter{}, false
}

func (s *Store) putEncounter(e entity.Encounter) {
	s.cache.Set(encounterKey(e.Id), e, cache.DefaultExpiration)
}

func (s *Store) getTurns(encounterId uuid.UUID) []entity.Turn {
	if x, found := s.cache.Get(turnsKey(encounterId)); found {
		return x.([]entity.Turn)
	}
	return nil
}

func (s *Store) putTurns(encounterId uuid.UUID, turns []entity.Turn) {
	s.cache.Set(turnsKey(encounterId), turns, cache.DefaultExpiration)
}

func (s *Store) getSummary(encounterId uuid.UUID) (entity.Summary, bool) {
	if x, found := s.cache.Get(summaryKey(encounterId)); found {
		return x.(entity.Summary), true
	}
	return entity.Summary{}, false
}

func (s *Store) putSummary(summary entity.Summary) {
	s.cache.Set(summaryKey(summary.EncounterId), summary, cache.DefaultExpiration)
}

func lastSequence(turns []entity.Turn) int {
	if len(turns) == 0 {
		return 0
	}
	return turns[len(turns)-1].Sequence
}

// appendTurns copies existing before appending so readers holding the old
// slice never observe the new elements.
func (s *Store) appendTurns(encounterId uuid.UUID, added []entity.Turn) error {
	existing := s.getTurns(encounterId)
	last := lastSequence(existing)
	for _, t := range added {
		if t.Sequence <= last {
			return ErrDuplicateSequence
		}
		last = t.Sequence
	}
	merged := make([]entity.Turn, 0, len(existing)+len(added))
	merged = append(merged, existing...)
	merged = append(merged, added...)
	s.putTurns(encounterId, merged)
	return nil
}
