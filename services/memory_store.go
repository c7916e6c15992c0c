package services

import (
	"context"
	"errors"
	"sort"
	"sync"

	"faculty-management-api/models"
)

// MemoryRequestStore keeps requests in process. It applies the same
// compare-and-set rule as the gorm store and backs the handler tests.
type MemoryRequestStore[T any, PT reviewablePtr[T]] struct {
	mu      sync.RWMutex
	items   map[string]T
	history []models.ReviewHistory
}

func NewMemoryRequestStore[T any, PT reviewablePtr[T]]() *MemoryRequestStore[T, PT] {
	return &MemoryRequestStore[T, PT]{items: make(map[string]T)}
}

func (s *MemoryRequestStore[T, PT]) Create(_ context.Context, entity *T) error {
	id := PT(entity).GetID()
	if id == "" {
		return errors.New("memory store: entity id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.items[id]; exists {
		return errors.New("memory store: duplicate id " + id)
	}
	s.items[id] = *entity
	return nil
}

func (s *MemoryRequestStore[T, PT]) Get(_ context.Context, id string) (*T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[id]
	if !ok {
		return nil, notFound(string(PT(&item).RequestKind()))
	}
	return &item, nil
}

func (s *MemoryRequestStore[T, PT]) List(_ context.Context, scope Scope, filter ListFilter) ([]T, int64, error) {
	filter = filter.normalized()

	s.mu.RLock()
	matched := make([]T, 0, len(s.items))
	for _, item := range s.items {
		st := PT(&item).State()
		if !scope.MatchesState(st) {
			continue
		}
		if filter.Status != "" && st.Status != filter.Status {
			continue
		}
		matched = append(matched, item)
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		a, b := PT(&matched[i]).State(), PT(&matched[j]).State()
		if a.SubmittedAt.Equal(b.SubmittedAt) {
			return PT(&matched[i]).GetID() < PT(&matched[j]).GetID()
		}
		return a.SubmittedAt.After(b.SubmittedAt)
	})

	total := int64(len(matched))
	if filter.Offset >= len(matched) {
		return []T{}, total, nil
	}
	end := filter.Offset + filter.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[filter.Offset:end], total, nil
}

func (s *MemoryRequestStore[T, PT]) Transition(_ context.Context, entity *T, from models.RequestStatus, _ map[string]interface{}, history *models.ReviewHistory) error {
	id := PT(entity).GetID()

	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.items[id]
	if !ok || PT(&current).State().Status != from {
		return ErrConflict
	}
	s.items[id] = *entity
	if history != nil {
		h := *history
		h.HistoryID = uint(len(s.history) + 1)
		s.history = append(s.history, h)
	}
	return nil
}

func (s *MemoryRequestStore[T, PT]) UpdatePending(_ context.Context, entity *T, _ map[string]interface{}) error {
	id := PT(entity).GetID()

	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.items[id]
	if !ok || PT(&current).State().Status != models.StatusPending {
		return ErrConflict
	}
	s.items[id] = *entity
	return nil
}

func (s *MemoryRequestStore[T, PT]) DeletePending(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.items[id]
	if !ok || PT(&current).State().Status != models.StatusPending {
		return ErrConflict
	}
	delete(s.items, id)
	return nil
}

// History returns the recorded transitions for id, oldest first.
func (s *MemoryRequestStore[T, PT]) History(id string) []models.ReviewHistory {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.ReviewHistory
	for _, h := range s.history {
		if h.RequestID == id {
			out = append(out, h)
		}
	}
	return out
}
