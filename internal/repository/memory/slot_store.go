// Package memory содержит хранилище слотов в памяти процесса. Используется без DB_DSN и в тестах.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Freeeeeet/officehours/internal/model"
	"github.com/google/uuid"
)

type slotRecord struct {
	mu   sync.Mutex
	slot *model.Slot // nil после удаления
}

// SlotStore держит отдельный мьютекс на каждый слот, поэтому CAS по разным слотам не блокируют друг друга
type SlotStore struct {
	mu           sync.RWMutex // защищает только карты
	records      map[string]*slotRecord
	byInstructor map[string][]*slotRecord
	createLocks  map[string]*sync.Mutex
	now          func() time.Time
}

func NewSlotStore() *SlotStore {
	return &SlotStore{
		records:      make(map[string]*slotRecord),
		byInstructor: make(map[string][]*slotRecord),
		createLocks:  make(map[string]*sync.Mutex),
		now:          time.Now,
	}
}

// Create сохраняет слот с version = 0, проверяя пересечения с другими слотами преподавателя
func (s *SlotStore) Create(ctx context.Context, slot *model.Slot) error {
	lock := s.instructorLock(slot.InstructorID)
	lock.Lock()
	defer lock.Unlock()

	for _, existing := range s.snapshot(slot.InstructorID) {
		if existing.Overlaps(slot.Start, slot.End) {
			return model.ErrConflict
		}
	}

	if slot.ID == "" {
		slot.ID = uuid.NewString()
	}
	now := s.now()
	slot.Version = 0
	slot.CreatedAt = now
	slot.UpdatedAt = now

	rec := &slotRecord{slot: slot.Clone()}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[slot.ID]; ok {
		return model.ErrConflict
	}
	s.records[slot.ID] = rec
	s.byInstructor[slot.InstructorID] = append(s.byInstructor[slot.InstructorID], rec)

	return nil
}

// Get возвращает копию текущего состояния слота
func (s *SlotStore) Get(ctx context.Context, id string) (*model.Slot, error) {
	rec := s.record(id)
	if rec == nil {
		return nil, model.ErrNotFound
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if rec.slot == nil {
		return nil, model.ErrNotFound
	}
	return rec.slot.Clone(), nil
}

// CompareAndSwap применяет мутацию только если версия совпадает
func (s *SlotStore) CompareAndSwap(ctx context.Context, id string, expectedVersion int64, m model.SlotMutation) (*model.Slot, error) {
	if !m.Valid() {
		return nil, model.ErrInvalidTransition
	}

	rec := s.record(id)
	if rec == nil {
		return nil, model.ErrNotFound
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	if rec.slot == nil {
		return nil, model.ErrNotFound
	}
	if rec.slot.Version != expectedVersion {
		return nil, model.ErrVersionConflict
	}

	next := rec.slot.Clone()
	next.Reserved = m.Reserved
	next.ReservedBy = nil
	if m.ReservedBy != nil {
		by := *m.ReservedBy
		next.ReservedBy = &by
	}
	next.Version++
	next.UpdatedAt = s.now()
	rec.slot = next

	return next.Clone(), nil
}

// Delete удаляет слот, если версия совпадает
func (s *SlotStore) Delete(ctx context.Context, id string, expectedVersion int64) error {
	rec := s.record(id)
	if rec == nil {
		return model.ErrNotFound
	}

	rec.mu.Lock()
	if rec.slot == nil {
		rec.mu.Unlock()
		return model.ErrNotFound
	}
	if rec.slot.Version != expectedVersion {
		rec.mu.Unlock()
		return model.ErrVersionConflict
	}
	instructorID := rec.slot.InstructorID
	rec.slot = nil
	rec.mu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, id)
	list := s.byInstructor[instructorID]
	for i, r := range list {
		if r == rec {
			s.byInstructor[instructorID] = append(list[:i:i], list[i+1:]...)
			break
		}
	}

	return nil
}

// ListByInstructorAndRange возвращает слоты со start в [from, to), по возрастанию start
func (s *SlotStore) ListByInstructorAndRange(ctx context.Context, instructorID string, from, to time.Time) ([]*model.Slot, error) {
	var slots []*model.Slot
	for _, slot := range s.snapshot(instructorID) {
		if !slot.Start.Before(from) && slot.Start.Before(to) {
			slots = append(slots, slot)
		}
	}
	return slots, nil
}

// ListByInstructor возвращает все слоты преподавателя
func (s *SlotStore) ListByInstructor(ctx context.Context, instructorID string) ([]*model.Slot, error) {
	return s.snapshot(instructorID), nil
}

// snapshot копирует каждый слот под его собственным мьютексом
func (s *SlotStore) snapshot(instructorID string) []*model.Slot {
	s.mu.RLock()
	recs := append([]*slotRecord(nil), s.byInstructor[instructorID]...)
	s.mu.RUnlock()

	slots := make([]*model.Slot, 0, len(recs))
	for _, rec := range recs {
		rec.mu.Lock()
		if rec.slot != nil {
			slots = append(slots, rec.slot.Clone())
		}
		rec.mu.Unlock()
	}

	sort.Slice(slots, func(i, j int) bool {
		return slots[i].Start.Before(slots[j].Start)
	})
	return slots
}

func (s *SlotStore) record(id string) *slotRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records[id]
}

func (s *SlotStore) instructorLock(instructorID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.createLocks[instructorID]
	if !ok {
		lock = &sync.Mutex{}
		s.createLocks[instructorID] = lock
	}
	return lock
}
