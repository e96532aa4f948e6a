package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Freeeeeet/officehours/internal/model"
)

type InstructorStore struct {
	mu          sync.RWMutex
	instructors map[string]model.Instructor
}

func NewInstructorStore() *InstructorStore {
	return &InstructorStore{instructors: make(map[string]model.Instructor)}
}

// Upsert создаёт преподавателя или обновляет отображаемое имя
func (s *InstructorStore) Upsert(ctx context.Context, instructor *model.Instructor) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.instructors[instructor.ID]; ok {
		instructor.CreatedAt = existing.CreatedAt
	} else {
		instructor.CreatedAt = time.Now()
	}
	s.instructors[instructor.ID] = *instructor
	return nil
}

func (s *InstructorStore) Get(ctx context.Context, id string) (*model.Instructor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	instructor, ok := s.instructors[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	return &instructor, nil
}
