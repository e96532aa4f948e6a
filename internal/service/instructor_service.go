package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/Freeeeeet/officehours/internal/model"
	"go.uber.org/zap"
)

var instructorHandle = regexp.MustCompile(`^[a-zA-Z0-9._-]{1,64}$`)

type InstructorService struct {
	instructors InstructorStore
	logger      *zap.Logger
}

func NewInstructorService(instructors InstructorStore, logger *zap.Logger) *InstructorService {
	return &InstructorService{
		instructors: instructors,
		logger:      logger,
	}
}

// Register регистрирует преподавателя или обновляет его имя
func (s *InstructorService) Register(ctx context.Context, id, displayName string) (*model.Instructor, error) {
	id = strings.TrimSpace(id)
	if !instructorHandle.MatchString(id) {
		return nil, model.ErrInvalidInstructor
	}

	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		displayName = id
	}

	instructor := &model.Instructor{
		ID:          id,
		DisplayName: displayName,
	}
	if err := s.instructors.Upsert(ctx, instructor); err != nil {
		return nil, fmt.Errorf("register instructor: %w", err)
	}

	s.logger.Info("Instructor registered",
		zap.String("instructor_id", id),
		zap.String("display_name", displayName),
	)

	return instructor, nil
}

// Get получает преподавателя по handle
func (s *InstructorService) Get(ctx context.Context, id string) (*model.Instructor, error) {
	return s.instructors.Get(ctx, strings.TrimSpace(id))
}
