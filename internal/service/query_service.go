package service

import (
	"context"
	"time"

	"github.com/Freeeeeet/officehours/internal/model"
)

// QueryService читает слоты для отображения. Без кэша: каждый вызов идёт в хранилище
type QueryService struct {
	slots       SlotStore
	instructors InstructorStore
	location    *time.Location
}

func NewQueryService(slots SlotStore, instructors InstructorStore, location *time.Location) *QueryService {
	if location == nil {
		location = time.UTC
	}
	return &QueryService{
		slots:       slots,
		instructors: instructors,
		location:    location,
	}
}

// Location возвращает часовой пояс, в котором считаются границы дня
func (s *QueryService) Location() *time.Location {
	return s.location
}

// ListForDate возвращает слоты преподавателя за календарный день date
func (s *QueryService) ListForDate(ctx context.Context, instructorID string, date time.Time) ([]*model.Slot, error) {
	from, to := s.dayBounds(date)
	return s.ListRange(ctx, instructorID, from, to)
}

// ListRange возвращает слоты со start в [from, to)
func (s *QueryService) ListRange(ctx context.Context, instructorID string, from, to time.Time) ([]*model.Slot, error) {
	if !from.Before(to) {
		return nil, model.ErrInvalidRange
	}
	if err := s.requireInstructor(ctx, instructorID); err != nil {
		return nil, err
	}
	return s.slots.ListByInstructorAndRange(ctx, instructorID, from, to)
}

// ListAll возвращает все слоты преподавателя
func (s *QueryService) ListAll(ctx context.Context, instructorID string) ([]*model.Slot, error) {
	if err := s.requireInstructor(ctx, instructorID); err != nil {
		return nil, err
	}
	return s.slots.ListByInstructor(ctx, instructorID)
}

// DaysWithSlots возвращает дни (полночь в s.location), в которые есть слоты. Нужно для подсветки календаря
func (s *QueryService) DaysWithSlots(ctx context.Context, instructorID string, from, to time.Time) ([]time.Time, error) {
	slots, err := s.ListRange(ctx, instructorID, from, to)
	if err != nil {
		return nil, err
	}

	days := make([]time.Time, 0, len(slots))
	for _, slot := range slots {
		day, _ := s.dayBounds(slot.Start)
		if len(days) == 0 || !days[len(days)-1].Equal(day) {
			days = append(days, day)
		}
	}
	return days, nil
}

func (s *QueryService) requireInstructor(ctx context.Context, instructorID string) error {
	_, err := s.instructors.Get(ctx, instructorID)
	return err
}

// dayBounds возвращает [начало дня, начало следующего дня) в s.location
func (s *QueryService) dayBounds(date time.Time) (time.Time, time.Time) {
	local := date.In(s.location)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.location)
	return start, start.AddDate(0, 0, 1)
}
