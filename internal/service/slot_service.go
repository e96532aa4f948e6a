package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Freeeeeet/officehours/internal/model"
	"go.uber.org/zap"
)

// SlotService создаёт и удаляет слоты преподавателя
type SlotService struct {
	slots       SlotStore
	instructors InstructorStore
	notifier    Notifier
	retry       RetryPolicy
	logger      *zap.Logger
}

func NewSlotService(slots SlotStore, instructors InstructorStore, notifier Notifier, retry RetryPolicy, logger *zap.Logger) *SlotService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &SlotService{
		slots:       slots,
		instructors: instructors,
		notifier:    notifier,
		retry:       retry,
		logger:      logger,
	}
}

// Define создаёт слот [start, end) для преподавателя. Создавать слоты может только сам преподаватель
func (s *SlotService) Define(ctx context.Context, identity, instructorID string, start, end time.Time) (*model.Slot, error) {
	if strings.TrimSpace(identity) == "" || identity != instructorID {
		return nil, model.ErrUnauthorized
	}

	if !start.Before(end) {
		return nil, model.ErrInvalidSlot
	}

	if _, err := s.instructors.Get(ctx, instructorID); err != nil {
		return nil, err
	}

	slot := &model.Slot{
		InstructorID: instructorID,
		Start:        start.UTC(),
		End:          end.UTC(),
	}

	if err := s.slots.Create(context.WithoutCancel(ctx), slot); err != nil {
		if !errors.Is(err, model.ErrConflict) {
			s.logger.Error("Failed to create slot",
				zap.String("instructor_id", instructorID),
				zap.Error(err),
			)
		}
		return nil, err
	}

	s.logger.Info("Slot defined",
		zap.String("slot_id", slot.ID),
		zap.String("instructor_id", instructorID),
		zap.Time("start", slot.Start),
		zap.Time("end", slot.End),
	)

	return slot, nil
}

// Delete удаляет слот. Занятый слот удаляется только с force, владелец слота получает уведомление
func (s *SlotService) Delete(ctx context.Context, identity, slotID string, force bool) error {
	if strings.TrimSpace(identity) == "" {
		return model.ErrUnauthorized
	}

	var deleted *model.Slot
	err := s.retry.run(ctx, func(ctx context.Context) error {
		slot, err := s.slots.Get(ctx, slotID)
		if err != nil {
			return err
		}

		if slot.InstructorID != identity {
			return model.ErrUnauthorized
		}

		if slot.Reserved && !force {
			return model.ErrSlotReserved
		}

		if err := s.slots.Delete(context.WithoutCancel(ctx), slot.ID, slot.Version); err != nil {
			return err
		}
		deleted = slot
		return nil
	})
	if err != nil {
		return err
	}

	holder := deleted.Holder()
	s.logger.Info("Slot deleted",
		zap.String("slot_id", deleted.ID),
		zap.String("instructor_id", deleted.InstructorID),
		zap.String("previous_holder", holder),
		zap.Bool("forced", force),
	)

	event := model.NewSlotEvent(model.SlotEventDeleted, deleted, holder)
	event.State = model.SlotStateOpen
	event.ReservedBy = ""
	notifySafely(ctx, s.notifier, event, s.logger)

	return nil
}
