package service

import (
	"context"
	"strings"

	"github.com/Freeeeeet/officehours/internal/model"
	"go.uber.org/zap"
)

// ReservationService реализует переходы Open <-> Reserved(by).
// Состояние меняется только через SlotStore.CompareAndSwap
type ReservationService struct {
	slots    SlotStore
	notifier Notifier
	retry    RetryPolicy
	logger   *zap.Logger
}

func NewReservationService(slots SlotStore, notifier Notifier, retry RetryPolicy, logger *zap.Logger) *ReservationService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &ReservationService{
		slots:    slots,
		notifier: notifier,
		retry:    retry,
		logger:   logger,
	}
}

// Reserve бронирует свободный слот для identity
func (s *ReservationService) Reserve(ctx context.Context, slotID, identity string) (*model.Slot, error) {
	if strings.TrimSpace(identity) == "" {
		return nil, model.ErrUnauthorized
	}

	var updated *model.Slot
	err := s.retry.run(ctx, func(ctx context.Context) error {
		slot, err := s.slots.Get(ctx, slotID)
		if err != nil {
			return err
		}

		if slot.Reserved {
			return model.ErrAlreadyReserved
		}

		updated, err = s.slots.CompareAndSwap(context.WithoutCancel(ctx), slot.ID, slot.Version, model.ReserveFor(identity))
		return err
	})
	if err != nil {
		s.logger.Debug("Reserve rejected",
			zap.String("slot_id", slotID),
			zap.String("identity", identity),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("Slot reserved",
		zap.String("slot_id", updated.ID),
		zap.String("instructor_id", updated.InstructorID),
		zap.String("reserved_by", identity),
		zap.Int64("version", updated.Version),
	)

	s.emit(ctx, model.NewSlotEvent(model.SlotEventReserved, updated, ""))
	return updated, nil
}

// Release освобождает слот. Освободить может только тот, кто его занял
func (s *ReservationService) Release(ctx context.Context, slotID, identity string) (*model.Slot, error) {
	if strings.TrimSpace(identity) == "" {
		return nil, model.ErrUnauthorized
	}

	var updated *model.Slot
	err := s.retry.run(ctx, func(ctx context.Context) error {
		slot, err := s.slots.Get(ctx, slotID)
		if err != nil {
			return err
		}

		if !slot.HeldBy(identity) {
			return model.ErrInvalidTransition
		}

		updated, err = s.slots.CompareAndSwap(context.WithoutCancel(ctx), slot.ID, slot.Version, model.Release())
		return err
	})
	if err != nil {
		s.logger.Debug("Release rejected",
			zap.String("slot_id", slotID),
			zap.String("identity", identity),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("Slot released",
		zap.String("slot_id", updated.ID),
		zap.String("instructor_id", updated.InstructorID),
		zap.String("released_by", identity),
		zap.Int64("version", updated.Version),
	)

	s.emit(ctx, model.NewSlotEvent(model.SlotEventReleased, updated, identity))
	return updated, nil
}

// Toggle реализует контракт PATCH {id, reserved} старого веб-интерфейса
func (s *ReservationService) Toggle(ctx context.Context, slotID, identity string, reserved bool) (*model.Slot, error) {
	if reserved {
		return s.Reserve(ctx, slotID, identity)
	}
	return s.Release(ctx, slotID, identity)
}

func (s *ReservationService) emit(ctx context.Context, event model.SlotEvent) {
	notifySafely(ctx, s.notifier, event, s.logger)
}
