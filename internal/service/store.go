package service

import (
	"context"
	"time"

	"github.com/Freeeeeet/officehours/internal/model"
	"go.uber.org/zap"
)

// SlotStore хранит слоты. CompareAndSwap остаётся единственным способом изменить состояние брони.
// Сервисы вызывают Create, CompareAndSwap и Delete с context.WithoutCancel: начатая запись
// доводится до конца, даже если клиент ушёл. Отмена действует только между попытками
type SlotStore interface {
	Create(ctx context.Context, slot *model.Slot) error
	Get(ctx context.Context, id string) (*model.Slot, error)
	CompareAndSwap(ctx context.Context, id string, expectedVersion int64, m model.SlotMutation) (*model.Slot, error)
	Delete(ctx context.Context, id string, expectedVersion int64) error
	ListByInstructorAndRange(ctx context.Context, instructorID string, from, to time.Time) ([]*model.Slot, error)
	ListByInstructor(ctx context.Context, instructorID string) ([]*model.Slot, error)
}

type InstructorStore interface {
	Upsert(ctx context.Context, instructor *model.Instructor) error
	Get(ctx context.Context, id string) (*model.Instructor, error)
}

// Notifier получает события после коммита. Не должен блокировать вызывающего
type Notifier interface {
	Notify(ctx context.Context, event model.SlotEvent)
}

// NopNotifier ничего не отправляет
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, model.SlotEvent) {}

// notifySafely отправляет событие после коммита. Паника в уведомлении не отменяет изменение
func notifySafely(ctx context.Context, n Notifier, event model.SlotEvent, logger *zap.Logger) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Notification hook panicked",
				zap.String("slot_id", event.SlotID),
				zap.Any("panic", r),
			)
		}
	}()
	n.Notify(context.WithoutCancel(ctx), event)
}
