package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Freeeeeet/officehours/internal/model"
	"github.com/Freeeeeet/officehours/internal/repository/memory"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []model.SlotEvent
}

func (n *recordingNotifier) Notify(_ context.Context, event model.SlotEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) Events() []model.SlotEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]model.SlotEvent(nil), n.events...)
}

type fixture struct {
	slots        *memory.SlotStore
	instructors  *memory.InstructorStore
	notifier     *recordingNotifier
	reservations *ReservationService
	definitions  *SlotService
	queries      *QueryService
}

var testRetry = RetryPolicy{MaxRetries: DefaultMaxRetries, Delay: time.Millisecond}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	logger := zap.NewNop()
	f := &fixture{
		slots:       memory.NewSlotStore(),
		instructors: memory.NewInstructorStore(),
		notifier:    &recordingNotifier{},
	}
	f.reservations = NewReservationService(f.slots, f.notifier, testRetry, logger)
	f.definitions = NewSlotService(f.slots, f.instructors, f.notifier, testRetry, logger)
	f.queries = NewQueryService(f.slots, f.instructors, time.UTC)

	require.NoError(t, f.instructors.Upsert(context.Background(), &model.Instructor{ID: "instructor", DisplayName: "Dr. Office"}))
	return f
}

// define создаёт слот преподавателя "instructor"
func (f *fixture) define(t *testing.T, start, end time.Time) *model.Slot {
	t.Helper()
	slot, err := f.definitions.Define(context.Background(), "instructor", "instructor", start, end)
	require.NoError(t, err)
	return slot
}

func at(day, hour, minute int) time.Time {
	return time.Date(2024, time.October, day, hour, minute, 0, 0, time.UTC)
}
