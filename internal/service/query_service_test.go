package service

import (
	"context"
	"testing"
	"time"

	"github.com/Freeeeeet/officehours/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestListForDate_OnlyThatDayOrdered(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	afternoon := f.define(t, at(15, 14, 0), at(15, 14, 30))
	nextDay := f.define(t, at(16, 9, 0), at(16, 9, 30))
	morning := f.define(t, at(15, 9, 0), at(15, 9, 30))

	slots, err := f.queries.ListForDate(ctx, "instructor", at(15, 17, 45))
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, morning.ID, slots[0].ID)
	assert.Equal(t, afternoon.ID, slots[1].ID)

	slots, err = f.queries.ListForDate(ctx, "instructor", at(16, 0, 0))
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, nextDay.ID, slots[0].ID)
}

func TestListForDate_UsesConfiguredLocation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	loc := time.FixedZone("UTC+3", 3*60*60)
	queries := NewQueryService(f.slots, f.instructors, loc)

	// 22:30 UTC 15-го это уже 16-е по UTC+3
	late := f.define(t, at(15, 22, 30), at(15, 23, 0))

	slots, err := queries.ListForDate(ctx, "instructor", time.Date(2024, time.October, 16, 12, 0, 0, 0, loc))
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, late.ID, slots[0].ID)

	slots, err = queries.ListForDate(ctx, "instructor", time.Date(2024, time.October, 15, 12, 0, 0, 0, loc))
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestListForDate_ReflectsLatestState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	slot := f.define(t, at(15, 10, 0), at(15, 10, 30))

	_, err := f.reservations.Reserve(ctx, slot.ID, "alice")
	require.NoError(t, err)

	slots, err := f.queries.ListForDate(ctx, "instructor", at(15, 0, 0))
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.True(t, slots[0].HeldBy("alice"))
}

func TestQueries_UnknownInstructor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.queries.ListForDate(ctx, "ghost", at(15, 0, 0))
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = f.queries.ListAll(ctx, "ghost")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestListRange_InvalidRange(t *testing.T) {
	f := newFixture(t)

	_, err := f.queries.ListRange(context.Background(), "instructor", at(16, 0, 0), at(15, 0, 0))
	assert.ErrorIs(t, err, model.ErrInvalidRange)
}

func TestListAllAndDays(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.define(t, at(17, 9, 0), at(17, 9, 30))
	f.define(t, at(15, 9, 0), at(15, 9, 30))
	f.define(t, at(15, 14, 0), at(15, 14, 30))

	all, err := f.queries.ListAll(ctx, "instructor")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.True(t, all[0].Start.Before(all[1].Start))
	assert.True(t, all[1].Start.Before(all[2].Start))

	days, err := f.queries.DaysWithSlots(ctx, "instructor", at(14, 0, 0), at(20, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, []time.Time{at(15, 0, 0), at(17, 0, 0)}, days)
}

func TestInstructorService_Register(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewInstructorService(f.instructors, zap.NewNop())

	instructor, err := svc.Register(ctx, " prof.smith ", "")
	require.NoError(t, err)
	assert.Equal(t, "prof.smith", instructor.ID)
	assert.Equal(t, "prof.smith", instructor.DisplayName)

	_, err = svc.Register(ctx, "prof.smith", "Prof. Smith")
	require.NoError(t, err)

	got, err := svc.Get(ctx, "prof.smith")
	require.NoError(t, err)
	assert.Equal(t, "Prof. Smith", got.DisplayName)

	_, err = svc.Register(ctx, "bad handle/", "")
	assert.ErrorIs(t, err, model.ErrInvalidInstructor)
}
