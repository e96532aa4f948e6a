package handlers

import (
	"testing"
	"time"

	"github.com/Freeeeeet/officehours/internal/model"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityOf(t *testing.T) {
	assert.Equal(t, "", identityOf(nil))
	assert.Equal(t, "@alice", identityOf(&models.User{ID: 1, Username: "alice"}))
	assert.Equal(t, "tg:42", identityOf(&models.User{ID: 42}))
}

func TestParseOfficeHoursArgs(t *testing.T) {
	loc := time.FixedZone("MSK", 3*60*60)
	now := time.Date(2024, time.October, 15, 22, 30, 0, 0, time.UTC)

	instructor, date, err := parseOfficeHoursArgs("/officehours prof", now, loc)
	require.NoError(t, err)
	assert.Equal(t, "prof", instructor)
	assert.Equal(t, 16, date.Day())

	instructor, date, err = parseOfficeHoursArgs("/officehours  prof.smith   2024-11-01", now, loc)
	require.NoError(t, err)
	assert.Equal(t, "prof.smith", instructor)
	assert.Equal(t, time.Date(2024, time.November, 1, 0, 0, 0, 0, loc), date)

	for _, text := range []string{"/officehours", "/officehours prof 01.11.2024", "/officehours a b c"} {
		_, _, err := parseOfficeHoursArgs(text, now, loc)
		assert.ErrorIs(t, err, errUsage, text)
	}
}

func TestParseSlotArg(t *testing.T) {
	id, ok := parseSlotArg("/reserve 3f2a")
	assert.True(t, ok)
	assert.Equal(t, "3f2a", id)

	_, ok = parseSlotArg("/reserve")
	assert.False(t, ok)

	_, ok = parseSlotArg("/reserve a b")
	assert.False(t, ok)
}

func TestSlotKeyboard(t *testing.T) {
	alice := "@alice"
	bob := "@bob"
	start := time.Date(2024, time.October, 15, 10, 0, 0, 0, time.UTC)

	slots := []*model.Slot{
		{ID: "open", Start: start, End: start.Add(30 * time.Minute)},
		{ID: "mine", Start: start.Add(time.Hour), End: start.Add(90 * time.Minute), Reserved: true, ReservedBy: &alice},
		{ID: "taken", Start: start.Add(2 * time.Hour), End: start.Add(150 * time.Minute), Reserved: true, ReservedBy: &bob},
	}

	keyboard := slotKeyboard(slots, alice, time.UTC)
	require.Len(t, keyboard.InlineKeyboard, 2)
	assert.Equal(t, ReserveSlot+"open", keyboard.InlineKeyboard[0][0].CallbackData)
	assert.Contains(t, keyboard.InlineKeyboard[0][0].Text, "10:00")
	assert.Equal(t, ReleaseSlot+"mine", keyboard.InlineKeyboard[1][0].CallbackData)
}
