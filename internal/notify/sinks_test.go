package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/Freeeeeet/officehours/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	params []*bot.SendMessageParams
	err    error
}

func (s *fakeSender) SendMessage(_ context.Context, params *bot.SendMessageParams) (*models.Message, error) {
	s.params = append(s.params, params)
	if s.err != nil {
		return nil, s.err
	}
	return &models.Message{ID: len(s.params)}, nil
}

type fakePublisher struct {
	channel string
	message any
	err     error
}

func (p *fakePublisher) Publish(ctx context.Context, channel string, message any) *redis.IntCmd {
	p.channel = channel
	p.message = message

	cmd := redis.NewIntCmd(ctx, "publish", channel, message)
	if p.err != nil {
		cmd.SetErr(p.err)
	} else {
		cmd.SetVal(1)
	}
	return cmd
}

func TestTelegramSink_Send(t *testing.T) {
	sender := &fakeSender{}
	sink := NewTelegramSink(sender, -100500, time.UTC)

	require.NoError(t, sink.Send(context.Background(), testEvent("a")))
	require.Len(t, sender.params, 1)
	assert.Equal(t, int64(-100500), sender.params[0].ChatID)
	assert.Contains(t, sender.params[0].Text, "alice")
	assert.Contains(t, sender.params[0].Text, "10:00")

	sender.err = errors.New("forbidden")
	assert.Error(t, sink.Send(context.Background(), testEvent("a")))
}

func TestRedisSink_Send(t *testing.T) {
	publisher := &fakePublisher{}
	sink := NewRedisSink(publisher, "officehours:events")

	require.NoError(t, sink.Send(context.Background(), testEvent("a")))
	assert.Equal(t, "officehours:events", publisher.channel)

	payload, ok := publisher.message.([]byte)
	require.True(t, ok)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, "a", decoded["slot_id"])
	assert.Equal(t, "reserved", decoded["kind"])
	assert.Equal(t, "alice", decoded["reserved_by"])
	assert.NotContains(t, decoded, "previous_holder")

	publisher.err = errors.New("connection refused")
	assert.Error(t, sink.Send(context.Background(), testEvent("a")))
}

func TestEventKindsRenderForChat(t *testing.T) {
	sender := &fakeSender{}
	sink := NewTelegramSink(sender, 1, nil)

	released := testEvent("a")
	released.Kind = model.SlotEventReleased
	released.State = model.SlotStateOpen
	released.ReservedBy = ""
	released.PreviousHolder = "alice"

	deleted := released
	deleted.Kind = model.SlotEventDeleted

	for _, event := range []model.SlotEvent{released, deleted} {
		require.NoError(t, sink.Send(context.Background(), event))
	}
	require.Len(t, sender.params, 2)
	assert.Contains(t, sender.params[0].Text, "освободил")
	assert.Contains(t, sender.params[1].Text, "отменена")
}
