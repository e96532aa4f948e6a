package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/officehours/internal/formatting"
	"github.com/Freeeeeet/officehours/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// MessageSender: часть *bot.Bot, нужная для отправки сообщений
type MessageSender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

// TelegramSink отправляет события в чат курса
type TelegramSink struct {
	sender   MessageSender
	chatID   int64
	location *time.Location
}

func NewTelegramSink(sender MessageSender, chatID int64, location *time.Location) *TelegramSink {
	if location == nil {
		location = time.UTC
	}
	return &TelegramSink{sender: sender, chatID: chatID, location: location}
}

func (s *TelegramSink) Name() string { return "telegram" }

func (s *TelegramSink) Send(ctx context.Context, event model.SlotEvent) error {
	_, err := s.sender.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: s.chatID,
		Text:   formatting.EventText(event, s.location),
	})
	if err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	return nil
}
