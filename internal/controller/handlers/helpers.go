package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/officehours/internal/formatting"
	"github.com/Freeeeeet/officehours/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

var errUsage = errors.New("usage: /officehours <instructor> [YYYY-MM-DD]")

// identityOf возвращает непрозрачный идентификатор пользователя Telegram для движка бронирования
func identityOf(user *models.User) string {
	if user == nil {
		return ""
	}
	if user.Username != "" {
		return "@" + user.Username
	}
	return fmt.Sprintf("tg:%d", user.ID)
}

// parseOfficeHoursArgs разбирает "/officehours <instructor> [YYYY-MM-DD]". Без даты берётся сегодня
func parseOfficeHoursArgs(text string, now time.Time, loc *time.Location) (string, time.Time, error) {
	fields := strings.Fields(text)
	if len(fields) < 2 || len(fields) > 3 {
		return "", time.Time{}, errUsage
	}

	instructorID := fields[1]
	date := now.In(loc)
	if len(fields) == 3 {
		parsed, err := time.ParseInLocation(dateLayout, fields[2], loc)
		if err != nil {
			return "", time.Time{}, errUsage
		}
		date = parsed
	}

	return instructorID, date, nil
}

// parseSlotArg разбирает "/reserve <slot_id>"
func parseSlotArg(text string) (string, bool) {
	fields := strings.Fields(text)
	if len(fields) != 2 {
		return "", false
	}
	return fields[1], true
}

// slotKeyboard строит кнопки бронирования для слотов дня
func slotKeyboard(slots []*model.Slot, viewer string, loc *time.Location) *models.InlineKeyboardMarkup {
	rows := make([][]models.InlineKeyboardButton, 0, len(slots))

	for _, slot := range slots {
		timeRange := formatting.FormatTimeRange(slot.Start.In(loc), slot.End.In(loc))
		switch {
		case !slot.Reserved:
			rows = append(rows, []models.InlineKeyboardButton{
				{Text: "🟢 " + timeRange + " Записаться", CallbackData: ReserveSlot + slot.ID},
			})
		case slot.HeldBy(viewer):
			rows = append(rows, []models.InlineKeyboardButton{
				{Text: "🔴 " + timeRange + " Отменить запись", CallbackData: ReleaseSlot + slot.ID},
			})
		}
	}

	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// sendError отправляет сообщение об ошибке и логирует если не удалось
func (h *Handlers) sendError(ctx context.Context, b *bot.Bot, chatID int64, err error) {
	h.sendMessage(ctx, b, chatID, model.ErrorMessage(err))
}

// sendMessage отправляет сообщение и логирует если не удалось
func (h *Handlers) sendMessage(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		h.logger.Error("Failed to send message",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
}

// answerCallback отвечает на нажатие кнопки
func (h *Handlers) answerCallback(ctx context.Context, b *bot.Bot, callbackID, text string, alert bool) {
	_, err := b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
		ShowAlert:       alert,
	})
	if err != nil {
		h.logger.Error("Failed to answer callback", zap.Error(err))
	}
}
