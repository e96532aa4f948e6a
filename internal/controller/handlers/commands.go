package handlers

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Freeeeeet/officehours/internal/formatting"
	"github.com/Freeeeeet/officehours/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

const helpText = "📚 Справка по командам:\n\n" +
	"/officehours <преподаватель> [ГГГГ-ММ-ДД] - Приёмные часы на день\n" +
	"/reserve <id слота> - Записаться\n" +
	"/release <id слота> - Отменить запись\n" +
	"/help - Показать эту справку\n\n" +
	"Записаться можно и кнопками под расписанием."

// HandleStart обрабатывает команду /start
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID,
		"👋 Привет! Здесь можно записаться на приёмные часы преподавателя.\n\n"+helpText)
}

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, helpText)
}

// HandleOfficeHours показывает слоты преподавателя за день с кнопками записи
func (h *Handlers) HandleOfficeHours(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	instructorID, date, err := parseOfficeHoursArgs(update.Message.Text, h.now(), h.location)
	if err != nil {
		h.sendMessage(ctx, b, chatID, "❌ Формат: /officehours <преподаватель> [ГГГГ-ММ-ДД]")
		return
	}

	text, keyboard, err := h.renderDay(ctx, instructorID, date, identityOf(update.Message.From))
	if err != nil {
		h.sendError(ctx, b, chatID, err)
		return
	}

	_, err = b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ReplyMarkup: keyboard,
	})
	if err != nil {
		h.logger.Error("Failed to send schedule", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

// HandleReserve обрабатывает /reserve <slot_id>
func (h *Handlers) HandleReserve(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.handleSlotCommand(ctx, b, update, true)
}

// HandleRelease обрабатывает /release <slot_id>
func (h *Handlers) HandleRelease(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.handleSlotCommand(ctx, b, update, false)
}

func (h *Handlers) handleSlotCommand(ctx context.Context, b *bot.Bot, update *models.Update, reserve bool) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	slotID, ok := parseSlotArg(update.Message.Text)
	if !ok {
		h.sendMessage(ctx, b, chatID, "❌ Укажите id слота")
		return
	}

	slot, err := h.reservations.Toggle(ctx, slotID, identityOf(update.Message.From), reserve)
	if err != nil {
		h.sendError(ctx, b, chatID, err)
		return
	}

	h.sendMessage(ctx, b, chatID, resultText(slot, reserve, h.location))
}

// HandleCallbackQuery обрабатывает кнопки reserve:<id> и release:<id>
func (h *Handlers) HandleCallbackQuery(ctx context.Context, b *bot.Bot, update *models.Update) {
	callback := update.CallbackQuery
	if callback == nil {
		return
	}

	var (
		slotID  string
		reserve bool
	)
	switch {
	case strings.HasPrefix(callback.Data, ReserveSlot):
		slotID, reserve = strings.TrimPrefix(callback.Data, ReserveSlot), true
	case strings.HasPrefix(callback.Data, ReleaseSlot):
		slotID = strings.TrimPrefix(callback.Data, ReleaseSlot)
	default:
		h.logger.Warn("Unknown callback data", zap.String("data", callback.Data))
		h.answerCallback(ctx, b, callback.ID, "❌ Неверный формат данных", true)
		return
	}

	viewer := identityOf(&callback.From)
	slot, err := h.reservations.Toggle(ctx, slotID, viewer, reserve)
	if err != nil {
		h.answerCallback(ctx, b, callback.ID, model.ErrorMessage(err), true)
		return
	}
	h.answerCallback(ctx, b, callback.ID, resultText(slot, reserve, h.location), false)

	msg := callback.Message.Message
	if msg == nil {
		return
	}

	text, keyboard, err := h.renderDay(ctx, slot.InstructorID, slot.Start, viewer)
	if err != nil {
		h.logger.Error("Failed to render schedule", zap.Error(err))
		return
	}

	_, err = b.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:      msg.Chat.ID,
		MessageID:   msg.ID,
		Text:        text,
		ReplyMarkup: keyboard,
	})
	if err != nil {
		h.logger.Error("Failed to update schedule message", zap.Error(err))
	}
}

// renderDay запрашивает слоты дня и строит текст с клавиатурой
func (h *Handlers) renderDay(ctx context.Context, instructorID string, date time.Time, viewer string) (string, *models.InlineKeyboardMarkup, error) {
	instructor, err := h.instructors.Get(ctx, instructorID)
	if err != nil {
		return "", nil, err
	}

	slots, err := h.queries.ListForDate(ctx, instructorID, date)
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			h.logger.Error("Failed to list slots", zap.String("instructor_id", instructorID), zap.Error(err))
		}
		return "", nil, err
	}

	return formatting.DaySchedule(instructor, date, slots, viewer, h.location), slotKeyboard(slots, viewer, h.location), nil
}

func resultText(slot *model.Slot, reserved bool, loc *time.Location) string {
	when := formatting.FormatDate(slot.Start.In(loc)) + " " + formatting.FormatTimeRange(slot.Start.In(loc), slot.End.In(loc))
	if reserved {
		return "✅ Вы записаны на " + when
	}
	return "✅ Запись на " + when + " отменена"
}
