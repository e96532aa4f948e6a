package handlers

import (
	"context"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// LogUpdates логирует каждое входящее обновление и время его обработки
func LogUpdates(logger *zap.Logger) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			start := time.Now()
			next(ctx, b, update)

			fields := []zap.Field{
				zap.Int64("update_id", update.ID),
				zap.Duration("latency", time.Since(start)),
			}
			switch {
			case update.Message != nil:
				fields = append(fields,
					zap.String("identity", identityOf(update.Message.From)),
					zap.String("text", update.Message.Text),
				)
			case update.CallbackQuery != nil:
				fields = append(fields,
					zap.String("identity", identityOf(&update.CallbackQuery.From)),
					zap.String("data", update.CallbackQuery.Data),
				)
			}
			logger.Debug("Telegram update handled", fields...)
		}
	}
}
