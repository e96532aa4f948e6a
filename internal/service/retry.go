package service

import (
	"context"
	"errors"
	"time"

	"github.com/Freeeeeet/officehours/internal/model"
	"github.com/sethvargo/go-retry"
)

const (
	DefaultMaxRetries = 3
	DefaultRetryDelay = 4 * time.Millisecond
)

// RetryPolicy ограничивает повторы после ErrVersionConflict
type RetryPolicy struct {
	MaxRetries uint64
	Delay      time.Duration
}

func (p RetryPolicy) backoff() retry.Backoff {
	delay := p.Delay
	if delay < 2*time.Millisecond {
		delay = 2 * time.Millisecond
	}
	return retry.WithMaxRetries(p.MaxRetries, retry.WithJitter(delay/2, retry.NewConstant(delay)))
}

// run повторяет fn с начала (чтение, проверка, CAS), пока CAS проигрывает гонку.
// Исчерпанные попытки превращаются в ErrContention, ErrVersionConflict наружу не выходит
func (p RetryPolicy) run(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := retry.Do(ctx, p.backoff(), func(ctx context.Context) error {
		err := fn(ctx)
		if errors.Is(err, model.ErrVersionConflict) {
			return retry.RetryableError(err)
		}
		return err
	})
	if errors.Is(err, model.ErrVersionConflict) {
		return model.ErrContention
	}
	return err
}
