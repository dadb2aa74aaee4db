package ports

import "context"

// AttemptLimiter : Redis слой, счётчик попыток ввода PIN.
// Acquire учитывает попытку до проверки PIN и отвечает, укладывается ли она в лимит.
type AttemptLimiter interface {
	Acquire(ctx context.Context, key string) (bool, error)
	Reset(ctx context.Context, key string) error
}
