package service

import (
	"context"
	"errors"

	"asset-vault/internal/access"
	"asset-vault/internal/apperr"
	"asset-vault/internal/model"
	"asset-vault/internal/ports"

	"go.uber.org/zap"
)

// pinGuard : ограничение попыток ввода PIN по паре (ассет, адрес клиента).
// Ошибки Redis не блокируют доступ, только логируются.
type pinGuard struct {
	engine  *access.Engine
	limiter ports.AttemptLimiter
}

func attemptKey(asset *model.Asset, clientAddr string) string {
	return asset.UUID + ":" + clientAddr
}

// authorize : решение движка доступа с учётом лимита попыток.
// Сначала решение принимается без PIN: если ассет участнику не виден или PIN не нужен,
// счётчик не трогается. Иначе попытка учитывается до сравнения хэша.
func (g pinGuard) authorize(
	ctx context.Context,
	principal access.Principal,
	asset *model.Asset,
	op access.Operation,
	pin, clientAddr string,
) (access.Decision, error) {
	decision, err := g.engine.Authorize(principal, asset, op, "")
	if pin == "" || !errors.Is(err, apperr.ErrPinRequired) {
		return decision, err
	}

	key := attemptKey(asset, clientAddr)
	if g.limiter != nil {
		allowed, err := g.limiter.Acquire(ctx, key)
		if err != nil {
			zap.L().Warn("[PinGuard] счётчик попыток недоступен", zap.Error(err))
		} else if !allowed {
			zap.L().Info("[PinGuard] попытки ввода PIN исчерпаны", zap.String("asset", asset.UUID))
			return access.Decision{Protected: true}, apperr.ErrTooManyAttempts
		}
	}

	decision, err = g.engine.Authorize(principal, asset, op, pin)
	switch {
	case err == nil:
		if g.limiter != nil {
			if resetErr := g.limiter.Reset(ctx, key); resetErr != nil {
				zap.L().Warn("[PinGuard] не удалось сбросить счётчик попыток", zap.Error(resetErr))
			}
		}
	case errors.Is(err, apperr.ErrPinInvalid):
		zap.L().Info("[PinGuard] неверный PIN", zap.String("asset", asset.UUID), zap.String("op", string(op)))
	}
	return decision, err
}
