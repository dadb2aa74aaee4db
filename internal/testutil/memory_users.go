package testutil

import (
	"context"
	"sort"

	"asset-vault/internal/apperr"
	"asset-vault/internal/model"

	"github.com/jmoiron/sqlx"
)

// UserRepository : ports.UserRepository поверх Store
type UserRepository struct{ *Store }

func (s *Store) Users() *UserRepository { return &UserRepository{s} }

func (r *UserRepository) CreateUser(_ context.Context, _ sqlx.ExtContext, user *model.User) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, apperr.Conflict("пользователь с таким email уже существует", nil)
		}
	}
	created := *user
	created.CreatedAt = r.now()
	r.users[created.UUID] = &created
	out := created
	return &out, nil
}

func (r *UserRepository) FindByUUID(_ context.Context, _ sqlx.ExtContext, uuid string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[uuid]
	if !ok {
		return nil, apperr.NotFound("пользователь не найден")
	}
	out := *u
	return &out, nil
}

func (r *UserRepository) FindByEmail(_ context.Context, _ sqlx.ExtContext, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, apperr.NotFound("пользователь не найден")
}

func (r *UserRepository) DeleteUser(_ context.Context, _ sqlx.ExtContext, uuid string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[uuid]; !ok {
		return apperr.NotFound("пользователь не найден")
	}
	delete(r.users, uuid)
	r.deleteAssetsOf(uuid)
	for id, t := range r.refresh {
		if t.UserUUID == uuid {
			delete(r.refresh, id)
		}
	}
	return nil
}

func (r *UserRepository) ListUsers(_ context.Context, _ sqlx.ExtContext, cursor string, limit int) ([]*model.User, string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	after, err := model.ParseCursor(cursor)
	if err != nil {
		return nil, "", apperr.Validation(err.Error())
	}

	var users []*model.User
	for _, u := range r.users {
		if after == nil || after.Compare(u.CreatedAt, u.UUID) > 0 {
			out := *u
			users = append(users, &out)
		}
	}
	sort.Slice(users, func(i, j int) bool {
		if !users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].CreatedAt.Before(users[j].CreatedAt)
		}
		return users[i].UUID < users[j].UUID
	})

	if limit <= 0 {
		limit = 20
	}
	var next string
	if len(users) > limit {
		users = users[:limit]
		last := users[len(users)-1]
		next = model.Cursor{At: last.CreatedAt, UUID: last.UUID}.Encode()
	}
	return users, next, nil
}

// JWTRepository : ports.JWTRepositoryInterface поверх Store
type JWTRepository struct{ *Store }

func (s *Store) RefreshTokens() *JWTRepository { return &JWTRepository{s} }

func (r *JWTRepository) SaveRefreshToken(_ context.Context, token *model.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := *token
	r.refresh[token.UUID] = &out
	return nil
}

func (r *JWTRepository) FindByUUID(_ context.Context, uuid string) (*model.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.refresh[uuid]
	if !ok {
		return nil, apperr.NotFound("токен не был найден")
	}
	out := *t
	return &out, nil
}

func (r *JWTRepository) MarkRefreshTokenUsedByUUID(_ context.Context, uuid string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.refresh[uuid]
	if !ok || t.Used {
		return apperr.Unauthenticated("сессия уже завершена")
	}
	t.Used = true
	return nil
}

// StatsRepository : ports.StatsRepository поверх Store
type StatsRepository struct{ *Store }

func (s *Store) Stats() *StatsRepository { return &StatsRepository{s} }

func (r *StatsRepository) Totals(_ context.Context, _ sqlx.ExtContext) (*model.Stats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats := &model.Stats{Users: int64(len(r.users)), Assets: int64(len(r.assets))}
	for _, a := range r.assets {
		stats.TotalSizeBytes += a.SizeBytes
		stats.Views += a.Views
		stats.Downloads += a.Downloads
		if a.ShareToken != nil {
			stats.SharedAssets++
		}
		if a.PinHash != nil {
			stats.ProtectedAssets++
		}
	}
	return stats, nil
}

func (r *StatsRepository) ByType(_ context.Context, _ sqlx.ExtContext) ([]model.TypeStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	byType := map[model.AssetType]*model.TypeStats{}
	for _, a := range r.assets {
		ts, ok := byType[a.Type]
		if !ok {
			ts = &model.TypeStats{Type: a.Type}
			byType[a.Type] = ts
		}
		ts.Count++
		ts.SizeBytes += a.SizeBytes
	}

	out := make([]model.TypeStats, 0, len(byType))
	for _, ts := range byType {
		out = append(out, *ts)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out, nil
}

// AttemptLimiter : ports.AttemptLimiter без окна времени
type AttemptLimiter struct {
	*Store
	MaxAttempts int64
}

func (s *Store) Limiter(maxAttempts int64) *AttemptLimiter {
	return &AttemptLimiter{Store: s, MaxAttempts: maxAttempts}
}

func (l *AttemptLimiter) Acquire(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.attempts[key]++
	return l.attempts[key] <= l.MaxAttempts, nil
}

// Attempts : сколько попыток учтено для ключа
func (l *AttemptLimiter) Attempts(key string) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.attempts[key]
}

func (l *AttemptLimiter) Reset(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.attempts, key)
	return nil
}
