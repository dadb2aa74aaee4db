package ports

import (
	"context"

	"asset-vault/internal/access"
	"asset-vault/internal/model"

	"github.com/jmoiron/sqlx"
)

type UserRepository interface {
	CreateUser(ctx context.Context, exec sqlx.ExtContext, user *model.User) (*model.User, error)
	FindByUUID(ctx context.Context, exec sqlx.ExtContext, uuid string) (*model.User, error)
	FindByEmail(ctx context.Context, exec sqlx.ExtContext, email string) (*model.User, error)
	DeleteUser(ctx context.Context, exec sqlx.ExtContext, uuid string) error
	ListUsers(ctx context.Context, exec sqlx.ExtContext, cursor string, limit int) ([]*model.User, string, error)
}

type StatsRepository interface {
	Totals(ctx context.Context, exec sqlx.ExtContext) (*model.Stats, error)
	ByType(ctx context.Context, exec sqlx.ExtContext) ([]model.TypeStats, error)
}

// UserService : административные операции
type UserService interface {
	ListUsers(ctx context.Context, principal access.Principal, cursor string, limit int) ([]*model.User, string, error)
	DeleteUser(ctx context.Context, principal access.Principal, userUUID string) (int64, error)
	Stats(ctx context.Context, principal access.Principal) (*model.Stats, error)
}
