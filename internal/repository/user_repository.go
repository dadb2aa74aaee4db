package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"asset-vault/config"
	"asset-vault/internal/apperr"
	"asset-vault/internal/model"
	"asset-vault/internal/util"

	"github.com/jmoiron/sqlx"
)

const userColumns = `uuid, email, name, password_hash, role, created_at`

type UserRepository struct {
	*config.Database
}

func NewUserRepository(database *config.Database) *UserRepository {
	return &UserRepository{database}
}

// CreateUser : сохраняет нового пользователя, email уникален
func (r *UserRepository) CreateUser(ctx context.Context, exec sqlx.ExtContext, user *model.User) (*model.User, error) {
	query := `
	INSERT INTO users (uuid, email, name, password_hash, role)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING ` + userColumns

	var createdUser model.User
	err := exec.QueryRowxContext(ctx, query, user.UUID, user.Email, user.Name, user.PasswordHash, user.Role).
		StructScan(&createdUser)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.Conflict("пользователь с таким email уже существует", err)
		}
		return nil, util.LogError("[UserRepo] ошибка вставки данных в БД", err)
	}

	return &createdUser, nil
}

// FindByUUID : ищет пользователя по UUID
func (r *UserRepository) FindByUUID(ctx context.Context, exec sqlx.ExtContext, uuid string) (*model.User, error) {
	return r.findOne(ctx, exec, `SELECT `+userColumns+` FROM users WHERE uuid = $1`, uuid)
}

// FindByEmail : ищет пользователя по email
func (r *UserRepository) FindByEmail(ctx context.Context, exec sqlx.ExtContext, email string) (*model.User, error) {
	return r.findOne(ctx, exec, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

// DeleteUser : удаляет пользователя по его UUID, ассеты и refresh-токены уходят каскадом
func (r *UserRepository) DeleteUser(ctx context.Context, exec sqlx.ExtContext, uuid string) error {
	result, err := exec.ExecContext(ctx, `DELETE FROM users WHERE uuid = $1`, uuid)
	if err != nil {
		return util.LogError("[UserRepo] не удалось удалить пользователя", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return util.LogError("[UserRepo] не удалось проверить удаление пользователя", err)
	}
	if rowsAffected == 0 {
		return apperr.NotFound("пользователь не найден")
	}
	return nil
}

// ListUsers : вывод списка пользователей с cursor-based пагинацией
func (r *UserRepository) ListUsers(ctx context.Context, exec sqlx.ExtContext, cursor string, limit int) ([]*model.User, string, error) {
	query := `
        SELECT ` + userColumns + `
        FROM users
        WHERE ($1::timestamptz IS NULL OR (created_at, uuid) > ($1::timestamptz, $2::uuid))
        ORDER BY created_at ASC, uuid ASC
        LIMIT $3
    `

	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	after, err := model.ParseCursor(cursor)
	if err != nil {
		return nil, "", apperr.Validation(err.Error())
	}
	var afterAt *time.Time
	var afterUUID *string
	if after != nil {
		afterAt, afterUUID = &after.At, &after.UUID
	}

	var users []*model.User
	err = sqlx.SelectContext(ctx, exec, &users, query, afterAt, afterUUID, limit+1) // +1 для проверки наличия следующей страницы
	if err != nil {
		return nil, "", util.LogError("[UserRepo] не удалось получить список пользователей", err)
	}

	var nextCursor string
	if len(users) > limit {
		users = users[:limit]
		last := users[len(users)-1]
		nextCursor = model.Cursor{At: last.CreatedAt, UUID: last.UUID}.Encode()
	}

	return users, nextCursor, nil
}

func (r *UserRepository) findOne(ctx context.Context, exec sqlx.ExtContext, query string, arg string) (*model.User, error) {
	var user model.User
	if err := sqlx.GetContext(ctx, exec, &user, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("пользователь не найден")
		}
		return nil, util.LogError("[UserRepo] не удалось найти пользователя в БД", err)
	}
	return &user, nil
}
