// Package access решает, может ли участник выполнить операцию над ассетом,
// и какие побочные эффекты (счётчики, выдача ссылки на файл) сопровождают решение.
package access

import (
	"fmt"

	"asset-vault/internal/apperr"
	"asset-vault/internal/model"
)

type Operation string

const (
	OpViewMetadata   Operation = "view-metadata"
	OpFetchURL       Operation = "fetch-url"
	OpDownload       Operation = "download"
	OpDelete         Operation = "delete"
	OpGenerateShare  Operation = "generate-share"
	OpRevokeShare    Operation = "revoke-share"
	OpChangePin      Operation = "change-pin"
	OpVerifyPin      Operation = "verify-pin"
	OpViewShared     Operation = "view-shared"
	OpAccessShared   Operation = "access-shared"
	OpDownloadShared Operation = "download-shared"
)

// Decision : результат разрешённой операции
type Decision struct {
	RevealURL     bool
	CountView     bool
	CountDownload bool
	Protected     bool
}

type Engine struct {
	pins *PinPolicy
}

func NewEngine(pins *PinPolicy) *Engine {
	return &Engine{pins: pins}
}

func (e *Engine) Pins() *PinPolicy {
	return e.pins
}

// Authorize : единая точка принятия решения о доступе к ассету.
// Чужой приватный ассет всегда выглядит как несуществующий.
func (e *Engine) Authorize(principal Principal, asset *model.Asset, op Operation, suppliedPin string) (Decision, error) {
	if asset == nil {
		return Decision{}, apperr.NotFound("ассет не найден")
	}
	protected := asset.HasPin()

	switch op {
	case OpViewMetadata, OpFetchURL:
		if err := e.requireOwner(principal, asset); err != nil {
			return Decision{}, err
		}
		return Decision{RevealURL: true, Protected: protected}, nil

	case OpDelete, OpDownload, OpChangePin:
		if err := e.requireOwner(principal, asset); err != nil {
			return Decision{}, err
		}
		if err := e.pins.Check(suppliedPin, asset.PinHash); err != nil {
			return Decision{Protected: protected}, err
		}
		return Decision{RevealURL: op == OpDownload, Protected: protected}, nil

	case OpGenerateShare, OpRevokeShare:
		if err := e.requireOwner(principal, asset); err != nil {
			return Decision{}, err
		}
		return Decision{Protected: protected}, nil

	case OpVerifyPin:
		if principal.IsAnonymous() {
			return Decision{}, apperr.ErrUnauthenticated
		}
		if !principal.Owns(asset) && !principal.IsAdmin() && !asset.LinkAccessible() {
			return Decision{}, apperr.NotFound("ассет не найден")
		}
		if err := e.pins.Check(suppliedPin, asset.PinHash); err != nil {
			return Decision{Protected: protected}, err
		}
		return Decision{Protected: protected}, nil

	case OpViewShared:
		if !asset.LinkAccessible() {
			return Decision{}, apperr.NotFound("ссылка не найдена")
		}
		if protected {
			return Decision{Protected: true}, nil
		}
		return Decision{RevealURL: true, CountView: true}, nil

	case OpAccessShared, OpDownloadShared:
		if !asset.LinkAccessible() {
			return Decision{}, apperr.NotFound("ссылка не найдена")
		}
		if err := e.pins.Check(suppliedPin, asset.PinHash); err != nil {
			return Decision{Protected: protected}, err
		}
		return Decision{
			RevealURL:     true,
			CountView:     op == OpAccessShared,
			CountDownload: op == OpDownloadShared,
			Protected:     protected,
		}, nil

	default:
		return Decision{}, apperr.Validation(fmt.Sprintf("неизвестная операция: %s", op))
	}
}

// RequireAdmin : административные операции доступны только роли admin
func (e *Engine) RequireAdmin(principal Principal) error {
	if principal.IsAnonymous() {
		return apperr.ErrUnauthenticated
	}
	if !principal.IsAdmin() {
		return apperr.ErrRoleInsufficient
	}
	return nil
}

func (e *Engine) requireOwner(principal Principal, asset *model.Asset) error {
	if principal.IsAnonymous() {
		return apperr.ErrUnauthenticated
	}
	if !principal.Owns(asset) {
		return apperr.NotFound("ассет не найден")
	}
	return nil
}
