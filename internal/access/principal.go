package access

import "asset-vault/internal/model"

// Principal : кто выполняет запрос; пустой UserUUID означает анонимного посетителя
type Principal struct {
	UserUUID string
	Role     model.Role
}

func Anonymous() Principal {
	return Principal{}
}

func User(userUUID string, role model.Role) Principal {
	return Principal{UserUUID: userUUID, Role: role}
}

func (p Principal) IsAnonymous() bool {
	return p.UserUUID == ""
}

func (p Principal) IsAdmin() bool {
	return !p.IsAnonymous() && p.Role == model.RoleAdmin
}

func (p Principal) Owns(asset *model.Asset) bool {
	return !p.IsAnonymous() && asset != nil && asset.OwnerUUID == p.UserUUID
}
