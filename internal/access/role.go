package access

import (
	"strings"

	"asset-vault/internal/model"
)

// RolePolicy : роль при регистрации определяется только явным списком администраторов из конфигурации
type RolePolicy struct {
	admins map[string]struct{}
}

func NewRolePolicy(adminEmails []string) *RolePolicy {
	admins := make(map[string]struct{}, len(adminEmails))
	for _, email := range adminEmails {
		if email = NormalizeEmail(email); email != "" {
			admins[email] = struct{}{}
		}
	}
	return &RolePolicy{admins: admins}
}

func (p *RolePolicy) RoleFor(email string) model.Role {
	if _, ok := p.admins[NormalizeEmail(email)]; ok {
		return model.RoleAdmin
	}
	return model.RoleUser
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
