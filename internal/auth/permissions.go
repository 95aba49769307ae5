package auth

import "github.com/BruksfildServices01/barbearia-console/internal/repository"

var roleRank = map[string]int{
	repository.RoleManager:   3,
	repository.RoleBarber:    2,
	repository.RoleAssistant: 1,
	"recepcionista":          1,
}

// HasPermission reports whether role covers required:
// gerente covers barbeiro, which covers assistente.
func HasPermission(role, required string) bool {
	have, ok := roleRank[role]
	if !ok {
		return false
	}
	need, ok := roleRank[required]
	if !ok {
		return false
	}
	return have >= need
}
