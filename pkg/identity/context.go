package identity

import (
	"context"
)

type contextKey string

const actorKey contextKey = "actor"

// Papéis conhecidos pelo sistema
const (
	RoleAdmin      = "admin"      // Administrador
	RoleFinanceiro = "financeiro" // Setor financeiro
	RoleCompras    = "compras"    // Setor de compras
	RoleEngenheiro = "engenheiro" // Engenheiro de obra (somente leitura)
)

// Actor identifica quem está executando uma operação
type Actor struct {
	UserID string
	Name   string
	Role   string
}

// System é o ator usado por rotinas internas (agendador, manutenção)
var System = Actor{UserID: "system", Name: "sistema", Role: RoleAdmin}

// CanMutateFinancial verifica se o ator pode alterar registros financeiros
func (a Actor) CanMutateFinancial() bool {
	switch a.Role {
	case RoleAdmin, RoleFinanceiro, RoleCompras:
		return true
	}
	return false
}

// WithActor define o ator no contexto
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// FromContext obtém o ator do contexto
func FromContext(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(actorKey).(Actor)
	return actor, ok
}
