package material

import (
	"context"
)

// Repository define a interface para operações de repositório de materiais
type Repository interface {
	// Create cria um novo material
	Create(ctx context.Context, m *Material) error

	// FindByID busca um material pelo ID
	FindByID(ctx context.Context, id string) (*Material, error)

	// List lista os materiais com paginação
	List(ctx context.Context, limit, offset int) ([]*Material, error)

	// Count conta o total de materiais
	Count(ctx context.Context) (int, error)

	// FindMissing retorna os IDs informados que não existem no catálogo
	FindMissing(ctx context.Context, ids []string) ([]string, error)
}
