package material

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyName = errors.New("nome não pode ser vazio")
	ErrEmptyUnit = errors.New("unidade de medida não pode ser vazia")
)

// Material representa um item do catálogo de materiais de construção
type Material struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`        // Nome (ex.: Cimento CP-II 50kg)
	Unit        string    `json:"unit"`        // Unidade de medida (saco, m³, kg...)
	Description string    `json:"description"` // Descrição
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewMaterial cria um novo material
func NewMaterial(name, unit, description string) (*Material, error) {
	name = strings.TrimSpace(name)
	unit = strings.TrimSpace(unit)
	if name == "" {
		return nil, ErrEmptyName
	}
	if unit == "" {
		return nil, ErrEmptyUnit
	}

	now := time.Now()
	return &Material{
		ID:          uuid.New().String(),
		Name:        name,
		Unit:        unit,
		Description: strings.TrimSpace(description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}
