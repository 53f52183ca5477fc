package dto

import (
	"time"

	"github.com/hugohenrick/gestao-obras/internal/domain/material"
)

// MaterialRequest representa os dados para cadastro de um material
type MaterialRequest struct {
	Name        string `json:"name" binding:"required" example:"Cimento CP-II 50kg"`
	Unit        string `json:"unit" binding:"required" example:"saco"`
	Description string `json:"description"`
}

// MaterialResponse representa um material na resposta
type MaterialResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Unit        string    `json:"unit"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// MaterialListResponse representa a lista paginada de materiais
type MaterialListResponse struct {
	Data       []MaterialResponse `json:"data"`
	TotalCount int                `json:"total_count"`
	Page       int                `json:"page"`
	PageSize   int                `json:"page_size"`
	TotalPages int                `json:"total_pages"`
}

// ToMaterialResponse converte um material do domínio para DTO de resposta
func ToMaterialResponse(m *material.Material) MaterialResponse {
	return MaterialResponse{
		ID:          m.ID,
		Name:        m.Name,
		Unit:        m.Unit,
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// ToMaterialListResponse converte uma lista de materiais em resposta paginada
func ToMaterialListResponse(materials []*material.Material, totalCount int, page PaginationParams) MaterialListResponse {
	data := make([]MaterialResponse, len(materials))
	for i, m := range materials {
		data[i] = ToMaterialResponse(m)
	}

	return MaterialListResponse{
		Data:       data,
		TotalCount: totalCount,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: calculateTotalPages(totalCount, page.PageSize),
	}
}
