package dto

import (
	"time"

	"github.com/hugohenrick/gestao-obras/pkg/domain"
)

// DateLayout é o formato de data aceito e devolvido pela API
const DateLayout = "2006-01-02"

// ErrorResponse representa a estrutura de resposta para erros
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
	Field   string `json:"field,omitempty"`
}

// SuccessResponse representa uma resposta genérica de sucesso
type SuccessResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// NewSuccessResponse cria uma nova resposta de sucesso
func NewSuccessResponse(message string, data interface{}) SuccessResponse {
	return SuccessResponse{
		Success: true,
		Message: message,
		Data:    data,
	}
}

// NewErrorResponse cria uma nova resposta de erro
func NewErrorResponse(code int, message, details string) ErrorResponse {
	return ErrorResponse{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// NewFieldErrorResponse cria uma resposta de erro de validação identificando o campo
func NewFieldErrorResponse(code int, message, field, details string) ErrorResponse {
	return ErrorResponse{
		Code:    code,
		Message: message,
		Details: details,
		Field:   field,
	}
}

// PaginationParams representa os parâmetros de paginação
type PaginationParams struct {
	Page     int
	PageSize int
}

// GetPagination retorna parâmetros de paginação com valores padrão
func GetPagination(page, pageSize int) PaginationParams {
	if page <= 0 {
		page = 1
	}

	if pageSize <= 0 {
		pageSize = 10
	} else if pageSize > 100 {
		pageSize = 100 // Limitar a 100 itens por página
	}

	return PaginationParams{
		Page:     page,
		PageSize: pageSize,
	}
}

// Offset retorna o deslocamento correspondente à página
func (p PaginationParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// calculateTotalPages calcula o número total de páginas com base no total de registros e no tamanho da página
func calculateTotalPages(totalCount, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}

	totalPages := (totalCount + pageSize - 1) / pageSize
	if totalPages == 0 {
		totalPages = 1
	}

	return totalPages
}

// parseDate converte uma data no formato AAAA-MM-DD
func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, domain.NewValidationError(field, "data inválida, use o formato AAAA-MM-DD")
	}
	return t, nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}
