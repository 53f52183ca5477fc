package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/gestao-obras/internal/adapter/api/dto"
	"github.com/hugohenrick/gestao-obras/internal/domain/material"
	"github.com/hugohenrick/gestao-obras/pkg/domain"
	"github.com/hugohenrick/gestao-obras/pkg/logger"
)

// MaterialController gerencia as requisições relacionadas ao catálogo de materiais
type MaterialController struct {
	materialRepository material.Repository
	logger             logger.Logger
}

// NewMaterialController cria uma nova instância de MaterialController
func NewMaterialController(materialRepository material.Repository, log logger.Logger) *MaterialController {
	return &MaterialController{
		materialRepository: materialRepository,
		logger:             log,
	}
}

// Create cadastra um material
// @Summary Cadastra um material
// @Tags materials
// @Accept json
// @Produce json
// @Param material body dto.MaterialRequest true "Dados do material"
// @Success 201 {object} dto.MaterialResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /materials [post]
func (c *MaterialController) Create(ctx *gin.Context) {
	var request dto.MaterialRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		badRequest(ctx, err)
		return
	}

	m, err := material.NewMaterial(request.Name, request.Unit, request.Description)
	if err != nil {
		field := "name"
		if errors.Is(err, material.ErrEmptyUnit) {
			field = "unit"
		}
		respondError(ctx, c.logger, "Erro ao cadastrar material", domain.NewValidationError(field, err.Error()))
		return
	}

	if err := c.materialRepository.Create(ctx.Request.Context(), m); err != nil {
		respondError(ctx, c.logger, "Erro ao cadastrar material", err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToMaterialResponse(m))
}

// List lista os materiais
// @Summary Lista materiais
// @Tags materials
// @Produce json
// @Param page query int false "Página (padrão: 1)"
// @Param page_size query int false "Itens por página (padrão: 10, máximo: 100)"
// @Success 200 {object} dto.MaterialListResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /materials [get]
func (c *MaterialController) List(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(ctx.DefaultQuery("page_size", "10"))
	pagination := dto.GetPagination(page, pageSize)

	materials, err := c.materialRepository.List(ctx.Request.Context(), pagination.PageSize, pagination.Offset())
	if err != nil {
		respondError(ctx, c.logger, "Erro ao listar materiais", err)
		return
	}

	total, err := c.materialRepository.Count(ctx.Request.Context())
	if err != nil {
		respondError(ctx, c.logger, "Erro ao contar materiais", err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToMaterialListResponse(materials, total, pagination))
}

// GetByID busca um material pelo ID
// @Summary Busca um material
// @Tags materials
// @Produce json
// @Param id path string true "ID do material"
// @Success 200 {object} dto.MaterialResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /materials/{id} [get]
func (c *MaterialController) GetByID(ctx *gin.Context) {
	m, err := c.materialRepository.FindByID(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, c.logger, "Erro ao buscar material", err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToMaterialResponse(m))
}
