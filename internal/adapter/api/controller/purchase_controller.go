package controller

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/gestao-obras/internal/adapter/api/dto"
	"github.com/hugohenrick/gestao-obras/internal/domain/purchase"
	"github.com/hugohenrick/gestao-obras/pkg/auth"
	"github.com/hugohenrick/gestao-obras/pkg/domain"
	"github.com/hugohenrick/gestao-obras/pkg/identity"
	"github.com/hugohenrick/gestao-obras/pkg/logger"
	"github.com/xuri/excelize/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// PurchaseService define as operações de compra usadas pelo controller
type PurchaseService interface {
	Create(ctx context.Context, actor identity.Actor, in purchase.CreateInput) (*purchase.Purchase, error)
	Update(ctx context.Context, actor identity.Actor, id string, in purchase.UpdateInput) (*purchase.Purchase, error)
	ConvertType(ctx context.Context, actor identity.Actor, id string, target purchase.Type) (*purchase.Purchase, error)
	ApproveBudget(ctx context.Context, actor identity.Actor, id string) (*purchase.Purchase, error)
	PayInstallment(ctx context.Context, actor identity.Actor, id string, sequence int, paidAt time.Time) (*purchase.Purchase, error)
	Delete(ctx context.Context, actor identity.Actor, id string) error
	Get(ctx context.Context, id string) (*purchase.Purchase, error)
	List(ctx context.Context, filter purchase.ListFilter) ([]*purchase.Purchase, int, error)
	ListWithoutItems(ctx context.Context) ([]*purchase.Purchase, error)
	DeleteWithoutItems(ctx context.Context, actor identity.Actor) (int64, error)
}

// ScheduleExporter gera a planilha do plano de parcelas
type ScheduleExporter interface {
	Export(p *purchase.Purchase) (*excelize.File, string, error)
}

// PurchaseController gerencia as requisições relacionadas a compras e orçamentos
type PurchaseController struct {
	service  PurchaseService
	exporter ScheduleExporter
	logger   logger.Logger
}

// NewPurchaseController cria uma nova instância de PurchaseController
func NewPurchaseController(service PurchaseService, exporter ScheduleExporter, log logger.Logger) *PurchaseController {
	return &PurchaseController{
		service:  service,
		exporter: exporter,
		logger:   log,
	}
}

// Create cria uma compra ou orçamento
// @Summary Cria uma compra ou orçamento
// @Description Cria uma compra com itens e, se parcelada, gera o plano de parcelas
// @Tags purchases
// @Accept json
// @Produce json
// @Param purchase body dto.CreatePurchaseRequest true "Dados da compra"
// @Success 201 {object} dto.PurchaseResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /purchases [post]
func (c *PurchaseController) Create(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}

	var request dto.CreatePurchaseRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		badRequest(ctx, err)
		return
	}

	in, err := request.ToInput()
	if err != nil {
		respondError(ctx, c.logger, "Erro ao criar compra", err)
		return
	}

	p, err := c.service.Create(ctx.Request.Context(), actor, in)
	if err != nil {
		respondError(ctx, c.logger, "Erro ao criar compra", err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToPurchaseResponse(p))
}

// List lista compras e orçamentos
// @Summary Lista compras
// @Description Lista compras e orçamentos com paginação e filtros opcionais
// @Tags purchases
// @Produce json
// @Param type query string false "Tipo (BUDGET ou PURCHASE)"
// @Param obra_id query string false "Obra"
// @Param page query int false "Página (padrão: 1)"
// @Param page_size query int false "Itens por página (padrão: 10, máximo: 100)"
// @Success 200 {object} dto.PurchaseListResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /purchases [get]
func (c *PurchaseController) List(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(ctx.DefaultQuery("page_size", "10"))
	pagination := dto.GetPagination(page, pageSize)

	filter := purchase.ListFilter{
		Type:   purchase.Type(strings.ToUpper(ctx.Query("type"))),
		ObraID: ctx.Query("obra_id"),
		Limit:  pagination.PageSize,
		Offset: pagination.Offset(),
	}
	if filter.Type != "" && !filter.Type.Valid() {
		respondError(ctx, c.logger, "Erro ao listar compras", domain.NewValidationError("type", "tipo deve ser BUDGET ou PURCHASE"))
		return
	}

	purchases, total, err := c.service.List(ctx.Request.Context(), filter)
	if err != nil {
		respondError(ctx, c.logger, "Erro ao listar compras", err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToPurchaseListResponse(purchases, total, pagination))
}

// GetByID busca uma compra pelo ID
// @Summary Busca uma compra
// @Description Retorna a compra com itens e parcelas
// @Tags purchases
// @Produce json
// @Param id path string true "ID da compra"
// @Success 200 {object} dto.PurchaseResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /purchases/{id} [get]
func (c *PurchaseController) GetByID(ctx *gin.Context) {
	p, err := c.service.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, c.logger, "Erro ao buscar compra", err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToPurchaseResponse(p))
}

// Update altera uma compra
// @Summary Altera uma compra
// @Description Altera parcialmente uma compra; qualquer alteração de compra parcelada regenera todas as parcelas
// @Tags purchases
// @Accept json
// @Produce json
// @Param id path string true "ID da compra"
// @Param purchase body dto.UpdatePurchaseRequest true "Alterações"
// @Success 200 {object} dto.PurchaseResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /purchases/{id} [put]
func (c *PurchaseController) Update(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}

	var request dto.UpdatePurchaseRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		badRequest(ctx, err)
		return
	}

	in, err := request.ToInput()
	if err != nil {
		respondError(ctx, c.logger, "Erro ao atualizar compra", err)
		return
	}

	p, err := c.service.Update(ctx.Request.Context(), actor, ctx.Param("id"), in)
	if err != nil {
		respondError(ctx, c.logger, "Erro ao atualizar compra", err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToPurchaseResponse(p))
}

// Delete remove uma compra
// @Summary Remove uma compra
// @Description Remove a compra com seus itens e parcelas
// @Tags purchases
// @Param id path string true "ID da compra"
// @Success 204 "No Content"
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /purchases/{id} [delete]
func (c *PurchaseController) Delete(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}

	if err := c.service.Delete(ctx.Request.Context(), actor, ctx.Param("id")); err != nil {
		respondError(ctx, c.logger, "Erro ao remover compra", err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// ConvertType converte entre orçamento e compra
// @Summary Converte o tipo
// @Description Converte um orçamento em compra ou uma compra em orçamento
// @Tags purchases
// @Accept json
// @Produce json
// @Param id path string true "ID da compra"
// @Param body body dto.ConvertTypeRequest true "Tipo de destino"
// @Success 200 {object} dto.PurchaseResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /purchases/{id}/type [patch]
func (c *PurchaseController) ConvertType(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}

	var request dto.ConvertTypeRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		badRequest(ctx, err)
		return
	}

	target := purchase.Type(strings.ToUpper(request.Type))
	p, err := c.service.ConvertType(ctx.Request.Context(), actor, ctx.Param("id"), target)
	if err != nil {
		respondError(ctx, c.logger, "Erro ao converter compra", err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToPurchaseResponse(p))
}

// Approve aprova um orçamento
// @Summary Aprova um orçamento
// @Tags purchases
// @Produce json
// @Param id path string true "ID do orçamento"
// @Success 200 {object} dto.PurchaseResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /purchases/{id}/approve [patch]
func (c *PurchaseController) Approve(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}

	p, err := c.service.ApproveBudget(ctx.Request.Context(), actor, ctx.Param("id"))
	if err != nil {
		respondError(ctx, c.logger, "Erro ao aprovar orçamento", err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToPurchaseResponse(p))
}

// PayInstallment registra o pagamento de uma parcela
// @Summary Paga uma parcela
// @Tags purchases
// @Accept json
// @Produce json
// @Param id path string true "ID da compra"
// @Param sequence path int true "Número da parcela"
// @Param body body dto.PayInstallmentRequest false "Data do pagamento"
// @Success 200 {object} dto.PurchaseResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /purchases/{id}/installments/{sequence}/pay [patch]
func (c *PurchaseController) PayInstallment(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}

	sequence, err := strconv.Atoi(ctx.Param("sequence"))
	if err != nil || sequence < 1 {
		respondError(ctx, c.logger, "Erro ao pagar parcela", domain.NewValidationError("sequence", "número da parcela inválido"))
		return
	}

	var request dto.PayInstallmentRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&request); err != nil {
			badRequest(ctx, err)
			return
		}
	}

	paidAt, err := request.PaidAtTime()
	if err != nil {
		respondError(ctx, c.logger, "Erro ao pagar parcela", err)
		return
	}

	p, err := c.service.PayInstallment(ctx.Request.Context(), actor, ctx.Param("id"), sequence, paidAt)
	if err != nil {
		respondError(ctx, c.logger, "Erro ao pagar parcela", err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToPurchaseResponse(p))
}

// ExportInstallments exporta o plano de parcelas em planilha
// @Summary Exporta as parcelas
// @Description Gera um arquivo XLSX com o plano de parcelas da compra
// @Tags purchases
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path string true "ID da compra"
// @Success 200 {file} file
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /purchases/{id}/installments/export [get]
func (c *PurchaseController) ExportInstallments(ctx *gin.Context) {
	p, err := c.service.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, c.logger, "Erro ao exportar parcelas", err)
		return
	}

	f, filename, err := c.exporter.Export(p)
	if err != nil {
		respondError(ctx, c.logger, "Erro ao exportar parcelas", err)
		return
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		respondError(ctx, c.logger, "Erro ao exportar parcelas", err)
		return
	}

	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	ctx.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// ListWithoutItems lista compras sem itens
// @Summary Lista compras sem itens
// @Description Lista registros inconsistentes que não possuem nenhum item
// @Tags maintenance
// @Produce json
// @Success 200 {array} dto.PurchaseResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /purchases/maintenance/without-items [get]
func (c *PurchaseController) ListWithoutItems(ctx *gin.Context) {
	purchases, err := c.service.ListWithoutItems(ctx.Request.Context())
	if err != nil {
		respondError(ctx, c.logger, "Erro ao listar compras sem itens", err)
		return
	}

	resp := make([]dto.PurchaseResponse, 0, len(purchases))
	for _, p := range purchases {
		resp = append(resp, dto.ToPurchaseResponse(p))
	}

	ctx.JSON(http.StatusOK, resp)
}

// DeleteWithoutItems remove compras sem itens
// @Summary Remove compras sem itens
// @Tags maintenance
// @Produce json
// @Success 200 {object} dto.MaintenanceResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /purchases/maintenance/without-items [delete]
func (c *PurchaseController) DeleteWithoutItems(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}

	removed, err := c.service.DeleteWithoutItems(ctx.Request.Context(), actor)
	if err != nil {
		respondError(ctx, c.logger, "Erro ao remover compras sem itens", err)
		return
	}

	ctx.JSON(http.StatusOK, dto.MaintenanceResponse{Removed: removed})
}

// requireActor obtém o usuário autenticado ou responde 401
func requireActor(ctx *gin.Context) (identity.Actor, bool) {
	actor, ok := auth.CurrentActor(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(http.StatusUnauthorized, "Autenticação requerida", ""))
		return identity.Actor{}, false
	}
	return actor, true
}
