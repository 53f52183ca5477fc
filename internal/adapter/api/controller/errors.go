package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/gestao-obras/internal/adapter/api/dto"
	"github.com/hugohenrick/gestao-obras/pkg/domain"
	"github.com/hugohenrick/gestao-obras/pkg/logger"
)

// respondError traduz erros do domínio em respostas HTTP
func respondError(ctx *gin.Context, log logger.Logger, message string, err error) {
	var (
		validationErr *domain.ValidationError
		notFoundErr   *domain.NotFoundError
		conflictErr   *domain.ConflictError
	)

	switch {
	case errors.As(err, &validationErr):
		ctx.JSON(http.StatusUnprocessableEntity, dto.NewFieldErrorResponse(
			http.StatusUnprocessableEntity, "Dados inválidos", validationErr.Field, validationErr.Reason))
	case errors.As(err, &notFoundErr):
		ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "Registro não encontrado", err.Error()))
	case errors.As(err, &conflictErr):
		ctx.JSON(http.StatusConflict, dto.NewErrorResponse(http.StatusConflict, "Conflito de edição", err.Error()))
	case errors.Is(err, domain.ErrForbidden):
		ctx.JSON(http.StatusForbidden, dto.NewErrorResponse(http.StatusForbidden, "Acesso negado", err.Error()))
	default:
		log.Error(message, "error", err, "path", ctx.FullPath())
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, message, "erro interno"))
	}
}

func badRequest(ctx *gin.Context, err error) {
	ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", err.Error()))
}
