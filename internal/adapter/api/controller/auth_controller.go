package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/gestao-obras/internal/adapter/api/dto"
	"github.com/hugohenrick/gestao-obras/internal/adapter/repository"
	"github.com/hugohenrick/gestao-obras/internal/domain/user"
	"github.com/hugohenrick/gestao-obras/pkg/auth"
	"github.com/hugohenrick/gestao-obras/pkg/logger"
)

// AuthController gerencia as requisições relacionadas à autenticação
type AuthController struct {
	userRepository user.Repository
	jwtService     *auth.JWTService
	logger         logger.Logger
}

// NewAuthController cria uma nova instância de AuthController
func NewAuthController(userRepository user.Repository, jwtService *auth.JWTService, log logger.Logger) *AuthController {
	return &AuthController{
		userRepository: userRepository,
		jwtService:     jwtService,
		logger:         log,
	}
}

// Login autentica um usuário e retorna um token JWT
// @Summary Autentica um usuário
// @Description Verifica as credenciais do usuário e retorna um token JWT
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Credenciais de login"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var request dto.LoginRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		badRequest(ctx, err)
		return
	}

	// Buscar o usuário pelo email
	u, err := c.userRepository.FindByEmail(ctx.Request.Context(), request.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(http.StatusUnauthorized, "Credenciais inválidas", "Email ou senha incorretos"))
			return
		}
		c.logger.Error("erro ao buscar usuário", "error", err)
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao autenticar usuário", "erro interno"))
		return
	}

	if !u.CheckPassword(request.Password) {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(http.StatusUnauthorized, "Credenciais inválidas", "Email ou senha incorretos"))
		return
	}

	if !u.IsActive() {
		ctx.JSON(http.StatusForbidden, dto.NewErrorResponse(http.StatusForbidden, "Usuário inativo", "Sua conta está desativada ou bloqueada"))
		return
	}

	token, expiresAt, err := c.jwtService.GenerateToken(u)
	if err != nil {
		c.logger.Error("erro ao gerar token", "error", err)
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao gerar token", "erro interno"))
		return
	}

	// Falha ao registrar o último login não impede o acesso
	if err := c.userRepository.UpdateLastLogin(ctx.Request.Context(), u.ID); err != nil {
		c.logger.Warn("erro ao atualizar último login", "user_id", u.ID, "error", err)
	}

	ctx.JSON(http.StatusOK, dto.LoginResponse{
		User:        dto.ToUserResponse(u),
		AccessToken: token,
		ExpiresAt:   expiresAt,
	})
}

// RefreshToken renova um token JWT
// @Summary Renova um token JWT
// @Description Renova um token JWT válido ou expirado
// @Tags auth
// @Accept json
// @Produce json
// @Param refresh body dto.RefreshTokenRequest true "Token a ser renovado"
// @Success 200 {object} dto.RefreshTokenResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /auth/refresh-token [post]
func (c *AuthController) RefreshToken(ctx *gin.Context) {
	var request dto.RefreshTokenRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		badRequest(ctx, err)
		return
	}

	token, expiresAt, err := c.jwtService.RefreshToken(request.RefreshToken)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidToken) || errors.Is(err, auth.ErrInvalidClaims) {
			ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(http.StatusUnauthorized, "Token inválido", err.Error()))
			return
		}
		c.logger.Error("erro ao renovar token", "error", err)
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao renovar token", "erro interno"))
		return
	}

	ctx.JSON(http.StatusOK, dto.RefreshTokenResponse{AccessToken: token, ExpiresAt: expiresAt})
}

// Me retorna os dados do usuário autenticado
// @Summary Usuário autenticado
// @Tags auth
// @Produce json
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /auth/me [get]
func (c *AuthController) Me(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}

	u, err := c.userRepository.FindByID(ctx.Request.Context(), actor.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "Usuário não encontrado", ""))
			return
		}
		respondError(ctx, c.logger, "Erro ao buscar usuário", err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToUserResponse(u))
}

// SetupAdmin cria o primeiro administrador do sistema
// @Summary Cria o primeiro administrador
// @Description Disponível apenas enquanto não existir nenhum usuário cadastrado
// @Tags setup
// @Accept json
// @Produce json
// @Param admin body dto.SetupAdminRequest true "Dados do administrador"
// @Success 201 {object} dto.UserResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /setup/admin [post]
func (c *AuthController) SetupAdmin(ctx *gin.Context) {
	var request dto.SetupAdminRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		badRequest(ctx, err)
		return
	}

	count, err := c.userRepository.Count(ctx.Request.Context())
	if err != nil {
		respondError(ctx, c.logger, "Erro ao verificar usuários", err)
		return
	}
	if count > 0 {
		ctx.JSON(http.StatusConflict, dto.NewErrorResponse(http.StatusConflict, "Sistema já configurado", "já existe ao menos um usuário cadastrado"))
		return
	}

	u, err := user.NewUser(request.Name, request.Email, request.Password, user.RoleAdmin)
	if err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, dto.NewErrorResponse(http.StatusUnprocessableEntity, "Dados inválidos", err.Error()))
		return
	}

	if err := c.userRepository.Create(ctx.Request.Context(), u); err != nil {
		if errors.Is(err, repository.ErrUserDuplicateEmail) {
			ctx.JSON(http.StatusConflict, dto.NewErrorResponse(http.StatusConflict, "Email já cadastrado", err.Error()))
			return
		}
		respondError(ctx, c.logger, "Erro ao criar administrador", err)
		return
	}

	c.logger.Info("administrador inicial criado", "user_id", u.ID)
	ctx.JSON(http.StatusCreated, dto.ToUserResponse(u))
}
