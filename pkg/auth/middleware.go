package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/gestao-obras/internal/adapter/api/dto"
	"github.com/hugohenrick/gestao-obras/pkg/identity"
)

// JWTAuthMiddleware cria um middleware para autenticação JWT.
// O ator autenticado fica disponível em identity.FromContext(c.Request.Context()).
func JWTAuthMiddleware(jwtService *JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Obter o token do cabeçalho Authorization
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(
				http.StatusUnauthorized,
				"Autenticação requerida",
				"O cabeçalho Authorization não foi fornecido",
			))
			return
		}

		// Verificar o formato "Bearer <token>"
		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(
				http.StatusUnauthorized,
				"Formato de token inválido",
				"Use o formato 'Bearer <token>'",
			))
			return
		}

		claims, err := jwtService.ValidateToken(tokenParts[1])
		if err != nil {
			message := "Token inválido"
			if errors.Is(err, ErrExpiredToken) {
				message = "Token expirado"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(
				http.StatusUnauthorized,
				message,
				err.Error(),
			))
			return
		}

		// Armazenar as claims no contexto
		c.Set("user_id", claims.UserID)
		c.Set("user_email", claims.Email)
		c.Set("user_name", claims.Name)
		c.Set("user_role", claims.Role)

		actor := identity.Actor{UserID: claims.UserID, Name: claims.Name, Role: claims.Role}
		c.Request = c.Request.WithContext(identity.WithActor(c.Request.Context(), actor))

		c.Next()
	}
}

// RoleAuthMiddleware cria um middleware para verificação de papel/função do usuário
func RoleAuthMiddleware(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole := c.GetString("user_role")
		if userRole == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(
				http.StatusUnauthorized,
				"Autenticação requerida",
				"",
			))
			return
		}

		for _, r := range roles {
			if userRole == r {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(
			http.StatusForbidden,
			"Acesso negado",
			"Você não tem permissão para acessar este recurso",
		))
	}
}

// CurrentActor obtém o ator autenticado da requisição
func CurrentActor(c *gin.Context) (identity.Actor, bool) {
	return identity.FromContext(c.Request.Context())
}
