package route

import (
	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/gestao-obras/internal/adapter/api/controller"
	"github.com/hugohenrick/gestao-obras/pkg/auth"
)

// SetupAuthRoutes configura as rotas para autenticação
func SetupAuthRoutes(router *gin.RouterGroup, authController *controller.AuthController, jwtService *auth.JWTService) {
	authRouter := router.Group("/auth")
	{
		// Rota de login (não requer autenticação)
		authRouter.POST("/login", authController.Login)

		// Renovação aceita token expirado, a assinatura continua obrigatória
		authRouter.POST("/refresh-token", authController.RefreshToken)

		authRouter.GET("/me", auth.JWTAuthMiddleware(jwtService), authController.Me)
	}
}
