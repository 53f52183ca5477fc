package route

import (
	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/gestao-obras/internal/adapter/api/controller"
)

// SetupSetupRoutes configura as rotas para configuração inicial do sistema
func SetupSetupRoutes(router *gin.RouterGroup, authController *controller.AuthController) {
	setupRouter := router.Group("/setup")
	{
		// Só funciona enquanto não houver nenhum usuário cadastrado
		setupRouter.POST("/admin", authController.SetupAdmin)
	}
}
