package route

import (
	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/gestao-obras/internal/adapter/api/controller"
	"github.com/hugohenrick/gestao-obras/pkg/auth"
)

// SetupPurchaseRoutes configura as rotas para compras e orçamentos.
// A permissão de escrita é verificada no domínio a partir do papel do usuário.
func SetupPurchaseRoutes(router *gin.RouterGroup, purchaseController *controller.PurchaseController, jwtService *auth.JWTService) {
	purchaseRouter := router.Group("/purchases")
	purchaseRouter.Use(auth.JWTAuthMiddleware(jwtService))
	{
		purchaseRouter.POST("", purchaseController.Create)
		purchaseRouter.GET("", purchaseController.List)

		// Manutenção (registrada antes de /:id)
		purchaseRouter.GET("/maintenance/without-items", purchaseController.ListWithoutItems)
		purchaseRouter.DELETE("/maintenance/without-items", purchaseController.DeleteWithoutItems)

		purchaseRouter.GET("/:id", purchaseController.GetByID)
		purchaseRouter.PUT("/:id", purchaseController.Update)
		purchaseRouter.DELETE("/:id", purchaseController.Delete)
		purchaseRouter.PATCH("/:id/type", purchaseController.ConvertType)
		purchaseRouter.PATCH("/:id/approve", purchaseController.Approve)
		purchaseRouter.PATCH("/:id/installments/:sequence/pay", purchaseController.PayInstallment)
		purchaseRouter.GET("/:id/installments/export", purchaseController.ExportInstallments)
	}
}
