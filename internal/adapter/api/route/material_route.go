package route

import (
	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/gestao-obras/internal/adapter/api/controller"
	"github.com/hugohenrick/gestao-obras/pkg/auth"
	"github.com/hugohenrick/gestao-obras/pkg/identity"
)

// SetupMaterialRoutes configura as rotas do catálogo de materiais
func SetupMaterialRoutes(router *gin.RouterGroup, materialController *controller.MaterialController, jwtService *auth.JWTService) {
	materialRouter := router.Group("/materials")
	materialRouter.Use(auth.JWTAuthMiddleware(jwtService))
	{
		materialRouter.GET("", materialController.List)
		materialRouter.GET("/:id", materialController.GetByID)

		materialRouter.POST("",
			auth.RoleAuthMiddleware(identity.RoleAdmin, identity.RoleCompras, identity.RoleFinanceiro),
			materialController.Create)
	}
}
