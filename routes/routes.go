package routes

import (
	"equilibrio-api/config"
	"equilibrio-api/controllers"
	"equilibrio-api/middleware"
	"equilibrio-api/services/marketdata"
	"equilibrio-api/services/presets"

	"github.com/gin-gonic/gin"
)

// SetupRoutes sets up all API routes
func SetupRoutes(router *gin.Engine, cfg *config.Config, market *marketdata.Service, presetSvc *presets.Service) {
	// Initialize controllers
	stockController := controllers.NewStockController(market)
	presetController := controllers.NewPresetController(presetSvc)
	authController := controllers.NewAuthController(cfg)

	api := router.Group("/api")
	{
		// Screener routes
		stocks := api.Group("/stocks")
		{
			stocks.GET("", stockController.GetStocks)
			stocks.GET("/export", stockController.ExportStocks)
			stocks.GET("/:symbol", stockController.GetStock)
		}

		api.GET("/sectors", stockController.GetSectors)

		// Active filter mirror
		filters := api.Group("/filters")
		{
			filters.GET("", presetController.GetActiveFilter)
			filters.PUT("", presetController.SetActiveFilter)
			filters.PATCH("", presetController.PatchActiveFilter)
			filters.DELETE("", presetController.ResetActiveFilter)
		}

		// Saved presets
		presetRoutes := api.Group("/presets")
		{
			presetRoutes.GET("", presetController.GetPresets)
			presetRoutes.POST("", presetController.CreatePreset)
			presetRoutes.GET("/:id", presetController.GetPreset)
			presetRoutes.PUT("/:id", presetController.UpdatePreset)
			presetRoutes.DELETE("/:id", presetController.DeletePreset)
			presetRoutes.POST("/:id/apply", presetController.ApplyPreset)
		}

		// Admin
		admin := api.Group("/admin")
		{
			admin.POST("/login", middleware.LoginRateLimitMiddleware(), authController.Login)
		}

		// Snapshot refresh requires an admin token
		api.POST("/refresh", middleware.JWTAuthMiddleware(), stockController.RefreshData)
	}
}
