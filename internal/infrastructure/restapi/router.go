package restapi

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// SetupRouter wires the session endpoints into a Gin router.
func SetupRouter(handler *SessionHandler, logger *zap.Logger) *gin.Engine {
	router := gin.New()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	router.Use(cors.New(corsConfig))

	router.Use(ZapLoggerMiddleware(logger))
	router.Use(gin.Recovery())

	v1 := router.Group("/api/v1")
	{
		v1.GET("/tokens", handler.ListTokensHandler)
		v1.GET("/chains", handler.ListChainsHandler)
		v1.POST("/sessions", handler.CreateSessionHandler)
		v1.GET("/sessions/:id/quote", handler.GetQuoteHandler)
		v1.POST("/sessions/:id/token", handler.SetTokenHandler)
		v1.POST("/sessions/:id/route", handler.SetRouteHandler)
		v1.POST("/sessions/:id/amount", handler.SetAmountHandler)
		v1.POST("/sessions/:id/balance", handler.SetBalanceHandler)
		v1.POST("/sessions/:id/price-input", handler.ManualPriceHandler)
		v1.POST("/sessions/:id/fee-click", handler.FeeClickHandler)
	}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}
