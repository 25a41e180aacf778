// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"campusgo/internal/http/handlers"
	"campusgo/internal/http/middleware"
	"campusgo/internal/modules/fees"
	"campusgo/internal/modules/order"
)

func NewRouter(engine *fees.Engine, store *order.Store, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Recovery(logger), middleware.Logging(logger))

	feeHandler := handlers.NewFeeHandler(engine, store, logger)
	api := r.Group("/api/fees")
	api.POST("/calculate", feeHandler.Calculate)
	api.POST("/estimate", feeHandler.Estimate)
	api.POST("/validate", feeHandler.Validate)
	api.POST("/timeout/calculate", feeHandler.TimeoutCalculate)
	api.POST("/timeout/estimate", feeHandler.TimeoutEstimate)
	api.GET("/timeout/deadline", feeHandler.TimeoutDeadline)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	return r
}
