// Package api exposes the backtest engine over HTTP. Handlers read the same
// structures the CLI reads; no engine state lives in the server.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"

	"trendscan/internal/config"
)

// NewRouter wires the HTTP surface. db and universe may be nil; the rank
// endpoint then answers 503.
func NewRouter(db barLoader, universe *config.Universe) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(recovery())
	router.Use(corsMiddleware())

	h := &handlers{db: db, universe: universe}

	router.GET("/health", h.Health)
	v1 := router.Group("/api/v1")
	{
		v1.POST("/backtest", h.Backtest)
		v1.GET("/rank", h.Rank)
	}
	return router
}

func corsMiddleware() gin.HandlerFunc {
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	})
	return func(ctx *gin.Context) {
		c.HandlerFunc(ctx.Writer, ctx.Request)
		if ctx.Request.Method == http.MethodOptions {
			ctx.AbortWithStatus(http.StatusNoContent)
			return
		}
		ctx.Next()
	}
}

// recovery converts panics into a JSON 500 instead of tearing the server down.
func recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: ErrorDetail{
			Code:    "INTERNAL_ERROR",
			Message: "An unexpected error occurred",
		}})
		c.Abort()
	})
}
