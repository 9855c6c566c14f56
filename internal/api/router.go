package api

import (
	"log/slog"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/a3tai/proof-comments/internal/pdf"
)

// maxMultipartMemory bounds the part of an upload held in memory
const maxMultipartMemory = 32 << 20

// NewRouter sets up the upload API router
func NewRouter(service *pdf.Service, logger *slog.Logger) *gin.Engine {
	if logger == nil {
		logger = slog.Default()
	}

	router := gin.New()
	router.MaxMultipartMemory = maxMultipartMemory

	router.Use(gin.Recovery())
	router.Use(LoggerMiddleware(logger))
	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type"},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition", RunIDHeader},
		MaxAge:        12 * time.Hour,
	}))

	handler := NewHandler(service, logger)

	router.GET("/", handler.HealthCheck)

	apiGroup := router.Group("/api")
	{
		apiGroup.POST("/comments", handler.ExtractComments)
		apiGroup.POST("/filename", handler.ParseFilename)
	}

	return router
}
