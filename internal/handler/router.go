package handler

import (
	"github.com/Rob-Kornblum/legal-ease/internal/metrics"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter wires the page, the JSON API and /metrics.
func NewRouter(h *TranslatorHandler, m *metrics.Metrics) (*gin.Engine, error) {
	tmpl, err := LoadTemplates()
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type"},
	}))
	r.SetHTMLTemplate(tmpl)

	r.GET("/", h.Page)
	r.POST("/translate", h.Translate)
	r.POST("/example", h.Example)
	r.POST("/wake", h.Wake)

	api := r.Group("/api")
	api.GET("/state", h.State)
	api.POST("/translate", h.APITranslate)
	api.POST("/example", h.APIExample)
	api.POST("/health", h.APIHealth)

	r.GET("/metrics", gin.WrapH(m.Handler()))
	return r, nil
}
