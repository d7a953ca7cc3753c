package router

import (
	"github.com/deppfellow/survey/internal/handler"
	"github.com/deppfellow/survey/internal/server"
	"github.com/labstack/echo/v4"
)

// registerSystemRoutes registers endpoints that are not part of the
// survey API: health, docs and static assets.
func registerSystemRoutes(r *echo.Echo, s *server.Server, h *handler.Handlers) {
	r.GET("/status", h.Health.CheckHealth)

	r.Static("/static", s.Config.Server.StaticDir)

	r.GET("/docs", handler.HandleHTML(
		h.OpenAPI.Handler,
		h.OpenAPI.ServeOpenAPIUI,
		&handler.PageRequest{},
		handler.OpenAPIPage,
		true,
	))
}
