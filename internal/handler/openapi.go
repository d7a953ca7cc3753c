package handler

import (
	"github.com/deppfellow/survey/internal/server"
	"github.com/labstack/echo/v4"
)

// OpenAPIPage is the docs UI. It loads openapi.json from /static.
const OpenAPIPage = "openapi.html"

// OpenAPIHandler serves the API docs UI from the static directory.
type OpenAPIHandler struct {
	Handler
}

func NewOpenAPIHandler(s *server.Server) *OpenAPIHandler {
	return &OpenAPIHandler{
		Handler: NewHandler(s),
	}
}

// ServeOpenAPIUI returns the API docs page. It is read on every request
// so edits show up without a restart.
func (h *OpenAPIHandler) ServeOpenAPIUI(c echo.Context, _ *PageRequest) ([]byte, error) {
	return readPage(h.server.Config.Server.StaticDir, OpenAPIPage)
}
