package handler

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/deppfellow/survey/internal/errs"
	"github.com/deppfellow/survey/internal/server"
	"github.com/labstack/echo/v4"
)

// LandingPage is the file served at "/", relative to server.static_dir.
const LandingPage = "index.html"

// PageRequest is the empty request of the HTML page routes.
type PageRequest struct{}

func (r *PageRequest) Validate() error {
	return nil
}

// LandingHandler serves the static landing page at /.
type LandingHandler struct {
	Handler
}

func NewLandingHandler(s *server.Server) *LandingHandler {
	return &LandingHandler{
		Handler: NewHandler(s),
	}
}

// ServeLanding reads the landing page from disk on every request, so a
// page added after startup is picked up without a restart.
func (h *LandingHandler) ServeLanding(c echo.Context, _ *PageRequest) ([]byte, error) {
	return readPage(h.server.Config.Server.StaticDir, LandingPage)
}

// readPage loads a page from dir; a missing file is a NotFoundError.
func readPage(dir, name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, errs.NewNotFoundError("Page not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return data, nil
}
