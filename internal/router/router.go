// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and maps paths to their handlers.
package router

import (
	"net/http"

	"github.com/deppfellow/survey/internal/handler"
	"github.com/deppfellow/survey/internal/middleware"
	"github.com/deppfellow/survey/internal/model/survey"
	"github.com/deppfellow/survey/internal/server"
	"github.com/labstack/echo/v4"
)

// NewRouter builds the echo instance serving the survey API.
func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true
	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	router.Use(
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
		middlewares.Global.Secure(),
		middlewares.Global.CORS(),
	)

	registerSystemRoutes(router, s, h)
	registerSurveyRoutes(router, h)

	return router
}

func registerSurveyRoutes(r *echo.Echo, h *handler.Handlers) {
	r.GET("/", handler.HandleHTML(
		h.Landing.Handler,
		h.Landing.ServeLanding,
		&handler.PageRequest{},
		handler.LandingPage,
		false,
	))

	r.POST("/submit", handler.Handle(
		h.Survey.Handler,
		h.Survey.SubmitSurvey,
		http.StatusOK,
		&survey.SubmitSurveyRequest{},
	))

	r.GET("/results", handler.Handle(
		h.Survey.Handler,
		h.Survey.ListResults,
		http.StatusOK,
		&survey.ListSurveysRequest{},
	))
}
