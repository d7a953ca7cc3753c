// Package handler is the first layer after the router.
//
// It binds and validates requests through the validation package,
// calls the service layer and writes responses. Errors are returned to
// the global error handler instead of being written here.
package handler

import (
	"github.com/deppfellow/survey/internal/server"
	"github.com/deppfellow/survey/internal/service"
)

// Handlers groups all HTTP handlers so router setup takes one value.
type Handlers struct {
	Survey  *SurveyHandler
	Landing *LandingHandler
	Health  *HealthHandler
	OpenAPI *OpenAPIHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Survey:  NewSurveyHandler(s, services.Survey),
		Landing: NewLandingHandler(s),
		Health:  NewHealthHandler(s, services.Survey),
		OpenAPI: NewOpenAPIHandler(s),
	}
}
