package handler

import (
	"github.com/deppfellow/survey/internal/model/survey"
	"github.com/deppfellow/survey/internal/server"
	"github.com/deppfellow/survey/internal/service"
	"github.com/labstack/echo/v4"
)

// SurveyHandler serves POST /submit and GET /results.
type SurveyHandler struct {
	Handler
	surveyService *service.SurveyService
}

func NewSurveyHandler(s *server.Server, surveyService *service.SurveyService) *SurveyHandler {
	return &SurveyHandler{
		Handler:       NewHandler(s),
		surveyService: surveyService,
	}
}

// SubmitSurvey stores a validated submission. Validation already ran in
// the pipeline, so storage is never reached with a bad payload.
func (h *SurveyHandler) SubmitSurvey(c echo.Context, req *survey.SubmitSurveyRequest) (*survey.SubmitSurveyResponse, error) {
	return h.surveyService.Submit(c.Request().Context(), req)
}

// ListResults returns every submission in insertion order.
func (h *SurveyHandler) ListResults(c echo.Context, _ *survey.ListSurveysRequest) ([]survey.Survey, error) {
	return h.surveyService.Results(c.Request().Context())
}
