// Package service contains the business logic.
//
// It sits between the handler and repository layers.
// It receives validated data from the handler, performs
// business operations, and calls repository methods to interact
// with the data
package service

import (
	"github.com/deppfellow/survey/internal/repository"
	"github.com/deppfellow/survey/internal/server"
)

// Services is the business layer handed to the handlers.
type Services struct {
	Survey *SurveyService
}

func NewService(s *server.Server, repos *repository.Repositories) (*Services, error) {
	return &Services{
		Survey: NewSurveyService(s, repos.Survey),
	}, nil
}
