package service

import (
	"context"

	"github.com/deppfellow/survey/internal/model/survey"
	"github.com/deppfellow/survey/internal/repository"
	"github.com/deppfellow/survey/internal/server"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// SubmitMessage is the confirmation returned for a stored submission.
const SubmitMessage = "Saved to the database"

// SurveyService turns validated submissions into stored surveys and
// reads them back. It logs with the request logger found in ctx.
type SurveyService struct {
	server *server.Server
	repo   *repository.SurveyRepository
}

func NewSurveyService(s *server.Server, repo *repository.SurveyRepository) *SurveyService {
	return &SurveyService{
		server: s,
		repo:   repo,
	}
}

// Submit stores a validated submission and echoes it back together with
// the id the store assigned.
func (s *SurveyService) Submit(ctx context.Context, req *survey.SubmitSurveyRequest) (*survey.SubmitSurveyResponse, error) {
	in := req.ToNewSurvey()

	created, err := s.repo.Create(ctx, in)
	if err != nil {
		return nil, errors.Wrap(err, "failed to submit survey")
	}

	s.logger(ctx).Info().
		Int64("survey_id", created.ID).
		Int("rating", created.Rating).
		Msg("survey submitted")

	return &survey.SubmitSurveyResponse{
		Message: SubmitMessage,
		ID:      created.ID,
		Data: survey.SurveyData{
			UserName: in.UserName,
			Age:      in.Age,
			Feedback: in.Feedback,
			Rating:   in.Rating,
		},
	}, nil
}

// Results returns every stored submission in insertion order.
func (s *SurveyService) Results(ctx context.Context) ([]survey.Survey, error) {
	surveys, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list surveys")
	}
	return surveys, nil
}

// Count reports how many submissions are stored.
func (s *SurveyService) Count(ctx context.Context) (int64, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "failed to count surveys")
	}
	return n, nil
}

// logger prefers the request-scoped logger carried by ctx.
func (s *SurveyService) logger(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return s.server.Logger
}
