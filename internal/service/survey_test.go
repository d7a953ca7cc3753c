package service_test

import (
	"context"
	"testing"

	"github.com/deppfellow/survey/internal/model/survey"
	"github.com/deppfellow/survey/internal/repository"
	"github.com/deppfellow/survey/internal/service"
	"github.com/deppfellow/survey/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T {
	return &v
}

func newSurveyService(t *testing.T) (*service.SurveyService, *repository.Repositories) {
	t.Helper()

	s := testutil.NewServer(t)
	repos := repository.NewRepositories(s)
	services, err := service.NewService(s, repos)
	require.NoError(t, err)
	return services.Survey, repos
}

func TestSurveyServiceSubmit(t *testing.T) {
	ctx := context.Background()
	svc, repos := newSurveyService(t)

	res, err := svc.Submit(ctx, &survey.SubmitSurveyRequest{
		UserName: ptr("Alice"),
		Age:      ptr(30),
		Feedback: ptr("Great"),
		Rating:   ptr(5),
	})
	require.NoError(t, err)

	assert.Equal(t, service.SubmitMessage, res.Message)
	assert.Equal(t, survey.SurveyData{UserName: "Alice", Age: 30, Feedback: "Great", Rating: 5}, res.Data)

	stored, err := repos.Survey.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, res.ID, stored[0].ID)
}

func TestSurveyServiceResultsEmpty(t *testing.T) {
	svc, _ := newSurveyService(t)

	results, err := svc.Results(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []survey.Survey{}, results)
}

func TestSurveyServiceStorageErrorsKeepCause(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewServer(t)
	svc := service.NewSurveyService(s, repository.NewSurveyRepository(s))
	require.NoError(t, s.DB.Close())

	_, err := svc.Submit(ctx, &survey.SubmitSurveyRequest{
		UserName: ptr("Alice"),
		Age:      ptr(30),
		Feedback: ptr("Great"),
		Rating:   ptr(5),
	})
	assert.ErrorIs(t, err, repository.ErrStorageWrite)

	_, err = svc.Results(ctx)
	assert.ErrorIs(t, err, repository.ErrStorageRead)
}
