package repository_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/deppfellow/survey/internal/model/survey"
	"github.com/deppfellow/survey/internal/repository"
	"github.com/deppfellow/survey/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSurveyRepositoryCreateAndList(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewRepositories(testutil.NewServer(t)).Survey

	alice, err := repo.Create(ctx, survey.NewSurvey{UserName: "Alice", Age: 30, Feedback: "Great", Rating: 5})
	require.NoError(t, err)
	bob, err := repo.Create(ctx, survey.NewSurvey{UserName: "Bob", Age: 25, Feedback: "Okay", Rating: 3})
	require.NoError(t, err)

	assert.NotEqual(t, alice.ID, bob.ID)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []survey.Survey{*alice, *bob}, all)
}

func TestSurveyRepositoryListEmpty(t *testing.T) {
	repo := repository.NewSurveyRepository(testutil.NewServer(t))

	all, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)
}

func TestSurveyRepositoryKeepsZeroValues(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewSurveyRepository(testutil.NewServer(t))

	_, err := repo.Create(ctx, survey.NewSurvey{})
	require.NoError(t, err)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "", all[0].UserName)
	assert.Equal(t, 0, all[0].Rating)
}

func TestSurveyRepositoryKeepsLargeIntegers(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewSurveyRepository(testutil.NewServer(t))

	in := survey.NewSurvey{UserName: "Big", Age: 1 << 40, Feedback: "ok", Rating: -(1 << 40)}
	_, err := repo.Create(ctx, in)
	require.NoError(t, err)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, in.Age, all[0].Age)
	assert.Equal(t, in.Rating, all[0].Rating)
}

func TestSurveyRepositoryConcurrentCreate(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewSurveyRepository(testutil.NewServer(t))

	const writers = 20
	ids := make([]int64, writers)
	errs := make([]error, writers)

	var wg sync.WaitGroup
	for i := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			created, err := repo.Create(ctx, survey.NewSurvey{
				UserName: fmt.Sprintf("user-%d", i),
				Age:      20 + i,
				Feedback: "ok",
				Rating:   i % 5,
			})
			errs[i] = err
			if err == nil {
				ids[i] = created.ID
			}
		}()
	}
	wg.Wait()

	seen := make(map[int64]bool, writers)
	for i := range writers {
		require.NoError(t, errs[i])
		assert.False(t, seen[ids[i]], "duplicate id %d", ids[i])
		seen[ids[i]] = true
	}

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, writers, n)
}

func TestSurveyRepositoryStorageFailures(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewServer(t)
	repo := repository.NewSurveyRepository(s)

	require.NoError(t, s.DB.Close())

	_, err := repo.Create(ctx, survey.NewSurvey{UserName: "Alice", Age: 30, Feedback: "Great", Rating: 5})
	assert.ErrorIs(t, err, repository.ErrStorageWrite)

	_, err = repo.ListAll(ctx)
	assert.ErrorIs(t, err, repository.ErrStorageRead)

	_, err = repo.Count(ctx)
	assert.ErrorIs(t, err, repository.ErrStorageRead)
}
