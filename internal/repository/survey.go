package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/deppfellow/survey/internal/model/survey"
	"github.com/deppfellow/survey/internal/server"
)

const (
	insertSurvey  = `INSERT INTO surveys (user_name, age, feedback, rating) VALUES (?, ?, ?, ?) RETURNING id`
	selectSurveys = `SELECT id, user_name, age, feedback, rating FROM surveys ORDER BY id`
	countSurveys  = `SELECT COUNT(*) FROM surveys`
)

// SurveyRepository stores survey submissions in the surveys table.
// Every call runs inside its own database session, so it is safe for
// concurrent use by any number of requests.
type SurveyRepository struct {
	server *server.Server
}

func NewSurveyRepository(s *server.Server) *SurveyRepository {
	return &SurveyRepository{server: s}
}

// Create persists one submission and returns it with the id assigned by
// the store. Ids are unique even under concurrent calls.
func (r *SurveyRepository) Create(ctx context.Context, in survey.NewSurvey) (*survey.Survey, error) {
	db := r.server.DB

	var id int64
	err := db.WithSession(ctx, func(ctx context.Context, tx *sql.Tx) error {
		return tx.QueryRowContext(ctx, db.Rebind(insertSurvey),
			in.UserName, in.Age, in.Feedback, in.Rating,
		).Scan(&id)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: insert survey: %w", ErrStorageWrite, err)
	}

	return &survey.Survey{
		ID:       id,
		UserName: in.UserName,
		Age:      in.Age,
		Feedback: in.Feedback,
		Rating:   in.Rating,
	}, nil
}

// ListAll returns every stored submission in insertion order. An empty
// store yields an empty, non-nil slice.
func (r *SurveyRepository) ListAll(ctx context.Context) ([]survey.Survey, error) {
	db := r.server.DB

	surveys := []survey.Survey{}
	err := db.WithSession(ctx, func(ctx context.Context, tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, db.Rebind(selectSurveys))
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var s survey.Survey
			if err := rows.Scan(&s.ID, &s.UserName, &s.Age, &s.Feedback, &s.Rating); err != nil {
				return err
			}
			surveys = append(surveys, s)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("%w: list surveys: %w", ErrStorageRead, err)
	}

	return surveys, nil
}

// Count returns the number of stored submissions. /status uses it as a
// read check that goes past Ping.
func (r *SurveyRepository) Count(ctx context.Context) (int64, error) {
	db := r.server.DB

	var n int64
	err := db.WithSession(ctx, func(ctx context.Context, tx *sql.Tx) error {
		return tx.QueryRowContext(ctx, db.Rebind(countSurveys)).Scan(&n)
	})
	if err != nil {
		return 0, fmt.Errorf("%w: count surveys: %w", ErrStorageRead, err)
	}

	return n, nil
}
