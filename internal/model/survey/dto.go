package survey

import "github.com/deppfellow/survey/internal/validation"

// SubmitSurveyRequest is the POST /submit body.
//
// Fields are pointers so that a missing field can be told apart from a
// zero value: {"age": 0} is a valid age, {} is not.
type SubmitSurveyRequest struct {
	UserName *string `json:"user_name" validate:"required"`
	Age      *int    `json:"age" validate:"required"`
	Feedback *string `json:"feedback" validate:"required"`
	Rating   *int    `json:"rating" validate:"required"`
}

func (r *SubmitSurveyRequest) Validate() error {
	return validation.Struct(r)
}

// ToNewSurvey converts a validated request into the storage input.
// It must only be called after Validate succeeded.
func (r *SubmitSurveyRequest) ToNewSurvey() NewSurvey {
	return NewSurvey{
		UserName: *r.UserName,
		Age:      *r.Age,
		Feedback: *r.Feedback,
		Rating:   *r.Rating,
	}
}

// SurveyData is the echo of a validated submission.
type SurveyData struct {
	UserName string `json:"user_name"`
	Age      int    `json:"age"`
	Feedback string `json:"feedback"`
	Rating   int    `json:"rating"`
}

// SubmitSurveyResponse confirms a stored submission.
//
// Data is exactly what was validated; ID is the identifier the storage
// engine assigned to the new record.
type SubmitSurveyResponse struct {
	Message string     `json:"message"`
	ID      int64      `json:"id"`
	Data    SurveyData `json:"data"`
}

// ListSurveysRequest is the (empty) GET /results request.
type ListSurveysRequest struct{}

func (r *ListSurveysRequest) Validate() error {
	return nil
}
