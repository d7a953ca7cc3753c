package validation_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deppfellow/survey/internal/errs"
	"github.com/deppfellow/survey/internal/model/survey"
	"github.com/deppfellow/survey/internal/validation"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bind(t *testing.T, contentType, body string) (*survey.SubmitSurveyRequest, error) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/submit", strings.NewReader(body))
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	c := e.NewContext(req, httptest.NewRecorder())

	payload := &survey.SubmitSurveyRequest{}
	return payload, validation.BindAndValidate(c, payload)
}

func fields(httpErr *errs.HTTPError) []string {
	names := make([]string, 0, len(httpErr.Errors))
	for _, fe := range httpErr.Errors {
		names = append(names, fe.Field)
	}
	return names
}

func TestBindAndValidateAcceptsCompletePayload(t *testing.T) {
	payload, err := bind(t, echo.MIMEApplicationJSON,
		`{"user_name":"Alice","age":30,"feedback":"Great","rating":5,"extra":"ignored"}`)
	require.NoError(t, err)

	assert.Equal(t, survey.NewSurvey{UserName: "Alice", Age: 30, Feedback: "Great", Rating: 5}, payload.ToNewSurvey())
}

func TestBindAndValidateAcceptsZeroValues(t *testing.T) {
	payload, err := bind(t, echo.MIMEApplicationJSON,
		`{"user_name":"","age":0,"feedback":"","rating":0}`)
	require.NoError(t, err)

	assert.Equal(t, survey.NewSurvey{}, payload.ToNewSurvey())
}

func TestBindAndValidateReportsMissingFields(t *testing.T) {
	_, err := bind(t, echo.MIMEApplicationJSON, `{"user_name":"Alice","age":30}`)

	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusUnprocessableEntity, httpErr.Status)
	assert.ElementsMatch(t, []string{"feedback", "rating"}, fields(httpErr))
	for _, fe := range httpErr.Errors {
		assert.Equal(t, "is required", fe.Error)
	}
}

func TestBindAndValidateReportsWrongType(t *testing.T) {
	_, err := bind(t, echo.MIMEApplicationJSON,
		`{"user_name":"Bob","age":"thirty","feedback":"Okay","rating":4}`)

	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusUnprocessableEntity, httpErr.Status)
	require.Len(t, httpErr.Errors, 1)
	assert.Equal(t, "age", httpErr.Errors[0].Field)
	assert.Equal(t, "must be an integer", httpErr.Errors[0].Error)
}

func TestBindAndValidateMergesTypeAndMissingErrors(t *testing.T) {
	_, err := bind(t, echo.MIMEApplicationJSON, `{"user_name":42,"age":30}`)

	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.ElementsMatch(t, []string{"user_name", "feedback", "rating"}, fields(httpErr))
	assert.Equal(t, "must be a string", httpErr.Errors[0].Error)
}

func TestBindAndValidateMalformedBody(t *testing.T) {
	_, err := bind(t, echo.MIMEApplicationJSON, `{"user_name":`)

	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusUnprocessableEntity, httpErr.Status)
	assert.Equal(t, validation.MsgMalformedBody, httpErr.Message)
	assert.Empty(t, httpErr.Errors)
}

func TestBindAndValidateEmptyBody(t *testing.T) {
	_, err := bind(t, echo.MIMEApplicationJSON, ``)

	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Len(t, httpErr.Errors, 4)
}

func TestBindAndValidateReportsEveryMistypedField(t *testing.T) {
	_, err := bind(t, echo.MIMEApplicationJSON,
		`{"user_name":"B","age":"x","feedback":"ok","rating":"y"}`)

	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, []errs.FieldError{
		{Field: "age", Error: "must be an integer"},
		{Field: "rating", Error: "must be an integer"},
	}, httpErr.Errors)
}

func TestBindAndValidateRejectsFractionalInteger(t *testing.T) {
	_, err := bind(t, echo.MIMEApplicationJSON,
		`{"user_name":"B","age":30.5,"feedback":"ok","rating":3}`)

	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr))
	require.Len(t, httpErr.Errors, 1)
	assert.Equal(t, "age", httpErr.Errors[0].Field)
}

func TestBindAndValidateNullIsMissing(t *testing.T) {
	_, err := bind(t, echo.MIMEApplicationJSON,
		`{"user_name":null,"age":30,"feedback":"ok","rating":3}`)

	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, []errs.FieldError{{Field: "user_name", Error: "is required"}}, httpErr.Errors)
}

func TestBindAndValidateRejectsUnusableBodies(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "trailing data", body: `{"user_name":"B","age":30,"feedback":"ok","rating":3} trailing`},
		{name: "second object", body: `{"user_name":"B","age":30,"feedback":"ok","rating":3}{}`},
		{name: "array", body: `[{"user_name":"B"}]`},
		{name: "null", body: `null`},
		{name: "bare string", body: `"hello"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := bind(t, echo.MIMEApplicationJSON, tt.body)

			var httpErr *errs.HTTPError
			require.True(t, errors.As(err, &httpErr))
			assert.Equal(t, http.StatusUnprocessableEntity, httpErr.Status)
			assert.Equal(t, validation.MsgMalformedBody, httpErr.Message)
			assert.Empty(t, httpErr.Errors)
		})
	}
}

func TestBindAndValidateAcceptsTrailingWhitespace(t *testing.T) {
	_, err := bind(t, echo.MIMEApplicationJSON,
		"{\"user_name\":\"B\",\"age\":30,\"feedback\":\"ok\",\"rating\":3}\n\t ")
	assert.NoError(t, err)
}

func TestBindAndValidateMissingContentTypeIsJSON(t *testing.T) {
	payload, err := bind(t, "", `{"user_name":"Alice","age":30,"feedback":"Great","rating":5}`)
	require.NoError(t, err)
	assert.Equal(t, "Alice", *payload.UserName)
}

func TestBindAndValidateJSONWithCharset(t *testing.T) {
	_, err := bind(t, "application/json; charset=utf-8", `{"user_name":"Alice","age":30,"feedback":"Great","rating":5}`)
	assert.NoError(t, err)
}

func TestBindAndValidateNonJSONContentType(t *testing.T) {
	_, err := bind(t, "application/x-yaml", `user_name: Alice`)

	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusUnprocessableEntity, httpErr.Status)
	assert.Equal(t, validation.MsgUnsupportedBody, httpErr.Message)
}

func TestCustomValidationErrors(t *testing.T) {
	payload := customPayload{}
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c := e.NewContext(req, httptest.NewRecorder())

	err := validation.BindAndValidate(c, &payload)

	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr))
	require.Len(t, httpErr.Errors, 1)
	assert.Equal(t, errs.FieldError{Field: "rating", Error: "must be between 1 and 5"}, httpErr.Errors[0])
}

type customPayload struct{}

func (p *customPayload) Validate() error {
	return validation.CustomValidationErrors{{Field: "rating", Message: "must be between 1 and 5"}}
}
