// Package survey defines the survey response entity and the payloads the
// HTTP layer exchanges for it.
package survey

// Survey is one persisted survey response.
//
// ID is assigned by the storage engine on insert and never changes.
type Survey struct {
	ID       int64  `json:"id"`
	UserName string `json:"user_name"`
	Age      int    `json:"age"`
	Feedback string `json:"feedback"`
	Rating   int    `json:"rating"`
}

// NewSurvey holds the fields of a survey response before it is stored.
type NewSurvey struct {
	UserName string
	Age      int
	Feedback string
	Rating   int
}
