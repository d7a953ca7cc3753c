package repository

import (
	"github.com/deppfellow/survey/internal/server"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	Survey *SurveyRepository
}

// NewRepositories constructs the repository container on top of the
// shared database handle (s.DB).
func NewRepositories(s *server.Server) *Repositories {
	return &Repositories{
		Survey: NewSurveyRepository(s),
	}
}
