package aisvc

import (
	"context"
	"errors"

	"github.com/shuleapp/shule/core"
	"github.com/shuleapp/shule/core/user"
)

// ErrNotConfigured means no API key is set; the API layer maps it to a 503.
var ErrNotConfigured = errors.New("AI service not configured")

type (
	GradeRequest struct {
		AssignmentTitle       string `json:"assignment_title"`
		AssignmentDescription string `json:"assignment_description"`
		Content               string `json:"content" validate:"required"`
	}

	GradeResult struct {
		Grade    string `json:"grade"`
		Feedback string `json:"feedback"`
	}

	// Service is any language-model backend able to chat and grade.
	Service interface {
		// Chat answers a free-form message with a persona matching role
		// (teaching assistant for teachers, learning buddy for students).
		Chat(ctx context.Context, role user.Role, message string) (string, error)
		// Grade produces a grade and short feedback for a submission.
		Grade(ctx context.Context, req GradeRequest) (GradeResult, error)
	}
)

func (gr *GradeRequest) Validate() error {
	return core.Validate.Struct(gr)
}
