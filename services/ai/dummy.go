package aisvc

import (
	"context"
	"sync"

	"github.com/shuleapp/shule/core/user"
)

// DummyService returns canned answers; for development and tests.
type DummyService struct {
	mu      sync.Mutex
	Prompts []string

	ChatReply   string
	GradeReply  GradeResult
	Err         error
	Unavailable bool
}

var _ Service = (*DummyService)(nil)

func NewDummyService() *DummyService {
	return &DummyService{
		ChatReply:  "Let's work through this together!",
		GradeReply: GradeResult{Grade: "B+", Feedback: "Good effort; show your working next time."},
	}
}

func (svc *DummyService) Chat(_ context.Context, _ user.Role, message string) (string, error) {
	svc.mu.Lock()
	svc.Prompts = append(svc.Prompts, message)
	svc.mu.Unlock()

	if svc.Unavailable {
		return "", ErrNotConfigured
	}
	if svc.Err != nil {
		return "", svc.Err
	}
	return svc.ChatReply, nil
}

func (svc *DummyService) Grade(_ context.Context, req GradeRequest) (GradeResult, error) {
	svc.mu.Lock()
	svc.Prompts = append(svc.Prompts, req.Content)
	svc.mu.Unlock()

	if svc.Unavailable {
		return GradeResult{}, ErrNotConfigured
	}
	if svc.Err != nil {
		return GradeResult{}, svc.Err
	}
	return svc.GradeReply, nil
}
