package aisvc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"github.com/shuleapp/shule/core"
	"github.com/shuleapp/shule/core/user"
)

const (
	teacherPersona = "You are a helpful teaching assistant. Help with lesson planning, grading, and creating educational content."
	studentPersona = "You are a friendly learning buddy. Help explain concepts simply and encourage learning. Do not give direct answers to homework."

	gradePromptFmt = `You are an expert teacher. Please grade the following student submission.

Assignment Title: %s
Description: %s

Student Submission:
%s

Please provide:
1. A grade (e.g., A, B, C or 90/100)
2. Constructive feedback (2-3 sentences)

Format the output as VALID JSON with keys 'grade' and 'feedback'. Do not include markdown formatting like ` + "```json" + `.`
)

type geminiService struct {
	conf   core.AIConfig
	client *http.Client
}

var _ Service = (*geminiService)(nil)

// NewGeminiService talks to a Gemini-style generateContent endpoint.
func NewGeminiService(conf core.AIConfig) Service {
	return &geminiService{
		conf:   conf,
		client: &http.Client{Timeout: conf.Timeout},
	}
}

func (svc *geminiService) Chat(ctx context.Context, role user.Role, message string) (string, error) {
	persona := ""
	switch role {
	case user.RoleTeacher:
		persona = teacherPersona
	case user.RoleStudent:
		persona = studentPersona
	}

	prompt := message
	if persona != "" {
		prompt = persona + "\n\nUser: " + message
	}
	return svc.generate(ctx, prompt)
}

func (svc *geminiService) Grade(ctx context.Context, req GradeRequest) (GradeResult, error) {
	prompt := fmt.Sprintf(gradePromptFmt, req.AssignmentTitle, req.AssignmentDescription, req.Content)
	text, err := svc.generate(ctx, prompt)
	if err != nil {
		return GradeResult{}, err
	}

	// models love to wrap JSON in markdown fences despite instructions
	clean := strings.TrimSpace(text)
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")
	clean = strings.TrimSpace(clean)

	var result GradeResult
	if err := json.Unmarshal([]byte(clean), &result); err != nil {
		return GradeResult{Grade: "Pending", Feedback: clean}, nil
	}
	return result, nil
}

type (
	generateRequest struct {
		Contents []content `json:"contents"`
	}
	content struct {
		Parts []part `json:"parts"`
	}
	part struct {
		Text string `json:"text"`
	}
	generateResponse struct {
		Candidates []struct {
			Content content `json:"content"`
		} `json:"candidates"`
	}
)

func (svc *geminiService) generate(ctx context.Context, prompt string) (string, error) {
	if svc.conf.APIKey == "" {
		return "", ErrNotConfigured
	}

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", errors.Wrap(err, "marshaling generate request")
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", svc.conf.BaseURL, svc.conf.Model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(err, "building generate request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", svc.conf.APIKey)

	resp, err := svc.client.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "calling model API")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(err, "reading model response")
	}
	if resp.StatusCode != http.StatusOK {
		return "", errors.Errorf("model API returned %d: %s", resp.StatusCode, data)
	}

	var genResp generateResponse
	if err := json.Unmarshal(data, &genResp); err != nil {
		return "", errors.Wrap(err, "unmarshaling model response")
	}
	if len(genResp.Candidates) == 0 || len(genResp.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("model returned no candidates")
	}
	return genResp.Candidates[0].Content.Parts[0].Text, nil
}
