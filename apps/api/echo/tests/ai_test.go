package tests

import (
	"net/http"
	"testing"

	"github.com/shuleapp/shule/core/user"
	aisvc "github.com/shuleapp/shule/services/ai"
)

func Test_aiApi_chat(t *testing.T) {
	resetServer()
	emma := createUser(t, "Emma Wilson", "emma@school.org", user.RoleStudent, "Grade 5A", "1234")
	emmaToken := openSession(t, emma)

	chatBody := marchallObj(t, map[string]string{"message": "What is a fraction?"})

	tests := []httpTest{
		{name: "auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errNoAuth)},
		{name: "message required", token: emmaToken, body: marchallObj(t, map[string]string{}), wantCode: http.StatusBadRequest},
		{
			name: "replies", token: emmaToken, body: chatBody, wantCode: http.StatusOK,
			wantData: marchallObj(t, map[string]string{"response": "Let's work through this together!"}),
		},
	}
	for _, tt := range tests {
		if tt.body == nil {
			tt.body = chatBody
		}
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/v1/ai/chat", tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("503 when unconfigured", func(t *testing.T) {
		aiSvc.Unavailable = true
		defer func() { aiSvc.Unavailable = false }()

		req, rec := newAuthRequest(http.MethodPost, "/v1/ai/chat", emmaToken, chatBody)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusServiceUnavailable,
			wantData: marchallObj(t, httpErr{Error: "AI service not configured"}),
		}, rec)
	})
}

func Test_aiApi_grade(t *testing.T) {
	resetServer()
	johnson := createUser(t, "Mr. Johnson", "johnson@school.org", user.RoleTeacher, "", "1234")
	emma := createUser(t, "Emma Wilson", "emma@school.org", user.RoleStudent, "Grade 5A", "1234")

	johnsonToken := openSession(t, johnson)
	emmaToken := openSession(t, emma)

	gradeBody := marchallObj(t, aisvc.GradeRequest{
		AssignmentTitle: "Fractions worksheet",
		Content:         "1/2 + 1/4 = 3/4",
	})

	tests := []httpTest{
		{name: "teachers only", token: emmaToken, body: gradeBody, wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)},
		{name: "content required", token: johnsonToken, body: marchallObj(t, aisvc.GradeRequest{}), wantCode: http.StatusBadRequest},
		{
			name: "suggests a grade", token: johnsonToken, body: gradeBody, wantCode: http.StatusOK,
			wantData: marchallObj(t, aisvc.GradeResult{Grade: "B+", Feedback: "Good effort; show your working next time."}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/v1/ai/grade", tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}
