package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"interview_prep_backend/internal/model"
	"interview_prep_backend/internal/repository"
	"interview_prep_backend/internal/service"
	"interview_prep_backend/internal/util"
	"interview_prep_backend/pkg/logger"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

func newTestRouter() *gin.Engine {
	questions := repository.NewQuestionRepository()
	local := service.NewLocalEvaluator(questions, service.NewScoringService())
	svc := service.NewInterviewService(repository.NewSessionRepository(), local, local)
	c := NewSessionController(svc)

	router := gin.New()
	sessions := router.Group("/api/sessions")
	{
		sessions.POST("", c.CreateSession)
		sessions.GET("/:id", c.GetSession)
		sessions.DELETE("/:id", c.DeleteSession)
		sessions.GET("/:id/question", c.GetCurrentQuestion)
		sessions.POST("/:id/answers", c.SubmitAnswer)
		sessions.GET("/:id/summary", c.GetSummary)
	}
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, util.Response) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp util.Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body %q: %v", w.Body.String(), err)
	}
	return w, resp
}

func createTestSession(t *testing.T, router *gin.Engine) (string, int) {
	t.Helper()

	w, resp := doJSON(t, router, http.MethodPost, "/api/sessions", gin.H{
		"name":            "Asha",
		"role":            string(model.RoleBackend),
		"experienceLevel": string(model.LevelJunior),
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create session: status %d body %s", w.Code, w.Body.String())
	}

	data := resp.Data.(map[string]interface{})
	id, _ := data["id"].(string)
	if id == "" {
		t.Fatal("created session has no id")
	}
	questions, _ := data["questions"].([]interface{})
	if len(questions) == 0 {
		t.Fatal("created session has no questions")
	}
	return id, len(questions)
}

func TestFullInterviewFlow(t *testing.T) {
	router := newTestRouter()
	id, total := createTestSession(t, router)

	// 当前题目
	w, resp := doJSON(t, router, http.MethodGet, "/api/sessions/"+id+"/question", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get question: status %d", w.Code)
	}
	data := resp.Data.(map[string]interface{})
	if data["completed"] != false || data["question"] == nil {
		t.Fatalf("unexpected question payload: %v", data)
	}

	// 逐题作答直到完成
	for i := 0; i < total; i++ {
		w, resp := doJSON(t, router, http.MethodPost, "/api/sessions/"+id+"/answers", gin.H{
			"text": "In that situation my task was to fix the database index and as a result latency dropped",
		})
		if w.Code != http.StatusOK {
			t.Fatalf("submit #%d: status %d body %s", i+1, w.Code, w.Body.String())
		}

		data := resp.Data.(map[string]interface{})
		if got := int(data["currentIndex"].(float64)); got != i+1 {
			t.Fatalf("after submit #%d currentIndex = %d", i+1, got)
		}
		answer := data["answer"].(map[string]interface{})
		score := answer["score"].(float64)
		if score < 1 || score > 10 {
			t.Fatalf("score %v out of range", score)
		}
		if answer["feedback"] == "" {
			t.Fatal("empty feedback")
		}
		if wantDone := i+1 == total; data["completed"] != wantDone {
			t.Fatalf("after submit #%d completed = %v, want %v", i+1, data["completed"], wantDone)
		}
	}

	// 完成后当前题目为空
	_, resp = doJSON(t, router, http.MethodGet, "/api/sessions/"+id+"/question", nil)
	data = resp.Data.(map[string]interface{})
	if data["completed"] != true || data["question"] != nil {
		t.Fatalf("completed session question payload: %v", data)
	}

	// 再提交应 409
	w, _ = doJSON(t, router, http.MethodPost, "/api/sessions/"+id+"/answers", gin.H{"text": "one more"})
	if w.Code != http.StatusConflict {
		t.Fatalf("submit after completion: status %d, want 409", w.Code)
	}

	// 总结
	w, resp = doJSON(t, router, http.MethodGet, "/api/sessions/"+id+"/summary", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("summary: status %d", w.Code)
	}
	summary := resp.Data.(map[string]interface{})
	if summary["completed"] != true {
		t.Error("summary not completed")
	}
	if got := int(summary["totalAnswered"].(float64)); got != total {
		t.Errorf("totalAnswered = %d, want %d", got, total)
	}
	avg := summary["averageScore"].(float64)
	if avg < 1 || avg > 10 {
		t.Errorf("averageScore %v out of range", avg)
	}
}

func TestCreateSessionValidation(t *testing.T) {
	router := newTestRouter()

	tests := []struct {
		name string
		body gin.H
	}{
		{"missing name", gin.H{"role": "Backend Developer", "experienceLevel": "Junior (1-3 years)"}},
		{"blank name", gin.H{"name": "   ", "role": "Backend Developer", "experienceLevel": "Junior (1-3 years)"}},
		{"missing role", gin.H{"name": "Asha", "experienceLevel": "Junior (1-3 years)"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _ := doJSON(t, router, http.MethodPost, "/api/sessions", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
		})
	}
}

func TestSubmitBlankAnswerRejectedWithoutStateChange(t *testing.T) {
	router := newTestRouter()
	id, _ := createTestSession(t, router)

	w, _ := doJSON(t, router, http.MethodPost, "/api/sessions/"+id+"/answers", gin.H{"text": "   "})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("blank answer: status %d, want 400", w.Code)
	}

	_, resp := doJSON(t, router, http.MethodGet, "/api/sessions/"+id, nil)
	data := resp.Data.(map[string]interface{})
	if got := int(data["currentIndex"].(float64)); got != 0 {
		t.Errorf("currentIndex = %d after rejected answer, want 0", got)
	}
}

func TestUnknownSessionReturns404(t *testing.T) {
	router := newTestRouter()

	paths := []struct {
		method string
		path   string
		body   interface{}
	}{
		{http.MethodGet, "/api/sessions/nope", nil},
		{http.MethodGet, "/api/sessions/nope/question", nil},
		{http.MethodGet, "/api/sessions/nope/summary", nil},
		{http.MethodPost, "/api/sessions/nope/answers", gin.H{"text": "hello there"}},
		{http.MethodDelete, "/api/sessions/nope", nil},
	}

	for _, tt := range paths {
		t.Run(fmt.Sprintf("%s %s", tt.method, tt.path), func(t *testing.T) {
			w, _ := doJSON(t, router, tt.method, tt.path, tt.body)
			if w.Code != http.StatusNotFound {
				t.Errorf("status = %d, want 404", w.Code)
			}
		})
	}
}

func TestDeleteSession(t *testing.T) {
	router := newTestRouter()
	id, _ := createTestSession(t, router)

	w, _ := doJSON(t, router, http.MethodDelete, "/api/sessions/"+id, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete: status %d", w.Code)
	}

	w, _ = doJSON(t, router, http.MethodGet, "/api/sessions/"+id, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("get after delete: status %d, want 404", w.Code)
	}
}
