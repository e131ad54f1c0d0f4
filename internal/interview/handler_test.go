package interview

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/prepvoice/backend/internal/catalog"
	"github.com/prepvoice/backend/internal/models"
	"github.com/prepvoice/backend/internal/report"
	"github.com/prepvoice/backend/internal/session"
	"github.com/prepvoice/backend/pkg/response"
)

func newTestRouter(t *testing.T, oracle *fakeOracle) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := session.NewMemoryStore(time.Minute)
	t.Cleanup(func() { store.Close() })

	svc := NewService(
		store, oracle, oracle, report.NewAggregator(oracle, nil),
		&fakeOutput{}, &fakeCapture{transcript: "spoken answer"}, catalog.Default(), nil,
		2*time.Second, nil,
	)
	router := gin.New()
	NewHandler(svc, catalog.Default(), nil).Register(router)
	return router
}

func post(t *testing.T, router *gin.Engine, path string, payload interface{}) (*httptest.ResponseRecorder, response.Body) {
	t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	var body response.Body
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return w, body
}

func dataField(t *testing.T, body response.Body, key string) interface{} {
	t.Helper()
	data, ok := body.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("data is %T", body.Data)
	}
	return data[key]
}

func startSession(t *testing.T, router *gin.Engine) string {
	t.Helper()
	w, body := post(t, router, "/api/start-interview", gin.H{
		"role": "1", "experience": "2", "duration_minutes": 5, "candidate_name": "Alex",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("start status: %d body %s", w.Code, w.Body.String())
	}
	id, _ := dataField(t, body, "session_id").(string)
	if id == "" {
		t.Fatal("no session id in start response")
	}
	return id
}

func TestRolesEndpoint(t *testing.T) {
	router := newTestRouter(t, &fakeOracle{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/roles", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status: %d", w.Code)
	}

	var body response.Body
	json.Unmarshal(w.Body.Bytes(), &body)
	data, ok := body.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("data: %T", body.Data)
	}
	if roles, ok := data["roles"].([]interface{}); !ok || len(roles) == 0 {
		t.Fatalf("roles: %+v", data["roles"])
	}
}

func TestStartDefaults(t *testing.T) {
	router := newTestRouter(t, &fakeOracle{})

	// Empty body: role, experience, and duration all fall back to defaults.
	w, body := post(t, router, "/api/start-interview", gin.H{})
	if w.Code != http.StatusOK {
		t.Fatalf("status: %d", w.Code)
	}
	if got := dataField(t, body, "duration_minutes"); got != float64(5) {
		t.Errorf("default duration: %v", got)
	}
	if got := dataField(t, body, "role_name"); got != "Software Engineer" {
		t.Errorf("default role: %v", got)
	}
	if got, _ := dataField(t, body, "intro_text").(string); got == "" {
		t.Error("no intro text")
	}
}

func TestGetQuestionFlow(t *testing.T) {
	router := newTestRouter(t, &fakeOracle{questions: []string{"Describe an index."}})
	id := startSession(t, router)

	w, body := post(t, router, "/api/get-question", gin.H{"session_id": id})
	if w.Code != http.StatusOK {
		t.Fatalf("status: %d body %s", w.Code, w.Body.String())
	}
	if got := dataField(t, body, "question_number"); got != float64(1) {
		t.Errorf("question number: %v", got)
	}
	if got, _ := dataField(t, body, "question").(string); got == "" {
		t.Error("empty question")
	}
}

func TestGetQuestionUnknownSession(t *testing.T) {
	router := newTestRouter(t, &fakeOracle{})

	w, body := post(t, router, "/api/get-question", gin.H{"session_id": "missing"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("status: %d", w.Code)
	}
	if body.Message != "Session not found" {
		t.Errorf("message: %q", body.Message)
	}
}

func TestGetQuestionMissingSessionID(t *testing.T) {
	router := newTestRouter(t, &fakeOracle{})

	w, _ := post(t, router, "/api/get-question", gin.H{})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status: %d", w.Code)
	}
}

func TestGetQuestionOracleDown(t *testing.T) {
	router := newTestRouter(t, &fakeOracle{fail: true})
	id := startSession(t, router)

	w, body := post(t, router, "/api/get-question", gin.H{"session_id": id})
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status: %d", w.Code)
	}
	if body.Message != "AI service unavailable, please retry" {
		t.Errorf("message: %q", body.Message)
	}
}

func TestConversationalResponseOnlyReturnsReply(t *testing.T) {
	oracle := &fakeOracle{
		evaluations: map[string]models.Evaluation{
			"my answer": {Score: 7, Strengths: []string{"clear"}, Tip: "secret tip", Reply: "Nice."},
		},
	}
	router := newTestRouter(t, oracle)
	id := startSession(t, router)
	post(t, router, "/api/get-question", gin.H{"session_id": id})

	w, body := post(t, router, "/api/conversational-response", gin.H{
		"session_id": id, "answer": "my answer", "question_num": 1,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status: %d body %s", w.Code, w.Body.String())
	}
	if got := dataField(t, body, "response"); got != "Nice." {
		t.Errorf("reply: %v", got)
	}

	// Scores and feedback stay server-side until the report.
	data := body.Data.(map[string]interface{})
	for _, key := range []string{"score", "feedback", "strengths", "tip"} {
		if _, leaked := data[key]; leaked {
			t.Errorf("evaluation field %q leaked to the client", key)
		}
	}
}

func TestSaveAnswerConflictWithoutQuestion(t *testing.T) {
	router := newTestRouter(t, &fakeOracle{})
	id := startSession(t, router)

	w, body := post(t, router, "/api/save-answer", gin.H{
		"session_id": id, "question": "never asked", "answer": "a",
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("status: %d", w.Code)
	}
	if body.Success {
		t.Error("conflict reported as success")
	}
}

func TestCompleteInterviewReturnsReport(t *testing.T) {
	oracle := &fakeOracle{
		evaluations: map[string]models.Evaluation{"my answer": {Score: 8, Reply: "Good."}},
		summary:     "Solid overall.",
	}
	router := newTestRouter(t, oracle)
	id := startSession(t, router)

	_, qBody := post(t, router, "/api/get-question", gin.H{"session_id": id})
	question := dataField(t, qBody, "question").(string)
	post(t, router, "/api/save-answer", gin.H{"session_id": id, "question": question, "answer": "my answer"})

	w, body := post(t, router, "/api/complete-interview", gin.H{"session_id": id})
	if w.Code != http.StatusOK {
		t.Fatalf("status: %d body %s", w.Code, w.Body.String())
	}
	rep, ok := dataField(t, body, "report").(map[string]interface{})
	if !ok {
		t.Fatalf("report: %T", dataField(t, body, "report"))
	}
	if rep["avg_score"] != float64(8) {
		t.Errorf("avg_score: %v", rep["avg_score"])
	}
	if rep["total_questions"] != float64(1) {
		t.Errorf("total_questions: %v", rep["total_questions"])
	}
	if rep["final_feedback"] != "Solid overall." {
		t.Errorf("final_feedback: %v", rep["final_feedback"])
	}

	// The session is now closed to further operations.
	w, body = post(t, router, "/api/get-question", gin.H{"session_id": id})
	if w.Code != http.StatusNotFound || body.Message != "Session is closed" {
		t.Fatalf("post-completion question: %d %q", w.Code, body.Message)
	}
}

func TestStopSpeechAlwaysOK(t *testing.T) {
	router := newTestRouter(t, &fakeOracle{})

	w, body := post(t, router, "/api/stop-speech", gin.H{"session_id": "whatever"})
	if w.Code != http.StatusOK {
		t.Fatalf("status: %d", w.Code)
	}
	if got := dataField(t, body, "stopped"); got != true {
		t.Errorf("stopped: %v", got)
	}
}
