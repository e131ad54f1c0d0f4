package oracle

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prepvoice/backend/internal/catalog"
)

var (
	testRole = catalog.Role{
		Key:    "1",
		Name:   "Software Engineer",
		Focus:  "algorithms, system design",
		Topics: []string{"Data Structures", "Algorithms", "System Design"},
	}
	testExp = catalog.Experience{Key: "2", Name: "Mid-Level", Difficulty: "medium"}
)

// completionServer serves the chat-completions shape with a fixed reply and
// records the prompt it received.
func completionServer(t *testing.T, content string, gotPrompt *string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("authorization header: %q", got)
		}
		var req struct {
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if gotPrompt != nil && len(req.Messages) > 0 {
			*gotPrompt = req.Messages[0].Content
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": content}},
			},
		})
	}))
}

func testClient(baseURL string) *Client {
	return NewClient(Config{APIKey: "test-key", Model: "test-model", BaseURL: baseURL, MaxTokens: 500}, nil)
}

func TestGenerateQuestionFirstIsFixedOpener(t *testing.T) {
	// No server: the opener must not hit the network.
	c := testClient("http://127.0.0.1:0")

	q, err := c.GenerateQuestion(context.Background(), testRole, testExp, 1, nil)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	want := "Tell me about yourself and your experience as a Software Engineer."
	if q != want {
		t.Fatalf("got %q, want %q", q, want)
	}
}

func TestGenerateQuestionLaterUsesOracle(t *testing.T) {
	var prompt string
	srv := completionServer(t, `"What is a goroutine?"`, &prompt)
	defer srv.Close()
	c := testClient(srv.URL)

	asked := []string{"Tell me about yourself and your experience as a Software Engineer."}
	q, err := c.GenerateQuestion(context.Background(), testRole, testExp, 2, asked)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if q != "What is a goroutine?" {
		t.Fatalf("quotes not trimmed: %q", q)
	}
	if !strings.Contains(prompt, asked[0]) {
		t.Error("prompt does not quote the previously asked question")
	}
	if !strings.Contains(prompt, "question #2") {
		t.Error("prompt does not carry the ordinal")
	}
}

func TestGenerateQuestionOracleError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()
	c := testClient(srv.URL)

	if _, err := c.GenerateQuestion(context.Background(), testRole, testExp, 2, nil); err == nil {
		t.Fatal("expected an error")
	}
}

func TestGenerateQuestionEmptyReply(t *testing.T) {
	srv := completionServer(t, `""`, nil)
	defer srv.Close()
	c := testClient(srv.URL)

	if _, err := c.GenerateQuestion(context.Background(), testRole, testExp, 2, nil); err == nil {
		t.Fatal("expected an error for an empty reply")
	}
}

func TestEvaluateParsesReply(t *testing.T) {
	content := `{"score": 7.5, "strengths": ["clear"], "weaknesses": ["brief"], "tip": "add an example", "reply": "Good answer."}`
	srv := completionServer(t, content, nil)
	defer srv.Close()
	c := testClient(srv.URL)

	eval, err := c.Evaluate(context.Background(), "Q", "A", testRole, testExp, 1)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if eval.Score != 7.5 || eval.Reply != "Good answer." || eval.Tip != "add an example" {
		t.Fatalf("evaluation: %+v", eval)
	}
}

func TestEvaluateStripsCodeFences(t *testing.T) {
	content := "```json\n{\"score\": 6, \"reply\": \"Fine.\"}\n```"
	srv := completionServer(t, content, nil)
	defer srv.Close()
	c := testClient(srv.URL)

	eval, err := c.Evaluate(context.Background(), "Q", "A", testRole, testExp, 1)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if eval.Score != 6 {
		t.Fatalf("score: %v", eval.Score)
	}
}

func TestEvaluateClampsScore(t *testing.T) {
	srv := completionServer(t, `{"score": 14, "reply": "x"}`, nil)
	defer srv.Close()
	c := testClient(srv.URL)

	eval, err := c.Evaluate(context.Background(), "Q", "A", testRole, testExp, 1)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if eval.Score != 10 {
		t.Fatalf("score not clamped: %v", eval.Score)
	}
}

func TestEvaluateMalformedReply(t *testing.T) {
	srv := completionServer(t, "not json at all", nil)
	defer srv.Close()
	c := testClient(srv.URL)

	if _, err := c.Evaluate(context.Background(), "Q", "A", testRole, testExp, 1); err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestSummarizeStripsMarkdown(t *testing.T) {
	srv := completionServer(t, "## Overall\n**Good** performance.", nil)
	defer srv.Close()
	c := testClient(srv.URL)

	text, err := c.Summarize(context.Background(), nil, testRole, testExp)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if strings.ContainsAny(text, "#*") {
		t.Fatalf("markdown survived: %q", text)
	}
}

func TestCompleteReportsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{"message": "model overloaded", "type": "server_error"},
		})
	}))
	defer srv.Close()
	c := testClient(srv.URL)

	_, err := c.GenerateQuestion(context.Background(), testRole, testExp, 2, nil)
	if err == nil || !strings.Contains(err.Error(), "model overloaded") {
		t.Fatalf("got %v", err)
	}
}

func TestIntroText(t *testing.T) {
	c := testClient("")

	got := c.IntroText("Alex", testRole, testExp, 5)
	if !strings.HasPrefix(got, "Welcome, Alex!") {
		t.Errorf("greeting: %q", got)
	}
	if !strings.Contains(got, "5-minute Software Engineer interview at Mid-Level") {
		t.Errorf("intro body: %q", got)
	}

	anon := c.IntroText("", testRole, testExp, 5)
	if !strings.HasPrefix(anon, "Welcome!") {
		t.Errorf("anonymous greeting: %q", anon)
	}
}

func TestAvailableTopics(t *testing.T) {
	topics := []string{"Data Structures", "Algorithms", "System Design"}

	got := availableTopics(topics, []string{"Explain common data structures."})
	for _, topic := range got {
		if topic == "Data Structures" {
			t.Fatal("covered topic still offered")
		}
	}

	// All topics covered: fall back to the full list.
	asked := []string{"data structures", "algorithms", "system design"}
	if got := availableTopics(topics, asked); len(got) != len(topics) {
		t.Fatalf("fallback list: %v", got)
	}
}
