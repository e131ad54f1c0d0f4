package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/prepvoice/backend/internal/catalog"
	"github.com/prepvoice/backend/internal/models"
)

type evaluationReply struct {
	Score      float64  `json:"score"`
	Strengths  []string `json:"strengths"`
	Weaknesses []string `json:"weaknesses"`
	Tip        string   `json:"tip"`
	Reply      string   `json:"reply"`
}

// Evaluate scores one answer and produces the structured critique plus the
// short conversational reply spoken back to the candidate.
func (c *Client) Evaluate(ctx context.Context, question, answer string, role catalog.Role, exp catalog.Experience, ordinal int) (models.Evaluation, error) {
	prompt := evaluationPrompt(question, answer, role, exp, ordinal)
	content, err := c.complete(ctx, []chatMessage{{Role: "user", Content: prompt}}, true)
	if err != nil {
		return models.Evaluation{}, fmt.Errorf("evaluate answer: %w", err)
	}

	var reply evaluationReply
	if err := json.Unmarshal([]byte(cleanJSON(content)), &reply); err != nil {
		c.logger.Warn("evaluation reply not parseable", zap.Int("ordinal", ordinal), zap.Error(err))
		return models.Evaluation{}, fmt.Errorf("parse evaluation: %w", err)
	}

	return models.Evaluation{
		Score:      clampScore(reply.Score),
		Strengths:  reply.Strengths,
		Weaknesses: reply.Weaknesses,
		Tip:        reply.Tip,
		Reply:      trimQuotes(reply.Reply),
	}, nil
}

// Summarize produces the plain-text final feedback over the whole session.
func (c *Client) Summarize(ctx context.Context, turns []models.Turn, role catalog.Role, exp catalog.Experience) (string, error) {
	prompt := summaryPrompt(turns, role, exp)
	content, err := c.complete(ctx, []chatMessage{{Role: "user", Content: prompt}}, false)
	if err != nil {
		return "", fmt.Errorf("summarize interview: %w", err)
	}
	return cleanPlainText(content), nil
}

func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 10 {
		return 10
	}
	return score
}

func evaluationPrompt(question, answer string, role catalog.Role, exp catalog.Experience, ordinal int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are an expert interview coach evaluating a candidate's response for a %s position at %s level.\n\n", role.Name, exp.Name)
	fmt.Fprintf(&b, "This is question #%d.\n", ordinal)
	fmt.Fprintf(&b, "Question: %s\n", question)
	fmt.Fprintf(&b, "Answer: %s\n\n", answer)

	b.WriteString("Provide a brief evaluation in JSON format:\n")
	b.WriteString(`{
  "score": 7,
  "strengths": ["strength1", "strength2"],
  "weaknesses": ["weakness1", "weakness2"],
  "tip": "one specific improvement tip",
  "reply": "1-2 sentence spoken reply to the candidate"
}`)
	b.WriteString("\n\nScore from 0-10. Be constructive but honest.\n")
	b.WriteString("The reply is read aloud to the candidate: mix one short positive observation with one short improvement point. ")
	b.WriteString("If the answer is far off-topic say so clearly but respectfully. Do not overpraise and do not write a long paragraph.")

	return b.String()
}

func summaryPrompt(turns []models.Turn, role catalog.Role, exp catalog.Experience) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are an expert interview coach providing final feedback for a %s interview at %s level.\n\n", role.Name, exp.Name)
	b.WriteString("Interview Summary:\n")
	for _, t := range turns {
		fmt.Fprintf(&b, "Q: %s\nA: %s\nScore: %.1f/10\n", t.Question, t.Answer, t.Score)
	}

	b.WriteString("\nProvide comprehensive feedback in PLAIN TEXT format (NO markdown, NO asterisks, NO special formatting):\n\n")
	b.WriteString("1. Overall Performance (2-3 sentences)\n")
	b.WriteString("2. Key Strengths (list 2-3 points, use simple dashes)\n")
	b.WriteString("3. Areas for Improvement (list 2-3 specific points, use simple dashes)\n")
	b.WriteString("4. Communication Style Assessment (1-2 sentences)\n")
	b.WriteString("5. Final Recommendation (what to focus on for next interview)\n\n")
	b.WriteString("Use line breaks for sections and simple dashes (-) for lists. Be encouraging but honest.")

	return b.String()
}
