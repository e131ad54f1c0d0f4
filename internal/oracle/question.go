package oracle

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/prepvoice/backend/internal/catalog"
)

// recentQuestionWindow is how many previously asked questions are quoted
// back to the model when forbidding repeats.
const recentQuestionWindow = 3

// GenerateQuestion produces the next interview question. The first question
// is always the fixed opener; later questions are generated with the role's
// topic list and the recently asked questions to bias against repeats.
func (c *Client) GenerateQuestion(ctx context.Context, role catalog.Role, exp catalog.Experience, ordinal int, asked []string) (string, error) {
	if ordinal <= 1 {
		return fmt.Sprintf("Tell me about yourself and your experience as a %s.", role.Name), nil
	}

	prompt := questionPrompt(role, exp, ordinal, asked)
	content, err := c.complete(ctx, []chatMessage{{Role: "user", Content: prompt}}, false)
	if err != nil {
		c.logger.Warn("question generation failed", zap.Int("ordinal", ordinal), zap.Error(err))
		return "", fmt.Errorf("generate question: %w", err)
	}

	question := trimQuotes(content)
	if question == "" {
		return "", fmt.Errorf("generate question: empty reply")
	}
	return question, nil
}

// IntroText renders the session greeting. The original system composes this
// locally rather than asking the model, and so do we.
func (c *Client) IntroText(candidateName string, role catalog.Role, exp catalog.Experience, durationMinutes int) string {
	greeting := "Welcome!"
	if candidateName != "" {
		greeting = fmt.Sprintf("Welcome, %s!", candidateName)
	}
	return fmt.Sprintf(
		"%s This is your %d-minute %s interview at %s. I'll ask questions, you answer using your voice. Use headphones to avoid echo. Let's begin!",
		greeting, durationMinutes, role.Name, exp.Name,
	)
}

func questionPrompt(role catalog.Role, exp catalog.Experience, ordinal int, asked []string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are an experienced interviewer conducting a %s interview for a %s candidate.\n\n", role.Name, exp.Name)
	fmt.Fprintf(&b, "Focus areas: %s\n", role.Focus)
	fmt.Fprintf(&b, "Available topics: %s\n", strings.Join(availableTopics(role.Topics, asked), ", "))
	fmt.Fprintf(&b, "Experience level: %s\n", exp.Name)
	fmt.Fprintf(&b, "Question difficulty: %s\n", exp.Difficulty)
	fmt.Fprintf(&b, "This is question #%d of the interview.\n", ordinal)

	if len(asked) > 0 {
		recent := asked
		if len(recent) > recentQuestionWindow {
			recent = recent[len(recent)-recentQuestionWindow:]
		}
		b.WriteString("\nPreviously asked questions:\n")
		for _, q := range recent {
			fmt.Fprintf(&b, "- %s\n", q)
		}
		b.WriteString("\nIMPORTANT: Generate a COMPLETELY DIFFERENT question. Do NOT ask similar or related questions. Choose a NEW topic and angle.\n")
	}

	b.WriteString("\nGenerate ONE interview question that:\n")
	fmt.Fprintf(&b, "1. Is appropriate for %s level (%s)\n", exp.Name, exp.Difficulty)
	fmt.Fprintf(&b, "2. Is relevant to the %s role\n", role.Name)
	b.WriteString("3. Covers ONE of the available topics (pick a DIFFERENT one each time)\n")
	b.WriteString("4. Is clear, direct, and specific\n")
	b.WriteString("5. Would be asked in a real interview\n")
	b.WriteString("6. Is COMPLETELY UNIQUE - must be different from all previously asked questions\n\n")
	b.WriteString("Return ONLY the question, nothing else. Keep it natural and conversational.")

	return b.String()
}

// availableTopics lists topics whose text does not already appear in an
// asked question, capped at five, falling back to the full list when the
// interview has covered everything.
func availableTopics(topics, asked []string) []string {
	var available []string
	for _, topic := range topics {
		covered := false
		for _, q := range asked {
			if strings.Contains(strings.ToLower(q), strings.ToLower(topic)) {
				covered = true
				break
			}
		}
		if !covered {
			available = append(available, topic)
		}
	}
	if len(available) == 0 {
		available = topics
	}
	if len(available) > 5 {
		available = available[:5]
	}
	return available
}
