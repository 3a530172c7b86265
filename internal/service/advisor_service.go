package service

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// maxHistoryTurns bounds the conversation context forwarded to the oracle:
// the last 6 turns, i.e. 3 full exchanges.
const maxHistoryTurns = 6

const advisorFraming = `You are a smart and friendly personal finance advisor.
You have access to the user's real financial data below. Answer questions clearly and helpfully.
Always give specific numbers from the data when relevant.
If asked in Arabic, respond in Arabic. If in English, respond in English.

FINANCIAL DATA:
`

// ChatTurn is one prior message in an advisor conversation.
type ChatTurn struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// AdvisorService answers free-form questions about a user's aggregated
// financial data. It is a thin, bounded-context forwarding layer: a single
// stateless completion per call, the reply returned verbatim.
type AdvisorService struct {
	oracle Completer
	logger *zap.Logger
}

func NewAdvisorService(oracle Completer, logger *zap.Logger) *AdvisorService {
	return &AdvisorService{
		oracle: oracle,
		logger: logger,
	}
}

// Respond builds one prompt from the fixed framing, the supplied financial
// context, the bounded history and the new message, and returns the
// oracle's reply without local validation.
func (s *AdvisorService) Respond(ctx context.Context, userMessage, financialContext string, history []ChatTurn) (string, error) {
	if len(history) > maxHistoryTurns {
		history = history[len(history)-maxHistoryTurns:]
	}

	sections := []string{advisorFraming + financialContext}
	for _, turn := range history {
		prefix := "Assistant"
		if turn.Role == "user" {
			prefix = "User"
		}
		sections = append(sections, prefix+": "+turn.Content)
	}
	sections = append(sections, "User: "+userMessage)

	reply, err := s.oracle.Complete(ctx, strings.Join(sections, "\n\n"))
	if err != nil {
		return "", err
	}

	s.logger.Debug("Advisor reply generated",
		zap.Int("history_turns", len(history)),
		zap.Int("reply_length", len(reply)),
	)
	return reply, nil
}
