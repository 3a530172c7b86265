package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAdvisorRespondPromptLayout(t *testing.T) {
	oracle := &fakeOracle{completeResponses: []string{"You spent 500 SEK on food."}}
	svc := NewAdvisorService(oracle, zap.NewNop())

	history := []ChatTurn{
		{Role: "user", Content: "How much did I spend?"},
		{Role: "assistant", Content: "About 500 SEK."},
	}

	reply, err := svc.Respond(context.Background(), "And on what?", "Total expenses: 500 SEK", history)
	require.NoError(t, err)
	assert.Equal(t, "You spent 500 SEK on food.", reply)

	require.Len(t, oracle.prompts, 1)
	prompt := oracle.prompts[0]

	assert.Contains(t, prompt, "FINANCIAL DATA:")
	assert.Contains(t, prompt, "Total expenses: 500 SEK")
	assert.Contains(t, prompt, "User: How much did I spend?")
	assert.Contains(t, prompt, "Assistant: About 500 SEK.")
	assert.True(t, strings.HasSuffix(prompt, "User: And on what?"))

	// The framing precedes the history.
	assert.Less(t, strings.Index(prompt, "FINANCIAL DATA:"), strings.Index(prompt, "User: How much"))
}

func TestAdvisorRespondBoundsHistory(t *testing.T) {
	oracle := &fakeOracle{completeResponses: []string{"ok"}}
	svc := NewAdvisorService(oracle, zap.NewNop())

	var history []ChatTurn
	for i := 0; i < 10; i++ {
		history = append(history, ChatTurn{Role: "user", Content: fmt.Sprintf("turn-%d", i)})
	}

	_, err := svc.Respond(context.Background(), "latest", "", history)
	require.NoError(t, err)

	prompt := oracle.prompts[0]
	assert.NotContains(t, prompt, "turn-3")
	assert.Contains(t, prompt, "turn-4")
	assert.Contains(t, prompt, "turn-9")
}

func TestAdvisorRespondOracleError(t *testing.T) {
	oracle := &fakeOracle{completeErr: fmt.Errorf("%w: down", ErrOracle)}
	svc := NewAdvisorService(oracle, zap.NewNop())

	_, err := svc.Respond(context.Background(), "hi", "", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOracle))
}
