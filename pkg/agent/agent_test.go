package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auraflux-be/internal/constant"
	"auraflux-be/pkg/llm"
)

type recordingProvider struct {
	lastHistory []llm.Message
	response    string
}

func (p *recordingProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	p.lastHistory = history
	return p.response, nil
}

func (p *recordingProvider) ChatStream(ctx context.Context, history []llm.Message, options ...llm.Option) (llm.Stream, error) {
	p.lastHistory = history
	return nil, nil
}

func (p *recordingProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return p.response, nil
}

func TestRunComposesSystemPromptAndHistory(t *testing.T) {
	provider := &recordingProvider{response: "What time period matters to you?"}
	ag := NewAgent(provider)

	history := []llm.Message{
		{Role: "user", Content: "I want to research renewable energy."},
	}
	vars := map[string]string{
		"locked_keywords":       "renewable energy",
		"locked_scope_elements": "Label [INCLUSION]: solar only",
		"final_question_draft":  "",
		"conversation_summary":  "Early exploration.",
	}

	out, err := ag.Run(context.Background(), constant.RoleExplorerAgent, vars, history)
	require.NoError(t, err)
	assert.Equal(t, "What time period matters to you?", out)

	require.Len(t, provider.lastHistory, 2)
	system := provider.lastHistory[0]
	assert.Equal(t, "system", system.Role)
	assert.Contains(t, system.Content, "renewable energy")
	assert.Contains(t, system.Content, "solar only")
	assert.NotContains(t, system.Content, "{{")
	assert.Equal(t, history[0], provider.lastHistory[1])
}

func TestRunRejectsUnknownRole(t *testing.T) {
	ag := NewAgent(&recordingProvider{})

	_, err := ag.Run(context.Background(), "NoSuchAgent", nil, nil)
	require.Error(t, err)
}

func TestRunRejectsMissingRequiredVar(t *testing.T) {
	ag := NewAgent(&recordingProvider{})

	_, err := ag.Run(context.Background(), constant.RoleSummarizerAgent, map[string]string{
		"existing_summary": "so far so good",
		// new_dialogue_segment missing
	}, nil)
	require.Error(t, err)
}
