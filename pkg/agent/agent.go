package agent

import (
	"context"
	"fmt"

	"auraflux-be/internal/constant"
	"auraflux-be/pkg/llm"
	"auraflux-be/pkg/prompt"
)

// Agent runs a registered role against the configured LLM backend. The
// role's system template is composed with the caller's variables and
// prepended to the dialogue history.
type Agent struct {
	provider llm.LLMProvider
}

func NewAgent(provider llm.LLMProvider) *Agent {
	return &Agent{provider: provider}
}

func (a *Agent) buildHistory(roleName string, vars map[string]string, history []llm.Message) ([]llm.Message, []llm.Option, error) {
	role, err := constant.ResolveAgentRole(roleName)
	if err != nil {
		return nil, nil, err
	}

	systemPrompt, err := prompt.Compose(role.SystemTemplate, vars, role.RequiredVars)
	if err != nil {
		return nil, nil, fmt.Errorf("compose %s prompt: %w", roleName, err)
	}

	messages := make([]llm.Message, 0, len(history)+1)
	messages = append(messages, llm.Message{Role: "system", Content: systemPrompt})
	messages = append(messages, history...)

	var opts []llm.Option
	if role.Model != "" {
		opts = append(opts, llm.WithModel(role.Model))
	}
	return messages, opts, nil
}

// Run executes the role and blocks for the full response.
func (a *Agent) Run(ctx context.Context, roleName string, vars map[string]string, history []llm.Message) (string, error) {
	messages, opts, err := a.buildHistory(roleName, vars, history)
	if err != nil {
		return "", err
	}
	return a.provider.Chat(ctx, messages, opts...)
}

// RunStream executes the role and returns the incremental fragment stream.
func (a *Agent) RunStream(ctx context.Context, roleName string, vars map[string]string, history []llm.Message) (llm.Stream, error) {
	messages, opts, err := a.buildHistory(roleName, vars, history)
	if err != nil {
		return nil, err
	}
	return a.provider.ChatStream(ctx, messages, opts...)
}
