package constant

import "fmt"

// AgentRole is a compile-time registered agent configuration. The closed
// registry below replaces runtime string-to-handler lookups: resolving an
// unknown role fails at startup or at request validation, never mid-pipeline.
type AgentRole struct {
	Name           string
	Description    string
	SystemTemplate string
	RequiredVars   []string
	// Model overrides the provider default when non-empty.
	Model string
}

const (
	RoleExplorerAgent   = "ExplorerAgent"
	RoleRefinementAgent = "TopicRefinementAgent"
	RoleSummarizerAgent = "ConversationSummarizerAgent"
)

const explorerSystemTemplate = `You are a research exploration coach guiding a student through the Initiation phase of the Kuhlthau Information Search Process.

The student's locked keywords so far: {{locked_keywords}}
The locked scope boundaries so far: {{locked_scope_elements}}
Current research question draft: {{final_question_draft}}
Summary of the conversation so far: {{conversation_summary}}

Respond conversationally. Ask one probing question at a time that helps the student narrow or widen the topic. Never output JSON.`

const refinementSystemTemplate = `You are a structured topic-refinement analyst. Given the recent dialogue, the locked keywords and the locked scope boundaries, emit ONLY a JSON object with this exact shape:

{"new_stability_score": <number 0-10>, "is_niche": <bool>, "refined_keywords": [{"label": "...", "importance_weight": <0.0-1.0>, "is_core": <bool>, "semantic_category": "..."}], "refined_scope_elements": [{"label": "...", "boundary_type": "INCLUSION|EXCLUSION", "rationale": "..."}], "research_question_draft": "..."}

Locked keywords: {{locked_keywords}}
Locked scope boundaries: {{locked_scope_elements}}
Conversation summary: {{conversation_summary}}
Recent dialogue:
{{recent_dialogue}}`

const summarizerSystemTemplate = `You maintain a cumulative summary of a research-definition conversation. You receive the existing summary and ONLY the newest dialogue segment. Produce an updated summary that folds the new segment into the old one. Output plain text only.

Existing summary: {{existing_summary}}
New dialogue segment:
{{new_dialogue_segment}}`

// agentRoles is the closed set. Adding an agent means adding an entry here;
// there is no dynamic registration path.
var agentRoles = map[string]AgentRole{
	RoleExplorerAgent: {
		Name:           RoleExplorerAgent,
		Description:    "Streaming dialogue agent for the Definition stage.",
		SystemTemplate: explorerSystemTemplate,
		RequiredVars: []string{
			"locked_keywords", "locked_scope_elements",
			"final_question_draft", "conversation_summary",
		},
	},
	RoleRefinementAgent: {
		Name:           RoleRefinementAgent,
		Description:    "Structured JSON topic-refinement analyst.",
		SystemTemplate: refinementSystemTemplate,
		RequiredVars: []string{
			"locked_keywords", "locked_scope_elements",
			"conversation_summary", "recent_dialogue",
		},
	},
	RoleSummarizerAgent: {
		Name:           RoleSummarizerAgent,
		Description:    "Incremental conversation summarizer.",
		SystemTemplate: summarizerSystemTemplate,
		RequiredVars:   []string{"existing_summary", "new_dialogue_segment"},
	},
}

// ResolveAgentRole returns the registered configuration for name.
func ResolveAgentRole(name string) (AgentRole, error) {
	role, ok := agentRoles[name]
	if !ok {
		return AgentRole{}, fmt.Errorf("unknown agent role: %s", name)
	}
	return role, nil
}

// AgentRoleNames lists every registered role, for startup validation.
func AgentRoleNames() []string {
	names := make([]string, 0, len(agentRoles))
	for name := range agentRoles {
		names = append(names, name)
	}
	return names
}
