package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompose_SubstitutesAllVariables(t *testing.T) {
	out, err := Compose("Keywords: {{keywords}}. Summary: {{summary}}.", map[string]string{
		"keywords": "solar, grid",
		"summary":  "early exploration",
	}, []string{"keywords", "summary"})

	assert.NoError(t, err)
	assert.Equal(t, "Keywords: solar, grid. Summary: early exploration.", out)
}

func TestCompose_MissingRequiredVariableFails(t *testing.T) {
	_, err := Compose("{{a}} {{b}}", map[string]string{"a": "x"}, []string{"a", "b"})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "missing prompt variable: b")
}

func TestCompose_EmptyValueSatisfiesRequirement(t *testing.T) {
	out, err := Compose("Summary: {{summary}}.", map[string]string{"summary": ""}, []string{"summary"})

	assert.NoError(t, err)
	assert.Equal(t, "Summary: .", out)
}

func TestCompose_UnresolvedPlaceholderFails(t *testing.T) {
	_, err := Compose("{{known}} {{unknown}}", map[string]string{"known": "x"}, []string{"known"})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unresolved prompt placeholder: {{unknown}}")
}

func TestCompose_RepeatedPlaceholder(t *testing.T) {
	out, err := Compose("{{x}} and {{x}}", map[string]string{"x": "y"}, []string{"x"})

	assert.NoError(t, err)
	assert.Equal(t, "y and y", out)
}

func TestCompose_ValueContainingPlaceholderTextStaysLiteral(t *testing.T) {
	out, err := Compose("{{a}}-{{b}}", map[string]string{
		"a": "{{b}}",
		"b": "y",
	}, []string{"a", "b"})

	assert.NoError(t, err)
	assert.Equal(t, "{{b}}-y", out)
}

func TestCompose_BracesInValueAreNotAnUnresolvedPlaceholder(t *testing.T) {
	out, err := Compose("msg: {{a}}", map[string]string{
		"a": "use {{curly}} syntax",
	}, []string{"a"})

	assert.NoError(t, err)
	assert.Equal(t, "msg: use {{curly}} syntax", out)
}

func TestCompose_TrimsResult(t *testing.T) {
	out, err := Compose("  {{x}}  \n", map[string]string{"x": "value"}, []string{"x"})

	assert.NoError(t, err)
	assert.Equal(t, "value", out)
}
