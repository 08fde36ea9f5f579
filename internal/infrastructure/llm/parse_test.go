package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"NewsCollector/internal/domain"
)

func TestParseVerdictsFromProse(t *testing.T) {
	t.Parallel()

	text := "Sure, here you go:\n```json\n" + `[
  {"id": "a", "agentCategory": "launch", "agentScore": 87, "whyItMatters": " New flagship model. ", "action": "Try it"},
  {"id": 42, "category": "TOOL", "score": "64", "whyItMatters": "SDK update"},
  {"id": "", "agentCategory": "TOOL", "agentScore": 10, "whyItMatters": "no id"},
  {"id": "c", "agentCategory": "TOOL", "agentScore": "high", "whyItMatters": "bad score"},
  "garbage"
]` + "\n```\nLet me know if you need more."

	verdicts, err := ParseVerdicts(text)
	require.NoError(t, err)
	require.Len(t, verdicts, 2)

	assert.Equal(t, domain.Verdict{
		ID:            "a",
		AgentCategory: domain.AgentLaunch,
		AgentScore:    87,
		WhyItMatters:  "New flagship model.",
		Action:        "Try it",
	}, verdicts[0])
	assert.Equal(t, "42", verdicts[1].ID)
	assert.Equal(t, domain.AgentTool, verdicts[1].AgentCategory)
	assert.Equal(t, 64, verdicts[1].AgentScore)
}

func TestParseVerdictsUnknownCategoryFailsValidation(t *testing.T) {
	t.Parallel()

	verdicts, err := ParseVerdicts(`[{"id":"x","agentCategory":"MEME","agentScore":50,"whyItMatters":"w"}]`)
	require.NoError(t, err)
	require.Len(t, verdicts, 1)
	assert.Error(t, verdicts[0].Validate())
}

func TestParseVerdictsErrors(t *testing.T) {
	t.Parallel()

	for name, text := range map[string]string{
		"no array":     "I could not classify these items.",
		"broken array": `[{"id": "a", "agentScore": }]`,
		"reversed":     "] nothing [",
	} {
		_, err := ParseVerdicts(text)
		assert.ErrorIs(t, err, domain.ErrClassificationParse, name)
	}
}
