package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"NewsCollector/internal/domain"
)

type rawVerdict struct {
	ID            json.RawMessage `json:"id"`
	AgentCategory string          `json:"agentCategory"`
	Category      string          `json:"category"`
	AgentScore    json.Number     `json:"agentScore"`
	Score         json.Number     `json:"score"`
	WhyItMatters  string          `json:"whyItMatters"`
	Action        string          `json:"action"`
}

// ParseVerdicts extracts the JSON array from free-form model output. Entries that
// do not decode are skipped; the caller treats their items as failed. Only a
// response with no decodable array at all is an error.
func ParseVerdicts(text string) ([]domain.Verdict, error) {
	start := strings.IndexByte(text, '[')
	end := strings.LastIndexByte(text, ']')
	if start < 0 || end <= start {
		return nil, fmt.Errorf("%w: no json array in response", domain.ErrClassificationParse)
	}

	var entries []json.RawMessage
	if err := json.Unmarshal([]byte(text[start:end+1]), &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrClassificationParse, err)
	}

	verdicts := make([]domain.Verdict, 0, len(entries))
	for _, entry := range entries {
		v, ok := DecodeVerdict(entry)
		if ok {
			verdicts = append(verdicts, v)
		}
	}
	return verdicts, nil
}

// DecodeVerdict decodes one verdict object, reporting false when it cannot be read.
func DecodeVerdict(entry json.RawMessage) (domain.Verdict, bool) {
	var raw rawVerdict
	if err := json.Unmarshal(entry, &raw); err != nil {
		return domain.Verdict{}, false
	}
	id := decodeID(raw.ID)
	if id == "" {
		return domain.Verdict{}, false
	}

	category := raw.AgentCategory
	if category == "" {
		category = raw.Category
	}
	parsed, _ := domain.ParseAgentCategory(category)

	score := raw.AgentScore
	if score == "" {
		score = raw.Score
	}
	n, err := score.Float64()
	if err != nil {
		return domain.Verdict{}, false
	}

	return domain.Verdict{
		ID:            id,
		AgentCategory: parsed,
		AgentScore:    int(n + 0.5),
		WhyItMatters:  strings.TrimSpace(raw.WhyItMatters),
		Action:        strings.TrimSpace(raw.Action),
	}, true
}

func decodeID(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}
