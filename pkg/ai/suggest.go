package ai

import (
	"context"
	"encoding/json"
	"fmt"
)

const suggestSystemPrompt = `You generate search suggestions for a grocery price-comparison tool.

Given a query, produce up to 5 alternatives worth searching:
- Alternative product names
- Different quantities or units
- Common brand variations
- Closely related products

Return ONLY JSON following this schema:
{"suggestions": ["string", "string"]}`

// Suggestions asks the collaborator for alternative queries. Callers fall
// back to the original query on failure.
func (c *Client) Suggestions(ctx context.Context, query string) ([]string, error) {
	payload, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return nil, err
	}

	content, err := c.complete(ctx, suggestSystemPrompt, string(payload))
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Suggestions []string `json:"suggestions"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, fmt.Errorf("unable to parse suggestions response: %w", err)
	}

	out := make([]string, 0, len(parsed.Suggestions))
	for _, s := range parsed.Suggestions {
		if s != "" && len(out) < 5 {
			out = append(out, s)
		}
	}
	return out, nil
}
