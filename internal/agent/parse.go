package agent

import (
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/eval-cli/internal/model"
)

// ParseProfile extracts a CompanyProfile from raw model output. The
// output may wrap the JSON object in markdown fences or prose; the
// first-to-last-brace slice is taken before unmarshalling.
func ParseProfile(text string) (*model.CompanyProfile, error) {
	cleaned := cleanJSON(text)
	if cleaned == "" {
		return nil, eris.New("agent: empty model output")
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(cleaned), &fields); err != nil {
		return nil, eris.Wrap(err, "agent: parse profile JSON")
	}

	return &model.CompanyProfile{Fields: fields}, nil
}

// cleanJSON strips markdown code fences and surrounding prose from
// model output, leaving the outermost JSON object.
func cleanJSON(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		text = text[start : end+1]
	}

	return strings.TrimSpace(text)
}
