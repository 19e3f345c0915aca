package gemini

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Dan9191/cashflow-service/internal/service"
	jsonrepair "github.com/RealAlexandreAI/json-repair"
)

// decodeJSON parses an LLM answer into v, repairing common formatting
// mistakes before giving up.
func decodeJSON(raw string, v interface{}) error {
	clean := strings.ReplaceAll(raw, "```json", "")
	clean = strings.ReplaceAll(clean, "```", "")
	clean = strings.TrimSpace(clean)
	if clean == "" {
		return fmt.Errorf("%w: empty response", service.ErrMalformedEnhancement)
	}
	if !strings.Contains(clean, "{") {
		return fmt.Errorf("%w: no JSON object in response", service.ErrMalformedEnhancement)
	}

	if err := json.Unmarshal([]byte(clean), v); err == nil {
		return nil
	}

	repaired, err := jsonrepair.RepairJSON(clean)
	if err != nil {
		return fmt.Errorf("%w: %v", service.ErrMalformedEnhancement, err)
	}
	if err := json.Unmarshal([]byte(repaired), v); err != nil {
		return fmt.Errorf("%w: %v", service.ErrMalformedEnhancement, err)
	}
	return nil
}
