package agent

import (
	"fmt"
	"strings"
)

// Default models per provider. Overridable through
// BackendConfig.ConnectionParams["model"].
const (
	defaultClaudeModel     = "claude-haiku-4-5-20251001"
	defaultPerplexityModel = "sonar-pro"

	extractMaxTokens = 2048
)

// systemPrompt is the shared instruction for structured profile
// extraction.
const systemPrompt = `You are a company research analyst. You build structured profiles of companies from web research context.

Rules:
- Answer ONLY based on information present in the provided research context
- Return a single valid JSON object and nothing else
- Use null for any field you cannot determine from the context
- For numerical values, use raw numbers without formatting (e.g., 1000000 not "1,000,000")
- For lists, return JSON arrays of strings
- Be precise and factual`

// searchPrompt asks a search-capable model for research context about
// the subject.
func searchPrompt(subject string) string {
	return fmt.Sprintf(`Research the company %q. Report everything you can find about: what the company does, its products and services, industry, headquarters location, founding year, employee count, funding, and website. Cite concrete facts.`, subject)
}

// extractPrompt asks for the structured profile given research context.
// fields lists the profile keys the caller cares about; missing lists
// the subset still unresolved from earlier iterations.
func extractPrompt(subject string, fields, missing []string, research string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Build a JSON profile of the company %q with exactly these fields:\n", subject)
	for _, f := range fields {
		fmt.Fprintf(&sb, "- %s\n", f)
	}

	if len(missing) > 0 && len(missing) < len(fields) {
		sb.WriteString("\nThe following fields are still unresolved; focus on them:\n")
		for _, f := range missing {
			fmt.Fprintf(&sb, "- %s\n", f)
		}
	}

	sb.WriteString("\n--- Research Context ---\n")
	sb.WriteString(research)
	sb.WriteString("\n\nReturn only the JSON object.")
	return sb.String()
}

// refinePrompt asks the search model to dig deeper on unresolved
// fields in a later iteration.
func refinePrompt(subject string, missing []string) string {
	return fmt.Sprintf(`Research the company %q again, focusing specifically on: %s. Report concrete facts only.`,
		subject, strings.Join(missing, ", "))
}
