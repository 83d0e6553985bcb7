// Package optimize - prompt.go builds the rewrite prompt sent to the provider.
package optimize

import (
	"fmt"
	"strings"

	"github.com/marcus/listing-optimizer/internal/types"
)

// BuildRewritePrompt constructs the rewrite instruction for a raw listing.
// The output-shape instruction is strict, but the normalizer still tolerates
// commentary and code fences the model emits despite it.
func BuildRewritePrompt(raw *types.RawListing) string {
	var sb strings.Builder

	sb.WriteString("You are an expert e-commerce copywriter. Rewrite the product listing below ")
	sb.WriteString("to be clearer and more compelling while staying factual. Do not invent ")
	sb.WriteString("features that are not present in the original.\n\n")

	sb.WriteString("Return ONLY valid JSON matching this exact structure:\n{\n")
	sb.WriteString("  \"title\": \"string\", // improved title, under 200 characters\n")
	sb.WriteString("  \"bullets\": [\"string\"], // exactly 5 benefit-led feature bullets\n")
	sb.WriteString("  \"description\": \"string\", // persuasive paragraph description\n")
	sb.WriteString("  \"keywords\": [\"string\"] // exactly 5 search keywords\n")
	sb.WriteString("}\n\n")

	sb.WriteString("IMPORTANT:\n")
	sb.WriteString("- Return ONLY the JSON object, no markdown, no explanation, no code blocks.\n\n")

	sb.WriteString("Original listing:\n\"\"\"\n")
	sb.WriteString(fmt.Sprintf("Title: %s\n", raw.Title))
	for _, bullet := range raw.Bullets {
		sb.WriteString(fmt.Sprintf("- %s\n", bullet))
	}
	if raw.Description != "" {
		sb.WriteString(fmt.Sprintf("Description: %s\n", raw.Description))
	}
	sb.WriteString("\"\"\"\n")

	return sb.String()
}
