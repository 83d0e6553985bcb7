package optimize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/marcus/listing-optimizer/internal/types"
)

func TestBuildRewritePrompt(t *testing.T) {
	raw := &types.RawListing{
		Title:       "Blue Widget Pro",
		Bullets:     []string{"Durable aluminum housing rated for outdoor use", "Includes carrying case"},
		Description: "A dependable widget.",
	}

	prompt := BuildRewritePrompt(raw)

	assert.Contains(t, prompt, "Title: Blue Widget Pro")
	assert.Contains(t, prompt, "- Durable aluminum housing rated for outdoor use")
	assert.Contains(t, prompt, "- Includes carrying case")
	assert.Contains(t, prompt, "Description: A dependable widget.")
	assert.Contains(t, prompt, "Return ONLY valid JSON")
	for _, field := range []string{`"title"`, `"bullets"`, `"description"`, `"keywords"`} {
		assert.Contains(t, prompt, field)
	}
}

func TestBuildRewritePromptOmitsEmptyDescription(t *testing.T) {
	raw := &types.RawListing{Title: "Widget"}

	prompt := BuildRewritePrompt(raw)

	assert.False(t, strings.Contains(prompt, "Description:"),
		"empty description should not produce an empty field line")
}
