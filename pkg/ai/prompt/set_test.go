package prompt

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderIsSinglePass(t *testing.T) {
	out := Render("complaint: {chief_complaint}", map[string]string{
		"chief_complaint": "pain near {age}",
		"age":             "42",
	})
	assert.Equal(t, "complaint: pain near {age}", out)
}

func TestDefaultRendering(t *testing.T) {
	set := Default()

	greeting := set.RenderGreeting("chest pain")
	assert.Contains(t, greeting, "I understand you're experiencing chest pain.")
	assert.NotContains(t, greeting, "{chief_complaint}")

	interview := set.RenderInterview("unknown", "unknown", "unspecified")
	assert.Contains(t, interview, `a unknown year old unknown presenting with: "unspecified"`)
	assert.Contains(t, interview, "[INTERVIEW_COMPLETE]")

	summary := set.RenderSummary("34", "female", "headache", "AI: hi\nPATIENT: hello")
	assert.Contains(t, summary, "- Age: 34")
	assert.Contains(t, summary, `"risk_score": "HIGH or MEDIUM or LOW"`)
	assert.Contains(t, summary, "INTERVIEW TRANSCRIPT:\nAI: hi\nPATIENT: hello")

	scrub := set.RenderScrub("My name is Nimal")
	assert.Contains(t, scrub, "INPUT TEXT:\nMy name is Nimal\n\nSANITIZED TEXT:")
}

func TestLoadOverrides(t *testing.T) {
	dir := t.TempDir()

	t.Run("empty path returns defaults", func(t *testing.T) {
		set, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, Default(), set)
	})

	t.Run("partial override keeps other templates", func(t *testing.T) {
		path := filepath.Join(dir, "prompts.yaml")
		require.NoError(t, os.WriteFile(path, []byte("version: \"1.1\"\ngreeting: \"Hi, about your {chief_complaint}?\"\n"), 0o600))

		set, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "1.1", set.Version)
		assert.Equal(t, "Hi, about your cough?", set.RenderGreeting("cough"))
		assert.Equal(t, InterviewSystemPrompt, set.Interview)
	})

	t.Run("summary without transcript slot is rejected", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("summary: \"no slot here\"\n"), 0o600))

		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(dir, "nope.yaml"))
		assert.Error(t, err)
	})
}
