package prompt

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Set is one version of every template the pipeline renders.
type Set struct {
	Version          string `yaml:"version"`
	Interview        string `yaml:"interview"`
	Summary          string `yaml:"summary"`
	SummaryUserInput string `yaml:"summary_user_input"`
	Greeting         string `yaml:"greeting"`
	Scrub            string `yaml:"scrub"`
}

func Default() *Set {
	return &Set{
		Version:          DefaultVersion,
		Interview:        InterviewSystemPrompt,
		Summary:          SummarySystemPrompt,
		SummaryUserInput: SummaryUserInstruction,
		Greeting:         GreetingTemplate,
		Scrub:            ScrubPrompt,
	}
}

// Load returns the default set with any non-empty fields from the YAML file
// at path layered on top. An empty path returns the defaults.
func Load(path string) (*Set, error) {
	set := Default()
	if path == "" {
		return set, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prompt overrides: %w", err)
	}

	var override Set
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, fmt.Errorf("parse prompt overrides: %w", err)
	}

	merge(&set.Version, override.Version)
	merge(&set.Interview, override.Interview)
	merge(&set.Summary, override.Summary)
	merge(&set.SummaryUserInput, override.SummaryUserInput)
	merge(&set.Greeting, override.Greeting)
	merge(&set.Scrub, override.Scrub)

	if !strings.Contains(set.Summary, "{transcript}") {
		return nil, fmt.Errorf("summary template must contain {transcript}")
	}
	if !strings.Contains(set.Scrub, "{text}") {
		return nil, fmt.Errorf("scrub template must contain {text}")
	}
	return set, nil
}

func merge(dst *string, v string) {
	if strings.TrimSpace(v) != "" {
		*dst = v
	}
}

// Render substitutes {key} placeholders in tmpl. Values are inserted verbatim.
func Render(tmpl string, values map[string]string) string {
	pairs := make([]string, 0, len(values)*2)
	for k, v := range values {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

func (s *Set) RenderInterview(age, gender, complaint string) string {
	return Render(s.Interview, map[string]string{
		"age":             age,
		"gender":          gender,
		"chief_complaint": complaint,
	})
}

func (s *Set) RenderSummary(age, gender, complaint, transcript string) string {
	return Render(s.Summary, map[string]string{
		"age":             age,
		"gender":          gender,
		"chief_complaint": complaint,
		"transcript":      transcript,
	})
}

func (s *Set) RenderGreeting(complaint string) string {
	return Render(s.Greeting, map[string]string{"chief_complaint": complaint})
}

func (s *Set) RenderScrub(text string) string {
	return Render(s.Scrub, map[string]string{"text": text})
}
