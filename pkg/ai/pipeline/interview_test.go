package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"ai-triage-be/internal/constant"
	"ai-triage-be/internal/pkg/apperror"
	"ai-triage-be/internal/pkg/logger"
	"ai-triage-be/pkg/ai/prompt"
	"ai-triage-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type upperSanitizer struct{ seen []string }

func (s *upperSanitizer) Scrub(_ context.Context, text string) string {
	s.seen = append(s.seen, text)
	return strings.ReplaceAll(text, "Nimal", constant.PlaceholderName)
}

type stubProvider struct {
	turnReply       string
	structuredReply string
	err             error

	systemPrompt string
	history      []llm.Message
	latest       string
	content      string
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) GenerateTurn(_ context.Context, systemPrompt string, history []llm.Message, latest string) (string, error) {
	s.systemPrompt, s.history, s.latest = systemPrompt, history, latest
	return s.turnReply, s.err
}

func (s *stubProvider) GenerateStructured(_ context.Context, systemPrompt, content string) (string, error) {
	s.systemPrompt, s.content = systemPrompt, content
	return s.structuredReply, s.err
}

func newPipeline(p *stubProvider) (*InterviewPipeline, *upperSanitizer) {
	san := &upperSanitizer{}
	return NewInterviewPipeline(san, p, nil, logger.NewNopLogger()), san
}

func TestProcessTurnSanitizesBeforeProvider(t *testing.T) {
	provider := &stubProvider{turnReply: "  How long has it hurt?  "}
	pl, san := newPipeline(provider)
	age := 34

	history := []llm.Message{{Role: "assistant", Content: "Hello"}}
	res, err := pl.ProcessTurn(context.Background(), "I am Nimal, my head hurts", history,
		PatientContext{Age: &age, Gender: "female", ChiefComplaint: "headache"})

	require.NoError(t, err)
	assert.Equal(t, []string{"I am Nimal, my head hurts"}, san.seen)
	assert.Equal(t, "I am [NAME_REDACTED], my head hurts", provider.latest)
	assert.Equal(t, provider.latest, res.SanitizedInput)
	assert.NotContains(t, provider.latest, "Nimal")
	assert.Equal(t, history, provider.history)
	assert.Contains(t, provider.systemPrompt, `a 34 year old female presenting with: "headache"`)
	assert.Equal(t, "How long has it hurt?", res.Message)
	assert.False(t, res.IsComplete)
}

func TestProcessTurnDefaultsMissingContext(t *testing.T) {
	provider := &stubProvider{turnReply: "ok"}
	pl, _ := newPipeline(provider)

	_, err := pl.ProcessTurn(context.Background(), "hi", nil, PatientContext{Gender: "  "})

	require.NoError(t, err)
	assert.Contains(t, provider.systemPrompt, `a unknown year old unknown presenting with: "unspecified"`)
}

func TestProcessTurnCompletion(t *testing.T) {
	provider := &stubProvider{turnReply: "Thanks. [INTERVIEW_COMPLETE]"}
	pl, _ := newPipeline(provider)

	res, err := pl.ProcessTurn(context.Background(), "no allergies", nil, PatientContext{})

	require.NoError(t, err)
	assert.True(t, res.IsComplete)
	assert.Equal(t, constant.InterviewCompleteNotice, res.Message)
}

func TestProcessTurnPropagatesProviderError(t *testing.T) {
	provider := &stubProvider{err: apperror.Provider("stub", errors.New("down"))}
	pl, _ := newPipeline(provider)

	res, err := pl.ProcessTurn(context.Background(), "x", nil, PatientContext{})

	assert.Nil(t, res)
	assert.ErrorIs(t, err, apperror.ErrProvider)
}

func TestGenerateSummary(t *testing.T) {
	tests := []struct {
		name     string
		reply    string
		wantRisk string
		wantPlan string
	}{
		{"explicit risk", `{"subjective":"S","objective":"O","assessment":"A","plan":"P","risk_score":"high"}`, constant.RiskScoreHigh, "P"},
		{"omitted risk defaults", `{"subjective":"S","plan":"P"}`, constant.RiskScoreMedium, "P"},
		{"unknown risk defaults", `{"plan":"","risk_score":"SEVERE"}`, constant.RiskScoreMedium, ""},
		{"fenced reply", "```json\n{\"risk_score\":\"LOW\"}\n```", constant.RiskScoreLow, ""},
		{"numeric risk defaults", `{"subjective":"a","risk_score":3}`, constant.RiskScoreMedium, ""},
		{"list plan is kept as text", `{"plan":["rest","fluids"],"objective":{"bp":"120/80"}}`, constant.RiskScoreMedium, `["rest","fluids"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &stubProvider{structuredReply: tt.reply}
			pl, _ := newPipeline(provider)

			draft, err := pl.GenerateSummary(context.Background(), "AI: hi\nPATIENT: [NAME_REDACTED] here",
				PatientContext{ChiefComplaint: "cough"})

			require.NoError(t, err)
			assert.Equal(t, tt.wantRisk, draft.RiskScore)
			assert.Equal(t, tt.wantPlan, draft.Plan)
			assert.Contains(t, provider.systemPrompt, "INTERVIEW TRANSCRIPT:\nAI: hi\nPATIENT: [NAME_REDACTED] here")
			assert.Contains(t, provider.systemPrompt, "- Chief Complaint: cough")
			assert.Equal(t, prompt.SummaryUserInstruction, provider.content)
		})
	}
}

func TestGenerateSummaryParseFailure(t *testing.T) {
	provider := &stubProvider{structuredReply: "I cannot produce JSON today."}
	pl, _ := newPipeline(provider)

	draft, err := pl.GenerateSummary(context.Background(), "AI: hi", PatientContext{})

	assert.Nil(t, draft)
	assert.ErrorIs(t, err, apperror.ErrParse)
}

func TestInitialGreeting(t *testing.T) {
	pl, _ := newPipeline(&stubProvider{})
	assert.Equal(t,
		"Hello! I'm here to help gather some information about your visit today. "+
			"I understand you're experiencing chest pain. "+
			"Let me ask you a few questions to better understand your situation. "+
			"When did you first notice these symptoms?",
		pl.InitialGreeting("chest pain"))
}
