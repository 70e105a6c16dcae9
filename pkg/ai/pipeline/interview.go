package pipeline

import (
	"context"
	"strconv"
	"strings"

	"ai-triage-be/internal/constant"
	"ai-triage-be/internal/pkg/logger"
	"ai-triage-be/pkg/ai/parser"
	"ai-triage-be/pkg/ai/prompt"
	"ai-triage-be/pkg/ai/reasoning"
	"ai-triage-be/pkg/llm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const logModule = "PIPELINE"

// Sanitizer is satisfied by *scrubber.Scrubber.
type Sanitizer interface {
	Scrub(ctx context.Context, text string) string
}

// PatientContext is a read-only snapshot taken from the encounter at call time.
type PatientContext struct {
	Age            *int
	Gender         string
	ChiefComplaint string
}

func (pc PatientContext) render() (age, gender, complaint string) {
	age = constant.UnknownContextValue
	if pc.Age != nil {
		age = strconv.Itoa(*pc.Age)
	}
	gender = constant.UnknownContextValue
	if g := strings.TrimSpace(pc.Gender); g != "" {
		gender = g
	}
	complaint = constant.UnspecifiedComplaint
	if c := strings.TrimSpace(pc.ChiefComplaint); c != "" {
		complaint = c
	}
	return age, gender, complaint
}

type InterviewResponse struct {
	Message    string
	IsComplete bool
	// SanitizedInput is exactly what was sent to the provider for this turn.
	SanitizedInput string
}

type SummaryDraft struct {
	Subjective string
	Objective  string
	Assessment string
	Plan       string
	RiskScore  string
	Extraction map[string]interface{}
}

// InterviewPipeline composes sanitizer, prompts, provider and interpreter.
// It holds no per-request state and is safe for concurrent use.
type InterviewPipeline struct {
	sanitizer Sanitizer
	provider  reasoning.Provider
	prompts   *prompt.Set
	logger    logger.ILogger
	tracer    trace.Tracer
}

func NewInterviewPipeline(sanitizer Sanitizer, provider reasoning.Provider, prompts *prompt.Set, log logger.ILogger) *InterviewPipeline {
	if prompts == nil {
		prompts = prompt.Default()
	}
	return &InterviewPipeline{
		sanitizer: sanitizer,
		provider:  provider,
		prompts:   prompts,
		logger:    log,
		tracer:    otel.Tracer("ai-triage-be/pipeline"),
	}
}

// ProcessTurn sanitizes inputText, asks the provider for the next reply and
// interprets it. Provider errors propagate unchanged.
func (p *InterviewPipeline) ProcessTurn(ctx context.Context, inputText string, priorTurns []llm.Message, pc PatientContext) (*InterviewResponse, error) {
	ctx, span := p.tracer.Start(ctx, "pipeline.ProcessTurn", trace.WithAttributes(
		attribute.String("provider", p.provider.Name()),
		attribute.Int("prior_turns", len(priorTurns)),
	))
	defer span.End()

	sanitized := p.sanitizer.Scrub(ctx, inputText)

	age, gender, complaint := pc.render()
	systemPrompt := p.prompts.RenderInterview(age, gender, complaint)

	raw, err := p.provider.GenerateTurn(ctx, systemPrompt, priorTurns, sanitized)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "provider failed")
		return nil, err
	}

	reply := parser.InterpretTurn(raw)
	span.SetAttributes(attribute.Bool("interview_complete", reply.IsComplete))

	return &InterviewResponse{
		Message:        reply.Message,
		IsComplete:     reply.IsComplete,
		SanitizedInput: sanitized,
	}, nil
}

// GenerateSummary turns a transcript into a SOAP draft. Risk defaults to
// MEDIUM when the provider omits it or sends an unknown level.
func (p *InterviewPipeline) GenerateSummary(ctx context.Context, transcript string, pc PatientContext) (*SummaryDraft, error) {
	ctx, span := p.tracer.Start(ctx, "pipeline.GenerateSummary", trace.WithAttributes(
		attribute.String("provider", p.provider.Name()),
		attribute.Int("transcript_length", len(transcript)),
	))
	defer span.End()

	age, gender, complaint := pc.render()
	systemPrompt := p.prompts.RenderSummary(age, gender, complaint, transcript)

	raw, err := p.provider.GenerateStructured(ctx, systemPrompt, p.prompts.SummaryUserInput)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "provider failed")
		return nil, err
	}

	fields, err := parser.InterpretStructured(raw)
	if err != nil {
		p.logger.Error(logModule, "Failed to parse summary reply", map[string]interface{}{
			"error": err.Error(),
			"raw":   raw,
		})
		span.RecordError(err)
		span.SetStatus(codes.Error, "unparseable summary")
		return nil, err
	}
	if len(fields.Missing) > 0 {
		p.logger.Warn(logModule, "Summary reply is missing sections", map[string]interface{}{
			"missing": fields.Missing,
		})
	}

	risk, ok := parser.NormalizeRisk(fields.RiskScore)
	if !ok {
		if fields.RiskScore != "" {
			p.logger.Warn(logModule, "Unknown risk level, defaulting to MEDIUM", map[string]interface{}{
				"risk_score": fields.RiskScore,
			})
		}
		risk = constant.RiskScoreMedium
	}
	span.SetAttributes(attribute.String("risk_score", risk))

	return &SummaryDraft{
		Subjective: fields.Subjective,
		Objective:  fields.Objective,
		Assessment: fields.Assessment,
		Plan:       fields.Plan,
		RiskScore:  risk,
		Extraction: fields.Extraction,
	}, nil
}

// InitialGreeting renders the opening message for complaint.
func (p *InterviewPipeline) InitialGreeting(complaint string) string {
	return p.prompts.RenderGreeting(complaint)
}
