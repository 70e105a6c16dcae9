package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ai-triage-be/internal/constant"
	"ai-triage-be/internal/dto"
	"ai-triage-be/internal/entity"
	"ai-triage-be/internal/pkg/apperror"
	"ai-triage-be/internal/pkg/logger"
	"ai-triage-be/internal/repository/unitofwork"
	"ai-triage-be/pkg/ai/parser"
	"ai-triage-be/pkg/ai/pipeline"
	"ai-triage-be/pkg/events"
	"ai-triage-be/pkg/llm"
	"ai-triage-be/pkg/lock"

	"github.com/google/uuid"
)

const triageModule = "TRIAGE"

// InterviewPipeline is satisfied by *pipeline.InterviewPipeline.
type InterviewPipeline interface {
	ProcessTurn(ctx context.Context, inputText string, priorTurns []llm.Message, pc pipeline.PatientContext) (*pipeline.InterviewResponse, error)
	GenerateSummary(ctx context.Context, transcript string, pc pipeline.PatientContext) (*pipeline.SummaryDraft, error)
	InitialGreeting(complaint string) string
}

type ITriageEngine interface {
	CreateEncounter(ctx context.Context, actor entity.Actor, req *dto.CreateEncounterRequest) (*dto.CreateEncounterResponse, error)
	Start(ctx context.Context, actor entity.Actor, encounterId uuid.UUID) (*dto.StartInterviewResponse, error)
	SubmitTurn(ctx context.Context, actor entity.Actor, encounterId uuid.UUID, origin, text string) (*dto.ChatMessageResponse, error)
	ReviseSummary(ctx context.Context, actor entity.Actor, encounterId uuid.UUID, req *dto.ReviseSummaryRequest) (*dto.SummaryResponse, error)
	GetTranscript(ctx context.Context, encounterId uuid.UUID) (*dto.TranscriptResponse, error)
	GetSummary(ctx context.Context, encounterId uuid.UUID) (*dto.SummaryResponse, error)
}

type triageEngine struct {
	uowFactory unitofwork.RepositoryFactory
	pipeline   InterviewPipeline
	locker     lock.Locker
	publisher  IEventPublisher
	logger     logger.ILogger
	now        func() time.Time
}

func NewTriageEngine(
	uowFactory unitofwork.RepositoryFactory,
	pipeline InterviewPipeline,
	locker lock.Locker,
	publisher IEventPublisher,
	logger logger.ILogger,
) ITriageEngine {
	return &triageEngine{
		uowFactory: uowFactory,
		pipeline:   pipeline,
		locker:     locker,
		publisher:  publisher,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *triageEngine) CreateEncounter(ctx context.Context, actor entity.Actor, req *dto.CreateEncounterRequest) (*dto.CreateEncounterResponse, error) {
	var dob *time.Time
	if req.PatientDateOfBirth != "" {
		t, err := time.Parse("2006-01-02", req.PatientDateOfBirth)
		if err != nil {
			return nil, apperror.Validation("patient_date_of_birth must be YYYY-MM-DD")
		}
		dob = &t
	}

	encounter := &entity.Encounter{
		Id:                 uuid.New(),
		PatientId:          req.PatientId,
		OperatorId:         actor.Id,
		ChiefComplaint:     strings.TrimSpace(req.ChiefComplaint),
		PatientDateOfBirth: dob,
		PatientGender:      strings.TrimSpace(req.PatientGender),
		State:              constant.EncounterStateInProgress,
		CreatedAt:          s.now(),
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.EncounterRepository().Create(ctx, encounter); err != nil {
		return nil, err
	}

	s.logger.Info(triageModule, "Encounter created", map[string]interface{}{
		"encounter_id": encounter.Id,
		"operator_id":  actor.Id,
	})

	return &dto.CreateEncounterResponse{
		Id:    encounter.Id,
		State: encounter.State,
	}, nil
}

func (s *triageEngine) Start(ctx context.Context, actor entity.Actor, encounterId uuid.UUID) (*dto.StartInterviewResponse, error) {
	unlock, err := s.lockEncounter(ctx, encounterId)
	if err != nil {
		return nil, err
	}
	defer unlock()

	uow := s.uowFactory.NewUnitOfWork(ctx)
	encounter, err := s.requireInProgress(ctx, uow, encounterId)
	if err != nil {
		return nil, err
	}

	complaint := encounter.ChiefComplaint
	if strings.TrimSpace(complaint) == "" {
		complaint = constant.DefaultComplaint
	}
	greeting := s.pipeline.InitialGreeting(complaint)

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	last, err := uow.TurnRepository().LastSequence(ctx, encounterId)
	if err != nil {
		return nil, err
	}
	turn := s.newTurn(encounterId, last+1, constant.TurnOriginSystem, greeting, greeting)
	if err := uow.TurnRepository().Append(ctx, turn); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info(triageModule, "Interview started", map[string]interface{}{
		"encounter_id": encounterId,
		"actor_id":     actor.Id,
		"sequence":     turn.Sequence,
	})
	s.publish(ctx, constant.EventInterviewStarted, map[string]interface{}{
		"encounter_id": encounterId.String(),
		"actor_id":     actor.Id.String(),
	})

	return &dto.StartInterviewResponse{
		EncounterId: encounterId,
		Message:     greeting,
		State:       encounter.State,
	}, nil
}

// SubmitTurn records one inbound turn and the provider's reply. origin is
// PATIENT (the default when empty) for the patient's own words or NURSE for
// an operator observation; both are sanitized and replayed as user input.
func (s *triageEngine) SubmitTurn(ctx context.Context, actor entity.Actor, encounterId uuid.UUID, origin, text string) (*dto.ChatMessageResponse, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperror.Validation("message text is required")
	}
	origin, err := inboundOrigin(origin)
	if err != nil {
		return nil, err
	}

	unlock, err := s.lockEncounter(ctx, encounterId)
	if err != nil {
		return nil, err
	}
	defer unlock()

	uow := s.uowFactory.NewUnitOfWork(ctx)
	encounter, err := s.requireInProgress(ctx, uow, encounterId)
	if err != nil {
		return nil, err
	}

	turns, err := uow.TurnRepository().ListByEncounter(ctx, encounterId)
	if err != nil {
		return nil, err
	}
	lastSeq := 0
	if len(turns) > 0 {
		lastSeq = turns[len(turns)-1].Sequence
	}

	pc := patientContext(encounter, s.now())

	// Provider calls happen before anything is written so a failure leaves
	// the encounter exactly as it was.
	res, err := s.pipeline.ProcessTurn(ctx, text, chatHistory(turns), pc)
	if err != nil {
		s.logger.Error(triageModule, "Turn processing failed", map[string]interface{}{
			"encounter_id": encounterId,
			"error":        err.Error(),
		})
		return nil, err
	}

	inboundTurn := s.newTurn(encounterId, lastSeq+1, origin, text, res.SanitizedInput)
	replyTurn := s.newTurn(encounterId, lastSeq+2, constant.TurnOriginSystem, res.Message, res.Message)

	var summary *entity.Summary
	if res.IsComplete {
		transcript := buildTranscript(append(turns, inboundTurn))
		draft, err := s.pipeline.GenerateSummary(ctx, transcript, pc)
		if err != nil {
			s.logger.Error(triageModule, "Summary generation failed", map[string]interface{}{
				"encounter_id": encounterId,
				"error":        err.Error(),
			})
			return nil, err
		}
		summary = &entity.Summary{
			Id:          uuid.New(),
			EncounterId: encounterId,
			Subjective:  draft.Subjective,
			Objective:   draft.Objective,
			Assessment:  draft.Assessment,
			Plan:        draft.Plan,
			RiskScore:   draft.RiskScore,
			Version:     1,
			Extraction:  draft.Extraction,
			CreatedAt:   s.now(),
		}
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	locked, err := uow.EncounterRepository().FindByIdForUpdate(ctx, encounterId)
	if err != nil {
		return nil, err
	}
	if locked == nil {
		return nil, apperror.NotFound("encounter %s not found", encounterId)
	}
	if locked.State != constant.EncounterStateInProgress {
		return nil, apperror.Conflict("encounter %s changed state to %s during the turn", encounterId, locked.State)
	}
	current, err := uow.TurnRepository().LastSequence(ctx, encounterId)
	if err != nil {
		return nil, err
	}
	if current != lastSeq {
		return nil, apperror.Conflict("encounter %s received another turn concurrently", encounterId)
	}

	if err := uow.TurnRepository().Append(ctx, inboundTurn); err != nil {
		return nil, err
	}
	if err := uow.TurnRepository().Append(ctx, replyTurn); err != nil {
		return nil, err
	}

	state := constant.EncounterStateInProgress
	if summary != nil {
		if err := uow.SummaryRepository().Create(ctx, summary); err != nil {
			return nil, err
		}
		state = constant.EncounterStateAwaitingReview
		if err := uow.EncounterRepository().UpdateState(ctx, encounterId, state); err != nil {
			return nil, err
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info(triageModule, "Turn processed", map[string]interface{}{
		"encounter_id": encounterId,
		"actor_id":     actor.Id,
		"sequence":     inboundTurn.Sequence,
		"origin":       origin,
		"complete":     res.IsComplete,
	})
	s.publish(ctx, constant.EventTurnProcessed, map[string]interface{}{
		"encounter_id": encounterId.String(),
		"sequence":     replyTurn.Sequence,
	})

	response := &dto.ChatMessageResponse{
		EncounterId:         encounterId,
		AIMessage:           res.Message,
		IsInterviewComplete: res.IsComplete,
		State:               state,
	}
	if summary != nil {
		response.Summary = toSummaryResponse(summary)
		s.publish(ctx, constant.EventInterviewCompleted, map[string]interface{}{
			"encounter_id": encounterId.String(),
			"risk_score":   summary.RiskScore,
		})
	}

	return response, nil
}

func (s *triageEngine) ReviseSummary(ctx context.Context, actor entity.Actor, encounterId uuid.UUID, req *dto.ReviseSummaryRequest) (*dto.SummaryResponse, error) {
	var risk string
	if req.RiskScore != nil {
		normalized, ok := parser.NormalizeRisk(*req.RiskScore)
		if !ok {
			return nil, apperror.Validation("risk_score must be one of HIGH, MEDIUM, LOW")
		}
		risk = normalized
	}
	finalize := req.IsFinalized != nil && *req.IsFinalized

	unlock, err := s.lockEncounter(ctx, encounterId)
	if err != nil {
		return nil, err
	}
	defer unlock()

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	encounter, err := uow.EncounterRepository().FindByIdForUpdate(ctx, encounterId)
	if err != nil {
		return nil, err
	}
	if encounter == nil {
		return nil, apperror.NotFound("encounter %s not found", encounterId)
	}

	summary, err := uow.SummaryRepository().FindByEncounterId(ctx, encounterId)
	if err != nil {
		return nil, err
	}
	if summary == nil {
		return nil, apperror.NotFound("encounter %s has no summary", encounterId)
	}
	if summary.IsFinalized && !finalize {
		return nil, apperror.Conflict("summary for encounter %s is finalized", encounterId)
	}

	if req.Subjective != nil {
		summary.Subjective = *req.Subjective
	}
	if req.Objective != nil {
		summary.Objective = *req.Objective
	}
	if req.Assessment != nil {
		summary.Assessment = *req.Assessment
	}
	if req.Plan != nil {
		summary.Plan = *req.Plan
	}
	if req.RiskScore != nil {
		summary.RiskScore = risk
	}
	summary.Version++

	now := s.now()
	summary.UpdatedAt = &now

	justFinalized := finalize && !summary.IsFinalized
	if justFinalized {
		summary.IsFinalized = true
		finalizedBy := actor.Id
		summary.FinalizedBy = &finalizedBy
		summary.FinalizedAt = &now
	}

	if err := uow.SummaryRepository().Update(ctx, summary); err != nil {
		return nil, err
	}
	if finalize && encounter.State != constant.EncounterStateCompleted {
		if err := uow.EncounterRepository().UpdateState(ctx, encounterId, constant.EncounterStateCompleted); err != nil {
			return nil, err
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info(triageModule, "Summary revised", map[string]interface{}{
		"encounter_id": encounterId,
		"actor_id":     actor.Id,
		"version":      summary.Version,
		"finalized":    summary.IsFinalized,
	})

	eventType := constant.EventSummaryRevised
	if justFinalized {
		eventType = constant.EventSummaryFinalized
	}
	s.publish(ctx, eventType, map[string]interface{}{
		"encounter_id": encounterId.String(),
		"actor_id":     actor.Id.String(),
		"version":      summary.Version,
	})

	return toSummaryResponse(summary), nil
}

func (s *triageEngine) GetTranscript(ctx context.Context, encounterId uuid.UUID) (*dto.TranscriptResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	encounter, err := uow.EncounterRepository().FindById(ctx, encounterId)
	if err != nil {
		return nil, err
	}
	if encounter == nil {
		return nil, apperror.NotFound("encounter %s not found", encounterId)
	}

	turns, err := uow.TurnRepository().ListByEncounter(ctx, encounterId)
	if err != nil {
		return nil, err
	}

	return toTranscriptResponse(encounter, turns), nil
}

func (s *triageEngine) GetSummary(ctx context.Context, encounterId uuid.UUID) (*dto.SummaryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	summary, err := uow.SummaryRepository().FindByEncounterId(ctx, encounterId)
	if err != nil {
		return nil, err
	}
	if summary == nil {
		return nil, apperror.NotFound("encounter %s has no summary", encounterId)
	}

	return toSummaryResponse(summary), nil
}

func (s *triageEngine) lockEncounter(ctx context.Context, encounterId uuid.UUID) (lock.Unlock, error) {
	unlock, err := s.locker.Lock(ctx, "encounter:"+encounterId.String())
	if err != nil {
		return nil, fmt.Errorf("acquire encounter lock: %w", err)
	}
	return unlock, nil
}

func (s *triageEngine) requireInProgress(ctx context.Context, uow unitofwork.UnitOfWork, encounterId uuid.UUID) (*entity.Encounter, error) {
	encounter, err := uow.EncounterRepository().FindById(ctx, encounterId)
	if err != nil {
		return nil, err
	}
	if encounter == nil {
		return nil, apperror.NotFound("encounter %s not found", encounterId)
	}
	if encounter.State != constant.EncounterStateInProgress {
		return nil, apperror.InvalidState("encounter %s is %s, expected %s",
			encounterId, encounter.State, constant.EncounterStateInProgress)
	}
	return encounter, nil
}

func (s *triageEngine) newTurn(encounterId uuid.UUID, sequence int, origin, content, redacted string) *entity.Turn {
	return &entity.Turn{
		Id:              uuid.New(),
		EncounterId:     encounterId,
		Sequence:        sequence,
		Origin:          origin,
		Content:         content,
		RedactedContent: redacted,
		CreatedAt:       s.now(),
	}
}

func (s *triageEngine) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(ctx, events.New(eventType, data))
}

func inboundOrigin(origin string) (string, error) {
	switch strings.ToUpper(strings.TrimSpace(origin)) {
	case "", constant.TurnOriginPatient:
		return constant.TurnOriginPatient, nil
	case constant.TurnOriginOperator:
		return constant.TurnOriginOperator, nil
	}
	return "", apperror.Validation("turn origin must be PATIENT or NURSE")
}

func patientContext(encounter *entity.Encounter, now time.Time) pipeline.PatientContext {
	return pipeline.PatientContext{
		Age:            encounter.PatientAge(now),
		Gender:         encounter.PatientGender,
		ChiefComplaint: encounter.ChiefComplaint,
	}
}

// chatHistory rebuilds the provider-visible conversation from stored turns.
// Only redacted text is ever replayed.
func chatHistory(turns []*entity.Turn) []llm.Message {
	history := make([]llm.Message, 0, len(turns))
	for _, t := range turns {
		role := constant.ChatRoleUser
		if t.Origin == constant.TurnOriginSystem {
			role = constant.ChatRoleAssistant
		}
		history = append(history, llm.Message{Role: role, Content: t.RedactedContent})
	}
	return history
}

func buildTranscript(turns []*entity.Turn) string {
	lines := make([]string, 0, len(turns))
	for _, t := range turns {
		lines = append(lines, fmt.Sprintf(constant.TranscriptLineFormat, t.Origin, t.RedactedContent))
	}
	return strings.Join(lines, constant.TranscriptLineDivider)
}

func toSummaryResponse(s *entity.Summary) *dto.SummaryResponse {
	return &dto.SummaryResponse{
		Id:          s.Id,
		EncounterId: s.EncounterId,
		Subjective:  s.Subjective,
		Objective:   s.Objective,
		Assessment:  s.Assessment,
		Plan:        s.Plan,
		RiskScore:   s.RiskScore,
		Version:     s.Version,
		IsFinalized: s.IsFinalized,
		FinalizedBy: s.FinalizedBy,
		FinalizedAt: s.FinalizedAt,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func toTranscriptResponse(encounter *entity.Encounter, turns []*entity.Turn) *dto.TranscriptResponse {
	res := &dto.TranscriptResponse{
		EncounterId:    encounter.Id,
		State:          encounter.State,
		ChiefComplaint: encounter.ChiefComplaint,
		Turns:          make([]*dto.TurnResponse, 0, len(turns)),
	}
	for _, t := range turns {
		res.Turns = append(res.Turns, &dto.TurnResponse{
			Id:        t.Id,
			Sequence:  t.Sequence,
			Origin:    t.Origin,
			Content:   t.Content,
			CreatedAt: t.CreatedAt,
		})
	}
	return res
}
