package controller

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ai-triage-be/internal/constant"
	"ai-triage-be/internal/dto"
	"ai-triage-be/internal/entity"
	"ai-triage-be/internal/pkg/apperror"
	"ai-triage-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type stubEngine struct {
	err        error
	lastActor  entity.Actor
	lastText   string
	lastOrigin string
	lastRev    *dto.ReviseSummaryRequest
}

func (s *stubEngine) CreateEncounter(_ context.Context, actor entity.Actor, req *dto.CreateEncounterRequest) (*dto.CreateEncounterResponse, error) {
	s.lastActor = actor
	if s.err != nil {
		return nil, s.err
	}
	return &dto.CreateEncounterResponse{Id: uuid.New(), State: constant.EncounterStateInProgress}, nil
}

func (s *stubEngine) Start(_ context.Context, actor entity.Actor, id uuid.UUID) (*dto.StartInterviewResponse, error) {
	s.lastActor = actor
	if s.err != nil {
		return nil, s.err
	}
	return &dto.StartInterviewResponse{EncounterId: id, Message: "Hello", State: constant.EncounterStateInProgress}, nil
}

func (s *stubEngine) SubmitTurn(_ context.Context, actor entity.Actor, id uuid.UUID, origin, text string) (*dto.ChatMessageResponse, error) {
	s.lastActor, s.lastText, s.lastOrigin = actor, text, origin
	if s.err != nil {
		return nil, s.err
	}
	return &dto.ChatMessageResponse{EncounterId: id, AIMessage: "ok", State: constant.EncounterStateInProgress}, nil
}

func (s *stubEngine) ReviseSummary(_ context.Context, actor entity.Actor, id uuid.UUID, req *dto.ReviseSummaryRequest) (*dto.SummaryResponse, error) {
	s.lastActor, s.lastRev = actor, req
	if s.err != nil {
		return nil, s.err
	}
	return &dto.SummaryResponse{EncounterId: id, Version: 2}, nil
}

func (s *stubEngine) GetTranscript(_ context.Context, id uuid.UUID) (*dto.TranscriptResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.TranscriptResponse{EncounterId: id, Turns: []*dto.TurnResponse{}}, nil
}

func (s *stubEngine) GetSummary(_ context.Context, id uuid.UUID) (*dto.SummaryResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.SummaryResponse{EncounterId: id, Version: 1}, nil
}

func newTestApp(engine *stubEngine) *fiber.App {
	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	NewTriageController(engine, testSecret).RegisterRoutes(app.Group("/api"))
	return app
}

func token(t *testing.T, userId uuid.UUID, role string) string {
	t.Helper()
	tok, err := serverutils.SignToken(testSecret, userId, role)
	require.NoError(t, err)
	return tok
}

func do(t *testing.T, app *fiber.App, method, path, tok, body string) (int, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestRoutesRequireToken(t *testing.T) {
	app := newTestApp(&stubEngine{})

	status, _ := do(t, app, http.MethodPost, "/api/triage/v1/start", "", `{}`)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = do(t, app, http.MethodPost, "/api/triage/v1/start", "not-a-jwt", `{}`)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestRoleGates(t *testing.T) {
	app := newTestApp(&stubEngine{})
	id := uuid.New()
	doctorTok := token(t, uuid.New(), constant.RoleDoctor)
	nurseTok := token(t, uuid.New(), constant.RoleNurse)

	status, _ := do(t, app, http.MethodPost, "/api/triage/v1/chat", doctorTok,
		`{"encounter_id":"`+id.String()+`","message":"hi"}`)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = do(t, app, http.MethodPut, "/api/triage/v1/"+id.String()+"/note", nurseTok, `{"plan":"x"}`)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = do(t, app, http.MethodGet, "/api/triage/v1/"+id.String()+"/note", nurseTok, "")
	assert.Equal(t, http.StatusOK, status)
}

func TestChatPassesActorAndText(t *testing.T) {
	engine := &stubEngine{}
	app := newTestApp(engine)
	nurseId := uuid.New()

	status, body := do(t, app, http.MethodPost, "/api/triage/v1/chat", token(t, nurseId, constant.RoleNurse),
		`{"encounter_id":"`+uuid.NewString()+`","message":"my chest hurts"}`)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, nurseId, engine.lastActor.Id)
	assert.Equal(t, constant.RoleNurse, engine.lastActor.Role)
	assert.Equal(t, "my chest hurts", engine.lastText)
	assert.Equal(t, "", engine.lastOrigin)
}

func TestChatPassesOperatorOrigin(t *testing.T) {
	engine := &stubEngine{}
	app := newTestApp(engine)
	nurseTok := token(t, uuid.New(), constant.RoleNurse)

	status, _ := do(t, app, http.MethodPost, "/api/triage/v1/chat", nurseTok,
		`{"encounter_id":"`+uuid.NewString()+`","message":"patient looks pale","origin":"NURSE"}`)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, constant.TurnOriginOperator, engine.lastOrigin)

	status, _ = do(t, app, http.MethodPost, "/api/triage/v1/chat", nurseTok,
		`{"encounter_id":"`+uuid.NewString()+`","message":"hi","origin":"SYSTEM"}`)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestRequestValidation(t *testing.T) {
	app := newTestApp(&stubEngine{})
	nurseTok := token(t, uuid.New(), constant.RoleNurse)

	status, _ := do(t, app, http.MethodPost, "/api/triage/v1/chat", nurseTok, `{"encounter_id":"`+uuid.NewString()+`"}`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = do(t, app, http.MethodPost, "/api/encounters", nurseTok,
		`{"patient_id":"`+uuid.NewString()+`","patient_date_of_birth":"yesterday"}`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = do(t, app, http.MethodGet, "/api/triage/v1/not-a-uuid/messages", nurseTok, "")
	assert.Equal(t, http.StatusBadRequest, status)

	doctorTok := token(t, uuid.New(), constant.RoleDoctor)
	status, _ = do(t, app, http.MethodPut, "/api/triage/v1/"+uuid.NewString()+"/note", doctorTok, `{"risk_score":"SEVERE"}`)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestCreateEncounter(t *testing.T) {
	app := newTestApp(&stubEngine{})

	status, body := do(t, app, http.MethodPost, "/api/encounters", token(t, uuid.New(), constant.RoleNurse),
		`{"patient_id":"`+uuid.NewString()+`","chief_complaint":"fever","patient_date_of_birth":"1990-05-01"}`)

	assert.Equal(t, http.StatusCreated, status)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, constant.EncounterStateInProgress, data["state"])
}

func TestEngineErrorsMapToStatus(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", apperror.NotFound("encounter missing"), http.StatusNotFound},
		{"invalid state", apperror.InvalidState("encounter is COMPLETED"), http.StatusConflict},
		{"conflict", apperror.Conflict("summary finalized"), http.StatusConflict},
		{"validation", apperror.Validation("message text is required"), http.StatusBadRequest},
		{"provider", apperror.Provider("deepseek", errors.New("dial tcp: secret-host")), http.StatusBadGateway},
		{"parse", apperror.Parse("bad summary", "RAW MODEL OUTPUT", nil), http.StatusBadGateway},
		{"unknown", errors.New("db down"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(&stubEngine{err: tt.err})

			status, body := do(t, app, http.MethodPost, "/api/triage/v1/start", token(t, uuid.New(), constant.RoleNurse),
				`{"encounter_id":"`+uuid.NewString()+`"}`)

			assert.Equal(t, tt.status, status)
			assert.Equal(t, false, body["success"])
			msg, _ := body["message"].(string)
			assert.NotContains(t, msg, "secret-host")
			assert.NotContains(t, msg, "RAW MODEL OUTPUT")
			assert.NotContains(t, msg, "db down")
		})
	}
}
