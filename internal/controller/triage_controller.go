package controller

import (
	"ai-triage-be/internal/constant"
	"ai-triage-be/internal/dto"
	"ai-triage-be/internal/pkg/apperror"
	"ai-triage-be/internal/pkg/serverutils"
	"ai-triage-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ITriageController interface {
	RegisterRoutes(r fiber.Router)
	CreateEncounter(ctx *fiber.Ctx) error
	Start(ctx *fiber.Ctx) error
	Chat(ctx *fiber.Ctx) error
	GetMessages(ctx *fiber.Ctx) error
	GetNote(ctx *fiber.Ctx) error
	UpdateNote(ctx *fiber.Ctx) error
}

type triageController struct {
	engine    service.ITriageEngine
	jwtSecret string
}

func NewTriageController(engine service.ITriageEngine, jwtSecret string) ITriageController {
	return &triageController{engine: engine, jwtSecret: jwtSecret}
}

func (c *triageController) RegisterRoutes(r fiber.Router) {
	auth := serverutils.JwtMiddleware(c.jwtSecret)
	nurseOnly := serverutils.RequireRole(constant.RoleNurse, constant.RoleAdmin)
	doctorOnly := serverutils.RequireRole(constant.RoleDoctor, constant.RoleAdmin)
	staff := serverutils.RequireRole(constant.RoleNurse, constant.RoleDoctor, constant.RoleAdmin)

	r.Post("/encounters", auth, nurseOnly, c.CreateEncounter)

	h := r.Group("/triage/v1")
	h.Use(auth)
	h.Post("/start", nurseOnly, c.Start)
	h.Post("/chat", nurseOnly, c.Chat)
	h.Get("/:id/messages", staff, c.GetMessages)
	h.Get("/:id/note", staff, c.GetNote)
	h.Put("/:id/note", doctorOnly, c.UpdateNote)
}

func (c *triageController) CreateEncounter(ctx *fiber.Ctx) error {
	actor, err := serverutils.ActorFromContext(ctx)
	if err != nil {
		return err
	}

	var req dto.CreateEncounterRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.engine.CreateEncounter(ctx.UserContext(), actor, &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Encounter created", res))
}

func (c *triageController) Start(ctx *fiber.Ctx) error {
	actor, err := serverutils.ActorFromContext(ctx)
	if err != nil {
		return err
	}

	var req dto.StartInterviewRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.engine.Start(ctx.UserContext(), actor, req.EncounterId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Interview started", res))
}

func (c *triageController) Chat(ctx *fiber.Ctx) error {
	actor, err := serverutils.ActorFromContext(ctx)
	if err != nil {
		return err
	}

	var req dto.ChatMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.engine.SubmitTurn(ctx.UserContext(), actor, req.EncounterId, req.Origin, req.Message)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Message processed", res))
}

func (c *triageController) GetMessages(ctx *fiber.Ctx) error {
	id, err := encounterIdParam(ctx)
	if err != nil {
		return err
	}

	res, err := c.engine.GetTranscript(ctx.UserContext(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get messages", res))
}

func (c *triageController) GetNote(ctx *fiber.Ctx) error {
	id, err := encounterIdParam(ctx)
	if err != nil {
		return err
	}

	res, err := c.engine.GetSummary(ctx.UserContext(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get note", res))
}

func (c *triageController) UpdateNote(ctx *fiber.Ctx) error {
	actor, err := serverutils.ActorFromContext(ctx)
	if err != nil {
		return err
	}
	id, err := encounterIdParam(ctx)
	if err != nil {
		return err
	}

	var req dto.ReviseSummaryRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.engine.ReviseSummary(ctx.UserContext(), actor, id, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Note updated", res))
}

func encounterIdParam(ctx *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return uuid.Nil, apperror.Validation("invalid encounter id %q", ctx.Params("id"))
	}
	return id, nil
}
