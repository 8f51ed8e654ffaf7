package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"auraflux-be/internal/dto"
	"auraflux-be/internal/pkg/serverutils"
	"auraflux-be/internal/service"
)

type IWorkflowController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	GetChatHistory(ctx *fiber.Ctx) error
	SubmitChatInput(ctx *fiber.Ctx) error
	GetRefinedTopic(ctx *fiber.Ctx) error
	AdvanceStage(ctx *fiber.Ctx) error
}

type workflowController struct {
	workflowService service.IWorkflowService
}

func NewWorkflowController(workflowService service.IWorkflowService) IWorkflowController {
	return &workflowController{
		workflowService: workflowService,
	}
}

func (c *workflowController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/workflow/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("", c.Create)
	h.Get(":session_id", c.Show)
	h.Get(":session_id/chat", c.GetChatHistory)
	h.Post(":session_id/chat", c.SubmitChatInput)
	h.Get(":session_id/topic", c.GetRefinedTopic)
	h.Post(":session_id/advance", c.AdvanceStage)
}

func (c *workflowController) Create(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.CreateWorkflowRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	res, err := c.workflowService.Create(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create workflow", res))
}

func (c *workflowController) Show(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	sessionId, err := uuid.Parse(ctx.Params("session_id"))
	if err != nil {
		return serverutils.NewBadRequestError("Invalid session id")
	}

	res, err := c.workflowService.Show(ctx.Context(), userId, sessionId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show workflow", res))
}

func (c *workflowController) GetChatHistory(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	sessionId, err := uuid.Parse(ctx.Params("session_id"))
	if err != nil {
		return serverutils.NewBadRequestError("Invalid session id")
	}

	res, err := c.workflowService.GetChatHistory(ctx.Context(), userId, sessionId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get chat history", res))
}

// SubmitChatInput accepts the turn and returns 202 immediately; the reply
// streams back over the websocket.
func (c *workflowController) SubmitChatInput(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	sessionId, err := uuid.Parse(ctx.Params("session_id"))
	if err != nil {
		return serverutils.NewBadRequestError("Invalid session id")
	}

	var req dto.ChatInputRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.workflowService.SubmitChatInput(ctx.Context(), userId, sessionId, &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse("Chat input accepted", res))
}

func (c *workflowController) GetRefinedTopic(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	sessionId, err := uuid.Parse(ctx.Params("session_id"))
	if err != nil {
		return serverutils.NewBadRequestError("Invalid session id")
	}

	res, err := c.workflowService.GetRefinedTopic(ctx.Context(), userId, sessionId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get refined topic", res))
}

func (c *workflowController) AdvanceStage(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	sessionId, err := uuid.Parse(ctx.Params("session_id"))
	if err != nil {
		return serverutils.NewBadRequestError("Invalid session id")
	}

	res, err := c.workflowService.AdvanceStage(ctx.Context(), userId, sessionId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success advance stage", res))
}
