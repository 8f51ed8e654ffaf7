package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"auraflux-be/internal/dto"
	"auraflux-be/internal/pkg/serverutils"
	"auraflux-be/internal/service"
)

type IKnowledgeController interface {
	RegisterRoutes(r fiber.Router)
}

type knowledgeController struct {
	knowledgeService service.IKnowledgeService
}

func NewKnowledgeController(knowledgeService service.IKnowledgeService) IKnowledgeController {
	return &knowledgeController{
		knowledgeService: knowledgeService,
	}
}

func (c *knowledgeController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/workflow/v1/:session_id")
	h.Use(serverutils.JwtMiddleware)
	h.Get("keywords", c.ListKeywords)
	h.Post("keywords", c.CreateKeyword)
	h.Put("keywords/:id", c.UpdateKeyword)
	h.Get("scope-elements", c.ListScopeElements)
	h.Post("scope-elements", c.CreateScopeElement)
	h.Put("scope-elements/:id", c.UpdateScopeElement)
	h.Get("reflections", c.ListReflectionLogs)
	h.Post("reflections", c.CreateReflectionLog)
	h.Put("reflections/:id", c.UpdateReflectionLog)
}

func (c *knowledgeController) parseIds(ctx *fiber.Ctx) (uuid.UUID, uuid.UUID, error) {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	sessionId, err := uuid.Parse(ctx.Params("session_id"))
	if err != nil {
		return uuid.Nil, uuid.Nil, serverutils.NewBadRequestError("Invalid session id")
	}
	return userId, sessionId, nil
}

func (c *knowledgeController) CreateKeyword(ctx *fiber.Ctx) error {
	userId, sessionId, err := c.parseIds(ctx)
	if err != nil {
		return err
	}

	var req dto.CreateTopicKeywordRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.knowledgeService.CreateKeyword(ctx.Context(), userId, sessionId, &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create keyword", res))
}

func (c *knowledgeController) UpdateKeyword(ctx *fiber.Ctx) error {
	userId, sessionId, err := c.parseIds(ctx)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.NewBadRequestError("Invalid keyword id")
	}

	var req dto.UpdateTopicKeywordRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.Id = id
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.knowledgeService.UpdateKeyword(ctx.Context(), userId, sessionId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update keyword", res))
}

func (c *knowledgeController) ListKeywords(ctx *fiber.Ctx) error {
	userId, sessionId, err := c.parseIds(ctx)
	if err != nil {
		return err
	}

	res, err := c.knowledgeService.ListKeywords(ctx.Context(), userId, sessionId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list keywords", res))
}

func (c *knowledgeController) CreateScopeElement(ctx *fiber.Ctx) error {
	userId, sessionId, err := c.parseIds(ctx)
	if err != nil {
		return err
	}

	var req dto.CreateScopeElementRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.knowledgeService.CreateScopeElement(ctx.Context(), userId, sessionId, &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create scope element", res))
}

func (c *knowledgeController) UpdateScopeElement(ctx *fiber.Ctx) error {
	userId, sessionId, err := c.parseIds(ctx)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.NewBadRequestError("Invalid scope element id")
	}

	var req dto.UpdateScopeElementRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.Id = id
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.knowledgeService.UpdateScopeElement(ctx.Context(), userId, sessionId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update scope element", res))
}

func (c *knowledgeController) ListScopeElements(ctx *fiber.Ctx) error {
	userId, sessionId, err := c.parseIds(ctx)
	if err != nil {
		return err
	}

	res, err := c.knowledgeService.ListScopeElements(ctx.Context(), userId, sessionId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list scope elements", res))
}

func (c *knowledgeController) CreateReflectionLog(ctx *fiber.Ctx) error {
	userId, sessionId, err := c.parseIds(ctx)
	if err != nil {
		return err
	}

	var req dto.CreateReflectionLogRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.knowledgeService.CreateReflectionLog(ctx.Context(), userId, sessionId, &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create reflection log", res))
}

func (c *knowledgeController) UpdateReflectionLog(ctx *fiber.Ctx) error {
	userId, sessionId, err := c.parseIds(ctx)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.NewBadRequestError("Invalid reflection log id")
	}

	var req dto.UpdateReflectionLogRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.Id = id
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.knowledgeService.UpdateReflectionLog(ctx.Context(), userId, sessionId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update reflection log", res))
}

func (c *knowledgeController) ListReflectionLogs(ctx *fiber.Ctx) error {
	userId, sessionId, err := c.parseIds(ctx)
	if err != nil {
		return err
	}

	res, err := c.knowledgeService.ListReflectionLogs(ctx.Context(), userId, sessionId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list reflection logs", res))
}
