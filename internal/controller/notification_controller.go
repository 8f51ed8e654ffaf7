package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"auraflux-be/internal/pkg/serverutils"
	"auraflux-be/internal/service"
)

type INotificationController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	UnreadCount(ctx *fiber.Ctx) error
	MarkAsRead(ctx *fiber.Ctx) error
	MarkAllAsRead(ctx *fiber.Ctx) error
}

type notificationController struct {
	notificationService *service.NotificationService
}

func NewNotificationController(notificationService *service.NotificationService) INotificationController {
	return &notificationController{
		notificationService: notificationService,
	}
}

func (c *notificationController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/notification/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("", c.List)
	h.Get("unread-count", c.UnreadCount)
	h.Put("read-all", c.MarkAllAsRead)
	h.Put(":id/read", c.MarkAsRead)
}

func (c *notificationController) List(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	limit := ctx.QueryInt("limit", 20)
	offset := ctx.QueryInt("offset", 0)

	notifications, total, err := c.notificationService.GetNotifications(ctx.Context(), userId, limit, offset)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list notifications", fiber.Map{
		"items": notifications,
		"total": total,
	}))
}

func (c *notificationController) UnreadCount(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	count, err := c.notificationService.GetUnreadCount(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get unread count", fiber.Map{"count": count}))
}

func (c *notificationController) MarkAsRead(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.NewBadRequestError("Invalid notification id")
	}

	if err := c.notificationService.MarkAsRead(ctx.Context(), id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Notification marked as read", nil))
}

func (c *notificationController) MarkAllAsRead(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	if err := c.notificationService.MarkAllAsRead(ctx.Context(), userId); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("All notifications marked as read", nil))
}
