package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"hostify/internal/models"
)

type NotificationHandler struct {
	svc *Services
}

func (h *NotificationHandler) List(c echo.Context) error {
	list, err := h.svc.Dispatcher.ListNotifications(models.AudienceUser, currentUserID(c), c.QueryParam("unread") == "true")
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *NotificationHandler) AdminList(c echo.Context) error {
	list, err := h.svc.Dispatcher.ListNotifications(models.AudienceAdmin, 0, c.QueryParam("unread") == "true")
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *NotificationHandler) MarkRead(c echo.Context) error {
	if err := h.svc.Dispatcher.MarkRead(models.AudienceUser, currentUserID(c), c.Param("uuid")); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "marked as read"})
}

func (h *NotificationHandler) AdminMarkRead(c echo.Context) error {
	if err := h.svc.Dispatcher.MarkRead(models.AudienceAdmin, 0, c.Param("uuid")); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "marked as read"})
}

func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	if err := h.svc.Dispatcher.MarkAllRead(models.AudienceUser, currentUserID(c)); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "all marked as read"})
}

func (h *NotificationHandler) AdminMarkAllRead(c echo.Context) error {
	if err := h.svc.Dispatcher.MarkAllRead(models.AudienceAdmin, 0); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "all marked as read"})
}
