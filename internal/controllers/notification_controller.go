package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fiich/fiich-server/internal/logics"
)

// NotificationController exposes the per-user notification feed.
type NotificationController struct {
	notificationService *logics.NotificationService
}

func NewNotificationController(notificationService *logics.NotificationService) *NotificationController {
	return &NotificationController{notificationService: notificationService}
}

// ListNotifications handles GET /notifications.
func (nc *NotificationController) ListNotifications(c echo.Context) error {
	identity, err := identityFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	}

	notifications, err := nc.notificationService.ListForUser(c.Request().Context(), identity.UserID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, notifications)
}

// MarkNotificationRead handles PUT /notifications/:id/read.
func (nc *NotificationController) MarkNotificationRead(c echo.Context) error {
	identity, err := identityFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	}
	notifID, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := nc.notificationService.MarkRead(c.Request().Context(), identity.UserID, notifID); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}
