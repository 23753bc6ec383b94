package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"hostify/internal/models"
)

type SettingsHandler struct {
	svc *Services
}

// Public serves the unauthenticated typed-value map of public settings.
func (h *SettingsHandler) Public(c echo.Context) error {
	settings, err := h.svc.Settings.PublicSettings(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, settings)
}

func (h *SettingsHandler) AdminList(c echo.Context) error {
	settings, err := h.svc.Settings.ListAll()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, settings)
}

type upsertSettingRequest struct {
	Value  string `json:"value"`
	Type   string `json:"type" validate:"omitempty,oneof=string number boolean json"`
	Public bool   `json:"public"`
}

func (h *SettingsHandler) AdminUpsert(c echo.Context) error {
	var req upsertSettingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid setting payload"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	setting := models.Setting{
		Key:    c.Param("key"),
		Value:  req.Value,
		Type:   req.Type,
		Public: req.Public,
	}
	if err := h.svc.Settings.Upsert(c.Request().Context(), &setting); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, setting)
}

func (h *SettingsHandler) AdminDelete(c echo.Context) error {
	if err := h.svc.Settings.Delete(c.Request().Context(), c.Param("key")); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
