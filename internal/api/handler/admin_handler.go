package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tenderdesk/caseforum/internal/core/ports"
)

// AdminHandler exposes the admin set to admins.
type AdminHandler struct {
	admins ports.AdminService
}

func NewAdminHandler(admins ports.AdminService) *AdminHandler {
	return &AdminHandler{admins: admins}
}

// List returns every admin record.
//
// @Summary      List admins
// @Tags         admins
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Admin
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /v1/admins [get]
func (h *AdminHandler) List(c echo.Context) error {
	admins, err := h.admins.ListAdmins(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, admins)
}
