// internal/handlers/system.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/pimstack/pim-backend/internal/services"
	"github.com/pimstack/pim-backend/internal/utils"
)

type SystemHandler struct {
	systemService *services.SystemService
}

func NewSystemHandler(systemService *services.SystemService) *SystemHandler {
	return &SystemHandler{systemService: systemService}
}

// GET /system/status
func (h *SystemHandler) Status(c *gin.Context) {
	status, err := h.systemService.Status()
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, status)
}

// GET /system/version
func (h *SystemHandler) Version(c *gin.Context) {
	utils.SuccessResponse(c, h.systemService.Version())
}

// GET /sap/inventory/:id
func (h *SystemHandler) Inventory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	inventory, err := h.systemService.Inventory(id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, inventory)
}
