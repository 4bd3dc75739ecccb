// internal/handlers/product_children.go
package handlers

import (
	"io"

	"github.com/gin-gonic/gin"

	"github.com/pimstack/pim-backend/internal/models"
	"github.com/pimstack/pim-backend/internal/services"
	"github.com/pimstack/pim-backend/internal/utils"
)

type ChildHandler struct {
	childService   *services.ChildService
	productService *services.ProductService
}

func NewChildHandler(childService *services.ChildService, productService *services.ProductService) *ChildHandler {
	return &ChildHandler{
		childService:   childService,
		productService: productService,
	}
}

// GET /products/:id/:child
func (h *ChildHandler) ListChildren(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	childParam := c.Param("child")
	if childParam == "completion" {
		h.getCompletion(c, id)
		return
	}

	kind, ok := parseChildKind(c, childParam)
	if !ok {
		return
	}

	rows, err := h.childService.List(id, kind)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, rows)
}

// POST /products/:id/:child
func (h *ChildHandler) CreateChild(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	kind, ok := parseChildKind(c, c.Param("child"))
	if !ok {
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		utils.BadRequestResponse(c, "Failed to read request body")
		return
	}

	created, err := h.childService.Create(id, kind, body)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.CreatedResponse(c, "Created successfully", created)
}

// GET /products/:id/:child/:childID
func (h *ChildHandler) GetChildItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	kind, ok := parseChildKind(c, c.Param("child"))
	if !ok {
		return
	}

	childID, ok := parseID(c, "childID")
	if !ok {
		return
	}

	row, err := h.childService.GetItem(id, kind, childID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, row)
}

// PUT /products/:id/:child/:childID
func (h *ChildHandler) UpdateChild(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	kind, ok := parseChildKind(c, c.Param("child"))
	if !ok {
		return
	}

	childID, ok := parseID(c, "childID")
	if !ok {
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		utils.BadRequestResponse(c, "Failed to read request body")
		return
	}

	updated, err := h.childService.Update(id, kind, childID, body)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessMessageResponse(c, "Updated successfully", updated)
}

// DELETE /products/:id/:child/:childID
func (h *ChildHandler) DeleteChild(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	kind, ok := parseChildKind(c, c.Param("child"))
	if !ok {
		return
	}

	childID, ok := parseID(c, "childID")
	if !ok {
		return
	}

	if err := h.childService.Delete(id, kind, childID); err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessMessageResponse(c, "Deleted successfully", gin.H{"id": childID})
}

func (h *ChildHandler) getCompletion(c *gin.Context, productID uint) {
	product, err := h.productService.GetProduct(productID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{
		"product_id": product.ID,
		"completion": product.Completion,
	})
}

func parseChildKind(c *gin.Context, raw string) (models.ChildKind, bool) {
	if !models.IsChildKind(raw) {
		utils.BadRequestResponse(c, "Unknown child collection: "+raw)
		return "", false
	}
	return models.ChildKind(raw), true
}
