// internal/handlers/catalog.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/pimstack/pim-backend/internal/services"
	"github.com/pimstack/pim-backend/internal/utils"
)

type CatalogHandler struct {
	catalogService *services.CatalogService
}

func NewCatalogHandler(catalogService *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// Categories

// GET /categories
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	rows, err := h.catalogService.ListCategories()
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, rows)
}

// GET /categories/:id
func (h *CatalogHandler) GetCategory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	row, err := h.catalogService.GetCategory(id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, row)
}

// POST /categories
func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req services.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}
	row, err := h.catalogService.CreateCategory(&req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.CreatedResponse(c, "Category created successfully", row)
}

// PUT /categories/:id
func (h *CatalogHandler) UpdateCategory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req services.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}
	row, err := h.catalogService.UpdateCategory(id, &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessMessageResponse(c, "Category updated successfully", row)
}

// DELETE /categories/:id
func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.catalogService.DeleteCategory(id); err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessMessageResponse(c, "Category deleted successfully", gin.H{"id": id})
}

// Status types

// GET /status-types
func (h *CatalogHandler) ListStatusTypes(c *gin.Context) {
	rows, err := h.catalogService.ListStatusTypes()
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, rows)
}

// GET /status-types/:id
func (h *CatalogHandler) GetStatusType(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	row, err := h.catalogService.GetStatusType(id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, row)
}

// POST /status-types
func (h *CatalogHandler) CreateStatusType(c *gin.Context) {
	var req services.StatusTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}
	row, err := h.catalogService.CreateStatusType(&req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.CreatedResponse(c, "Status type created successfully", row)
}

// PUT /status-types/:id
func (h *CatalogHandler) UpdateStatusType(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req services.StatusTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}
	row, err := h.catalogService.UpdateStatusType(id, &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessMessageResponse(c, "Status type updated successfully", row)
}

// DELETE /status-types/:id
func (h *CatalogHandler) DeleteStatusType(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.catalogService.DeleteStatusType(id); err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessMessageResponse(c, "Status type deleted successfully", gin.H{"id": id})
}

// Property types

// GET /property-types
func (h *CatalogHandler) ListPropertyTypes(c *gin.Context) {
	rows, err := h.catalogService.ListPropertyTypes()
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, rows)
}

// GET /property-types/:id
func (h *CatalogHandler) GetPropertyType(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	row, err := h.catalogService.GetPropertyType(id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, row)
}

// POST /property-types
func (h *CatalogHandler) CreatePropertyType(c *gin.Context) {
	var req services.PropertyTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}
	row, err := h.catalogService.CreatePropertyType(&req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.CreatedResponse(c, "Property type created successfully", row)
}

// PUT /property-types/:id
func (h *CatalogHandler) UpdatePropertyType(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req services.PropertyTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}
	row, err := h.catalogService.UpdatePropertyType(id, &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessMessageResponse(c, "Property type updated successfully", row)
}

// DELETE /property-types/:id
func (h *CatalogHandler) DeletePropertyType(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.catalogService.DeletePropertyType(id); err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessMessageResponse(c, "Property type deleted successfully", gin.H{"id": id})
}

// Languages

// GET /languages
func (h *CatalogHandler) ListLanguages(c *gin.Context) {
	rows, err := h.catalogService.ListLanguages()
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, rows)
}

// GET /languages/:id
func (h *CatalogHandler) GetLanguage(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	row, err := h.catalogService.GetLanguage(id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, row)
}

// POST /languages
func (h *CatalogHandler) CreateLanguage(c *gin.Context) {
	var req services.LanguageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}
	row, err := h.catalogService.CreateLanguage(&req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.CreatedResponse(c, "Language created successfully", row)
}

// PUT /languages/:id
func (h *CatalogHandler) UpdateLanguage(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req services.LanguageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}
	row, err := h.catalogService.UpdateLanguage(id, &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessMessageResponse(c, "Language updated successfully", row)
}

// DELETE /languages/:id
func (h *CatalogHandler) DeleteLanguage(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.catalogService.DeleteLanguage(id); err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessMessageResponse(c, "Language deleted successfully", gin.H{"id": id})
}

// Packaging logistics fields

// GET /packaging-logistics-fields
func (h *CatalogHandler) ListPackagingFields(c *gin.Context) {
	rows, err := h.catalogService.ListPackagingFields()
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, rows)
}

// GET /packaging-logistics-fields/:id
func (h *CatalogHandler) GetPackagingField(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	row, err := h.catalogService.GetPackagingField(id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, row)
}

// POST /packaging-logistics-fields
func (h *CatalogHandler) CreatePackagingField(c *gin.Context) {
	var req services.PackagingFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}
	row, err := h.catalogService.CreatePackagingField(&req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.CreatedResponse(c, "Packaging logistics field created successfully", row)
}

// PUT /packaging-logistics-fields/:id
func (h *CatalogHandler) UpdatePackagingField(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req services.PackagingFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}
	row, err := h.catalogService.UpdatePackagingField(id, &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessMessageResponse(c, "Packaging logistics field updated successfully", row)
}

// DELETE /packaging-logistics-fields/:id
func (h *CatalogHandler) DeletePackagingField(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.catalogService.DeletePackagingField(id); err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessMessageResponse(c, "Packaging logistics field deleted successfully", gin.H{"id": id})
}
