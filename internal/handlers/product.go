// internal/handlers/product.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pimstack/pim-backend/internal/services"
	"github.com/pimstack/pim-backend/internal/utils"
)

type ProductHandler struct {
	productService *services.ProductService
	storageService *services.StorageService
}

func NewProductHandler(productService *services.ProductService, storageService *services.StorageService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		storageService: storageService,
	}
}

// GET /products
func (h *ProductHandler) ListProducts(c *gin.Context) {
	products, err := h.productService.ListProducts()
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, products)
}

// POST /products
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req services.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	var userID *uint
	if id, ok := utils.GetUserIDFromContext(c); ok {
		userID = &id
	}

	product, err := h.productService.CreateProduct(&req, userID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.CreatedResponse(c, "Product created successfully", product)
}

// GET /products/:id
// The first path segment doubles as the search keyword: "search" is never
// a product id.
func (h *ProductHandler) GetProduct(c *gin.Context) {
	if c.Param("id") == "search" {
		utils.BadRequestResponse(c, "Search term is required")
		return
	}

	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	product, err := h.productService.GetProduct(id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, product)
}

// GET /products/search/:term
func (h *ProductHandler) SearchProducts(c *gin.Context, term string) {
	products, err := h.productService.SearchProducts(term)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, products)
}

// PUT /products/:id
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req services.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	var userID *uint
	if uid, ok := utils.GetUserIDFromContext(c); ok {
		userID = &uid
	}

	product, err := h.productService.UpdateProduct(id, &req, userID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessMessageResponse(c, "Product updated successfully", product)
}

// DELETE /products/:id
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.productService.DeleteProduct(id); err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessMessageResponse(c, "Product deleted successfully", gin.H{"id": id})
}

// POST /products/:id/image
func (h *ProductHandler) UploadProductImage(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	// Verify the product before touching storage.
	if _, err := h.productService.GetProduct(id); err != nil {
		utils.HandleError(c, err)
		return
	}

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		utils.BadRequestResponse(c, "Image file is required")
		return
	}
	defer file.Close()

	result, err := h.storageService.UploadProductImage(id, file, header)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	product, err := h.productService.SetImagePath(id, result.Path)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessMessageResponse(c, "Image uploaded successfully", gin.H{
		"product": product,
		"upload":  result,
	})
}

func parseID(c *gin.Context, param string) (uint, bool) {
	raw := c.Param(param)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		utils.BadRequestResponse(c, "Invalid id: "+raw)
		return 0, false
	}
	return uint(id), true
}
