// internal/handlers/auth.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/pimstack/pim-backend/internal/services"
	"github.com/pimstack/pim-backend/internal/utils"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	result, err := h.authService.Login(&req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessMessageResponse(c, "Login successful", result)
}

// POST /auth/logout
//
// Tokens are stateless, so logout is an acknowledgement that tells the
// client to discard its token.
func (h *AuthHandler) Logout(c *gin.Context) {
	utils.SuccessMessageResponse(c, "Logout successful", nil)
}

// GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := utils.GetUserIDFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	user, err := h.authService.Me(userID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, user)
}
