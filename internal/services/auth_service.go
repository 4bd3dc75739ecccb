// internal/services/auth_service.go
package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/pimstack/pim-backend/internal/apperrors"
	"github.com/pimstack/pim-backend/internal/models"
	"github.com/pimstack/pim-backend/internal/utils"
)

type AuthService struct {
	db       *gorm.DB
	tokenTTL int
	timeout  time.Duration
}

func NewAuthService(db *gorm.DB, tokenTTLHours int, timeout time.Duration) *AuthService {
	return &AuthService{db: db, tokenTTL: tokenTTLHours, timeout: timeout}
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Login verifies credentials and issues a signed access token. Unknown
// username and wrong password produce the same error, so the response
// never reveals which half failed.
func (s *AuthService) Login(req *LoginRequest) (*LoginResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Validation("%s", utils.FirstValidationMessage(err))
	}

	db, cancel := timedSession(s.db, s.timeout)
	defer cancel()

	var user models.User
	if err := db.Where("username = ?", req.Username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Auth("invalid username or password")
		}
		return nil, storeError(err, "failed to fetch user")
	}

	if !user.CheckPassword(req.Password) {
		return nil, apperrors.Auth("invalid username or password")
	}

	token, err := utils.GenerateJWT(user.ID, user.Username, string(user.Role), s.tokenTTL)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	return &LoginResponse{Token: token, User: &user}, nil
}

// Me returns the account behind an authenticated request.
func (s *AuthService) Me(userID uint) (*models.User, error) {
	db, cancel := timedSession(s.db, s.timeout)
	defer cancel()

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("User")
		}
		return nil, storeError(err, "failed to fetch user")
	}
	return &user, nil
}
