// internal/services/common.go
package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/pimstack/pim-backend/internal/apperrors"
)

// DefaultQueryTimeout caps every store call so a stalled database surfaces
// as StoreUnavailable instead of a hung request.
const DefaultQueryTimeout = 10 * time.Second

// timedSession returns a session whose queries are bounded by the timeout.
func timedSession(db *gorm.DB, timeout time.Duration) (*gorm.DB, context.CancelFunc) {
	if timeout <= 0 {
		timeout = DefaultQueryTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	return db.WithContext(ctx), cancel
}

func storeError(err error, message string) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return apperrors.StoreUnavailable(err)
	}
	return apperrors.Wrap(err, message)
}
