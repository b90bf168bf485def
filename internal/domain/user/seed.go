package user

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// SeedCEO creates the bootstrap CEO account if it does not exist yet.
// Failures are logged and never abort startup.
func SeedCEO(ctx context.Context, repo Repository, email, password string, logger *zap.Logger) {
	if email == "" || password == "" {
		logger.Warn("CEO seed skipped: admin credentials not configured")
		return
	}

	if _, err := repo.FindByEmail(ctx, email); err == nil {
		return
	} else if !errors.Is(err, ErrUserNotFound) {
		logger.Error("CEO seed lookup failed", zap.Error(err))
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("CEO seed failed to hash password", zap.Error(err))
		return
	}

	ceo := &User{
		ID:           uuid.New(),
		Name:         "CEO",
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         RoleCEO,
	}

	if err := repo.Create(ctx, ceo); err != nil {
		logger.Error("CEO seed failed", zap.Error(err))
		return
	}

	logger.Info("CEO account created", zap.String("email", email))
}
