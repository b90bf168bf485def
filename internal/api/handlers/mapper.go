package handlers

import (
	"time"

	"github.com/sysovo-official/clockify-backend/internal/api/dto"
	"github.com/sysovo-official/clockify-backend/internal/domain/user"
)

// UserToResponse converts a user model to its API shape
func UserToResponse(u *user.User) dto.UserResponse {
	var subRole *string
	if u.SubRole != nil {
		s := string(*u.SubRole)
		subRole = &s
	}
	return dto.UserResponse{
		ID:        u.ID.String(),
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		SubRole:   subRole,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}
