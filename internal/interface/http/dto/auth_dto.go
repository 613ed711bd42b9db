package dto

import (
	"github.com/google/uuid"

	"github.com/ignatzorin/barter-backend/internal/domain/entity"
	"github.com/ignatzorin/barter-backend/internal/service"
)

type RegisterRequest struct {
	Username     string   `json:"username" binding:"omitempty,min=3,max=30"`
	Email        string   `json:"email" binding:"required,email"`
	Password     string   `json:"password" binding:"required,min=8,max=72"`
	Role         string   `json:"role" binding:"required,oneof=client freelancer"`
	Skills       []string `json:"skills" binding:"omitempty,max=50,dive,max=50"`
	BarterSkills []string `json:"barterSkills" binding:"omitempty,max=50,dive,max=50"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest: отсутствующее поле не меняется.
type UpdateProfileRequest struct {
	Username     *string  `json:"username" binding:"omitempty,min=3,max=30"`
	Email        *string  `json:"email" binding:"omitempty,email"`
	Skills       []string `json:"skills" binding:"omitempty,max=50,dive,max=50"`
	BarterSkills []string `json:"barterSkills" binding:"omitempty,max=50,dive,max=50"`
}

type AuthResponse struct {
	Token    string    `json:"token"`
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Role     string    `json:"role"`
}

type UserResponse struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	Skills       []string  `json:"skills"`
	BarterSkills []string  `json:"barterSkills"`
	CreatedAt    string    `json:"createdAt"`
}

func (r RegisterRequest) ToInput() service.RegisterInput {
	return service.RegisterInput{
		Username:     r.Username,
		Email:        r.Email,
		Password:     r.Password,
		Role:         r.Role,
		Skills:       r.Skills,
		BarterSkills: r.BarterSkills,
	}
}

func (r UpdateProfileRequest) ToInput() service.UpdateProfileInput {
	return service.UpdateProfileInput{
		Username:     r.Username,
		Email:        r.Email,
		Skills:       r.Skills,
		BarterSkills: r.BarterSkills,
	}
}

func ToAuthResponse(result *service.AuthResult) AuthResponse {
	return AuthResponse{
		Token:    result.Token,
		ID:       result.User.ID,
		Username: result.User.Username,
		Role:     string(result.User.Role),
	}
}

func ToUserResponse(user *entity.User) UserResponse {
	return UserResponse{
		ID:           user.ID,
		Username:     user.Username,
		Email:        user.Email,
		Role:         string(user.Role),
		Skills:       user.Skills.Strings(),
		BarterSkills: user.BarterSkills.Strings(),
		CreatedAt:    formatTime(user.CreatedAt),
	}
}
