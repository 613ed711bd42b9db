package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/barter-backend/internal/domain/entity"
	"github.com/ignatzorin/barter-backend/internal/usecase/project"
)

type CreateProjectRequest struct {
	Title                  string   `json:"title" binding:"required,max=200"`
	Description            string   `json:"description" binding:"max=5000"`
	PreferredPaymentMethod string   `json:"preferredPaymentMethod" binding:"omitempty,oneof=skill money both"`
	SkillsRequired         []string `json:"skillsRequired" binding:"omitempty,max=50,dive,max=50"`
}

type UpdateProjectStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// PersonResponse: пользователь, прикреплённый к проекту или заявке.
// Пустые поля не выводятся: каждый маршрут отдаёт свой набор.
type PersonResponse struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email,omitempty"`
	Skills       []string  `json:"skills,omitempty"`
	BarterSkills []string  `json:"barterSkills,omitempty"`
}

type ProjectResponse struct {
	ID                     uuid.UUID       `json:"id"`
	ClientID               uuid.UUID       `json:"clientId"`
	Client                 *PersonResponse `json:"client,omitempty"`
	Title                  string          `json:"title"`
	Description            string          `json:"description"`
	PreferredPaymentMethod string          `json:"preferredPaymentMethod"`
	SkillsRequired         []string        `json:"skillsRequired"`
	Status                 string          `json:"status"`
	CreatedAt              string          `json:"createdAt"`
	UpdatedAt              string          `json:"updatedAt"`
}

func (r CreateProjectRequest) ToInput(clientID uuid.UUID) project.CreateProjectInput {
	return project.CreateProjectInput{
		ClientID:               clientID,
		Title:                  r.Title,
		Description:            r.Description,
		PreferredPaymentMethod: r.PreferredPaymentMethod,
		SkillsRequired:         r.SkillsRequired,
	}
}

func ToProjectResponse(p *entity.Project) ProjectResponse {
	return ProjectResponse{
		ID:                     p.ID,
		ClientID:               p.ClientID,
		Title:                  p.Title,
		Description:            p.Description,
		PreferredPaymentMethod: string(p.PreferredPaymentMethod),
		SkillsRequired:         p.SkillsRequired.Strings(),
		Status:                 string(p.Status),
		CreatedAt:              formatTime(p.CreatedAt),
		UpdatedAt:              formatTime(p.UpdatedAt),
	}
}

// ToProjectWithClientResponse добавляет заказчика. withEmail включается только
// для карточки проекта.
func ToProjectWithClientResponse(p *entity.ProjectWithClient, withEmail bool) ProjectResponse {
	resp := ToProjectResponse(p.Project)
	client := PersonResponse{ID: p.Client.ID, Username: p.Client.Username}
	if withEmail {
		client.Email = p.Client.Email
	}
	resp.Client = &client
	return resp
}

func ToProjectWithClientResponses(projects []*entity.ProjectWithClient) []ProjectResponse {
	responses := make([]ProjectResponse, 0, len(projects))
	for _, p := range projects {
		responses = append(responses, ToProjectWithClientResponse(p, false))
	}
	return responses
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
