package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/barter-backend/internal/domain/valueobject"
	"github.com/ignatzorin/barter-backend/internal/pkg/apperror"
)

type Project struct {
	ID                     uuid.UUID
	ClientID               uuid.UUID
	Title                  string
	Description            string
	PreferredPaymentMethod valueobject.PaymentMethod
	SkillsRequired         valueobject.SkillSet
	Status                 valueobject.ProjectStatus
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

func NewProject(clientID uuid.UUID, title, description, paymentMethod string, skillsRequired []string) (*Project, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperror.New(apperror.ErrCodeValidation, "название проекта обязательно")
	}

	method, err := valueobject.NewPaymentMethod(paymentMethod)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	return &Project{
		ID:                     uuid.New(),
		ClientID:               clientID,
		Title:                  title,
		Description:            strings.TrimSpace(description),
		PreferredPaymentMethod: method,
		SkillsRequired:         valueobject.NewSkillSet(skillsRequired),
		Status:                 valueobject.ProjectStatusOpen,
		CreatedAt:              now,
		UpdatedAt:              now,
	}, nil
}

func (p *Project) IsOwnedBy(userID uuid.UUID) bool {
	return p.ClientID == userID
}

func (p *Project) IsOpen() bool {
	return p.Status == valueobject.ProjectStatusOpen
}

// StartWork переводит проект в работу. Вызывается только каскадом принятия заявки.
func (p *Project) StartWork() error {
	if !p.IsOpen() {
		return apperror.New(apperror.ErrCodeConflict, "проект уже не принимает заявки")
	}
	p.Status = valueobject.ProjectStatusInProgress
	p.UpdatedAt = time.Now()
	return nil
}

// ChangeStatus применяет ручной переход владельца.
func (p *Project) ChangeStatus(newStatus valueobject.ProjectStatus) error {
	if !p.Status.CanTransitionTo(newStatus) {
		return apperror.New(apperror.ErrCodeConflict, "недопустимый переход статуса проекта")
	}
	p.Status = newStatus
	p.UpdatedAt = time.Now()
	return nil
}

func (p *Project) CanBeDeleted() error {
	if !p.IsOpen() {
		return apperror.New(apperror.ErrCodeConflict, "удалить можно только открытый проект")
	}
	return nil
}
