package entity

import (
	"github.com/google/uuid"
	"github.com/ignatzorin/barter-backend/internal/domain/valueobject"
)

// UserSummary: публичная часть пользователя, которую прикрепляют к проектам и заявкам.
type UserSummary struct {
	ID           uuid.UUID
	Username     string
	Email        string
	Skills       valueobject.SkillSet
	BarterSkills valueobject.SkillSet
}

func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		Skills:       u.Skills,
		BarterSkills: u.BarterSkills,
	}
}

type ProjectWithClient struct {
	*Project
	Client UserSummary
}

type BidWithFreelancer struct {
	*Bid
	Freelancer UserSummary
}

// BidWithProject: заявка фрилансера вместе с проектом и его заказчиком.
type BidWithProject struct {
	*Bid
	Project *Project
	Client  UserSummary
}

// BidWithDetails возвращается после смены статуса заявки.
type BidWithDetails struct {
	*Bid
	Project    *Project
	Freelancer UserSummary
}
