package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/barter-backend/internal/domain/valueobject"
)

type User struct {
	ID           uuid.UUID
	Username     string
	Email        string
	PasswordHash string
	Role         valueobject.Role
	Skills       valueobject.SkillSet
	BarterSkills valueobject.SkillSet
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func NewUser(username, email, passwordHash string, role valueobject.Role, skills, barterSkills []string) *User {
	now := time.Now()
	return &User{
		ID:           uuid.New(),
		Username:     strings.TrimSpace(username),
		Email:        NormalizeEmail(email),
		PasswordHash: passwordHash,
		Role:         role,
		Skills:       valueobject.NewSkillSet(skills),
		BarterSkills: valueobject.NewSkillSet(barterSkills),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// UpdateProfile меняет только переданные поля. Роль не меняется никогда.
func (u *User) UpdateProfile(username, email *string, skills, barterSkills []string) {
	if username != nil {
		u.Username = strings.TrimSpace(*username)
	}
	if email != nil {
		u.Email = NormalizeEmail(*email)
	}
	if skills != nil {
		u.Skills = valueobject.NewSkillSet(skills)
	}
	if barterSkills != nil {
		u.BarterSkills = valueobject.NewSkillSet(barterSkills)
	}
	u.UpdatedAt = time.Now()
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
