package client

import (
	"fmt"
	"time"
)

// APIError: ошибка, которую вернул сервер в конверте ответа.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (%d): %s", e.Code, e.Status, e.Message)
}

type Session struct {
	Token    string `json:"token"`
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type RegisterParams struct {
	Username     string   `json:"username,omitempty"`
	Email        string   `json:"email"`
	Password     string   `json:"password"`
	Role         string   `json:"role"`
	Skills       []string `json:"skills,omitempty"`
	BarterSkills []string `json:"barterSkills,omitempty"`
}

// ProfileUpdate: nil-поля сервер не трогает, пустой срез очищает набор навыков.
type ProfileUpdate struct {
	Username     *string  `json:"username,omitempty"`
	Email        *string  `json:"email,omitempty"`
	Skills       []string `json:"skills"`
	BarterSkills []string `json:"barterSkills"`
}

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	Skills       []string  `json:"skills"`
	BarterSkills []string  `json:"barterSkills"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Person struct {
	ID           string   `json:"id"`
	Username     string   `json:"username"`
	Email        string   `json:"email,omitempty"`
	Skills       []string `json:"skills,omitempty"`
	BarterSkills []string `json:"barterSkills,omitempty"`
}

type NewProject struct {
	Title                  string   `json:"title"`
	Description            string   `json:"description,omitempty"`
	PreferredPaymentMethod string   `json:"preferredPaymentMethod,omitempty"`
	SkillsRequired         []string `json:"skillsRequired,omitempty"`
}

type Project struct {
	ID                     string    `json:"id"`
	ClientID               string    `json:"clientId"`
	Client                 *Person   `json:"client"`
	Title                  string    `json:"title"`
	Description            string    `json:"description"`
	PreferredPaymentMethod string    `json:"preferredPaymentMethod"`
	SkillsRequired         []string  `json:"skillsRequired"`
	Status                 string    `json:"status"`
	CreatedAt              time.Time `json:"createdAt"`
	UpdatedAt              time.Time `json:"updatedAt"`
}

// ProjectFilter: необязательные фильтры списка открытых проектов.
type ProjectFilter struct {
	Skill         string
	PaymentMethod string
}

type NewBid struct {
	ProjectID    string   `json:"projectId"`
	ProposalText string   `json:"proposalText,omitempty"`
	BarterOffer  []string `json:"barterOffer,omitempty"`
	PaymentOffer *float64 `json:"paymentOffer,omitempty"`
}

type BidProject struct {
	ID                     string  `json:"id"`
	Title                  string  `json:"title"`
	Description            string  `json:"description"`
	Status                 string  `json:"status"`
	PreferredPaymentMethod string  `json:"preferredPaymentMethod"`
	Client                 *Person `json:"client"`
}

type Bid struct {
	ID           string      `json:"id"`
	ProjectID    string      `json:"projectId"`
	FreelancerID string      `json:"freelancerId"`
	Project      *BidProject `json:"project"`
	Freelancer   *Person     `json:"freelancer"`
	ProposalText string      `json:"proposalText"`
	BarterOffer  []string    `json:"barterOffer"`
	PaymentOffer *float64    `json:"paymentOffer"`
	Status       string      `json:"status"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}
