package persistence

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/ignatzorin/barter-backend/internal/domain/entity"
	"github.com/ignatzorin/barter-backend/internal/domain/valueobject"
)

var (
	userColumns = []string{
		"u.id", "u.username", "u.email", "u.password_hash", "u.role",
		"u.skills", "u.barter_skills", "u.created_at", "u.updated_at",
	}
	projectColumns = []string{
		"p.id", "p.client_id", "p.title", "p.description", "p.preferred_payment_method",
		"p.skills_required", "p.status", "p.created_at", "p.updated_at",
	}
	bidColumns = []string{
		"b.id", "b.project_id", "b.freelancer_id", "b.proposal_text", "b.barter_offer",
		"b.payment_offer", "b.status", "b.created_at", "b.updated_at",
	}
)

// nested возвращает колонки с псевдонимами вида "prefix.column" для вложенных структур sqlx.
func nested(prefix string, columns []string) []string {
	result := make([]string, len(columns))
	for i, col := range columns {
		result[i] = col + ` AS "` + prefix + "." + col[2:] + `"`
	}
	return result
}

type userRow struct {
	ID           uuid.UUID      `db:"id"`
	Username     string         `db:"username"`
	Email        string         `db:"email"`
	PasswordHash string         `db:"password_hash"`
	Role         string         `db:"role"`
	Skills       pq.StringArray `db:"skills"`
	BarterSkills pq.StringArray `db:"barter_skills"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

func (r userRow) toEntity() *entity.User {
	return &entity.User{
		ID:           r.ID,
		Username:     r.Username,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		Role:         valueobject.Role(r.Role),
		Skills:       valueobject.SkillSet(r.Skills),
		BarterSkills: valueobject.SkillSet(r.BarterSkills),
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

// userSummaryRow: пользователь, присоединённый к проекту или заявке.
type userSummaryRow struct {
	ID           uuid.UUID      `db:"id"`
	Username     string         `db:"username"`
	Email        string         `db:"email"`
	Skills       pq.StringArray `db:"skills"`
	BarterSkills pq.StringArray `db:"barter_skills"`
}

func (r userSummaryRow) toSummary() entity.UserSummary {
	return entity.UserSummary{
		ID:           r.ID,
		Username:     r.Username,
		Email:        r.Email,
		Skills:       valueobject.SkillSet(r.Skills),
		BarterSkills: valueobject.SkillSet(r.BarterSkills),
	}
}

var userSummaryColumns = []string{"u.id", "u.username", "u.email", "u.skills", "u.barter_skills"}

type projectRow struct {
	ID                     uuid.UUID      `db:"id"`
	ClientID               uuid.UUID      `db:"client_id"`
	Title                  string         `db:"title"`
	Description            string         `db:"description"`
	PreferredPaymentMethod string         `db:"preferred_payment_method"`
	SkillsRequired         pq.StringArray `db:"skills_required"`
	Status                 string         `db:"status"`
	CreatedAt              time.Time      `db:"created_at"`
	UpdatedAt              time.Time      `db:"updated_at"`
}

func (r projectRow) toEntity() *entity.Project {
	return &entity.Project{
		ID:                     r.ID,
		ClientID:               r.ClientID,
		Title:                  r.Title,
		Description:            r.Description,
		PreferredPaymentMethod: valueobject.PaymentMethod(r.PreferredPaymentMethod),
		SkillsRequired:         valueobject.SkillSet(r.SkillsRequired),
		Status:                 valueobject.ProjectStatus(r.Status),
		CreatedAt:              r.CreatedAt,
		UpdatedAt:              r.UpdatedAt,
	}
}

type projectWithClientRow struct {
	Project projectRow     `db:"project"`
	Client  userSummaryRow `db:"client"`
}

func (r projectWithClientRow) toEntity() *entity.ProjectWithClient {
	return &entity.ProjectWithClient{
		Project: r.Project.toEntity(),
		Client:  r.Client.toSummary(),
	}
}

type bidRow struct {
	ID           uuid.UUID      `db:"id"`
	ProjectID    uuid.UUID      `db:"project_id"`
	FreelancerID uuid.UUID      `db:"freelancer_id"`
	ProposalText string         `db:"proposal_text"`
	BarterOffer  pq.StringArray `db:"barter_offer"`
	PaymentOffer *float64       `db:"payment_offer"`
	Status       string         `db:"status"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

func (r bidRow) toEntity() *entity.Bid {
	b := &entity.Bid{
		ID:           r.ID,
		ProjectID:    r.ProjectID,
		FreelancerID: r.FreelancerID,
		ProposalText: r.ProposalText,
		BarterOffer:  valueobject.SkillSet(r.BarterOffer),
		Status:       valueobject.BidStatus(r.Status),
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
	if r.PaymentOffer != nil {
		b.PaymentOffer = &valueobject.Money{Amount: *r.PaymentOffer}
	}
	return b
}

func toBidEntities(rows []bidRow) []*entity.Bid {
	result := make([]*entity.Bid, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.toEntity())
	}
	return result
}

type bidWithFreelancerRow struct {
	Bid        bidRow         `db:"bid"`
	Freelancer userSummaryRow `db:"freelancer"`
}

type bidWithProjectRow struct {
	Bid     bidRow         `db:"bid"`
	Project projectRow     `db:"project"`
	Client  userSummaryRow `db:"client"`
}

type bidDetailsRow struct {
	Bid        bidRow         `db:"bid"`
	Project    projectRow     `db:"project"`
	Freelancer userSummaryRow `db:"freelancer"`
}
