package valueobject

import "github.com/ignatzorin/barter-backend/internal/pkg/apperror"

type ProjectStatus string

const (
	ProjectStatusOpen       ProjectStatus = "open"
	ProjectStatusInProgress ProjectStatus = "in progress"
	ProjectStatusCompleted  ProjectStatus = "completed"
)

func (s ProjectStatus) IsValid() bool {
	switch s {
	case ProjectStatusOpen, ProjectStatusInProgress, ProjectStatusCompleted:
		return true
	}
	return false
}

// CanTransitionTo описывает переходы, которые владелец может сделать вручную.
// open -> in progress сюда не входит: этот переход выполняет только принятие заявки.
func (s ProjectStatus) CanTransitionTo(newStatus ProjectStatus) bool {
	transitions := map[ProjectStatus][]ProjectStatus{
		ProjectStatusOpen:       {},
		ProjectStatusInProgress: {ProjectStatusCompleted},
		ProjectStatusCompleted:  {},
	}

	allowed, ok := transitions[s]
	if !ok {
		return false
	}

	for _, status := range allowed {
		if status == newStatus {
			return true
		}
	}
	return false
}

func NewProjectStatus(status string) (ProjectStatus, error) {
	s := ProjectStatus(status)
	if !s.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "некорректный статус проекта")
	}
	return s, nil
}

type BidStatus string

const (
	BidStatusPending  BidStatus = "pending"
	BidStatusAccepted BidStatus = "accepted"
	BidStatusRejected BidStatus = "rejected"
)

func (s BidStatus) IsValid() bool {
	switch s {
	case BidStatusPending, BidStatusAccepted, BidStatusRejected:
		return true
	}
	return false
}

// IsTerminal сообщает, что из статуса нет обратного пути в pending.
func (s BidStatus) IsTerminal() bool {
	return s == BidStatusAccepted || s == BidStatusRejected
}

func NewBidStatus(status string) (BidStatus, error) {
	s := BidStatus(status)
	if !s.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "некорректный статус заявки")
	}
	return s, nil
}

// NewBidDecision разбирает решение владельца проекта: только accepted или rejected.
func NewBidDecision(status string) (BidStatus, error) {
	s := BidStatus(status)
	if !s.IsTerminal() {
		return "", apperror.New(apperror.ErrCodeValidation, "статус заявки должен быть accepted или rejected")
	}
	return s, nil
}

type PaymentMethod string

const (
	PaymentMethodSkill PaymentMethod = "skill"
	PaymentMethodMoney PaymentMethod = "money"
	PaymentMethodBoth  PaymentMethod = "both"
)

func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodSkill, PaymentMethodMoney, PaymentMethodBoth:
		return true
	}
	return false
}

// NewPaymentMethod возвращает money для пустого значения.
func NewPaymentMethod(method string) (PaymentMethod, error) {
	if method == "" {
		return PaymentMethodMoney, nil
	}
	m := PaymentMethod(method)
	if !m.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "способ оплаты должен быть skill, money или both")
	}
	return m, nil
}

type Role string

const (
	RoleClient     Role = "client"
	RoleFreelancer Role = "freelancer"
)

func (r Role) IsValid() bool {
	return r == RoleClient || r == RoleFreelancer
}

func NewRole(role string) (Role, error) {
	r := Role(role)
	if !r.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "роль должна быть client или freelancer")
	}
	return r, nil
}
