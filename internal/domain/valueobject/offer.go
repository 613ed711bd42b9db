package valueobject

import (
	"fmt"
	"math"
	"strings"

	"github.com/ignatzorin/barter-backend/internal/pkg/apperror"
)

// Money: денежная часть предложения. Валюта в маркетплейсе одна.
type Money struct {
	Amount float64
}

// MaxMoneyAmount соответствует колонке NUMERIC(12, 2).
const MaxMoneyAmount = 9999999999.99

func NewMoney(amount float64) (Money, error) {
	if math.IsNaN(amount) || amount < 0 {
		return Money{}, apperror.New(apperror.ErrCodeValidation, "сумма не может быть отрицательной")
	}
	if amount > MaxMoneyAmount {
		return Money{}, apperror.New(apperror.ErrCodeValidation, fmt.Sprintf("сумма не может превышать %.2f", MaxMoneyAmount))
	}
	cents := amount * 100
	if math.Abs(cents-math.Round(cents)) > 1e-6 {
		return Money{}, apperror.New(apperror.ErrCodeValidation, "сумма указывается не точнее копеек")
	}
	return Money{Amount: math.Round(cents) / 100}, nil
}

func (m Money) String() string {
	return fmt.Sprintf("%.2f", m.Amount)
}

// NewPaymentOffer проверяет необязательную денежную часть заявки.
func NewPaymentOffer(amount *float64) (*Money, error) {
	if amount == nil {
		return nil, nil
	}
	m, err := NewMoney(*amount)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// SkillSet: упорядоченное множество навыков без пустых значений и повторов.
type SkillSet []string

func NewSkillSet(skills []string) SkillSet {
	set := make(SkillSet, 0, len(skills))
	seen := make(map[string]struct{}, len(skills))
	for _, skill := range skills {
		skill = strings.TrimSpace(skill)
		if skill == "" {
			continue
		}
		key := strings.ToLower(skill)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		set = append(set, skill)
	}
	return set
}

// Contains сравнивает без учёта регистра.
func (s SkillSet) Contains(skill string) bool {
	skill = strings.TrimSpace(skill)
	for _, existing := range s {
		if strings.EqualFold(existing, skill) {
			return true
		}
	}
	return false
}

func (s SkillSet) Strings() []string {
	if s == nil {
		return []string{}
	}
	return []string(s)
}
