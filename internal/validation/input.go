package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ignatzorin/barter-backend/internal/pkg/apperror"
)

const (
	MinUsernameLength     = 3
	MaxUsernameLength     = 30
	MaxProjectTitleLength = 200
	MaxDescriptionLength  = 5000
	MaxProposalLength     = 5000
	MaxSkillLength        = 50
	MaxSkillsCount        = 50
)

var (
	emailLocalRegex  = regexp.MustCompile(`^[a-z0-9._+-]+$`)
	emailDomainRegex = regexp.MustCompile(`^[a-z0-9.-]+\.[a-z]{2,}$`)
	usernameRegex    = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
)

// ValidateLength проверяет длину строки в символах.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return fmt.Errorf("%s должен быть не менее %d символов", fieldName, min)
	}
	if max > 0 && length > max {
		return fmt.Errorf("%s должен быть не более %d символов", fieldName, max)
	}
	return nil
}

// ValidateEmail проверяет формат email.
func ValidateEmail(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return fmt.Errorf("email обязателен")
	}

	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return fmt.Errorf("некорректный формат email")
	}

	localPart, domainPart := parts[0], parts[1]

	if len(localPart) == 0 || len(localPart) > 64 {
		return fmt.Errorf("локальная часть email должна быть от 1 до 64 символов")
	}
	if len(domainPart) == 0 || len(domainPart) > 255 {
		return fmt.Errorf("доменная часть email должна быть от 1 до 255 символов")
	}
	if !emailLocalRegex.MatchString(localPart) {
		return fmt.Errorf("локальная часть email содержит недопустимые символы")
	}
	if !emailDomainRegex.MatchString(domainPart) {
		return fmt.Errorf("доменная часть email имеет некорректный формат")
	}

	return nil
}

// ValidateUsername проверяет имя пользователя.
func ValidateUsername(username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return fmt.Errorf("имя пользователя обязательно")
	}

	if err := ValidateLength("имя пользователя", username, MinUsernameLength, MaxUsernameLength); err != nil {
		return err
	}

	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("имя пользователя может содержать только буквы, цифры и подчеркивание")
	}

	if unicode.IsDigit(rune(username[0])) {
		return fmt.Errorf("имя пользователя не может начинаться с цифры")
	}

	return nil
}

// ValidateProject проверяет текстовые поля проекта.
func ValidateProject(title, description string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("название проекта обязательно")
	}
	if err := ValidateLength("название проекта", strings.TrimSpace(title), 0, MaxProjectTitleLength); err != nil {
		return err
	}
	return ValidateLength("описание проекта", strings.TrimSpace(description), 0, MaxDescriptionLength)
}

// ValidateProposal проверяет текст заявки. Текст необязателен.
func ValidateProposal(text string) error {
	return ValidateLength("текст заявки", strings.TrimSpace(text), 0, MaxProposalLength)
}

// ValidateSkills проверяет размер набора навыков. Пустые значения и повторы
// не ошибка: набор нормализуется при создании сущности.
func ValidateSkills(fieldName string, skills []string) error {
	if len(skills) > MaxSkillsCount {
		return fmt.Errorf("%s: не более %d навыков", fieldName, MaxSkillsCount)
	}

	for _, skill := range skills {
		if utf8.RuneCountInString(strings.TrimSpace(skill)) > MaxSkillLength {
			return fmt.Errorf("%s: навык не может быть длиннее %d символов", fieldName, MaxSkillLength)
		}
	}

	return nil
}

// Check возвращает первую ошибку из списка как ошибку валидации API.
func Check(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return Invalid(err)
		}
	}
	return nil
}

func Invalid(err error) error {
	return apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
}
