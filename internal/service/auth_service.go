package service

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/google/uuid"

	"github.com/ignatzorin/barter-backend/internal/domain/entity"
	"github.com/ignatzorin/barter-backend/internal/domain/repository"
	"github.com/ignatzorin/barter-backend/internal/domain/valueobject"
	"github.com/ignatzorin/barter-backend/internal/logger"
	"github.com/ignatzorin/barter-backend/internal/pkg/apperror"
	"github.com/ignatzorin/barter-backend/internal/validation"
)

// AuthService инкапсулирует регистрацию, вход и профиль пользователя.
type AuthService struct {
	users        repository.UserRepository
	tokenManager *TokenManager
}

// RegisterInput содержит данные пользователя при регистрации.
type RegisterInput struct {
	Username     string
	Email        string
	Password     string
	Role         string
	Skills       []string
	BarterSkills []string
}

// LoginInput содержит данные для входа.
type LoginInput struct {
	Email    string
	Password string
}

// UpdateProfileInput: nil-поле означает «не менять».
type UpdateProfileInput struct {
	Username     *string
	Email        *string
	Skills       []string
	BarterSkills []string
}

// AuthResult возвращает итог регистрации или авторизации.
type AuthResult struct {
	User  *entity.User
	Token string
}

// NewAuthService создаёт сервис аутентификации.
func NewAuthService(users repository.UserRepository, tokenManager *TokenManager) *AuthService {
	return &AuthService{
		users:        users,
		tokenManager: tokenManager,
	}
}

// Register создаёт пользователя и сразу выдаёт токен.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	role, err := valueobject.NewRole(in.Role)
	if err != nil {
		return nil, err
	}

	username := strings.TrimSpace(in.Username)
	if username == "" {
		if username, err = s.deriveUsername(ctx, in.Email); err != nil {
			return nil, err
		}
	}

	if err := validation.Check(
		validation.ValidateEmail(in.Email),
		validation.ValidateUsername(username),
		validation.ValidatePassword(in.Password),
		validation.ValidateSkills("skills", in.Skills),
		validation.ValidateSkills("barterSkills", in.BarterSkills),
	); err != nil {
		return nil, err
	}

	if err := s.ensureAvailable(ctx, uuid.Nil, in.Email, username); err != nil {
		return nil, err
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось захешировать пароль")
	}

	user := entity.NewUser(username, in.Email, string(passHash), role, in.Skills, in.BarterSkills)

	// Параллельная регистрация с теми же данными упрётся в уникальный индекс и вернёт Conflict.
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	return s.issue(user)
}

// Login проверяет учётные данные и возвращает токен.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	user, err := s.users.FindByEmail(ctx, entity.NormalizeEmail(in.Email))
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		logger.WithUser(user.ID).Info("auth service: неудачная попытка входа")
		return nil, apperror.ErrInvalidCredentials
	}

	return s.issue(user)
}

// Authenticate проверяет токен и возвращает пользователя и роль.
func (s *AuthService) Authenticate(token string) (uuid.UUID, valueobject.Role, error) {
	userID, role, err := s.tokenManager.ParseAccess(token)
	if err != nil {
		return uuid.Nil, "", apperror.Wrap(err, apperror.ErrCodeUnauthorized, "недействительный токен")
	}
	return userID, valueobject.Role(role), nil
}

// FindUser возвращает профиль пользователя.
func (s *AuthService) FindUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	return s.users.FindByID(ctx, userID)
}

// UpdateProfile меняет username, email и наборы навыков. Роль не меняется.
func (s *AuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, in UpdateProfileInput) (*entity.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	email, username := user.Email, user.Username
	if in.Email != nil {
		if err := validation.ValidateEmail(*in.Email); err != nil {
			return nil, validation.Invalid(err)
		}
		email = entity.NormalizeEmail(*in.Email)
	}
	if in.Username != nil {
		if err := validation.ValidateUsername(*in.Username); err != nil {
			return nil, validation.Invalid(err)
		}
		username = strings.TrimSpace(*in.Username)
	}
	if err := validation.Check(
		validation.ValidateSkills("skills", in.Skills),
		validation.ValidateSkills("barterSkills", in.BarterSkills),
	); err != nil {
		return nil, err
	}

	if err := s.ensureAvailable(ctx, user.ID, email, username); err != nil {
		return nil, err
	}

	user.UpdateProfile(in.Username, in.Email, in.Skills, in.BarterSkills)

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// ensureAvailable возвращает Conflict, если email или username занят другим пользователем.
func (s *AuthService) ensureAvailable(ctx context.Context, self uuid.UUID, email, username string) error {
	if existing, err := s.users.FindByEmail(ctx, entity.NormalizeEmail(email)); err == nil {
		if existing.ID != self {
			return apperror.New(apperror.ErrCodeConflict, "email уже зарегистрирован")
		}
	} else if !apperror.IsNotFound(err) {
		return err
	}

	if existing, err := s.users.FindByUsername(ctx, username); err == nil {
		if existing.ID != self {
			return apperror.New(apperror.ErrCodeConflict, "имя пользователя уже занято")
		}
	} else if !apperror.IsNotFound(err) {
		return err
	}

	return nil
}

func (s *AuthService) issue(user *entity.User) (*AuthResult, error) {
	token, _, err := s.tokenManager.Generate(user)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось выпустить токен")
	}
	return &AuthResult{User: user, Token: token}, nil
}

// deriveUsername формирует username из email, если его не передали.
// Если имя из email не проходит проверку или уже занято, выдаётся user_xxxxxx.
func (s *AuthService) deriveUsername(ctx context.Context, email string) (string, error) {
	name := strings.Split(strings.TrimSpace(email), "@")[0]
	name = strings.NewReplacer(".", "_", "+", "_", "-", "_").Replace(name)
	name = strings.ToLower(name)
	if validation.ValidateUsername(name) != nil {
		return generatedUsername(), nil
	}

	if _, err := s.users.FindByUsername(ctx, name); err == nil {
		return generatedUsername(), nil
	} else if !apperror.IsNotFound(err) {
		return "", err
	}
	return name, nil
}

func generatedUsername() string {
	return fmt.Sprintf("user_%s", strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
}
