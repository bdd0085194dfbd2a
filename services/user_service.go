package services

import (
	"context"
	"errors"
	"time"

	"github.com/esportdb/esport-manager/models"
	"github.com/esportdb/esport-manager/repositories"
	"github.com/esportdb/esport-manager/utils"
	"github.com/esportdb/esport-manager/validation"
)

type UserService struct {
	tx    repositories.TxRunner
	users repositories.UserRepository
}

func NewUserService(tx repositories.TxRunner, users repositories.UserRepository) *UserService {
	return &UserService{tx: tx, users: users}
}

// UserPatch — частичное обновление; nil-поля не трогаются.
type UserPatch struct {
	Username  *string          `json:"username,omitempty"`
	Email     *string          `json:"email,omitempty"`
	Role      *models.UserRole `json:"role,omitempty"`
	Password  *string          `json:"password,omitempty"`
	LastLogin *time.Time       `json:"last_login,omitempty"`
}

// Create валидирует кандидата и вставляет его. Пароль передаётся открытым
// текстом и хэшируется здесь; при импорте вместо пароля допускается уже
// готовый PasswordHash.
func (s *UserService) Create(ctx context.Context, user *models.User, password string) (*models.User, error) {
	return s.CreateTx(ctx, nil, user, password)
}

func (s *UserService) CreateTx(ctx context.Context, exec repositories.SQLExecutor, user *models.User, password string) (*models.User, error) {
	errs := validation.ValidateUser(user)

	switch {
	case password != "":
		if len(password) < 8 {
			return nil, ErrPasswordTooShort
		}
		hash, err := utils.HashPassword(password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	case user.PasswordHash == "":
		errs.Add("password", validation.RuleRequired, "password is required")
	}

	if errs.Any() {
		return nil, newValidationError("user", errs)
	}
	if err := s.checkUnique(ctx, exec, user, 0); err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, exec, user); err != nil {
		return nil, s.translate(err, user)
	}
	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id int) (*models.User, error) {
	user, err := s.users.GetByID(ctx, nil, id)
	if err != nil {
		return nil, s.translate(err, nil)
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context, filter repositories.UserFilter) ([]*models.User, error) {
	return s.users.List(ctx, nil, filter)
}

// Update загружает запись, накладывает патч и перепроверяет её целиком,
// как новую (уникальность — исключая саму запись).
func (s *UserService) Update(ctx context.Context, id int, patch UserPatch) (*models.User, error) {
	user, err := s.users.GetByID(ctx, nil, id)
	if err != nil {
		return nil, s.translate(err, nil)
	}

	if patch.Username != nil {
		user.Username = *patch.Username
	}
	if patch.Email != nil {
		user.Email = *patch.Email
	}
	if patch.Role != nil {
		user.Role = *patch.Role
	}
	if patch.LastLogin != nil {
		user.LastLogin = patch.LastLogin
	}
	if patch.Password != nil {
		if len(*patch.Password) < 8 {
			return nil, ErrPasswordTooShort
		}
		hash, err := utils.HashPassword(*patch.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if errs := validation.ValidateUser(user); errs.Any() {
		return nil, newValidationError("user", errs)
	}
	if err := s.checkUnique(ctx, nil, user, id); err != nil {
		return nil, err
	}
	if err := s.users.Update(ctx, nil, user); err != nil {
		return nil, s.translate(err, user)
	}
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, id int) error {
	if err := s.users.Delete(ctx, nil, id); err != nil {
		return s.translate(err, nil)
	}
	return nil
}

// VerifyPassword сверяет пароль с хранимым bcrypt-хэшем.
func (s *UserService) VerifyPassword(ctx context.Context, id int, password string) error {
	user, err := s.users.GetByID(ctx, nil, id)
	if err != nil {
		return s.translate(err, nil)
	}
	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return ErrInvalidCredentials
	}
	return nil
}

// RecordLogin проставляет last_login текущим временем.
func (s *UserService) RecordLogin(ctx context.Context, id int) error {
	user, err := s.users.GetByID(ctx, nil, id)
	if err != nil {
		return s.translate(err, nil)
	}
	now := time.Now().UTC()
	user.LastLogin = &now
	if err := s.users.Update(ctx, nil, user); err != nil {
		return s.translate(err, user)
	}
	return nil
}

func (s *UserService) checkUnique(ctx context.Context, exec repositories.SQLExecutor, user *models.User, selfID int) error {
	existing, err := s.users.GetByUsername(ctx, exec, user.Username)
	if err == nil && existing.ID != selfID {
		return &ConflictError{Entity: "user", Field: "username", Value: user.Username}
	}
	if err != nil && !errors.Is(err, repositories.ErrUserNotFound) {
		return err
	}

	existing, err = s.users.GetByEmail(ctx, exec, user.Email)
	if err == nil && existing.ID != selfID {
		return &ConflictError{Entity: "user", Field: "email", Value: user.Email}
	}
	if err != nil && !errors.Is(err, repositories.ErrUserNotFound) {
		return err
	}
	return nil
}

// translate переводит ошибки репозитория в словарь сервисного слоя;
// конфликтные ветки срабатывают только как подстраховка движка, обычно
// их перехватывает checkUnique.
func (s *UserService) translate(err error, user *models.User) error {
	if errors.Is(err, repositories.ErrUserNotFound) {
		return ErrUserNotFound
	}
	if user != nil {
		switch {
		case errors.Is(err, repositories.ErrUserEmailConflict):
			return &ConflictError{Entity: "user", Field: "email", Value: user.Email}
		case errors.Is(err, repositories.ErrUserUsernameConflict):
			return &ConflictError{Entity: "user", Field: "username", Value: user.Username}
		}
	}
	return err
}
